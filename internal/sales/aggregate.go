package sales

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Window scopes aggregation to sales on or after a start boundary.
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// DefaultWindow is the window used when none is requested.
const DefaultWindow = WindowMonth

// NotApplicable is reported as the top platform of an empty window.
const NotApplicable = "N/A"

// RecentLimit caps the recent-sales list of the dashboard.
const RecentLimit = 5

var ErrInvalidWindow = errors.New("invalid time window")

// ParseWindow validates a window name. An empty name yields DefaultWindow.
func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return DefaultWindow, nil
	case WindowToday, WindowWeek, WindowMonth, WindowAll:
		return w, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrInvalidWindow, s)
	}
}

// Summary holds the statistics of one window. Average is rounded to cents.
type Summary struct {
	Window      Window          `json:"window"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
	Average     decimal.Decimal `json:"average"`
	TopPlatform string          `json:"top_platform"`
}

// ChartPoint is one bar of the commission chart.
type ChartPoint struct {
	Label      string          `json:"label"`
	Commission decimal.Decimal `json:"commission"`
}

// Dashboard is the full view-model of the dashboard screen.
type Dashboard struct {
	Summary Summary      `json:"summary"`
	Chart   []ChartPoint `json:"chart"`
	Recent  []*Sale      `json:"recent"`
}

// Boundary returns the start of window w relative to now, in now's location.
// Weeks start on Sunday. The boolean is false for WindowAll, which has no
// boundary.
func Boundary(w Window, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch w {
	case WindowToday:
		return today, true
	case WindowWeek:
		return today.AddDate(0, 0, -int(today.Weekday())), true
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// Filter returns the sales of list dated on or after the window boundary,
// keeping their relative order.
func Filter(list []*Sale, w Window, now time.Time) []*Sale {
	start, ok := Boundary(w, now)
	if !ok {
		return list
	}

	filtered := make([]*Sale, 0, len(list))
	for _, s := range list {
		if !s.SaleDate.Before(start) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Summarize aggregates the sales of list that fall in window w.
func Summarize(list []*Sale, w Window, now time.Time) Summary {
	return summarize(Filter(list, w, now), w)
}

func summarize(filtered []*Sale, w Window) Summary {
	summary := Summary{
		Window:      w,
		Total:       decimal.Zero,
		Average:     decimal.Zero,
		TopPlatform: NotApplicable,
	}

	byPlatform := map[Platform]decimal.Decimal{}
	var order []Platform
	for _, s := range filtered {
		summary.Count++
		summary.Total = summary.Total.Add(s.Commission)

		sum, seen := byPlatform[s.Platform]
		if !seen {
			order = append(order, s.Platform)
			sum = decimal.Zero
		}
		byPlatform[s.Platform] = sum.Add(s.Commission)
	}

	if summary.Count == 0 {
		return summary
	}
	summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)

	// Ties keep the platform seen first.
	top := order[0]
	for _, p := range order[1:] {
		if byPlatform[p].GreaterThan(byPlatform[top]) {
			top = p
		}
	}
	summary.TopPlatform = string(top)
	return summary
}

// BuildDashboard derives the dashboard view-model for window w.
func BuildDashboard(list []*Sale, w Window, now time.Time) Dashboard {
	filtered := Filter(list, w, now)

	ordered := make([]*Sale, len(filtered))
	copy(ordered, filtered)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SaleDate.Before(ordered[j].SaleDate)
	})
	chart := make([]ChartPoint, 0, len(ordered))
	for _, s := range ordered {
		chart = append(chart, ChartPoint{
			Label:      s.SaleDate.In(now.Location()).Format("02/01"),
			Commission: s.Commission,
		})
	}

	recent := filtered
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}

	return Dashboard{
		Summary: summarize(filtered, w),
		Chart:   chart,
		Recent:  append([]*Sale{}, recent...),
	}
}

// FormatBRL renders an amount the way the app displays money, e.g. "R$ 12,34".
func FormatBRL(amount decimal.Decimal) string {
	return "R$ " + strings.Replace(amount.StringFixed(2), ".", ",", 1)
}
