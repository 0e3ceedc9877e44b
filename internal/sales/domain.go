package sales

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Platform is the marketplace a sale originated from.
type Platform string

const (
	PlatformHotmart   Platform = "Hotmart"
	PlatformMonetizze Platform = "Monetizze"
	PlatformEduzz     Platform = "Eduzz"
	PlatformKiwify    Platform = "Kiwify"
)

// Platforms lists every known platform.
var Platforms = []Platform{PlatformHotmart, PlatformMonetizze, PlatformEduzz, PlatformKiwify}

// Sale represents a commissioned sale credited to the affiliate.
// Sales are never mutated after creation.
type Sale struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	Commission  decimal.Decimal `json:"commission"`
	SaleDate    time.Time       `json:"sale_date"`
	Platform    Platform        `json:"platform"`
}

// ErrNotFound is returned when a sale with the given ID is not in the list.
var ErrNotFound = errors.New("sale not found")

// Find looks a sale up by ID.
func Find(list []*Sale, id string) (*Sale, error) {
	for _, s := range list {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrNotFound
}
