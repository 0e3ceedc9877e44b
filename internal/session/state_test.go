package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afili_api/internal/sales"
)

func sale(id string) *sales.Sale {
	return &sales.Sale{
		ID:          id,
		ProductName: sales.Catalog[1],
		Commission:  decimal.RequireFromString("42.50"),
		SaleDate:    time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC),
		Platform:    sales.PlatformKiwify,
	}
}

func saleIDs(list []*sales.Sale) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestParseScreen(t *testing.T) {
	sc, err := ParseScreen("Materials")
	require.NoError(t, err)
	assert.Equal(t, ScreenMaterials, sc)

	_, err = ParseScreen("settings")
	assert.ErrorIs(t, err, ErrInvalidScreen)
}

func TestReduce_LoginLogout(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{})
	assert.True(t, s.Authenticated)
	assert.True(t, s.Loading, "Expected loading until the first fetch completes")
	assert.Equal(t, ScreenDashboard, s.Screen)

	s = Reduce(s, SalesLoaded{Sales: []*sales.Sale{sale("a")}})
	s = Reduce(s, ScreenSelected{Screen: ScreenProfile})
	s = Reduce(s, LoggedOut{})
	assert.Equal(t, Initial(), s, "Expected logout to drop everything")
}

func TestReduce_IgnoresDataWhileLoggedOut(t *testing.T) {
	s := Reduce(Initial(), SalesLoaded{Sales: []*sales.Sale{sale("a")}})
	s = Reduce(s, SaleReceived{Sale: sale("b"), Notification: Notification{ID: 1}})
	s = Reduce(s, ScreenSelected{Screen: ScreenLinks})

	assert.Equal(t, Initial(), s)
}

func TestReduce_SaleReceivedPrepends(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{})
	s = Reduce(s, SalesLoaded{Sales: []*sales.Sale{sale("a"), sale("b")}})
	before := s

	s = Reduce(s, SaleReceived{Sale: sale("new"), Notification: Notification{ID: 7, Message: "hi"}})

	assert.Equal(t, []string{"new", "a", "b"}, saleIDs(s.Sales))
	assert.Equal(t, []string{"a", "b"}, saleIDs(before.Sales), "Expected the previous state untouched")
	require.NotNil(t, s.Notification)
	assert.Equal(t, int64(7), s.Notification.ID)
	assert.False(t, s.Loading)
}

func TestReduce_SalesLoadedKeepsEarlierLiveSales(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{})
	s = Reduce(s, SaleReceived{Sale: sale("live"), Notification: Notification{ID: 1}})
	s = Reduce(s, SalesLoaded{Sales: []*sales.Sale{sale("a"), sale("b")}})

	assert.Equal(t, []string{"live", "a", "b"}, saleIDs(s.Sales))
}

func TestReduce_DismissOnlyMatchingNotification(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{})
	s = Reduce(s, SaleReceived{Sale: sale("a"), Notification: Notification{ID: 1}})
	s = Reduce(s, SaleReceived{Sale: sale("b"), Notification: Notification{ID: 2}})

	s = Reduce(s, NotificationDismissed{ID: 1})
	require.NotNil(t, s.Notification, "Expected a stale dismissal to leave the newer notification")
	assert.Equal(t, int64(2), s.Notification.ID)

	s = Reduce(s, NotificationDismissed{ID: 2})
	assert.Nil(t, s.Notification)
}

func TestNewSaleMessage(t *testing.T) {
	assert.Equal(t, "🎉 Parabéns! Você recebeu uma comissão de R$ 42,50", NewSaleMessage(sale("a")))
}
