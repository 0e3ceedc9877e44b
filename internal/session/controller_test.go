package session

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"afili_api/internal/observability"
	"afili_api/internal/sales"
)

// stubFeed serves a fixed batch and hands out queued sales on poll.
type stubFeed struct {
	batch []*sales.Sale
	gate  chan struct{}
	queue chan *sales.Sale
}

func newStubFeed(batch ...*sales.Sale) *stubFeed {
	return &stubFeed{batch: batch, queue: make(chan *sales.Sale, 8)}
}

func (f *stubFeed) FetchAll(ctx context.Context) ([]*sales.Sale, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.batch, nil
}

func (f *stubFeed) PollNew(ctx context.Context) (*sales.Sale, error) {
	select {
	case s := <-f.queue:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, nil
	}
}

func newTestController(t *testing.T, feed SalesFeed, ttl time.Duration) *Controller {
	c := NewController(feed, zaptest.NewLogger(t), Options{
		PollPeriod:      5 * time.Millisecond,
		NotificationTTL: ttl,
		Metrics:         observability.NewMetrics(),
	})
	t.Cleanup(c.Close)
	return c
}

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestController_StartsIdle(t *testing.T) {
	c := newTestController(t, newStubFeed(), time.Second)

	assert.False(t, c.Authenticated())
	_, err := c.Navigate(ScreenLinks)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.NotPanics(t, c.Logout, "Expected logout while idle to be harmless")
}

func TestController_LoginLoadsSales(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := newTestController(t, newStubFeed(sale("a"), sale("b")), time.Second)

	state := c.Login()
	assert.True(t, state.Authenticated)

	require.Eventually(t, func() bool {
		return !c.Snapshot().Loading
	}, waitFor, tick, "Expected the bulk fetch to finish")
	assert.Equal(t, []string{"a", "b"}, saleIDs(c.Snapshot().Sales))

	again := c.Login()
	assert.Equal(t, []string{"a", "b"}, saleIDs(again.Sales), "Expected a second login to be a no-op")

	c.Logout()
	assert.False(t, c.Authenticated())
	assert.Empty(t, c.Snapshot().Sales)
}

func TestController_PollPrependsAndNotifies(t *testing.T) {
	defer goleak.VerifyNone(t)
	feed := newStubFeed(sale("a"))
	c := newTestController(t, feed, 50*time.Millisecond)
	c.Login()
	require.Eventually(t, func() bool { return !c.Snapshot().Loading }, waitFor, tick)

	feed.queue <- sale("live")

	var s State
	require.Eventually(t, func() bool {
		s = c.Snapshot()
		return len(s.Sales) == 2 && s.Notification != nil
	}, waitFor, tick, "Expected the polled sale to arrive")
	assert.Equal(t, []string{"live", "a"}, saleIDs(s.Sales))
	assert.Contains(t, s.Notification.Message, "R$ 42,50")

	assert.Eventually(t, func() bool {
		return c.Snapshot().Notification == nil
	}, waitFor, tick, "Expected the notification to expire")

	c.Logout()
}

func TestController_OlderTimerKeepsNewerNotification(t *testing.T) {
	defer goleak.VerifyNone(t)
	const ttl = 600 * time.Millisecond
	feed := newStubFeed()
	c := newTestController(t, feed, ttl)
	c.Login()

	feed.queue <- sale("first")
	var first Notification
	require.Eventually(t, func() bool {
		if n := c.Snapshot().Notification; n != nil {
			first = *n
			return true
		}
		return false
	}, waitFor, tick, "Expected a notification for the first sale")

	time.Sleep(ttl / 2)
	feed.queue <- sale("second")
	var second Notification
	require.Eventually(t, func() bool {
		if n := c.Snapshot().Notification; n != nil && n.ID != first.ID {
			second = *n
			return true
		}
		return false
	}, waitFor, tick, "Expected the second sale to replace the banner")

	time.Sleep(time.Until(first.ExpiresAt) + 50*time.Millisecond)
	n := c.Snapshot().Notification
	require.NotNil(t, n, "Expected the first timer to leave the second banner alone")
	assert.Equal(t, second.ID, n.ID)

	assert.Eventually(t, func() bool {
		return c.Snapshot().Notification == nil
	}, waitFor, tick, "Expected the second notification to expire on its own timer")

	c.Logout()
}

func TestController_DismissManually(t *testing.T) {
	defer goleak.VerifyNone(t)
	feed := newStubFeed()
	c := newTestController(t, feed, time.Hour)
	c.Login()

	feed.queue <- sale("live")
	var id int64
	require.Eventually(t, func() bool {
		if n := c.Snapshot().Notification; n != nil {
			id = n.ID
			return true
		}
		return false
	}, waitFor, tick)

	assert.ErrorIs(t, c.Dismiss(id+100), ErrNotificationNotFound)
	require.NoError(t, c.Dismiss(id))
	assert.Nil(t, c.Snapshot().Notification)

	c.Logout()
}

func TestController_LogoutDiscardsInFlightFetch(t *testing.T) {
	defer goleak.VerifyNone(t)
	feed := newStubFeed(sale("a"))
	feed.gate = make(chan struct{})
	c := newTestController(t, feed, time.Second)

	c.Login()
	assert.True(t, c.Snapshot().Loading)
	c.Logout()
	close(feed.gate)

	s := c.Snapshot()
	assert.False(t, s.Authenticated)
	assert.Empty(t, s.Sales, "Expected the cancelled fetch to be dropped")
}

func TestController_ReloginRefetches(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := newTestController(t, newStubFeed(sale("a")), time.Second)

	c.Login()
	require.Eventually(t, func() bool { return !c.Snapshot().Loading }, waitFor, tick)
	_, err := c.Navigate(ScreenMaterials)
	require.NoError(t, err)
	c.Logout()

	s := c.Login()
	assert.True(t, s.Loading)
	assert.Equal(t, ScreenDashboard, s.Screen, "Expected login to land on the dashboard")
	require.Eventually(t, func() bool { return !c.Snapshot().Loading }, waitFor, tick)
	assert.Equal(t, []string{"a"}, saleIDs(c.Snapshot().Sales))
	c.Logout()
}

func TestController_WithSimulatedFeed(t *testing.T) {
	defer goleak.VerifyNone(t)
	gen := sales.NewGenerator(rand.New(rand.NewSource(9)), nil)
	feed := sales.NewFeed(gen,
		sales.WithFetchDelay(0),
		sales.WithPollDelay(0),
		sales.WithNewSaleProbability(1),
	)
	c := newTestController(t, feed, time.Second)

	c.Login()
	require.Eventually(t, func() bool {
		return len(c.Snapshot().Sales) > sales.DefaultBatchSize
	}, waitFor, tick, "Expected live sales on top of the batch")

	s := c.Snapshot()
	assert.False(t, s.Sales[0].SaleDate.Before(s.Sales[len(s.Sales)-1].SaleDate))
	c.Logout()
}
