package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"afili_api/internal/observability"
	"afili_api/internal/sales"
)

const (
	DefaultPollPeriod      = 15 * time.Second
	DefaultNotificationTTL = 5 * time.Second
)

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNotificationNotFound = errors.New("notification not found")
)

// SalesFeed is the source of historical and live sales.
type SalesFeed interface {
	FetchAll(ctx context.Context) ([]*sales.Sale, error)
	PollNew(ctx context.Context) (*sales.Sale, error)
}

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	PollPeriod      time.Duration
	NotificationTTL time.Duration
	Now             func() time.Time
	Metrics         *observability.Metrics
}

// run is one active period, from login to logout.
type run struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller owns the application state and drives the live update loop.
// While logged out it is idle; Login starts the bulk fetch and the poll
// loop, Logout cancels them.
type Controller struct {
	feed    SalesFeed
	logger  *zap.Logger
	metrics *observability.Metrics
	period  time.Duration
	ttl     time.Duration
	now     func() time.Time

	notificationSeq atomic.Int64

	mu         sync.Mutex
	state      State
	generation uint64
	active     *run
	timers     map[int64]*time.Timer
}

// NewController creates an idle Controller.
func NewController(feed SalesFeed, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if opts.PollPeriod <= 0 {
		opts.PollPeriod = DefaultPollPeriod
	}
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = DefaultNotificationTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		feed:    feed,
		logger:  logger,
		metrics: opts.Metrics,
		period:  opts.PollPeriod,
		ttl:     opts.NotificationTTL,
		now:     opts.Now,
		state:   Initial(),
		timers:  map[int64]*time.Timer{},
	}
}

// Now is the controller's clock.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Login moves the controller to the active state. Logging in while already
// active does nothing.
func (c *Controller) Login() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Authenticated {
		return c.snapshotLocked()
	}

	c.generation++
	gen := c.generation
	c.state = Reduce(c.state, LoggedIn{})

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{cancel: cancel, done: make(chan struct{})}
	c.active = r

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.fetch(ctx, gen)
	}()
	go func() {
		defer wg.Done()
		c.pollLoop(ctx, gen)
	}()
	go func() {
		wg.Wait()
		close(r.done)
	}()

	c.logger.Info("session started", zap.Duration("poll_period", c.period))
	return c.snapshotLocked()
}

// Logout returns the controller to idle. It cancels the poll loop, waits for
// it to exit and drops whatever in-flight operations would have delivered.
func (c *Controller) Logout() {
	c.mu.Lock()
	r := c.active
	if r == nil {
		c.mu.Unlock()
		return
	}
	c.active = nil
	c.generation++
	c.state = Reduce(c.state, LoggedOut{})
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	r.cancel()
	<-r.done
	c.logger.Info("session ended")
}

// Close tears the controller down.
func (c *Controller) Close() {
	c.Logout()
}

// Navigate selects the screen to display.
func (c *Controller) Navigate(screen Screen) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Authenticated {
		return State{}, ErrNotAuthenticated
	}
	c.state = Reduce(c.state, ScreenSelected{Screen: screen})
	return c.snapshotLocked(), nil
}

// Dismiss closes the notification with the given ID.
func (c *Controller) Dismiss(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Notification == nil || c.state.Notification.ID != id {
		return ErrNotificationNotFound
	}
	c.state = Reduce(c.state, NotificationDismissed{ID: id})
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	return nil
}

// Authenticated reports whether the controller is active.
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Authenticated
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Sales = append([]*sales.Sale{}, c.state.Sales...)
	if c.state.Notification != nil {
		n := *c.state.Notification
		s.Notification = &n
	}
	return s
}

// dispatch applies a to the state unless it belongs to an earlier session.
func (c *Controller) dispatch(gen uint64, a Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}
	c.state = Reduce(c.state, a)
	return true
}

func (c *Controller) fetch(ctx context.Context, gen uint64) {
	batch, err := c.feed.FetchAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("failed to fetch sales", zap.Error(err))
		}
		return
	}
	if !c.dispatch(gen, SalesLoaded{Sales: batch}) {
		return
	}
	c.metrics.ObserveFetch(len(batch))
	c.logger.Info("sales loaded", zap.Int("count", len(batch)))
}

func (c *Controller) pollLoop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx, gen)
		}
	}
}

func (c *Controller) pollOnce(ctx context.Context, gen uint64) {
	sale, err := c.feed.PollNew(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.metrics.ObservePoll(observability.PollError)
			c.logger.Warn("failed to poll for new sale", zap.Error(err))
		}
		return
	}
	if sale == nil {
		c.metrics.ObservePoll(observability.PollEmpty)
		return
	}

	n := Notification{
		ID:        c.notificationSeq.Add(1),
		Message:   NewSaleMessage(sale),
		ExpiresAt: c.now().Add(c.ttl),
	}
	if !c.dispatch(gen, SaleReceived{Sale: sale, Notification: n}) {
		return
	}
	c.metrics.ObservePoll(observability.PollSale)
	c.metrics.ObserveSale(sale.Commission.InexactFloat64())
	c.scheduleDismiss(gen, n.ID)

	c.logger.Info("new sale received",
		zap.String("sale_id", sale.ID),
		zap.String("platform", string(sale.Platform)),
		zap.String("commission", sale.Commission.StringFixed(2)),
	)
}

// scheduleDismiss expires notification id after the TTL. The timer only
// clears that notification, never a newer one that replaced it.
func (c *Controller) scheduleDismiss(gen uint64, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.timers[id] = time.AfterFunc(c.ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.timers, id)
		if gen == c.generation {
			c.state = Reduce(c.state, NotificationDismissed{ID: id})
		}
	})
}
