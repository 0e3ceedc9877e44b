package sales

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultFetchDelay    = time.Second
	DefaultPollDelay     = 2 * time.Second
	DefaultBatchSize     = 50
	DefaultNewSaleChance = 0.3
)

// Feed simulates the remote sales API: a bulk fetch of historical sales and a
// poll that sometimes yields a fresh sale.
type Feed struct {
	gen         *Generator
	logger      *zap.Logger
	fetchDelay  time.Duration
	pollDelay   time.Duration
	batchSize   int
	probability float64
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

func WithFetchDelay(d time.Duration) FeedOption {
	return func(f *Feed) { f.fetchDelay = d }
}

func WithPollDelay(d time.Duration) FeedOption {
	return func(f *Feed) { f.pollDelay = d }
}

func WithBatchSize(n int) FeedOption {
	return func(f *Feed) { f.batchSize = n }
}

// WithNewSaleProbability sets the chance that PollNew returns a sale.
func WithNewSaleProbability(p float64) FeedOption {
	return func(f *Feed) { f.probability = p }
}

func WithLogger(logger *zap.Logger) FeedOption {
	return func(f *Feed) { f.logger = logger }
}

// NewFeed creates a Feed backed by gen.
func NewFeed(gen *Generator, opts ...FeedOption) *Feed {
	f := &Feed{
		gen:         gen,
		fetchDelay:  DefaultFetchDelay,
		pollDelay:   DefaultPollDelay,
		batchSize:   DefaultBatchSize,
		probability: DefaultNewSaleChance,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

// FetchAll returns a batch of historical sales, newest first. The only
// possible error is the context being done before the simulated latency
// elapses.
func (f *Feed) FetchAll(ctx context.Context) ([]*Sale, error) {
	if err := wait(ctx, f.fetchDelay); err != nil {
		return nil, err
	}

	batch := make([]*Sale, 0, f.batchSize)
	for i := 0; i < f.batchSize; i++ {
		batch = append(batch, f.gen.Generate())
	}
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].SaleDate.After(batch[j].SaleDate)
	})

	f.logger.Debug("sales batch fetched", zap.Int("count", len(batch)))
	return batch, nil
}

// PollNew checks for a new sale. A nil sale with a nil error means nothing
// new arrived, which is a normal outcome.
func (f *Feed) PollNew(ctx context.Context) (*Sale, error) {
	if err := wait(ctx, f.pollDelay); err != nil {
		return nil, err
	}

	if f.gen.Float64() >= f.probability {
		return nil, nil
	}

	sale := f.gen.GenerateNow()
	f.logger.Debug("new sale polled",
		zap.String("sale_id", sale.ID),
		zap.String("platform", string(sale.Platform)),
		zap.String("commission", sale.Commission.StringFixed(2)),
	)
	return sale, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
