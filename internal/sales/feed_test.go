package sales

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func fixedClock() func() time.Time {
	return func() time.Time { return thursday }
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)), fixedClock())

	seenIDs := map[string]bool{}
	for i := 0; i < 500; i++ {
		s := gen.Generate()

		assert.False(t, seenIDs[s.ID], "Expected unique sale IDs")
		seenIDs[s.ID] = true
		assert.Contains(t, Catalog, s.ProductName)
		assert.Contains(t, Platforms, s.Platform)
		assert.True(t, s.Commission.GreaterThanOrEqual(MinCommission), "commission %s below range", s.Commission)
		assert.True(t, s.Commission.LessThanOrEqual(MaxCommission), "commission %s above range", s.Commission)
		assert.LessOrEqual(t, s.Commission.Exponent()*-1, int32(2), "Expected at most two decimal places")
		assert.False(t, s.SaleDate.After(thursday), "Expected sale not dated in the future")
		assert.False(t, s.SaleDate.Before(thursday.Add(-MaxBackdate)), "Expected sale within the past 30 days")
	}
}

func TestGenerator_GenerateNow(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(2)), fixedClock())

	s := gen.GenerateNow()
	assert.True(t, thursday.Equal(s.SaleDate), "Expected sale stamped at now")
}

func newTestFeed(t *testing.T, seed int64, opts ...FeedOption) *Feed {
	gen := NewGenerator(rand.New(rand.NewSource(seed)), fixedClock())
	opts = append([]FeedOption{
		WithFetchDelay(0),
		WithPollDelay(0),
		WithLogger(zaptest.NewLogger(t)),
	}, opts...)
	return NewFeed(gen, opts...)
}

func TestFeed_FetchAll(t *testing.T) {
	feed := newTestFeed(t, 3)

	batch, err := feed.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 50, "Expected exactly 50 sales")

	for i, s := range batch {
		assert.True(t, s.Commission.GreaterThanOrEqual(MinCommission))
		assert.True(t, s.Commission.LessThanOrEqual(MaxCommission))
		assert.False(t, s.SaleDate.Before(thursday.Add(-MaxBackdate)))
		if i > 0 {
			assert.False(t, s.SaleDate.After(batch[i-1].SaleDate), "Expected descending sale dates at %d", i)
		}
	}
}

func TestFeed_FetchAllWaitsForDelay(t *testing.T) {
	feed := newTestFeed(t, 4, WithFetchDelay(20*time.Millisecond), WithBatchSize(3))

	start := time.Now()
	batch, err := feed.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch, 3)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFeed_CancelledContext(t *testing.T) {
	feed := newTestFeed(t, 5, WithFetchDelay(time.Hour), WithPollDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := feed.FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = feed.PollNew(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeed_PollNew(t *testing.T) {
	feed := newTestFeed(t, 6)

	const polls = 5000
	hits := 0
	for i := 0; i < polls; i++ {
		s, err := feed.PollNew(context.Background())
		require.NoError(t, err, "Expected polling to never fail")
		if s == nil {
			continue
		}
		hits++
		assert.True(t, thursday.Equal(s.SaleDate), "Expected polled sale stamped at now")
	}

	assert.InDelta(t, DefaultNewSaleChance, float64(hits)/polls, 0.03, "Expected hit rate near the configured probability")
}

func TestFeed_PollNewProbabilityBounds(t *testing.T) {
	always := newTestFeed(t, 7, WithNewSaleProbability(1))
	never := newTestFeed(t, 8, WithNewSaleProbability(0))

	for i := 0; i < 50; i++ {
		s, err := always.PollNew(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, s)

		s, err = never.PollNew(context.Background())
		require.NoError(t, err)
		assert.Nil(t, s)
	}
}
