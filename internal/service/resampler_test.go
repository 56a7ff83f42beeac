package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pairwatch/internal/models"
)

// recordingBarRepo collects upserted bars
type recordingBarRepo struct {
	mu   sync.Mutex
	bars []*models.Bar
}

func (r *recordingBarRepo) Upsert(ctx context.Context, bar *models.Bar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bars = append(r.bars, bar)
	return nil
}

func (r *recordingBarRepo) UpsertBatch(ctx context.Context, bars []*models.Bar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bars = append(r.bars, bars...)
	return nil
}

func (r *recordingBarRepo) GetBySymbol(ctx context.Context, symbol, interval string, start, end time.Time) ([]*models.Bar, error) {
	return nil, nil
}

func (r *recordingBarRepo) GetLatest(ctx context.Context, symbol, interval string, limit int) ([]*models.Bar, error) {
	return nil, nil
}

type fakeBackfiller struct {
	bars []*models.Bar
}

func (f *fakeBackfiller) GetKlines(ctx context.Context, symbol string, interval time.Duration, limit int) ([]*models.Bar, error) {
	return f.bars, nil
}

func TestResampleSymbolWritesBars(t *testing.T) {
	tickRepo := &fakeTickRepo{}
	barRepo := &recordingBarRepo{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	// Seed ticks inside the lookback window.
	now := time.Now().UTC()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, tickRepo.Insert(ctx, &models.Tick{
			Time:   now.Add(-time.Duration(10-i) * time.Second),
			Symbol: "BTCUSDT",
			Price:  65000 + float64(i),
			Qty:    0.1,
		}))
	}

	svc := NewResampleService(tickRepo, barRepo, log, time.Minute, 0)

	n, err := svc.ResampleSymbol(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Greater(t, n, 0)
	assert.Len(t, barRepo.bars, n)
	assert.Equal(t, "BTCUSDT", barRepo.bars[0].Symbol)
}

func TestResampleSymbolNoTicks(t *testing.T) {
	tickRepo := &fakeTickRepo{}
	barRepo := &recordingBarRepo{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := NewResampleService(tickRepo, barRepo, log, time.Minute, 0)

	n, err := svc.ResampleSymbol(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, barRepo.bars)
}

func TestBackfillStoresBars(t *testing.T) {
	barRepo := &recordingBarRepo{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := NewResampleService(&fakeTickRepo{}, barRepo, log, time.Minute, 0)

	backfiller := &fakeBackfiller{bars: []*models.Bar{
		{Symbol: "BTCUSDT", Interval: "1m0s", Close: 65000},
		{Symbol: "BTCUSDT", Interval: "1m0s", Close: 65050},
	}}

	require.NoError(t, svc.Backfill(context.Background(), backfiller, []string{"BTCUSDT"}, 2))
	assert.Len(t, barRepo.bars, 2)
}

func TestBackfillZeroLimitIsNoOp(t *testing.T) {
	barRepo := &recordingBarRepo{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := NewResampleService(&fakeTickRepo{}, barRepo, log, time.Minute, 0)

	require.NoError(t, svc.Backfill(context.Background(), &fakeBackfiller{}, []string{"BTCUSDT"}, 0))
	assert.Empty(t, barRepo.bars)
}
