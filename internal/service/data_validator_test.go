package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pairwatch/internal/models"
)

func newTestValidator() *DataValidator {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewDataValidator(log)
}

func TestValidateTickAcceptsGoodTick(t *testing.T) {
	v := newTestValidator()

	tick := &models.Tick{
		Time:   time.Now().UTC(),
		Symbol: "BTCUSDT",
		Price:  65000,
		Qty:    0.01,
	}

	assert.Empty(t, v.ValidateTick(tick))
}

func TestValidateTickRejectsBadFields(t *testing.T) {
	v := newTestValidator()

	tick := &models.Tick{
		Symbol: "",
		Price:  -1,
		Qty:    0,
	}

	problems := v.ValidateTick(tick)
	assert.Len(t, problems, 4)
	assert.Contains(t, problems[0], "symbol is required")
}

func TestValidateTickRejectsFutureTimestamp(t *testing.T) {
	v := newTestValidator()

	tick := &models.Tick{
		Time:   time.Now().Add(2 * time.Hour),
		Symbol: "BTCUSDT",
		Price:  65000,
		Qty:    0.01,
	}

	problems := v.ValidateTick(tick)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "in the future")
}

func TestValidateBarAcceptsGoodBar(t *testing.T) {
	v := newTestValidator()

	bar := &models.Bar{
		BucketStart: time.Now().UTC(),
		Symbol:      "BTCUSDT",
		Interval:    "1m0s",
		Open:        65000,
		High:        65100,
		Low:         64900,
		Close:       65050,
		Volume:      1.2,
	}

	assert.Empty(t, v.ValidateBar(bar))
}

func TestValidateBarRejectsInvertedRange(t *testing.T) {
	v := newTestValidator()

	bar := &models.Bar{
		BucketStart: time.Now().UTC(),
		Symbol:      "BTCUSDT",
		Interval:    "1m0s",
		Open:        65000,
		High:        64900,
		Low:         65100,
		Close:       65000,
		Volume:      1,
	}

	problems := v.ValidateBar(bar)
	assert.NotEmpty(t, problems)
	assert.Contains(t, problems[0], "below low")
}

func TestIngestionDropsInvalidTick(t *testing.T) {
	repo := &fakeTickRepo{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := NewIngestionService(repo, log, 1, time.Minute)

	// Batch size one would flush immediately, but the tick never buffers.
	assert.NoError(t, svc.HandleTick(context.Background(), &models.Tick{Symbol: "BTCUSDT"}))
	assert.Equal(t, 0, svc.BufferedCount())
	assert.Equal(t, 0, repo.count())
}
