package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/metrics"
	"github.com/yourusername/pairwatch/internal/models"
	"github.com/yourusername/pairwatch/internal/repository"
)

// IngestionService buffers trade ticks from the stream and flushes them to
// storage in batches. A flush happens when the buffer fills or the flush
// interval elapses, whichever comes first.
type IngestionService struct {
	tickRepo      repository.TickRepository
	validator     *DataValidator
	logger        *logrus.Logger
	batchSize     int
	flushInterval time.Duration

	mu     sync.Mutex
	buffer []*models.Tick
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	tickRepo repository.TickRepository,
	logger *logrus.Logger,
	batchSize int,
	flushInterval time.Duration,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}

	return &IngestionService{
		tickRepo:      tickRepo,
		validator:     NewDataValidator(logger),
		logger:        logger,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		buffer:        make([]*models.Tick, 0, batchSize),
	}
}

// HandleTick buffers one tick and flushes when the batch is full. It is safe
// to call from multiple stream goroutines.
func (s *IngestionService) HandleTick(ctx context.Context, tick *models.Tick) error {
	if problems := s.validator.ValidateTick(tick); len(problems) > 0 {
		s.logger.WithFields(logrus.Fields{
			"symbol":   tick.Symbol,
			"problems": problems,
		}).Warn("Dropping invalid tick")
		return nil
	}

	metrics.RecordTickIngested(tick.Symbol)

	s.mu.Lock()
	s.buffer = append(s.buffer, tick)
	shouldFlush := len(s.buffer) >= s.batchSize
	s.mu.Unlock()

	if shouldFlush {
		return s.Flush(ctx)
	}
	return nil
}

// Flush writes all buffered ticks to storage
func (s *IngestionService) Flush(ctx context.Context) error {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.buffer
	s.buffer = make([]*models.Tick, 0, s.batchSize)
	s.mu.Unlock()

	start := time.Now()
	if err := s.tickRepo.InsertBatch(ctx, batch); err != nil {
		s.logger.Errorf("Failed to flush %d ticks: %v", len(batch), err)

		// Put the batch back so the next flush retries it
		s.mu.Lock()
		s.buffer = append(batch, s.buffer...)
		s.mu.Unlock()
		return err
	}

	metrics.RecordTickBatchFlush(time.Since(start).Seconds())
	s.logger.Debugf("Flushed %d ticks", len(batch))
	return nil
}

// Run flushes the buffer on the configured interval until the context ends.
// A final flush drains whatever is left.
func (s *IngestionService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Flush(flushCtx); err != nil {
				s.logger.Errorf("Final tick flush failed: %v", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				s.logger.Errorf("Periodic tick flush failed: %v", err)
			}
		}
	}
}

// BufferedCount returns the number of ticks waiting to be flushed
func (s *IngestionService) BufferedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}
