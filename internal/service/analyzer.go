package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pairwatch/internal/analytics"
	"github.com/yourusername/pairwatch/internal/logger"
	"github.com/yourusername/pairwatch/internal/metrics"
	"github.com/yourusername/pairwatch/internal/models"
	"github.com/yourusername/pairwatch/internal/repository"
	"github.com/yourusername/pairwatch/internal/timeseries"
)

// minOverlappingBars is the floor below which a pair analysis is skipped.
// Ratio estimation on fewer points produces numbers without meaning.
const minOverlappingBars = 5

// AnalyzerConfig holds the tunables for a pair analysis run
type AnalyzerConfig struct {
	Window             int
	EstimatorName      string
	Interval           string
	LookbackBars       int
	MaxLag             int
	StationarityPValue float64
	Alerts             analytics.AlertConfig
}

// AnalyzerService runs the full pair analytics pipeline: load bars, align
// legs, estimate the hedge ratio, compute spread diagnostics, evaluate
// alerts, and persist the results.
type AnalyzerService struct {
	barRepo      repository.BarRepository
	snapshotRepo repository.SnapshotRepository
	alertRepo    repository.AlertRepository
	cache        *SnapshotCache
	cfg          AnalyzerConfig
	log          *logrus.Logger
	analyticsLog *logger.AnalyticsLogger
	auditLog     *logger.AuditLogger
}

// NewAnalyzerService creates a new analyzer service
func NewAnalyzerService(
	barRepo repository.BarRepository,
	snapshotRepo repository.SnapshotRepository,
	alertRepo repository.AlertRepository,
	cache *SnapshotCache,
	cfg AnalyzerConfig,
	log *logrus.Logger,
) *AnalyzerService {
	return &AnalyzerService{
		barRepo:      barRepo,
		snapshotRepo: snapshotRepo,
		alertRepo:    alertRepo,
		cache:        cache,
		cfg:          cfg,
		log:          log,
		analyticsLog: logger.NewAnalyticsLogger(log),
		auditLog:     logger.NewAuditLogger(log),
	}
}

// newEstimator maps the configured estimator name to an implementation
func newEstimator(name string) (analytics.Estimator, error) {
	switch name {
	case "huber":
		return analytics.NewHuberEstimator(), nil
	case "filter":
		return analytics.NewFilterEstimator(), nil
	default:
		return nil, fmt.Errorf("unknown estimator: %q", name)
	}
}

// AnalyzePair runs the pipeline for one pair and returns the persisted
// snapshot together with any triggered alerts
func (s *AnalyzerService) AnalyzePair(ctx context.Context, pair models.Pair) (*models.PairSnapshot, []models.AlertEvent, error) {
	start := time.Now()
	name := pair.Name()

	estimator, err := newEstimator(s.cfg.EstimatorName)
	if err != nil {
		return nil, nil, err
	}

	y, err := s.loadCloses(ctx, pair.SymbolY)
	if err != nil {
		return nil, nil, err
	}
	x, err := s.loadCloses(ctx, pair.SymbolX)
	if err != nil {
		return nil, nil, err
	}

	// Align the two legs on shared bar timestamps
	y, x = timeseries.Intersect(y, x)
	if len(y) < minOverlappingBars {
		metrics.RecordAnalysisSkipped()
		s.analyticsLog.LogAnalysisSkipped(name, "insufficient_overlap", len(y))
		return nil, nil, nil
	}

	// A window larger than the sample would leave every z-score undefined,
	// so shrink it to the largest usable size.
	window := s.cfg.Window
	if window >= len(y) {
		window = len(y) - 1
	}
	if window < 2 {
		window = 2
	}

	ratio, err := estimator.Estimate(y, x)
	if err != nil {
		return nil, nil, fmt.Errorf("hedge ratio estimation failed for %s: %w", name, err)
	}
	s.analyticsLog.LogHedgeRatio(name, estimator.Name(), ratio.Latest(), len(y))

	spread, zscore, err := analytics.ComputeSpread(y, x, ratio, window)
	if err != nil {
		return nil, nil, fmt.Errorf("spread computation failed for %s: %w", name, err)
	}

	correlation, err := analytics.RollingCorrelation(x, y, window)
	if err != nil {
		return nil, nil, fmt.Errorf("rolling correlation failed for %s: %w", name, err)
	}

	snapshot := &models.PairSnapshot{
		ID:           uuid.New(),
		Time:         time.Now().UTC(),
		Pair:         name,
		HedgeRatio:   ratio.Latest(),
		Spread:       timeseries.Undefined(),
		ZScore:       timeseries.Undefined(),
		Correlation:  timeseries.Undefined(),
		ADFStatistic: timeseries.Undefined(),
		ADFPValue:    timeseries.Undefined(),
		RSquared:     timeseries.Undefined(),
		Observations: len(y),
		Window:       window,
	}

	if p, ok := spread.LastDefined(); ok {
		snapshot.Spread = p.Value
	}
	if p, ok := zscore.LastDefined(); ok {
		snapshot.ZScore = p.Value
	}
	if p, ok := correlation.LastDefined(); ok {
		snapshot.Correlation = p.Value
	}

	if r2, err := analytics.OLSRSquared(y, x); err == nil {
		snapshot.RSquared = r2
	}

	if adf, err := analytics.TestStationarity(spread); err == nil {
		snapshot.ADFStatistic = adf.Statistic
		snapshot.ADFPValue = adf.PValue
		s.analyticsLog.LogStationarity(name, adf.Statistic, adf.PValue,
			adf.Lags, adf.Observations, adf.PValue < s.stationarityThreshold())
	} else {
		s.log.Debugf("Stationarity test unavailable for %s: %v", name, err)
	}

	s.logLeadLag(name, x, y)

	alerts := analytics.EvaluateAlerts(zscore, spread, correlation, s.cfg.Alerts)

	events, err := s.persist(ctx, snapshot, alerts)
	if err != nil {
		return nil, nil, err
	}

	s.publishMetrics(name, snapshot)
	metrics.RecordAnalysis(time.Since(start).Seconds())
	s.analyticsLog.LogPairAnalysis(name, estimator.Name(), len(y), window,
		snapshot.ZScore, len(events), float64(time.Since(start).Milliseconds()))

	return snapshot, events, nil
}

// AnalyzeAll runs the pipeline for every configured pair, continuing past
// per-pair failures
func (s *AnalyzerService) AnalyzeAll(ctx context.Context, pairs []models.Pair) error {
	var firstErr error
	for _, pair := range pairs {
		if _, _, err := s.AnalyzePair(ctx, pair); err != nil {
			s.log.Errorf("Analysis failed for %s: %v", pair.Name(), err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LatestSnapshot returns the most recent analysis for a pair, consulting the
// cache before the database
func (s *AnalyzerService) LatestSnapshot(ctx context.Context, pair string) (*models.PairSnapshot, error) {
	if cached := s.cache.Get(pair); cached != nil {
		return cached, nil
	}

	snapshot, err := s.snapshotRepo.GetLatestByPair(ctx, pair)
	if err != nil {
		return nil, err
	}

	s.cache.Set(pair, snapshot)
	return snapshot, nil
}

func (s *AnalyzerService) stationarityThreshold() float64 {
	if s.cfg.StationarityPValue > 0 {
		return s.cfg.StationarityPValue
	}
	return 0.05
}

// logLeadLag scans the cross-correlation and reports the lag with the
// strongest coefficient. Diagnostic only; nothing downstream keys off it.
func (s *AnalyzerService) logLeadLag(name string, x, y timeseries.Series) {
	maxLag := s.cfg.MaxLag
	if maxLag <= 0 {
		maxLag = analytics.DefaultMaxLag
	}

	cc, err := analytics.CrossCorrelation(x, y, maxLag)
	if err != nil {
		s.log.Debugf("Cross-correlation unavailable for %s: %v", name, err)
		return
	}

	bestLag, bestCorr := 0, timeseries.Undefined()
	for lag, corr := range cc {
		if !timeseries.Defined(corr) {
			continue
		}
		if !timeseries.Defined(bestCorr) || abs(corr) > abs(bestCorr) {
			bestLag, bestCorr = lag, corr
		}
	}
	if !timeseries.Defined(bestCorr) {
		return
	}

	s.log.WithFields(logrus.Fields{
		"pair":        name,
		"lag":         bestLag,
		"correlation": bestCorr,
	}).Debug("Lead-lag scan completed")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// loadCloses loads the recent close prices of one symbol as a series
func (s *AnalyzerService) loadCloses(ctx context.Context, symbol string) (timeseries.Series, error) {
	bars, err := s.barRepo.GetLatest(ctx, symbol, s.cfg.Interval, s.cfg.LookbackBars)
	if err != nil {
		return nil, fmt.Errorf("failed to load bars for %s: %w", symbol, err)
	}

	series := make(timeseries.Series, 0, len(bars))
	for _, bar := range bars {
		series = append(series, timeseries.Point{Time: bar.BucketStart, Value: bar.Close})
	}
	return series, nil
}

// persist writes the snapshot and alert rows and refreshes the cache
func (s *AnalyzerService) persist(ctx context.Context, snapshot *models.PairSnapshot, alerts []analytics.Alert) ([]models.AlertEvent, error) {
	if err := s.snapshotRepo.Insert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot for %s: %w", snapshot.Pair, err)
	}
	s.cache.Set(snapshot.Pair, snapshot)
	s.auditLog.LogSnapshotPersisted(snapshot.ID.String(), snapshot.Pair,
		snapshot.ZScore, snapshot.HedgeRatio, snapshot.Observations)

	if len(alerts) == 0 {
		return nil, nil
	}

	events := make([]models.AlertEvent, 0, len(alerts))
	rows := make([]*models.AlertEvent, 0, len(alerts))
	for _, alert := range alerts {
		event := models.AlertEvent{
			ID:        uuid.New(),
			Time:      snapshot.Time,
			Pair:      snapshot.Pair,
			Rule:      alert.Rule,
			Observed:  alert.Observed,
			Threshold: alert.Threshold,
		}
		events = append(events, event)
		rows = append(rows, &events[len(events)-1])

		metrics.RecordAlertTriggered(alert.Rule)
		s.auditLog.LogAlertTriggered(event.ID.String(), event.Pair, event.Rule,
			event.Observed, event.Threshold, event.Time)
	}

	if err := s.alertRepo.InsertBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to persist alerts for %s: %w", snapshot.Pair, err)
	}

	return events, nil
}

// publishMetrics exports the snapshot values as Prometheus gauges
func (s *AnalyzerService) publishMetrics(pair string, snapshot *models.PairSnapshot) {
	if timeseries.Defined(snapshot.ZScore) {
		metrics.UpdatePairZScore(pair, snapshot.ZScore)
	}
	if timeseries.Defined(snapshot.HedgeRatio) {
		metrics.UpdatePairHedgeRatio(pair, s.cfg.EstimatorName, snapshot.HedgeRatio)
	}
	if timeseries.Defined(snapshot.Correlation) {
		metrics.UpdatePairCorrelation(pair, snapshot.Correlation)
	}
	if timeseries.Defined(snapshot.ADFPValue) {
		metrics.UpdatePairStationarity(pair, snapshot.ADFPValue)
	}
}
