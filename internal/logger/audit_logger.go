// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogAlertTriggered logs a triggered alert condition.
func (al *AuditLogger) LogAlertTriggered(alertID, pair, rule string, observed, threshold float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"alert_id":  alertID,
		"pair":      pair,
		"rule":      rule,
		"observed":  observed,
		"threshold": threshold,
		"timestamp": timestamp.Unix(),
	}).Info("Alert triggered")
}

// LogSnapshotPersisted logs a persisted analytics snapshot.
func (al *AuditLogger) LogSnapshotPersisted(snapshotID, pair string, zscore, hedgeRatio float64, observations int) {
	al.WithFields(logrus.Fields{
		"snapshot_id":  snapshotID,
		"pair":         pair,
		"zscore":       zscore,
		"hedge_ratio":  hedgeRatio,
		"observations": observations,
	}).Info("Pair snapshot persisted")
}

// LogThresholdChange logs alert threshold changes.
func (al *AuditLogger) LogThresholdChange(rule string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"rule":       rule,
		"old_value":  oldValue,
		"new_value":  newValue,
		"changed_by": changedBy,
	}).Info("Alert threshold changed")
}

// LogFeedDisconnect logs exchange feed disconnect events.
func (al *AuditLogger) LogFeedDisconnect(symbol, reason string, reconnectAttempt int) {
	al.WithFields(logrus.Fields{
		"symbol":            symbol,
		"reason":            reason,
		"reconnect_attempt": reconnectAttempt,
	}).Warn("Feed disconnect recorded")
}
