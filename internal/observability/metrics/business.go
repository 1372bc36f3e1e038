package metrics

import (
	"database/sql"
	"time"
)

// Store write outcomes.
const (
	WriteSuccess = "success"
	WriteFailure = "failure"
	// WriteSkipped marks writes refused by an open circuit breaker.
	WriteSkipped = "skipped"
)

// RecordStoreWrite records one insert attempt and its duration.
func RecordStoreWrite(table, status string, duration time.Duration) {
	StoreWritesTotal.WithLabelValues(table, status).Inc()
	if status != WriteSkipped {
		DBQueryDuration.WithLabelValues("insert_" + table).Observe(duration.Seconds())
	}
}

// RecordDBQuery records the duration of a database operation
// (e.g. "count_summaries", "delete_expired_summaries").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateRecordsTotal sets the row count gauge for table.
func UpdateRecordsTotal(table string, count int64) {
	RecordsTotal.WithLabelValues(table).Set(float64(count))
}

// UpdateDBConnectionStats copies pool statistics into the connection gauges.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
}
