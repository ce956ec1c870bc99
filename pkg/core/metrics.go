package core

import "github.com/VictoriaMetrics/metrics"

var (
	syncRuns             = metrics.NewCounter("docstore_sync_runs_total")
	syncFailures         = metrics.NewCounter("docstore_sync_failures_total")
	syncDocumentsWritten = metrics.NewCounter("docstore_sync_documents_written_total")
	syncDocumentsDeleted = metrics.NewCounter("docstore_sync_documents_deleted_total")
	syncDuration         = metrics.NewSummary("docstore_sync_duration_seconds")
)
