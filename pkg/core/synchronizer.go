package core

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Report summarizes one Synchronize run. On failure it describes the work
// completed before the error.
type Report struct {
	RunID       string
	Collections int
	Written     int
	Deleted     int
	Duration    time.Duration
}

// Synchronizer mirrors every collection of a source manager into a target
// manager. The direction is fixed; an instance may be run any number of times
// and keeps no state between runs.
type Synchronizer struct {
	source *DocumentManager
	target *DocumentManager
	logger *slog.Logger

	runs    atomic.Int64
	lastRun atomic.Pointer[Report]
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithSyncLogger sets the logger for synchronization runs.
func WithSyncLogger(logger *slog.Logger) SyncOption {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// NewSynchronizer creates a Synchronizer copying source into target.
func NewSynchronizer(source, target *DocumentManager, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{source: source, target: target}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Synchronize upserts every source document into the target and, when
// synchronizeDeletes is set, removes target documents the source does not have.
//
// Only collections enumerated by the source are visited; target-only
// collections are never touched. Writes are unconditional overwrites, so the
// source wins regardless of which side changed last. The first failure aborts
// the run and is returned unchanged; completed operations are not rolled back.
func (s *Synchronizer) Synchronize(ctx context.Context, synchronizeDeletes bool) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString()}
	logger := s.logger.With("run_id", report.RunID)

	syncRuns.Inc()
	s.runs.Add(1)
	logger.Info("synchronization started", "deletes", synchronizeDeletes)

	err := s.run(ctx, logger, synchronizeDeletes, &report)

	report.Duration = time.Since(start)
	syncDuration.UpdateDuration(start)
	s.lastRun.Store(&report)

	if err != nil {
		syncFailures.Inc()
		logger.Error("synchronization failed",
			"error", err,
			"written", report.Written,
			"deleted", report.Deleted,
		)
		return report, err
	}

	logger.Info("synchronization finished",
		"collections", report.Collections,
		"written", report.Written,
		"deleted", report.Deleted,
		"duration", report.Duration,
	)
	return report, nil
}

func (s *Synchronizer) run(ctx context.Context, logger *slog.Logger, synchronizeDeletes bool, report *Report) error {
	for source := range s.source.Collections(ctx) {
		name := source.Name()
		target := s.target.Collection(name)
		report.Collections++

		written, err := s.copyCollection(ctx, source, target, report)
		if err != nil {
			return err
		}
		logger.Debug("collection copied", "collection", name, "documents", len(written))

		if !synchronizeDeletes {
			continue
		}
		if err := s.pruneCollection(ctx, logger, target, written, report); err != nil {
			return err
		}
	}
	return nil
}

// copyCollection upserts every source record into target and returns the set
// of IDs written.
func (s *Synchronizer) copyCollection(ctx context.Context, source, target *Collection, report *Report) (map[string]struct{}, error) {
	written := make(map[string]struct{})
	for rec, err := range source.ReadAllDocuments(ctx) {
		if err != nil {
			return written, err
		}
		if err := target.WriteData(ctx, rec.ID, rec.Data); err != nil {
			return written, err
		}
		written[rec.ID] = struct{}{}
		report.Written++
		syncDocumentsWritten.Inc()
	}
	return written, nil
}

// pruneCollection deletes target documents not in keep. The target is fully
// enumerated before the first delete so no backend cursor is mutated mid-scan.
func (s *Synchronizer) pruneCollection(ctx context.Context, logger *slog.Logger, target *Collection, keep map[string]struct{}, report *Report) error {
	var stale []string
	for rec, err := range target.ReadAllDocuments(ctx) {
		if err != nil {
			return err
		}
		if _, ok := keep[rec.ID]; !ok {
			stale = append(stale, rec.ID)
		}
	}

	for _, id := range stale {
		if err := target.DeleteDocument(ctx, id); err != nil {
			return err
		}
		report.Deleted++
		syncDocumentsDeleted.Inc()
		logger.Debug("stale document deleted", "collection", target.Name(), "id", id)
	}
	return nil
}
