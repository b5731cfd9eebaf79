package service

import (
	"context"
	"fmt"
	"time"
)

// Sync phases
const (
	PhaseSnapshot = "snapshot"
	PhaseHistory  = "history"
	PhaseDone     = "done"
)

// SyncService refreshes both documents for one athlete
type SyncService struct {
	snapshot *SnapshotService
	history  *HistoryService
}

// NewSyncService creates a sync service over the two builders
func NewSyncService(snapshot *SnapshotService, history *HistoryService) *SyncService {
	return &SyncService{snapshot: snapshot, history: history}
}

// SyncRequest holds the windows used for a refresh
type SyncRequest struct {
	AthleteID    string
	Days         int
	ExtendedDays int
	LookbackDays int
	SkipHistory  bool
}

// SyncProgress reports progress during a refresh
type SyncProgress struct {
	Phase     string // "snapshot", "history", "done"
	Total     int
	Completed int
	Error     error
}

// SyncResult contains the results of a refresh
type SyncResult struct {
	Snapshot *SnapshotDocument
	History  *HistoryDocument
	Duration time.Duration
	Errors   []error
}

// SyncAll builds the snapshot and then the history. A failed snapshot
// aborts; a failed history is recorded in the result and the snapshot is
// still returned.
func (s *SyncService) SyncAll(ctx context.Context, req SyncRequest, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	start := time.Now()
	result := &SyncResult{}

	total := 2
	if req.SkipHistory {
		total = 1
	}
	report := func(phase string, completed int, err error) {
		if progress == nil {
			return
		}
		select {
		case progress <- SyncProgress{Phase: phase, Total: total, Completed: completed, Error: err}:
		case <-ctx.Done():
		}
	}

	// Phase 1: Latest snapshot
	report(PhaseSnapshot, 0, nil)
	snap, err := s.snapshot.BuildLatest(ctx, req.AthleteID, req.Days, req.ExtendedDays)
	if err != nil {
		report(PhaseSnapshot, 0, err)
		return result, fmt.Errorf("building snapshot: %w", err)
	}
	result.Snapshot = snap

	// Phase 2: History
	if !req.SkipHistory {
		report(PhaseHistory, 1, nil)
		hist, err := s.history.BuildHistory(ctx, req.AthleteID, req.LookbackDays)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("building history: %w", err))
		}
		result.History = hist
	}

	result.Duration = time.Since(start)
	report(PhaseDone, total, nil)
	return result, nil
}
