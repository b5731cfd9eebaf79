package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
)

// needsStreams reports whether an activity is long enough to measure
// aerobic decoupling from its streams
func needsStreams(a intervals.Activity) bool {
	return a.MovingTime >= analysis.MinDurabilityMinutes*60
}

// attachStreams downloads power/HR streams for activities long enough to
// measure decoupling. A missing stream is logged and skipped.
func (s *SnapshotService) attachStreams(ctx context.Context, activities []intervals.Activity) error {
	var g errgroup.Group
	g.SetLimit(StreamFetchConcurrency)

	for i := range activities {
		a := &activities[i]
		if !needsStreams(*a) {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			streams, err := s.source.GetActivityStreams(ctx, a.ID)
			if err != nil {
				s.opts.logger.Warn("skipping activity streams", "activity", a.ID, "err", err)
				return nil
			}
			a.Streams = streams
			return nil
		})
	}

	return g.Wait()
}

// loadStreams fetches one activity with its streams attached. A stream
// failure is a FetchError since the caller asked for stream-derived metrics.
func loadStreams(ctx context.Context, src Source, activityID string) (*intervals.Activity, error) {
	a, err := src.GetActivity(ctx, activityID)
	if err != nil {
		return nil, &FetchError{Kind: KindActivity, Err: err}
	}
	streams, err := src.GetActivityStreams(ctx, activityID)
	if err != nil {
		return nil, &FetchError{Kind: KindStreams, Err: err}
	}
	a.Streams = streams
	return a, nil
}
