package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"intervals-coach/internal/intervals"
)

// Source is the external record store the builders read from.
// *intervals.Client satisfies it.
type Source interface {
	GetActivities(ctx context.Context, athleteID string, r intervals.DateRange) ([]intervals.Activity, error)
	GetWellness(ctx context.Context, athleteID string, r intervals.DateRange) ([]intervals.Wellness, error)
	GetEvents(ctx context.Context, athleteID string, r intervals.DateRange) ([]intervals.Event, error)
	GetActivity(ctx context.Context, activityID string) (*intervals.Activity, error)
	GetActivityStreams(ctx context.Context, activityID string) (*intervals.Streams, error)
}

// Record kinds named in fetch errors
const (
	KindActivities = "activities"
	KindWellness   = "wellness"
	KindEvents     = "events"
	KindActivity   = "activity"
	KindStreams    = "streams"
)

// FetchError reports a failed read from the Source. It aborts the document
// being built.
type FetchError struct {
	Kind string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Option configures the services
type Option func(*options)

type options struct {
	now          func() time.Time
	logger       *log.Logger
	fetchStreams bool
}

func defaultOptions() options {
	return options{
		now:    time.Now,
		logger: log.New(io.Discard),
	}
}

// WithClock overrides the clock used to determine "today"
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets a logger
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStreams enables fetching power/HR streams to compute decoupling locally
func WithStreams(enabled bool) Option {
	return func(o *options) {
		o.fetchStreams = enabled
	}
}

func (o options) today() civil.Date {
	return civil.DateOf(o.now())
}

// records is what one document build reads from the Source
type records struct {
	activities []intervals.Activity
	wellness   []intervals.Wellness
	events     []intervals.Event
}

// fetchRecords reads activities and wellness over r, and events over
// eventRange when it is non-nil. The reads run concurrently; the first
// failure cancels the others.
func fetchRecords(ctx context.Context, src Source, athleteID string, r intervals.DateRange, eventRange *intervals.DateRange) (*records, error) {
	var recs records
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		activities, err := src.GetActivities(ctx, athleteID, r)
		if err != nil {
			return &FetchError{Kind: KindActivities, Err: err}
		}
		recs.activities = activities
		return nil
	})

	g.Go(func() error {
		wellness, err := src.GetWellness(ctx, athleteID, r)
		if err != nil {
			return &FetchError{Kind: KindWellness, Err: err}
		}
		recs.wellness = wellness
		return nil
	})

	if eventRange != nil {
		g.Go(func() error {
			events, err := src.GetEvents(ctx, athleteID, *eventRange)
			if err != nil {
				return &FetchError{Kind: KindEvents, Err: err}
			}
			recs.events = events
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &recs, nil
}
