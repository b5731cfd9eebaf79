package service

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"intervals-coach/internal/intervals"
)

// fixedNow is "today" for every builder test: 2026-03-15
var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

var today = civil.DateOf(fixedNow)

func clock() Option {
	return WithClock(func() time.Time { return fixedNow })
}

func floatPtr(f float64) *float64 {
	return &f
}

// day returns the date n days before today as YYYY-MM-DD
func day(n int) string {
	return today.AddDays(-n).String()
}

// fakeSource is an in-memory Source that records the ranges it was asked for
type fakeSource struct {
	mu sync.Mutex

	activities []intervals.Activity
	wellness   []intervals.Wellness
	events     []intervals.Event
	activity   map[string]intervals.Activity
	streams    map[string]*intervals.Streams

	errs        map[string]error // keyed by record kind
	ranges      map[string]intervals.DateRange
	streamCalls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		activity: map[string]intervals.Activity{},
		streams:  map[string]*intervals.Streams{},
		errs:     map[string]error{},
		ranges:   map[string]intervals.DateRange{},
	}
}

func (f *fakeSource) record(kind string, r intervals.DateRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges[kind] = r
	return f.errs[kind]
}

func (f *fakeSource) GetActivities(ctx context.Context, athleteID string, r intervals.DateRange) ([]intervals.Activity, error) {
	if err := f.record(KindActivities, r); err != nil {
		return nil, err
	}
	return append([]intervals.Activity(nil), f.activities...), nil
}

func (f *fakeSource) GetWellness(ctx context.Context, athleteID string, r intervals.DateRange) ([]intervals.Wellness, error) {
	if err := f.record(KindWellness, r); err != nil {
		return nil, err
	}
	return f.wellness, nil
}

func (f *fakeSource) GetEvents(ctx context.Context, athleteID string, r intervals.DateRange) ([]intervals.Event, error) {
	if err := f.record(KindEvents, r); err != nil {
		return nil, err
	}
	return f.events, nil
}

func (f *fakeSource) GetActivity(ctx context.Context, activityID string) (*intervals.Activity, error) {
	if err := f.record(KindActivity, intervals.DateRange{}); err != nil {
		return nil, err
	}
	a := f.activity[activityID]
	return &a, nil
}

func (f *fakeSource) GetActivityStreams(ctx context.Context, activityID string) (*intervals.Streams, error) {
	f.mu.Lock()
	f.streamCalls = append(f.streamCalls, activityID)
	err := f.errs[KindStreams]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.streams[activityID], nil
}

func ride(id, date string, movingTime int, load float64) intervals.Activity {
	return intervals.Activity{
		ID:              id,
		Name:            "Ride " + id,
		Type:            "Ride",
		StartDateLocal:  date + "T08:00:00",
		MovingTime:      movingTime,
		IcuTrainingLoad: floatPtr(load),
	}
}

func fitnessDay(date string, ctl, atl float64) intervals.Wellness {
	return intervals.Wellness{ID: date, CTL: floatPtr(ctl), ATL: floatPtr(atl)}
}

func workout(id int64, date string) intervals.Event {
	return intervals.Event{
		ID:             id,
		Name:           "Workout",
		Type:           "Ride",
		Category:       intervals.CategoryWorkout,
		StartDateLocal: date + "T00:00:00",
	}
}

// driftingStreams builds an hour of paired samples at constant power where
// heart rate rises from hr1 in the first half to hr2 in the second
func driftingStreams(power, hr1, hr2 float64) *intervals.Streams {
	n := 3600
	s := &intervals.Streams{Watts: make([]float64, n), Heartrate: make([]float64, n)}
	for i := 0; i < n; i++ {
		s.Watts[i] = power
		s.Heartrate[i] = hr1
		if i >= n/2 {
			s.Heartrate[i] = hr2
		}
	}
	return s
}
