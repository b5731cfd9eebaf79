package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
	"intervals-coach/internal/metrics"
)

// SnapshotService builds the latest training snapshot document
type SnapshotService struct {
	source Source
	opts   options
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(source Source, opts ...Option) *SnapshotService {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SnapshotService{source: source, opts: o}
}

// ReadThisFirst is the preamble of every document
type ReadThisFirst struct {
	Description string    `json:"description"`
	Purpose     string    `json:"purpose"`
	Timestamp   time.Time `json:"timestamp"`
}

// SnapshotDocument is the latest-state training snapshot
type SnapshotDocument struct {
	ReadThisFirst    ReadThisFirst      `json:"READ_THIS_FIRST"`
	Metadata         SnapshotMetadata   `json:"metadata"`
	Alerts           []analysis.Alert   `json:"alerts"`
	CurrentStatus    CurrentStatus      `json:"current_status"`
	DerivedMetrics   analysis.MetricSet `json:"derived_metrics"`
	RecentActivities []ActivitySummary  `json:"recent_activities"`
	WellnessData     []WellnessSummary  `json:"wellness_data"`
	PlannedWorkouts  []PlannedWorkout   `json:"planned_workouts"`
}

// SnapshotMetadata describes the windows and record counts of a snapshot
type SnapshotMetadata struct {
	SnapshotID           string                    `json:"snapshot_id"`
	AthleteID            string                    `json:"athlete_id"`
	SnapshotDate         string                    `json:"snapshot_date"`
	WindowDays           int                       `json:"window_days"`
	ExtendedWindowDays   int                       `json:"extended_window_days"`
	ActivitiesCount7d    int                       `json:"activities_count_7d"`
	ActivitiesCount28d   int                       `json:"activities_count_28d"`
	WellnessRecordsCount int                       `json:"wellness_records_count"`
	AlertCounts          map[analysis.Severity]int `json:"alert_counts"`
}

// CurrentStatus is today's fitness and wellness
type CurrentStatus struct {
	Fitness  FitnessStatus  `json:"fitness"`
	Wellness WellnessStatus `json:"wellness"`
}

// FitnessStatus is today's CTL/ATL/TSB. Null values mean no record for today.
type FitnessStatus struct {
	CTL             *float64 `json:"ctl"`
	ATL             *float64 `json:"atl"`
	TSB             *float64 `json:"tsb"`
	RampRate        *float64 `json:"ramp_rate"`
	FormDescription string   `json:"form_description,omitempty"`
}

// WellnessStatus is today's recovery markers
type WellnessStatus struct {
	HRV        *float64 `json:"hrv"`
	HRVField   string   `json:"hrv_field,omitempty"`
	RestingHR  *float64 `json:"resting_hr"`
	SleepHours *float64 `json:"sleep_hours"`
	SleepScore *float64 `json:"sleep_score"`
}

// ActivitySummary is one entry of recent_activities
type ActivitySummary struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	StartDate        string   `json:"start_date"`
	Distance         *float64 `json:"distance"`
	MovingTime       int      `json:"moving_time"`
	TrainingLoad     *float64 `json:"training_load"`
	EfficiencyFactor *float64 `json:"efficiency_factor,omitempty"`
	VariabilityIndex *float64 `json:"variability_index,omitempty"`
	Decoupling       *float64 `json:"decoupling,omitempty"`
}

// WellnessSummary is one entry of wellness_data
type WellnessSummary struct {
	Date      string   `json:"date"`
	CTL       *float64 `json:"ctl"`
	ATL       *float64 `json:"atl"`
	TSB       *float64 `json:"tsb"`
	HRV       *float64 `json:"hrv"`
	RestingHR *float64 `json:"resting_hr"`
}

// PlannedWorkout is one upcoming calendar workout
type PlannedWorkout struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	StartDate    string   `json:"start_date"`
	TrainingLoad *float64 `json:"training_load,omitempty"`
}

// BuildLatest fetches the extended window and assembles the snapshot.
// A fetch failure aborts the build with a *FetchError; metric failures are
// annotated inside derived_metrics instead.
func (s *SnapshotService) BuildLatest(ctx context.Context, athleteID string, days, extendedDays int) (doc *SnapshotDocument, err error) {
	start := time.Now()
	defer func() { metrics.ObserveBuild(metrics.DocumentLatest, start, err) }()

	if days <= 0 {
		days = DefaultDays
	}
	if extendedDays <= 0 {
		extendedDays = DefaultExtendedDays
	}
	extendedDays = max(extendedDays, days)

	today := s.opts.today()
	window := windows{
		days:          days,
		today:         today,
		primaryStart:  today.AddDays(-(days - 1)),
		extendedStart: today.AddDays(-extendedDays),
	}

	eventRange := intervals.DateRange{Oldest: today.AddDays(-days), Newest: today.AddDays(PlannedLookaheadDays)}
	recs, err := fetchRecords(ctx, s.source, athleteID,
		intervals.DateRange{Oldest: window.extendedStart, Newest: today}, &eventRange)
	if err != nil {
		return nil, err
	}

	s.opts.logger.Debug("fetched snapshot records",
		"athlete", athleteID,
		"window", window,
		"activities", len(recs.activities),
		"wellness", len(recs.wellness),
		"events", len(recs.events))

	if s.opts.fetchStreams {
		if err := s.attachStreams(ctx, recs.activities); err != nil {
			return nil, err
		}
	}

	b := newSnapshotBuild(window, recs, s.opts.logger)
	b.computeAll()

	alerts := analysis.GenerateAlerts(b.raw)
	for _, a := range alerts {
		metrics.AlertsTotal.WithLabelValues(string(a.Severity), a.Metric).Inc()
	}

	doc = &SnapshotDocument{
		ReadThisFirst: ReadThisFirst{
			Description: "Training Readiness Snapshot",
			Purpose:     "Pre-calculated metrics for coaching decisions",
			Timestamp:   s.opts.now(),
		},
		Metadata: SnapshotMetadata{
			SnapshotID:           uuid.NewString(),
			AthleteID:            athleteID,
			SnapshotDate:         today.String(),
			WindowDays:           days,
			ExtendedWindowDays:   extendedDays,
			ActivitiesCount7d:    len(b.primary),
			ActivitiesCount28d:   len(b.extended),
			WellnessRecordsCount: b.series.Len(),
			AlertCounts:          analysis.CountBySeverity(alerts),
		},
		Alerts:           alerts,
		CurrentStatus:    b.currentStatus(),
		DerivedMetrics:   b.doc,
		RecentActivities: recentActivities(b.extended),
		WellnessData:     wellnessData(b.series),
		PlannedWorkouts:  plannedWorkouts(recs.events, today),
	}
	return doc, nil
}

func (b *snapshotBuild) currentStatus() CurrentStatus {
	var cs CurrentStatus
	w, ok := b.series.At(b.window.today)
	if !ok {
		return cs
	}

	if w.CTL != nil {
		cs.Fitness.CTL = roundPtr(*w.CTL, 1)
	}
	if w.ATL != nil {
		cs.Fitness.ATL = roundPtr(*w.ATL, 1)
	}
	if tsb, ok := w.Form(); ok {
		cs.Fitness.TSB = roundPtr(tsb, 1)
		cs.Fitness.FormDescription = analysis.FormDescription(tsb)
	}
	if w.RampRate != nil {
		cs.Fitness.RampRate = roundPtr(*w.RampRate, 2)
	}

	if field, ok := w.HRVField(); ok {
		hrv, _ := w.Value(field)
		cs.Wellness.HRV = roundPtr(hrv, 1)
		cs.Wellness.HRVField = string(field)
	}
	if w.RestingHR != nil {
		cs.Wellness.RestingHR = roundPtr(*w.RestingHR, 0)
	}
	if w.SleepSecs != nil {
		cs.Wellness.SleepHours = roundPtr(*w.SleepSecs/SecondsPerHour, 1)
	}
	cs.Wellness.SleepScore = w.SleepScore
	return cs
}

// recentActivities returns the newest activities first
func recentActivities(activities []intervals.Activity) []ActivitySummary {
	sorted := append([]intervals.Activity(nil), activities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDateLocal > sorted[j].StartDateLocal
	})
	if len(sorted) > RecentActivitiesLimit {
		sorted = sorted[:RecentActivitiesLimit]
	}

	out := make([]ActivitySummary, 0, len(sorted))
	for _, a := range sorted {
		m := analysis.ComputeActivityMetrics(a)
		summary := ActivitySummary{
			ID:         a.ID,
			Name:       a.Name,
			Type:       a.Type,
			StartDate:  a.StartDateLocal,
			Distance:   a.Distance,
			MovingTime: a.MovingTime,
		}
		if load := a.Load(); load > 0 {
			summary.TrainingLoad = &load
		}
		if m.EfficiencyFactor != nil {
			summary.EfficiencyFactor = roundPtr(*m.EfficiencyFactor, 2)
		}
		if m.VariabilityIndex != nil {
			summary.VariabilityIndex = roundPtr(*m.VariabilityIndex, 2)
		}
		if m.Decoupling != nil {
			summary.Decoupling = roundPtr(*m.Decoupling, 1)
		}
		out = append(out, summary)
	}
	return out
}

// wellnessData returns the last WellnessDataLimit records, oldest first
func wellnessData(s analysis.Series) []WellnessSummary {
	tail := s.Tail(WellnessDataLimit).Records()
	out := make([]WellnessSummary, 0, len(tail))
	for _, w := range tail {
		entry := WellnessSummary{
			Date:      w.ID,
			CTL:       w.CTL,
			ATL:       w.ATL,
			RestingHR: w.RestingHR,
		}
		if tsb, ok := w.Form(); ok {
			entry.TSB = &tsb
		}
		if field, ok := w.HRVField(); ok {
			hrv, _ := w.Value(field)
			entry.HRV = &hrv
		}
		out = append(out, entry)
	}
	return out
}

// plannedWorkouts returns the next scheduled workouts from today on
func plannedWorkouts(events []intervals.Event, today civil.Date) []PlannedWorkout {
	var upcoming []intervals.Event
	for _, e := range events {
		if e.Category != intervals.CategoryWorkout {
			continue
		}
		d, err := e.Date()
		if err != nil || d.Before(today) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartDateLocal < upcoming[j].StartDateLocal
	})
	if len(upcoming) > PlannedWorkoutsLimit {
		upcoming = upcoming[:PlannedWorkoutsLimit]
	}

	out := make([]PlannedWorkout, 0, len(upcoming))
	for _, e := range upcoming {
		out = append(out, PlannedWorkout{
			ID:           e.ID,
			Name:         e.Name,
			Type:         e.Type,
			StartDate:    e.StartDateLocal,
			TrainingLoad: e.IcuTrainingLoad,
		})
	}
	return out
}

func roundPtr(v float64, places int) *float64 {
	r := analysis.Round(v, places)
	return &r
}

func (w windows) String() string {
	return fmt.Sprintf("%s..%s (primary from %s)", w.extendedStart, w.today, w.primaryStart)
}
