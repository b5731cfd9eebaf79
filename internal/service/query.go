package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
)

// QueryService answers single-metric questions outside the two documents
type QueryService struct {
	source Source
	opts   options
}

// NewQueryService creates a new query service
func NewQueryService(source Source, opts ...Option) *QueryService {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &QueryService{source: source, opts: o}
}

// Range resolves optional YYYY-MM-DD bounds. A missing "to" is today and a
// missing "from" is the start of the days-long window ending at "to".
func (s *QueryService) Range(from, to string, days int) (intervals.DateRange, error) {
	if days <= 0 {
		days = DefaultDays
	}

	newest := s.opts.today()
	if to != "" {
		d, err := civil.ParseDate(to)
		if err != nil {
			return intervals.DateRange{}, fmt.Errorf("parsing end date: %w", err)
		}
		newest = d
	}

	oldest := newest.AddDays(-(days - 1))
	if from != "" {
		d, err := civil.ParseDate(from)
		if err != nil {
			return intervals.DateRange{}, fmt.Errorf("parsing start date: %w", err)
		}
		oldest = d
	}

	r := intervals.DateRange{Oldest: oldest, Newest: newest}
	if newest.Before(oldest) {
		return r, fmt.Errorf("invalid range %s..%s", oldest, newest)
	}
	return r, nil
}

// ZoneShare is the time spent in one zone
type ZoneShare struct {
	Zone    int     `json:"zone"`
	Seconds float64 `json:"seconds"`
	Percent float64 `json:"percent"`
}

// ZoneReport is the time-in-zone breakdown over a date range
type ZoneReport struct {
	AthleteID               string                 `json:"athlete_id"`
	From                    string                 `json:"from"`
	To                      string                 `json:"to"`
	ZoneType                analysis.ZoneType      `json:"zone_type"`
	ActivitiesCount         int                    `json:"activities_count"`
	TotalSeconds            float64                `json:"total_seconds"`
	Zones                   []ZoneShare            `json:"zones"`
	Distribution            *analysis.Distribution `json:"distribution"`
	DistributionDescription string                 `json:"distribution_description,omitempty"`
	PolarizationIndex       *float64               `json:"polarization_index"`
	PolarizationDescription string                 `json:"polarization_description,omitempty"`
}

// ZoneReport aggregates zone times of every activity in r
func (s *QueryService) ZoneReport(ctx context.Context, athleteID string, r intervals.DateRange, zoneType analysis.ZoneType) (*ZoneReport, error) {
	if r.Newest.Before(r.Oldest) {
		return nil, fmt.Errorf("invalid range %s..%s", r.Oldest, r.Newest)
	}

	activities, err := s.source.GetActivities(ctx, athleteID, r)
	if err != nil {
		return nil, &FetchError{Kind: KindActivities, Err: err}
	}

	zt := analysis.AggregateZoneTimes(activities, zoneType)
	report := &ZoneReport{
		AthleteID:       athleteID,
		From:            r.Oldest.String(),
		To:              r.Newest.String(),
		ZoneType:        zoneType,
		ActivitiesCount: len(activities),
		TotalSeconds:    zt.Total(),
		Zones:           []ZoneShare{},
	}

	pct := analysis.ZonePercentages(zt)
	for _, z := range zt.Zones() {
		report.Zones = append(report.Zones, ZoneShare{
			Zone:    z,
			Seconds: zt[z],
			Percent: analysis.Round(pct[z], 1),
		})
	}

	if d := analysis.ThreeZoneDistribution(zt); !d.IsZero() {
		d = d.Rounded()
		report.Distribution = &d
		report.DistributionDescription = analysis.DistributionDescription(d)

		pi := analysis.PolarizationIndex(zt)
		report.PolarizationIndex = roundPtr(pi, 2)
		report.PolarizationDescription = analysis.PolarizationDescription(pi)
	}

	s.opts.logger.Debug("zone report",
		"athlete", athleteID,
		"zone_type", zoneType,
		"activities", len(activities),
		"zones", len(report.Zones))

	return report, nil
}

// Decoupling sources
const (
	DecouplingFromStreams  = "streams"
	DecouplingFromUpstream = "upstream"
)

// DurabilityReport holds the aerobic durability metrics of one activity
type DurabilityReport struct {
	ActivityID             string   `json:"activity_id"`
	Name                   string   `json:"name"`
	Type                   string   `json:"type"`
	StartDate              string   `json:"start_date"`
	MovingTime             int      `json:"moving_time"`
	Samples                int      `json:"samples"`
	EfficiencyFactor       *float64 `json:"efficiency_factor"`
	EfficiencyDescription  string   `json:"efficiency_interpretation,omitempty"`
	VariabilityIndex       *float64 `json:"variability_index"`
	VariabilityDescription string   `json:"variability_interpretation,omitempty"`
	Decoupling             *float64 `json:"decoupling"`
	DecouplingDescription  string   `json:"decoupling_interpretation,omitempty"`
	DecouplingSource       string   `json:"decoupling_source,omitempty"`
	FirstHalfRatio         *float64 `json:"first_half_ratio,omitempty"`
	SecondHalfRatio        *float64 `json:"second_half_ratio,omitempty"`
	DataQuality            *float64 `json:"data_quality"`
	DataQualityDescription string   `json:"data_quality_interpretation,omitempty"`
}

// ActivityDurability fetches one activity with its streams and measures
// its efficiency and decoupling
func (s *QueryService) ActivityDurability(ctx context.Context, activityID string) (*DurabilityReport, error) {
	a, err := loadStreams(ctx, s.source, activityID)
	if err != nil {
		return nil, err
	}

	m := analysis.ComputeActivityMetrics(*a)
	report := &DurabilityReport{
		ActivityID: a.ID,
		Name:       a.Name,
		Type:       a.Type,
		StartDate:  a.StartDateLocal,
		MovingTime: a.MovingTime,
		Samples:    a.Streams.Len(),
	}

	if m.EfficiencyFactor != nil {
		report.EfficiencyFactor = roundPtr(*m.EfficiencyFactor, 2)
		report.EfficiencyDescription = analysis.EfficiencyDescription(*m.EfficiencyFactor, nil)
	}
	if m.VariabilityIndex != nil {
		report.VariabilityIndex = roundPtr(*m.VariabilityIndex, 2)
		report.VariabilityDescription = analysis.VariabilityDescription(*m.VariabilityIndex)
	}

	var halves analysis.DecouplingResult
	if a.Streams != nil {
		halves = analysis.Decoupling(a.Streams.Watts, a.Streams.Heartrate)
	}
	if m.Decoupling != nil {
		report.DecouplingSource = DecouplingFromUpstream
		if halves.FirstRatio > 0 {
			report.DecouplingSource = DecouplingFromStreams
			report.FirstHalfRatio = roundPtr(halves.FirstRatio, 3)
			report.SecondHalfRatio = roundPtr(halves.SecondRatio, 3)
		}
		report.Decoupling = roundPtr(*m.Decoupling, 1)
		report.DecouplingDescription = analysis.DecouplingDescription(*m.Decoupling)
	}

	if m.DataQualityScore != nil {
		report.DataQuality = roundPtr(*m.DataQualityScore, 2)
		report.DataQualityDescription = analysis.DataQualityDescription(*m.DataQualityScore)
	}

	return report, nil
}
