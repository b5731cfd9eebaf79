package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
	"intervals-coach/internal/metrics"
)

// HistoryService builds the long-horizon history document
type HistoryService struct {
	source Source
	opts   options
}

// NewHistoryService creates a new history service
func NewHistoryService(source Source, opts ...Option) *HistoryService {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &HistoryService{source: source, opts: o}
}

// HistoryDocument is the tiered training history
type HistoryDocument struct {
	ReadThisFirst     ReadThisFirst         `json:"READ_THIS_FIRST"`
	Metadata          HistoryMetadata       `json:"metadata"`
	Tier90d           []DailyEntry          `json:"tier_90d"`
	Tier180d          []WeeklyEntry         `json:"tier_180d"`
	Tier1y            []MonthlyEntry        `json:"tier_1y"`
	Tier2y            []MonthlyEntry        `json:"tier_2y"`
	Tier3y            []MonthlyEntry        `json:"tier_3y"`
	FTPTimeline       []FTPChange           `json:"ftp_timeline"`
	WeightProgression *WeightProgression    `json:"weight_progression"`
	DataGaps          []DataGap             `json:"data_gaps"`
	PhaseMarkers      []PhaseMarker         `json:"phase_markers"`
	CurrentPhase      *analysis.Progression `json:"current_phase,omitempty"`
	Summary           HistorySummary        `json:"summary"`
}

// HistoryMetadata describes the lookback and the size of each section
type HistoryMetadata struct {
	SnapshotID   string     `json:"snapshot_id"`
	AthleteID    string     `json:"athlete_id"`
	SnapshotDate string     `json:"snapshot_date"`
	LookbackDays int        `json:"lookback_days"`
	DataPoints   DataPoints `json:"data_points"`
}

// DataPoints counts the entries of each history section
type DataPoints struct {
	Tier90d       int `json:"tier_90d"`
	Tier180d      int `json:"tier_180d"`
	Tier1y        int `json:"tier_1y"`
	Tier2y        int `json:"tier_2y"`
	Tier3y        int `json:"tier_3y"`
	FTPChanges    int `json:"ftp_changes"`
	WeightEntries int `json:"weight_entries"`
}

// BuildHistory fetches the full lookback window and assembles the history
func (s *HistoryService) BuildHistory(ctx context.Context, athleteID string, lookbackDays int) (doc *HistoryDocument, err error) {
	start := time.Now()
	defer func() { metrics.ObserveBuild(metrics.DocumentHistory, start, err) }()

	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	today := s.opts.today()
	window := intervals.DateRange{Oldest: today.AddDays(-lookbackDays), Newest: today}

	recs, err := fetchRecords(ctx, s.source, athleteID, window, nil)
	if err != nil {
		return nil, err
	}

	s.opts.logger.Debug("fetched history records",
		"athlete", athleteID,
		"lookback_days", lookbackDays,
		"activities", len(recs.activities),
		"wellness", len(recs.wellness))

	h := newHistoryBuild(today, recs)

	doc = &HistoryDocument{
		ReadThisFirst: ReadThisFirst{
			Description: "Training History",
			Purpose:     "Longitudinal data for trend analysis and periodization planning",
			Timestamp:   s.opts.now(),
		},
		Tier90d:           h.dailyTier(DailyTierDays),
		Tier180d:          h.weeklyTier(WeeklyTierDays),
		Tier1y:            h.monthlyTier(Tier1yDays),
		Tier2y:            h.monthlyTier(Tier2yDays),
		Tier3y:            h.monthlyTier(Tier3yDays),
		FTPTimeline:       h.ftpTimeline(),
		WeightProgression: h.weightProgression(),
		DataGaps:          h.dataGaps(window),
		PhaseMarkers:      h.phaseMarkers(),
	}
	doc.CurrentPhase = currentPhase(doc.PhaseMarkers)
	doc.Summary = h.summary(doc.FTPTimeline, doc.WeightProgression)

	weightEntries := 0
	if doc.WeightProgression != nil {
		weightEntries = len(doc.WeightProgression.Entries)
	}
	doc.Metadata = HistoryMetadata{
		SnapshotID:   uuid.NewString(),
		AthleteID:    athleteID,
		SnapshotDate: today.String(),
		LookbackDays: lookbackDays,
		DataPoints: DataPoints{
			Tier90d:       len(doc.Tier90d),
			Tier180d:      len(doc.Tier180d),
			Tier1y:        len(doc.Tier1y),
			Tier2y:        len(doc.Tier2y),
			Tier3y:        len(doc.Tier3y),
			FTPChanges:    len(doc.FTPTimeline),
			WeightEntries: weightEntries,
		},
	}
	return doc, nil
}

// currentPhase places the most recent phase run within its typical duration
func currentPhase(markers []PhaseMarker) *analysis.Progression {
	if len(markers) == 0 {
		return nil
	}
	last := markers[len(markers)-1]
	days := last.end.DaysSince(last.start) + 1
	prog := analysis.PhaseProgression(last.Phase, days/DaysPerWeek)
	prog.ProgressPct = analysis.Round(prog.ProgressPct, 1)
	return &prog
}
