package service

import (
	"cloud.google.com/go/civil"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
)

// FTPChange is one change point of the FTP timeline
type FTPChange struct {
	Date   string   `json:"date"`
	FTP    float64  `json:"ftp"`
	Weight *float64 `json:"weight"`
	WKg    *float64 `json:"w_kg"`
	Source string   `json:"source"`
}

// WeightProgression lists dated weights with a start-to-end trend
type WeightProgression struct {
	Entries   []WeightEntry `json:"entries"`
	TrendLine *WeightTrend  `json:"trend_line"`
}

// WeightEntry is one dated body weight
type WeightEntry struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`

	date civil.Date
}

// WeightTrend summarizes the change between the first and last weight
type WeightTrend struct {
	StartWeight      float64 `json:"start_weight"`
	EndWeight        float64 `json:"end_weight"`
	ChangeKg         float64 `json:"change_kg"`
	ChangePct        float64 `json:"change_pct"`
	AvgMonthlyChange float64 `json:"avg_monthly_change"`
}

// DataGap is a stretch of more than DataGapThresholdDays without activities
type DataGap struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	Reason    string `json:"reason"`
}

// PhaseMarker is a run of consecutive classified days sharing a phase
type PhaseMarker struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Phase     analysis.Phase `json:"phase"`

	start civil.Date
	end   civil.Date
}

// HistorySummary totals the whole lookback window
type HistorySummary struct {
	TotalDaysWithData int            `json:"total_days_with_data"`
	TotalActivities   int            `json:"total_activities"`
	TotalHours        float64        `json:"total_hours"`
	TotalTSS          int            `json:"total_tss"`
	AvgHoursPerWeek   float64        `json:"avg_hours_per_week"`
	ConsistencyPct    float64        `json:"consistency_pct"`
	FTPProgression    FTPProgression `json:"ftp_progression"`
	WeightChange      WeightChange   `json:"weight_change"`
}

// FTPProgression compares the first and last FTP of the timeline
type FTPProgression struct {
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Gain    *float64 `json:"gain"`
	GainPct *float64 `json:"gain_pct"`
}

// WeightChange compares the first and last recorded weight
type WeightChange struct {
	Start     *float64 `json:"start"`
	End       *float64 `json:"end"`
	Change    *float64 `json:"change"`
	ChangePct *float64 `json:"change_pct"`
}

const (
	ftpSourceWellness = "wellness"
	gapReasonNoData   = "no_activities"
)

// ftpTimeline emits an entry each time the cycling FTP differs from the
// previously emitted value
func (h *historyBuild) ftpTimeline() []FTPChange {
	changes := []FTPChange{}
	var prev float64
	for _, w := range h.series.Records() {
		ftp, ok := w.FTP()
		if !ok || ftp == prev {
			continue
		}
		change := FTPChange{
			Date:   w.ID,
			FTP:    ftp,
			Weight: w.Weight,
			Source: ftpSourceWellness,
		}
		if w.Weight != nil && *w.Weight > 0 {
			change.WKg = roundPtr(ftp / *w.Weight, 2)
		}
		changes = append(changes, change)
		prev = ftp
	}
	return changes
}

func (h *historyBuild) weightProgression() *WeightProgression {
	var entries []WeightEntry
	for i, w := range h.series.Records() {
		if w.Weight == nil || *w.Weight <= 0 {
			continue
		}
		entries = append(entries, WeightEntry{
			Date:   w.ID,
			Weight: analysis.Round(*w.Weight, 1),
			date:   h.series.Date(i),
		})
	}
	if len(entries) == 0 {
		return nil
	}

	wp := &WeightProgression{Entries: entries}
	if len(entries) < 2 {
		return wp
	}

	first, last := entries[0], entries[len(entries)-1]
	change := last.Weight - first.Weight
	trend := &WeightTrend{
		StartWeight: first.Weight,
		EndWeight:   last.Weight,
		ChangeKg:    analysis.Round(change, 1),
		ChangePct:   analysis.Round(change/first.Weight*100, 1),
	}
	if months := float64(last.date.DaysSince(first.date)) / DaysPerMonth; months > 0 {
		trend.AvgMonthlyChange = analysis.Round(change/months, 2)
	}
	wp.TrendLine = trend
	return wp
}

// dataGaps flags stretches without activities, including before the first
// and after the last activity of the window. A window with no activities at
// all is reported as one gap spanning it, not as an empty list.
func (h *historyBuild) dataGaps(window intervals.DateRange) []DataGap {
	gaps := []DataGap{}
	current := window.Oldest

	addGap := func(from, to civil.Date) {
		if days := to.DaysSince(from); days > DataGapThresholdDays {
			gaps = append(gaps, DataGap{
				StartDate: from.String(),
				EndDate:   to.String(),
				Days:      days,
				Reason:    gapReasonNoData,
			})
		}
	}

	for _, d := range h.days.Dates() {
		if !window.Contains(d) {
			continue
		}
		addGap(current, d)
		current = d
	}
	addGap(current, window.Newest)
	return gaps
}

// phaseMarkers classifies every wellness day and coalesces runs of the
// same phase. A marker ends on the last day classified with its phase.
func (h *historyBuild) phaseMarkers() []PhaseMarker {
	markers := []PhaseMarker{}
	for i := 0; i < h.series.Len(); i++ {
		d := h.series.Date(i)
		phase, ok := analysis.PhaseOn(h.series, d)
		if !ok {
			continue
		}
		if n := len(markers); n > 0 && markers[n-1].Phase == phase {
			markers[n-1].end = d
			continue
		}
		markers = append(markers, PhaseMarker{Phase: phase, start: d, end: d})
	}

	for i := range markers {
		markers[i].StartDate = markers[i].start.String()
		markers[i].EndDate = markers[i].end.String()
	}
	return markers
}

func (h *historyBuild) summary(ftp []FTPChange, weight *WeightProgression) HistorySummary {
	dates := h.days.Dates()
	hours := totalHours(h.activities)

	s := HistorySummary{
		TotalDaysWithData: len(dates),
		TotalActivities:   len(h.activities),
		TotalHours:        analysis.Round(hours, 1),
		TotalTSS:          int(totalLoad(h.activities)),
	}

	if len(dates) > 0 {
		span := dates[len(dates)-1].DaysSince(dates[0]) + 1
		s.ConsistencyPct = analysis.Round(float64(len(dates))/float64(span)*100, 1)
		s.AvgHoursPerWeek = analysis.Round(hours/(float64(span)/DaysPerWeek), 1)
	}

	if len(ftp) >= 2 {
		start, end := ftp[0].FTP, ftp[len(ftp)-1].FTP
		gain := end - start
		s.FTPProgression = FTPProgression{
			Start:   &start,
			End:     &end,
			Gain:    &gain,
			GainPct: roundPtr(gain/start*100, 1),
		}
	}

	if weight != nil && len(weight.Entries) >= 2 {
		start, end := weight.Entries[0].Weight, weight.Entries[len(weight.Entries)-1].Weight
		change := end - start
		s.WeightChange = WeightChange{
			Start:     &start,
			End:       &end,
			Change:    roundPtr(change, 1),
			ChangePct: roundPtr(change/start*100, 1),
		}
	}
	return s
}
