package service

import (
	"fmt"

	"cloud.google.com/go/civil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
)

// historyBuild holds the records of one history assembly
type historyBuild struct {
	today      civil.Date
	series     analysis.Series
	days       analysis.DayLog
	activities []intervals.Activity
}

func newHistoryBuild(today civil.Date, recs *records) *historyBuild {
	return &historyBuild{
		today:      today,
		series:     analysis.NewSeries(recs.wellness),
		days:       analysis.NewDayLog(recs.activities),
		activities: recs.activities,
	}
}

// DailyEntry is one calendar day of the 90-day tier
type DailyEntry struct {
	Date            string          `json:"date"`
	CTL             *float64        `json:"ctl"`
	ATL             *float64        `json:"atl"`
	TSB             *float64        `json:"tsb"`
	RampRate        *float64        `json:"ramp_rate"`
	TSS             float64         `json:"tss"`
	ActivitiesCount int             `json:"activities_count"`
	HRV             *float64        `json:"hrv"`
	RHR             *float64        `json:"rhr"`
	Weight          *float64        `json:"weight"`
	SleepHours      *float64        `json:"sleep_hours"`
	Phase           *analysis.Phase `json:"phase"`
}

// WeeklyEntry aggregates one 7-day bucket of the 180-day tier
type WeeklyEntry struct {
	WeekStart       string                 `json:"week_start"`
	WeekEnd         string                 `json:"week_end"`
	CTLAvg          *float64               `json:"ctl_avg"`
	CTLMin          *float64               `json:"ctl_min"`
	CTLMax          *float64               `json:"ctl_max"`
	ATLAvg          *float64               `json:"atl_avg"`
	TSBAvg          *float64               `json:"tsb_avg"`
	WeeklyTSS       float64                `json:"weekly_tss"`
	ActivitiesCount int                    `json:"activities_count"`
	Hours           float64                `json:"hours"`
	DurabilityAvg   *float64               `json:"durability_avg"`
	Monotony        *float64               `json:"monotony"`
	SeilerTID       *analysis.Distribution `json:"seiler_tid"`
	Phase           *analysis.Phase        `json:"phase"`
}

// MonthlyEntry aggregates one 30-day bucket of the yearly tiers
type MonthlyEntry struct {
	Month           string                 `json:"month"`
	CTLAvg          *float64               `json:"ctl_avg"`
	CTLEnd          *float64               `json:"ctl_end"`
	MonthlyTSS      float64                `json:"monthly_tss"`
	ActivitiesCount int                    `json:"activities_count"`
	Hours           float64                `json:"hours"`
	DurabilityAvg   *float64               `json:"durability_avg"`
	SeilerTID       *analysis.Distribution `json:"seiler_tid"`
	Phase           *analysis.Phase        `json:"phase"`
}

// bucket is an inclusive run of calendar days
type bucket struct {
	start civil.Date
	end   civil.Date
}

// buckets splits the days up to today into count consecutive runs of size
// days, oldest first, the last one ending today
func buckets(today civil.Date, count, size int) []bucket {
	out := make([]bucket, 0, count)
	for i := 0; i < count; i++ {
		end := today.AddDays(-(count - i - 1) * size)
		out = append(out, bucket{start: end.AddDays(-(size - 1)), end: end})
	}
	return out
}

func (h *historyBuild) dailyTier(days int) []DailyEntry {
	entries := make([]DailyEntry, 0, days)
	for i := 0; i < days; i++ {
		d := h.today.AddDays(-(days - i - 1))
		dayActivities := h.days.On(d)

		entry := DailyEntry{
			Date:            d.String(),
			TSS:             h.days.Load(d),
			ActivitiesCount: len(dayActivities),
		}

		if w, ok := h.series.At(d); ok {
			entry.CTL = roundOpt(w.CTL, 1)
			entry.ATL = roundOpt(w.ATL, 1)
			if tsb, ok := w.Form(); ok {
				entry.TSB = roundPtr(tsb, 1)
			}
			entry.RampRate = roundOpt(w.RampRate, 2)
			if field, ok := w.HRVField(); ok {
				hrv, _ := w.Value(field)
				entry.HRV = &hrv
			}
			entry.RHR = w.RestingHR
			entry.Weight = w.Weight
			if w.SleepSecs != nil && *w.SleepSecs > 0 {
				entry.SleepHours = roundPtr(*w.SleepSecs/SecondsPerHour, 1)
			}
		}
		entry.Phase = h.phaseOn(d)

		entries = append(entries, entry)
	}
	return entries
}

func (h *historyBuild) weeklyTier(days int) []WeeklyEntry {
	weeks := days / DaysPerWeek
	entries := make([]WeeklyEntry, 0, weeks)

	for _, b := range buckets(h.today, weeks, DaysPerWeek) {
		wellness := h.series.Between(b.start, b.end)
		activities := h.days.Between(b.start, b.end)

		ctl := wellness.Values(intervals.FieldCTL)
		entry := WeeklyEntry{
			WeekStart:       b.start.String(),
			WeekEnd:         b.end.String(),
			CTLAvg:          meanOf(ctl, 1),
			ATLAvg:          meanOf(wellness.Values(intervals.FieldATL), 1),
			TSBAvg:          meanOf(formValues(wellness), 1),
			WeeklyTSS:       totalLoad(activities),
			ActivitiesCount: len(activities),
			Hours:           analysis.Round(totalHours(activities), 1),
			DurabilityAvg:   durabilityOf(activities),
			SeilerTID:       distributionOf(activities),
			Phase:           h.lastPhase(wellness),
		}
		if len(ctl) > 0 {
			entry.CTLMin = roundPtr(floats.Min(ctl), 1)
			entry.CTLMax = roundPtr(floats.Max(ctl), 1)
		}
		if m := analysis.Monotony(h.days.DailyLoads(b.start, b.end)); m > 0 {
			entry.Monotony = roundPtr(m, 2)
		}

		entries = append(entries, entry)
	}
	return entries
}

func (h *historyBuild) monthlyTier(days int) []MonthlyEntry {
	months := days / DaysPerBucketMonth
	entries := make([]MonthlyEntry, 0, months)

	for _, b := range buckets(h.today, months, DaysPerBucketMonth) {
		wellness := h.series.Between(b.start, b.end)
		activities := h.days.Between(b.start, b.end)

		ctl := wellness.Values(intervals.FieldCTL) // most recent first
		entry := MonthlyEntry{
			Month:           fmt.Sprintf("%04d-%02d", b.start.Year, int(b.start.Month)),
			CTLAvg:          meanOf(ctl, 1),
			MonthlyTSS:      totalLoad(activities),
			ActivitiesCount: len(activities),
			Hours:           analysis.Round(totalHours(activities), 1),
			DurabilityAvg:   durabilityOf(activities),
			Phase:           h.lastPhase(wellness),
		}
		if len(ctl) > 0 {
			entry.CTLEnd = roundPtr(ctl[0], 1)
		}
		if days <= MaxZoneTierDays {
			entry.SeilerTID = distributionOf(activities)
		}

		entries = append(entries, entry)
	}
	return entries
}

func (h *historyBuild) phaseOn(d civil.Date) *analysis.Phase {
	p, ok := analysis.PhaseOn(h.series, d)
	if !ok {
		return nil
	}
	return &p
}

// lastPhase classifies the most recent record of a bucket
func (h *historyBuild) lastPhase(wellness analysis.Series) *analysis.Phase {
	if wellness.Len() == 0 {
		return nil
	}
	return h.phaseOn(wellness.Date(wellness.Len() - 1))
}

func meanOf(values []float64, places int) *float64 {
	if len(values) == 0 {
		return nil
	}
	return roundPtr(stat.Mean(values, nil), places)
}

func roundOpt(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	return roundPtr(*v, places)
}

func formValues(s analysis.Series) []float64 {
	var values []float64
	for _, w := range s.Records() {
		if tsb, ok := w.Form(); ok {
			values = append(values, tsb)
		}
	}
	return values
}

func totalLoad(activities []intervals.Activity) float64 {
	var total float64
	for _, a := range activities {
		total += a.Load()
	}
	return total
}

func totalHours(activities []intervals.Activity) float64 {
	var secs int
	for _, a := range activities {
		secs += a.MovingTime
	}
	return float64(secs) / SecondsPerHour
}

func durabilityOf(activities []intervals.Activity) *float64 {
	m, ok := analysis.MeanDurability(activities)
	if !ok {
		return nil
	}
	return roundPtr(m, 1)
}

// distributionOf returns the rounded 3-zone power distribution, or nil when
// no zone time was recorded
func distributionOf(activities []intervals.Activity) *analysis.Distribution {
	zt := analysis.AggregateZoneTimes(activities, analysis.ZoneTypePower)
	if len(zt) == 0 {
		return nil
	}
	d := analysis.ThreeZoneDistribution(zt)
	if d.IsZero() {
		return nil
	}
	d = d.Rounded()
	return &d
}
