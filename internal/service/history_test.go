package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
)

func TestBuildHistoryTierSizes(t *testing.T) {
	src := newFakeSource()
	svc := NewHistoryService(src, clock())

	doc, err := svc.BuildHistory(context.Background(), "i42", 0)
	require.NoError(t, err)

	assert.Equal(t, intervals.DateRange{Oldest: today.AddDays(-1095), Newest: today}, src.ranges[KindActivities])
	assert.NotContains(t, src.ranges, KindEvents)

	assert.Len(t, doc.Tier90d, 90)
	assert.Len(t, doc.Tier180d, 25)
	assert.Len(t, doc.Tier1y, 12)
	assert.Len(t, doc.Tier2y, 24)
	assert.Len(t, doc.Tier3y, 36)

	assert.Equal(t, day(89), doc.Tier90d[0].Date)
	assert.Equal(t, day(0), doc.Tier90d[89].Date)
	assert.Equal(t, day(0), doc.Tier180d[24].WeekEnd)
	assert.Equal(t, day(6), doc.Tier180d[24].WeekStart)

	assert.Equal(t, 1095, doc.Metadata.LookbackDays)
	assert.Equal(t, 90, doc.Metadata.DataPoints.Tier90d)
	assert.Equal(t, 36, doc.Metadata.DataPoints.Tier3y)
	assert.Nil(t, doc.WeightProgression)
	assert.Nil(t, doc.CurrentPhase)
}

func TestBuildHistoryFetchErrorAborts(t *testing.T) {
	src := newFakeSource()
	src.errs[KindActivities] = errors.New("timeout")
	svc := NewHistoryService(src, clock())

	doc, err := svc.BuildHistory(context.Background(), "i42", 365)
	assert.Nil(t, doc)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindActivities, fe.Kind)
}

func TestDailyTierEntry(t *testing.T) {
	src := newFakeSource()
	w := fitnessDay(day(0), 50.04, 40)
	w.RampRate = floatPtr(1.234)
	w.HRVSDNN = floatPtr(70)
	w.SleepSecs = floatPtr(27000)
	src.wellness = []intervals.Wellness{w}
	src.activities = []intervals.Activity{
		ride("i1", day(0), 3600, 60),
		ride("i2", day(0), 1800, 25),
	}
	svc := NewHistoryService(src, clock())

	doc, err := svc.BuildHistory(context.Background(), "i42", 90)
	require.NoError(t, err)

	last := doc.Tier90d[89]
	assert.Equal(t, 50.0, *last.CTL)
	assert.Equal(t, 40.0, *last.ATL)
	assert.Equal(t, 10.0, *last.TSB)
	assert.Equal(t, 1.23, *last.RampRate)
	assert.Equal(t, 70.0, *last.HRV)
	assert.Equal(t, 7.5, *last.SleepHours)
	assert.Equal(t, 85.0, last.TSS)
	assert.Equal(t, 2, last.ActivitiesCount)
	require.NotNil(t, last.Phase)
	assert.Equal(t, analysis.PhaseBase, *last.Phase)

	empty := doc.Tier90d[0]
	assert.Nil(t, empty.CTL)
	assert.Nil(t, empty.Phase)
	assert.Equal(t, 0.0, empty.TSS)
}

func TestBuckets(t *testing.T) {
	got := buckets(today, 2, 7)
	require.Len(t, got, 2)
	assert.Equal(t, today.AddDays(-13), got[0].start)
	assert.Equal(t, today.AddDays(-7), got[0].end)
	assert.Equal(t, today.AddDays(-6), got[1].start)
	assert.Equal(t, today, got[1].end)
}

func TestWeeklyTierAggregates(t *testing.T) {
	recs := &records{
		wellness: []intervals.Wellness{
			fitnessDay(day(2), 40, 30),
			fitnessDay(day(1), 50, 40),
			fitnessDay(day(0), 60, 50),
		},
		activities: []intervals.Activity{
			ride("i1", day(0), 3600, 100),
			ride("i2", day(1), 5400, 50),
		},
	}
	h := newHistoryBuild(today, recs)

	weeks := h.weeklyTier(14)
	require.Len(t, weeks, 2)

	w := weeks[1]
	assert.Equal(t, 50.0, *w.CTLAvg)
	assert.Equal(t, 40.0, *w.CTLMin)
	assert.Equal(t, 60.0, *w.CTLMax)
	assert.Equal(t, 40.0, *w.ATLAvg)
	assert.Equal(t, 10.0, *w.TSBAvg)
	assert.Equal(t, 150.0, w.WeeklyTSS)
	assert.Equal(t, 2, w.ActivitiesCount)
	assert.Equal(t, 2.5, w.Hours)
	assert.Equal(t, 2.12, *w.Monotony)
	assert.Nil(t, w.SeilerTID)

	prior := weeks[0]
	assert.Nil(t, prior.CTLAvg)
	assert.Nil(t, prior.Monotony)
	assert.Nil(t, prior.Phase)
}

func TestMonthlyTierZoneDistributionOnlyUpToOneYear(t *testing.T) {
	a := ride("i1", day(0), 3600, 60)
	a.ZoneTimes = []intervals.ZoneTime{{ID: "Z1", Secs: 2400}, {ID: "Z2", Secs: 600}, {ID: "Z5", Secs: 600}}
	h := newHistoryBuild(today, &records{activities: []intervals.Activity{a}})

	oneYear := h.monthlyTier(365)
	twoYears := h.monthlyTier(730)

	require.NotNil(t, oneYear[11].SeilerTID)
	assert.Equal(t, analysis.Distribution{Z1: 83.3, Z2: 0, Z3: 16.7}, *oneYear[11].SeilerTID)
	assert.Nil(t, twoYears[23].SeilerTID)
	assert.Equal(t, 60.0, twoYears[23].MonthlyTSS)
	assert.Equal(t, today.AddDays(-29).String()[:7], oneYear[11].Month)
}

func ftpDay(date string, ftp, weight float64) intervals.Wellness {
	return intervals.Wellness{
		ID:        date,
		Weight:    floatPtr(weight),
		SportInfo: json.RawMessage(`[{"type":"Ride","eftp":` + jsonNumber(ftp) + `}]`),
	}
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func TestFTPTimelineChangePoints(t *testing.T) {
	h := newHistoryBuild(today, &records{wellness: []intervals.Wellness{
		ftpDay(day(30), 250, 70),
		ftpDay(day(20), 250, 70),
		ftpDay(day(10), 260, 70),
		{ID: day(5)},
	}})

	timeline := h.ftpTimeline()
	require.Len(t, timeline, 2)
	assert.Equal(t, day(30), timeline[0].Date)
	assert.Equal(t, 250.0, timeline[0].FTP)
	assert.Equal(t, 3.57, *timeline[0].WKg)
	assert.Equal(t, "wellness", timeline[0].Source)
	assert.Equal(t, 260.0, timeline[1].FTP)

	s := h.summary(timeline, nil)
	assert.Equal(t, 250.0, *s.FTPProgression.Start)
	assert.Equal(t, 10.0, *s.FTPProgression.Gain)
	assert.Equal(t, 4.0, *s.FTPProgression.GainPct)
	assert.Nil(t, s.WeightChange.Start)
}

func TestWeightProgressionTrend(t *testing.T) {
	h := newHistoryBuild(today, &records{wellness: []intervals.Wellness{
		{ID: day(30), Weight: floatPtr(70)},
		{ID: day(15), Weight: floatPtr(0)},
		{ID: day(0), Weight: floatPtr(71.04)},
	}})

	wp := h.weightProgression()
	require.NotNil(t, wp)
	require.Len(t, wp.Entries, 2)
	assert.Equal(t, 71.0, wp.Entries[1].Weight)

	require.NotNil(t, wp.TrendLine)
	assert.Equal(t, 1.0, wp.TrendLine.ChangeKg)
	assert.Equal(t, 1.4, wp.TrendLine.ChangePct)
	assert.Equal(t, 1.01, wp.TrendLine.AvgMonthlyChange)

	s := h.summary(nil, wp)
	assert.Equal(t, 1.0, *s.WeightChange.Change)
	assert.Nil(t, s.FTPProgression.Start)
}

func TestWeightProgressionSingleEntry(t *testing.T) {
	h := newHistoryBuild(today, &records{wellness: []intervals.Wellness{
		{ID: day(3), Weight: floatPtr(68)},
	}})

	wp := h.weightProgression()
	require.NotNil(t, wp)
	assert.Len(t, wp.Entries, 1)
	assert.Nil(t, wp.TrendLine)
}

func TestDataGaps(t *testing.T) {
	window := intervals.DateRange{Oldest: today.AddDays(-30), Newest: today}

	t.Run("around activities", func(t *testing.T) {
		h := newHistoryBuild(today, &records{activities: []intervals.Activity{
			ride("i1", day(20), 3600, 50),
			ride("i2", day(2), 3600, 50),
		}})

		gaps := h.dataGaps(window)
		require.Len(t, gaps, 2)
		assert.Equal(t, DataGap{StartDate: day(30), EndDate: day(20), Days: 10, Reason: "no_activities"}, gaps[0])
		assert.Equal(t, DataGap{StartDate: day(20), EndDate: day(2), Days: 18, Reason: "no_activities"}, gaps[1])
	})

	t.Run("exactly the threshold is not a gap", func(t *testing.T) {
		h := newHistoryBuild(today, &records{activities: []intervals.Activity{
			ride("i1", day(23), 3600, 50),
			ride("i2", day(16), 3600, 50),
			ride("i3", day(9), 3600, 50),
			ride("i4", day(2), 3600, 50),
		}})
		assert.Empty(t, h.dataGaps(window))
	})

	t.Run("no activities", func(t *testing.T) {
		h := newHistoryBuild(today, &records{})
		gaps := h.dataGaps(window)
		require.Len(t, gaps, 1)
		assert.Equal(t, 30, gaps[0].Days)
	})
}

func TestPhaseMarkers(t *testing.T) {
	var wellness []intervals.Wellness
	for i := 7; i >= 3; i-- {
		wellness = append(wellness, fitnessDay(day(i), 50, 50))
	}
	for i := 2; i >= 0; i-- {
		wellness = append(wellness, fitnessDay(day(i), 70, 70))
	}
	h := newHistoryBuild(today, &records{wellness: wellness})

	markers := h.phaseMarkers()
	require.Len(t, markers, 2)
	assert.Equal(t, analysis.PhaseBase, markers[0].Phase)
	assert.Equal(t, day(7), markers[0].StartDate)
	assert.Equal(t, day(3), markers[0].EndDate)
	assert.Equal(t, analysis.PhaseBuild, markers[1].Phase)
	assert.Equal(t, day(2), markers[1].StartDate)
	assert.Equal(t, day(0), markers[1].EndDate)

	current := currentPhase(markers)
	require.NotNil(t, current)
	assert.Equal(t, analysis.PhaseBuild, current.Phase)
	assert.Equal(t, 0, current.WeeksInPhase)
}

func TestPhaseMarkersEndOnLastClassifiedDay(t *testing.T) {
	h := newHistoryBuild(today, &records{wellness: []intervals.Wellness{
		fitnessDay(day(3), 50, 50),
		fitnessDay(day(2), 50, 50),
		{ID: day(1), HRV: floatPtr(60)},
		{ID: day(0), HRV: floatPtr(62)},
	}})

	markers := h.phaseMarkers()
	require.Len(t, markers, 1)
	assert.Equal(t, analysis.PhaseBase, markers[0].Phase)
	assert.Equal(t, day(3), markers[0].StartDate)
	assert.Equal(t, day(2), markers[0].EndDate)
}

func TestHistorySummaryTotals(t *testing.T) {
	h := newHistoryBuild(today, &records{activities: []intervals.Activity{
		ride("i1", day(9), 3600, 50.5),
		ride("i2", day(9), 1800, 20),
		ride("i3", day(4), 5400, 70),
		ride("i4", day(0), 3600, 60),
	}})

	s := h.summary(nil, nil)
	assert.Equal(t, 3, s.TotalDaysWithData)
	assert.Equal(t, 4, s.TotalActivities)
	assert.Equal(t, 4.0, s.TotalHours)
	assert.Equal(t, 200, s.TotalTSS)
	assert.Equal(t, 30.0, s.ConsistencyPct)
	assert.Equal(t, 2.8, s.AvgHoursPerWeek)
}
