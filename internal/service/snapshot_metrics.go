package service

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/intervals"
	"intervals-coach/internal/metrics"
)

// windows are the date bounds of one snapshot, all inclusive
type windows struct {
	days          int
	today         civil.Date
	primaryStart  civil.Date
	extendedStart civil.Date
}

// snapshotBuild holds the state of one snapshot assembly. raw keeps full
// precision values for the alert rules; doc keeps the rounded document copy.
type snapshotBuild struct {
	window   windows
	series   analysis.Series
	days     analysis.DayLog
	primary  []intervals.Activity
	extended []intervals.Activity
	events   []intervals.Event
	logger   *log.Logger

	raw analysis.MetricSet
	doc analysis.MetricSet
}

func newSnapshotBuild(w windows, recs *records, logger *log.Logger) *snapshotBuild {
	dl := analysis.NewDayLog(recs.activities)
	return &snapshotBuild{
		window:   w,
		series:   analysis.NewSeries(recs.wellness),
		days:     dl,
		primary:  dl.Between(w.primaryStart, w.today),
		extended: dl.Between(w.extendedStart, w.today),
		events:   recs.events,
		logger:   logger,
		raw:      analysis.MetricSet{},
		doc:      analysis.MetricSet{},
	}
}

// metricStep computes one group of derived metrics. keys are nulled when
// the step fails.
type metricStep struct {
	name string
	keys []string
	run  func(b *snapshotBuild) error
}

// snapshotSteps run in order; later steps may read earlier raw values
var snapshotSteps = []metricStep{
	{"recovery_index", []string{analysis.MetricRecoveryIndex}, (*snapshotBuild).recoveryMetrics},
	{"acwr", []string{analysis.MetricACWR}, (*snapshotBuild).acwrMetrics},
	{"load_metrics", []string{analysis.MetricMonotony, analysis.MetricStrain}, (*snapshotBuild).loadMetrics},
	{"load_recovery_ratio", []string{"load_recovery_ratio"}, (*snapshotBuild).loadRecoveryMetrics},
	{"zone_distribution", nil, (*snapshotBuild).zoneMetrics},
	{"tid_drift", []string{analysis.MetricTIDDrift}, (*snapshotBuild).tidDriftMetrics},
	{"durability", nil, (*snapshotBuild).durabilityMetrics},
	{"efficiency", nil, (*snapshotBuild).efficiencyMetrics},
	{"phase_detection", []string{"phase_detected"}, (*snapshotBuild).phaseMetrics},
	{"consistency_index", []string{analysis.MetricConsistency}, (*snapshotBuild).consistencyMetrics},
}

func (b *snapshotBuild) computeAll() {
	for _, step := range snapshotSteps {
		b.guard(step)
	}
}

// guard runs a step so that neither an error nor a panic escapes it
func (b *snapshotBuild) guard(step metricStep) {
	defer func() {
		if r := recover(); r != nil {
			b.annotate(step, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := step.run(b); err != nil && !errors.Is(err, analysis.ErrNotComputable) {
		b.annotate(step, err)
	}
}

func (b *snapshotBuild) annotate(step metricStep, err error) {
	for _, k := range step.keys {
		delete(b.raw, k)
		b.doc[k] = nil
	}
	b.doc[step.name+"_error"] = fmt.Sprintf("Calculation error: %v", err)
	metrics.MetricDegradedTotal.WithLabelValues(step.name).Inc()
	b.logger.Warn("derived metric failed", "metric", step.name, "err", err)
}

// setFloat records a numeric metric, rounded in the document
func (b *snapshotBuild) setFloat(key string, v float64, places int) {
	b.raw[key] = v
	b.doc[key] = analysis.Round(v, places)
}

// set records a non-numeric metric in both maps
func (b *snapshotBuild) set(key string, v any) {
	b.raw[key] = v
	b.doc[key] = v
}

func (b *snapshotBuild) todayWellness() (intervals.Wellness, error) {
	w, ok := b.series.At(b.window.today)
	if !ok {
		return w, analysis.ErrNotComputable
	}
	return w, nil
}

func (b *snapshotBuild) recoveryMetrics() error {
	w, err := b.todayWellness()
	if err != nil {
		return err
	}

	field, ok := w.HRVField()
	if !ok {
		return analysis.ErrNotComputable
	}
	hrv, _ := w.Value(field)
	if hrv == 0 || w.RestingHR == nil || *w.RestingHR == 0 {
		return analysis.ErrNotComputable
	}

	opts := analysis.BaselineOptions{Days: analysis.DefaultBaselineDays, Before: b.window.today}
	hrvBaseline := analysis.CalculateBaseline(b.series.Records(), field, opts)
	rhrBaseline := analysis.CalculateBaseline(b.series.Records(), intervals.FieldRestingHR, opts)
	if hrvBaseline <= 0 || rhrBaseline <= 0 {
		return analysis.ErrNotComputable
	}

	ri := analysis.RecoveryIndex(hrv, hrvBaseline, *w.RestingHR, rhrBaseline)
	b.setFloat(analysis.MetricRecoveryIndex, ri, 2)
	b.setFloat("hrv_baseline", hrvBaseline, 1)
	b.setFloat("rhr_baseline", rhrBaseline, 1)
	b.set("recovery_index_interpretation", analysis.RecoveryIndexDescription(ri))
	return nil
}

func (b *snapshotBuild) acwrMetrics() error {
	w, err := b.todayWellness()
	if err != nil {
		return err
	}
	if w.CTL == nil || w.ATL == nil || *w.CTL == 0 || *w.ATL == 0 {
		return analysis.ErrNotComputable
	}

	acwr := analysis.ACWR(*w.ATL, *w.CTL)
	b.setFloat(analysis.MetricACWR, acwr, 2)
	b.set("acwr_interpretation", analysis.ACWRDescription(acwr))
	return nil
}

func (b *snapshotBuild) loadMetrics() error {
	loads := b.days.DailyLoads(b.window.primaryStart, b.window.today)
	monotony := analysis.Monotony(loads)
	strain := analysis.Strain(monotony, analysis.MeanTrainingLoad(loads))

	var weekly float64
	for _, l := range loads {
		weekly += l
	}

	b.setFloat(analysis.MetricMonotony, monotony, 2)
	b.setFloat(analysis.MetricStrain, strain, 1)
	b.setFloat("weekly_load", weekly, 1)
	b.set("monotony_interpretation", analysis.MonotonyDescription(monotony))
	b.set("strain_interpretation", analysis.StrainDescription(strain))
	return nil
}

func (b *snapshotBuild) loadRecoveryMetrics() error {
	ri, ok := b.raw.Float(analysis.MetricRecoveryIndex)
	if !ok || ri == 0 {
		return analysis.ErrNotComputable
	}
	weekly, ok := b.raw.Float("weekly_load")
	if !ok {
		return analysis.ErrNotComputable
	}

	ratio := analysis.LoadRecoveryRatio(weekly, ri)
	b.setFloat("load_recovery_ratio", ratio, 2)
	b.set("load_recovery_interpretation", analysis.LoadRecoveryDescription(ratio))
	return nil
}

// zone distributions are kept raw on the build for the drift step
func (b *snapshotBuild) zoneMetrics() error {
	for _, win := range []struct {
		suffix     string
		activities []intervals.Activity
	}{
		{"7d", b.primary},
		{"28d", b.extended},
	} {
		zt := analysis.AggregateZoneTimes(win.activities, analysis.ZoneTypePower)
		if len(zt) == 0 {
			continue
		}
		pi := analysis.PolarizationIndex(zt)
		dist := analysis.ThreeZoneDistribution(zt)

		b.setFloat("polarization_index_"+win.suffix, pi, 2)
		b.raw["seiler_tid_"+win.suffix] = dist
		b.doc["seiler_tid_"+win.suffix] = dist.Rounded()
		b.set("polarization_interpretation_"+win.suffix, analysis.PolarizationDescription(pi))
		b.set("distribution_interpretation_"+win.suffix, analysis.DistributionDescription(dist))
	}
	return nil
}

func (b *snapshotBuild) tidDriftMetrics() error {
	acute, ok1 := b.raw["seiler_tid_7d"].(analysis.Distribution)
	chronic, ok2 := b.raw["seiler_tid_28d"].(analysis.Distribution)
	if !ok1 || !ok2 {
		return analysis.ErrNotComputable
	}

	cmp := analysis.CompareTID(&acute, &chronic)
	b.set(analysis.MetricTIDDrift, cmp.Classification)
	b.raw["tid_comparison"] = cmp

	rounded := cmp
	if cmp.ZoneDifferences != nil {
		diff := cmp.ZoneDifferences.Rounded()
		rounded.ZoneDifferences = &diff
	}
	a, c := acute.Rounded(), chronic.Rounded()
	rounded.Acute, rounded.Chronic = &a, &c
	b.doc["tid_comparison"] = rounded
	return nil
}

func (b *snapshotBuild) durabilityMetrics() error {
	d7 := analysis.AggregateDurability(b.primary, analysis.MinDurabilityMinutes)
	d28 := analysis.AggregateDurability(b.extended, analysis.MinDurabilityMinutes)

	b.raw["durability_7d"] = d7
	b.raw["durability_28d"] = d28
	b.doc["durability_7d"] = roundDurability(d7)
	b.doc["durability_28d"] = roundDurability(d28)

	if d7.MeanDecoupling != nil {
		b.setFloat(analysis.MetricDurability7d, *d7.MeanDecoupling, 1)
	}
	return nil
}

func roundDurability(d analysis.Durability) analysis.Durability {
	if d.MeanDecoupling != nil {
		d.MeanDecoupling = roundPtr(*d.MeanDecoupling, 1)
	}
	return d
}

// efficiencyMetrics compares the primary window's mean EF against the rest
// of the extended window
func (b *snapshotBuild) efficiencyMetrics() error {
	current := meanEF(b.primary)
	if current == 0 {
		return analysis.ErrNotComputable
	}

	earlier := b.days.Between(b.window.extendedStart, b.window.primaryStart.AddDays(-1))
	var previous *float64
	if ef := meanEF(earlier); ef > 0 {
		previous = &ef
		b.setFloat("efficiency_factor_28d", ef, 2)
	}

	b.setFloat("efficiency_factor_7d", current, 2)
	b.set("efficiency_interpretation", analysis.EfficiencyDescription(current, previous))
	return nil
}

func meanEF(activities []intervals.Activity) float64 {
	var total float64
	var count int
	for _, a := range activities {
		if ef := analysis.EfficiencyFactor(a.NormalizedPower(), a.AvgHR()); ef > 0 {
			total += ef
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func (b *snapshotBuild) phaseMetrics() error {
	phase, ok := analysis.PhaseOn(b.series, b.window.today)
	if !ok {
		return analysis.ErrNotComputable
	}

	b.set("phase_detected", phase)
	b.set("phase_interpretation", analysis.PhaseDescription(phase))

	days := analysis.DaysInPhase(b.series.Between(b.window.extendedStart, b.window.today), b.window.today, phase)
	prog := analysis.PhaseProgression(phase, days/DaysPerWeek)
	prog.ProgressPct = analysis.Round(prog.ProgressPct, 1)
	b.set("phase_progression", prog)
	return nil
}

// consistencyMetrics counts planned workouts before today that have an
// activity on the same date
func (b *snapshotBuild) consistencyMetrics() error {
	from := b.window.today.AddDays(-b.window.days)
	var planned, completed int
	for _, e := range b.events {
		if e.Category != intervals.CategoryWorkout {
			continue
		}
		d, err := e.Date()
		if err != nil || d.Before(from) || !d.Before(b.window.today) {
			continue
		}
		planned++
		if len(b.days.On(d)) > 0 {
			completed++
		}
	}
	if planned == 0 {
		return analysis.ErrNotComputable
	}

	ci := analysis.ConsistencyIndex(completed, planned)
	b.setFloat(analysis.MetricConsistency, ci, 2)
	b.set("consistency_interpretation", analysis.ConsistencyDescription(ci))
	b.set("planned_sessions", planned)
	b.set("completed_sessions", completed)
	return nil
}
