package analysis

// Phase is a training periodization phase
type Phase string

const (
	PhaseBase     Phase = "Base"
	PhaseBuild    Phase = "Build"
	PhasePeak     Phase = "Peak"
	PhaseTaper    Phase = "Taper"
	PhaseRecovery Phase = "Recovery"
)

// Trend is the direction of CTL over the last week
type Trend string

const (
	TrendUnknown    Trend = ""
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

// PhaseInput holds the fitness values a phase is classified from
type PhaseInput struct {
	CTL float64
	ATL float64
	TSB float64

	// CTL7dAgo enables trend detection when set and positive
	CTL7dAgo *float64
}

// CTLTrend classifies the week-over-week CTL change (+/-5% bands)
func CTLTrend(ctl float64, ctl7dAgo *float64) Trend {
	if ctl7dAgo == nil || *ctl7dAgo <= 0 {
		return TrendUnknown
	}
	change := (ctl - *ctl7dAgo) / *ctl7dAgo * 100
	switch {
	case change > 5:
		return TrendIncreasing
	case change < -5:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

type phaseRule struct {
	phase Phase
	match func(in PhaseInput, acwr float64, trend Trend) bool
}

// phaseRules are evaluated in order; the first match wins
var phaseRules = []phaseRule{
	{PhaseRecovery, func(in PhaseInput, acwr float64, _ Trend) bool {
		return in.TSB > 15 && acwr < 0.7
	}},
	{PhaseTaper, func(in PhaseInput, acwr float64, trend Trend) bool {
		return in.TSB > 5 && acwr < 0.8 && (trend == TrendDecreasing || trend == TrendStable)
	}},
	{PhasePeak, func(in PhaseInput, acwr float64, _ Trend) bool {
		return in.CTL > 80 && acwr > 0.9 && in.TSB > -10 && in.TSB < 5
	}},
	{PhaseBuild, func(_ PhaseInput, acwr float64, trend Trend) bool {
		return trend == TrendIncreasing && acwr >= 0.8 && acwr <= 1.2
	}},
	{PhaseBase, func(in PhaseInput, _ float64, _ Trend) bool {
		return in.CTL < 60
	}},
}

// DetectPhase classifies the current training phase, defaulting to Build
func DetectPhase(in PhaseInput) Phase {
	acwr := ACWR(in.ATL, in.CTL)
	trend := CTLTrend(in.CTL, in.CTL7dAgo)

	for _, rule := range phaseRules {
		if rule.match(in, acwr, trend) {
			return rule.phase
		}
	}
	return PhaseBuild
}

// PhaseDescription returns guidance for a phase
func PhaseDescription(p Phase) string {
	switch p {
	case PhaseBase:
		return "Building aerobic foundation - focus on volume at low intensity"
	case PhaseBuild:
		return "Building fitness - structured intervals and progressive overload"
	case PhasePeak:
		return "Peak fitness - maintain intensity, manage fatigue carefully"
	case PhaseTaper:
		return "Pre-event taper - reducing load while maintaining intensity"
	case PhaseRecovery:
		return "Recovery period - prioritize rest and adaptation"
	default:
		return "Unknown phase"
	}
}

// PhaseDuration is the typical [min, max] length of a phase in weeks
type PhaseDuration struct {
	MinWeeks int
	MaxWeeks int
}

var phaseDurations = map[Phase]PhaseDuration{
	PhaseBase:     {4, 12},
	PhaseBuild:    {4, 8},
	PhasePeak:     {1, 3},
	PhaseTaper:    {1, 2},
	PhaseRecovery: {1, 2},
}

// Progression describes how far into its typical duration a phase is
type Progression struct {
	Phase        Phase   `json:"phase"`
	WeeksInPhase int     `json:"weeks_in_phase"`
	ProgressPct  float64 `json:"progress_pct"`
	Status       string  `json:"status"` // Early, Mid, Extended
	MinWeeks     int     `json:"min_duration_weeks"`
	MaxWeeks     int     `json:"max_duration_weeks"`
}

// PhaseProgression places weeksInPhase within the phase's typical duration
func PhaseProgression(p Phase, weeksInPhase int) Progression {
	dur, ok := phaseDurations[p]
	if !ok {
		dur = phaseDurations[PhaseBuild]
	}

	prog := Progression{
		Phase:        p,
		WeeksInPhase: weeksInPhase,
		MinWeeks:     dur.MinWeeks,
		MaxWeeks:     dur.MaxWeeks,
	}

	switch {
	case weeksInPhase < dur.MinWeeks:
		prog.ProgressPct = float64(weeksInPhase) / float64(dur.MinWeeks) * 50
		prog.Status = "Early"
	case weeksInPhase <= dur.MaxWeeks:
		prog.Status = "Mid"
		if span := dur.MaxWeeks - dur.MinWeeks; span > 0 {
			prog.ProgressPct = 50 + float64(weeksInPhase-dur.MinWeeks)/float64(span)*50
		} else {
			prog.ProgressPct = 75
		}
	default:
		prog.ProgressPct = 100
		prog.Status = "Extended"
	}

	return prog
}
