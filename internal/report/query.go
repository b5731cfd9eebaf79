package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"intervals-coach/internal/service"
)

const barWidth = 30

// Zones writes a zone distribution report with one bar per zone
func Zones(w io.Writer, r *service.ZoneReport) error {
	p := &printer{w: w}

	p.title(fmt.Sprintf("%s zones %s to %s", strings.ToUpper(string(r.ZoneType)), r.From, r.To))
	p.printf("%s\n", faint.Sprintf("%d activities, %s in zones", r.ActivitiesCount, formatDuration(int(r.TotalSeconds))))

	if len(r.Zones) == 0 {
		p.printf("\n  %s\n", faint.Sprint("No zone data in this range"))
		return p.err
	}

	p.heading("Time in zone")
	for _, z := range r.Zones {
		filled := int(z.Percent / 100 * barWidth)
		bar := goodColor.Sprint(strings.Repeat("#", filled)) + faint.Sprint(strings.Repeat(".", barWidth-filled))
		p.printf("  Z%-2d %s %5.1f%%  %s\n", z.Zone, bar, z.Percent, faint.Sprint(formatDuration(int(z.Seconds))))
	}

	if r.Distribution != nil {
		p.heading("Three-zone model")
		p.row("Distribution", distribution(*r.Distribution))
		p.row("Shape", r.DistributionDescription)
	}
	if r.PolarizationIndex != nil {
		p.row("Polarization index", fmt.Sprintf("%.2f (%s)", *r.PolarizationIndex, r.PolarizationDescription))
	}
	return p.err
}

// Durability writes the aerobic durability report of one activity
func Durability(w io.Writer, r *service.DurabilityReport) error {
	p := &printer{w: w}

	p.title(fmt.Sprintf("Durability: %s", r.Name))
	p.printf("%s\n", faint.Sprintf("%s %s, %s, %d samples", r.ActivityID, r.StartDate, formatDuration(r.MovingTime), r.Samples))

	p.heading("Efficiency")
	p.row("Efficiency factor", withNote(num(r.EfficiencyFactor, 2), r.EfficiencyDescription))
	p.row("Variability index", withNote(num(r.VariabilityIndex, 2), r.VariabilityDescription))

	p.heading("Decoupling")
	dec := num(r.Decoupling, 1)
	if r.Decoupling != nil {
		dec += "%"
		if math.Abs(*r.Decoupling) > 5 {
			dec = warnColor.Sprint(dec)
		} else {
			dec = goodColor.Sprint(dec)
		}
	}
	p.row("Pw:HR decoupling", withNote(dec, r.DecouplingDescription))
	p.row("Source", r.DecouplingSource)
	if r.FirstHalfRatio != nil && r.SecondHalfRatio != nil {
		p.row("Half ratios", fmt.Sprintf("%.3f -> %.3f", *r.FirstHalfRatio, *r.SecondHalfRatio))
	}
	p.row("Data quality", withNote(num(r.DataQuality, 2), r.DataQualityDescription))

	return p.err
}

func withNote(value, note string) string {
	if note == "" {
		return value
	}
	return value + " " + faint.Sprintf("(%s)", note)
}
