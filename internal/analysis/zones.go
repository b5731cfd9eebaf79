package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"intervals-coach/internal/intervals"
)

// ZoneType selects which zone model to aggregate
type ZoneType string

const (
	ZoneTypePower ZoneType = "power"
	ZoneTypeHR    ZoneType = "hr"
)

// ParseZoneType validates a zone type name
func ParseZoneType(s string) (ZoneType, error) {
	switch ZoneType(strings.ToLower(s)) {
	case ZoneTypePower:
		return ZoneTypePower, nil
	case ZoneTypeHR:
		return ZoneTypeHR, nil
	}
	return "", fmt.Errorf("unknown zone type %q (want power or hr)", s)
}

// ZoneTimes maps zone number (1-based) to seconds
type ZoneTimes map[int]float64

// Total returns the seconds across all zones
func (z ZoneTimes) Total() float64 {
	var total float64
	for _, secs := range z {
		total += secs
	}
	return total
}

// Zones returns the zone numbers present, ascending
func (z ZoneTimes) Zones() []int {
	zones := make([]int, 0, len(z))
	for k := range z {
		zones = append(zones, k)
	}
	sort.Ints(zones)
	return zones
}

// AggregateZoneTimes sums time in zone across activities. Power zones come
// from "Z<k>" tagged entries; HR zones from the positional array.
func AggregateZoneTimes(activities []intervals.Activity, zoneType ZoneType) ZoneTimes {
	totals := ZoneTimes{}

	for _, a := range activities {
		switch zoneType {
		case ZoneTypePower:
			for _, zt := range a.ZoneTimes {
				if !strings.HasPrefix(zt.ID, "Z") || zt.Secs <= 0 {
					continue
				}
				n, err := strconv.Atoi(zt.ID[1:])
				if err != nil {
					continue
				}
				totals[n] += zt.Secs
			}
		case ZoneTypeHR:
			for i, secs := range a.HRZoneTimes {
				if secs > 0 {
					totals[i+1] += secs
				}
			}
		}
	}

	return totals
}

// Distribution is the share of time in the 3-zone model, in percent.
// Z1 = zones 1-2, Z2 = zones 3-4, Z3 = zones 5-7.
type Distribution struct {
	Z1 float64 `json:"Z1"`
	Z2 float64 `json:"Z2"`
	Z3 float64 `json:"Z3"`
}

func threeZones(z ZoneTimes) (easy, threshold, high float64) {
	return z[1] + z[2], z[3] + z[4], z[5] + z[6] + z[7]
}

// PolarizationIndex = (Z1 + Z3) / Z2 in the 3-zone model (0 when Z2 is empty)
func PolarizationIndex(z ZoneTimes) float64 {
	easy, threshold, high := threeZones(z)
	if threshold == 0 {
		return 0
	}
	return (easy + high) / threshold
}

// PolarizationDescription returns a human-readable PI assessment
func PolarizationDescription(pi float64) string {
	switch {
	case pi >= 3.0:
		return "Highly polarized"
	case pi >= 2.0:
		return "Polarized (optimal)"
	case pi >= 1.0:
		return "Pyramidal"
	default:
		return "Threshold-heavy"
	}
}

// ZonePercentages returns each zone's share of the total time
func ZonePercentages(z ZoneTimes) map[int]float64 {
	total := z.Total()
	if total == 0 {
		return map[int]float64{}
	}
	pct := make(map[int]float64, len(z))
	for zone, secs := range z {
		pct[zone] = secs / total * 100
	}
	return pct
}

// ThreeZoneDistribution collapses zone times into the 3-zone model.
// All zeros when there is no time in zones 1-7.
func ThreeZoneDistribution(z ZoneTimes) Distribution {
	easy, threshold, high := threeZones(z)
	total := easy + threshold + high
	if total == 0 {
		return Distribution{}
	}
	return Distribution{
		Z1: easy / total * 100,
		Z2: threshold / total * 100,
		Z3: high / total * 100,
	}
}

// IsZero reports whether the distribution carries no time
func (d Distribution) IsZero() bool {
	return d.Z1 == 0 && d.Z2 == 0 && d.Z3 == 0
}

// Rounded returns the distribution rounded to one decimal
func (d Distribution) Rounded() Distribution {
	return Distribution{Z1: Round(d.Z1, 1), Z2: Round(d.Z2, 1), Z3: Round(d.Z3, 1)}
}

// DistributionDescription classifies the shape of a 3-zone distribution
func DistributionDescription(d Distribution) string {
	switch {
	case d.Z1 >= 70 && d.Z3 >= 10 && d.Z2 <= 20:
		return "Polarized (80/20 model)"
	case d.Z1 > d.Z2 && d.Z2 > d.Z3:
		return "Pyramidal (traditional)"
	case d.Z2 >= 30:
		return "Threshold-focused"
	default:
		return "Mixed distribution"
	}
}
