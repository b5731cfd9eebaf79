package analysis

import (
	"cloud.google.com/go/civil"

	"intervals-coach/internal/intervals"
)

// Helper functions for creating test data
func floatPtr(f float64) *float64 {
	return &f
}

func mustDate(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func hrvDay(date string, hrv, rhr float64) intervals.Wellness {
	return intervals.Wellness{ID: date, HRV: floatPtr(hrv), RestingHR: floatPtr(rhr)}
}

func fitnessDay(date string, ctl, atl float64) intervals.Wellness {
	return intervals.Wellness{ID: date, CTL: floatPtr(ctl), ATL: floatPtr(atl)}
}

func rideWithZones(date string, movingTime int, zones map[string]float64) intervals.Activity {
	a := intervals.Activity{StartDateLocal: date + "T08:00:00", MovingTime: movingTime}
	for id, secs := range zones {
		a.ZoneTimes = append(a.ZoneTimes, intervals.ZoneTime{ID: id, Secs: secs})
	}
	return a
}
