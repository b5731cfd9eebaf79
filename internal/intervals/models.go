package intervals

import (
	"bytes"
	"encoding/json"
	"strings"

	"cloud.google.com/go/civil"
)

// Field names a numeric wellness field by its intervals.icu wire name
type Field string

const (
	FieldCTL          Field = "ctl"
	FieldATL          Field = "atl"
	FieldTSB          Field = "tsb"
	FieldRampRate     Field = "rampRate"
	FieldCTLLoad      Field = "ctlLoad"
	FieldATLLoad      Field = "atlLoad"
	FieldWeight       Field = "weight"
	FieldRestingHR    Field = "restingHR"
	FieldHRV          Field = "hrv"
	FieldHRVRMSSD     Field = "hrvRMSSD"
	FieldHRVSDNN      Field = "hrvSDNN"
	FieldSleepSecs    Field = "sleepSecs"
	FieldSleepScore   Field = "sleepScore"
	FieldSleepQuality Field = "sleepQuality"
	FieldSoreness     Field = "soreness"
	FieldFatigue      Field = "fatigue"
	FieldStress       Field = "stress"
	FieldMood         Field = "mood"
	FieldMotivation   Field = "motivation"
	FieldReadiness    Field = "readiness"
)

// HRVFields lists the HRV field names in lookup priority order
var HRVFields = []Field{FieldHRV, FieldHRVRMSSD, FieldHRVSDNN}

// Wellness is one day of wellness data. ID is the calendar date (YYYY-MM-DD).
type Wellness struct {
	ID            string          `json:"id"`
	CTL           *float64        `json:"ctl"`
	ATL           *float64        `json:"atl"`
	TSB           *float64        `json:"tsb,omitempty"`
	RampRate      *float64        `json:"rampRate"`
	CTLLoad       *float64        `json:"ctlLoad"`
	ATLLoad       *float64        `json:"atlLoad"`
	Weight        *float64        `json:"weight"`
	RestingHR     *float64        `json:"restingHR"`
	HRV           *float64        `json:"hrv"`
	HRVRMSSD      *float64        `json:"hrvRMSSD,omitempty"`
	HRVSDNN       *float64        `json:"hrvSDNN"`
	SleepSecs     *float64        `json:"sleepSecs"`
	SleepScore    *float64        `json:"sleepScore"`
	SleepQuality  *float64        `json:"sleepQuality"`
	AvgSleepingHR *float64        `json:"avgSleepingHR"`
	Soreness      *float64        `json:"soreness"`
	Fatigue       *float64        `json:"fatigue"`
	Stress        *float64        `json:"stress"`
	Mood          *float64        `json:"mood"`
	Motivation    *float64        `json:"motivation"`
	Readiness     *float64        `json:"readiness"`
	SportInfo     json.RawMessage `json:"sportInfo,omitempty"`
}

// Date parses the record's date key
func (w Wellness) Date() (civil.Date, error) {
	return civil.ParseDate(w.ID)
}

// Value returns the numeric value of a field, or false if it is absent
func (w Wellness) Value(f Field) (float64, bool) {
	var p *float64
	switch f {
	case FieldCTL:
		p = w.CTL
	case FieldATL:
		p = w.ATL
	case FieldTSB:
		p = w.TSB
	case FieldRampRate:
		p = w.RampRate
	case FieldCTLLoad:
		p = w.CTLLoad
	case FieldATLLoad:
		p = w.ATLLoad
	case FieldWeight:
		p = w.Weight
	case FieldRestingHR:
		p = w.RestingHR
	case FieldHRV:
		p = w.HRV
	case FieldHRVRMSSD:
		p = w.HRVRMSSD
	case FieldHRVSDNN:
		p = w.HRVSDNN
	case FieldSleepSecs:
		p = w.SleepSecs
	case FieldSleepScore:
		p = w.SleepScore
	case FieldSleepQuality:
		p = w.SleepQuality
	case FieldSoreness:
		p = w.Soreness
	case FieldFatigue:
		p = w.Fatigue
	case FieldStress:
		p = w.Stress
	case FieldMood:
		p = w.Mood
	case FieldMotivation:
		p = w.Motivation
	case FieldReadiness:
		p = w.Readiness
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// HRVField returns the first HRV field present on this record
func (w Wellness) HRVField() (Field, bool) {
	for _, f := range HRVFields {
		if _, ok := w.Value(f); ok {
			return f, true
		}
	}
	return "", false
}

// Form returns TSB, falling back to CTL - ATL when TSB is not supplied
func (w Wellness) Form() (float64, bool) {
	if w.TSB != nil {
		return *w.TSB, true
	}
	if w.CTL != nil && w.ATL != nil {
		return *w.CTL - *w.ATL, true
	}
	return 0, false
}

type sportSettings struct {
	Type        string   `json:"type"`
	IcuFTPWatts *float64 `json:"icu_ftp_watts"`
	FTP         *float64 `json:"ftp"`
	EFTP        *float64 `json:"eftp"`
}

func (s sportSettings) ftp() (float64, bool) {
	for _, p := range []*float64{s.IcuFTPWatts, s.FTP, s.EFTP} {
		if p != nil && *p > 0 {
			return *p, true
		}
	}
	return 0, false
}

// FTP extracts the cycling FTP from the nested per-sport info.
// Both the array form ([{"type":"Ride",...}]) and the keyed form
// ({"ride":{...}}) are accepted.
func (w Wellness) FTP() (float64, bool) {
	raw := bytes.TrimSpace(w.SportInfo)
	if len(raw) == 0 {
		return 0, false
	}

	switch raw[0] {
	case '[':
		var sports []sportSettings
		if err := json.Unmarshal(raw, &sports); err != nil {
			return 0, false
		}
		for _, s := range sports {
			if strings.EqualFold(s.Type, "ride") {
				return s.ftp()
			}
		}
	case '{':
		var sports map[string]sportSettings
		if err := json.Unmarshal(raw, &sports); err != nil {
			return 0, false
		}
		for name, s := range sports {
			if strings.EqualFold(name, "ride") {
				return s.ftp()
			}
		}
	}
	return 0, false
}

// ZoneTime is one entry of an activity's power zone times
type ZoneTime struct {
	ID   string  `json:"id"` // "Z1".."Z7", other ids (e.g. "SS") are ignored
	Secs float64 `json:"secs"`
}

// Activity represents a completed activity from the API
type Activity struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	StartDateLocal   string     `json:"start_date_local"`
	Distance         *float64   `json:"distance"`    // meters
	MovingTime       int        `json:"moving_time"` // seconds
	TrainingLoad     *float64   `json:"training_load,omitempty"`
	IcuTrainingLoad  *float64   `json:"icu_training_load"`
	AverageWatts     *float64   `json:"average_watts,omitempty"`
	IcuAverageWatts  *float64   `json:"icu_average_watts"`
	WeightedAvgWatts *float64   `json:"icu_weighted_avg_watts"`
	AverageHeartrate *float64   `json:"average_heartrate"`
	Decoupling       *float64   `json:"decoupling"`
	PwHrDecoupling   *float64   `json:"pw_hr_decoupling,omitempty"`
	ZoneTimes        []ZoneTime `json:"icu_zone_times"`
	HRZoneTimes      []float64  `json:"icu_hr_zone_times"`

	// Streams is attached by callers that fetched them separately
	Streams *Streams `json:"-"`
}

// Date returns the local calendar date the activity started on
func (a Activity) Date() (civil.Date, error) {
	s := a.StartDateLocal
	if len(s) > 10 {
		s = s[:10]
	}
	return civil.ParseDate(s)
}

// Load returns the activity's training load (0 if none reported)
func (a Activity) Load() float64 {
	if a.TrainingLoad != nil && *a.TrainingLoad != 0 {
		return *a.TrainingLoad
	}
	if a.IcuTrainingLoad != nil {
		return *a.IcuTrainingLoad
	}
	return 0
}

// AvgPower returns the average power in watts (0 if none reported)
func (a Activity) AvgPower() float64 {
	if a.AverageWatts != nil && *a.AverageWatts != 0 {
		return *a.AverageWatts
	}
	if a.IcuAverageWatts != nil {
		return *a.IcuAverageWatts
	}
	return 0
}

// NormalizedPower returns the weighted average power (0 if none reported)
func (a Activity) NormalizedPower() float64 {
	if a.WeightedAvgWatts != nil {
		return *a.WeightedAvgWatts
	}
	return 0
}

// AvgHR returns the average heart rate (0 if none reported)
func (a Activity) AvgHR() float64 {
	if a.AverageHeartrate != nil {
		return *a.AverageHeartrate
	}
	return 0
}

// UpstreamDecoupling returns the decoupling precomputed by intervals.icu
func (a Activity) UpstreamDecoupling() (float64, bool) {
	if a.Decoupling != nil {
		return *a.Decoupling, true
	}
	if a.PwHrDecoupling != nil {
		return *a.PwHrDecoupling, true
	}
	return 0, false
}

// Event is a calendar entry (planned workout, note, race...)
type Event struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Category        string   `json:"category"` // WORKOUT, NOTE, RACE_A...
	StartDateLocal  string   `json:"start_date_local"`
	Description     string   `json:"description,omitempty"`
	IcuTrainingLoad *float64 `json:"icu_training_load"`
	MovingTime      *int     `json:"moving_time"`
}

// CategoryWorkout marks planned workouts on the calendar
const CategoryWorkout = "WORKOUT"

// Date returns the calendar date of the event
func (e Event) Date() (civil.Date, error) {
	s := e.StartDateLocal
	if len(s) > 10 {
		s = s[:10]
	}
	return civil.ParseDate(s)
}

// StreamData represents a single stream type. Missing samples decode as nil.
type StreamData[T any] struct {
	Type string `json:"type"`
	Data []T    `json:"data"`
}

// Streams holds the paired 1 Hz power and heart rate samples of an activity
type Streams struct {
	Watts     []float64
	Heartrate []float64
}

// Len returns the number of paired samples, or 0 if nil or unpaired
func (s *Streams) Len() int {
	if s == nil || len(s.Watts) != len(s.Heartrate) {
		return 0
	}
	return len(s.Watts)
}

// HasPower returns true if power data exists
func (s *Streams) HasPower() bool {
	return s != nil && len(s.Watts) > 0
}

func flatten(data []*float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}

// DateRange is an inclusive [Oldest, Newest] window of calendar dates
type DateRange struct {
	Oldest civil.Date
	Newest civil.Date
}

// Contains reports whether d falls within the range, bounds included
func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.Oldest) && !d.After(r.Newest)
}

// Days returns the number of calendar days covered by the range
func (r DateRange) Days() int {
	return r.Newest.DaysSince(r.Oldest) + 1
}
