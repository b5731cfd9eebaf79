package analysis

import (
	"sort"

	"cloud.google.com/go/civil"

	"intervals-coach/internal/intervals"
)

// Series is a date-keyed collection of wellness records, sorted ascending.
// Records with an unparseable date are dropped; for duplicate dates the
// last record wins.
type Series struct {
	dates   []civil.Date
	records []intervals.Wellness
}

// NewSeries sorts and indexes wellness records by date
func NewSeries(records []intervals.Wellness) Series {
	type dated struct {
		date civil.Date
		w    intervals.Wellness
	}

	byDate := make(map[civil.Date]intervals.Wellness, len(records))
	for _, w := range records {
		d, err := w.Date()
		if err != nil {
			continue
		}
		byDate[d] = w
	}

	all := make([]dated, 0, len(byDate))
	for d, w := range byDate {
		all = append(all, dated{date: d, w: w})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].date.Before(all[j].date)
	})

	s := Series{
		dates:   make([]civil.Date, len(all)),
		records: make([]intervals.Wellness, len(all)),
	}
	for i, dw := range all {
		s.dates[i] = dw.date
		s.records[i] = dw.w
	}
	return s
}

// Len returns the number of records
func (s Series) Len() int {
	return len(s.records)
}

// Records returns the records oldest first
func (s Series) Records() []intervals.Wellness {
	return s.records
}

// Date returns the date of the i-th record
func (s Series) Date(i int) civil.Date {
	return s.dates[i]
}

// At returns the record for a date
func (s Series) At(d civil.Date) (intervals.Wellness, bool) {
	i := s.search(d)
	if i < len(s.dates) && s.dates[i] == d {
		return s.records[i], true
	}
	return intervals.Wellness{}, false
}

// Before returns the records dated strictly before d
func (s Series) Before(d civil.Date) Series {
	i := s.search(d)
	return Series{dates: s.dates[:i], records: s.records[:i]}
}

// Between returns the records dated within [from, to], bounds included
func (s Series) Between(from, to civil.Date) Series {
	lo := s.search(from)
	hi := s.search(to.AddDays(1))
	if hi < lo {
		hi = lo
	}
	return Series{dates: s.dates[lo:hi], records: s.records[lo:hi]}
}

// Last returns the most recent record
func (s Series) Last() (intervals.Wellness, bool) {
	if len(s.records) == 0 {
		return intervals.Wellness{}, false
	}
	return s.records[len(s.records)-1], true
}

// Tail returns the n most recent records, oldest first
func (s Series) Tail(n int) Series {
	if n < 0 {
		n = 0
	}
	if n > len(s.records) {
		n = len(s.records)
	}
	start := len(s.records) - n
	return Series{dates: s.dates[start:], records: s.records[start:]}
}

// Values returns the present values of a field, most recent first
func (s Series) Values(field intervals.Field) []float64 {
	var values []float64
	for i := len(s.records) - 1; i >= 0; i-- {
		if v, ok := s.records[i].Value(field); ok {
			values = append(values, v)
		}
	}
	return values
}

func (s Series) search(d civil.Date) int {
	return sort.Search(len(s.dates), func(i int) bool {
		return !s.dates[i].Before(d)
	})
}

// DayLog groups activities by local start date
type DayLog struct {
	byDate map[civil.Date][]intervals.Activity
	dates  []civil.Date
}

// NewDayLog buckets activities per day. Activities with an unparseable
// start date are dropped.
func NewDayLog(activities []intervals.Activity) DayLog {
	dl := DayLog{byDate: make(map[civil.Date][]intervals.Activity)}
	for _, a := range activities {
		d, err := a.Date()
		if err != nil {
			continue
		}
		if _, ok := dl.byDate[d]; !ok {
			dl.dates = append(dl.dates, d)
		}
		dl.byDate[d] = append(dl.byDate[d], a)
	}
	sort.Slice(dl.dates, func(i, j int) bool {
		return dl.dates[i].Before(dl.dates[j])
	})
	return dl
}

// On returns the activities started on a date
func (l DayLog) On(d civil.Date) []intervals.Activity {
	return l.byDate[d]
}

// Between returns the activities started within [from, to], oldest day first
func (l DayLog) Between(from, to civil.Date) []intervals.Activity {
	var out []intervals.Activity
	for _, d := range l.dates {
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, l.byDate[d]...)
	}
	return out
}

// Dates returns the distinct active dates, oldest first
func (l DayLog) Dates() []civil.Date {
	return l.dates
}

// Load returns the summed training load of a day
func (l DayLog) Load(d civil.Date) float64 {
	var total float64
	for _, a := range l.byDate[d] {
		total += a.Load()
	}
	return total
}

// DailyLoads returns the summed load of every day in [from, to], zeros included
func (l DayLog) DailyLoads(from, to civil.Date) []float64 {
	var loads []float64
	for d := from; !d.After(to); d = d.AddDays(1) {
		loads = append(loads, l.Load(d))
	}
	return loads
}
