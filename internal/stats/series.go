package stats

import (
	"fmt"
	"time"

	"github.com/runnerr0/iotracker/internal/day"
	"github.com/runnerr0/iotracker/internal/tracker"
)

// Point is one sample of a chart series.
type Point struct {
	DayKey          string  `json:"dayKey"`
	DisplayLabel    string  `json:"displayLabel"`
	TimestampMs     int64   `json:"timestampMs"`
	Hours           float64 `json:"hours"`
	Output          bool    `json:"output"`
	TrailingAverage float64 `json:"trailingAverage"`
	IsFuture        bool    `json:"isFuture"`
}

// Date returns the day the point is keyed by.
func (p Point) Date() day.Date { return day.MustParse(p.DayKey) }

// Mode selects a projection of the daily series.
type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeWeekly Mode = "weekly"
	ModeBuild  Mode = "build"
)

// Modes lists the projections in display order.
var Modes = []Mode{ModeDaily, ModeWeekly, ModeBuild}

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown chart mode %q (want daily, weekly or build)", s)
}

// Series is a projected chart series. Average is the reference line value
// attached to every point; it is 0 for the build projection.
type Series struct {
	Mode    Mode    `json:"mode"`
	Points  []Point `json:"points"`
	Average float64 `json:"average"`
}

// Materialize returns one point per calendar day of year, filling days
// without an entry with zeros. Points after today are flagged future and
// every point carries the mean hours of the days up to today. Timestamps
// are local midnights in loc, or time.Local when loc is nil.
func Materialize(ledger tracker.Ledger, year int, today day.Date, loc *time.Location) []Point {
	loc = orLocal(loc)
	days := day.Year(year).Days()
	points := make([]Point, len(days))

	var total float64
	var passed int
	for i, d := range days {
		key := d.String()
		e := ledger[key]
		future := d.After(today)
		if !future {
			total += e.Hours
			passed++
		}
		points[i] = Point{
			DayKey:       key,
			DisplayLabel: d.Label(),
			TimestampMs:  d.Midnight(loc).UnixMilli(),
			Hours:        e.Hours,
			Output:       e.Output,
			IsFuture:     future,
		}
	}

	avg := mean(total, passed)
	for i := range points {
		points[i].TrailingAverage = avg
	}
	return points
}

// Project materializes the year and applies mode.
func Project(ledger tracker.Ledger, year int, today day.Date, mode Mode, loc *time.Location) (Series, error) {
	daily := Materialize(ledger, year, today, loc)
	switch mode {
	case ModeDaily:
		s := Series{Mode: ModeDaily, Points: daily}
		if len(daily) > 0 {
			s.Average = daily[0].TrailingAverage
		}
		return s, nil
	case ModeWeekly:
		return Weekly(daily, today, loc), nil
	case ModeBuild:
		return Build(daily), nil
	default:
		return Series{}, fmt.Errorf("unknown chart mode %q", mode)
	}
}

// Weekly sums daily points into Monday-anchored weeks. A week is keyed by
// its Monday even when that Monday falls outside the year.
func Weekly(daily []Point, today day.Date, loc *time.Location) Series {
	loc = orLocal(loc)
	var weeks []Point
	var current day.Date
	for _, p := range daily {
		start := p.Date().StartOfWeek()
		if len(weeks) == 0 || start != current {
			current = start
			weeks = append(weeks, Point{
				DayKey:       start.String(),
				DisplayLabel: start.Label(),
				TimestampMs:  start.Midnight(loc).UnixMilli(),
				IsFuture:     start.After(today),
			})
		}
		w := &weeks[len(weeks)-1]
		w.Hours += p.Hours
		w.Output = w.Output || p.Output
	}

	var total float64
	var n int
	for _, w := range weeks {
		if !w.IsFuture {
			total += w.Hours
			n++
		}
	}
	avg := mean(total, n)
	for i := range weeks {
		weeks[i].TrailingAverage = avg
	}
	return Series{Mode: ModeWeekly, Points: weeks, Average: avg}
}

// Build turns daily points into the running hours total since the last
// shipped output. A shipping day carries the total including itself and
// the next day starts again from zero.
func Build(daily []Point) Series {
	points := make([]Point, len(daily))
	var acc float64
	for i, p := range daily {
		acc += p.Hours
		p.Hours = acc
		p.TrailingAverage = 0
		points[i] = p
		if p.Output {
			acc = 0
		}
	}
	return Series{Mode: ModeBuild, Points: points}
}

// Window returns the last n points ending at the first point on or after
// today. When no point is on or after today the whole series is returned.
func Window(points []Point, today day.Date, n int) []Point {
	if n <= 0 {
		return points
	}
	idx := -1
	for i, p := range points {
		if !p.Date().Before(today) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return points
	}
	start := idx - (n - 1)
	if start < 0 {
		start = 0
	}
	return points[start : idx+1]
}

// Window trims s to its last n points ending at the point that covers
// today. Weekly points are keyed by their Monday, so the week holding
// today is the anchor.
func (s Series) Window(today day.Date, n int) Series {
	anchor := today
	if s.Mode == ModeWeekly {
		anchor = today.StartOfWeek()
	}
	s.Points = Window(s.Points, anchor, n)
	return s
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
