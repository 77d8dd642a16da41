package day

// Range is an inclusive span of days.
type Range struct{ From, To Date }

// Year returns the range covering January 1st to December 31st of year.
func Year(year int) Range {
	return Range{From: New(year, 1, 1), To: New(year, 12, 31)}
}

// Weeks returns the range from the Monday on or before r.From to the Sunday
// on or after r.To.
func (r Range) Weeks() Range {
	return Range{From: r.From.StartOfWeek(), To: r.To.EndOfWeek()}
}

// Contains reports whether d falls in r, boundaries included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Len returns the number of days in r, zero when r is inverted.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Sub(r.From) + 1
}

// Days returns every day of r in ascending order.
func (r Range) Days() []Date {
	days := make([]Date, 0, r.Len())
	for d := r.From; !d.After(r.To); d = d.Add(1) {
		days = append(days, d)
	}
	return days
}
