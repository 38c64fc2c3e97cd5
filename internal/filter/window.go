package filter

import "time"

// Window returns the fetch range [start, end) for opts: the date bounds when
// given (date_to inclusive), otherwise the month of now. A single bound
// spans one month from (or up to) it.
func Window(opts Options, loc *time.Location, now time.Time) (time.Time, time.Time) {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	if opts.DateFrom != nil {
		start = dayIn(*opts.DateFrom, loc)
		if opts.DateTo == nil {
			end = start.AddDate(0, 1, 0)
		}
	}
	if opts.DateTo != nil {
		end = dayIn(*opts.DateTo, loc).AddDate(0, 0, 1)
		if opts.DateFrom == nil {
			start = end.AddDate(0, -1, 0)
		}
	}
	return start, end
}

func dayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
