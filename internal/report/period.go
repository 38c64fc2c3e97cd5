package report

import (
	"errors"
	"strings"
	"time"
)

type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

var ErrInvalidPeriod = errors.New("invalid period")

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodMonth, nil
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	default:
		return "", ErrInvalidPeriod
	}
}

func (p Period) months() int {
	switch p {
	case PeriodQuarter:
		return 3
	case PeriodYear:
		return 12
	default:
		return 1
	}
}

// Range is [From, To).
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// Range returns the period containing ref, in ref's location.
func (p Period) Range(ref time.Time) Range {
	y, m, _ := ref.Date()
	loc := ref.Location()

	var start time.Time
	switch p {
	case PeriodYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	case PeriodQuarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, first, 1, 0, 0, 0, 0, loc)
	default:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
	return Range{From: start, To: start.AddDate(0, p.months(), 0)}
}

// Prior is the period of the same length right before r.
func (p Period) Prior(r Range) Range {
	return Range{From: r.From.AddDate(0, -p.months(), 0), To: r.From}
}
