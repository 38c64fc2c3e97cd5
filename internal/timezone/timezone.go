// Package timezone resolves the business time zone. Dates typed by users
// (YYYY-MM-DD) are always read in that zone.
package timezone

import (
	"sync"
	"time"
)

const (
	DefaultTimezone = "America/Sao_Paulo"
	DateLayout      = "2006-01-02"
)

var locations sync.Map // name -> *time.Location

func load(tz string) (*time.Location, bool) {
	if tz == "" {
		return nil, false
	}
	if loc, ok := locations.Load(tz); ok {
		return loc.(*time.Location), true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, false
	}
	locations.Store(tz, loc)
	return loc, true
}

func IsValid(tz string) bool {
	_, ok := load(tz)
	return ok
}

// Location falls back to São Paulo for empty or unknown names, and to UTC
// when the zoneinfo database is missing altogether.
func Location(tz string) *time.Location {
	if loc, ok := load(tz); ok {
		return loc
	}
	if loc, ok := load(DefaultTimezone); ok {
		return loc
	}
	return time.UTC
}

func Now() time.Time { return NowIn(DefaultTimezone) }

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ParseDate(s string, tz string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Location(tz))
}

// ParseDateTime reads a date plus an HH:MM clock.
func ParseDateTime(date, clock, tz string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" 15:04", date+" "+clock, Location(tz))
}
