// Package filter narrows in-memory record lists by the criteria a list screen
// offers: date range, status, free text, amount range, category and payment
// method. Unset criteria always match.
package filter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record exposes the fields a record can be filtered by. A record that has no
// notion of a field returns its zero value (and ok=false for amounts/dates).
type Record interface {
	FilterDate() time.Time
	FilterStatus() string
	FilterText() []string
	FilterAmount() (decimal.Decimal, bool)
	FilterCategory() string
	FilterPaymentMethod() string
}

type Options struct {
	DateFrom       *time.Time
	DateTo         *time.Time
	Statuses       []string
	Text           string
	AmountMin      *decimal.Decimal
	AmountMax      *decimal.Decimal
	Categories     []string
	PaymentMethods []string
}

// IsZero reports whether no criterion is set.
func (o Options) IsZero() bool {
	return o.DateFrom == nil && o.DateTo == nil &&
		len(o.Statuses) == 0 && strings.TrimSpace(o.Text) == "" &&
		o.AmountMin == nil && o.AmountMax == nil &&
		len(o.Categories) == 0 && len(o.PaymentMethods) == 0
}

// Apply returns the records matching every populated criterion, in input order.
func Apply[T Record](records []T, opts Options) []T {
	if opts.IsZero() {
		return records
	}

	m := newMatcher(opts)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match evaluates a single record.
func Match(r Record, opts Options) bool {
	return newMatcher(opts).match(r)
}

type matcher struct {
	opts       Options
	from, to   time.Time
	statuses   map[string]struct{}
	categories map[string]struct{}
	methods    map[string]struct{}
	text       string
}

func newMatcher(opts Options) matcher {
	m := matcher{
		opts:       opts,
		statuses:   toSet(opts.Statuses),
		categories: toSet(opts.Categories),
		methods:    toSet(opts.PaymentMethods),
		text:       strings.ToLower(strings.TrimSpace(opts.Text)),
	}
	if opts.DateFrom != nil {
		m.from = calendarDay(*opts.DateFrom)
	}
	if opts.DateTo != nil {
		m.to = calendarDay(*opts.DateTo)
	}
	return m
}

func (m matcher) match(r Record) bool {
	return m.matchDate(r) &&
		matchSet(m.statuses, r.FilterStatus()) &&
		m.matchText(r) &&
		m.matchAmount(r) &&
		matchSet(m.categories, r.FilterCategory()) &&
		matchSet(m.methods, r.FilterPaymentMethod())
}

// Bounds are inclusive calendar days. A record without a usable date
// fails as soon as any bound is set.
func (m matcher) matchDate(r Record) bool {
	if m.opts.DateFrom == nil && m.opts.DateTo == nil {
		return true
	}
	d := r.FilterDate()
	if d.IsZero() {
		return false
	}
	day := calendarDay(d)
	if m.opts.DateFrom != nil && day.Before(m.from) {
		return false
	}
	if m.opts.DateTo != nil && day.After(m.to) {
		return false
	}
	return true
}

func (m matcher) matchText(r Record) bool {
	if m.text == "" {
		return true
	}
	for _, field := range r.FilterText() {
		if strings.Contains(strings.ToLower(field), m.text) {
			return true
		}
	}
	return false
}

func (m matcher) matchAmount(r Record) bool {
	if m.opts.AmountMin == nil && m.opts.AmountMax == nil {
		return true
	}
	v, ok := r.FilterAmount()
	if !ok {
		return false
	}
	if m.opts.AmountMin != nil && v.LessThan(*m.opts.AmountMin) {
		return false
	}
	if m.opts.AmountMax != nil && v.GreaterThan(*m.opts.AmountMax) {
		return false
	}
	return true
}

func matchSet(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// calendarDay keeps the wall-clock date of t, dropping time and zone.
func calendarDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// LowStock keeps the items at or below their minimum stock.
func LowStock[T interface{ IsLowStock() bool }](items []T) []T {
	out := make([]T, 0)
	for _, it := range items {
		if it.IsLowStock() {
			out = append(out, it)
		}
	}
	return out
}
