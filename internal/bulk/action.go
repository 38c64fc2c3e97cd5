// Package bulk validates and runs one action over a selection of records.
//
// Validation is all-or-nothing: the first record breaking a rule aborts the
// whole batch before anything is written. Execution is not: each record gets
// its own mutation, all of them run concurrently, and whatever succeeded
// stays applied when others fail.
package bulk

import (
	"errors"
	"time"

	domainappt "github.com/plushify/plushify-api/internal/domain/appointment"
	domainpay "github.com/plushify/plushify-api/internal/domain/payment"
)

type Action string

const (
	ActionConfirm  Action = "confirmar"
	ActionCancel   Action = "cancelar"
	ActionComplete Action = "concluir"
	ActionDelete   Action = "excluir"
)

var (
	ErrEmptySelection    = errors.New("empty_selection")
	ErrUnsupportedAction = errors.New("unsupported_action")
)

// Candidate is the slice of a record the rules look at.
type Candidate struct {
	ID          uint
	Status      string
	ScheduledAt time.Time
}

// Rule returns a business error when c cannot take the action at now.
type Rule func(c Candidate, now time.Time) error

type RuleSet map[Action]Rule

// AppointmentRules mirrors the single-record transitions of appointments.
var AppointmentRules = RuleSet{
	ActionConfirm: func(c Candidate, _ time.Time) error {
		return domainappt.CanConfirm(domainappt.Status(c.Status))
	},
	ActionCancel: func(c Candidate, now time.Time) error {
		return domainappt.CanCancel(domainappt.Status(c.Status), c.ScheduledAt, now)
	},
	ActionComplete: func(c Candidate, _ time.Time) error {
		return domainappt.CanComplete(domainappt.Status(c.Status))
	},
	ActionDelete: func(c Candidate, _ time.Time) error {
		return domainappt.CanDelete(domainappt.Status(c.Status))
	},
}

var PaymentRules = RuleSet{
	ActionCancel: func(c Candidate, _ time.Time) error {
		return domainpay.CanCancel(domainpay.Status(c.Status))
	},
	ActionDelete: func(c Candidate, _ time.Time) error {
		return domainpay.CanDelete(domainpay.Status(c.Status))
	},
}

// Normalize drops zero and repeated ids, keeping first-seen order.
func Normalize(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
