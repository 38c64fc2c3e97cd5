package appointment

import (
	"time"

	"github.com/plushify/plushify-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "agendado"
	StatusConfirmed Status = "confirmado"
	StatusCompleted Status = "concluido"
	StatusCancelled Status = "cancelado"
)

// MinCancelNotice is the notice a cancellation needs. Exactly 24h is already too late.
const MinCancelNotice = 24 * time.Hour

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanConfirm: só agendamentos ainda não confirmados
func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel exige status aberto e mais de 24h de antecedência
func CanCancel(current Status, start, now time.Time) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	if start.Sub(now) <= MinCancelNotice {
		return httperr.ErrBusiness("cancel_too_late")
	}
	return nil
}

// CanComplete: apenas a partir de "confirmado"
func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanDelete(current Status) error {
	if current == StatusConfirmed || current == StatusCompleted {
		return httperr.ErrBusiness("delete_forbidden")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
