package payment

import "github.com/plushify/plushify-api/internal/httperr"

type Status string

const (
	StatusPaid      Status = "pago"
	StatusPending   Status = "pendente"
	StatusPartial   Status = "parcial"
	StatusCancelled Status = "cancelado"
	// StatusDeleted never lives in the payments table; it is rebuilt from
	// the audit log of deleted payments.
	StatusDeleted Status = "excluido"
)

type InstallmentStatus string

const (
	InstallmentPaid    InstallmentStatus = "pago"
	InstallmentPending InstallmentStatus = "pendente"
)

// CanCancel: pagamentos em aberto (pendente / parcial)
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusPartial {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanDelete: pagamento quitado não pode ser excluído
func CanDelete(current Status) error {
	if current == StatusPaid {
		return httperr.ErrBusiness("delete_forbidden")
	}
	return nil
}
