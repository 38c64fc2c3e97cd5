package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Filterable / exportable views of the entities. Value receivers keep plain
// slices ([]Appointment, []Payment, ...) usable with the generic helpers.

const exportDate = "2006-01-02"

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDate)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (a Appointment) FilterDate() time.Time  { return a.StartTime }
func (a Appointment) FilterStatus() string   { return a.Status }
func (a Appointment) FilterCategory() string { return a.Service.Category }

func (a Appointment) FilterText() []string {
	return []string{a.Client.Name, a.Service.Name, a.Notes}
}

func (a Appointment) FilterAmount() (decimal.Decimal, bool) { return a.Price, true }
func (a Appointment) FilterPaymentMethod() string          { return "" }

func (a Appointment) ExportHeaders() []string {
	return []string{"id", "client_name", "service_name", "appointment_date", "appointment_time", "duration", "price", "status", "notes"}
}

func (a Appointment) ExportRow() []string {
	return []string{
		strconv.FormatUint(uint64(a.ID), 10),
		a.Client.Name,
		a.Service.Name,
		a.StartTime.Format(exportDate),
		a.StartTime.Format("15:04"),
		strconv.Itoa(a.Duration),
		money(a.Price),
		a.Status,
		a.Notes,
	}
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (p Payment) FilterDate() time.Time { return p.CreatedAt }
func (p Payment) FilterStatus() string  { return p.Status }

func (p Payment) FilterText() []string {
	out := []string{p.Description}
	if p.Client != nil {
		out = append(out, p.Client.Name)
	}
	return out
}

func (p Payment) FilterAmount() (decimal.Decimal, bool) { return p.Amount, true }
func (p Payment) FilterCategory() string               { return "" }
func (p Payment) FilterPaymentMethod() string          { return p.MethodName() }

func (p Payment) MethodName() string {
	if p.PaymentMethod == nil {
		return ""
	}
	return p.PaymentMethod.Name
}

func (p Payment) ClientName() string {
	if p.Client == nil {
		return ""
	}
	return p.Client.Name
}

func (p Payment) ExportHeaders() []string {
	return []string{"id", "description", "client_name", "payment_method", "amount", "paid_amount", "status", "installments", "created_at"}
}

func (p Payment) ExportRow() []string {
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Description,
		p.ClientName(),
		p.MethodName(),
		money(p.Amount),
		money(p.PaidAmount),
		p.Status,
		strconv.Itoa(len(p.Installments)),
		p.CreatedAt.Format(exportDate),
	}
}

// --------------------------------------------------
// Expense
// --------------------------------------------------

func (e Expense) FilterDate() time.Time                 { return e.ExpenseDate }
func (e Expense) FilterStatus() string                  { return "" }
func (e Expense) FilterText() []string                  { return []string{e.Description, e.Category} }
func (e Expense) FilterAmount() (decimal.Decimal, bool) { return e.Amount, true }
func (e Expense) FilterCategory() string                { return e.Category }
func (e Expense) FilterPaymentMethod() string           { return e.MethodName() }

func (e Expense) MethodName() string {
	if e.PaymentMethod == nil {
		return ""
	}
	return e.PaymentMethod.Name
}

func (e Expense) ExportHeaders() []string {
	return []string{"id", "description", "category", "amount", "expense_date", "payment_method"}
}

func (e Expense) ExportRow() []string {
	return []string{
		strconv.FormatUint(uint64(e.ID), 10),
		e.Description,
		e.Category,
		money(e.Amount),
		e.ExpenseDate.Format(exportDate),
		e.MethodName(),
	}
}

// --------------------------------------------------
// Product
// --------------------------------------------------

func (p Product) FilterDate() time.Time { return p.CreatedAt }
func (p Product) FilterStatus() string  { return "" }

func (p Product) FilterText() []string {
	out := []string{p.Name, p.Category}
	if p.Barcode != nil {
		out = append(out, *p.Barcode)
	}
	return out
}

func (p Product) FilterAmount() (decimal.Decimal, bool) { return p.Price, true }
func (p Product) FilterCategory() string               { return p.Category }
func (p Product) FilterPaymentMethod() string          { return "" }

// IsLowStock reports stock at or below the configured minimum.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

func (p Product) ExportHeaders() []string {
	return []string{"id", "name", "category", "stock", "min_stock", "barcode", "price"}
}

func (p Product) ExportRow() []string {
	barcode := ""
	if p.Barcode != nil {
		barcode = *p.Barcode
	}
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Name,
		p.Category,
		strconv.Itoa(p.Stock),
		strconv.Itoa(p.MinStock),
		barcode,
		money(p.Price),
	}
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (c Client) FilterDate() time.Time                 { return c.CreatedAt }
func (c Client) FilterStatus() string                  { return "" }
func (c Client) FilterText() []string                  { return []string{c.Name, c.Phone, c.Email} }
func (c Client) FilterAmount() (decimal.Decimal, bool) { return decimal.Zero, false }
func (c Client) FilterCategory() string                { return "" }
func (c Client) FilterPaymentMethod() string           { return "" }

func (c Client) ExportHeaders() []string {
	return []string{"id", "name", "phone", "email", "birth_date", "notes"}
}

func (c Client) ExportRow() []string {
	return []string{
		strconv.FormatUint(uint64(c.ID), 10),
		c.Name,
		c.Phone,
		c.Email,
		optionalDate(c.BirthDate),
		c.Notes,
	}
}

// --------------------------------------------------
// CashClosure
// --------------------------------------------------

func (c CashClosure) ExportHeaders() []string {
	return []string{"id", "closure_date", "total_income", "notes"}
}

func (c CashClosure) ExportRow() []string {
	return []string{
		strconv.FormatUint(uint64(c.ID), 10),
		c.ClosureDate.Format(exportDate),
		money(c.TotalIncome),
		c.Notes,
	}
}
