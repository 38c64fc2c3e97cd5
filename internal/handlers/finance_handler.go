package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/report"
	"github.com/plushify/plushify-api/internal/timezone"
	ucFinance "github.com/plushify/plushify-api/internal/usecase/finance"
)

// ======================================================
// HANDLER
// ======================================================

// FinanceHandler serves expenses, cash closures and payment methods.
type FinanceHandler struct {
	tenants  Tenants
	expenses *ucFinance.Expenses
	closures *ucFinance.CashClosures
	methods  *ucFinance.PaymentMethods
	exporter *Exporter
}

func NewFinanceHandler(
	tenants Tenants,
	expenses *ucFinance.Expenses,
	closures *ucFinance.CashClosures,
	methods *ucFinance.PaymentMethods,
	exporter *Exporter,
) *FinanceHandler {
	return &FinanceHandler{
		tenants:  tenants,
		expenses: expenses,
		closures: closures,
		methods:  methods,
		exporter: exporter,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateExpenseRequest struct {
	Description     string          `json:"description" binding:"required"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	ExpenseDate     string          `json:"expense_date" binding:"required"`
	PaymentMethodID *uint           `json:"payment_method_id"`
	PaymentMethod   string          `json:"payment_method"`
}

type CloseDayRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type CreatePaymentMethodRequest struct {
	Name string `json:"name" binding:"required"`
}

// ======================================================
// EXPENSES
// ======================================================

func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return
	}
	businessID := middleware.BusinessID(c)

	methodID := req.PaymentMethodID
	if methodID == nil && req.PaymentMethod != "" {
		id, err := h.methods.Resolve(c.Request.Context(), businessID, req.PaymentMethod)
		if err != nil {
			respondError(c, err, "failed_to_resolve_payment_method")
			return
		}
		methodID = id
	}

	e, err := h.expenses.Create(c.Request.Context(), ucFinance.CreateExpenseInput{
		BusinessID:      businessID,
		UserID:          middleware.UserID(c),
		Description:     req.Description,
		Category:        req.Category,
		Amount:          req.Amount,
		ExpenseDate:     req.ExpenseDate,
		PaymentMethodID: methodID,
	}, loc)
	if err != nil {
		respondError(c, err, "failed_to_create_expense")
		return
	}

	httpresp.Created(c, e)
}

func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	expenses, ok := h.filteredExpenses(c)
	if !ok {
		return
	}
	httpresp.List(c, expenses)
}

func (h *FinanceHandler) ExportExpenses(c *gin.Context) {
	expenses, ok := h.filteredExpenses(c)
	if !ok {
		return
	}

	sendExport(c, h.exporter, "despesas", "Despesas", expenses, export.Options{
		Groups: []report.Grouping{
			report.SubtotalsByCategory(expenses),
			report.SubtotalsByPaymentMethod(expenses),
		},
	})
}

func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), middleware.BusinessID(c), middleware.UserID(c), id); err != nil {
		respondError(c, err, "failed_to_delete_expense")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FinanceHandler) filteredExpenses(c *gin.Context) ([]models.Expense, bool) {
	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return nil, false
	}

	opts, err := filter.ParseOptions(c, loc)
	if err != nil {
		respondError(c, err, "invalid_filter")
		return nil, false
	}

	start, end := filter.Window(opts, loc, timezone.Now().In(loc))
	expenses, err := h.expenses.List(c.Request.Context(), middleware.BusinessID(c), start, end, opts)
	if err != nil {
		respondError(c, err, "failed_to_list_expenses")
		return nil, false
	}
	return expenses, true
}

// ======================================================
// CASH CLOSURES
// ======================================================

func (h *FinanceHandler) CloseDay(c *gin.Context) {
	var req CloseDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return
	}

	closure, err := h.closures.Close(c.Request.Context(), ucFinance.CloseDayInput{
		BusinessID: middleware.BusinessID(c),
		UserID:     middleware.UserID(c),
		Date:       req.Date,
		Notes:      req.Notes,
	}, loc)
	if err != nil {
		respondError(c, err, "failed_to_close_day")
		return
	}

	httpresp.Created(c, closure)
}

func (h *FinanceHandler) ListClosures(c *gin.Context) {
	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return
	}

	opts, err := filter.ParseOptions(c, loc)
	if err != nil {
		respondError(c, err, "invalid_filter")
		return
	}

	start, end := filter.Window(opts, loc, timezone.Now().In(loc))
	closures, err := h.closures.List(c.Request.Context(), middleware.BusinessID(c), start, end)
	if err != nil {
		respondError(c, err, "failed_to_list_closures")
		return
	}

	httpresp.List(c, closures)
}

// ======================================================
// PAYMENT METHODS
// ======================================================

func (h *FinanceHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.methods.List(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		respondError(c, err, "failed_to_list_payment_methods")
		return
	}
	httpresp.List(c, methods)
}

func (h *FinanceHandler) CreatePaymentMethod(c *gin.Context) {
	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	m, err := h.methods.Create(c.Request.Context(), middleware.BusinessID(c), req.Name)
	if err != nil {
		respondError(c, err, "failed_to_create_payment_method")
		return
	}

	httpresp.Created(c, m)
}
