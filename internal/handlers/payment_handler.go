package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/bulk"
	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/report"
	"github.com/plushify/plushify-api/internal/timezone"
	ucFinance "github.com/plushify/plushify-api/internal/usecase/finance"
	ucPayment "github.com/plushify/plushify-api/internal/usecase/payment"
)

type PaymentHandler struct {
	tenants  Tenants
	create   *ucPayment.CreatePayment
	pay      *ucPayment.PayInstallment
	methods  *ucFinance.PaymentMethods
	list     *ucPayment.ListPayments
	bulk     *ucPayment.BulkPayments
	exporter *Exporter
}

func NewPaymentHandler(
	tenants Tenants,
	create *ucPayment.CreatePayment,
	pay *ucPayment.PayInstallment,
	methods *ucFinance.PaymentMethods,
	list *ucPayment.ListPayments,
	bulk *ucPayment.BulkPayments,
	exporter *Exporter,
) *PaymentHandler {
	return &PaymentHandler{
		tenants:  tenants,
		create:   create,
		pay:      pay,
		methods:  methods,
		list:     list,
		bulk:     bulk,
		exporter: exporter,
	}
}

// --------- Requests ---------

type CreatePaymentRequest struct {
	ClientID        *uint           `json:"client_id"`
	AppointmentID   *uint           `json:"appointment_id"`
	PaymentMethodID *uint           `json:"payment_method_id"`
	PaymentMethod   string          `json:"payment_method"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Installments    int             `json:"installments"`
	FirstDueDate    string          `json:"first_due_date"`
	PayFirst        bool            `json:"pay_first"`
}

// --------- Handlers ---------

func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	business, ok := currentBusiness(c, h.tenants)
	if !ok {
		return
	}

	methodID := req.PaymentMethodID
	if methodID == nil && req.PaymentMethod != "" {
		id, err := h.methods.Resolve(c.Request.Context(), business.ID, req.PaymentMethod)
		if err != nil {
			respondError(c, err, "failed_to_resolve_payment_method")
			return
		}
		methodID = id
	}

	p, err := h.create.Execute(c.Request.Context(), ucPayment.CreatePaymentInput{
		BusinessID:      business.ID,
		UserID:          middleware.UserID(c),
		ClientID:        req.ClientID,
		PaymentMethodID: methodID,
		AppointmentID:   req.AppointmentID,
		Description:     req.Description,
		Amount:          req.Amount,
		Installments:    req.Installments,
		FirstDueDate:    req.FirstDueDate,
		PayFirst:        req.PayFirst,
		Timezone:        business.Timezone,
	})
	if err != nil {
		respondError(c, err, "failed_to_create_payment")
		return
	}

	httpresp.Created(c, p)
}

func (h *PaymentHandler) PayInstallment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	p, err := h.pay.Execute(c.Request.Context(), middleware.BusinessID(c), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err, "failed_to_pay_installment")
		return
	}

	httpresp.OK(c, p)
}

func (h *PaymentHandler) List(c *gin.Context) {
	payments, ok := h.filtered(c)
	if !ok {
		return
	}
	httpresp.List(c, payments)
}

func (h *PaymentHandler) Export(c *gin.Context) {
	payments, ok := h.filtered(c)
	if !ok {
		return
	}

	sendExport(c, h.exporter, "pagamentos", "Pagamentos", payments, export.Options{
		Groups: []report.Grouping{report.SubtotalsByPaymentMethod(payments)},
	})
}

func (h *PaymentHandler) filtered(c *gin.Context) ([]models.Payment, bool) {
	business, ok := currentBusiness(c, h.tenants)
	if !ok {
		return nil, false
	}
	loc := timezone.Location(business.Timezone)

	opts, err := filter.ParseOptions(c, loc)
	if err != nil {
		respondError(c, err, "invalid_filter")
		return nil, false
	}

	start, end := filter.Window(opts, loc, timezone.NowIn(business.Timezone))
	payments, err := h.list.Execute(c.Request.Context(), business.ID, start, end, opts, boolQuery(c, "include_deleted"))
	if err != nil {
		respondError(c, err, "failed_to_list_payments")
		return nil, false
	}
	return payments, true
}

func (h *PaymentHandler) Bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.bulk.Execute(
		c.Request.Context(),
		middleware.BusinessID(c),
		middleware.UserID(c),
		bulk.Action(req.Action),
		req.IDs,
	)
	if err != nil {
		respondError(c, err, "bulk_failed")
		return
	}

	httpresp.OK(c, res)
}
