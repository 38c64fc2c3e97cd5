package handlers

import (
	"context"

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
	ucAppointment "github.com/plushify/plushify-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	tenants  Tenants
	create   *ucAppointment.CreateAppointment
	confirm  *ucAppointment.ConfirmAppointment
	cancel   *ucAppointment.CancelAppointment
	complete *ucAppointment.CompleteAppointment
	list     *ucAppointment.ListAppointments
	bulk     *ucAppointment.BulkAppointments
	exporter *Exporter
}

func NewAppointmentHandler(
	tenants Tenants,
	create *ucAppointment.CreateAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	list *ucAppointment.ListAppointments,
	bulk *ucAppointment.BulkAppointments,
	exporter *Exporter,
) *AppointmentHandler {
	return &AppointmentHandler{
		tenants:  tenants,
		create:   create,
		confirm:  confirm,
		cancel:   cancel,
		complete: complete,
		list:     list,
		bulk:     bulk,
		exporter: exporter,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes"`

	// opcionais: sobrescrevem os valores do serviço
	DurationMin *int             `json:"duration_min"`
	Price       *decimal.Decimal `json:"price"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BusinessID:     middleware.BusinessID(c),
		ProfessionalID: middleware.UserID(c),
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		DurationMin:    req.DurationMin,
		Price:          req.Price,
	})
	if err != nil {
		respondError(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST / EXPORT
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	appointments, ok := h.filtered(c)
	if !ok {
		return
	}
	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) Export(c *gin.Context) {
	appointments, ok := h.filtered(c)
	if !ok {
		return
	}

	sendExport(c, h.exporter, "agendamentos", "Agendamentos", appointments, export.Options{
		Groups: []report.Grouping{report.SubtotalsByCategory(appointments)},
	})
}

func (h *AppointmentHandler) filtered(c *gin.Context) ([]models.Appointment, bool) {
	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return nil, false
	}

	opts, err := filter.ParseOptions(c, loc)
	if err != nil {
		respondError(c, err, "invalid_filter")
		return nil, false
	}

	appointments, err := h.list.Execute(c.Request.Context(), middleware.BusinessID(c), opts)
	if err != nil {
		respondError(c, err, "failed_to_list_appointments")
		return nil, false
	}
	return appointments, true
}

// ======================================================
// STATUS (confirmar / cancelar / concluir)
// ======================================================

type transitionFunc func(ctx context.Context, businessID, userID, appointmentID uint) (*models.Appointment, error)

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.confirm.Execute, "failed_to_confirm_appointment")
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cancel.Execute, "failed_to_cancel_appointment")
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete.Execute, "failed_to_complete_appointment")
}

func (h *AppointmentHandler) transition(c *gin.Context, fn transitionFunc, fallback string) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := fn(c.Request.Context(), middleware.BusinessID(c), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err, fallback)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// BULK
// ======================================================

func (h *AppointmentHandler) Bulk(c *gin.Context) {
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
