package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
	ucLoyalty "github.com/plushify/plushify-api/internal/usecase/loyalty"
	"github.com/plushify/plushify-api/internal/validators"
)

type ClientStore interface {
	ListClients(ctx context.Context, businessID uint, search string) ([]models.Client, error)
	GetClient(ctx context.Context, businessID, clientID uint) (*models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error
	UpdateClient(ctx context.Context, c *models.Client) error
}

type ClientHandler struct {
	clients  ClientStore
	loyalty  *ucLoyalty.Program
	exporter *Exporter
}

func NewClientHandler(clients ClientStore, loyalty *ucLoyalty.Program, exporter *Exporter) *ClientHandler {
	return &ClientHandler{clients: clients, loyalty: loyalty, exporter: exporter}
}

// ======================================================
// REQUESTS
// ======================================================

type ClientRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
	Notes     string `json:"notes"`
}

type RedeemRequest struct {
	Points int `json:"points" binding:"required"`
}

// apply validates req and copies it onto client.
func (r ClientRequest) apply(c *gin.Context, client *models.Client) bool {
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if email != "" && !validators.IsEmailSyntaxValid(email) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return false
	}
	if !validators.IsPhoneValid(r.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return false
	}

	var birth *time.Time
	if s := strings.TrimSpace(r.BirthDate); s != "" {
		d, err := time.Parse(timezone.DateLayout, s)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data de nascimento inválida.")
			return false
		}
		birth = &d
	}

	client.Name = strings.TrimSpace(r.Name)
	client.Phone = strings.TrimSpace(r.Phone)
	client.Email = email
	client.BirthDate = birth
	client.Notes = strings.TrimSpace(r.Notes)
	return true
}

// ======================================================
// CRM
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.ListClients(c.Request.Context(), middleware.BusinessID(c), c.Query("q"))
	if err != nil {
		respondError(c, err, "failed_to_list_clients")
		return
	}
	httpresp.List(c, clients)
}

func (h *ClientHandler) Export(c *gin.Context) {
	clients, err := h.clients.ListClients(c.Request.Context(), middleware.BusinessID(c), c.Query("q"))
	if err != nil {
		respondError(c, err, "failed_to_list_clients")
		return
	}
	sendExport(c, h.exporter, "clientes", "Clientes", clients, export.Options{})
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	client := models.Client{BusinessID: middleware.BusinessID(c)}
	if !req.apply(c, &client) {
		return
	}

	if err := h.clients.CreateClient(c.Request.Context(), &client); err != nil {
		respondError(c, err, "failed_to_create_client")
		return
	}

	httpresp.Created(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if !req.apply(c, client) {
		return
	}

	if err := h.clients.UpdateClient(c.Request.Context(), client); err != nil {
		respondError(c, err, "failed_to_update_client")
		return
	}

	httpresp.OK(c, client)
}

// ======================================================
// FIDELIDADE
// ======================================================

func (h *ClientHandler) Loyalty(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}

	balance, err := h.loyalty.Balance(c.Request.Context(), client.BusinessID, client.ID)
	if err != nil {
		respondError(c, err, "failed_to_load_loyalty")
		return
	}

	httpresp.OK(c, balance)
}

func (h *ClientHandler) Redeem(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_points", businessMessage("invalid_points"))
		return
	}

	acc, err := h.loyalty.Redeem(c.Request.Context(), client.BusinessID, middleware.UserID(c), client.ID, req.Points)
	if err != nil {
		respondError(c, err, "failed_to_redeem_points")
		return
	}

	httpresp.OK(c, acc)
}

func (h *ClientHandler) load(c *gin.Context) (*models.Client, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	client, err := h.clients.GetClient(c.Request.Context(), middleware.BusinessID(c), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return nil, false
		}
		respondError(c, err, "failed_to_get_client")
		return nil, false
	}
	return client, true
}
