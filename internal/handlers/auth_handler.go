package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/dto"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/logger"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/session"
	"github.com/plushify/plushify-api/internal/timezone"
	"github.com/plushify/plushify-api/internal/usecase/billing"
	ucFinance "github.com/plushify/plushify-api/internal/usecase/finance"
	"github.com/plushify/plushify-api/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	secret   string
	idle     time.Duration
	sessions session.Tracker
	billing  *billing.Billing
	methods  *ucFinance.PaymentMethods

	checkDomain func(email string) bool
}

func NewAuthHandler(
	db *gorm.DB,
	secret string,
	idle time.Duration,
	sessions session.Tracker,
	billing *billing.Billing,
	methods *ucFinance.PaymentMethods,
) *AuthHandler {
	return &AuthHandler{
		db:          db,
		secret:      secret,
		idle:        idle,
		sessions:    sessions,
		billing:     billing,
		methods:     methods,
		checkDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName     string `json:"business_name" binding:"required"`
	BusinessSlug     string `json:"business_slug" binding:"required"`
	BusinessPhone    string `json:"business_phone"`
	BusinessAddress  string `json:"business_address"`
	BusinessTimezone string `json:"business_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.checkDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	tz := strings.TrimSpace(req.BusinessTimezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	business := models.Business{
		Name:     strings.TrimSpace(req.BusinessName),
		Slug:     strings.ToLower(strings.TrimSpace(req.BusinessSlug)),
		Phone:    req.BusinessPhone,
		Address:  req.BusinessAddress,
		Timezone: tz,
	}
	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Business{}).Where("slug = ?", business.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("slug_already_exists")
		}
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_exists")
		}

		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		user.BusinessID = business.ID
		return tx.Omit("Business").Create(&user).Error
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "slug_already_exists"):
			httperr.Conflict(c, "slug_already_exists", "Este endereço já está em uso.")
		case httperr.IsBusiness(err, "email_already_exists"), httperr.IsUniqueViolation(err):
			httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
		default:
			respondError(c, err, "failed_to_register")
		}
		return
	}

	// trial e formas de pagamento padrão; falhas aqui não desfazem o cadastro
	log := logger.FromGin(c)
	if _, err := h.billing.EnsureTrial(c.Request.Context(), business.ID); err != nil {
		log.Error("falha ao abrir trial", zap.Uint("business_id", business.ID), zap.Error(err))
	}
	if err := h.methods.Seed(c.Request.Context(), business.ID); err != nil {
		log.Error("falha ao criar formas de pagamento", zap.Uint("business_id", business.ID), zap.Error(err))
	}

	h.startSession(c, http.StatusCreated, &user, &business)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Business").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		respondError(c, err, "internal_error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	h.startSession(c, http.StatusOK, &user, &user.Business)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), middleware.SessionID(c)); err != nil {
		logger.FromGin(c).Warn("falha ao encerrar sessão", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User, business *models.Business) {
	sid := uuid.NewString()
	if err := h.sessions.Start(c.Request.Context(), sid); err != nil {
		respondError(c, err, "failed_to_start_session")
		return
	}

	token, err := middleware.IssueToken(h.secret, user, sid, time.Now())
	if err != nil {
		respondError(c, err, "failed_to_generate_token")
		return
	}

	c.JSON(status, dto.SessionDTO{
		User:               dto.User(user),
		Business:           dto.Business(business),
		Token:              token,
		IdleTimeoutSeconds: int(h.idle / time.Second),
	})
}
