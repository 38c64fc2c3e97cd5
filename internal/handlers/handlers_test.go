package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/bulk"
	domainsub "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/infra/repository"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/session"
	"github.com/plushify/plushify-api/internal/testutil"
	"github.com/plushify/plushify-api/internal/usecase/billing"
	ucFinance "github.com/plushify/plushify-api/internal/usecase/finance"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httperr.HTTPError {
	t.Helper()
	var body httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// asTenant fakes what AuthMiddleware puts on the context.
func asTenant(businessID, userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextBusinessID, businessID)
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

// ======================================================
// respondError
// ======================================================

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"violation", &bulk.Violation{RecordID: 9, Rule: "cancel_too_late", Message: "x"}, http.StatusUnprocessableEntity, "cancel_too_late"},
		{"not found", httperr.ErrBusiness("product_not_found"), http.StatusNotFound, "product_not_found"},
		{"conflict", httperr.ErrBusiness("time_conflict"), http.StatusConflict, "time_conflict"},
		{"business rule", httperr.ErrBusiness("insufficient_stock"), http.StatusBadRequest, "insufficient_stock"},
		{"format", fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, "doc"), http.StatusBadRequest, "unsupported_format"},
		{"empty selection", bulk.ErrEmptySelection, http.StatusBadRequest, "empty_selection"},
		{"gateway", domainsub.ErrGatewayUnavailable, http.StatusServiceUnavailable, "payment_gateway_unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "fallback_code"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err, "fallback_code")

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}

	t.Run("violation carries the record", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, fmt.Errorf("bulk: %w", &bulk.Violation{RecordID: 42, Rule: "invalid_state"}), "x")

		body := decodeError(t, w)
		require.NotNil(t, body.RecordID)
		assert.Equal(t, uint(42), *body.RecordID)
	})
}

// ======================================================
// EXPORT
// ======================================================

type exportRow struct {
	Name  string
	Total string
}

func (exportRow) ExportHeaders() []string { return []string{"nome", "total"} }
func (r exportRow) ExportRow() []string   { return []string{r.Name, r.Total} }

type memStore struct {
	keys []string
	err  error
}

func (s *memStore) Put(_ context.Context, key, _ string, _ []byte) error {
	if s.err != nil {
		return s.err
	}
	s.keys = append(s.keys, key)
	return nil
}

func (s *memStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://files.example/" + key, nil
}

func exportRouter(ex *Exporter) *gin.Engine {
	r := gin.New()
	r.GET("/export", asTenant(7, 3), func(c *gin.Context) {
		sendExport(c, ex, "clientes", "Clientes", []exportRow{{"Ana", "10.00"}, {"Bia", "5.50"}}, export.Options{})
	})
	return r
}

func TestSendExport(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("csv attachment", func(t *testing.T) {
		ex := NewExporter(nil, nil, nil)
		ex.now = func() time.Time { return fixed }

		w := httptest.NewRecorder()
		exportRouter(ex).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="clientes-2025-03-14.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Body.String(), "nome,total")
		assert.Contains(t, w.Body.String(), "Ana,10.00")
	})

	t.Run("unknown format", func(t *testing.T) {
		w := httptest.NewRecorder()
		exportRouter(NewExporter(nil, nil, nil)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?format=docx", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "unsupported_format", decodeError(t, w).Code)
	})

	t.Run("archive without storage", func(t *testing.T) {
		w := httptest.NewRecorder()
		exportRouter(NewExporter(nil, nil, nil)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?archive=true", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "storage_unavailable", decodeError(t, w).Code)
	})

	t.Run("archive", func(t *testing.T) {
		store := &memStore{}
		ex := NewExporter(store, nil, nil)
		ex.now = func() time.Time { return fixed }

		w := httptest.NewRecorder()
		exportRouter(ex).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?archive=true&format=json", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, store.keys, 1)
		assert.Regexp(t, `^exports/7/2025/03/.+\.json$`, store.keys[0])

		var got archivedExport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "clientes-2025-03-14.json", got.Filename)
		assert.Equal(t, 2, got.Records)
		assert.Equal(t, "https://files.example/"+store.keys[0], got.URL)
	})
}

func TestExportFeature(t *testing.T) {
	cases := map[string]domainsub.Feature{
		"/":                         domainsub.FeatureBasicExport,
		"/?format=json":             domainsub.FeatureBasicExport,
		"/?format=pdf":              domainsub.FeatureRichExport,
		"/?format=xlsx":             domainsub.FeatureRichExport,
		"/?format=csv&archive=true": domainsub.FeatureArchive,
		"/?format=bogus":            domainsub.FeatureBasicExport,
	}
	for url, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, url, nil)
		assert.Equal(t, want, ExportFeature(c), url)
	}
}

func TestImportFeature(t *testing.T) {
	cases := map[string]domainsub.Feature{
		"products": domainsub.FeatureInventory,
		"expenses": domainsub.FeatureFinance,
		"clients":  domainsub.FeatureClients,
	}
	for entity, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "entity", Value: entity}}
		assert.Equal(t, want, ImportFeature(c), entity)
	}
}

// ======================================================
// AUTH
// ======================================================

func authRouter(t *testing.T) (*gin.Engine, *AuthHandler) {
	t.Helper()

	db := testutil.NewDB(t,
		&models.Business{},
		&models.User{},
		&models.PaymentMethod{},
		&models.Subscription{},
	)

	b := billing.NewBilling(repository.NewSubscriptionGormRepository(db), nil, nil, zap.NewNop(), 14, "")
	methods := ucFinance.NewPaymentMethods(repository.NewFinanceGormRepository(db))

	h := NewAuthHandler(db, "test-secret", time.Hour, session.NewMemory(time.Hour), b, methods)
	h.checkDomain = func(string) bool { return true }

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", middleware.AuthMiddleware("test-secret"), h.Logout)
	return r, h
}

func postJSON(r http.Handler, path string, body any, header ...string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerBody(slug, email string) RegisterRequest {
	return RegisterRequest{
		BusinessName: "Studio Bela",
		BusinessSlug: slug,
		Name:         "Carla",
		Email:        email,
		Password:     "segredo123",
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	r, h := authRouter(t)

	w := postJSON(r, "/auth/register", registerBody("studio-bela", "Carla@Studio.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sess struct {
		Token              string `json:"token"`
		IdleTimeoutSeconds int    `json:"idle_timeout_seconds"`
		User               struct {
			Email string `json:"email"`
		} `json:"user"`
		Business struct {
			ID       uint   `json:"id"`
			Timezone string `json:"timezone"`
		} `json:"business"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, 3600, sess.IdleTimeoutSeconds)
	assert.Equal(t, "carla@studio.com", sess.User.Email)
	assert.Equal(t, "America/Sao_Paulo", sess.Business.Timezone)

	var seeded int64
	require.NoError(t, h.db.Model(&models.PaymentMethod{}).Where("business_id = ?", sess.Business.ID).Count(&seeded).Error)
	assert.Positive(t, seeded)

	var sub models.Subscription
	require.NoError(t, h.db.Where("business_id = ?", sess.Business.ID).First(&sub).Error)
	assert.Equal(t, "trial", sub.Status)

	t.Run("slug taken", func(t *testing.T) {
		w := postJSON(r, "/auth/register", registerBody("studio-bela", "outra@studio.com"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "slug_already_exists", decodeError(t, w).Code)
	})

	t.Run("email taken", func(t *testing.T) {
		w := postJSON(r, "/auth/register", registerBody("outro-studio", "carla@studio.com"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "email_already_exists", decodeError(t, w).Code)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		body := registerBody("novo", "novo@studio.com")
		body.BusinessTimezone = "Mars/Olympus"
		w := postJSON(r, "/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_timezone", decodeError(t, w).Code)
	})

	t.Run("login", func(t *testing.T) {
		w := postJSON(r, "/auth/login", LoginRequest{Email: "CARLA@studio.com", Password: "segredo123"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(r, "/auth/login", LoginRequest{Email: "carla@studio.com", Password: "errada"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid_credentials", decodeError(t, w).Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := postJSON(r, "/auth/login", LoginRequest{Email: "ninguem@studio.com", Password: "segredo123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout ends the session", func(t *testing.T) {
		w := postJSON(r, "/auth/logout", nil, "Authorization", "Bearer "+sess.Token)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestAuthRegisterRejectsBadDomain(t *testing.T) {
	r, h := authRouter(t)
	h.checkDomain = func(string) bool { return false }

	w := postJSON(r, "/auth/register", registerBody("studio", "carla@nao-existe.invalid"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_email_domain", decodeError(t, w).Code)
}
