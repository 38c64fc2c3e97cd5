package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/audit"
	"github.com/plushify/plushify-api/internal/config"
	domainsub "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/handlers"
	infraRepo "github.com/plushify/plushify-api/internal/infra/repository"
	"github.com/plushify/plushify-api/internal/infra/storage"
	"github.com/plushify/plushify-api/internal/logger"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/session"
	"github.com/plushify/plushify-api/internal/timezone"
	ucAppointment "github.com/plushify/plushify-api/internal/usecase/appointment"
	ucBilling "github.com/plushify/plushify-api/internal/usecase/billing"
	ucFinance "github.com/plushify/plushify-api/internal/usecase/finance"
	ucImporter "github.com/plushify/plushify-api/internal/usecase/importer"
	ucInventory "github.com/plushify/plushify-api/internal/usecase/inventory"
	ucLoyalty "github.com/plushify/plushify-api/internal/usecase/loyalty"
	ucPayment "github.com/plushify/plushify-api/internal/usecase/payment"
)

// Infra are the process-wide clients built in main.
type Infra struct {
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	Audit    *audit.Dispatcher
	Sessions session.Tracker
	// nil when not configured
	Store   storage.ObjectStore
	Gateway domainsub.Gateway
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		logger.GinMiddleware(infra.Log),
		logger.Recovery(infra.Log),
		infra.Metrics.GinMiddleware(),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	paymentRepo := infraRepo.NewPaymentGormRepository(db)
	financeRepo := infraRepo.NewFinanceGormRepository(db)
	productRepo := infraRepo.NewProductGormRepository(db)
	clientRepo := infraRepo.NewClientGormRepository(db)
	loyaltyRepo := infraRepo.NewLoyaltyGormRepository(db)
	subscriptionRepo := infraRepo.NewSubscriptionGormRepository(db)

	auditLogger := audit.New(db)
	exporter := handlers.NewExporter(infra.Store, infra.Audit, infra.Metrics)

	// ======================================================
	// USE CASES
	// ======================================================
	loyaltyProgram := ucLoyalty.NewProgram(loyaltyRepo, infra.Audit)
	billing := ucBilling.NewBilling(subscriptionRepo, infra.Gateway, infra.Audit, infra.Log, cfg.TrialDays, cfg.MercadoPagoBackURL)
	paymentMethods := ucFinance.NewPaymentMethods(financeRepo)

	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, infra.Audit)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(appointmentRepo, infra.Audit)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, infra.Audit)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, infra.Audit, loyaltyProgram, infra.Log)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	bulkAppointmentsUC := ucAppointment.NewBulkAppointments(
		appointmentRepo,
		infra.Audit,
		loyaltyProgram,
		infra.Metrics,
		infra.Log,
		cfg.BulkConcurrency,
	)

	createPaymentUC := ucPayment.NewCreatePayment(paymentRepo, infra.Audit, timezone.DefaultTimezone)
	payInstallmentUC := ucPayment.NewPayInstallment(paymentRepo, infra.Audit, timezone.DefaultTimezone)
	listPaymentsUC := ucPayment.NewListPayments(paymentRepo)
	bulkPaymentsUC := ucPayment.NewBulkPayments(paymentRepo, infra.Audit, infra.Metrics, cfg.BulkConcurrency)

	expensesUC := ucFinance.NewExpenses(financeRepo, infra.Audit)
	closuresUC := ucFinance.NewCashClosures(financeRepo, paymentRepo, infra.Audit)
	reportsUC := ucFinance.NewReports(paymentRepo, financeRepo)
	productsUC := ucInventory.NewProducts(productRepo, infra.Store, infra.Audit)
	importerUC := ucImporter.New(productRepo, clientRepo, financeRepo, infra.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, cfg.SessionIdle, infra.Sessions, billing, paymentMethods)
	meHandler := handlers.NewMeHandler(db, billing)
	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(clientRepo, loyaltyProgram, exporter)

	appointmentHandler := handlers.NewAppointmentHandler(
		appointmentRepo,
		createAppointmentUC,
		confirmAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listAppointmentsUC,
		bulkAppointmentsUC,
		exporter,
	)

	paymentHandler := handlers.NewPaymentHandler(
		appointmentRepo,
		createPaymentUC,
		payInstallmentUC,
		paymentMethods,
		listPaymentsUC,
		bulkPaymentsUC,
		exporter,
	)

	financeHandler := handlers.NewFinanceHandler(appointmentRepo, expensesUC, closuresUC, paymentMethods, exporter)
	reportHandler := handlers.NewReportHandler(appointmentRepo, reportsUC, exporter)
	productHandler := handlers.NewProductHandler(productsUC, exporter)
	importHandler := handlers.NewImportHandler(appointmentRepo, importerUC)
	subscriptionHandler := handlers.NewSubscriptionHandler(db, billing)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	// feature gates
	gate := func(f domainsub.Feature) gin.HandlerFunc { return middleware.RequireFeature(billing, f) }
	exportGate := middleware.RequireFeatureFunc(billing, handlers.ExportFeature)

	r.GET("/metrics", gin.WrapH(infra.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// ------------------------------
		// PÚBLICO
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/webhooks/mercadopago", subscriptionHandler.Webhook)

		// ------------------------------
		// PRIVADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(
			middleware.AuthMiddleware(cfg.JWTSecret),
			middleware.SessionIdle(infra.Sessions, infra.Metrics),
		)
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)

			// assinatura fica acessível mesmo com o trial vencido
			secured.GET("/me/subscription", subscriptionHandler.Get)
			secured.POST("/me/subscription/checkout", subscriptionHandler.Checkout)
			secured.POST("/me/subscription/cancel", subscriptionHandler.Cancel)

			secured.GET("/me/audit-logs", gate(domainsub.FeatureAppointments), auditLogsHandler.List)

			// ------------------------------
			// AGENDA
			// ------------------------------
			agenda := secured.Group("/me", gate(domainsub.FeatureAppointments))
			{
				agenda.GET("/services", serviceHandler.List)
				agenda.POST("/services", serviceHandler.Create)
				agenda.PATCH("/services/:id", serviceHandler.Update)

				agenda.GET("/appointments", appointmentHandler.List)
				agenda.POST("/appointments", appointmentHandler.Create)
				agenda.GET("/appointments/export", exportGate, appointmentHandler.Export)
				agenda.POST("/appointments/bulk", appointmentHandler.Bulk)
				agenda.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
				agenda.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
				agenda.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			}

			// ------------------------------
			// CLIENTES
			// ------------------------------
			crm := secured.Group("/me/clients", gate(domainsub.FeatureClients))
			{
				crm.GET("", clientHandler.List)
				crm.POST("", clientHandler.Create)
				crm.GET("/export", exportGate, clientHandler.Export)
				crm.PATCH("/:id", clientHandler.Update)
				crm.GET("/:id/loyalty", gate(domainsub.FeatureLoyalty), clientHandler.Loyalty)
				crm.POST("/:id/loyalty/redeem", gate(domainsub.FeatureLoyalty), clientHandler.Redeem)
			}

			// ------------------------------
			// FINANCEIRO
			// ------------------------------
			finance := secured.Group("/me", gate(domainsub.FeatureFinance))
			{
				finance.GET("/payment-methods", financeHandler.ListPaymentMethods)
				finance.POST("/payment-methods", financeHandler.CreatePaymentMethod)

				finance.GET("/payments", paymentHandler.List)
				finance.POST("/payments", paymentHandler.Create)
				finance.GET("/payments/export", exportGate, paymentHandler.Export)
				finance.POST("/payments/bulk", paymentHandler.Bulk)
				finance.POST("/installments/:id/pay", paymentHandler.PayInstallment)

				finance.GET("/expenses", financeHandler.ListExpenses)
				finance.POST("/expenses", financeHandler.CreateExpense)
				finance.GET("/expenses/export", exportGate, financeHandler.ExportExpenses)
				finance.DELETE("/expenses/:id", financeHandler.DeleteExpense)

				finance.GET("/cash-closures", financeHandler.ListClosures)
				finance.POST("/cash-closures", financeHandler.CloseDay)

				finance.GET("/reports/summary", reportHandler.Summary)
				finance.GET("/reports/comparative", gate(domainsub.FeatureComparative), reportHandler.Comparative)
				finance.GET("/reports/export", exportGate, reportHandler.Export)
			}

			// ------------------------------
			// ESTOQUE
			// ------------------------------
			inventory := secured.Group("/me/products", gate(domainsub.FeatureInventory))
			{
				inventory.GET("", productHandler.List)
				inventory.POST("", productHandler.Create)
				inventory.GET("/low-stock", productHandler.LowStock)
				inventory.GET("/export", exportGate, productHandler.Export)
				inventory.PATCH("/:id", productHandler.Update)
				inventory.POST("/:id/stock", productHandler.AdjustStock)
				inventory.POST("/:id/image", productHandler.UploadImage)
			}

			secured.POST("/me/import/:entity", middleware.RequireFeatureFunc(billing, handlers.ImportFeature), importHandler.Import)
		}
	}
}
