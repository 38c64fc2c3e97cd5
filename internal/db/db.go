package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/plushify/plushify-api/internal/config"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/timezone"
)

// Models is the migration set, in dependency order.
var Models = []any{
	&models.Business{},
	&models.User{},
	&models.Service{},
	&models.Client{},
	&models.Appointment{},
	&models.PaymentMethod{},
	&models.Payment{},
	&models.Installment{},
	&models.Expense{},
	&models.CashClosure{},
	&models.Product{},
	&models.LoyaltyAccount{},
	&models.LoyaltyEntry{},
	&models.Subscription{},
	&models.AuditLog{},
}

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	res := db.Exec(`
        UPDATE businesses
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone)
	if res.Error != nil {
		log.Warn("falha ao preencher timezone padrão", zap.Error(res.Error))
	} else if res.RowsAffected > 0 {
		log.Info("timezone padrão aplicado", zap.Int64("businesses", res.RowsAffected))
	}

	return db, nil
}
