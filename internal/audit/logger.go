package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/plushify/plushify-api/internal/models"
)

const (
	ActionPaymentDeleted   = "payment_deleted"
	ActionPaymentCancelled = "payment_cancelled"
	ActionBulk             = "bulk_action"
	ActionExport           = "export"
	ActionImport           = "import"
	ActionCashClosed       = "cash_closed"
	ActionStockAdjusted    = "stock_adjusted"
	ActionLoyaltyRedeemed  = "loyalty_redeemed"
	ActionSubscription     = "subscription_changed"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Entry builds the row for ev; metadata is stored as JSON text.
func Entry(ev Event) models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return models.AuditLog{
		BusinessID: ev.BusinessID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	log := Entry(ev)
	return l.db.WithContext(ctx).Create(&log).Error
}

// ======================================================
// Listagem
// ======================================================

type Query struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time // inclusive day
	Page   int
	Limit  int
}

// Normalize applies the paging defaults (page 1, 50 per page, at most 200).
func (q *Query) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
}

func (l *Logger) List(ctx context.Context, businessID uint, q Query) ([]models.AuditLog, int64, error) {
	q.Normalize()

	// sempre protegido por business
	tx := l.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("business_id = ?", businessID)

	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		tx = tx.Where("entity = ?", q.Entity)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at < ?", q.To.Add(24*time.Hour))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := tx.
		Order("created_at DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
