package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plushify/plushify-api/internal/audit"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	q := audit.Query{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Filtros opcionais (datas inválidas são ignoradas)
	// --------------------------------------------------

	if from, err := time.Parse(timezone.DateLayout, c.Query("from")); err == nil {
		q.From = &from
	}
	if to, err := time.Parse(timezone.DateLayout, c.Query("to")); err == nil {
		q.To = &to
	}

	logs, total, err := h.logs.List(c.Request.Context(), middleware.BusinessID(c), q)
	if err != nil {
		respondError(c, err, "audit_list_failed")
		return
	}

	q.Normalize()
	c.JSON(200, gin.H{
		"page":  q.Page,
		"limit": q.Limit,
		"total": total,
		"logs":  logs,
	})
}
