package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/report"
	"github.com/plushify/plushify-api/internal/timezone"
	ucFinance "github.com/plushify/plushify-api/internal/usecase/finance"
)

type ReportHandler struct {
	tenants  Tenants
	reports  *ucFinance.Reports
	exporter *Exporter
}

func NewReportHandler(tenants Tenants, reports *ucFinance.Reports, exporter *Exporter) *ReportHandler {
	return &ReportHandler{tenants: tenants, reports: reports, exporter: exporter}
}

const rangeLayout = "02/01/2006"

func describe(r report.Range) string {
	return fmt.Sprintf("%s a %s", r.From.Format(rangeLayout), r.To.AddDate(0, 0, -1).Format(rangeLayout))
}

// GET /me/reports/summary?date_from=&date_to=&category=...
func (h *ReportHandler) Summary(c *gin.Context) {
	s, ok := h.summary(c)
	if !ok {
		return
	}
	httpresp.OK(c, s)
}

// GET /me/reports/comparative?period=month|quarter|year&ref=YYYY-MM-DD
func (h *ReportHandler) Comparative(c *gin.Context) {
	cmp, ok := h.comparative(c)
	if !ok {
		return
	}
	httpresp.OK(c, cmp)
}

// GET /me/reports/export?report=summary|comparative&format=...
func (h *ReportHandler) Export(c *gin.Context) {
	switch c.DefaultQuery("report", "summary") {
	case "summary":
		s, ok := h.summary(c)
		if !ok {
			return
		}
		net := s.Totals.Net
		sendExport(c, h.exporter, "relatorio", "Resumo financeiro", s.Totals.Rows(), export.Options{
			Subtitle: describe(s.Range),
			Groups:   []report.Grouping{s.PaymentsByMethod, s.ExpensesByCategory},
			Total:    &net,
		})

	case "comparative":
		cmp, ok := h.comparative(c)
		if !ok {
			return
		}
		sendExport(c, h.exporter, "comparativo", "Relatório comparativo", cmp.Comparison.Rows(), export.Options{
			Subtitle: fmt.Sprintf("%s comparado a %s", describe(cmp.Current), describe(cmp.Prior)),
		})

	default:
		httperr.BadRequest(c, "invalid_report", "Relatório inválido.")
	}
}

func (h *ReportHandler) summary(c *gin.Context) (*ucFinance.Summary, bool) {
	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return nil, false
	}

	opts, err := filter.ParseOptions(c, loc)
	if err != nil {
		respondError(c, err, "invalid_filter")
		return nil, false
	}

	from, to := filter.Window(opts, loc, timezone.Now().In(loc))
	s, err := h.reports.Summary(c.Request.Context(), middleware.BusinessID(c), report.Range{From: from, To: to}, opts)
	if err != nil {
		respondError(c, err, "failed_to_build_report")
		return nil, false
	}
	return s, true
}

func (h *ReportHandler) comparative(c *gin.Context) (*ucFinance.Comparative, bool) {
	period, err := report.ParsePeriod(c.Query("period"))
	if err != nil {
		respondError(c, err, "invalid_period")
		return nil, false
	}

	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return nil, false
	}

	ref := timezone.Now().In(loc)
	if s := c.Query("ref"); s != "" {
		if ref, err = time.ParseInLocation(timezone.DateLayout, s, loc); err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return nil, false
		}
	}

	cmp, err := h.reports.Comparative(c.Request.Context(), middleware.BusinessID(c), period, ref)
	if err != nil {
		respondError(c, err, "failed_to_build_report")
		return nil, false
	}
	return cmp, true
}
