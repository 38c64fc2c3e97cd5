package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/bulk"
	domainsub "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/logger"
	"github.com/plushify/plushify-api/internal/report"
	"github.com/plushify/plushify-api/internal/usecase/importer"
)

var businessMessages = map[string]string{
	"already_subscribed":       "Você já possui uma assinatura ativa.",
	"appointment_not_found":    "Agendamento não encontrado.",
	"cancel_too_late":          "O cancelamento exige mais de 24h de antecedência.",
	"cash_closure_exists":      "O caixa deste dia já foi fechado.",
	"delete_forbidden":         "Este registro não pode ser excluído.",
	"expense_not_found":        "Despesa não encontrada.",
	"image_too_large":          "Imagem muito grande (máximo 5 MB).",
	"import_too_large":         "Arquivo com linhas demais para importar.",
	"installment_already_paid": "Parcela já paga.",
	"installment_not_found":    "Parcela não encontrada.",
	"insufficient_points":      "Saldo de pontos insuficiente.",
	"insufficient_stock":       "Estoque insuficiente.",
	"invalid_amount":           "Valor inválido.",
	"invalid_date":             "Data inválida.",
	"invalid_date_or_time":     "Data ou hora inválida.",
	"invalid_description":      "Descrição obrigatória.",
	"invalid_duration":         "Duração inválida.",
	"invalid_image":            "Formato de imagem não suportado.",
	"invalid_installments":     "Número de parcelas inválido.",
	"invalid_name":             "Nome obrigatório.",
	"invalid_plan":             "Plano inválido.",
	"invalid_points":           "Quantidade de pontos inválida.",
	"invalid_quantity":         "Quantidade inválida.",
	"invalid_state":            "O status atual não permite esta ação.",
	"past_time":                "Não é possível agendar no passado.",
	"payment_method_exists":    "Forma de pagamento já cadastrada.",
	"product_not_found":        "Produto não encontrado.",
	"service_not_found":        "Serviço não encontrado.",
	"storage_unavailable":      "Armazenamento de arquivos indisponível.",
	"subscription_not_found":   "Assinatura não encontrada.",
	"time_conflict":            "Conflito de horário.",
}

func businessMessage(code string) string {
	if msg, ok := businessMessages[code]; ok {
		return msg
	}
	return "Operação não permitida."
}

func businessStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "_not_found"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_exists"), code == "already_subscribed", code == "time_conflict":
		return http.StatusConflict
	case code == "image_too_large" || code == "import_too_large":
		return http.StatusRequestEntityTooLarge
	case code == "storage_unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// respondError writes the JSON error for err. fallback is the code used
// for unexpected errors, which are logged.
func respondError(c *gin.Context, err error, fallback string) {
	var v *bulk.Violation
	if errors.As(err, &v) {
		httperr.Unprocessable(c, v.Rule, v.Message, v.RecordID)
		return
	}

	if code, ok := httperr.AsBusiness(err); ok {
		httperr.Write(c, businessStatus(code), code, businessMessage(code))
		return
	}

	switch {
	case errors.Is(err, filter.ErrInvalidOption):
		httperr.BadRequest(c, "invalid_filter", "Filtro inválido.")
	case errors.Is(err, bulk.ErrEmptySelection):
		httperr.BadRequest(c, "empty_selection", "Selecione ao menos um registro.")
	case errors.Is(err, bulk.ErrUnsupportedAction):
		httperr.BadRequest(c, "unsupported_action", "Ação não suportada.")
	case errors.Is(err, export.ErrUnsupportedFormat):
		httperr.BadRequest(c, "unsupported_format", "Formato não suportado.")
	case errors.Is(err, export.ErrEmptyFile), errors.Is(err, export.ErrMissingHeader), errors.Is(err, export.ErrInvalidEncoding):
		httperr.BadRequest(c, "invalid_file", "Arquivo inválido ou vazio.")
	case errors.Is(err, importer.ErrUnknownEntity):
		httperr.NotFound(c, "unknown_entity", "Tipo de importação desconhecido.")
	case errors.Is(err, report.ErrInvalidPeriod):
		httperr.BadRequest(c, "invalid_period", "Período inválido.")
	case errors.Is(err, domainsub.ErrGatewayUnavailable):
		httperr.Write(c, http.StatusServiceUnavailable, "payment_gateway_unavailable",
			"Serviço de pagamento indisponível. Tente novamente mais tarde.")
	default:
		logger.FromGin(c).Error("request failed", zap.String("error_code", fallback), zap.Error(err))
		httperr.Internal(c, fallback, "Erro interno. Tente novamente.")
	}
}
