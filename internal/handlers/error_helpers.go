package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendly-app/booking-api/internal/httperr"
)

// traduz erro de negócio do usecase para status HTTP; qualquer outro
// erro vira 500 genérico.
func writeUsecaseError(c *gin.Context, err error) {
	code := httperr.BusinessCode(err)
	if code == "" {
		httperr.Internal(c, "internal_error", "erro interno ao processar a solicitação")
		return
	}

	switch code {
	case httperr.CodeSlotConflict:
		httperr.Conflict(c, code, "o horário escolhido não está mais disponível")
	case httperr.CodeTerminalAppointment, httperr.CodeInvalidTransition:
		httperr.Conflict(c, code, "o agendamento não permite essa operação no estado atual")
	case httperr.CodeTokenInvalid:
		httperr.NotFound(c, code, "link de gerenciamento inválido")
	case httperr.CodeTokenExpired, httperr.CodeTokenAlreadyUsed:
		httperr.Write(c, http.StatusGone, code, "este link de gerenciamento não pode mais ser usado")
	case httperr.CodeMinimumNotice:
		httperr.Write(c, http.StatusUnprocessableEntity, code, "antecedência mínima não respeitada")
	case httperr.CodeBookingDisabled:
		httperr.Write(c, http.StatusForbidden, code, "agendamento online desativado")
	case httperr.CodeBeyondHorizon:
		httperr.Write(c, http.StatusUnprocessableEntity, code, "data além do horizonte de agendamento")
	case "appointment_not_found", "service_not_found", "professional_not_found", "establishment_not_found":
		httperr.NotFound(c, code, "registro não encontrado")
	default:
		httperr.BadRequest(c, code, "não foi possível processar a solicitação")
	}
}
