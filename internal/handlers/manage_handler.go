package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendly-app/booking-api/internal/httperr"
	appointment "github.com/agendly-app/booking-api/internal/usecase/appointment"
)

// Autoatendimento do cliente final via link com token de uso único.
type ManageHandler struct {
	resolve    *appointment.ResolveManageToken
	reschedule *appointment.SelfReschedule
	cancel     *appointment.SelfCancel
}

func NewManageHandler(
	resolve *appointment.ResolveManageToken,
	reschedule *appointment.SelfReschedule,
	cancel *appointment.SelfCancel,
) *ManageHandler {
	return &ManageHandler{
		resolve:    resolve,
		reschedule: reschedule,
		cancel:     cancel,
	}
}

type SelfRescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// Get mostra o agendamento vinculado ao token sem consumi-lo, para a
// página de gerenciamento renderizar antes de qualquer ação.
func (h *ManageHandler) Get(c *gin.Context) {
	ap, err := h.resolve.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment":   ap,
		"establishment": ap.Establishment.Name,
		"service":       ap.Service.Name,
		"professional":  ap.Professional.Name,
	})
}

func (h *ManageHandler) Reschedule(c *gin.Context) {
	var req SelfRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.SelfRescheduleInput{
		Token: c.Param("token"),
		Date:  req.Date,
		Time:  req.Time,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *ManageHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
