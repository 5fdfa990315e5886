package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
	appointment "github.com/agendly-app/booking-api/internal/usecase/appointment"
)

// Operações da equipe sobre a agenda (painel autenticado).
type AppointmentHandler struct {
	create     *appointment.CreateAppointment
	reschedule *appointment.RescheduleAppointment
	confirm    *appointment.ConfirmAppointment
	complete   *appointment.CompleteAppointment
	noShow     *appointment.MarkNoShow
	cancel     *appointment.CancelAppointment
	listByDate *appointment.ListAppointmentsByDate
	listByMon  *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	create *appointment.CreateAppointment,
	reschedule *appointment.RescheduleAppointment,
	confirm *appointment.ConfirmAppointment,
	complete *appointment.CompleteAppointment,
	noShow *appointment.MarkNoShow,
	cancel *appointment.CancelAppointment,
	listByDate *appointment.ListAppointmentsByDate,
	listByMon *appointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		reschedule: reschedule,
		confirm:    confirm,
		complete:   complete,
		noShow:     noShow,
		cancel:     cancel,
		listByDate: listByDate,
		listByMon:  listByMon,
	}
}

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone"`
	CustomerEmail  string `json:"customer_email"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
}

type RescheduleRequest struct {
	ProfessionalID uint   `json:"professional_id"` // 0 mantém o atual
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		EstablishmentID: establishmentID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           req.Notes,
		Public:          false,
		ByUserID:        &userID,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out.Appointment)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	apID, ok := pathID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		EstablishmentID:   establishmentID,
		AppointmentID:     apID,
		NewProfessionalID: req.ProfessionalID,
		Date:              req.Date,
		Time:              req.Time,
		ByUserID:          &userID,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.statusChange(c, h.confirm.Execute)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.statusChange(c, h.complete.Execute)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.statusChange(c, h.noShow.Execute)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.statusChange(c, h.cancel.Execute)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_format", "use o formato YYYY-MM-DD")
		return
	}

	professionalID := queryUint(c, "professional_id")

	list, err := h.listByDate.Execute(c.Request.Context(), establishmentID, professionalID, date)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_period", "informe year e month válidos")
		return
	}

	professionalID := queryUint(c, "professional_id")

	list, err := h.listByMon.Execute(c.Request.Context(), establishmentID, professionalID, year, month)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func (h *AppointmentHandler) statusChange(
	c *gin.Context,
	exec func(ctx context.Context, establishmentID, userID, appointmentID uint) (*models.Appointment, error),
) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	apID, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := exec(c.Request.Context(), establishmentID, userID, apID)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "identificador inválido")
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
