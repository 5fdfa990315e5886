package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/timezone"
)

type EstablishmentHandler struct {
	db *gorm.DB
}

func NewEstablishmentHandler(db *gorm.DB) *EstablishmentHandler {
	return &EstablishmentHandler{db: db}
}

type UpdateEstablishmentConfigRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`

	Timezone            *string `json:"timezone"`
	SlotIntervalMin     *int    `json:"slot_interval_min"`
	BufferMin           *int    `json:"buffer_min"`
	MaxFutureDays       *int    `json:"max_future_days"`
	RescheduleMinHours  *int    `json:"reschedule_min_hours"`
	ReminderHoursBefore *int    `json:"reminder_hours_before"`
	BookingEnabled      *bool   `json:"booking_enabled"`
}

func (h *EstablishmentHandler) GetMeEstablishment(c *gin.Context) {
	establishmentIDVal, _ := c.Get(middleware.ContextEstablishmentID)
	establishmentID := establishmentIDVal.(uint)

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "establishment_not_found", "Estabelecimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_establishment", "Erro ao buscar dados do estabelecimento.")
		return
	}

	c.JSON(http.StatusOK, est)
}

func (h *EstablishmentHandler) UpdateMeEstablishment(c *gin.Context) {
	establishmentIDVal, _ := c.Get(middleware.ContextEstablishmentID)
	establishmentID := establishmentIDVal.(uint)

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "establishment_not_found", "Estabelecimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_establishment", "Erro ao buscar dados do estabelecimento.")
		return
	}

	var req UpdateEstablishmentConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		est.Name = *req.Name
	}
	if req.Phone != nil {
		est.Phone = *req.Phone
	}
	if req.Address != nil {
		est.Address = *req.Address
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone inválido.")
			return
		}
		est.Timezone = *req.Timezone
	}

	if req.SlotIntervalMin != nil {
		if *req.SlotIntervalMin <= 0 {
			httperr.BadRequest(c, "invalid_slot_interval", "Intervalo de horários deve ser positivo (em minutos).")
			return
		}
		est.SlotIntervalMin = *req.SlotIntervalMin
	}

	if req.BufferMin != nil {
		if *req.BufferMin < 0 {
			httperr.BadRequest(c, "invalid_buffer", "Buffer deve ser zero ou positivo (em minutos).")
			return
		}
		est.BufferMin = *req.BufferMin
	}

	if req.MaxFutureDays != nil {
		if *req.MaxFutureDays < 0 {
			httperr.BadRequest(c, "invalid_max_future_days", "Horizonte de agendamento deve ser zero ou positivo (em dias).")
			return
		}
		est.MaxFutureDays = *req.MaxFutureDays
	}

	if req.RescheduleMinHours != nil {
		if *req.RescheduleMinHours < 0 {
			httperr.BadRequest(c, "invalid_reschedule_min_hours", "Antecedência mínima deve ser zero ou positiva (em horas).")
			return
		}
		est.RescheduleMinHours = *req.RescheduleMinHours
	}

	if req.ReminderHoursBefore != nil {
		if *req.ReminderHoursBefore < 0 {
			httperr.BadRequest(c, "invalid_reminder_hours", "Janela de lembrete deve ser zero ou positiva (em horas).")
			return
		}
		est.ReminderHoursBefore = *req.ReminderHoursBefore
	}

	if req.BookingEnabled != nil {
		est.BookingEnabled = *req.BookingEnabled
	}

	if err := h.db.Save(&est).Error; err != nil {
		httperr.Internal(c, "failed_to_update_establishment", "Erro ao salvar as configurações do estabelecimento.")
		return
	}

	c.JSON(http.StatusOK, est)
}
