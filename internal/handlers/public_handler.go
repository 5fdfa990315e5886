package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
	appointment "github.com/agendly-app/booking-api/internal/usecase/appointment"
)

// Página pública de agendamento: tudo indexado pelo slug do
// estabelecimento, sem autenticação.
type PublicHandler struct {
	db           *gorm.DB
	availability *appointment.GetAvailability
	create       *appointment.CreateAppointment
}

func NewPublicHandler(
	db *gorm.DB,
	availability *appointment.GetAvailability,
	create *appointment.CreateAppointment,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		create:       create,
	}
}

type PublicBookingRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone"`
	CustomerEmail  string `json:"customer_email" binding:"required,email"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
}

func (h *PublicHandler) GetEstablishment(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              est.ID,
		"name":            est.Name,
		"slug":            est.Slug,
		"timezone":        est.Timezone,
		"booking_enabled": est.BookingEnabled,
	})
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("establishment_id = ? AND active = ?", est.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_get_services", "erro ao buscar serviços")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	query := h.db.
		Where("establishment_id = ? AND active = ?", est.ID, true)

	if serviceID := queryUint(c, "service_id"); serviceID != 0 {
		query = query.
			Joins("JOIN professional_services ps ON ps.professional_id = professionals.id").
			Where("ps.service_id = ?", serviceID)
	}

	var professionals []models.Professional
	if err := query.Order("name ASC").Find(&professionals).Error; err != nil {
		httperr.Internal(c, "failed_to_get_professionals", "erro ao buscar profissionais")
		return
	}

	c.JSON(http.StatusOK, professionals)
}

func (h *PublicHandler) GetAvailability(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	date, err := parseDateInEstablishment(est, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_format", "use o formato YYYY-MM-DD")
		return
	}

	professionalID := queryUint(c, "professional_id")
	serviceID := queryUint(c, "service_id")
	if professionalID == 0 || serviceID == 0 {
		httperr.BadRequest(c, "invalid_request", "informe professional_id e service_id")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		EstablishmentID: est.ID,
		ProfessionalID:  professionalID,
		ServiceID:       serviceID,
		Date:            date,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  c.Query("date"),
		"slots": slots,
	})
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		EstablishmentID: est.ID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           req.Notes,
		Public:          true,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment":  out.Appointment,
		"manage_token": out.ManageToken,
	})
}

func (h *PublicHandler) establishment(c *gin.Context) (*models.Establishment, bool) {
	slug := c.Param("slug")

	var est models.Establishment
	if err := h.db.Where("slug = ?", slug).First(&est).Error; err != nil {
		httperr.NotFound(c, "establishment_not_found", "estabelecimento não encontrado")
		return nil, false
	}

	return &est, true
}
