package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

type CreateProfessionalRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type UpdateProfessionalRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
	Active *bool   `json:"active"`
}

type SetProfessionalServicesRequest struct {
	ServiceIDs []uint `json:"service_ids" binding:"required"`
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var pros []models.Professional
	if err := h.db.
		Preload("Services").
		Where("establishment_id = ?", establishmentID).
		Order("id ASC").
		Find(&pros).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_professionals"})
		return
	}

	c.JSON(http.StatusOK, pros)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	prof := models.Professional{
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Active:          true,
		Capacity:        1,
	}

	if err := h.db.Create(&prof).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_professional"})
		return
	}

	c.JSON(http.StatusCreated, prof)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	prof, ok := h.findProfessional(c, establishmentID)
	if !ok {
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	if req.Name != nil {
		prof.Name = *req.Name
	}
	if req.Phone != nil {
		prof.Phone = *req.Phone
	}
	if req.Email != nil {
		prof.Email = *req.Email
	}
	if req.Active != nil {
		prof.Active = *req.Active
	}

	if err := h.db.Save(prof).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_professional"})
		return
	}

	c.JSON(http.StatusOK, prof)
}

// SetServices substitui o vínculo profissional ↔ serviços (define quem
// atende o quê).
func (h *ProfessionalHandler) SetServices(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	prof, ok := h.findProfessional(c, establishmentID)
	if !ok {
		return
	}

	var req SetProfessionalServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	var services []models.Service
	if len(req.ServiceIDs) > 0 {
		if err := h.db.
			Where("establishment_id = ? AND id IN ?", establishmentID, req.ServiceIDs).
			Find(&services).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_load_services"})
			return
		}
		if len(services) != len(req.ServiceIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_service"})
			return
		}
	}

	if err := h.db.Model(prof).Association("Services").Replace(services); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_set_services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ProfessionalHandler) findProfessional(c *gin.Context, establishmentID uint) (*models.Professional, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return nil, false
	}

	var prof models.Professional
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&prof).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "professional_not_found"})
		return nil, false
	}

	return &prof, true
}
