package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Active      *bool    `json:"active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	q := h.db.Where("establishment_id = ?", establishmentID)

	if category := strings.TrimSpace(strings.ToLower(c.Query("category"))); category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	svc := models.Service{
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMin:     req.DurationMin,
		Price:           req.Price,
		Category:        req.Category,
		Active:          true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&svc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_duration"})
			return
		}
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service"})
		return
	}

	c.JSON(http.StatusOK, svc)
}
