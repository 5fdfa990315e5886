package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/cache"
	"github.com/agendly-app/booking-api/internal/httpresp"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
)

type RecurringBlockHandler struct {
	db    *gorm.DB
	cache *cache.Availability
}

func NewRecurringBlockHandler(db *gorm.DB, c *cache.Availability) *RecurringBlockHandler {
	return &RecurringBlockHandler{db: db, cache: c}
}

type CreateRecurringBlockRequest struct {
	ProfessionalID *uint  `json:"professional_id"`
	Weekday        *int   `json:"weekday" binding:"required,min=0,max=6"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Reason         string `json:"reason"`
}

type UpdateRecurringBlockRequest struct {
	Weekday   *int    `json:"weekday" binding:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    *string `json:"reason"`
	Active    *bool   `json:"active"`
}

func (h *RecurringBlockHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var blocks []models.RecurringTimeBlock
	if err := h.db.
		Where("establishment_id = ?", establishmentID).
		Order("weekday ASC, start_time ASC").
		Find(&blocks).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_recurring_blocks"})
		return
	}

	httpresp.List(c, blocks)
}

func (h *RecurringBlockHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateRecurringBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !isValidClock(req.StartTime) || !isValidClock(req.EndTime) || req.StartTime >= req.EndTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_range"})
		return
	}

	if req.ProfessionalID != nil {
		var prof models.Professional
		if err := h.db.
			Where("id = ? AND establishment_id = ?", *req.ProfessionalID, establishmentID).
			First(&prof).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "professional_not_found"})
			return
		}
	}

	block := models.RecurringTimeBlock{
		EstablishmentID: establishmentID,
		ProfessionalID:  req.ProfessionalID,
		Weekday:         *req.Weekday,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Reason:          req.Reason,
		Active:          true,
	}

	if err := h.db.Create(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_recurring_block"})
		return
	}

	h.invalidate(c, establishmentID, block.ProfessionalID)

	c.JSON(http.StatusCreated, block)
}

func (h *RecurringBlockHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	block, ok := h.find(c, establishmentID)
	if !ok {
		return
	}

	var req UpdateRecurringBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Weekday != nil {
		block.Weekday = *req.Weekday
	}
	if req.StartTime != nil {
		if !isValidClock(*req.StartTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_range"})
			return
		}
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if !isValidClock(*req.EndTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_range"})
			return
		}
		block.EndTime = *req.EndTime
	}
	if block.StartTime >= block.EndTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_range"})
		return
	}
	if req.Reason != nil {
		block.Reason = *req.Reason
	}
	if req.Active != nil {
		block.Active = *req.Active
	}

	if err := h.db.Save(block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_recurring_block"})
		return
	}

	h.invalidate(c, establishmentID, block.ProfessionalID)

	c.JSON(http.StatusOK, block)
}

func (h *RecurringBlockHandler) Delete(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	block, ok := h.find(c, establishmentID)
	if !ok {
		return
	}

	if err := h.db.Delete(block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_recurring_block"})
		return
	}

	h.invalidate(c, establishmentID, block.ProfessionalID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Bloqueio recorrente vale para todos os dias futuros: derruba as entradas
// do(s) profissional(is) em qualquer data.
func (h *RecurringBlockHandler) invalidate(c *gin.Context, establishmentID uint, professionalID *uint) {
	if professionalID != nil {
		h.cache.InvalidateProfessional(c.Request.Context(), *professionalID)
		return
	}

	var profs []models.Professional
	if err := h.db.
		Where("establishment_id = ?", establishmentID).
		Find(&profs).Error; err != nil {
		return
	}
	for _, p := range profs {
		h.cache.InvalidateProfessional(c.Request.Context(), p.ID)
	}
}

func (h *RecurringBlockHandler) find(c *gin.Context, establishmentID uint) (*models.RecurringTimeBlock, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return nil, false
	}

	var block models.RecurringTimeBlock
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&block).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recurring_block_not_found"})
		return nil, false
	}

	return &block, true
}
