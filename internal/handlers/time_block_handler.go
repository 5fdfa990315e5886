package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/cache"
	"github.com/agendly-app/booking-api/internal/httpresp"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
)

type TimeBlockHandler struct {
	db    *gorm.DB
	cache *cache.Availability
}

func NewTimeBlockHandler(db *gorm.DB, availCache *cache.Availability) *TimeBlockHandler {
	return &TimeBlockHandler{db: db, cache: availCache}
}

type CreateTimeBlockRequest struct {
	ProfessionalID *uint  `json:"professional_id"`
	Date           string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime      string `json:"start_time" binding:"required"` // HH:MM
	EndTime        string `json:"end_time" binding:"required"`   // HH:MM
	Reason         string `json:"reason"`
}

func (h *TimeBlockHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	query := h.db.Where("establishment_id = ?", establishmentID)

	if from := c.Query("from"); from != "" {
		query = query.Where("end_time >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("start_time <= ?", to)
	}

	var blocks []models.TimeBlock
	if err := query.Order("start_time ASC").Find(&blocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_time_blocks"})
		return
	}

	httpresp.List(c, blocks)
}

func (h *TimeBlockHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateTimeBlockRequest
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

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_establishment"})
		return
	}

	day, err := parseDateInEstablishment(&est, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date_format"})
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

	loc := locationFromEstablishment(&est)
	start := materializeClock(day, req.StartTime, loc)
	end := materializeClock(day, req.EndTime, loc)

	block := models.TimeBlock{
		EstablishmentID: establishmentID,
		ProfessionalID:  req.ProfessionalID,
		StartTime:       start,
		EndTime:         end,
		Reason:          req.Reason,
	}

	if err := h.db.Create(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_time_block"})
		return
	}

	h.invalidate(c, establishmentID, req.ProfessionalID, req.Date)

	c.JSON(http.StatusCreated, block)
}

func (h *TimeBlockHandler) Delete(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}

	var block models.TimeBlock
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&block).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "time_block_not_found"})
		return
	}

	if err := h.db.Delete(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_time_block"})
		return
	}

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err == nil {
		date := block.StartTime.In(locationFromEstablishment(&est)).Format("2006-01-02")
		h.invalidate(c, establishmentID, block.ProfessionalID, date)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Bloqueio sem profissional afeta a agenda de todos: invalida um a um.
func (h *TimeBlockHandler) invalidate(c *gin.Context, establishmentID uint, professionalID *uint, date string) {
	if professionalID != nil {
		h.cache.Invalidate(c.Request.Context(), *professionalID, date)
		return
	}

	var profs []models.Professional
	if err := h.db.
		Where("establishment_id = ?", establishmentID).
		Find(&profs).Error; err != nil {
		return
	}
	for _, p := range profs {
		h.cache.Invalidate(c.Request.Context(), p.ID, date)
	}
}

func materializeClock(day time.Time, hm string, loc *time.Location) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}
