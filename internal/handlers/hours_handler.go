package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agendly-app/booking-api/internal/cache"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
)

type HoursHandler struct {
	db    *gorm.DB
	cache *cache.Availability
}

func NewHoursHandler(db *gorm.DB, c *cache.Availability) *HoursHandler {
	return &HoursHandler{db: db, cache: c}
}

type BusinessDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Closed    bool   `json:"closed"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type BusinessHoursUpdateRequest struct {
	Days []BusinessDayConfig `json:"days" binding:"required"`
}

// --------------------------------------------------
// Horário do estabelecimento (upsert por weekday, nunca delete)
// --------------------------------------------------

func (h *HoursHandler) GetBusinessHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var hours []models.BusinessHours
	if err := h.db.
		Where("establishment_id = ?", establishmentID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_business_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *HoursHandler) UpdateBusinessHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, d := range req.Days {
		if !d.Closed {
			if !isValidClock(d.OpenTime) || !isValidClock(d.CloseTime) || d.OpenTime >= d.CloseTime {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_hours", "weekday": d.Weekday})
				return
			}
		}

		row := models.BusinessHours{
			EstablishmentID: establishmentID,
			Weekday:         d.Weekday,
			Closed:          d.Closed,
			OpenTime:        d.OpenTime,
			CloseTime:       d.CloseTime,
		}
		if d.Closed {
			row.OpenTime = ""
			row.CloseTime = ""
		}

		if err := h.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "establishment_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"closed", "open_time", "close_time", "updated_at"}),
		}).Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_business_hours"})
			return
		}
	}

	// horário do estabelecimento vale para todas as agendas
	var profs []models.Professional
	if err := h.db.Where("establishment_id = ?", establishmentID).Find(&profs).Error; err == nil {
		for _, p := range profs {
			h.cache.InvalidateProfessional(c.Request.Context(), p.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --------------------------------------------------
// Override por profissional
// --------------------------------------------------

type ProfessionalDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Closed    bool   `json:"closed"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type ProfessionalHoursUpdateRequest struct {
	Days []ProfessionalDayConfig `json:"days" binding:"required"`
}

func (h *HoursHandler) GetProfessionalHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	profID, ok := h.professionalID(c, establishmentID)
	if !ok {
		return
	}

	var hours []models.ProfessionalHours
	if err := h.db.
		Where("professional_id = ?", profID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_professional_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *HoursHandler) UpdateProfessionalHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	profID, ok := h.professionalID(c, establishmentID)
	if !ok {
		return
	}

	var req ProfessionalHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, d := range req.Days {
		if !d.Closed {
			if !isValidClock(d.StartTime) || !isValidClock(d.EndTime) || d.StartTime >= d.EndTime {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_hours", "weekday": d.Weekday})
				return
			}
		}

		row := models.ProfessionalHours{
			ProfessionalID: profID,
			Weekday:        d.Weekday,
			Closed:         d.Closed,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
		}
		if d.Closed {
			row.StartTime = ""
			row.EndTime = ""
		}

		if err := h.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "professional_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"closed", "start_time", "end_time", "updated_at"}),
		}).Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_professional_hours"})
			return
		}
	}

	h.cache.InvalidateProfessional(c.Request.Context(), profID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteProfessionalHours remove o override de um weekday: o profissional
// volta a seguir o horário do estabelecimento.
func (h *HoursHandler) DeleteProfessionalHours(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	profID, ok := h.professionalID(c, establishmentID)
	if !ok {
		return
	}

	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_weekday"})
		return
	}

	if err := h.db.
		Where("professional_id = ? AND weekday = ?", profID, weekday).
		Delete(&models.ProfessionalHours{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_professional_hours"})
		return
	}

	h.cache.InvalidateProfessional(c.Request.Context(), profID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HoursHandler) professionalID(c *gin.Context, establishmentID uint) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}

	var prof models.Professional
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&prof).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "professional_not_found"})
		return 0, false
	}

	return prof.ID, true
}
