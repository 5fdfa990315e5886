package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/httpresp"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

func (h *CustomerHandler) List(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	query := h.db.Where("establishment_id = ?", establishmentID)

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	var customers []models.Customer
	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_customers"})
		return
	}

	httpresp.List(c, customers)
}
