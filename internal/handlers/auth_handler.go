package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/config"
	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/timezone"
	"github.com/agendly-app/booking-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	EstablishmentName    string `json:"establishment_name" binding:"required"`
	EstablishmentSlug    string `json:"establishment_slug" binding:"required"`
	EstablishmentPhone   string `json:"establishment_phone"`
	EstablishmentAddress string `json:"establishment_address"`
	Timezone             string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.EstablishmentSlug))

	var count int64
	h.db.Model(&models.Establishment{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	tz := req.Timezone
	if !timezone.IsValid(tz) {
		tz = timezone.DefaultTimezone
	}

	est := models.Establishment{
		Name:     req.EstablishmentName,
		Slug:     slug,
		Phone:    req.EstablishmentPhone,
		Address:  req.EstablishmentAddress,
		Timezone: tz,
	}

	if err := h.db.Create(&est).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_establishment"})
		return
	}

	// semente de horário comercial: seg–sex 09–18, fim de semana fechado;
	// o dono ajusta depois via upsert por weekday
	seedBusinessHours(h.db, est.ID)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "O domínio do e-mail informado não parece ser válido.",
		})
		return
	}

	user := models.User{
		EstablishmentID: est.ID,
		Name:            req.Name,
		Email:           email,
		PasswordHash:    string(hashed),
		Phone:           req.Phone,
		Role:            "owner",
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":               user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"phone":            user.Phone,
			"establishment_id": user.EstablishmentID,
		},
		"establishment": gin.H{
			"id":      est.ID,
			"name":    est.Name,
			"slug":    est.Slug,
			"phone":   est.Phone,
			"address": est.Address,
		},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Establishment").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":               user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"phone":            user.Phone,
			"establishment_id": user.EstablishmentID,
		},
		"establishment": gin.H{
			"id":      user.Establishment.ID,
			"name":    user.Establishment.Name,
			"slug":    user.Establishment.Slug,
			"phone":   user.Establishment.Phone,
			"address": user.Establishment.Address,
		},
		"token": token,
	})
}

func seedBusinessHours(db *gorm.DB, establishmentID uint) {
	rows := make([]models.BusinessHours, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		row := models.BusinessHours{
			EstablishmentID: establishmentID,
			Weekday:         weekday,
			Closed:          weekday == 0 || weekday == 6,
		}
		if !row.Closed {
			row.OpenTime = "09:00"
			row.CloseTime = "18:00"
		}
		rows = append(rows, row)
	}
	db.Create(&rows)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":             user.ID,
		"establishmentId": user.EstablishmentID,
		"role":            user.Role,
		"exp":             time.Now().Add(24 * time.Hour).Unix(),
		"iat":             time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
