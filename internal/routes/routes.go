package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/agendly-app/booking-api/internal/audit"
	"github.com/agendly-app/booking-api/internal/cache"
	"github.com/agendly-app/booking-api/internal/config"
	"github.com/agendly-app/booking-api/internal/handlers"
	infraRepo "github.com/agendly-app/booking-api/internal/infra/repository"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/notify"
	ucAppointment "github.com/agendly-app/booking-api/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	notifyDispatcher *notify.Dispatcher,
	cfg *config.Config,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	availabilityCache := cache.NewAvailability(rdb, cfg.AvailabilityTTL)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(
		appointmentRepo,
		availabilityCache,
	)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
		notifyDispatcher,
		availabilityCache,
		cfg.ManageTokenTTL,
	)

	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		auditDispatcher,
		notifyDispatcher,
		availabilityCache,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	markNoShowUC := ucAppointment.NewMarkNoShow(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
		notifyDispatcher,
		availabilityCache,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	// ======================================================
	// USE CASES — AUTOATENDIMENTO
	// ======================================================
	resolveManageTokenUC := ucAppointment.NewResolveManageToken(appointmentRepo)

	selfRescheduleUC := ucAppointment.NewSelfReschedule(
		appointmentRepo,
		auditDispatcher,
		notifyDispatcher,
		availabilityCache,
	)

	selfCancelUC := ucAppointment.NewSelfCancel(
		appointmentRepo,
		auditDispatcher,
		notifyDispatcher,
		availabilityCache,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	establishmentHandler := handlers.NewEstablishmentHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	professionalHandler := handlers.NewProfessionalHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	hoursHandler := handlers.NewHoursHandler(db, availabilityCache)
	timeBlockHandler := handlers.NewTimeBlockHandler(db, availabilityCache)
	recurringBlockHandler := handlers.NewRecurringBlockHandler(db, availabilityCache)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		rescheduleAppointmentUC,
		confirmAppointmentUC,
		completeAppointmentUC,
		markNoShowUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, getAvailabilityUC, createAppointmentUC)
	manageHandler := handlers.NewManageHandler(
		resolveManageTokenUC,
		selfRescheduleUC,
		selfCancelUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.GetEstablishment)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/:slug/availability", publicHandler.GetAvailability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateBooking)
		}

		// ------------------------------
		// AUTOATENDIMENTO (token de uso único)
		// ------------------------------
		manage := api.Group("/manage")
		{
			manage.GET("/:token", manageHandler.Get)
			manage.POST("/:token/reschedule", manageHandler.Reschedule)
			manage.POST("/:token/cancel", manageHandler.Cancel)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/establishment", establishmentHandler.GetMeEstablishment)
			secured.PATCH("/me/establishment", establishmentHandler.UpdateMeEstablishment)

			secured.GET("/me/customers", customerHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/professionals", professionalHandler.List)
			secured.POST("/me/professionals", professionalHandler.Create)
			secured.PATCH("/me/professionals/:id", professionalHandler.Update)
			secured.PUT("/me/professionals/:id/services", professionalHandler.SetServices)

			secured.GET("/me/business-hours", hoursHandler.GetBusinessHours)
			secured.PUT("/me/business-hours", hoursHandler.UpdateBusinessHours)

			secured.GET("/me/professionals/:id/hours", hoursHandler.GetProfessionalHours)
			secured.PUT("/me/professionals/:id/hours", hoursHandler.UpdateProfessionalHours)
			secured.DELETE("/me/professionals/:id/hours/:weekday", hoursHandler.DeleteProfessionalHours)

			secured.GET("/me/time-blocks", timeBlockHandler.List)
			secured.POST("/me/time-blocks", timeBlockHandler.Create)
			secured.DELETE("/me/time-blocks/:id", timeBlockHandler.Delete)

			secured.GET("/me/recurring-blocks", recurringBlockHandler.List)
			secured.POST("/me/recurring-blocks", recurringBlockHandler.Create)
			secured.PATCH("/me/recurring-blocks/:id", recurringBlockHandler.Update)
			secured.DELETE("/me/recurring-blocks/:id", recurringBlockHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
