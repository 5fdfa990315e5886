package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/agendly-app/booking-api/internal/config"
	dbpkg "github.com/agendly-app/booking-api/internal/db"
	infraRepo "github.com/agendly-app/booking-api/internal/infra/repository"
	"github.com/agendly-app/booking-api/internal/middleware"
	"github.com/agendly-app/booking-api/internal/notify"
	"github.com/agendly-app/booking-api/internal/reminder"
	"github.com/agendly-app/booking-api/internal/routes"
)

func main() {

	// .env é opcional: em produção tudo vem do ambiente
	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable (%v): cache e dedup de lembrete desativados", err)
		rdb = nil
	}

	var mailer notify.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	} else {
		log.Println("SENDGRID_API_KEY ausente: e-mails apenas logados")
		mailer = notify.LogMailer{}
	}
	notifyDispatcher := notify.NewDispatcher(mailer)

	reminderWorker := reminder.NewWorker(
		infraRepo.NewAppointmentGormRepository(db),
		rdb,
		notifyDispatcher,
		cfg.ReminderSweep,
	)
	go reminderWorker.Run(context.Background())

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, notifyDispatcher, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
