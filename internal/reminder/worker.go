package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/notify"
)

// horizonte máximo de varredura; estabelecimentos com lembrete maior que
// isso são pegos em varreduras futuras
const maxLookahead = 72 * time.Hour

// Worker varre periodicamente os agendamentos que entraram na janela de
// lembrete do estabelecimento e dispara no máximo um e-mail por
// (agendamento, janela): a chave SETNX no redis segura reexecuções e
// instâncias concorrentes.
type Worker struct {
	repo   domain.Repository
	rdb    *redis.Client
	notify *notify.Dispatcher
	sweep  time.Duration
}

func NewWorker(
	repo domain.Repository,
	rdb *redis.Client,
	notifyD *notify.Dispatcher,
	sweep time.Duration,
) *Worker {
	return &Worker{
		repo:   repo,
		rdb:    rdb,
		notify: notifyD,
		sweep:  sweep,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.SweepOnce(ctx); err != nil {
				log.Println("reminder sweep:", err)
			}
		}
	}
}

func (w *Worker) SweepOnce(ctx context.Context) error {
	// sem redis não há dedup: melhor não enviar do que repetir a cada sweep
	if w.rdb == nil {
		return nil
	}

	now := time.Now()

	aps, err := w.repo.ListUpcomingForReminder(ctx, now, now.Add(maxLookahead))
	if err != nil {
		return err
	}

	for _, ap := range aps {
		lead := time.Duration(ap.Establishment.ReminderHoursBefore) * time.Hour
		if lead <= 0 {
			continue
		}

		windowStart := ap.StartTime.Add(-lead)
		if now.Before(windowStart) {
			continue
		}

		key := fmt.Sprintf("reminder:%d:%d", ap.ID, windowStart.Unix())
		ttl := time.Until(ap.StartTime)
		if ttl <= 0 {
			continue
		}

		set, err := w.rdb.SetNX(ctx, key, 1, ttl).Result()
		if err != nil {
			log.Println("reminder dedup:", err)
			continue
		}
		if !set {
			// outra varredura já enviou
			continue
		}

		w.notify.Dispatch(notify.Notification{
			Kind:              notify.KindReminder,
			To:                ap.Customer.Email,
			ToName:            ap.Customer.Name,
			EstablishmentName: ap.Establishment.Name,
			ServiceName:       ap.Service.Name,
			StartTime:         ap.StartTime,
		})
	}

	return nil
}
