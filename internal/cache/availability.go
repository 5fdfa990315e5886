package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
)

// Availability guarda o resultado da geração de horários por
// (profissional, serviço, data). A invalidação é explícita, disparada pelo
// lado de escrita (criar / remarcar / cancelar) — nunca há cache entre o
// check e o write de uma transação.
type Availability struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailability(rdb *redis.Client, ttl time.Duration) *Availability {
	return &Availability{rdb: rdb, ttl: ttl}
}

func key(professionalID, serviceID uint, date string) string {
	return fmt.Sprintf("avail:%d:%s:%d", professionalID, date, serviceID)
}

func (a *Availability) Get(ctx context.Context, professionalID, serviceID uint, date string) ([]domain.TimeSlot, bool) {
	if a == nil || a.rdb == nil {
		return nil, false
	}

	raw, err := a.rdb.Get(ctx, key(professionalID, serviceID, date)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (a *Availability) Set(ctx context.Context, professionalID, serviceID uint, date string, slots []domain.TimeSlot) {
	if a == nil || a.rdb == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := a.rdb.Set(ctx, key(professionalID, serviceID, date), raw, a.ttl).Err(); err != nil {
		log.Println("availability cache set:", err)
	}
}

// Invalidate remove todas as entradas do profissional na data (qualquer
// serviço).
func (a *Availability) Invalidate(ctx context.Context, professionalID uint, date string) {
	a.dropByPattern(ctx, fmt.Sprintf("avail:%d:%s:*", professionalID, date))
}

// InvalidateProfessional remove todas as entradas do profissional, em
// qualquer data: mudanças de horário e bloqueios recorrentes afetam todos
// os dias futuros de uma vez.
func (a *Availability) InvalidateProfessional(ctx context.Context, professionalID uint) {
	a.dropByPattern(ctx, fmt.Sprintf("avail:%d:*", professionalID))
}

func (a *Availability) dropByPattern(ctx context.Context, pattern string) {
	if a == nil || a.rdb == nil {
		return
	}

	keys, err := a.rdb.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}

	if err := a.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Println("availability cache invalidate:", err)
	}
}
