// Сервис перевода залежавшихся запросов в no_driver_found: если ни один
// водитель не откликнулся за отведенное время, запрос закрывается сервером.
package services

import (
	"context"
	"log"
	"time"

	"ride-booking/internal/lifecycle"
	"ride-booking/internal/models"
	"ride-booking/internal/store"
)

// StartRequestSweeper запускает фоновую проверку запросов. Останавливается
// по отмене контекста.
func StartRequestSweeper(ctx context.Context, s store.Store, timeout, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep(s, timeout)
			}
		}
	}()
}

func sweep(s store.Store, timeout time.Duration) {
	cutoff := time.Now().Add(-timeout)
	rides, err := s.RequestedBefore(cutoff)
	if err != nil {
		log.Printf("Ошибка выборки просроченных запросов: %v", err)
		return
	}

	for i := range rides {
		ride := &rides[i]
		if !lifecycle.CanTransition(ride, models.RideStatusNoDriverFound, lifecycle.SystemActor) {
			continue
		}
		updated, err := lifecycle.Apply(ride, models.RideStatusNoDriverFound)
		if err != nil {
			continue
		}
		if err := s.SaveTransition(updated, models.RideStatusRequested); err != nil {
			// Водитель успел принять запрос между выборкой и записью —
			// поездка остается за ним
			if err != store.ErrStaleRide {
				log.Printf("Ошибка закрытия запроса %d: %v", ride.ID, err)
			}
			continue
		}
		log.Printf("Запрос %d закрыт: водитель не найден", ride.ID)
	}
}
