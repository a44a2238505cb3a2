// Представления водителя: входящие запросы и активная поездка.
// Каждое представление держит собственную подписку на опрос и закрывает
// ее в Close; мутации ожидаются до ответа сервера, после чего форсируется
// немедленный refetch вместо ожидания следующего тика.
package views

import (
	"context"
	"sync"
	"time"

	"ride-booking/internal/api"
	"ride-booking/internal/lifecycle"
	"ride-booking/internal/models"
	"ride-booking/internal/polling"
)

// refetch форсирует немедленный опрос подписки. До Start подписки еще нет:
// мутация тогда просто дождется первого опроса после запуска.
func refetch(sub *polling.Subscription) {
	if sub != nil {
		sub.Refetch()
	}
}

// DriverIncoming — список входящих запросов на поездку
type DriverIncoming struct {
	client   *api.Client
	notifier Notifier

	mu    sync.RWMutex
	rides []models.RideResponse

	sub *polling.Subscription
}

func NewDriverIncoming(client *api.Client, notifier Notifier) *DriverIncoming {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &DriverIncoming{client: client, notifier: notifier}
}

// Start запускает опрос входящих запросов (по умолчанию каждые 5 секунд)
func (v *DriverIncoming) Start(ctx context.Context, interval time.Duration) {
	v.sub = polling.Start(ctx, polling.Config{
		View:     "driver_incoming",
		Interval: interval,
		Fetch: func(ctx context.Context) (interface{}, error) {
			return v.client.PendingRides(ctx)
		},
		Apply: func(snapshot interface{}) {
			rides, _ := snapshot.([]models.RideResponse)
			v.mu.Lock()
			v.rides = rides
			v.mu.Unlock()
		},
		OnError: func(err error) {
			v.notifier.Error("Не удалось обновить список запросов: " + err.Error())
		},
	})
}

// Rides возвращает последний снимок входящих запросов
func (v *DriverIncoming) Rides() []models.RideResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.RideResponse, len(v.rides))
	copy(out, v.rides)
	return out
}

// Accept принимает запрос на поездку
func (v *DriverIncoming) Accept(ctx context.Context, rideID uint) error {
	if _, err := v.client.AcceptRide(ctx, rideID); err != nil {
		v.notifier.Error("Не удалось принять поездку: " + err.Error())
		return err
	}
	v.notifier.Success("Поездка принята, направляйтесь к точке посадки")
	refetch(v.sub)
	return nil
}

// Reject отклоняет запрос на поездку
func (v *DriverIncoming) Reject(ctx context.Context, rideID uint) error {
	if _, err := v.client.RejectRide(ctx, rideID); err != nil {
		v.notifier.Error("Не удалось отклонить поездку: " + err.Error())
		return err
	}
	v.notifier.Success("Поездка отклонена")
	refetch(v.sub)
	return nil
}

// Close снимает подписку представления
func (v *DriverIncoming) Close() {
	if v.sub != nil {
		v.sub.Stop()
	}
}

// nextStatus — следующий шаг активной поездки для кнопки «дальше»
var nextStatus = map[models.RideStatus]models.RideStatus{
	models.RideStatusAccepted:  models.RideStatusPickedUp,
	models.RideStatusPickedUp:  models.RideStatusInTransit,
	models.RideStatusInTransit: models.RideStatusCompleted,
}

// DriverActiveRide — ведение текущей поездки водителем
type DriverActiveRide struct {
	client   *api.Client
	notifier Notifier
	driverID uint

	mu   sync.RWMutex
	ride *models.RideResponse

	sub *polling.Subscription
}

func NewDriverActiveRide(client *api.Client, notifier Notifier, driverID uint) *DriverActiveRide {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &DriverActiveRide{client: client, notifier: notifier, driverID: driverID}
}

// Start запускает опрос активных поездок (по умолчанию каждые 10 секунд)
func (v *DriverActiveRide) Start(ctx context.Context, interval time.Duration) {
	v.sub = polling.Start(ctx, polling.Config{
		View:     "driver_active_ride",
		Interval: interval,
		Fetch: func(ctx context.Context) (interface{}, error) {
			return v.client.ActiveRides(ctx)
		},
		Apply: func(snapshot interface{}) {
			rides, _ := snapshot.([]models.RideResponse)
			var mine *models.RideResponse
			for i := range rides {
				if rides[i].DriverID != nil && *rides[i].DriverID == v.driverID {
					mine = &rides[i]
					break
				}
			}
			v.mu.Lock()
			v.ride = mine
			v.mu.Unlock()
		},
		OnError: func(err error) {
			v.notifier.Error("Не удалось обновить активную поездку: " + err.Error())
		},
	})
}

// Ride возвращает текущую активную поездку водителя или nil
func (v *DriverActiveRide) Ride() *models.RideResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.ride == nil {
		return nil
	}
	ride := *v.ride
	return &ride
}

// Advance переводит поездку в следующий статус. Допустимость перехода
// проверяется через таблицу жизненного цикла до обращения к серверу:
// экран сам не кодирует правила переходов.
func (v *DriverActiveRide) Advance(ctx context.Context) error {
	current := v.Ride()
	if current == nil {
		v.notifier.Error("Нет активной поездки")
		return api.ErrInvalidTransition
	}

	next, ok := nextStatus[current.Status]
	if !ok {
		v.notifier.Error("Поездку нельзя продвинуть из статуса " + string(current.Status))
		return api.ErrInvalidTransition
	}

	actor := lifecycle.Actor{UserID: v.driverID, Role: models.RoleDriver}
	ride := &models.Ride{
		ID:       current.ID,
		RiderID:  current.RiderID,
		DriverID: current.DriverID,
		Status:   current.Status,
	}
	if !lifecycle.CanTransition(ride, next, actor) {
		v.notifier.Error("Недопустимое изменение статуса поездки")
		return api.ErrInvalidTransition
	}

	if _, err := v.client.UpdateRideStatus(ctx, current.ID, next); err != nil {
		v.notifier.Error("Не удалось обновить статус: " + err.Error())
		return err
	}
	v.notifier.Success("Статус поездки: " + string(next))
	refetch(v.sub)
	return nil
}

// Close снимает подписку представления
func (v *DriverActiveRide) Close() {
	if v.sub != nil {
		v.sub.Stop()
	}
}
