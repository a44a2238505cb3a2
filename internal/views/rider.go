package views

import (
	"context"
	"sync"
	"time"

	"ride-booking/internal/api"
	"ride-booking/internal/models"
	"ride-booking/internal/polling"
)

// RiderHistory — история поездок пассажира с фильтрами и пагинацией
type RiderHistory struct {
	client   *api.Client
	notifier Notifier

	mu     sync.RWMutex
	filter api.RideFilter
	rides  []models.RideResponse

	sub *polling.Subscription
}

func NewRiderHistory(client *api.Client, notifier Notifier) *RiderHistory {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &RiderHistory{
		client:   client,
		notifier: notifier,
		filter:   api.RideFilter{Page: 1, Limit: 10},
	}
}

// Start запускает опрос истории поездок
func (v *RiderHistory) Start(ctx context.Context, interval time.Duration) {
	v.sub = polling.Start(ctx, polling.Config{
		View:     "rider_history",
		Interval: interval,
		Fetch: func(ctx context.Context) (interface{}, error) {
			v.mu.RLock()
			filter := v.filter
			v.mu.RUnlock()
			return v.client.MyRides(ctx, filter)
		},
		Apply: func(snapshot interface{}) {
			rides, _ := snapshot.([]models.RideResponse)
			v.mu.Lock()
			v.rides = rides
			v.mu.Unlock()
		},
		OnError: func(err error) {
			v.notifier.Error("Не удалось обновить историю поездок: " + err.Error())
		},
	})
}

// Rides возвращает последний снимок истории
func (v *RiderHistory) Rides() []models.RideResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.RideResponse, len(v.rides))
	copy(out, v.rides)
	return out
}

// SetFilter меняет фильтры и форсирует немедленный refetch
func (v *RiderHistory) SetFilter(filter api.RideFilter) {
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	refetch(v.sub)
}

// Request создает новый запрос на поездку
func (v *RiderHistory) Request(ctx context.Context, req api.RideRequest) (*models.RideResponse, error) {
	ride, err := v.client.RequestRide(ctx, req)
	if err != nil {
		v.notifier.Error("Не удалось запросить поездку: " + err.Error())
		return nil, err
	}
	v.notifier.Success("Поездка запрошена, ищем водителя")
	refetch(v.sub)
	return ride, nil
}

// Cancel отменяет поездку. Отмена допустима только пока запрос не принят;
// для остальных статусов кнопка отмены неактивна, и сервер подтверждает
// то же правило через таблицу переходов.
func (v *RiderHistory) Cancel(ctx context.Context, rideID uint) error {
	if _, err := v.client.CancelRide(ctx, rideID); err != nil {
		v.notifier.Error("Не удалось отменить поездку: " + err.Error())
		return err
	}
	v.notifier.Success("Поездка отменена")
	refetch(v.sub)
	return nil
}

// CanCancel сообщает, активна ли кнопка отмены для поездки
func (v *RiderHistory) CanCancel(ride *models.RideResponse) bool {
	return ride != nil && ride.Status == models.RideStatusRequested
}

// Close снимает подписку представления
func (v *RiderHistory) Close() {
	if v.sub != nil {
		v.sub.Stop()
	}
}
