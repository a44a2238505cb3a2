// Package sos — глобальный наблюдатель экстренной кнопки. Видимость кнопки
// выводится заново на каждом тике опроса из пары снимков «сессия + активные
// поездки» и никогда не кэшируется с момента загрузки сессии: статус поездки
// меняется независимо от личности пользователя.
package sos

import (
	"context"
	"sync"
	"time"

	"ride-booking/internal/api"
	"ride-booking/internal/lifecycle"
	"ride-booking/internal/models"
	"ride-booking/internal/polling"
	"ride-booking/internal/session"
)

type Watcher struct {
	store  *session.Store
	client *api.Client

	mu         sync.RWMutex
	visible    bool
	activeRide *models.RideResponse
	onChange   func(visible bool)

	sub *polling.Subscription
}

func NewWatcher(store *session.Store, client *api.Client) *Watcher {
	return &Watcher{store: store, client: client}
}

// OnChange регистрирует обработчик переходов Hidden↔Visible.
// Вызывается до Start.
func (w *Watcher) OnChange(fn func(visible bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start запускает опрос активных поездок с заданным интервалом
func (w *Watcher) Start(ctx context.Context, interval time.Duration) {
	w.sub = polling.Start(ctx, polling.Config{
		View:     "sos_watcher",
		Interval: interval,
		Fetch: func(ctx context.Context) (interface{}, error) {
			return w.client.ActiveRides(ctx)
		},
		Apply: func(snapshot interface{}) {
			rides, _ := snapshot.([]models.RideResponse)
			w.recompute(rides)
		},
	})
}

// Stop снимает подписку наблюдателя
func (w *Watcher) Stop() {
	if w.sub != nil {
		w.sub.Stop()
	}
}

// Refetch форсирует внеочередной опрос (после мутации статуса поездки)
func (w *Watcher) Refetch() {
	if w.sub != nil {
		w.sub.Refetch()
	}
}

// recompute выводит видимость из свежего снимка: кнопка видна тогда и только
// тогда, когда есть поездка, где текущий пользователь — пассажир или
// назначенный водитель, и статус поездки активный. Переходы применяются
// на каждом тике, без сглаживания.
func (w *Watcher) recompute(rides []models.RideResponse) {
	user := w.store.Current()

	var match *models.RideResponse
	if user != nil {
		for i := range rides {
			ride := &rides[i]
			if !lifecycle.IsActive(ride.Status) {
				continue
			}
			if ride.RiderID == user.ID || (ride.DriverID != nil && *ride.DriverID == user.ID) {
				match = ride
				break
			}
		}
	}

	w.mu.Lock()
	was := w.visible
	w.visible = match != nil
	w.activeRide = match
	fn := w.onChange
	now := w.visible
	w.mu.Unlock()

	if fn != nil && was != now {
		fn(now)
	}
}

// Visible сообщает, должна ли показываться экстренная кнопка
func (w *Watcher) Visible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

// ActiveRide возвращает поездку, из-за которой кнопка видна, или nil
func (w *Watcher) ActiveRide() *models.RideResponse {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.activeRide == nil {
		return nil
	}
	ride := *w.activeRide
	return &ride
}

// EmergencyContacts возвращает контакты текущего пользователя для
// экстренного уведомления
func (w *Watcher) EmergencyContacts() []models.EmergencyContact {
	user := w.store.Current()
	if user == nil {
		return nil
	}
	return user.EmergencyContacts
}
