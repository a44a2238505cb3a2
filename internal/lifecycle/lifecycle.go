// Package lifecycle — единственный источник правды о жизненном цикле поездки.
// Никакой другой код не должен самостоятельно решать, допустим ли переход статуса.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"ride-booking/internal/models"
)

// ErrInvalidTransition возвращается при попытке недопустимого перехода статуса.
// Состояние поездки при этом не меняется.
var ErrInvalidTransition = errors.New("недопустимый переход статуса поездки")

// Transitions — таблица допустимых переходов. Статусы, отсутствующие
// в таблице как ключ, терминальные.
var Transitions = map[models.RideStatus][]models.RideStatus{
	models.RideStatusRequested: {
		models.RideStatusAccepted,
		models.RideStatusRejected,
		models.RideStatusCancelled,
		models.RideStatusNoDriverFound,
	},
	models.RideStatusAccepted: {
		models.RideStatusPickedUp,
		models.RideStatusCancelled,
	},
	models.RideStatusPickedUp: {
		models.RideStatusInTransit,
	},
	models.RideStatusInTransit: {
		models.RideStatusCompleted,
	},
}

// ActiveStatuses — статусы, при которых поездка считается активной:
// у нее есть назначенный водитель и она еще не закрыта.
// Этот же набор управляет видимостью кнопки SOS.
var ActiveStatuses = []models.RideStatus{
	models.RideStatusAccepted,
	models.RideStatusPickedUp,
	models.RideStatusInTransit,
}

// Actor — инициатор перехода. System выставляется для серверных
// переходов (no_driver_found, административная отмена).
type Actor struct {
	UserID uint
	Role   models.Role
	System bool
}

// SystemActor — серверный инициатор, не связанный с пользователем
var SystemActor = Actor{System: true}

// IsActive сообщает, входит ли статус в набор активных
func IsActive(status models.RideStatus) bool {
	for _, s := range ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, что из статуса нет ни одного перехода
func IsTerminal(status models.RideStatus) bool {
	return len(Transitions[status]) == 0
}

// inTable проверяет пару (current, next) по таблице переходов
func inTable(current, next models.RideStatus) bool {
	for _, allowed := range Transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanTransition проверяет и таблицу переходов, и право инициатора:
//   - принять или отклонить запрос может любой водитель (выбор конкретного
//     водителя — ответственность вызывающего API);
//   - вести поездку по accepted → picked_up → in_transit → completed может
//     только назначенный водитель;
//   - отменить поездку может только ее пассажир и только пока она requested;
//   - системные переходы (no_driver_found, отмена после принятия) доступны
//     только серверу.
func CanTransition(ride *models.Ride, next models.RideStatus, actor Actor) bool {
	if !inTable(ride.Status, next) {
		return false
	}

	if actor.System {
		return true
	}

	switch next {
	case models.RideStatusAccepted, models.RideStatusRejected:
		return actor.Role == models.RoleDriver

	case models.RideStatusCancelled:
		// Пассажир может отменить только еще не принятый запрос
		return actor.Role == models.RoleRider &&
			actor.UserID == ride.RiderID &&
			ride.Status == models.RideStatusRequested

	case models.RideStatusPickedUp, models.RideStatusInTransit, models.RideStatusCompleted:
		return actor.Role == models.RoleDriver &&
			ride.DriverID != nil &&
			*ride.DriverID == actor.UserID

	case models.RideStatusNoDriverFound:
		return false
	}

	return false
}

// Apply возвращает копию поездки с новым статусом и дописанной историей.
// Исходная поездка не изменяется; существующие записи истории не
// переставляются и не удаляются. Пара вне таблицы (включая переход
// статуса в самого себя) отклоняется с ErrInvalidTransition.
func Apply(ride *models.Ride, next models.RideStatus) (*models.Ride, error) {
	if !inTable(ride.Status, next) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, ride.Status, next)
	}

	updated := *ride
	updated.Status = next
	updated.StatusHistory = make([]models.StatusChange, 0, len(ride.StatusHistory)+1)
	updated.StatusHistory = append(updated.StatusHistory, ride.StatusHistory...)
	updated.StatusHistory = append(updated.StatusHistory, models.StatusChange{
		RideID:    ride.ID,
		Status:    next,
		Timestamp: time.Now(),
	})
	updated.UpdatedAt = time.Now()

	return &updated, nil
}

// NewHistory — стартовая история для только что запрошенной поездки
func NewHistory(rideID uint) []models.StatusChange {
	return []models.StatusChange{{
		RideID:    rideID,
		Status:    models.RideStatusRequested,
		Timestamp: time.Now(),
	}}
}
