// Package store — хранилище справочного сервера. Интерфейс один,
// реализации две: in-memory (тесты и локальная разработка) и
// gorm/postgres (продакшен, в манере основного бэкенда).
package store

import (
	"errors"
	"time"

	"ride-booking/internal/models"
)

var (
	ErrNotFound       = errors.New("запись не найдена")
	ErrDuplicateEmail = errors.New("email уже зарегистрирован")
	// ErrStaleRide: статус поездки в хранилище изменился с момента чтения
	// снимка, по которому решался переход
	ErrStaleRide = errors.New("поездка уже изменена")
)

// RideQuery — фильтры выборки истории поездок
type RideQuery struct {
	Status    models.RideStatus
	MinFare   float64
	MaxFare   float64
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type Store interface {
	CreateUser(user *models.User) error
	UserByID(id uint) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	Users() ([]models.User, error)
	UpdateUser(user *models.User) error

	CreateRide(ride *models.Ride) error
	RideByID(id uint) (*models.Ride, error)
	// UpdateRide сохраняет поездку вместе с дописанной историей статусов;
	// существующие записи истории не изменяются
	UpdateRide(ride *models.Ride) error
	// SaveTransition сохраняет поездку, только если её текущий статус в
	// хранилище всё ещё равен from; иначе возвращает ErrStaleRide и ничего
	// не меняет. Все смены статуса идут через этот метод, UpdateRide
	// остаётся для правок, не трогающих статус.
	SaveTransition(ride *models.Ride, from models.RideStatus) error
	// PendingRides — запросы в статусе requested, старые раньше
	PendingRides() ([]models.Ride, error)
	// ActiveRidesFor — поездки в активных статусах, где пользователь
	// пассажир или назначенный водитель
	ActiveRidesFor(userID uint) ([]models.Ride, error)
	// RidesFor — история поездок пользователя с фильтрами, новые раньше
	RidesFor(userID uint, q RideQuery) ([]models.Ride, error)
	// RequestedBefore — запросы в статусе requested, созданные до cutoff
	RequestedBefore(cutoff time.Time) ([]models.Ride, error)

	Earnings(driverID uint) (*models.Earnings, error)
	RideReport() (*models.RideReport, error)
}
