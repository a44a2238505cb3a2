package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"ride-booking/internal/lifecycle"
	"ride-booking/internal/models"
)

// Gorm — хранилище поверх postgres
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// AutoMigrate прогоняет миграции моделей
func (g *Gorm) AutoMigrate() error {
	return g.db.AutoMigrate(
		&models.User{},
		&models.EmergencyContact{},
		&models.Ride{},
		&models.StatusChange{},
	)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (g *Gorm) CreateUser(user *models.User) error {
	var count int64
	g.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count)
	if count > 0 {
		return ErrDuplicateEmail
	}
	return translate(g.db.Create(user).Error)
}

func (g *Gorm) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := g.db.Preload("EmergencyContacts").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *Gorm) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := g.db.Preload("EmergencyContacts").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *Gorm) Users() ([]models.User, error) {
	var users []models.User
	if err := g.db.Preload("EmergencyContacts").Order("id").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (g *Gorm) UpdateUser(user *models.User) error {
	// Список контактов заменяется целиком, иначе убранные записи останутся
	if user.EmergencyContacts != nil {
		if err := g.db.Model(user).Association("EmergencyContacts").Replace(&user.EmergencyContacts); err != nil {
			return translate(err)
		}
	}
	return translate(g.db.Save(user).Error)
}

func (g *Gorm) CreateRide(ride *models.Ride) error {
	return translate(g.db.Create(ride).Error)
}

func (g *Gorm) RideByID(id uint) (*models.Ride, error) {
	var ride models.Ride
	err := g.db.
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp") }).
		Preload("Rider").
		Preload("Driver").
		First(&ride, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ride, nil
}

func (g *Gorm) UpdateRide(ride *models.Ride) error {
	// FullSaveAssociations, чтобы новые записи истории (с нулевым ID)
	// создавались вместе с сохранением поездки
	return translate(g.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(ride).Error)
}

func (g *Gorm) SaveTransition(ride *models.Ride, from models.RideStatus) error {
	tx := g.db.Begin()
	if tx.Error != nil {
		return translate(tx.Error)
	}

	// Блокируем строку, чтобы параллельный переход не потерялся
	var current models.Ride
	if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&current, ride.ID).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}
	if current.Status != from {
		tx.Rollback()
		return ErrStaleRide
	}

	if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(ride).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}
	return translate(tx.Commit().Error)
}

func (g *Gorm) PendingRides() ([]models.Ride, error) {
	var rides []models.Ride
	err := g.db.
		Where("status = ?", models.RideStatusRequested).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp") }).
		Preload("Rider").
		Order("created_at ASC").
		Find(&rides).Error
	if err != nil {
		return nil, translate(err)
	}
	return rides, nil
}

func (g *Gorm) ActiveRidesFor(userID uint) ([]models.Ride, error) {
	statuses := make([]string, 0, len(lifecycle.ActiveStatuses))
	for _, s := range lifecycle.ActiveStatuses {
		statuses = append(statuses, string(s))
	}

	var rides []models.Ride
	err := g.db.
		Where("(rider_id = ? OR driver_id = ?) AND status IN (?)", userID, userID, statuses).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp") }).
		Preload("Rider").
		Preload("Driver").
		Order("created_at ASC").
		Find(&rides).Error
	if err != nil {
		return nil, translate(err)
	}
	return rides, nil
}

func (g *Gorm) RidesFor(userID uint, q RideQuery) ([]models.Ride, error) {
	query := g.db.Where("rider_id = ? OR driver_id = ?", userID, userID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.MinFare > 0 {
		query = query.Where("fare >= ?", q.MinFare)
	}
	if q.MaxFare > 0 {
		query = query.Where("fare <= ?", q.MaxFare)
	}
	if q.StartDate != nil {
		query = query.Where("created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("created_at <= ?", *q.EndDate)
	}
	if q.Limit > 0 {
		page := q.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * q.Limit).Limit(q.Limit)
	}

	var rides []models.Ride
	err := query.
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp") }).
		Preload("Rider").
		Preload("Driver").
		Order("created_at DESC").
		Find(&rides).Error
	if err != nil {
		return nil, translate(err)
	}
	return rides, nil
}

func (g *Gorm) RequestedBefore(cutoff time.Time) ([]models.Ride, error) {
	var rides []models.Ride
	err := g.db.
		Where("status = ? AND created_at < ?", models.RideStatusRequested, cutoff).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp") }).
		Find(&rides).Error
	if err != nil {
		return nil, translate(err)
	}
	return rides, nil
}

func (g *Gorm) Earnings(driverID uint) (*models.Earnings, error) {
	earnings := &models.Earnings{}
	row := g.db.Model(&models.Ride{}).
		Select("COALESCE(SUM(fare), 0), COUNT(*)").
		Where("driver_id = ? AND status = ?", driverID, models.RideStatusCompleted).
		Row()
	if err := row.Scan(&earnings.TotalEarnings, &earnings.CompletedRides); err != nil {
		return nil, err
	}
	return earnings, nil
}

func (g *Gorm) RideReport() (*models.RideReport, error) {
	report := &models.RideReport{}
	if err := g.db.Model(&models.Ride{}).Count(&report.TotalRides).Error; err != nil {
		return nil, err
	}
	row := g.db.Model(&models.Ride{}).
		Select("COALESCE(SUM(fare), 0), COUNT(*)").
		Where("status = ?", models.RideStatusCompleted).
		Row()
	if err := row.Scan(&report.TotalRevenue, &report.CompletedRides); err != nil {
		return nil, err
	}
	if err := g.db.Model(&models.Ride{}).
		Where("status = ?", models.RideStatusCancelled).
		Count(&report.CancelledRides).Error; err != nil {
		return nil, err
	}
	return report, nil
}
