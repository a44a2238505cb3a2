package models

import (
	"time"
)

type RideStatus string

const (
	RideStatusRequested     RideStatus = "requested"       // Поездка запрошена пассажиром
	RideStatusAccepted      RideStatus = "accepted"        // Водитель принял запрос
	RideStatusRejected      RideStatus = "rejected"        // Водитель отклонил запрос
	RideStatusPickedUp      RideStatus = "picked_up"       // Пассажир в машине
	RideStatusInTransit     RideStatus = "in_transit"      // Поездка в пути
	RideStatusCompleted     RideStatus = "completed"       // Поездка завершена
	RideStatusCancelled     RideStatus = "cancelled"       // Поездка отменена пассажиром
	RideStatusNoDriverFound RideStatus = "no_driver_found" // Свободный водитель не нашелся
)

// Location — координаты точки посадки или высадки
type Location struct {
	Latitude  float64 `json:"latitude" gorm:"column:latitude"`
	Longitude float64 `json:"longitude" gorm:"column:longitude"`
}

// StatusChange — одна запись истории статусов; история только дописывается
type StatusChange struct {
	ID        uint       `json:"-" gorm:"primaryKey;autoIncrement"`
	RideID    uint       `json:"-" gorm:"column:ride_id;index"`
	Status    RideStatus `json:"status" gorm:"column:status;type:varchar(20)"`
	Timestamp time.Time  `json:"timestamp" gorm:"column:timestamp;type:timestamp with time zone"`
}

type Ride struct {
	ID                 uint           `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	RideNumber         string         `json:"ride_number" gorm:"column:ride_number;unique;type:varchar(64)"`
	RiderID            uint           `json:"rider_id" gorm:"column:rider_id;not null;index"`
	DriverID           *uint          `json:"driver_id,omitempty" gorm:"column:driver_id;index;default:null"`
	PickupLocation     Location       `json:"pickupLocation" gorm:"embedded;embeddedPrefix:pickup_"`
	DropOffLocation    Location       `json:"dropOffLocation" gorm:"embedded;embeddedPrefix:dropoff_"`
	Fare               float64        `json:"fare" gorm:"column:fare;not null"`
	Status             RideStatus     `json:"status" gorm:"column:status;type:varchar(20);default:'requested'"`
	StatusHistory      []StatusChange `json:"statusHistory" gorm:"foreignKey:RideID"`
	CancellationReason string         `json:"cancellation_reason,omitempty" gorm:"column:cancellation_reason;default:''"`
	CreatedAt          time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;type:timestamp with time zone"`
	Rider              User           `json:"-" gorm:"foreignKey:RiderID"`
	Driver             *User          `json:"-" gorm:"foreignKey:DriverID"`
}

type RideResponse struct {
	ID                 uint           `json:"id"`
	RideNumber         string         `json:"ride_number"`
	RiderID            uint           `json:"rider_id"`
	DriverID           *uint          `json:"driver_id,omitempty"`
	PickupLocation     Location       `json:"pickupLocation"`
	DropOffLocation    Location       `json:"dropOffLocation"`
	Fare               float64        `json:"fare"`
	Status             RideStatus     `json:"status"`
	StatusHistory      []StatusChange `json:"statusHistory"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	RiderName          string         `json:"rider_name,omitempty"`
	DriverName         string         `json:"driver_name,omitempty"`
}

// ToResponse формирует ответ API по поездке
func (r *Ride) ToResponse() RideResponse {
	resp := RideResponse{
		ID:                 r.ID,
		RideNumber:         r.RideNumber,
		RiderID:            r.RiderID,
		DriverID:           r.DriverID,
		PickupLocation:     r.PickupLocation,
		DropOffLocation:    r.DropOffLocation,
		Fare:               r.Fare,
		Status:             r.Status,
		StatusHistory:      r.StatusHistory,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		RiderName:          r.Rider.Name,
	}
	if r.Driver != nil {
		resp.DriverName = r.Driver.Name
	}
	return resp
}

// IsParticipant сообщает, является ли пользователь пассажиром
// или назначенным водителем этой поездки
func (r *Ride) IsParticipant(userID uint) bool {
	if r.RiderID == userID {
		return true
	}
	return r.DriverID != nil && *r.DriverID == userID
}
