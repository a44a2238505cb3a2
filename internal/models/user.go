package models

import (
	"time"
)

type Role string

const (
	RoleRider  Role = "rider"  // Пассажир
	RoleDriver Role = "driver" // Водитель
	RoleAdmin  Role = "admin"  // Администратор
)

// Roles — все известные роли, в порядке объявления
var Roles = []Role{RoleRider, RoleDriver, RoleAdmin}

// Valid проверяет, что роль входит в список известных
func (r Role) Valid() bool {
	switch r {
	case RoleRider, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// EmergencyContact — контакт для экстренных уведомлений (кнопка SOS)
type EmergencyContact struct {
	ID     uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID uint   `json:"-" gorm:"column:user_id;index"`
	Name   string `json:"name" gorm:"column:name;type:varchar(255)"`
	Phone  string `json:"phone" gorm:"column:phone;type:varchar(20)"`
}

type User struct {
	ID                uint               `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	Name              string             `json:"name" gorm:"column:name;not null;type:varchar(255)"`
	Email             string             `json:"email" gorm:"column:email;unique;not null;type:varchar(255)"`
	Password          string             `json:"-" gorm:"column:password;type:text"`
	Role              Role               `json:"role" gorm:"column:role;default:'rider';type:varchar(20)"`
	IsBlocked         bool               `json:"isBlocked" gorm:"column:is_blocked;default:false"`
	IsApproved        bool               `json:"isApproved" gorm:"column:is_approved;default:false"`
	IsAvailable       bool               `json:"isAvailable" gorm:"column:is_available;default:false"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts" gorm:"foreignKey:UserID"`
	CreatedAt         time.Time          `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
	UpdatedAt         time.Time          `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;type:timestamp with time zone"`
}

type UserResponse struct {
	ID                uint               `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Role              Role               `json:"role"`
	IsBlocked         bool               `json:"isBlocked"`
	IsApproved        bool               `json:"isApproved"`
	IsAvailable       bool               `json:"isAvailable"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
	CreatedAt         time.Time          `json:"created_at"`
}

// ToResponse готовит пользователя к выдаче наружу (без пароля)
func (u *User) ToResponse() UserResponse {
	contacts := u.EmergencyContacts
	if contacts == nil {
		contacts = []EmergencyContact{}
	}
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		IsBlocked:         u.IsBlocked,
		IsApproved:        u.IsApproved,
		IsAvailable:       u.IsAvailable,
		EmergencyContacts: contacts,
		CreatedAt:         u.CreatedAt,
	}
}
