package models

import (
	"encoding/json"
)

// Envelope — общий формат ответа API:
// {statusCode, success, message, data}
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	ErrorCode  string          `json:"error_code,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// RideReport — сводка по поездкам для панели администратора
type RideReport struct {
	TotalRides     int64   `json:"total_rides"`
	CompletedRides int64   `json:"completed_rides"`
	CancelledRides int64   `json:"cancelled_rides"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// Earnings — доход водителя по завершенным поездкам
type Earnings struct {
	TotalEarnings  float64 `json:"total_earnings"`
	CompletedRides int64   `json:"completed_rides"`
}
