package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ride-booking/internal/models"
)

type RideRequest struct {
	PickupLocation  models.Location `json:"pickupLocation"`
	DropOffLocation models.Location `json:"dropOffLocation"`
	Fare            float64         `json:"fare"`
}

// RideFilter — фильтры истории поездок (/rides/my)
type RideFilter struct {
	Page      int
	Limit     int
	Status    models.RideStatus
	MinFare   float64
	MaxFare   float64
	StartDate string
	EndDate   string
}

func (f RideFilter) values() url.Values {
	params := url.Values{}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.MinFare > 0 {
		params.Set("minFare", strconv.FormatFloat(f.MinFare, 'f', -1, 64))
	}
	if f.MaxFare > 0 {
		params.Set("maxFare", strconv.FormatFloat(f.MaxFare, 'f', -1, 64))
	}
	if f.StartDate != "" {
		params.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		params.Set("endDate", f.EndDate)
	}
	return params
}

// RequestRide создает новый запрос на поездку от имени пассажира
func (c *Client) RequestRide(ctx context.Context, req RideRequest) (*models.RideResponse, error) {
	var out models.RideResponse
	if err := c.do(ctx, http.MethodPost, "/rides/request", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyRides возвращает историю поездок текущего пользователя с фильтрами
func (c *Client) MyRides(ctx context.Context, filter RideFilter) ([]models.RideResponse, error) {
	var out []models.RideResponse
	if err := c.do(ctx, http.MethodGet, "/rides/my", filter.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ride возвращает одну поездку по идентификатору
func (c *Client) Ride(ctx context.Context, id uint) (*models.RideResponse, error) {
	var out models.RideResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rides/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingRides возвращает запросы, ожидающие водителя
func (c *Client) PendingRides(ctx context.Context) ([]models.RideResponse, error) {
	var out []models.RideResponse
	if err := c.do(ctx, http.MethodGet, "/rides/pending", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveRides возвращает активные поездки текущего пользователя
func (c *Client) ActiveRides(ctx context.Context) ([]models.RideResponse, error) {
	var out []models.RideResponse
	if err := c.do(ctx, http.MethodGet, "/rides/active", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptRide принимает запрос на поездку от имени водителя
func (c *Client) AcceptRide(ctx context.Context, id uint) (*models.RideResponse, error) {
	var out models.RideResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/rides/accept/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectRide отклоняет запрос на поездку
func (c *Client) RejectRide(ctx context.Context, id uint) (*models.RideResponse, error) {
	var out models.RideResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/rides/reject/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelRide отменяет поездку от имени пассажира
func (c *Client) CancelRide(ctx context.Context, id uint) (*models.RideResponse, error) {
	var out models.RideResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/rides/cancel/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRideStatus переводит поездку в следующий статус
func (c *Client) UpdateRideStatus(ctx context.Context, id uint, status models.RideStatus) (*models.RideResponse, error) {
	var out models.RideResponse
	body := map[string]models.RideStatus{"status": status}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/rides/status/%d", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAvailability переключает доступность водителя
func (c *Client) SetAvailability(ctx context.Context, isAvailable bool) error {
	body := map[string]bool{"isAvailable": isAvailable}
	return c.do(ctx, http.MethodPatch, "/drivers/availability", nil, body, nil)
}

// Earnings возвращает доход водителя
func (c *Client) Earnings(ctx context.Context) (*models.Earnings, error) {
	var out models.Earnings
	if err := c.do(ctx, http.MethodGet, "/drivers/earnings", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
