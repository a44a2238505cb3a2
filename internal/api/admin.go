package api

import (
	"context"
	"fmt"
	"net/http"

	"ride-booking/internal/models"
)

// Users возвращает список всех пользователей (только для администратора)
func (c *Client) Users(ctx context.Context) ([]models.UserResponse, error) {
	var out []models.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BlockUser блокирует пользователя
func (c *Client) BlockUser(ctx context.Context, id uint) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/block/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnblockUser снимает блокировку с пользователя
func (c *Client) UnblockUser(ctx context.Context, id uint) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/unblock/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveDriver одобряет водителя
func (c *Client) ApproveDriver(ctx context.Context, id uint) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/approve/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SuspendDriver приостанавливает водителя (обратное действие к approve)
func (c *Client) SuspendDriver(ctx context.Context, id uint) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/suspend/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RideReport возвращает сводный отчет по поездкам
func (c *Client) RideReport(ctx context.Context) (*models.RideReport, error) {
	var out models.RideReport
	if err := c.do(ctx, http.MethodGet, "/admin/reports/rides", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
