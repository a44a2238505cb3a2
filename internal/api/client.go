// Package api — HTTP-клиент удаленного API бронирования поездок.
// Все методы возвращают типизированные ошибки из errors.go; при получении
// признака блокировки аккаунта клиент дергает зарегистрированный хук
// (обычно — очистку сессии и переход на /account-status).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ride-booking/internal/models"
)

// Client — клиент API с bearer-авторизацией
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	token     string
	onBlocked func()
}

// NewClient создает клиент API. baseURL указывается без завершающего слеша,
// например http://localhost:8080/api.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken устанавливает bearer-токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token возвращает текущий bearer-токен (пустая строка — нет сессии)
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnAccountBlocked регистрирует хук, вызываемый при обнаружении
// блокировки аккаунта любым запросом
func (c *Client) OnAccountBlocked(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBlocked = fn
}

func (c *Client) notifyBlocked() {
	c.mu.RLock()
	fn := c.onBlocked
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// do выполняет запрос и раскладывает конверт ответа.
// out может быть nil, если тело data не нужно.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body interface{}, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка сериализации запроса: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("ошибка формирования запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var envelope models.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: не удалось разобрать ответ: %v", ErrNetwork, err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		return c.classify(resp.StatusCode, &envelope)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: не удалось разобрать data: %v", ErrNetwork, err)
		}
	}

	return nil
}

// classify превращает ответ сервера в типизированную ошибку
func (c *Client) classify(status int, envelope *models.Envelope) error {
	apiErr := &Error{
		StatusCode: status,
		Code:       envelope.ErrorCode,
		Message:    envelope.Message,
	}

	switch {
	case envelope.ErrorCode == CodeAccountBlocked:
		apiErr.kind = ErrAccountBlocked
		c.notifyBlocked()
	case envelope.ErrorCode == CodeInvalidTransition:
		apiErr.kind = ErrInvalidTransition
	case status == http.StatusUnauthorized:
		apiErr.kind = ErrAuthenticationRequired
	case status == http.StatusForbidden:
		apiErr.kind = ErrAuthorizationDenied
	case status == http.StatusConflict:
		apiErr.kind = ErrInvalidTransition
	default:
		apiErr.kind = ErrNetwork
	}

	return apiErr
}

// --- Аутентификация и сессия ---

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Login выполняет вход и запоминает полученный токен
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Logout завершает сессию на сервере и сбрасывает токен
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	c.SetToken("")
	return err
}

// Register создает нового пользователя
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me возвращает снимок текущего пользователя
func (c *Client) Me(ctx context.Context) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodGet, "/session/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate — частичное обновление профиля: nil-поля не меняются
type ProfileUpdate struct {
	Name              *string                    `json:"name,omitempty"`
	EmergencyContacts *[]models.EmergencyContact `json:"emergencyContacts,omitempty"`
}

// UpdateProfile обновляет профиль пользователя (имя, контакты для SOS).
// После успешного обновления сессию стоит освежить через Store.Refresh.
func (c *Client) UpdateProfile(ctx context.Context, id uint, req ProfileUpdate) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword меняет пароль текущего пользователя
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPatch, "/auth/change-password", nil,
		ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}
