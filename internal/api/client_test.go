package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ride-booking/internal/models"
)

func respond(w http.ResponseWriter, status int, success bool, errorCode string, data interface{}) {
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.Envelope{
		StatusCode: status,
		Success:    success,
		ErrorCode:  errorCode,
		Data:       raw,
	})
}

func clientFor(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

// TestErrorClassification: статус и код ошибки конверта превращаются
// в типизированные ошибки
func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		errorCode string
		sentinel  error
	}{
		{"401 без кода", http.StatusUnauthorized, "", ErrAuthenticationRequired},
		{"403 без кода", http.StatusForbidden, "", ErrAuthorizationDenied},
		{"403 с кодом блокировки", http.StatusForbidden, CodeAccountBlocked, ErrAccountBlocked},
		{"409 без кода", http.StatusConflict, "", ErrInvalidTransition},
		{"409 с кодом перехода", http.StatusConflict, CodeInvalidTransition, ErrInvalidTransition},
		{"500 без кода", http.StatusInternalServerError, "", ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, tt.status, false, tt.errorCode, nil)
			})

			_, err := client.Me(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "ожидалась ошибка %v, получена %v", tt.sentinel, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.errorCode, apiErr.Code)
		})
	}
}

// TestBlockedHookFires: признак блокировки в любом ответе дергает хук
func TestBlockedHookFires(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusForbidden, false, CodeAccountBlocked, nil)
	})

	fired := 0
	client.OnAccountBlocked(func() { fired++ })

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsAccountBlocked(err))
	assert.Equal(t, 1, fired)
}

// TestBlockedHookNotFiredOnOtherErrors: хук блокировки не дергается
// на прочих ошибках авторизации
func TestBlockedHookNotFiredOnOtherErrors(t *testing.T) {
	client := clientFor(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusForbidden, false, "", nil)
	})

	fired := 0
	client.OnAccountBlocked(func() { fired++ })

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, fired)
}

// TestNetworkFailure: недоступный сервер дает ErrNetwork
func TestNetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 100*time.Millisecond)

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

// TestLoginStoresToken: успешный вход запоминает токен,
// следующие запросы несут его в заголовке
func TestLoginStoresToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, true, "", LoginResponse{
			Token: "issued-token",
			User:  models.UserResponse{ID: 1, Role: models.RoleRider},
		})
	})
	mux.HandleFunc("/session/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		respond(w, http.StatusOK, true, "", models.UserResponse{ID: 1, Role: models.RoleRider})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, time.Second)

	out, err := client.Login(context.Background(), "rider@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", out.Token)
	assert.Equal(t, "issued-token", client.Token())

	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer issued-token", gotAuth)
}

// TestRideFilterValues: фильтр истории поездок сериализуется
// в параметры запроса
func TestRideFilterValues(t *testing.T) {
	filter := RideFilter{
		Page:      2,
		Limit:     20,
		Status:    models.RideStatusCompleted,
		MinFare:   500,
		MaxFare:   2000,
		StartDate: "2024-05-01T00:00:00Z",
		EndDate:   "2024-05-31T00:00:00Z",
	}

	values := filter.values()
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "20", values.Get("limit"))
	assert.Equal(t, "completed", values.Get("status"))
	assert.Equal(t, "500", values.Get("minFare"))
	assert.Equal(t, "2000", values.Get("maxFare"))
	assert.Equal(t, "2024-05-01T00:00:00Z", values.Get("startDate"))
	assert.Equal(t, "2024-05-31T00:00:00Z", values.Get("endDate"))

	assert.Empty(t, RideFilter{}.values())
}
