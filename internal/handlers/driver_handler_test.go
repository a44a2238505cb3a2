package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"ride-booking/internal/models"
)

func TestDriverAvailability(t *testing.T) {
	router := newTestServer(t)
	_, driverTok := newApprovedDriver(t, router, "driver@example.com")

	t.Run("Включение доступности", func(t *testing.T) {
		code, resp := doRequest(t, router, http.MethodPatch, "/drivers/availability", driverTok,
			gin.H{"isAvailable": true})
		if code != http.StatusOK {
			t.Fatalf("Код %d: %s", code, resp.Message)
		}
		var user models.UserResponse
		decodeData(t, resp, &user)
		if !user.IsAvailable {
			t.Error("Доступность не включилась")
		}
	})

	t.Run("Выключение доступности", func(t *testing.T) {
		code, resp := doRequest(t, router, http.MethodPatch, "/drivers/availability", driverTok,
			gin.H{"isAvailable": false})
		if code != http.StatusOK {
			t.Fatalf("Код %d", code)
		}
		var user models.UserResponse
		decodeData(t, resp, &user)
		if user.IsAvailable {
			t.Error("Доступность не выключилась")
		}
	})

	t.Run("Тело без флага отклоняется", func(t *testing.T) {
		code, _ := doRequest(t, router, http.MethodPatch, "/drivers/availability", driverTok,
			gin.H{})
		if code != http.StatusBadRequest {
			t.Errorf("Код %d, ожидался 400", code)
		}
	})
}

func TestDriverEarnings(t *testing.T) {
	router := newTestServer(t)
	registerUser(t, router, "Асель", "rider@example.com", models.RoleRider)
	riderTok := loginToken(t, router, "rider@example.com")
	_, driverTok := newApprovedDriver(t, router, "driver@example.com")

	fetchEarnings := func(t *testing.T) models.Earnings {
		t.Helper()
		code, resp := doRequest(t, router, http.MethodGet, "/drivers/earnings", driverTok, nil)
		if code != http.StatusOK {
			t.Fatalf("Доход: код %d: %s", code, resp.Message)
		}
		var out models.Earnings
		decodeData(t, resp, &out)
		return out
	}

	if got := fetchEarnings(t); got.CompletedRides != 0 || got.TotalEarnings != 0 {
		t.Fatalf("Доход до поездок: %+v", got)
	}

	// Две завершенные поездки по 1500
	for i := 0; i < 2; i++ {
		ride := requestRide(t, router, riderTok)
		if code, _ := doRequest(t, router, http.MethodPatch,
			fmt.Sprintf("/rides/accept/%d", ride.ID), driverTok, nil); code != http.StatusOK {
			t.Fatalf("Принятие: код %d", code)
		}
		for _, next := range []models.RideStatus{models.RideStatusPickedUp, models.RideStatusInTransit, models.RideStatusCompleted} {
			if code, _ := patchStatus(t, router, driverTok, ride.ID, next); code != http.StatusOK {
				t.Fatalf("Переход в %s не удался", next)
			}
		}
	}

	// Незавершенная поездка в доход не попадает
	ride := requestRide(t, router, riderTok)
	if code, _ := doRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/rides/accept/%d", ride.ID), driverTok, nil); code != http.StatusOK {
		t.Fatalf("Принятие: код %d", code)
	}

	got := fetchEarnings(t)
	if got.CompletedRides != 2 {
		t.Errorf("Завершенных поездок %d, ожидалось 2", got.CompletedRides)
	}
	if got.TotalEarnings != 3000 {
		t.Errorf("Доход %v, ожидалось 3000", got.TotalEarnings)
	}
}
