package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"ride-booking/internal/models"
)

func TestAdminUsers(t *testing.T) {
	router := newTestServer(t)
	registerUser(t, router, "Асель", "rider@example.com", models.RoleRider)
	registerUser(t, router, "Бахыт", "driver@example.com", models.RoleDriver)

	code, resp := doRequest(t, router, http.MethodGet, "/users", adminToken(t), nil)
	if code != http.StatusOK {
		t.Fatalf("Код %d: %s", code, resp.Message)
	}

	var users []models.UserResponse
	decodeData(t, resp, &users)
	if len(users) != 2 {
		t.Fatalf("Пользователей %d, ожидалось 2", len(users))
	}
	for _, user := range users {
		if user.Email == "" {
			t.Errorf("Пользователь без email: %+v", user)
		}
	}
}

func TestAdminDriverApproval(t *testing.T) {
	router := newTestServer(t)
	rider := registerUser(t, router, "Асель", "rider@example.com", models.RoleRider)
	driver := registerUser(t, router, "Бахыт", "driver@example.com", models.RoleDriver)
	admin := adminToken(t)

	t.Run("Одобрение водителя", func(t *testing.T) {
		code, resp := doRequest(t, router, http.MethodPatch, userPath("approve", driver.ID), admin, nil)
		if code != http.StatusOK {
			t.Fatalf("Код %d: %s", code, resp.Message)
		}
		var updated models.UserResponse
		decodeData(t, resp, &updated)
		if !updated.IsApproved {
			t.Error("Водитель не одобрен")
		}
	})

	t.Run("Приостановка водителя", func(t *testing.T) {
		code, resp := doRequest(t, router, http.MethodPatch, userPath("suspend", driver.ID), admin, nil)
		if code != http.StatusOK {
			t.Fatalf("Код %d", code)
		}
		var updated models.UserResponse
		decodeData(t, resp, &updated)
		if updated.IsApproved {
			t.Error("Водитель не приостановлен")
		}
	})

	t.Run("Одобрение пассажира неприменимо", func(t *testing.T) {
		code, _ := doRequest(t, router, http.MethodPatch, userPath("approve", rider.ID), admin, nil)
		if code != http.StatusBadRequest {
			t.Errorf("Код %d, ожидался 400", code)
		}
	})

	t.Run("Неизвестный пользователь", func(t *testing.T) {
		code, _ := doRequest(t, router, http.MethodPatch, userPath("approve", 9999), admin, nil)
		if code != http.StatusNotFound {
			t.Errorf("Код %d, ожидался 404", code)
		}
	})
}

func TestAdminRideReport(t *testing.T) {
	router := newTestServer(t)
	registerUser(t, router, "Асель", "rider@example.com", models.RoleRider)
	riderTok := loginToken(t, router, "rider@example.com")
	_, driverTok := newApprovedDriver(t, router, "driver@example.com")
	admin := adminToken(t)

	// Завершенная поездка
	completed := requestRide(t, router, riderTok)
	if code, _ := doRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/rides/accept/%d", completed.ID), driverTok, nil); code != http.StatusOK {
		t.Fatalf("Принятие: код %d", code)
	}
	for _, next := range []models.RideStatus{models.RideStatusPickedUp, models.RideStatusInTransit, models.RideStatusCompleted} {
		if code, _ := patchStatus(t, router, driverTok, completed.ID, next); code != http.StatusOK {
			t.Fatalf("Переход в %s не удался", next)
		}
	}

	// Отмененная поездка
	cancelled := requestRide(t, router, riderTok)
	if code, _ := doRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/rides/cancel/%d", cancelled.ID), riderTok, nil); code != http.StatusOK {
		t.Fatalf("Отмена не удалась")
	}

	// Висящий запрос
	requestRide(t, router, riderTok)

	code, resp := doRequest(t, router, http.MethodGet, "/admin/reports/rides", admin, nil)
	if code != http.StatusOK {
		t.Fatalf("Отчет: код %d: %s", code, resp.Message)
	}

	var report models.RideReport
	decodeData(t, resp, &report)
	if report.TotalRides != 3 {
		t.Errorf("Всего поездок %d, ожидалось 3", report.TotalRides)
	}
	if report.CompletedRides != 1 {
		t.Errorf("Завершенных %d, ожидалась 1", report.CompletedRides)
	}
	if report.CancelledRides != 1 {
		t.Errorf("Отмененных %d, ожидалась 1", report.CancelledRides)
	}
	if report.TotalRevenue != 1500 {
		t.Errorf("Выручка %v, ожидалось 1500", report.TotalRevenue)
	}
}
