package sos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ride-booking/internal/api"
	"ride-booking/internal/models"
	"ride-booking/internal/session"
)

func watcherFor(t *testing.T, user *models.UserResponse) *Watcher {
	t.Helper()

	client := api.NewClient("http://127.0.0.1:0", time.Second)
	store := session.NewStore(client)
	if user != nil {
		store.SetCredentials(*user, "token")
	}
	return NewWatcher(store, client)
}

func uintPtr(v uint) *uint { return &v }

// TestVisibilityPerParticipant: поездка u1 (пассажир) с водителем u2 в статусе
// in_transit дает видимую кнопку обоим участникам и скрытую третьему
func TestVisibilityPerParticipant(t *testing.T) {
	rides := []models.RideResponse{
		{ID: 7, RiderID: 1, DriverID: uintPtr(2), Status: models.RideStatusInTransit},
	}

	tests := []struct {
		name    string
		userID  uint
		role    models.Role
		visible bool
	}{
		{"пассажир поездки", 1, models.RoleRider, true},
		{"назначенный водитель", 2, models.RoleDriver, true},
		{"посторонний пользователь", 3, models.RoleRider, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := watcherFor(t, &models.UserResponse{ID: tt.userID, Role: tt.role})
			w.recompute(rides)

			assert.Equal(t, tt.visible, w.Visible())
			if tt.visible {
				if assert.NotNil(t, w.ActiveRide()) {
					assert.Equal(t, uint(7), w.ActiveRide().ID)
				}
			} else {
				assert.Nil(t, w.ActiveRide())
			}
		})
	}
}

// TestVisibilityByStatus: кнопка видна только при активных статусах
func TestVisibilityByStatus(t *testing.T) {
	tests := []struct {
		status  models.RideStatus
		visible bool
	}{
		{models.RideStatusRequested, false},
		{models.RideStatusAccepted, true},
		{models.RideStatusPickedUp, true},
		{models.RideStatusInTransit, true},
		{models.RideStatusCompleted, false},
		{models.RideStatusCancelled, false},
		{models.RideStatusRejected, false},
		{models.RideStatusNoDriverFound, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			w := watcherFor(t, &models.UserResponse{ID: 1, Role: models.RoleRider})
			w.recompute([]models.RideResponse{
				{ID: 1, RiderID: 1, Status: tt.status},
			})
			assert.Equal(t, tt.visible, w.Visible())
		})
	}
}

// TestNoSession: без сессии кнопка скрыта независимо от снимка поездок
func TestNoSession(t *testing.T) {
	w := watcherFor(t, nil)
	w.recompute([]models.RideResponse{
		{ID: 1, RiderID: 1, DriverID: uintPtr(2), Status: models.RideStatusAccepted},
	})
	assert.False(t, w.Visible())
	assert.Nil(t, w.ActiveRide())
}

// TestTransitions: видимость переигрывается на каждом тике,
// OnChange срабатывает только на переходах
func TestTransitions(t *testing.T) {
	w := watcherFor(t, &models.UserResponse{ID: 1, Role: models.RoleRider})

	var changes []bool
	w.OnChange(func(visible bool) { changes = append(changes, visible) })

	// requested: скрыта, перехода нет
	w.recompute([]models.RideResponse{{ID: 1, RiderID: 1, Status: models.RideStatusRequested}})
	assert.False(t, w.Visible())
	assert.Empty(t, changes)

	// accepted: Hidden -> Visible
	w.recompute([]models.RideResponse{{ID: 1, RiderID: 1, Status: models.RideStatusAccepted}})
	assert.True(t, w.Visible())
	assert.Equal(t, []bool{true}, changes)

	// in_transit: все еще видна, повторного вызова нет
	w.recompute([]models.RideResponse{{ID: 1, RiderID: 1, Status: models.RideStatusInTransit}})
	assert.Equal(t, []bool{true}, changes)

	// completed: Visible -> Hidden
	w.recompute([]models.RideResponse{{ID: 1, RiderID: 1, Status: models.RideStatusCompleted}})
	assert.False(t, w.Visible())
	assert.Equal(t, []bool{true, false}, changes)
}

// TestEmergencyContacts: контакты берутся из текущей сессии
func TestEmergencyContacts(t *testing.T) {
	w := watcherFor(t, &models.UserResponse{
		ID:   1,
		Role: models.RoleRider,
		EmergencyContacts: []models.EmergencyContact{
			{Name: "Айгерим", Phone: "+77001234567"},
		},
	})

	contacts := w.EmergencyContacts()
	if assert.Len(t, contacts, 1) {
		assert.Equal(t, "Айгерим", contacts[0].Name)
	}

	assert.Nil(t, watcherFor(t, nil).EmergencyContacts())
}
