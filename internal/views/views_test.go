package views_test

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ride-booking/internal/api"
	"ride-booking/internal/models"
	"ride-booking/internal/routes"
	"ride-booking/internal/services/cache"
	"ride-booking/internal/session"
	"ride-booking/internal/sos"
	"ride-booking/internal/store"
	"ride-booking/internal/utils"
	"ride-booking/internal/views"
)

const (
	pollInterval = 30 * time.Millisecond
	waitDeadline = 3 * time.Second
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

// startServer поднимает полный сервер API и возвращает базовый URL
func startServer(t *testing.T) string {
	t.Helper()

	router := gin.New()
	routes.SetupRoutes(router.Group("/api"), store.NewMemory(), cache.NewService(nil))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// newAccount регистрирует пользователя и возвращает вошедший клиент
func newAccount(t *testing.T, baseURL, email string, role models.Role) (*api.Client, models.UserResponse) {
	t.Helper()
	ctx := context.Background()

	client := api.NewClient(baseURL, 2*time.Second)
	user, err := client.Register(ctx, api.RegisterRequest{
		Name:     "Пользователь " + email,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Регистрация %s: %v", email, err)
	}

	if _, err := client.Login(ctx, email, "password123"); err != nil {
		t.Fatalf("Вход %s: %v", email, err)
	}
	return client, *user
}

// testRoute — маршрут по умолчанию для запросов поездок
func testRoute(fare float64) api.RideRequest {
	return api.RideRequest{
		PickupLocation:  models.Location{Latitude: 43.238949, Longitude: 76.889709},
		DropOffLocation: models.Location{Latitude: 43.25654, Longitude: 76.92848},
		Fare:            fare,
	}
}

// approve одобряет водителя служебным административным токеном
func approve(t *testing.T, baseURL string, driverID uint) {
	t.Helper()

	token, err := utils.GenerateAdminJWT()
	if err != nil {
		t.Fatalf("Ошибка выдачи административного токена: %v", err)
	}
	admin := api.NewClient(baseURL, 2*time.Second)
	admin.SetToken(token)
	if _, err := admin.ApproveDriver(context.Background(), driverID); err != nil {
		t.Fatalf("Одобрение водителя: %v", err)
	}
}

// waitFor опрашивает условие до истечения срока
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(waitDeadline)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Не дождались: %s", what)
}

type silentNotifier struct{}

func (silentNotifier) Success(string) {}
func (silentNotifier) Error(string)   {}

// TestRideFlowThroughViews ведет поездку от запроса до завершения через
// представления пассажира и водителя, проверяя синхронизацию опросом
func TestRideFlowThroughViews(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	riderClient, _ := newAccount(t, baseURL, "rider@example.com", models.RoleRider)
	driverClient, driver := newAccount(t, baseURL, "driver@example.com", models.RoleDriver)
	approve(t, baseURL, driver.ID)

	history := views.NewRiderHistory(riderClient, silentNotifier{})
	history.Start(ctx, pollInterval)
	defer history.Close()

	incoming := views.NewDriverIncoming(driverClient, silentNotifier{})
	incoming.Start(ctx, pollInterval)
	defer incoming.Close()

	// Пассажир запрашивает поездку
	ride, err := history.Request(ctx, testRoute(1500))
	if err != nil {
		t.Fatalf("Запрос поездки: %v", err)
	}

	// Запрос доезжает до экрана водителя опросом
	waitFor(t, "запрос в списке входящих", func() bool {
		rides := incoming.Rides()
		return len(rides) == 1 && rides[0].ID == ride.ID
	})

	if err := incoming.Accept(ctx, ride.ID); err != nil {
		t.Fatalf("Принятие: %v", err)
	}

	// Принятый запрос уходит из очереди
	waitFor(t, "очередь входящих опустела", func() bool {
		return len(incoming.Rides()) == 0
	})

	active := views.NewDriverActiveRide(driverClient, silentNotifier{}, driver.ID)
	active.Start(ctx, pollInterval)
	defer active.Close()

	waitFor(t, "активная поездка на экране водителя", func() bool {
		current := active.Ride()
		return current != nil && current.Status == models.RideStatusAccepted
	})

	// Водитель ведет поездку до завершения
	steps := []models.RideStatus{
		models.RideStatusPickedUp,
		models.RideStatusInTransit,
		models.RideStatusCompleted,
	}
	for _, next := range steps {
		if err := active.Advance(ctx); err != nil {
			t.Fatalf("Переход в %s: %v", next, err)
		}
		want := next
		if want == models.RideStatusCompleted {
			// Завершенная поездка уходит из активных
			waitFor(t, "активная поездка закрыта", func() bool {
				return active.Ride() == nil
			})
			break
		}
		waitFor(t, "статус "+string(want), func() bool {
			current := active.Ride()
			return current != nil && current.Status == want
		})
	}

	// Завершение доезжает до истории пассажира
	waitFor(t, "завершенная поездка в истории", func() bool {
		for _, r := range history.Rides() {
			if r.ID == ride.ID && r.Status == models.RideStatusCompleted {
				return true
			}
		}
		return false
	})

	// Продвигать больше нечего
	if err := active.Advance(ctx); err == nil {
		t.Error("Продвижение без активной поездки должно вернуть ошибку")
	}
}

// TestRiderCancelThroughView: отмена доступна только до принятия запроса
func TestRiderCancelThroughView(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	riderClient, _ := newAccount(t, baseURL, "rider@example.com", models.RoleRider)

	history := views.NewRiderHistory(riderClient, silentNotifier{})
	history.Start(ctx, pollInterval)
	defer history.Close()

	ride, err := history.Request(ctx, testRoute(900))
	if err != nil {
		t.Fatalf("Запрос поездки: %v", err)
	}

	if !history.CanCancel(ride) {
		t.Error("Отмена должна быть доступна для нового запроса")
	}

	if err := history.Cancel(ctx, ride.ID); err != nil {
		t.Fatalf("Отмена: %v", err)
	}

	waitFor(t, "отмена в истории", func() bool {
		for _, r := range history.Rides() {
			if r.ID == ride.ID && r.Status == models.RideStatusCancelled {
				return true
			}
		}
		return false
	})

	// Повторная отмена отклоняется сервером
	if err := history.Cancel(ctx, ride.ID); !api.IsInvalidTransition(err) {
		t.Errorf("Повторная отмена: %v, ожидался недопустимый переход", err)
	}

	cancelled := models.RideResponse{Status: models.RideStatusCancelled}
	if history.CanCancel(&cancelled) {
		t.Error("Отмена не должна быть доступна для отмененной поездки")
	}
}

// TestSOSLifecycle: экстренная кнопка появляется с принятием поездки
// и исчезает с ее завершением, у обоих участников
func TestSOSLifecycle(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	riderClient, _ := newAccount(t, baseURL, "rider@example.com", models.RoleRider)
	driverClient, driver := newAccount(t, baseURL, "driver@example.com", models.RoleDriver)
	approve(t, baseURL, driver.ID)

	// Сессия и наблюдатель пассажира
	riderStore := session.NewStore(riderClient)
	riderStore.Bootstrap(ctx, riderClient.Token())
	riderSOS := sos.NewWatcher(riderStore, riderClient)
	riderSOS.Start(ctx, pollInterval)
	defer riderSOS.Stop()

	// Сессия и наблюдатель водителя
	driverStore := session.NewStore(driverClient)
	driverStore.Bootstrap(ctx, driverClient.Token())
	driverSOS := sos.NewWatcher(driverStore, driverClient)
	driverSOS.Start(ctx, pollInterval)
	defer driverSOS.Stop()

	ride, err := riderClient.RequestRide(ctx, testRoute(1200))
	if err != nil {
		t.Fatalf("Запрос поездки: %v", err)
	}

	// Запрошенная поездка еще не активна
	time.Sleep(3 * pollInterval)
	if riderSOS.Visible() {
		t.Fatal("Кнопка видна до принятия поездки")
	}

	if _, err := driverClient.AcceptRide(ctx, ride.ID); err != nil {
		t.Fatalf("Принятие: %v", err)
	}
	riderSOS.Refetch()
	driverSOS.Refetch()

	waitFor(t, "кнопка у пассажира", func() bool { return riderSOS.Visible() })
	waitFor(t, "кнопка у водителя", func() bool { return driverSOS.Visible() })

	if got := riderSOS.ActiveRide(); got == nil || got.ID != ride.ID {
		t.Fatalf("Активная поездка наблюдателя: %+v", got)
	}

	// Поездка доводится до завершения
	for _, next := range []models.RideStatus{models.RideStatusPickedUp, models.RideStatusInTransit, models.RideStatusCompleted} {
		if _, err := driverClient.UpdateRideStatus(ctx, ride.ID, next); err != nil {
			t.Fatalf("Переход в %s: %v", next, err)
		}
	}
	riderSOS.Refetch()
	driverSOS.Refetch()

	waitFor(t, "кнопка скрылась у пассажира", func() bool { return !riderSOS.Visible() })
	waitFor(t, "кнопка скрылась у водителя", func() bool { return !driverSOS.Visible() })
}

// TestEmergencyContactsFlow: контакты для экстренных уведомлений сохраняются
// через профиль и после обновления сессии доступны наблюдателю SOS
func TestEmergencyContactsFlow(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	riderClient, rider := newAccount(t, baseURL, "rider@example.com", models.RoleRider)

	riderStore := session.NewStore(riderClient)
	riderStore.Bootstrap(ctx, riderClient.Token())
	watcher := sos.NewWatcher(riderStore, riderClient)

	if got := watcher.EmergencyContacts(); len(got) != 0 {
		t.Fatalf("Контакты до сохранения: %+v", got)
	}

	contacts := []models.EmergencyContact{
		{Name: "Айгерим", Phone: "+77011234567"},
		{Name: "Марат", Phone: "+77029876543"},
	}
	updated, err := riderClient.UpdateProfile(ctx, rider.ID, api.ProfileUpdate{EmergencyContacts: &contacts})
	if err != nil {
		t.Fatalf("Обновление профиля: %v", err)
	}
	if len(updated.EmergencyContacts) != 2 {
		t.Fatalf("Контакты в ответе профиля: %+v", updated.EmergencyContacts)
	}

	// Снимок сессии обновляется явно, опрос здесь не нужен
	if err := riderStore.Refresh(ctx); err != nil {
		t.Fatalf("Обновление сессии: %v", err)
	}

	got := watcher.EmergencyContacts()
	if len(got) != 2 || got[0].Name != "Айгерим" || got[1].Phone != "+77029876543" {
		t.Fatalf("Контакты наблюдателя: %+v", got)
	}
}

// TestMutationsBeforeStart: мутации представления до запуска опроса
// выполняются без подписки, снимок доедет с первым опросом после Start
func TestMutationsBeforeStart(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	riderClient, _ := newAccount(t, baseURL, "rider@example.com", models.RoleRider)

	history := views.NewRiderHistory(riderClient, silentNotifier{})
	defer history.Close()

	history.SetFilter(api.RideFilter{Status: models.RideStatusCompleted})

	ride, err := history.Request(ctx, testRoute(700))
	if err != nil {
		t.Fatalf("Запрос поездки до запуска опроса: %v", err)
	}
	if err := history.Cancel(ctx, ride.ID); err != nil {
		t.Fatalf("Отмена до запуска опроса: %v", err)
	}

	history.SetFilter(api.RideFilter{Status: models.RideStatusCancelled})
	history.Start(ctx, pollInterval)

	waitFor(t, "отмененная поездка в истории", func() bool {
		rides := history.Rides()
		return len(rides) == 1 && rides[0].ID == ride.ID
	})
}
