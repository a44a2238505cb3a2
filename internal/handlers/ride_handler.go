package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ride-booking/internal/api"
	"ride-booking/internal/lifecycle"
	"ride-booking/internal/middleware"
	"ride-booking/internal/models"
	"ride-booking/internal/services/cache"
	"ride-booking/internal/store"
)

func rideID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "", "Неверный идентификатор поездки")
		return 0, false
	}
	return uint(id), true
}

// transition загружает поездку, проверяет допустимость перехода через
// таблицу жизненного цикла и сохраняет результат. Недопустимый переход
// отклоняется без какого-либо изменения состояния.
func transition(c *gin.Context, s store.Store, id uint, next models.RideStatus, actor lifecycle.Actor) (*models.Ride, bool) {
	ride, err := s.RideByID(id)
	if err != nil {
		if err == store.ErrNotFound {
			respondError(c, http.StatusNotFound, "", "Поездка не найдена")
		} else {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при получении поездки")
		}
		return nil, false
	}

	allowed := lifecycle.CanTransition(ride, next, actor)
	middleware.TrackRideTransition(string(ride.Status), string(next), allowed)
	if !allowed {
		respondError(c, http.StatusConflict, api.CodeInvalidTransition,
			"Недопустимый переход статуса: "+string(ride.Status)+" → "+string(next))
		return nil, false
	}

	updated, err := lifecycle.Apply(ride, next)
	if err != nil {
		respondError(c, http.StatusConflict, api.CodeInvalidTransition, err.Error())
		return nil, false
	}

	// Сохранение условное: если статус успел измениться параллельным
	// запросом, переход отклоняется вместо того, чтобы затереть чужой
	if err := s.SaveTransition(updated, ride.Status); err != nil {
		if err == store.ErrStaleRide {
			respondError(c, http.StatusConflict, api.CodeInvalidTransition,
				"Поездка уже изменена, обновите данные")
		} else {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при сохранении поездки")
		}
		return nil, false
	}

	return updated, true
}

// RideRequest создает новый запрос на поездку от имени пассажира
func RideRequest(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PickupLocation  models.Location `json:"pickupLocation" binding:"required"`
			DropOffLocation models.Location `json:"dropOffLocation" binding:"required"`
			Fare            float64         `json:"fare"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный формат запроса: "+err.Error())
			return
		}

		ride := models.Ride{
			RideNumber:      uuid.NewString(),
			RiderID:         currentUserID(c),
			PickupLocation:  req.PickupLocation,
			DropOffLocation: req.DropOffLocation,
			Fare:            req.Fare,
			Status:          models.RideStatusRequested,
			StatusHistory:   lifecycle.NewHistory(0),
		}

		if err := s.CreateRide(&ride); err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при создании поездки")
			return
		}

		respond(c, http.StatusCreated, "Поездка запрошена", ride.ToResponse())
	}
}

// RidePending возвращает запросы, ожидающие водителя
func RidePending(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rides, err := s.PendingRides()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при получении запросов")
			return
		}
		respond(c, http.StatusOK, "Ожидающие запросы", ridesToResponse(rides))
	}
}

// RideActive возвращает активные поездки текущего пользователя
func RideActive(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rides, err := s.ActiveRidesFor(currentUserID(c))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при получении поездок")
			return
		}
		respond(c, http.StatusOK, "Активные поездки", ridesToResponse(rides))
	}
}

// RideMy возвращает историю поездок пользователя с фильтрами и пагинацией
func RideMy(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := store.RideQuery{}
		if v := c.Query("status"); v != "" {
			q.Status = models.RideStatus(v)
		}
		if v, err := strconv.ParseFloat(c.Query("minFare"), 64); err == nil {
			q.MinFare = v
		}
		if v, err := strconv.ParseFloat(c.Query("maxFare"), 64); err == nil {
			q.MaxFare = v
		}
		if v, err := time.Parse(time.RFC3339, c.Query("startDate")); err == nil {
			q.StartDate = &v
		}
		if v, err := time.Parse(time.RFC3339, c.Query("endDate")); err == nil {
			q.EndDate = &v
		}
		if v, err := strconv.Atoi(c.Query("page")); err == nil {
			q.Page = v
		}
		if v, err := strconv.Atoi(c.Query("limit")); err == nil {
			q.Limit = v
		}

		rides, err := s.RidesFor(currentUserID(c), q)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при получении поездок")
			return
		}
		respond(c, http.StatusOK, "История поездок", ridesToResponse(rides))
	}
}

// RideByID возвращает поездку ее участнику или администратору
func RideByID(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := rideID(c)
		if !ok {
			return
		}

		ride, err := s.RideByID(id)
		if err != nil {
			if err == store.ErrNotFound {
				respondError(c, http.StatusNotFound, "", "Поездка не найдена")
			} else {
				respondError(c, http.StatusInternalServerError, "", "Ошибка при получении поездки")
			}
			return
		}

		if currentRole(c) != models.RoleAdmin && !ride.IsParticipant(currentUserID(c)) {
			respondError(c, http.StatusForbidden, "", "Это не ваша поездка")
			return
		}

		respond(c, http.StatusOK, "Поездка", ride.ToResponse())
	}
}

// RideAccept принимает запрос: водитель назначается на поездку.
// Выбор водителя доверен этому API — им становится автор запроса.
func RideAccept(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := rideID(c)
		if !ok {
			return
		}

		driverID := currentUserID(c)
		driver, err := s.UserByID(driverID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "", "Водитель не найден")
			return
		}
		if !driver.IsApproved {
			respondError(c, http.StatusForbidden, "", "Водитель еще не одобрен администратором")
			return
		}

		actor := lifecycle.Actor{UserID: driverID, Role: models.RoleDriver}
		ride, err := s.RideByID(id)
		if err != nil {
			if err == store.ErrNotFound {
				respondError(c, http.StatusNotFound, "", "Поездка не найдена")
			} else {
				respondError(c, http.StatusInternalServerError, "", "Ошибка при получении поездки")
			}
			return
		}

		allowed := lifecycle.CanTransition(ride, models.RideStatusAccepted, actor)
		middleware.TrackRideTransition(string(ride.Status), string(models.RideStatusAccepted), allowed)
		if !allowed {
			respondError(c, http.StatusConflict, api.CodeInvalidTransition,
				"Недопустимый переход статуса: "+string(ride.Status)+" → accepted")
			return
		}

		updated, err := lifecycle.Apply(ride, models.RideStatusAccepted)
		if err != nil {
			respondError(c, http.StatusConflict, api.CodeInvalidTransition, err.Error())
			return
		}
		updated.DriverID = &driverID

		if err := s.SaveTransition(updated, ride.Status); err != nil {
			if err == store.ErrStaleRide {
				respondError(c, http.StatusConflict, api.CodeInvalidTransition,
					"Поездка уже принята или изменена")
			} else {
				respondError(c, http.StatusInternalServerError, "", "Ошибка при сохранении поездки")
			}
			return
		}

		respond(c, http.StatusOK, "Поездка принята", updated.ToResponse())
	}
}

// RideReject отклоняет запрос без назначения водителя
func RideReject(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := rideID(c)
		if !ok {
			return
		}

		actor := lifecycle.Actor{UserID: currentUserID(c), Role: models.RoleDriver}
		updated, ok := transition(c, s, id, models.RideStatusRejected, actor)
		if !ok {
			return
		}

		respond(c, http.StatusOK, "Поездка отклонена", updated.ToResponse())
	}
}

// RideCancel отменяет поездку. Пассажир может отменить только собственный
// еще не принятый запрос; таблица жизненного цикла — единственный судья.
func RideCancel(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := rideID(c)
		if !ok {
			return
		}

		actor := lifecycle.Actor{UserID: currentUserID(c), Role: currentRole(c)}
		if actor.Role == models.RoleAdmin {
			actor = lifecycle.SystemActor
		}

		updated, ok := transition(c, s, id, models.RideStatusCancelled, actor)
		if !ok {
			return
		}

		respond(c, http.StatusOK, "Поездка отменена", updated.ToResponse())
	}
}

// RideStatusUpdate переводит активную поездку в следующий статус
// (picked_up, in_transit, completed); доступно только назначенному водителю
func RideStatusUpdate(s store.Store, reports *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := rideID(c)
		if !ok {
			return
		}

		var req struct {
			Status models.RideStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный формат запроса")
			return
		}

		actor := lifecycle.Actor{UserID: currentUserID(c), Role: currentRole(c)}
		updated, ok := transition(c, s, id, req.Status, actor)
		if !ok {
			return
		}

		// Завершенная поездка меняет доход водителя и сводный отчет
		if updated.Status == models.RideStatusCompleted && updated.DriverID != nil {
			keys := []string{"reports:rides", earningsKey(*updated.DriverID)}
			if err := reports.Invalidate(c.Request.Context(), keys...); err != nil {
				// Кэш доедет по TTL
				log.Printf("Ошибка инвалидации кэша: %v", err)
			}
		}

		respond(c, http.StatusOK, "Статус обновлен", updated.ToResponse())
	}
}
