package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ride-booking/internal/models"
	"ride-booking/internal/services/cache"
	"ride-booking/internal/store"
)

func earningsKey(driverID uint) string {
	return fmt.Sprintf("earnings:%d", driverID)
}

// DriverAvailability переключает доступность водителя
func DriverAvailability(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IsAvailable *bool `json:"isAvailable" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный формат запроса")
			return
		}

		user, err := s.UserByID(currentUserID(c))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "", "Пользователь не найден")
			return
		}

		user.IsAvailable = *req.IsAvailable
		if err := s.UpdateUser(user); err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при сохранении")
			return
		}

		respond(c, http.StatusOK, "Доступность обновлена", user.ToResponse())
	}
}

// DriverEarnings возвращает доход водителя по завершенным поездкам.
// Агрегат кэшируется в Redis на короткий срок.
func DriverEarnings(s store.Store, reports *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := currentUserID(c)
		key := earningsKey(driverID)

		var cached models.Earnings
		if hit, err := reports.Get(c.Request.Context(), key, &cached); err == nil && hit {
			respond(c, http.StatusOK, "Доход водителя", cached)
			return
		}

		earnings, err := s.Earnings(driverID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при расчете дохода")
			return
		}

		_ = reports.Set(c.Request.Context(), key, earnings)
		respond(c, http.StatusOK, "Доход водителя", earnings)
	}
}
