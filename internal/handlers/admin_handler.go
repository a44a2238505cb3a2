package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ride-booking/internal/models"
	"ride-booking/internal/services/cache"
	"ride-booking/internal/store"
)

func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "", "Неверный идентификатор пользователя")
		return 0, false
	}
	return uint(id), true
}

// updateUserFlags — общий каркас административных действий над пользователем
func updateUserFlags(s store.Store, message string, mutate func(*models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}

		user, err := s.UserByID(id)
		if err != nil {
			respondError(c, http.StatusNotFound, "", "Пользователь не найден")
			return
		}

		if !mutate(user) {
			respondError(c, http.StatusBadRequest, "", "Действие неприменимо к этому пользователю")
			return
		}

		if err := s.UpdateUser(user); err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при сохранении")
			return
		}

		respond(c, http.StatusOK, message, user.ToResponse())
	}
}

// AdminUsers возвращает список всех пользователей
func AdminUsers(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.Users()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при получении пользователей")
			return
		}

		out := make([]models.UserResponse, 0, len(users))
		for i := range users {
			out = append(out, users[i].ToResponse())
		}
		respond(c, http.StatusOK, "Пользователи", out)
	}
}

// AdminBlockUser блокирует пользователя: с этого момента любой его запрос
// получает признак ACCOUNT_BLOCKED
func AdminBlockUser(s store.Store) gin.HandlerFunc {
	return updateUserFlags(s, "Пользователь заблокирован", func(u *models.User) bool {
		u.IsBlocked = true
		return true
	})
}

// AdminUnblockUser снимает блокировку
func AdminUnblockUser(s store.Store) gin.HandlerFunc {
	return updateUserFlags(s, "Блокировка снята", func(u *models.User) bool {
		u.IsBlocked = false
		return true
	})
}

// AdminApproveDriver одобряет водителя
func AdminApproveDriver(s store.Store) gin.HandlerFunc {
	return updateUserFlags(s, "Водитель одобрен", func(u *models.User) bool {
		if u.Role != models.RoleDriver {
			return false
		}
		u.IsApproved = true
		return true
	})
}

// AdminSuspendDriver приостанавливает водителя (обратное действие к approve)
func AdminSuspendDriver(s store.Store) gin.HandlerFunc {
	return updateUserFlags(s, "Водитель приостановлен", func(u *models.User) bool {
		if u.Role != models.RoleDriver {
			return false
		}
		u.IsApproved = false
		return true
	})
}

// AdminRideReport возвращает сводный отчет по поездкам, с кэшем в Redis
func AdminRideReport(s store.Store, reports *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const key = "reports:rides"

		var cached models.RideReport
		if hit, err := reports.Get(c.Request.Context(), key, &cached); err == nil && hit {
			respond(c, http.StatusOK, "Отчет по поездкам", cached)
			return
		}

		report, err := s.RideReport()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при формировании отчета")
			return
		}

		_ = reports.Set(c.Request.Context(), key, report)
		respond(c, http.StatusOK, "Отчет по поездкам", report)
	}
}
