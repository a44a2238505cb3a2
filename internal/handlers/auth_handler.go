package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"ride-booking/internal/api"
	"ride-booking/internal/models"
	"ride-booking/internal/store"
	"ride-booking/internal/utils"
)

// Register регистрирует нового пользователя. Водитель создается
// неодобренным: принимать поездки он сможет после approve администратором.
func Register(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string      `json:"name" binding:"required"`
			Email    string      `json:"email" binding:"required,email"`
			Password string      `json:"password" binding:"required,min=6"`
			Role     models.Role `json:"role"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный формат запроса: "+err.Error())
			return
		}

		if req.Role == "" {
			req.Role = models.RoleRider
		}
		if !req.Role.Valid() || req.Role == models.RoleAdmin {
			respondError(c, http.StatusBadRequest, "", "Недопустимая роль")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при обработке пароля")
			return
		}

		user := models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hash),
			Role:     req.Role,
		}

		if err := s.CreateUser(&user); err != nil {
			if err == store.ErrDuplicateEmail {
				respondError(c, http.StatusConflict, "", "Email уже зарегистрирован")
				return
			}
			respondError(c, http.StatusInternalServerError, "", "Ошибка при создании пользователя")
			return
		}

		respond(c, http.StatusCreated, "Пользователь зарегистрирован", user.ToResponse())
	}
}

// Login проверяет пароль и выдает JWT. Заблокированный аккаунт получает
// отказ с признаком ACCOUNT_BLOCKED прямо на входе.
func Login(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный формат запроса")
			return
		}

		user, err := s.UserByEmail(req.Email)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "", "Неверный email или пароль")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			respondError(c, http.StatusUnauthorized, "", "Неверный email или пароль")
			return
		}

		if user.IsBlocked {
			respondError(c, http.StatusForbidden, api.CodeAccountBlocked, "Аккаунт заблокирован")
			return
		}

		token, err := utils.GenerateJWT(user.ID, user.Role)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при выдаче токена")
			return
		}

		respond(c, http.StatusOK, "Вход выполнен", gin.H{
			"token": token,
			"user":  user.ToResponse(),
		})
	}
}

// ChangePassword меняет пароль текущего пользователя после проверки старого
func ChangePassword(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CurrentPassword string `json:"currentPassword" binding:"required"`
			NewPassword     string `json:"newPassword" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный формат запроса: "+err.Error())
			return
		}

		user, err := s.UserByID(currentUserID(c))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "", "Пользователь не найден")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			respondError(c, http.StatusForbidden, "", "Текущий пароль неверен")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при обработке пароля")
			return
		}
		user.Password = string(hash)

		if err := s.UpdateUser(user); err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при сохранении пароля")
			return
		}

		respond(c, http.StatusOK, "Пароль изменен", nil)
	}
}

// Logout завершает сессию. Токены не хранятся на сервере, поэтому
// фактическое забывание токена — обязанность клиента.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, http.StatusOK, "Выход выполнен", nil)
	}
}

// Me возвращает снимок текущего пользователя
func Me(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		if userID == 0 && currentRole(c) == models.RoleAdmin {
			// Служебный административный токен без пользователя
			respond(c, http.StatusOK, "Текущий пользователь", models.UserResponse{Role: models.RoleAdmin, Name: "admin"})
			return
		}

		user, err := s.UserByID(userID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "", "Пользователь не найден")
			return
		}

		respond(c, http.StatusOK, "Текущий пользователь", user.ToResponse())
	}
}
