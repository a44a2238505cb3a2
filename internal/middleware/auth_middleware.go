package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ride-booking/internal/api"
	"ride-booking/internal/models"
	"ride-booking/internal/store"
	"ride-booking/internal/utils"
)

func abort(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"success":    false,
		"message":    message,
		"error_code": code,
	})
	c.Abort()
}

// JWTAuth проверяет bearer-токен, загружает пользователя и кладет его
// в контекст запроса. Заблокированный аккаунт отклоняется здесь, на любом
// запросе, с признаком ACCOUNT_BLOCKED — клиент по нему сбрасывает сессию.
func JWTAuth(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "", "Отсутствует токен авторизации")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "", "Неверный формат токена")
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "", "Недействительный токен")
			return
		}

		// Служебный административный токен не привязан к пользователю
		if claims.Role == models.RoleAdmin && claims.UserID == 0 {
			c.Set("user_id", uint(0))
			c.Set("role", models.RoleAdmin)
			c.Next()
			return
		}

		user, err := s.UserByID(claims.UserID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "", "Пользователь не найден")
			return
		}

		if user.IsBlocked {
			abort(c, http.StatusForbidden, api.CodeAccountBlocked, "Аккаунт заблокирован")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("role", user.Role)
		c.Set("user", user)
		c.Next()
	}
}

// RequireRole пускает дальше только перечисленные роли
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			abort(c, http.StatusUnauthorized, "", "Требуется вход в систему")
			return
		}

		current, _ := role.(models.Role)
		for _, allowed := range roles {
			if current == allowed {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "", "Недостаточно прав для этого раздела")
	}
}
