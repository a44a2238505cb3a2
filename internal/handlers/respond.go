package handlers

import (
	"github.com/gin-gonic/gin"

	"ride-booking/internal/models"
)

// respond отправляет успешный ответ в общем конверте
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"success":    true,
		"message":    message,
		"data":       data,
	})
}

// respondError отправляет ошибку в общем конверте; code — машинный
// признак для клиента (ACCOUNT_BLOCKED, INVALID_TRANSITION)
func respondError(c *gin.Context, status int, code, message string) {
	body := gin.H{
		"statusCode": status,
		"success":    false,
		"message":    message,
	}
	if code != "" {
		body["error_code"] = code
	}
	c.JSON(status, body)
}

func currentUserID(c *gin.Context) uint {
	id, _ := c.Get("user_id")
	userID, _ := id.(uint)
	return userID
}

func currentRole(c *gin.Context) models.Role {
	role, _ := c.Get("role")
	r, _ := role.(models.Role)
	return r
}

func ridesToResponse(rides []models.Ride) []models.RideResponse {
	out := make([]models.RideResponse, 0, len(rides))
	for i := range rides {
		out = append(out, rides[i].ToResponse())
	}
	return out
}
