package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ride-booking/internal/models"
	"ride-booking/internal/store"
)

// UserUpdateProfile обновляет профиль: имя и список контактов для экстренных
// уведомлений (SOS). Пользователь правит только собственный профиль,
// администратор — любой. Отсутствующие в запросе поля не трогаются.
func UserUpdateProfile(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный идентификатор пользователя")
			return
		}
		if currentRole(c) != models.RoleAdmin && currentUserID(c) != uint(id) {
			respondError(c, http.StatusForbidden, "", "Можно изменять только собственный профиль")
			return
		}

		var req struct {
			Name              *string                    `json:"name"`
			EmergencyContacts *[]models.EmergencyContact `json:"emergencyContacts"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "", "Неверный формат запроса: "+err.Error())
			return
		}

		user, err := s.UserByID(uint(id))
		if err != nil {
			if err == store.ErrNotFound {
				respondError(c, http.StatusNotFound, "", "Пользователь не найден")
			} else {
				respondError(c, http.StatusInternalServerError, "", "Ошибка при получении пользователя")
			}
			return
		}

		if req.Name != nil && *req.Name != "" {
			user.Name = *req.Name
		}
		if req.EmergencyContacts != nil {
			// Список заменяется целиком: удаление контакта — это запись
			// списка без него
			contacts := make([]models.EmergencyContact, 0, len(*req.EmergencyContacts))
			for _, contact := range *req.EmergencyContacts {
				contacts = append(contacts, models.EmergencyContact{
					UserID: user.ID,
					Name:   contact.Name,
					Phone:  contact.Phone,
				})
			}
			user.EmergencyContacts = contacts
		}

		if err := s.UpdateUser(user); err != nil {
			respondError(c, http.StatusInternalServerError, "", "Ошибка при сохранении профиля")
			return
		}

		respond(c, http.StatusOK, "Профиль обновлен", user.ToResponse())
	}
}
