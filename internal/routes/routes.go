package routes

import (
	"github.com/gin-gonic/gin"

	"ride-booking/internal/handlers"
	"ride-booking/internal/middleware"
	"ride-booking/internal/models"
	"ride-booking/internal/services/cache"
	"ride-booking/internal/store"
)

func SetupRoutes(api *gin.RouterGroup, s store.Store, reports *cache.Service) {
	// Публичные маршруты для аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(s))
		auth.POST("/login", handlers.Login(s))
		auth.POST("/logout", handlers.Logout())
	}

	// Защищенные маршруты (требуют аутентификации)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(s))
	{
		// Текущая сессия
		protected.GET("/session/me", handlers.Me(s))
		protected.PATCH("/auth/change-password", handlers.ChangePassword(s))

		// Профиль (имя, контакты для SOS)
		protected.PATCH("/users/:id", handlers.UserUpdateProfile(s))

		// Роуты для поездок
		rides := protected.Group("/rides")
		{
			rides.POST("/request", middleware.RequireRole(models.RoleRider), handlers.RideRequest(s))
			rides.GET("/pending", middleware.RequireRole(models.RoleDriver), handlers.RidePending(s))
			rides.GET("/active", handlers.RideActive(s))
			rides.GET("/my", handlers.RideMy(s))
			rides.GET("/:id", handlers.RideByID(s))
			rides.PATCH("/accept/:id", middleware.RequireRole(models.RoleDriver), handlers.RideAccept(s))
			rides.PATCH("/reject/:id", middleware.RequireRole(models.RoleDriver), handlers.RideReject(s))
			rides.PATCH("/cancel/:id", middleware.RequireRole(models.RoleRider, models.RoleAdmin), handlers.RideCancel(s))
			rides.PATCH("/status/:id", middleware.RequireRole(models.RoleDriver), handlers.RideStatusUpdate(s, reports))
		}

		// Роуты для водителей
		drivers := protected.Group("/drivers")
		drivers.Use(middleware.RequireRole(models.RoleDriver))
		{
			drivers.PATCH("/availability", handlers.DriverAvailability(s))
			drivers.GET("/earnings", handlers.DriverEarnings(s, reports))
		}

		// Административные роуты
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", handlers.AdminUsers(s))
			admin.PATCH("/users/block/:id", handlers.AdminBlockUser(s))
			admin.PATCH("/users/unblock/:id", handlers.AdminUnblockUser(s))
			admin.PATCH("/users/approve/:id", handlers.AdminApproveDriver(s))
			admin.PATCH("/users/suspend/:id", handlers.AdminSuspendDriver(s))
			admin.GET("/admin/reports/rides", handlers.AdminRideReport(s, reports))
		}
	}
}
