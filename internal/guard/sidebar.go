package guard

import (
	"ride-booking/internal/models"
)

// NavItem — один пункт бокового меню
type NavItem struct {
	Title string
	URL   string
}

// NavSection — группа пунктов меню с заголовком
type NavSection struct {
	Title string
	Items []NavItem
}

// Деревья навигации фиксированы по роли и не меняются во время работы
var sidebars = map[models.Role][]NavSection{
	models.RoleRider: {
		{
			Title: "Dashboard",
			Items: []NavItem{
				{Title: "Profile", URL: "/rider/profile"},
			},
		},
		{
			Title: "Ride Management",
			Items: []NavItem{
				{Title: "Ride Request", URL: "/rider/ride-request"},
				{Title: "Ride History", URL: "/rider/ride-history"},
			},
		},
	},
	models.RoleDriver: {
		{
			Title: "Dashboard",
			Items: []NavItem{
				{Title: "Profile", URL: "/driver/profile"},
			},
		},
		{
			Title: "Driver Management",
			Items: []NavItem{
				{Title: "Availability Status", URL: "/driver/availability-status"},
				{Title: "Incoming Request", URL: "/driver/incoming-request"},
				{Title: "Active Rides", URL: "/driver/active-rides"},
				{Title: "Earnings", URL: "/driver/earnings"},
				{Title: "Ride History", URL: "/driver/ride-history"},
			},
		},
	},
	models.RoleAdmin: {
		{
			Title: "Dashboard",
			Items: []NavItem{
				{Title: "Profile", URL: "/admin/profile"},
			},
		},
		{
			Title: "Admin Management",
			Items: []NavItem{
				{Title: "Analytics", URL: "/admin/analytics"},
				{Title: "User Management", URL: "/admin/user-management"},
				{Title: "Ride Oversight", URL: "/admin/ride-oversight"},
			},
		},
	},
}

// SidebarFor возвращает дерево навигации для роли. Функция тотальна
// по всем известным ролям; неизвестная роль дает пустое дерево.
func SidebarFor(role models.Role) []NavSection {
	return sidebars[role]
}
