package views

import (
	"log"
)

// Notifier — неблокирующие уведомления пользователя (аналог тостов).
// Ни одна ошибка не должна пропадать без уведомления.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier пишет уведомления в журнал; используется безголовыми
// потребителями SDK и тестами
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Printf("OK: %s", message)
}

func (LogNotifier) Error(message string) {
	log.Printf("ОШИБКА: %s", message)
}
