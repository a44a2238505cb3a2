package api

import (
	"errors"
	"fmt"
)

// Классы ошибок API. Сетевые ошибки переживаются локально (следующий тик
// опроса или явный refetch), ошибки авторизации и блокировки — нет:
// они принудительно меняют навигацию.
var (
	ErrAuthenticationRequired = errors.New("требуется вход в систему")
	ErrAuthorizationDenied    = errors.New("недостаточно прав")
	ErrAccountBlocked         = errors.New("аккаунт заблокирован")
	ErrInvalidTransition      = errors.New("недопустимое изменение статуса поездки")
	ErrNetwork                = errors.New("сетевая ошибка")
)

// Коды ошибок в ответе сервера (поле error_code)
const (
	CodeAccountBlocked    = "ACCOUNT_BLOCKED"
	CodeInvalidTransition = "INVALID_TRANSITION"
)

// Error — ошибка API с сообщением сервера
type Error struct {
	StatusCode int
	Code       string
	Message    string
	kind       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.kind
}

func IsAccountBlocked(err error) bool {
	return errors.Is(err, ErrAccountBlocked)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
