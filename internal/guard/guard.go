// Package guard решает, можно ли показывать защищенное поддерево
// пользователю с текущей сессией, и собирает навигацию по роли.
package guard

import (
	"context"

	"ride-booking/internal/models"
	"ride-booking/internal/session"
)

type Decision int

const (
	DecisionLoading Decision = iota // Начальная загрузка сессии еще не завершена
	DecisionRender
	DecisionRedirectToLogin
	DecisionRedirectToUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRender:
		return "render"
	case DecisionRedirectToLogin:
		return "redirect_to_login"
	case DecisionRedirectToUnauthorized:
		return "redirect_to_unauthorized"
	}
	return "unknown"
}

// Guard ждет завершения начальной загрузки сессии и затем решает:
// нет пользователя — на вход; роль не из разрешенного набора — на страницу
// «нет доступа»; иначе — показывать. Если контекст истекает раньше,
// чем сессия загрузилась, возвращается DecisionLoading.
func Guard(ctx context.Context, store *session.Store, allowed ...models.Role) Decision {
	select {
	case <-store.Ready():
	case <-ctx.Done():
		return DecisionLoading
	}

	user := store.Current()
	if user == nil {
		return DecisionRedirectToLogin
	}

	for _, role := range allowed {
		if user.Role == role {
			return DecisionRender
		}
	}

	return DecisionRedirectToUnauthorized
}
