// Package session — единственная изменяемая ячейка состояния сессии.
// Писатели: начальная загрузка (Bootstrap), вход (SetCredentials),
// выход и сигнал блокировки аккаунта (Clear). Все остальные компоненты
// только читают.
package session

import (
	"context"
	"log"
	"sync"

	"ride-booking/internal/api"
	"ride-booking/internal/models"
	"ride-booking/internal/utils"
)

type Store struct {
	client *api.Client

	mu    sync.RWMutex
	user  *models.UserResponse
	token string

	bootstrapOnce sync.Once
	ready         chan struct{}
}

// NewStore создает хранилище сессии и подписывает его на сигнал
// блокировки аккаунта от клиента API
func NewStore(client *api.Client) *Store {
	s := &Store{
		client: client,
		ready:  make(chan struct{}),
	}
	client.OnAccountBlocked(s.Clear)
	return s
}

// Bootstrap выполняет однократную начальную загрузку сессии: если есть
// сохраненный токен — предварительно восстанавливает личность из его клеймов,
// затем запрашивает /session/me. Канал Ready закрывается в любом случае,
// успешной была загрузка или нет: защитники маршрутов не должны принимать
// решение до его закрытия, иначе авторизованный пользователь при перезагрузке
// страницы на мгновение увидит редирект на вход.
func (s *Store) Bootstrap(ctx context.Context, token string) {
	s.bootstrapOnce.Do(func() {
		defer close(s.ready)

		if token == "" {
			return
		}

		claims, err := utils.ParseClaimsUnverified(token)
		if err != nil {
			// Просроченный или нечитаемый токен не дает сессии
			log.Printf("Сохраненный токен отброшен: %v", err)
			return
		}

		s.client.SetToken(token)
		s.mu.Lock()
		s.token = token
		s.user = &models.UserResponse{ID: claims.UserID, Role: claims.Role}
		s.mu.Unlock()

		me, err := s.client.Me(ctx)
		if err != nil {
			log.Printf("Ошибка загрузки сессии: %v", err)
			if api.IsAccountBlocked(err) {
				return // Clear уже вызван хуком клиента
			}
			// Сервер не подтвердил сессию — сбрасываем предварительную личность
			s.Clear()
			return
		}

		s.mu.Lock()
		s.user = me
		s.mu.Unlock()
	})
}

// Ready возвращает канал, закрываемый по завершении начальной загрузки
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Current возвращает копию текущего пользователя или nil
func (s *Store) Current() *models.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Token возвращает текущий bearer-токен
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetCredentials записывает результат входа
func (s *Store) SetCredentials(user models.UserResponse, token string) {
	s.client.SetToken(token)
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
}

// Refresh перечитывает /session/me и обновляет снимок пользователя
func (s *Store) Refresh(ctx context.Context) error {
	me, err := s.client.Me(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = me
	s.mu.Unlock()
	return nil
}

// Clear сбрасывает сессию: выход или блокировка аккаунта
func (s *Store) Clear() {
	s.client.SetToken("")
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// Logout завершает сессию на сервере и очищает хранилище
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		log.Printf("Ошибка выхода: %v", err)
	}
	s.Clear()
}
