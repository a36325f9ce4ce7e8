// Package session реализует клиентский контроллер сессии: хранилище
// состояния с подписками и операции входа, регистрации, подтверждения
// почты и выхода поверх HTTP API и кеша запросов.
package session

import (
	"sync"

	"github.com/eduline/course-platform/internal/models"
)

// State состояние сессии с точки зрения клиента.
type State string

const (
	// StateUnauthenticated сессии нет.
	StateUnauthenticated State = "unauthenticated"
	// StateUnverified пользователь вошел, но почта не подтверждена.
	StateUnverified State = "unverified"
	// StateVerified пользователь вошел и почта подтверждена.
	StateVerified State = "verified"
	// StateLoading идет запрос состояния сессии.
	StateLoading State = "loading"
	// StateError запрос состояния завершился ошибкой.
	StateError State = "error"
)

// Snapshot снимок состояния сессии.
type Snapshot struct {
	State State
	User  *models.SessionUser
	Err   error
}

// Store хранит текущий снимок сессии и уведомляет подписчиков о сменах.
type Store struct {
	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int
}

// NewStore создает Store в состоянии unauthenticated.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{State: StateUnauthenticated},
		subs: make(map[int]func(Snapshot)),
	}
}

// Get возвращает текущий снимок.
func (s *Store) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Set записывает снимок и уведомляет подписчиков.
func (s *Store) Set(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
