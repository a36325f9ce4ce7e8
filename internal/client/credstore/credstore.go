// Package credstore хранит запомненную при входе почту пользователя в
// JSON-файле конфигурационного каталога. Хранилище best-effort: любая
// ошибка записи или чтения логируется и проглатывается.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eduline/course-platform/internal/lib/sl"
)

// Запомненная почта живет 30 дней, после чего запись удаляется.
const maxAge = 30 * 24 * time.Hour

// Store файловое хранилище запомненной почты.
type Store struct {
	path string
	log  *slog.Logger
}

type entry struct {
	Email   string    `json:"email"`
	SavedAt time.Time `json:"saved_at"`
}

// New создает Store с файлом в конфигурационном каталоге пользователя.
func New(log *slog.Logger) (*Store, error) {
	const op = "client.credstore.New"

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newStore(filepath.Join(dir, "coursectl", "credentials.json"), log), nil
}

func newStore(path string, log *slog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Save запоминает почту. Ошибки записи логируются и не возвращаются.
func (s *Store) Save(email string) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.log.Error("failed to create credentials dir", sl.Err(err))
		return
	}

	raw, err := json.Marshal(entry{Email: email, SavedAt: time.Now()})
	if err != nil {
		s.log.Error("failed to marshal credentials", sl.Err(err))
		return
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.log.Error("failed to write credentials", sl.Err(err))
	}
}

// Read возвращает запомненную почту. Запись старше 30 дней удаляется,
// и Read сообщает об отсутствии.
func (s *Store) Read() (string, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error("failed to read credentials", sl.Err(err))
		}
		return "", false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.log.Error("failed to unmarshal credentials", sl.Err(err))
		return "", false
	}

	if time.Since(e.SavedAt) > maxAge {
		s.Clear()
		return "", false
	}
	return e.Email, true
}

// Clear удаляет запомненную почту и сохраненный токен. Отсутствие
// файлов не считается ошибкой.
func (s *Store) Clear() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Error("failed to remove credentials", sl.Err(err))
	}
	if err := os.Remove(s.tokenPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Error("failed to remove token", sl.Err(err))
	}
}

// SaveToken сохраняет JWT рядом с файлом почты, чтобы последующие
// запуски клиента продолжали сессию. Ошибки записи логируются.
func (s *Store) SaveToken(token string) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.log.Error("failed to create credentials dir", sl.Err(err))
		return
	}
	if err := os.WriteFile(s.tokenPath(), []byte(token), 0o600); err != nil {
		s.log.Error("failed to write token", sl.Err(err))
	}
}

// ReadToken возвращает сохраненный JWT. Срок жизни токена проверяет
// сервер, здесь он не учитывается.
func (s *Store) ReadToken() (string, bool) {
	raw, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error("failed to read token", sl.Err(err))
		}
		return "", false
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *Store) tokenPath() string {
	return filepath.Join(filepath.Dir(s.path), "token")
}
