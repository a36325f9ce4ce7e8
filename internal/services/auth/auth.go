// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/eduline/course-platform/internal/lib/jwt"
	"github.com/eduline/course-platform/internal/lib/password"
	"github.com/eduline/course-platform/internal/lib/rabbitmq"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

// Срок действия кода подтверждения почты.
const verificationCodeTTL = 24 * time.Hour

// Ошибки уровня бизнес-логики аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrCodeMismatch       = errors.New("verification code mismatch")
	ErrCodeExpired        = errors.New("verification code expired")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// SetVerificationCode сохраняет код подтверждения почты и срок его действия.
	SetVerificationCode(ctx context.Context, userUID, code string, expiresAt time.Time) error

	// MarkUserVerified отмечает почту пользователя подтвержденной.
	MarkUserVerified(ctx context.Context, userUID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Publisher публикует уведомления для воркера отправки писем.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// AuthService отвечает за регистрацию, авторизацию и подтверждение почты.
type AuthService struct {
	users     UserRepository
	cache     Cache
	publisher Publisher
	jwtMaker  jwt.Maker
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, cache Cache, publisher Publisher, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		cache:     cache,
		publisher: publisher,
		jwtMaker:  jwtMaker,
		log:       log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
// Пользователь создается неподтвержденным, код подтверждения уходит в очередь писем.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
		IsVerified:   false,
	}
	userUID, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}

	if err := s.issueVerificationCode(ctx, userUID, email, username); err != nil {
		s.log.Error("failed to issue verification code", sl.Err(err))
	}

	return userUID, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Возвращает токен и публичное представление пользователя, включая флаг
// подтверждения почты.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.SessionUser, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", nil, err
	}
	session := user.SessionView()

	cacheKey := fmt.Sprintf("user:%s", user.UID)
	if err := s.cache.Set(cacheKey, session, time.Hour); err != nil {
		s.log.Warn("failed to cache session user", slog.String("key", cacheKey), sl.Err(err))
	}

	return token, &session, nil
}

// CurrentUser возвращает публичное представление пользователя, используя кеш
// или репозиторий.
func (s *AuthService) CurrentUser(ctx context.Context, userUID string) (*models.SessionUser, error) {
	var cached models.SessionUser
	cacheKey := fmt.Sprintf("user:%s", userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read session user from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	session := user.SessionView()
	if err := s.cache.Set(cacheKey, session, time.Hour); err != nil {
		s.log.Warn("failed to cache session user", slog.String("key", cacheKey), sl.Err(err))
	}
	return &session, nil
}

// VerifyEmail сверяет код подтверждения и отмечает почту подтвержденной.
func (s *AuthService) VerifyEmail(ctx context.Context, userUID, code string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return ErrCodeMismatch
	}
	if user.VerificationExpiresAt == nil || time.Now().After(*user.VerificationExpiresAt) {
		return ErrCodeExpired
	}

	if err := s.users.MarkUserVerified(ctx, userUID); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("user:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate session user", slog.String("key", cacheKey), sl.Err(err))
	}
	s.log.Info("email verified", slog.String("user_uid", userUID))
	return nil
}

// ResendVerification выпускает новый код подтверждения и ставит письмо в очередь.
func (s *AuthService) ResendVerification(ctx context.Context, userUID string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	return s.issueVerificationCode(ctx, userUID, user.Email, user.Username)
}

// Logout инвалидирует кешированную сессию пользователя.
func (s *AuthService) Logout(_ context.Context, userUID string) error {
	cacheKey := fmt.Sprintf("user:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate session user", slog.String("key", cacheKey), sl.Err(err))
	}
	return nil
}

func (s *AuthService) issueVerificationCode(ctx context.Context, userUID, email, username string) error {
	code, err := generateVerificationCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(verificationCodeTTL)
	if err := s.users.SetVerificationCode(ctx, userUID, code, expiresAt); err != nil {
		return err
	}
	msg := models.VerificationEmail{
		Email:    email,
		Username: username,
		Code:     code,
	}
	if err := s.publisher.Publish(rabbitmq.RoutingKeyVerification, msg); err != nil {
		return fmt.Errorf("failed to publish verification email: %w", err)
	}
	return nil
}

// generateVerificationCode возвращает шестизначный числовой код.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
