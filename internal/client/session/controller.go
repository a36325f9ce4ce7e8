package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eduline/course-platform/internal/client/api"
	"github.com/eduline/course-platform/internal/client/querycache"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

// API описывает операции HTTP-клиента, нужные контроллеру сессии.
type API interface {
	Login(ctx context.Context, username, password string) (*api.Session, error)
	Register(ctx context.Context, email, username, password string) (*api.Session, error)
	CurrentUser(ctx context.Context) (*models.SessionUser, error)
	VerifyEmail(ctx context.Context, code string) error
	ResendVerification(ctx context.Context) error
	Logout(ctx context.Context) error
}

// Credentials хранилище запомненной почты для формы входа.
type Credentials interface {
	Save(email string)
	Read() (string, bool)
	Clear()
}

// MutationError единая форма ошибки операций контроллера:
// пользовательское сообщение поверх исходной ошибки.
type MutationError struct {
	Message string
	Err     error
}

func (e *MutationError) Error() string { return e.Message }

func (e *MutationError) Unwrap() error { return e.Err }

// Ключ состояния сессии в кеше запросов.
var sessionKey = querycache.Key{Endpoint: "/user"}

// Controller управляет состоянием сессии. Состояние меняется только
// успешными операциями: неудачная мутация оставляет снимок прежним.
type Controller struct {
	api   API
	cache *querycache.Cache
	store *Store
	creds Credentials
	log   *slog.Logger
}

// NewController создает контроллер сессии. Middleware применяются к
// запросам состояния сессии.
func NewController(apiClient API, creds Credentials, log *slog.Logger, mws ...querycache.Middleware) *Controller {
	cache := querycache.New(querycache.RequesterFunc(
		func(ctx context.Context, _ querycache.Key) (any, error) {
			return apiClient.CurrentUser(ctx)
		}), mws...)

	return &Controller{
		api:   apiClient,
		cache: cache,
		store: NewStore(),
		creds: creds,
		log:   log,
	}
}

// Store возвращает хранилище состояния для чтения и подписок.
func (c *Controller) Store() *Store {
	return c.store
}

// RememberedEmail возвращает почту, запомненную при прошлом входе.
func (c *Controller) RememberedEmail() (string, bool) {
	return c.creds.Read()
}

// Refresh запрашивает состояние сессии у сервера. Ответ 401 означает
// отсутствие сессии и не считается ошибкой.
func (c *Controller) Refresh(ctx context.Context) error {
	const op = "client.session.Refresh"

	c.store.Set(Snapshot{State: StateLoading})

	val, err := c.cache.Fetch(ctx, sessionKey)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			c.store.Set(Snapshot{State: StateUnauthenticated})
			return nil
		}
		c.log.Error("session refresh failed", slog.String("op", op), sl.Err(err))
		c.store.Set(Snapshot{State: StateError, Err: err})
		return err
	}

	user, ok := val.(*models.SessionUser)
	if !ok || user == nil {
		c.store.Set(Snapshot{State: StateUnauthenticated})
		return nil
	}
	c.store.Set(snapshotFor(user))
	return nil
}

// Login выполняет вход. При remember почта сохраняется для следующего
// входа. Сессия записывается в кеш напрямую, без повторного запроса.
func (c *Controller) Login(ctx context.Context, username, password string, remember bool) error {
	sess, err := c.api.Login(ctx, username, password)
	if err != nil {
		return &MutationError{Message: loginMessage(err), Err: err}
	}

	c.applySession(sess, remember)
	return nil
}

// Register регистрирует пользователя; сервер сразу выполняет вход и
// возвращает сессию.
func (c *Controller) Register(ctx context.Context, email, username, password string, remember bool) error {
	sess, err := c.api.Register(ctx, email, username, password)
	if err != nil {
		return &MutationError{Message: "could not register account", Err: err}
	}

	c.applySession(sess, remember)
	return nil
}

// applySession записывает сессию в кеш и хранилище состояния напрямую,
// без повторного запроса к серверу.
func (c *Controller) applySession(sess *api.Session, remember bool) {
	user := sess.User
	c.cache.Put(sessionKey, &user)
	c.store.Set(snapshotFor(&user))

	if remember {
		c.creds.Save(user.Email)
	}
}

// VerifyEmail подтверждает почту и заново запрашивает сессию, чтобы
// состояние пришло с сервера, а не было выведено локально.
func (c *Controller) VerifyEmail(ctx context.Context, code string) error {
	if err := c.api.VerifyEmail(ctx, code); err != nil {
		return &MutationError{Message: verifyMessage(err), Err: err}
	}

	c.cache.Invalidate(sessionKey)
	return c.Refresh(ctx)
}

// ResendVerification запрашивает повторную отправку кода подтверждения.
func (c *Controller) ResendVerification(ctx context.Context) error {
	if err := c.api.ResendVerification(ctx); err != nil {
		return &MutationError{Message: "could not resend verification code", Err: err}
	}
	return nil
}

// Logout завершает сессию. Кеш и запомненная почта очищаются даже
// если серверный выход не удался или сессии не было.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.log.Error("server logout failed", sl.Err(err))
	}

	c.cache.Invalidate(sessionKey)
	c.creds.Clear()
	c.store.Set(Snapshot{State: StateUnauthenticated})
}

func snapshotFor(user *models.SessionUser) Snapshot {
	state := StateUnverified
	if user.IsVerified {
		state = StateVerified
	}
	return Snapshot{State: state, User: user}
}

func loginMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return "invalid username or password"
	}
	return "could not sign in"
}

func verifyMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusConflict:
			return "email is already verified"
		case http.StatusUnprocessableEntity:
			return "verification code is invalid or expired"
		}
	}
	return "could not verify email"
}
