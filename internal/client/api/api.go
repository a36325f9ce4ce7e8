// Package api реализует HTTP-клиент платформы: типизированные операции
// аккаунта и универсальный GET для запросов каталога. Ответы сервера
// приходят в едином конверте {status, error, data}.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

// Error ошибка API: HTTP-статус и сообщение из конверта ответа.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Session авторизованная сессия: JWT и публичные данные пользователя.
type Session struct {
	Token string             `json:"token"`
	User  models.SessionUser `json:"user"`
}

// Client клиент HTTP API платформы. Токен хранится внутри и
// подставляется в заголовок Authorization всех запросов.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient создает новый экземпляр Client для заданного адреса сервера.
func NewClient(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// SetToken запоминает JWT для последующих запросов.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token возвращает текущий JWT клиента; пустая строка, если входа не было.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ClearToken сбрасывает сохраненный JWT.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// envelope единый конверт ответа сервера.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body, dest any) error {
	const op = "client.api.do"

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error("failed to close response body", sl.Err(err))
		}
	}()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || env.Status != "OK" {
		return &Error{Status: resp.StatusCode, Message: env.Error}
	}

	if dest != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Get выполняет GET-запрос и декодирует поле data конверта в dest.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, endpoint, params, nil, dest)
}

// Login аутентифицирует пользователя и возвращает сессию с JWT.
// Полученный токен сохраняется в клиенте.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/login", nil, map[string]string{
		"username": username,
		"password": password,
	}, &sess)
	if err != nil {
		return nil, err
	}
	c.SetToken(sess.Token)
	return &sess, nil
}

// Register регистрирует нового пользователя. Сервер сразу выполняет
// вход, поэтому ответ содержит сессию; токен сохраняется в клиенте.
func (c *Client) Register(ctx context.Context, email, username, password string) (*Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/register", nil, map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}, &sess)
	if err != nil {
		return nil, err
	}
	c.SetToken(sess.Token)
	return &sess, nil
}

// CurrentUser возвращает данные текущей сессии по сохраненному JWT.
func (c *Client) CurrentUser(ctx context.Context) (*models.SessionUser, error) {
	var data struct {
		User models.SessionUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/user", nil, nil, &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// VerifyEmail подтверждает почту кодом из письма.
func (c *Client) VerifyEmail(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/verify-email", nil, map[string]string{
		"code": code,
	}, nil)
}

// ResendVerification запрашивает повторную отправку кода подтверждения.
func (c *Client) ResendVerification(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/resend-verification", nil, nil, nil)
}

// Logout завершает сессию на сервере и сбрасывает токен клиента.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
	c.ClearToken()
	return err
}
