package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eduline/course-platform/internal/lib/jwt"
	"github.com/eduline/course-platform/internal/lib/password"
	"github.com/eduline/course-platform/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) SetVerificationCode(ctx context.Context, userUID, code string, expiresAt time.Time) error {
	return m.Called(ctx, userUID, code, expiresAt).Error(0)
}
func (m *UsersMock) MarkUserVerified(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

type JwtMakerMock struct{ mock.Mock }

func (m *JwtMakerMock) GenerateToken(username, role, userUID string) (string, error) {
	args := m.Called(username, role, userUID)
	return args.String(0), args.Error(1)
}
func (m *JwtMakerMock) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	users := new(UsersMock)
	cache := new(CacheMock)
	publisher := new(PublisherMock)

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "student@example.com" &&
			u.Username == "student" &&
			u.Role == "user" &&
			!u.IsVerified &&
			u.PasswordHash != "secret123"
	})).Return("uid-1", nil).Once()
	users.On("SetVerificationCode", mock.Anything, "uid-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	publisher.On("Publish", "verification", mock.MatchedBy(func(msg models.VerificationEmail) bool {
		return msg.Email == "student@example.com" && len(msg.Code) == 6
	})).Return(nil).Once()

	svc := NewAuthService(users, cache, publisher, nil, newNoopLogger())
	uid, err := svc.Register(ctx, "student@example.com", "student", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	users.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	user := &models.User{
		UID:          "uid-1",
		Email:        "student@example.com",
		Username:     "student",
		PasswordHash: hash,
		Role:         "user",
		IsVerified:   false,
	}

	tests := []struct {
		name       string
		setupMocks func(u *UsersMock, c *CacheMock, j *JwtMakerMock)
		username   string
		password   string
		wantErr    error
	}{
		{
			name: "success login returns unverified session",
			setupMocks: func(u *UsersMock, c *CacheMock, j *JwtMakerMock) {
				u.On("GetUserByUsername", mock.Anything, "student").Return(user, nil).Once()
				j.On("GenerateToken", "student", "user", "uid-1").Return("token-abc", nil).Once()
				c.On("Set", "user:uid-1", mock.Anything, time.Hour).Return(nil).Once()
			},
			username: "student",
			password: "secret123",
		},
		{
			name: "wrong password",
			setupMocks: func(u *UsersMock, _ *CacheMock, _ *JwtMakerMock) {
				u.On("GetUserByUsername", mock.Anything, "student").Return(user, nil).Once()
			},
			username: "student",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			setupMocks: func(u *UsersMock, _ *CacheMock, _ *JwtMakerMock) {
				u.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("not found")).Once()
			},
			username: "ghost",
			password: "secret123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			cache := new(CacheMock)
			jwtMaker := new(JwtMakerMock)
			tt.setupMocks(users, cache, jwtMaker)

			svc := NewAuthService(users, cache, new(PublisherMock), jwtMaker, newNoopLogger())
			token, session, err := svc.Login(ctx, tt.username, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token-abc", token)
			assert.Equal(t, "uid-1", session.UID)
			assert.False(t, session.IsVerified)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name       string
		user       *models.User
		code       string
		setupMocks func(u *UsersMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "success",
			user: &models.User{UID: "uid-1", VerificationCode: "123456", VerificationExpiresAt: &future},
			code: "123456",
			setupMocks: func(u *UsersMock, c *CacheMock) {
				u.On("MarkUserVerified", mock.Anything, "uid-1").Return(nil).Once()
				c.On("Invalidate", "user:uid-1").Return(nil).Once()
			},
		},
		{
			name:       "code mismatch",
			user:       &models.User{UID: "uid-1", VerificationCode: "123456", VerificationExpiresAt: &future},
			code:       "654321",
			setupMocks: func(_ *UsersMock, _ *CacheMock) {},
			wantErr:    ErrCodeMismatch,
		},
		{
			name:       "code expired",
			user:       &models.User{UID: "uid-1", VerificationCode: "123456", VerificationExpiresAt: &past},
			code:       "123456",
			setupMocks: func(_ *UsersMock, _ *CacheMock) {},
			wantErr:    ErrCodeExpired,
		},
		{
			name:       "already verified",
			user:       &models.User{UID: "uid-1", IsVerified: true},
			code:       "123456",
			setupMocks: func(_ *UsersMock, _ *CacheMock) {},
			wantErr:    ErrAlreadyVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			cache := new(CacheMock)
			users.On("GetUser", mock.Anything, "uid-1").Return(tt.user, nil).Once()
			tt.setupMocks(users, cache)

			svc := NewAuthService(users, cache, new(PublisherMock), nil, newNoopLogger())
			err := svc.VerifyEmail(ctx, "uid-1", tt.code)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			users.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		users := new(UsersMock)
		cache := new(CacheMock)
		cache.On("Get", "user:uid-1", mock.Anything).Run(func(args mock.Arguments) {
			out := args.Get(1).(*models.SessionUser)
			*out = models.SessionUser{UID: "uid-1", Username: "student", IsVerified: true}
		}).Return(true, nil).Once()

		svc := NewAuthService(users, cache, new(PublisherMock), nil, newNoopLogger())
		session, err := svc.CurrentUser(ctx, "uid-1")
		require.NoError(t, err)
		assert.True(t, session.IsVerified)
		users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads and caches", func(t *testing.T) {
		users := new(UsersMock)
		cache := new(CacheMock)
		cache.On("Get", "user:uid-1", mock.Anything).Return(false, nil).Once()
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Username: "student", IsVerified: true,
		}, nil).Once()
		cache.On("Set", "user:uid-1", mock.Anything, time.Hour).Return(nil).Once()

		svc := NewAuthService(users, cache, new(PublisherMock), nil, newNoopLogger())
		session, err := svc.CurrentUser(ctx, "uid-1")
		require.NoError(t, err)
		assert.Equal(t, "student", session.Username)
		cache.AssertExpectations(t)
	})
}

func TestAuthService_ResendVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("already verified", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{UID: "uid-1", IsVerified: true}, nil).Once()

		svc := NewAuthService(users, new(CacheMock), new(PublisherMock), nil, newNoopLogger())
		err := svc.ResendVerification(ctx, "uid-1")
		require.ErrorIs(t, err, ErrAlreadyVerified)
	})

	t.Run("issues new code", func(t *testing.T) {
		users := new(UsersMock)
		publisher := new(PublisherMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Email: "student@example.com", Username: "student",
		}, nil).Once()
		users.On("SetVerificationCode", mock.Anything, "uid-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()
		publisher.On("Publish", "verification", mock.Anything).Return(nil).Once()

		svc := NewAuthService(users, new(CacheMock), publisher, nil, newNoopLogger())
		err := svc.ResendVerification(ctx, "uid-1")
		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})
}
