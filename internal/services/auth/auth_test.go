package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/eldercare-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/password"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
	services "github.com/magabrotheeeer/eldercare-platform/internal/services/auth"

	"io"
	"log/slog"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserHash(ctx context.Context, userUID string) (string, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, userUID string, at time.Time) error {
	args := m.Called(ctx, userUID, at)
	return args.Error(0)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func activeUser(t *testing.T, username, rawPassword string, role int) *models.User {
	t.Helper()
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	return &models.User{
		UID:          "7f0d2c66-0000-4000-8000-000000000001",
		Username:     username,
		PasswordHash: hash,
		Nickname:     "nick",
		Role:         role,
		Status:       models.UserStatusActive,
	}
}

func TestAuthService_ValidateCredentials(t *testing.T) {
	user := activeUser(t, "elder1", "Passw0rd", models.RoleElderly)

	tests := []struct {
		name         string
		username     string
		rawPassword  string
		expectedRole int
		setupMocks   func(r *UserRepoMock)
		wantErr      error
	}{
		{
			name:         "успешный вход",
			username:     "elder1",
			rawPassword:  "Passw0rd",
			expectedRole: 0,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "elder1").Return(user, nil)
			},
		},
		{
			name:         "успешный вход с проверкой роли",
			username:     "elder1",
			rawPassword:  "Passw0rd",
			expectedRole: models.RoleElderly,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "elder1").Return(user, nil)
			},
		},
		{
			name:        "пользователь не найден",
			username:    "ghost",
			rawPassword: "Passw0rd",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, models.ErrUserNotFound)
			},
			wantErr: models.ErrUserNotFound,
		},
		{
			name:        "неверный пароль (мутация одного символа)",
			username:    "elder1",
			rawPassword: "Passw0re",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "elder1").Return(user, nil)
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:         "роль не совпала",
			username:     "elder1",
			rawPassword:  "Passw0rd",
			expectedRole: models.RoleMerchant,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "elder1").Return(user, nil)
			},
			wantErr: models.ErrRoleMismatch,
		},
		{
			name:        "учётная запись отключена",
			username:    "disabled1",
			rawPassword: "Passw0rd",
			setupMocks: func(r *UserRepoMock) {
				disabled := activeUser(t, "disabled1", "Passw0rd", models.RoleFamily)
				disabled.Status = models.UserStatusDisabled
				r.On("GetUserByUsername", mock.Anything, "disabled1").Return(disabled, nil)
			},
			wantErr: models.ErrAccountDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := services.NewAuthService(repo, customjwt.NewMaker("secret", time.Hour), newNoopLogger())

			got, err := svc.ValidateCredentials(context.Background(), tt.username, tt.rawPassword, tt.expectedRole)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, got.Username)
			assert.Empty(t, got.PasswordHash, "hash must be stripped from the result")
		})
	}
}

func TestAuthService_ValidateCredentials_DoesNotMutateRepoUser(t *testing.T) {
	// Репозиторий (или кеш) может отдавать один и тот же объект на каждый
	// вызов: очистка хэша не должна затрагивать его, иначе повторный вход
	// сломается об пустой хэш.
	user := activeUser(t, "elder1", "Passw0rd", models.RoleElderly)
	storedHash := user.PasswordHash

	repo := new(UserRepoMock)
	repo.On("GetUserByUsername", mock.Anything, "elder1").Return(user, nil)
	svc := services.NewAuthService(repo, customjwt.NewMaker("secret", time.Hour), newNoopLogger())

	got, err := svc.ValidateCredentials(context.Background(), "elder1", "Passw0rd", 0)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
	assert.Equal(t, storedHash, user.PasswordHash, "repo object must keep its hash")

	got, err = svc.ValidateCredentials(context.Background(), "elder1", "Passw0rd", models.RoleElderly)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
}

func TestAuthService_ValidateCredentials_CredentialErrorsCollapse(t *testing.T) {
	// Все отказы входа должны попадать в один внешний класс.
	for _, err := range []error{
		models.ErrUserNotFound,
		models.ErrInvalidCredentials,
		models.ErrRoleMismatch,
		models.ErrAccountDisabled,
	} {
		assert.True(t, services.IsCredentialError(err), "%v must be a credential error", err)
	}
	assert.False(t, services.IsCredentialError(errors.New("db down")))
}

func TestAuthService_IssueSession(t *testing.T) {
	user := activeUser(t, "elder1", "Passw0rd", models.RoleElderly)
	user.PasswordHash = ""
	maker := customjwt.NewMaker("secret", time.Hour)

	t.Run("успешный выпуск токена", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("UpdateLastLogin", mock.Anything, user.UID, mock.AnythingOfType("time.Time")).Return(nil)
		svc := services.NewAuthService(repo, maker, newNoopLogger())

		token, pub, err := svc.IssueSession(context.Background(), user)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, user.UID, pub.UID)
		assert.Equal(t, user.Role, pub.Role)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.UID, claims.Subject)
		assert.Equal(t, user.Username, claims.Username)
		assert.Equal(t, user.Role, claims.Role)
		repo.AssertExpectations(t)
	})

	t.Run("сбой обновления last login не блокирует вход", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("UpdateLastLogin", mock.Anything, user.UID, mock.AnythingOfType("time.Time")).
			Return(errors.New("db timeout"))
		svc := services.NewAuthService(repo, maker, newNoopLogger())

		token, _, err := svc.IssueSession(context.Background(), user)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

func TestAuthService_Register(t *testing.T) {
	repo := new(UserRepoMock)
	var saved models.User
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(models.User)
		}).
		Return("new-uid", nil)

	svc := services.NewAuthService(repo, customjwt.NewMaker("secret", time.Hour), newNoopLogger())

	uid, err := svc.Register(context.Background(), models.DummyCreateUser{
		Username: "merchant7",
		Password: "Passw0rd",
		Role:     models.RoleMerchant,
		Nickname: "Shop",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-uid", uid)

	assert.Equal(t, models.RoleMerchant, saved.Role)
	assert.Equal(t, models.UserStatusActive, saved.Status)
	assert.NotEqual(t, "Passw0rd", saved.PasswordHash, "password must be stored hashed")
	assert.NoError(t, password.CompareHash(saved.PasswordHash, "Passw0rd"))
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).
		Return("", models.ErrUsernameTaken)

	svc := services.NewAuthService(repo, customjwt.NewMaker("secret", time.Hour), newNoopLogger())

	_, err := svc.Register(context.Background(), models.DummyCreateUser{
		Username: "admin",
		Password: "Passw0rd",
		Role:     models.RoleFamily,
		Nickname: "dup",
	})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	const uid = "7f0d2c66-0000-4000-8000-000000000001"
	oldHash, err := password.GetHash("OldPass1")
	require.NoError(t, err)

	tests := []struct {
		name        string
		oldPassword string
		newPassword string
		setupMocks  func(r *UserRepoMock)
		wantErr     error
	}{
		{
			name:        "успешная смена пароля",
			oldPassword: "OldPass1",
			newPassword: "NewPass1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserHash", mock.Anything, uid).Return(oldHash, nil)
				r.On("UpdatePassword", mock.Anything, uid, mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name:        "пользователь не найден",
			oldPassword: "OldPass1",
			newPassword: "NewPass1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserHash", mock.Anything, uid).Return("", models.ErrUserNotFound)
			},
			wantErr: models.ErrUserNotFound,
		},
		{
			name:        "неверный старый пароль",
			oldPassword: "wrongOld",
			newPassword: "NewPass1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserHash", mock.Anything, uid).Return(oldHash, nil)
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:        "новый пароль совпадает со старым",
			oldPassword: "OldPass1",
			newPassword: "OldPass1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserHash", mock.Anything, uid).Return(oldHash, nil)
			},
			wantErr: models.ErrSamePassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := services.NewAuthService(repo, customjwt.NewMaker("secret", time.Hour), newNoopLogger())

			err := svc.ChangePassword(context.Background(), uid, tt.oldPassword, tt.newPassword)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				// Хэш не должен перезаписываться при отказе.
				repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	maker := customjwt.NewMaker("secret", time.Hour)
	svc := services.NewAuthService(new(UserRepoMock), maker, newNoopLogger())

	token, err := maker.GenerateToken("uid-1", "family2", models.RoleFamily)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, models.RoleFamily, claims.Role)

	_, err = svc.ValidateToken(context.Background(), "broken")
	assert.Error(t, err)
}
