package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/eldercare-platform/internal/lib/password"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
	services "github.com/magabrotheeeer/eldercare-platform/internal/services/user"
)

const someUID = "44444444-0000-4000-8000-000000000004"

// Мок для AdminUserRepository
type AdminRepoMock struct {
	mock.Mock
}

func (m *AdminRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *AdminRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *AdminRepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *AdminRepoMock) UpdateUserStatus(ctx context.Context, userUID string, status int) error {
	args := m.Called(ctx, userUID, status)
	return args.Error(0)
}

func (m *AdminRepoMock) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestUserService_Create(t *testing.T) {
	repo := new(AdminRepoMock)
	var saved models.User
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(models.User)
		}).
		Return(someUID, nil)

	svc := services.NewUserService(repo, newNoopLogger())
	uid, err := svc.Create(context.Background(), models.DummyCreateUser{
		Username: "admin2",
		Password: "Passw0rd",
		Role:     models.RoleAdmin,
		Nickname: "второй админ",
	})
	require.NoError(t, err)

	assert.Equal(t, someUID, uid)
	assert.Equal(t, models.RoleAdmin, saved.Role)
	assert.Equal(t, models.UserStatusActive, saved.Status)
	assert.NoError(t, password.CompareHash(saved.PasswordHash, "Passw0rd"))
}

func TestUserService_Create_UsernameTaken(t *testing.T) {
	repo := new(AdminRepoMock)
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).
		Return("", models.ErrUsernameTaken)

	svc := services.NewUserService(repo, newNoopLogger())
	_, err := svc.Create(context.Background(), models.DummyCreateUser{
		Username: "admin",
		Password: "Passw0rd",
		Role:     models.RoleFamily,
		Nickname: "dup",
	})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestUserService_Get(t *testing.T) {
	t.Run("публичная проекция без хэша", func(t *testing.T) {
		repo := new(AdminRepoMock)
		repo.On("GetUser", mock.Anything, someUID).Return(&models.User{
			UID:          someUID,
			Username:     "merchant1",
			PasswordHash: "$2a$10$secret",
			Role:         models.RoleMerchant,
			Status:       models.UserStatusActive,
		}, nil)

		svc := services.NewUserService(repo, newNoopLogger())
		got, err := svc.Get(context.Background(), someUID)
		require.NoError(t, err)
		assert.Equal(t, "merchant1", got.Username)
		assert.Equal(t, models.RoleMerchant, got.Role)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		repo := new(AdminRepoMock)
		repo.On("GetUser", mock.Anything, someUID).Return(nil, models.ErrUserNotFound)

		svc := services.NewUserService(repo, newNoopLogger())
		_, err := svc.Get(context.Background(), someUID)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestUserService_List(t *testing.T) {
	repo := new(AdminRepoMock)
	repo.On("ListUsers", mock.Anything, 20, 0).Return([]*models.User{
		{UID: someUID, Username: "elder1", Role: models.RoleElderly, Status: models.UserStatusActive},
	}, nil)

	svc := services.NewUserService(repo, newNoopLogger())
	got, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "elder1", got[0].Username)
}

func TestUserService_UpdateStatus(t *testing.T) {
	t.Run("успешная блокировка", func(t *testing.T) {
		repo := new(AdminRepoMock)
		repo.On("UpdateUserStatus", mock.Anything, someUID, models.UserStatusDisabled).Return(nil)

		svc := services.NewUserService(repo, newNoopLogger())
		err := svc.UpdateStatus(context.Background(), someUID, models.UserStatusDisabled)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		repo := new(AdminRepoMock)
		repo.On("UpdateUserStatus", mock.Anything, someUID, models.UserStatusDisabled).
			Return(models.ErrUserNotFound)

		svc := services.NewUserService(repo, newNoopLogger())
		err := svc.UpdateStatus(context.Background(), someUID, models.UserStatusDisabled)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	repo := new(AdminRepoMock)
	var savedHash string
	repo.On("UpdatePassword", mock.Anything, someUID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			savedHash = args.String(2)
		}).
		Return(nil)

	svc := services.NewUserService(repo, newNoopLogger())
	plain, err := svc.ResetPassword(context.Background(), someUID)
	require.NoError(t, err)

	assert.Equal(t, "123456", plain)
	assert.NoError(t, password.CompareHash(savedHash, plain),
		"stored hash must match the returned plaintext")
}
