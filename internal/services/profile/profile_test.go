package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/eldercare-platform/internal/models"
	services "github.com/magabrotheeeer/eldercare-platform/internal/services/profile"
)

const elderUID = "11111111-0000-4000-8000-000000000001"

// Мок для ProfileRepository
type ProfileRepoMock struct {
	mock.Mock
}

func (m *ProfileRepoMock) UpsertProfile(ctx context.Context, profile models.ElderlyProfile) (*models.ElderlyProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ElderlyProfile), args.Error(1)
}

func (m *ProfileRepoMock) GetProfileByUserUID(ctx context.Context, userUID string) (*models.ElderlyProfile, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ElderlyProfile), args.Error(1)
}

// Мок для UserReader
type UserReaderMock struct {
	mock.Mock
}

func (m *UserReaderMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestProfileService_Upsert(t *testing.T) {
	age := 78
	req := models.DummyElderlyProfile{
		Age:              &age,
		Address:          "ул. Мира, 5",
		EmergencyContact: "Анна",
		EmergencyPhone:   "+70001234567",
	}

	t.Run("успешное сохранение анкеты", func(t *testing.T) {
		users := new(UserReaderMock)
		users.On("GetUser", mock.Anything, elderUID).
			Return(&models.User{UID: elderUID, Role: models.RoleElderly, Status: models.UserStatusActive}, nil)

		profiles := new(ProfileRepoMock)
		var saved models.ElderlyProfile
		profiles.On("UpsertProfile", mock.Anything, mock.AnythingOfType("models.ElderlyProfile")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.ElderlyProfile)
			}).
			Return(&models.ElderlyProfile{ID: 1, UserUID: elderUID, Age: &age}, nil)

		svc := services.NewProfileService(profiles, users, newNoopLogger())
		got, err := svc.Upsert(context.Background(), elderUID, req)
		require.NoError(t, err)

		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, elderUID, saved.UserUID)
		require.NotNil(t, saved.Age)
		assert.Equal(t, 78, *saved.Age)
		require.NotNil(t, saved.Address)
		assert.Equal(t, "ул. Мира, 5", *saved.Address)
	})

	t.Run("анкета только для роли пожилого человека", func(t *testing.T) {
		users := new(UserReaderMock)
		users.On("GetUser", mock.Anything, elderUID).
			Return(&models.User{UID: elderUID, Role: models.RoleMerchant, Status: models.UserStatusActive}, nil)
		profiles := new(ProfileRepoMock)

		svc := services.NewProfileService(profiles, users, newNoopLogger())
		_, err := svc.Upsert(context.Background(), elderUID, req)
		assert.ErrorIs(t, err, models.ErrNotElderlyRole)
		profiles.AssertNotCalled(t, "UpsertProfile", mock.Anything, mock.Anything)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		users := new(UserReaderMock)
		users.On("GetUser", mock.Anything, elderUID).Return(nil, models.ErrUserNotFound)

		svc := services.NewProfileService(new(ProfileRepoMock), users, newNoopLogger())
		_, err := svc.Upsert(context.Background(), elderUID, req)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestProfileService_Get(t *testing.T) {
	t.Run("анкета найдена", func(t *testing.T) {
		profiles := new(ProfileRepoMock)
		profiles.On("GetProfileByUserUID", mock.Anything, elderUID).
			Return(&models.ElderlyProfile{ID: 1, UserUID: elderUID}, nil)

		svc := services.NewProfileService(profiles, new(UserReaderMock), newNoopLogger())
		got, err := svc.Get(context.Background(), elderUID)
		require.NoError(t, err)
		assert.Equal(t, elderUID, got.UserUID)
	})

	t.Run("анкета не найдена", func(t *testing.T) {
		profiles := new(ProfileRepoMock)
		profiles.On("GetProfileByUserUID", mock.Anything, elderUID).
			Return(nil, models.ErrProfileNotFound)

		svc := services.NewProfileService(profiles, new(UserReaderMock), newNoopLogger())
		_, err := svc.Get(context.Background(), elderUID)
		assert.ErrorIs(t, err, models.ErrProfileNotFound)
	})
}
