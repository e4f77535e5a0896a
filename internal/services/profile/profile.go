// Package services содержит бизнес-логику анкет пожилых людей.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// ProfileRepository описывает контракт для работы с анкетами в базе данных.
type ProfileRepository interface {
	// UpsertProfile создаёт анкету или обновляет существующую по user_uid.
	UpsertProfile(ctx context.Context, profile models.ElderlyProfile) (*models.ElderlyProfile, error)

	// GetProfileByUserUID возвращает анкету пользователя.
	GetProfileByUserUID(ctx context.Context, userUID string) (*models.ElderlyProfile, error)
}

// UserReader проверяет роль владельца перед созданием анкеты.
type UserReader interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ProfileService управляет анкетами пожилых людей.
type ProfileService struct {
	profiles ProfileRepository
	users    UserReader
	log      *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(profiles ProfileRepository, users UserReader, log *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		log:      log,
	}
}

// Upsert создаёт или обновляет анкету пользователя userUID.
// Анкета допустима только для роли RoleElderly.
func (s *ProfileService) Upsert(ctx context.Context, userUID string, req models.DummyElderlyProfile) (*models.ElderlyProfile, error) {
	const op = "services.ProfileService.Upsert"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Role != models.RoleElderly {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotElderlyRole)
	}

	profile := models.ElderlyProfile{
		UserUID: userUID,
		Age:     req.Age,
		Gender:  req.Gender,
	}
	if req.Address != "" {
		profile.Address = &req.Address
	}
	if req.EmergencyContact != "" {
		profile.EmergencyContact = &req.EmergencyContact
	}
	if req.EmergencyPhone != "" {
		profile.EmergencyPhone = &req.EmergencyPhone
	}

	saved, err := s.profiles.UpsertProfile(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("elderly profile saved",
		slog.String("user_uid", userUID),
		slog.Int64("profile_id", saved.ID))
	return saved, nil
}

// Get возвращает анкету пользователя userUID.
func (s *ProfileService) Get(ctx context.Context, userUID string) (*models.ElderlyProfile, error) {
	const op = "services.ProfileService.Get"

	profile, err := s.profiles.GetProfileByUserUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}
