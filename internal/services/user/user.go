// Package services содержит бизнес-логику административного управления
// пользователями: создание учётных записей, смену статуса, сброс пароля
// и выборку списка.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/eldercare-platform/internal/lib/password"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// Пароль, на который администратор сбрасывает учётную запись.
// Пользователь обязан сменить его через смену пароля.
const defaultResetPassword = "123456"

// AdminUserRepository описывает контракт для административных операций
// над пользователями в базе данных.
type AdminUserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUser возвращает пользователя по UID без хэша пароля.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// ListUsers возвращает страницу пользователей.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)

	// UpdateUserStatus меняет статус учётной записи.
	UpdateUserStatus(ctx context.Context, userUID string, status int) error

	// UpdatePassword сохраняет новый хэш пароля.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
}

// UserService реализует административное управление пользователями.
type UserService struct {
	users AdminUserRepository
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users AdminUserRepository, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Create заводит учётную запись с указанной ролью. В отличие от
// самостоятельной регистрации, здесь допустима любая роль, включая
// администратора.
func (s *UserService) Create(ctx context.Context, req models.DummyCreateUser) (string, error) {
	const op = "services.UserService.Create"

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.users.CreateUser(ctx, models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user created by admin",
		slog.String("user_uid", uid),
		slog.Int("role", req.Role))
	return uid, nil
}

// Get возвращает учётную запись по UID.
func (s *UserService) Get(ctx context.Context, userUID string) (models.UserPublic, error) {
	const op = "services.UserService.Get"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return models.UserPublic{}, fmt.Errorf("%s: %w", op, err)
	}
	return user.Public(), nil
}

// List возвращает страницу учётных записей без хэшей паролей.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.UserPublic, error) {
	const op = "services.UserService.List"

	users, err := s.users.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.UserPublic, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

// UpdateStatus меняет статус учётной записи (активация, блокировка).
func (s *UserService) UpdateStatus(ctx context.Context, userUID string, status int) error {
	const op = "services.UserService.UpdateStatus"

	if err := s.users.UpdateUserStatus(ctx, userUID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user status updated",
		slog.String("user_uid", userUID),
		slog.Int("status", status))
	return nil
}

// ResetPassword сбрасывает пароль учётной записи на стандартный.
// Возвращает новый пароль открытым текстом для передачи пользователю.
func (s *UserService) ResetPassword(ctx context.Context, userUID string) (string, error) {
	const op = "services.UserService.ResetPassword"

	hash, err := password.GetHash(defaultResetPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, userUID, hash); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user password reset", slog.String("user_uid", userUID))
	return defaultResetPassword, nil
}
