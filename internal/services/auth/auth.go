// Package services содержит бизнес-логику аутентификации и авторизации:
// проверку учётных данных, выпуск сессионных токенов, регистрацию
// и смену пароля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/eldercare-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/password"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени, включая хэш пароля.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID без хэша пароля.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetUserHash возвращает хэш пароля по UID (привилегированное чтение).
	GetUserHash(ctx context.Context, userUID string) (string, error)

	// UpdateLastLogin обновляет время последнего входа.
	UpdateLastLogin(ctx context.Context, userUID string, at time.Time) error

	// UpdatePassword сохраняет новый хэш пароля.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
}

// AuthService отвечает за проверку учётных данных, выпуск и проверку JWT,
// регистрацию и смену пароля.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// ValidateCredentials проверяет пару логин/пароль и состояние учётной записи.
// Если expectedRole не ноль, роль пользователя должна с ним совпасть.
// Возвращает пользователя с очищенным полем хэша. Различие между
// ErrUserNotFound, ErrInvalidCredentials, ErrRoleMismatch и
// ErrAccountDisabled предназначено только для логов: наружу обработчик
// отдаёт один и тот же ответ, не позволяющий перебирать имена.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, rawPassword string, expectedRole int) (*models.User, error) {
	const op = "services.auth.ValidateCredentials"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if expectedRole != 0 && user.Role != expectedRole {
		return nil, fmt.Errorf("%s: %w", op, models.ErrRoleMismatch)
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAccountDisabled)
	}

	// Возвращается копия: объект из репозитория может разделяться
	// с другими вызовами, затирать хэш на нём нельзя.
	u := *user
	u.PasswordHash = ""
	return &u, nil
}

// IssueSession выпускает токен сессии для проверенного пользователя
// и возвращает его вместе с публичной проекцией. Обновление времени
// последнего входа не критично для безопасности: при ошибке вход
// не блокируется, ошибка только логируется.
func (s *AuthService) IssueSession(ctx context.Context, user *models.User) (string, models.UserPublic, error) {
	const op = "services.auth.IssueSession"

	if err := s.users.UpdateLastLogin(ctx, user.UID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to update last login", slog.String("user_uid", user.UID), sl.Err(err))
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Username, user.Role)
	if err != nil {
		return "", models.UserPublic{}, fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Public(), nil
}

// Register создаёт нового пользователя с хэшированием пароля.
// Учётная запись сразу активна; занятое имя возвращается как ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, req models.DummyCreateUser) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Nickname:     req.Nickname,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}
	if req.RealName != "" {
		user.RealName = &req.RealName
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// ChangePassword меняет пароль пользователя после проверки старого.
// Хэш читается отдельным привилегированным путём: обычные выборки
// пользователя его не содержат. Ранее выпущенные токены остаются
// действительными до истечения срока.
func (s *AuthService) ChangePassword(ctx context.Context, userUID, oldPassword, newPassword string) error {
	const op = "services.auth.ChangePassword"

	hash, err := s.users.GetUserHash(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(hash, oldPassword); err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if oldPassword == newPassword {
		return fmt.Errorf("%s: %w", op, models.ErrSamePassword)
	}

	newHash, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, userUID, newHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfile возвращает публичную проекцию пользователя по UID.
func (s *AuthService) GetProfile(ctx context.Context, userUID string) (models.UserPublic, error) {
	const op = "services.auth.GetProfile"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return models.UserPublic{}, fmt.Errorf("%s: %w", op, err)
	}
	return user.Public(), nil
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

// IsCredentialError сообщает, относится ли ошибка к классу отказов входа,
// которые наружу схлопываются в один ответ "invalid credentials".
func IsCredentialError(err error) bool {
	return errors.Is(err, models.ErrUserNotFound) ||
		errors.Is(err, models.ErrInvalidCredentials) ||
		errors.Is(err, models.ErrRoleMismatch) ||
		errors.Is(err, models.ErrAccountDisabled)
}
