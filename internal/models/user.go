// Package models содержит доменные структуры платформы: пользователей,
// заказы, услуги и анкеты пожилых людей, а также вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей платформы. Роль назначается при создании учётной записи
// и не меняется самим пользователем.
const (
	RoleElderly  = 1 // пожилой человек
	RoleFamily   = 2 // родственник
	RoleMerchant = 3 // поставщик услуг
	RoleAdmin    = 4 // администратор
)

// Статусы учётной записи.
const (
	UserStatusUnactivated = 0
	UserStatusActive      = 1
	UserStatusDisabled    = 2
)

// ValidRole сообщает, входит ли значение в список известных ролей.
func ValidRole(role int) bool {
	return role >= RoleElderly && role <= RoleAdmin
}

// User представляет зарегистрированного пользователя платформы.
// Поле PasswordHash заполняется только в привилегированных выборках
// и никогда не сериализуется наружу.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Username     string     // Имя пользователя (уникальное среди неудалённых)
	PasswordHash string     // bcrypt-хэш пароля
	Nickname     string     // Отображаемое имя
	RealName     *string    // Настоящее имя (опционально)
	Role         int        // Роль пользователя, см. константы Role*
	Status       int        // Статус учётной записи, см. константы UserStatus*
	AvatarURL    *string    // Ссылка на аватар
	LastLoginAt  *time.Time // Время последнего входа
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPublic — публичная проекция пользователя без хэша пароля.
// Используется во всех ответах наружу.
type UserPublic struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	Role      int    `json:"role"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Public возвращает публичную проекцию пользователя.
func (u *User) Public() UserPublic {
	p := UserPublic{
		UID:      u.UID,
		Username: u.Username,
		Role:     u.Role,
		Nickname: u.Nickname,
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	return p
}

// DummyCreateUser используется для приёма данных о новом пользователе
// из JSON-запроса до их валидации.
type DummyCreateUser struct {
	Username string `json:"username" validate:"required,min=4,max=20,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=6,max=16"`          // Пароль
	Role     int    `json:"role" validate:"required,min=1,max=4"`               // Роль
	Nickname string `json:"nickname" validate:"required,max=50"`                // Отображаемое имя
	RealName string `json:"real_name,omitempty" validate:"omitempty,max=50"`    // Настоящее имя (опционально)
}

// DummyUpdateUserStatus используется для смены статуса учётной записи администратором.
type DummyUpdateUserStatus struct {
	Status *int `json:"status" validate:"required,min=0,max=2"` // Новый статус: 0, 1 или 2
}
