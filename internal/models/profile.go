package models

import "time"

// Значения пола в анкете.
const (
	GenderMale   = 1
	GenderFemale = 2
)

// ElderlyProfile представляет анкету пожилого человека.
// Анкета привязана один-к-одному к пользователю с ролью RoleElderly.
type ElderlyProfile struct {
	ID               int64   // Первичный ключ
	UserUID          string  // UID пользователя-владельца (уникальный)
	Age              *int    // Возраст
	Gender           *int    // Пол, см. константы Gender*
	Address          *string // Домашний адрес
	EmergencyContact *string // Имя контактного лица на экстренный случай
	EmergencyPhone   *string // Телефон контактного лица
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DummyElderlyProfile используется для приёма данных анкеты из JSON-запроса.
// Все поля опциональны: анкета заполняется постепенно.
type DummyElderlyProfile struct {
	Age              *int   `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Gender           *int   `json:"gender,omitempty" validate:"omitempty,min=1,max=2"`
	Address          string `json:"address,omitempty" validate:"omitempty,max=200"`
	EmergencyContact string `json:"emergency_contact,omitempty" validate:"omitempty,max=50"`
	EmergencyPhone   string `json:"emergency_phone,omitempty" validate:"omitempty,max=20"`
}
