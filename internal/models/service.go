package models

import "time"

// Типы услуг.
const (
	ServiceTypeDaily    = 1 // бытовые услуги
	ServiceTypeMedicine = 2 // доставка лекарств
	ServiceTypeNursing  = 3 // медицинский уход
)

// Статусы размещения услуги.
const (
	ServiceStatusUnlisted = 0 // снята с публикации
	ServiceStatusListed   = 1 // опубликована
)

// Статусы модерации услуги. Публикация возможна только после одобрения;
// любая правка содержимого возвращает услугу на модерацию.
const (
	AuditStatusPending  = 0
	AuditStatusApproved = 1
	AuditStatusRejected = 2
)

// Service представляет услугу, опубликованную поставщиком.
type Service struct {
	ID          int64   // Первичный ключ
	MerchantUID string  // UID владельца-поставщика
	Name        string  // Название услуги
	Type        int     // Тип услуги, см. константы ServiceType*
	Description string  // Описание
	Price       float64 // Цена
	ImageURL    *string // Ссылка на изображение
	Status      int     // Статус размещения, см. ServiceStatus*
	AuditStatus int     // Статус модерации, см. AuditStatus*
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DummyService используется для приёма данных новой услуги из JSON-запроса.
type DummyService struct {
	Name        string  `json:"name" validate:"required,max=100"`                  // Название
	Type        int     `json:"type" validate:"required,min=1,max=3"`              // Тип услуги
	Description string  `json:"description" validate:"required"`                   // Описание
	Price       float64 `json:"price" validate:"required,gt=0"`                    // Цена
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,max=200"`  // Изображение
}

// DummyServiceStatus используется для запроса публикации или снятия услуги.
type DummyServiceStatus struct {
	Status *int `json:"status" validate:"required,min=0,max=1"` // 0 — снять, 1 — опубликовать
}

// DummyAudit используется для запроса модерации услуги администратором.
type DummyAudit struct {
	AuditStatus *int `json:"audit_status" validate:"required,min=1,max=2"` // 1 — одобрить, 2 — отклонить
}

// ServiceFilter описывает параметры выборки услуг.
type ServiceFilter struct {
	MerchantUID string // Фильтр по поставщику
	Name        string // Поиск по подстроке названия
	Type        *int   // Фильтр по типу
	Status      *int   // Фильтр по статусу размещения
	AuditStatus *int   // Фильтр по статусу модерации
	Limit       int
	Offset      int
}
