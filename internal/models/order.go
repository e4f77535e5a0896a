package models

import "time"

// Статусы заказа. Заказ всегда создаётся в статусе OrderStatusPending;
// OrderStatusCompleted и OrderStatusCancelled — терминальные.
const (
	OrderStatusPending            = 0 // ожидает принятия
	OrderStatusAccepted           = 1 // принят поставщиком
	OrderStatusInProgress         = 2 // выполняется
	OrderStatusAwaitingEvaluation = 3 // ожидает оценки
	OrderStatusCompleted          = 4 // завершён
	OrderStatusCancelled          = 5 // отменён
)

// OrderStatusTerminal сообщает, является ли статус терминальным.
// Из терминального статуса никакие переходы невозможны.
func OrderStatusTerminal(status int) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// Order представляет заказ услуги пожилым человеком у поставщика.
// Название и цена услуги фиксируются на момент создания заказа,
// чтобы последующие правки услуги не меняли историю.
type Order struct {
	ID                int64     // Первичный ключ
	OrderNo           string    // Бизнес-номер заказа (уникальный)
	ElderlyUID        string    // UID пожилого человека
	MerchantUID       string    // UID поставщика услуги
	ServiceID         int64     // ID услуги
	SnapshotName      string    // Название услуги на момент заказа
	SnapshotPrice     float64   // Цена услуги на момент заказа
	ServiceTime       time.Time // Согласованное время оказания услуги
	Address           string    // Адрес оказания услуги
	Remark            *string   // Примечание (опционально)
	Status            int       // Статус заказа, см. константы OrderStatus*
	Evaluation        *int      // Оценка 1-5 (выставляется не более одного раза)
	EvaluationContent *string   // Текст отзыва
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DummyOrder используется для приёма данных нового заказа из JSON-запроса.
// Статус клиентом не передаётся: он всегда выставляется сервером.
type DummyOrder struct {
	MerchantUID string `json:"merchant_uid" validate:"required,uuid"`       // UID поставщика
	ServiceID   int64  `json:"service_id" validate:"required,gt=0"`         // ID услуги
	ServiceTime string `json:"service_time" validate:"required"`            // Время услуги, RFC3339
	Address     string `json:"address" validate:"required,max=200"`         // Адрес
	Remark      string `json:"remark,omitempty" validate:"omitempty,max=200"` // Примечание
}

// DummyOrderStatus используется для запроса смены статуса заказа.
type DummyOrderStatus struct {
	Status *int `json:"status" validate:"required,min=0,max=5"` // Целевой статус
}

// DummyEvaluation используется для приёма оценки заказа.
type DummyEvaluation struct {
	Evaluation int    `json:"evaluation" validate:"required,min=1,max=5"`       // Оценка 1-5
	Content    string `json:"content,omitempty" validate:"omitempty,max=200"`   // Текст отзыва
}

// OrderFilter описывает параметры выборки заказов.
// Пустые значения означают отсутствие фильтра.
type OrderFilter struct {
	ElderlyUID  string // Фильтр по пожилому человеку
	MerchantUID string // Фильтр по поставщику
	Status      *int   // Фильтр по статусу
	Limit       int
	Offset      int
}
