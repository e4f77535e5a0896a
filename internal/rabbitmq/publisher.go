package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// OrderEvent — событие изменения заказа, публикуемое в exchange "notifications".
type OrderEvent struct {
	OrderID     int64  `json:"order_id"`
	OrderNo     string `json:"order_no"`
	ElderlyUID  string `json:"elderly_uid"`
	MerchantUID string `json:"merchant_uid"`
	Status      int    `json:"status"`
	Evaluation  *int   `json:"evaluation,omitempty"`
}

// Publisher публикует события заказов через открытый канал AMQP.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создаёт Publisher поверх настроенного канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishOrderEvent отправляет событие заказа с указанным ключом маршрутизации.
func (p *Publisher) PublishOrderEvent(routingKey string, event OrderEvent) error {
	return PublishMessage(p.ch, "notifications", routingKey, event)
}

// PublishMessage публикует сообщение в указанный exchange.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
