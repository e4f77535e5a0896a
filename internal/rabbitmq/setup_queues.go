package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий заказов.
const (
	RoutingKeyOrderCreated   = "order.created"
	RoutingKeyOrderStatus    = "order.status"
	RoutingKeyOrderEvaluated = "order.evaluated"
)

// GetNotificationQueues возвращает очереди уведомлений о заказах:
// новые заказы (для поставщика), смена статуса (для пожилого человека
// и поставщика) и новые отзывы.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.order-created", RoutingKey: RoutingKeyOrderCreated},
		{QueueName: "notification.order-status", RoutingKey: RoutingKeyOrderStatus},
		{QueueName: "notification.order-evaluated", RoutingKey: RoutingKeyOrderEvaluated},
	}
}
