// Package services содержит бизнес-логику жизненного цикла заказов:
// создание со снимком услуги, смену статуса по строгим правилам
// и однократную оценку выполненного заказа.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/eldercare-platform/internal/lib/ordernum"
	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
	"github.com/magabrotheeeer/eldercare-platform/internal/rabbitmq"
)

// Время жизни записи заказа в кеше.
const orderCacheTTL = 5 * time.Minute

// OrderRepository описывает контракт для работы с заказами в базе данных.
type OrderRepository interface {
	// CreateOrder сохраняет новый заказ и возвращает его ID.
	CreateOrder(ctx context.Context, order models.Order) (int64, error)

	// ReadOrder возвращает заказ по ID.
	ReadOrder(ctx context.Context, id int64) (*models.Order, error)

	// ListOrders возвращает заказы по фильтру.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)

	// UpdateOrderStatus меняет статус заказа только если текущий статус
	// равен expectedStatus. Возвращает число изменённых строк.
	UpdateOrderStatus(ctx context.Context, id int64, expectedStatus, newStatus int) (int64, error)

	// SetOrderEvaluation записывает оценку, если она ещё не выставлена.
	// Возвращает число изменённых строк.
	SetOrderEvaluation(ctx context.Context, id int64, evaluation int, content *string) (int64, error)
}

// ServiceReader возвращает карточку услуги для снимка при создании заказа.
type ServiceReader interface {
	ReadService(ctx context.Context, id int64) (*models.Service, error)
}

// EventPublisher публикует события изменения заказов для нотификаций.
type EventPublisher interface {
	PublishOrderEvent(routingKey string, event rabbitmq.OrderEvent) error
}

// OrderCache — кеш горячих чтений заказов.
type OrderCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// OrderService реализует жизненный цикл заказа.
type OrderService struct {
	orders    OrderRepository
	catalog   ServiceReader
	publisher EventPublisher
	cache     OrderCache
	log       *slog.Logger
}

// NewOrderService создает новый экземпляр OrderService.
// publisher и cache могут быть nil: тогда события и кеширование отключены.
func NewOrderService(orders OrderRepository, catalog ServiceReader,
	publisher EventPublisher, cache OrderCache, log *slog.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		cache:     cache,
		log:       log,
	}
}

func orderCacheKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}

// Create создаёт заказ от имени пожилого человека elderlyUID.
// Статус клиента игнорируется: заказ всегда начинается в OrderStatusPending.
// Название и цена услуги копируются из карточки на момент создания.
func (s *OrderService) Create(ctx context.Context, elderlyUID string, req models.DummyOrder) (*models.Order, error) {
	const op = "services.OrderService.Create"

	serviceTime, err := time.Parse(time.RFC3339, req.ServiceTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidServiceTime)
	}

	svc, err := s.catalog.ReadService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Снятые с публикации услуги для заказа не видны, как и чужие:
	// merchant_uid запроса должен совпасть с владельцем карточки.
	if svc.Status != models.ServiceStatusListed || svc.MerchantUID != req.MerchantUID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrServiceNotFound)
	}

	order := models.Order{
		OrderNo:       ordernum.Generate(),
		ElderlyUID:    elderlyUID,
		MerchantUID:   svc.MerchantUID,
		ServiceID:     svc.ID,
		SnapshotName:  svc.Name,
		SnapshotPrice: svc.Price,
		ServiceTime:   serviceTime,
		Address:       req.Address,
		Status:        models.OrderStatusPending,
	}
	if req.Remark != "" {
		order.Remark = &req.Remark
	}

	id, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order.ID = id

	s.publish(rabbitmq.RoutingKeyOrderCreated, &order)

	s.log.Info("order created",
		slog.Int64("order_id", id),
		slog.String("order_no", order.OrderNo),
		slog.String("elderly_uid", elderlyUID))
	return &order, nil
}

// Read возвращает заказ по ID. Доступ разрешён администратору и двум
// сторонам заказа; остальным возвращается ErrForbidden.
func (s *OrderService) Read(ctx context.Context, actorUID string, actorRole int, id int64) (*models.Order, error) {
	const op = "services.OrderService.Read"

	order, err := s.readCached(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !s.canAccess(actorUID, actorRole, order) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	return order, nil
}

// List возвращает заказы по фильтру. Область видимости (свои заказы
// против всех) задаёт вызывающий обработчик через поля фильтра.
func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	const op = "services.OrderService.List"
	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// UpdateStatus переводит заказ в новый статус. Правила перехода:
//   - из терминального статуса (Completed, Cancelled) переходы запрещены;
//   - остальные переходы допускаются только вперёд по жизненному циклу
//     (newStatus больше текущего) либо в Cancelled.
//
// Пожилой человек может только отменить свой заказ, поставщик — двигать
// свой заказ по циклу, администратор не ограничен стороной.
// Гонки закрываются условным UPDATE по ожидаемому текущему статусу.
func (s *OrderService) UpdateStatus(ctx context.Context, actorUID string, actorRole int, id int64, newStatus int) (*models.Order, error) {
	const op = "services.OrderService.UpdateStatus"

	order, err := s.orders.ReadOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case actorRole == models.RoleAdmin:
	case actorRole == models.RoleMerchant && order.MerchantUID == actorUID:
	case actorRole == models.RoleElderly && order.ElderlyUID == actorUID:
		if newStatus != models.OrderStatusCancelled {
			return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if models.OrderStatusTerminal(order.Status) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidTransition)
	}
	if newStatus <= order.Status && newStatus != models.OrderStatusCancelled {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidTransition)
	}

	affected, err := s.orders.UpdateOrderStatus(ctx, id, order.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		// Статус успел измениться между чтением и обновлением.
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidTransition)
	}

	s.invalidate(id)
	order.Status = newStatus
	s.publish(rabbitmq.RoutingKeyOrderStatus, order)

	s.log.Info("order status updated",
		slog.Int64("order_id", id),
		slog.Int("status", newStatus))
	return order, nil
}

// Evaluate выставляет заказу оценку. Оценка возможна только в статусе
// OrderStatusAwaitingEvaluation, только стороной пожилого человека и
// только один раз; статус заказа при этом не меняется.
func (s *OrderService) Evaluate(ctx context.Context, actorUID string, id int64, req models.DummyEvaluation) (*models.Order, error) {
	const op = "services.OrderService.Evaluate"

	order, err := s.orders.ReadOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.ElderlyUID != actorUID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if order.Status != models.OrderStatusAwaitingEvaluation {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidState)
	}
	if order.Evaluation != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyEvaluated)
	}

	var content *string
	if req.Content != "" {
		content = &req.Content
	}
	affected, err := s.orders.SetOrderEvaluation(ctx, id, req.Evaluation, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyEvaluated)
	}

	s.invalidate(id)
	order.Evaluation = &req.Evaluation
	order.EvaluationContent = content
	s.publish(rabbitmq.RoutingKeyOrderEvaluated, order)

	s.log.Info("order evaluated",
		slog.Int64("order_id", id),
		slog.Int("evaluation", req.Evaluation))
	return order, nil
}

func (s *OrderService) canAccess(actorUID string, actorRole int, order *models.Order) bool {
	if actorRole == models.RoleAdmin {
		return true
	}
	return order.ElderlyUID == actorUID || order.MerchantUID == actorUID
}

// readCached читает заказ через кеш; ошибки кеша не фатальны.
func (s *OrderService) readCached(ctx context.Context, id int64) (*models.Order, error) {
	key := orderCacheKey(id)
	if s.cache != nil {
		var cached models.Order
		found, err := s.cache.Get(key, &cached)
		if err != nil {
			s.log.Warn("order cache read failed", slog.Int64("order_id", id), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	order, err := s.orders.ReadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(key, order, orderCacheTTL); err != nil {
			s.log.Warn("order cache write failed", slog.Int64("order_id", id), sl.Err(err))
		}
	}
	return order, nil
}

func (s *OrderService) invalidate(id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(orderCacheKey(id)); err != nil {
		s.log.Warn("order cache invalidation failed", slog.Int64("order_id", id), sl.Err(err))
	}
}

// publish отправляет событие заказа; сбой брокера не ломает операцию.
func (s *OrderService) publish(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.OrderEvent{
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		ElderlyUID:  order.ElderlyUID,
		MerchantUID: order.MerchantUID,
		Status:      order.Status,
		Evaluation:  order.Evaluation,
	}
	if err := s.publisher.PublishOrderEvent(routingKey, event); err != nil {
		s.log.Warn("order event publish failed",
			slog.String("routing_key", routingKey),
			slog.Int64("order_id", order.ID),
			sl.Err(err))
	}
}
