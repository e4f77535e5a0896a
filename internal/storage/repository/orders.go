package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// CreateOrder вставляет новый заказ и возвращает его ID.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (int64, error) {
	const op = "repository.CreateOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO orders (order_no, elderly_uid, merchant_uid, service_id,
			      snapshot_name, snapshot_price, service_time, address, remark, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		order.OrderNo, order.ElderlyUID, order.MerchantUID, order.ServiceID,
		order.SnapshotName, order.SnapshotPrice, order.ServiceTime,
		order.Address, order.Remark, order.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadOrder возвращает заказ по ID.
func (s *Storage) ReadOrder(ctx context.Context, id int64) (*models.Order, error) {
	const op = "repository.ReadOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, order_no, elderly_uid, merchant_uid, service_id,
			      snapshot_name, snapshot_price, service_time, address, remark,
			      status, evaluation, evaluation_content, created_at, updated_at
			  FROM orders
			  WHERE id = $1`
	o, err := scanOrderFields(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// ListOrders возвращает заказы по фильтру с пагинацией, новые первыми.
func (s *Storage) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	const op = "repository.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, order_no, elderly_uid, merchant_uid, service_id,
			      snapshot_name, snapshot_price, service_time, address, remark,
			      status, evaluation, evaluation_content, created_at, updated_at
			  FROM orders
			  WHERE ($1 = '' OR elderly_uid = $1::uuid)
			    AND ($2 = '' OR merchant_uid = $2::uuid)
			    AND ($3::int IS NULL OR status = $3)
			  ORDER BY created_at DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.ElderlyUID, filter.MerchantUID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		o, err := scanOrderFields(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateOrderStatus переводит заказ из ожидаемого статуса в новый.
// Обновление условно по прочитанному ранее статусу: при несовпадении
// (конкурентная запись успела раньше) возвращается 0 затронутых строк.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, expectedStatus, newStatus int) (int64, error) {
	const op = "repository.UpdateOrderStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders SET status = $1, updated_at = now()
			  WHERE id = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, newStatus, id, expectedStatus)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// SetOrderEvaluation выставляет оценку заказу, если она ещё не выставлена.
// Возвращает количество затронутых строк: 0 означает гонку с другой оценкой.
func (s *Storage) SetOrderEvaluation(ctx context.Context, id int64, evaluation int, content *string) (int64, error) {
	const op = "repository.SetOrderEvaluation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders SET evaluation = $1, evaluation_content = $2, updated_at = now()
			  WHERE id = $3 AND evaluation IS NULL`
	result, err := s.DB.ExecContext(ctx, query, evaluation, content, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func scanOrderFields(row rowScanner) (*models.Order, error) {
	o := &models.Order{}
	var remark, evaluationContent sql.NullString
	var evaluation sql.NullInt64
	if err := row.Scan(&o.ID, &o.OrderNo, &o.ElderlyUID, &o.MerchantUID, &o.ServiceID,
		&o.SnapshotName, &o.SnapshotPrice, &o.ServiceTime, &o.Address, &remark,
		&o.Status, &evaluation, &evaluationContent, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if remark.Valid {
		o.Remark = &remark.String
	}
	if evaluation.Valid {
		v := int(evaluation.Int64)
		o.Evaluation = &v
	}
	if evaluationContent.Valid {
		o.EvaluationContent = &evaluationContent.String
	}
	return o, nil
}
