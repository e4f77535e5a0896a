package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// CreateService вставляет новую услугу и возвращает её ID.
func (s *Storage) CreateService(ctx context.Context, svc models.Service) (int64, error) {
	const op = "repository.CreateService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO services (merchant_uid, name, type, description, price,
			      image_url, status, audit_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		svc.MerchantUID, svc.Name, svc.Type, svc.Description, svc.Price,
		svc.ImageURL, svc.Status, svc.AuditStatus).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadService возвращает услугу по ID.
func (s *Storage) ReadService(ctx context.Context, id int64) (*models.Service, error) {
	const op = "repository.ReadService"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, merchant_uid, name, type, description, price, image_url,
			      status, audit_status, created_at, updated_at
			  FROM services
			  WHERE id = $1`
	svc, err := scanServiceFields(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrServiceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return svc, nil
}

// ListServices возвращает услуги по фильтру с пагинацией, новые первыми.
func (s *Storage) ListServices(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	const op = "repository.ListServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, merchant_uid, name, type, description, price, image_url,
			      status, audit_status, created_at, updated_at
			  FROM services
			  WHERE ($1 = '' OR merchant_uid = $1::uuid)
			    AND ($2 = '' OR name ILIKE '%' || $2 || '%')
			    AND ($3::int IS NULL OR type = $3)
			    AND ($4::int IS NULL OR status = $4)
			    AND ($5::int IS NULL OR audit_status = $5)
			  ORDER BY created_at DESC
			  LIMIT $6 OFFSET $7`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.MerchantUID, filter.Name, filter.Type, filter.Status,
		filter.AuditStatus, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Service
	for rows.Next() {
		svc, err := scanServiceFields(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, svc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateServiceContent обновляет содержимое услуги вместе со статусами
// размещения и модерации одним запросом: правка контента всегда
// сопровождается возвратом на модерацию и снятием с публикации.
func (s *Storage) UpdateServiceContent(ctx context.Context, svc models.Service) (int64, error) {
	const op = "repository.UpdateServiceContent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE services
			  SET name = $1, type = $2, description = $3, price = $4, image_url = $5,
			      status = $6, audit_status = $7, updated_at = now()
			  WHERE id = $8`
	result, err := s.DB.ExecContext(ctx, query,
		svc.Name, svc.Type, svc.Description, svc.Price, svc.ImageURL,
		svc.Status, svc.AuditStatus, svc.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// UpdateServiceStatus меняет статус размещения услуги.
func (s *Storage) UpdateServiceStatus(ctx context.Context, id int64, status int) error {
	const op = "repository.UpdateServiceStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE services SET status = $1, updated_at = now() WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrServiceNotFound)
	}
	return nil
}

// UpdateServiceAudit записывает решение модерации; при отказе услуга
// одновременно снимается с публикации.
func (s *Storage) UpdateServiceAudit(ctx context.Context, id int64, auditStatus, status int) error {
	const op = "repository.UpdateServiceAudit"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE services SET audit_status = $1, status = $2, updated_at = now() WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, auditStatus, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrServiceNotFound)
	}
	return nil
}

func scanServiceFields(row rowScanner) (*models.Service, error) {
	svc := &models.Service{}
	var imageURL sql.NullString
	if err := row.Scan(&svc.ID, &svc.MerchantUID, &svc.Name, &svc.Type, &svc.Description,
		&svc.Price, &imageURL, &svc.Status, &svc.AuditStatus,
		&svc.CreatedAt, &svc.UpdatedAt); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		svc.ImageURL = &imageURL.String
	}
	return svc, nil
}
