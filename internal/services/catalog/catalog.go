// Package services содержит бизнес-логику каталога услуг: размещение
// карточек поставщиками, модерацию администратором и публикацию.
// Инвариант каталога: опубликованной может быть только одобренная
// модерацией услуга, а любая правка содержимого возвращает карточку
// на модерацию и снимает её с витрины.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/eldercare-platform/internal/lib/sl"
	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

// Время жизни карточки услуги в кеше.
const serviceCacheTTL = 5 * time.Minute

// ServiceRepository описывает контракт для работы с услугами в базе данных.
type ServiceRepository interface {
	// CreateService сохраняет новую услугу и возвращает её ID.
	CreateService(ctx context.Context, svc models.Service) (int64, error)

	// ReadService возвращает услугу по ID.
	ReadService(ctx context.Context, id int64) (*models.Service, error)

	// ListServices возвращает услуги по фильтру.
	ListServices(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error)

	// UpdateServiceContent обновляет содержимое и оба статуса одним запросом.
	UpdateServiceContent(ctx context.Context, svc models.Service) (int64, error)

	// UpdateServiceStatus меняет статус размещения.
	UpdateServiceStatus(ctx context.Context, id int64, status int) error

	// UpdateServiceAudit записывает решение модерации вместе со статусом размещения.
	UpdateServiceAudit(ctx context.Context, id int64, auditStatus, status int) error
}

// ServiceCache — кеш горячих чтений карточек услуг.
type ServiceCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService управляет каталогом услуг.
type CatalogService struct {
	repo  ServiceRepository
	cache ServiceCache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
// cache может быть nil: тогда кеширование отключено.
func NewCatalogService(repo ServiceRepository, cache ServiceCache, log *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func serviceCacheKey(id int64) string {
	return fmt.Sprintf("service:%d", id)
}

// Create размещает новую услугу от имени поставщика merchantUID.
// Карточка всегда создаётся снятой с публикации и ожидающей модерации.
func (s *CatalogService) Create(ctx context.Context, merchantUID string, req models.DummyService) (*models.Service, error) {
	const op = "services.CatalogService.Create"

	svc := models.Service{
		MerchantUID: merchantUID,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
		Status:      models.ServiceStatusUnlisted,
		AuditStatus: models.AuditStatusPending,
	}
	if req.ImageURL != "" {
		svc.ImageURL = &req.ImageURL
	}

	id, err := s.repo.CreateService(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	svc.ID = id

	s.log.Info("service created",
		slog.Int64("service_id", id),
		slog.String("merchant_uid", merchantUID))
	return &svc, nil
}

// Read возвращает карточку услуги. Администратор и поставщик-владелец
// видят карточку в любом состоянии, остальным доступны только
// опубликованные услуги.
func (s *CatalogService) Read(ctx context.Context, actorUID string, actorRole int, id int64) (*models.Service, error) {
	const op = "services.CatalogService.Read"

	svc, err := s.readCached(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if actorRole != models.RoleAdmin && svc.MerchantUID != actorUID &&
		svc.Status != models.ServiceStatusListed {
		return nil, fmt.Errorf("%s: %w", op, models.ErrServiceNotFound)
	}
	return svc, nil
}

// ListPublic возвращает витрину: только опубликованные и одобренные услуги.
// Фильтры по владельцу и модерации из запроса игнорируются.
func (s *CatalogService) ListPublic(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	const op = "services.CatalogService.ListPublic"

	listed := models.ServiceStatusListed
	approved := models.AuditStatusApproved
	filter.MerchantUID = ""
	filter.Status = &listed
	filter.AuditStatus = &approved

	result, err := s.repo.ListServices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListOwn возвращает все услуги поставщика merchantUID независимо от
// статусов размещения и модерации.
func (s *CatalogService) ListOwn(ctx context.Context, merchantUID string, filter models.ServiceFilter) ([]*models.Service, error) {
	const op = "services.CatalogService.ListOwn"

	filter.MerchantUID = merchantUID
	result, err := s.repo.ListServices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAll возвращает услуги по произвольному фильтру для администратора.
func (s *CatalogService) ListAll(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	const op = "services.CatalogService.ListAll"

	result, err := s.repo.ListServices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Update правит содержимое карточки. Разрешено владельцу и администратору.
// Правка всегда снимает услугу с публикации и возвращает её на модерацию.
func (s *CatalogService) Update(ctx context.Context, actorUID string, actorRole int, id int64, req models.DummyService) (*models.Service, error) {
	const op = "services.CatalogService.Update"

	svc, err := s.repo.ReadService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if actorRole != models.RoleAdmin && svc.MerchantUID != actorUID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	svc.Name = req.Name
	svc.Type = req.Type
	svc.Description = req.Description
	svc.Price = req.Price
	svc.ImageURL = nil
	if req.ImageURL != "" {
		svc.ImageURL = &req.ImageURL
	}
	svc.Status = models.ServiceStatusUnlisted
	svc.AuditStatus = models.AuditStatusPending

	affected, err := s.repo.UpdateServiceContent(ctx, *svc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrServiceNotFound)
	}

	s.invalidate(id)
	s.log.Info("service content updated", slog.Int64("service_id", id))
	return svc, nil
}

// UpdateStatus публикует услугу или снимает её с витрины. Разрешено
// владельцу и администратору; публикация возможна только после
// одобрения модерацией.
func (s *CatalogService) UpdateStatus(ctx context.Context, actorUID string, actorRole int, id int64, status int) error {
	const op = "services.CatalogService.UpdateStatus"

	svc, err := s.repo.ReadService(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if actorRole != models.RoleAdmin && svc.MerchantUID != actorUID {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if status == models.ServiceStatusListed && svc.AuditStatus != models.AuditStatusApproved {
		return fmt.Errorf("%s: %w", op, models.ErrNotAudited)
	}

	if err := s.repo.UpdateServiceStatus(ctx, id, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(id)
	s.log.Info("service status updated",
		slog.Int64("service_id", id),
		slog.Int("status", status))
	return nil
}

// Audit записывает решение модерации. Отклонение одновременно снимает
// услугу с публикации; одобрение статус размещения не меняет.
func (s *CatalogService) Audit(ctx context.Context, id int64, auditStatus int) error {
	const op = "services.CatalogService.Audit"

	svc, err := s.repo.ReadService(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	listing := svc.Status
	if auditStatus == models.AuditStatusRejected {
		listing = models.ServiceStatusUnlisted
	}
	if err := s.repo.UpdateServiceAudit(ctx, id, auditStatus, listing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(id)
	s.log.Info("service audited",
		slog.Int64("service_id", id),
		slog.Int("audit_status", auditStatus))
	return nil
}

func (s *CatalogService) readCached(ctx context.Context, id int64) (*models.Service, error) {
	key := serviceCacheKey(id)
	if s.cache != nil {
		var cached models.Service
		found, err := s.cache.Get(key, &cached)
		if err != nil {
			s.log.Warn("service cache read failed", slog.Int64("service_id", id), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	svc, err := s.repo.ReadService(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(key, svc, serviceCacheTTL); err != nil {
			s.log.Warn("service cache write failed", slog.Int64("service_id", id), sl.Err(err))
		}
	}
	return svc, nil
}

func (s *CatalogService) invalidate(id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(serviceCacheKey(id)); err != nil {
		s.log.Warn("service cache invalidation failed", slog.Int64("service_id", id), sl.Err(err))
	}
}
