package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FacilityService справочник площадок; изменения доступны только администратору
type FacilityService struct {
	facilityRepo FacilityStore
	directory    FacilityDirectory
	invalidator  DirectoryInvalidator
	logger       *zap.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewFacilityService создаёт сервис. directory используется для чтения по ID
// (например, кеш поверх хранилища); invalidator может быть nil.
func NewFacilityService(facilityRepo FacilityStore, directory FacilityDirectory, invalidator DirectoryInvalidator, logger *zap.Logger) *FacilityService {
	if directory == nil {
		directory = facilityRepo
	}
	return &FacilityService{
		facilityRepo: facilityRepo,
		directory:    directory,
		invalidator:  invalidator,
		logger:       logger,
		tracer:       newTracer(),
		now:          time.Now,
	}
}

// List возвращает все площадки
func (s *FacilityService) List(ctx context.Context, actor model.Actor) ([]*model.Facility, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	facilities, err := s.facilityRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return facilities, nil
}

// ListBySport возвращает площадки одного вида спорта
func (s *FacilityService) ListBySport(ctx context.Context, actor model.Actor, sport model.Sport) ([]*model.Facility, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	if !sport.Valid() {
		return nil, fmt.Errorf("%w: unknown sport %q", model.ErrValidation, sport)
	}

	facilities, err := s.facilityRepo.ListBySport(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("list facilities by sport: %w", err)
	}
	return facilities, nil
}

// Get возвращает площадку по ID
func (s *FacilityService) Get(ctx context.Context, actor model.Actor, id int64) (*model.Facility, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	facility, err := s.directory.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get facility: %w", err)
	}
	if facility == nil {
		return nil, fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
	}
	return facility, nil
}

// Create добавляет площадку
func (s *FacilityService) Create(ctx context.Context, actor model.Actor, facility *model.Facility) (_ *model.Facility, err error) {
	ctx, span := s.tracer.Start(ctx, "FacilityService.Create")
	defer func() { endSpan(span, err) }()

	if err := Authorize(actor, nil, ActionManageFacility); err != nil {
		return nil, err
	}

	facility.Name = strings.TrimSpace(facility.Name)
	if err := facility.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	facility.CreatedAt = now
	facility.UpdatedAt = now

	if err := s.facilityRepo.Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("create facility: %w", err)
	}

	s.logger.Info("Facility created",
		zap.Int64("facility_id", facility.ID),
		zap.String("name", facility.Name),
		zap.String("sport", string(facility.Sport)),
		zap.Int("price", facility.Price),
	)

	return facility, nil
}

// Update меняет цену, доступность и описание площадки.
// Уже созданные брони сохраняют свою цену.
func (s *FacilityService) Update(ctx context.Context, actor model.Actor, id int64, patch model.FacilityPatch) (_ *model.Facility, err error) {
	ctx, span := s.tracer.Start(ctx, "FacilityService.Update", trace.WithAttributes(
		attribute.Int64("facility_id", id),
	))
	defer func() { endSpan(span, err) }()

	if err := Authorize(actor, nil, ActionManageFacility); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", model.ErrValidation)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: facility name is required", model.ErrValidation)
		}
		patch.Name = &name
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", model.ErrValidation)
	}

	updated, err := s.facilityRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update facility: %w", err)
	}

	s.invalidate(ctx, id)

	s.logger.Info("Facility updated",
		zap.Int64("facility_id", id),
		zap.Int("price", updated.Price),
		zap.Bool("available", updated.Available),
	)

	return updated, nil
}

// SetPrice меняет цену за час
func (s *FacilityService) SetPrice(ctx context.Context, actor model.Actor, id int64, price int) (*model.Facility, error) {
	return s.Update(ctx, actor, id, model.FacilityPatch{Price: &price})
}

// SetAvailable открывает или закрывает площадку для бронирования
func (s *FacilityService) SetAvailable(ctx context.Context, actor model.Actor, id int64, available bool) (*model.Facility, error) {
	return s.Update(ctx, actor, id, model.FacilityPatch{Available: &available})
}

// Delete удаляет площадку без броней
func (s *FacilityService) Delete(ctx context.Context, actor model.Actor, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "FacilityService.Delete", trace.WithAttributes(
		attribute.Int64("facility_id", id),
	))
	defer func() { endSpan(span, err) }()

	if err := Authorize(actor, nil, ActionManageFacility); err != nil {
		return err
	}

	if err := s.facilityRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}

	s.invalidate(ctx, id)

	s.logger.Info("Facility deleted", zap.Int64("facility_id", id))

	return nil
}

func (s *FacilityService) invalidate(ctx context.Context, id int64) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate facility cache",
			zap.Int64("facility_id", id),
			zap.Error(err),
		)
	}
}
