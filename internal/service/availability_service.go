package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

// AvailabilityService reads and overwrites resource availability. A save always replaces
// the whole list; an empty list makes the resource unschedulable.
type AvailabilityService struct {
	professors professorRepository
	rooms      roomRepository
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(professors professorRepository, rooms roomRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{professors: professors, rooms: rooms, cache: cache, validator: validate, logger: logger}
}

// SetProfessorAvailability replaces the professor's availability.
func (s *AvailabilityService) SetProfessorAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (models.Availability, error) {
	availability, err := s.parse(req)
	if err != nil {
		return nil, err
	}
	if err := s.professors.UpdateAvailability(ctx, id, availability); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save professor availability")
	}
	s.logger.Info("professor availability replaced", zap.String("professor_id", id), zap.Int("slots", availability.SlotCount()))
	_ = s.cache.Invalidate(ctx, freeSlotCachePattern)
	return availability, nil
}

// GetProfessorAvailability returns the professor's current availability.
func (s *AvailabilityService) GetProfessorAvailability(ctx context.Context, id string) (models.Availability, error) {
	professor, err := s.professors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	return nonNil(professor.Availability), nil
}

// SetRoomAvailability replaces the room's availability.
func (s *AvailabilityService) SetRoomAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (models.Availability, error) {
	availability, err := s.parse(req)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.UpdateAvailability(ctx, id, availability); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save room availability")
	}
	s.logger.Info("room availability replaced", zap.String("room_id", id), zap.Int("slots", availability.SlotCount()))
	_ = s.cache.Invalidate(ctx, freeSlotCachePattern)
	return availability, nil
}

// GetRoomAvailability returns the room's current availability.
func (s *AvailabilityService) GetRoomAvailability(ctx context.Context, id string) (models.Availability, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return nonNil(room.Availability), nil
}

func (s *AvailabilityService) parse(req dto.SetAvailabilityRequest) (models.Availability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	return dto.ToAvailability(req.Availability), nil
}

func nonNil(a models.Availability) models.Availability {
	if a == nil {
		return models.Availability{}
	}
	return a
}
