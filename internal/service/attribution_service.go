package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
	"github.com/noah-isme/edt-api/pkg/jobs"
)

// JobTypeAttributionSweep identifies the periodic purge of expired attributions.
const JobTypeAttributionSweep = "attributions.sweep"

type attributionRepository interface {
	Create(ctx context.Context, attribution *models.TemporaryAttribution) error
	List(ctx context.Context) ([]models.TemporaryAttribution, error)
	FindByID(ctx context.Context, id string) (*models.TemporaryAttribution, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type professorReader interface {
	FindByID(ctx context.Context, id string) (*models.Professor, error)
}

type roomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// AttributionService manages temporary attributions. They are never merged into a
// schedule and are only checked against the resources' own availability.
type AttributionService struct {
	repo       attributionRepository
	professors professorReader
	rooms      roomReader
	courses    courseReader
	programs   programReader
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	ttl        time.Duration
	now        func() time.Time
}

// NewAttributionService constructs the service. A non-positive ttl falls back to seven days.
func NewAttributionService(
	repo attributionRepository,
	professors professorReader,
	rooms roomReader,
	courses courseReader,
	programs programReader,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	ttl time.Duration,
) *AttributionService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AttributionService{
		repo:       repo,
		professors: professors,
		rooms:      rooms,
		courses:    courses,
		programs:   programs,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Create stores an attribution expiring ttl from now.
func (s *AttributionService) Create(ctx context.Context, req dto.CreateAttributionRequest) (*dto.AttributionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attribution payload")
	}
	day, slot := models.Day(req.Day), models.TimeSlot(req.TimeSlot)

	program, err := s.programs.FindByID(ctx, req.ProgramID)
	if err != nil {
		return nil, lookupError(err, "program")
	}
	if !program.HasGroup(req.Group) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("group must be between 1 and %d", program.GroupCount))
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, lookupError(err, "course")
	}
	professor, err := s.professors.FindByID(ctx, req.ProfessorID)
	if err != nil {
		return nil, lookupError(err, "professor")
	}
	if !professor.Availability.Has(day, slot) {
		return nil, appErrors.Clone(appErrors.ErrResourceUnavailable, fmt.Sprintf("professor %s is not available on %s %s", professor.FullName(), day, slot))
	}
	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, lookupError(err, "room")
	}
	if !room.Availability.Has(day, slot) {
		return nil, appErrors.Clone(appErrors.ErrResourceUnavailable, fmt.Sprintf("room %s is not available on %s %s", room.Name, day, slot))
	}

	now := s.now()
	attribution := &models.TemporaryAttribution{
		ProfessorID: req.ProfessorID,
		RoomID:      req.RoomID,
		CourseID:    req.CourseID,
		ProgramID:   req.ProgramID,
		GroupNumber: req.Group,
		Day:         day,
		TimeSlot:    slot,
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, attribution); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attribution")
	}

	s.logger.Info("temporary attribution created",
		zap.String("attribution_id", attribution.ID),
		zap.String("professor_id", attribution.ProfessorID),
		zap.String("room_id", attribution.RoomID),
		zap.Time("expires_at", attribution.ExpiresAt),
	)
	view := dto.NewAttributionView(*attribution, now)
	return &view, nil
}

// List returns every stored attribution, expired ones included.
func (s *AttributionService) List(ctx context.Context) ([]dto.AttributionView, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attributions")
	}
	now := s.now()
	views := make([]dto.AttributionView, 0, len(items))
	for _, item := range items {
		views = append(views, dto.NewAttributionView(item, now))
	}
	return views, nil
}

// Get returns one attribution with its expiry state.
func (s *AttributionService) Get(ctx context.Context, id string) (*dto.AttributionView, error) {
	attribution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "attribution")
	}
	view := dto.NewAttributionView(*attribution, s.now())
	return &view, nil
}

// Delete removes an attribution whether or not it has expired.
func (s *AttributionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "attribution")
	}
	return nil
}

// SweepExpired purges attributions whose expiry has passed.
func (s *AttributionService) SweepExpired(ctx context.Context) (*dto.SweepResult, error) {
	now := s.now()
	deleted, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sweep attributions")
	}
	s.metrics.AddAttributionsSwept(deleted)
	if deleted > 0 {
		s.logger.Info("expired attributions swept", zap.Int64("deleted", deleted))
	}
	return &dto.SweepResult{Deleted: deleted, At: now}, nil
}

// HandleSweepJob adapts SweepExpired to the job queue.
func (s *AttributionService) HandleSweepJob(ctx context.Context, job jobs.Job) error {
	_, err := s.SweepExpired(ctx)
	return err
}

func lookupError(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+resource)
}
