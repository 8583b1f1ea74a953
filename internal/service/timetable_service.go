package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	"github.com/noah-isme/edt-api/internal/scheduler"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

type scheduleRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error
	DeleteByProgramGroup(ctx context.Context, exec sqlx.ExtContext, programID string, group int) (int64, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
	ListSessionsExcluding(ctx context.Context, programID string, group int) (models.Sessions, error)
	UpdateSessions(ctx context.Context, id string, sessions models.Sessions) error
}

type generationLoader interface {
	Load(ctx context.Context, programID string) (*GenerationInputs, error)
}

type courseFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// TimetableConfig governs generation behaviour.
type TimetableConfig struct {
	Strategy scheduler.PlacementStrategy
	// GlobalOccupancy seeds each run with the sessions of every other stored schedule.
	GlobalOccupancy bool
	CacheTTL        time.Duration
}

// TimetableService generates schedules and applies manual edits to them.
type TimetableService struct {
	loader     generationLoader
	schedules  scheduleRepository
	courses    courseFinder
	professors professorLister
	rooms      roomLister
	programs   programReader
	tx         txProvider
	generator  *scheduler.Generator
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        TimetableConfig
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	loader generationLoader,
	schedules scheduleRepository,
	courses courseFinder,
	professors professorLister,
	rooms roomLister,
	programs programReader,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		loader:     loader,
		schedules:  schedules,
		courses:    courses,
		professors: professors,
		rooms:      rooms,
		programs:   programs,
		tx:         tx,
		generator:  scheduler.NewGenerator(cfg.Strategy),
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
	}
}

// Generate rebuilds the schedule of one (program, group). Courses that cannot be placed
// are reported as conflicts alongside the persisted schedule. Validation failures and
// programs without courses abort before anything is written.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "programId and group are required")
	}
	inputs, err := s.prepare(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if !inputs.Program.HasGroup(req.Group) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("group must be between 1 and %d", inputs.Program.GroupCount))
	}

	seed, err := s.occupancy(ctx, req.ProgramID, req.Group)
	if err != nil {
		return nil, err
	}
	state := scheduler.NewState(inputs.Professors, inputs.Rooms, seed)

	start := time.Now()
	result := s.generator.Run(inputs.Courses, state)
	s.metrics.ObserveGeneration("group", time.Since(start), result)

	schedule := newSchedule(req.ProgramID, req.Group, result)
	if err := s.replace(ctx, []*models.Schedule{schedule}); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, scheduleCachePattern)

	s.logger.Info("timetable generated",
		zap.String("program_id", req.ProgramID),
		zap.Int("group", req.Group),
		zap.Int("sessions", len(result.Sessions)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Duration("duration", time.Since(start)),
	)

	idx := indexInputs(inputs)
	return generationResponse(idx.view(*schedule)), nil
}

// GenerateAll rebuilds every group of the program in one occupancy run, so no professor
// or room is booked twice across the program's groups. All schedules are replaced in a
// single transaction.
func (s *TimetableService) GenerateAll(ctx context.Context, req dto.GenerateAllRequest) ([]dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "programId is required")
	}
	inputs, err := s.prepare(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}

	seed, err := s.occupancy(ctx, req.ProgramID, 0)
	if err != nil {
		return nil, err
	}
	state := scheduler.NewState(inputs.Professors, inputs.Rooms, seed)

	schedules := make([]*models.Schedule, 0, inputs.Program.GroupCount)
	for group := 1; group <= inputs.Program.GroupCount; group++ {
		start := time.Now()
		result := s.generator.Run(inputs.Courses, state)
		s.metrics.ObserveGeneration("program", time.Since(start), result)
		schedules = append(schedules, newSchedule(req.ProgramID, group, result))
	}
	if err := s.replace(ctx, schedules); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, scheduleCachePattern)

	idx := indexInputs(inputs)
	out := make([]dto.GenerateScheduleResponse, 0, len(schedules))
	conflicts := 0
	for _, schedule := range schedules {
		resp := generationResponse(idx.view(*schedule))
		conflicts += resp.TotalConflicts
		out = append(out, *resp)
	}
	s.logger.Info("program timetables generated",
		zap.String("program_id", req.ProgramID),
		zap.Int("groups", len(schedules)),
		zap.Int("conflicts", conflicts),
	)
	return out, nil
}

// Get returns a schedule with resolved references.
func (s *TimetableService) Get(ctx context.Context, id string) (*dto.ScheduleView, error) {
	var cached dto.ScheduleView
	if hit, _ := s.cache.Get(ctx, scheduleCacheKey(id), &cached); hit {
		return &cached, nil
	}
	schedule, err := s.findSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.resolve(ctx, []models.Schedule{*schedule})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, scheduleCacheKey(id), views[0], s.cfg.CacheTTL)
	return &views[0], nil
}

// List returns schedules matching the query.
func (s *TimetableService) List(ctx context.Context, query dto.ScheduleQuery) ([]dto.ScheduleView, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule query")
	}
	schedules, err := s.schedules.List(ctx, models.ScheduleFilter{ProgramID: query.ProgramID, GroupNumber: query.Group})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return s.resolve(ctx, schedules)
}

// AddSession places a session manually. The group must not already attend something at
// that slot.
func (s *TimetableService) AddSession(ctx context.Context, scheduleID string, req dto.SessionRequest) (*dto.ScheduleView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	return s.mutate(ctx, scheduleID, "add", func(sessions models.Sessions) (models.Sessions, error) {
		return scheduler.AddSession(sessions, req.ToModel())
	})
}

// ModifySession replaces the session at req.From. Moving it onto a slot held by another
// session is rejected.
func (s *TimetableService) ModifySession(ctx context.Context, scheduleID string, req dto.ModifySessionRequest) (*dto.ScheduleView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	return s.mutate(ctx, scheduleID, "modify", func(sessions models.Sessions) (models.Sessions, error) {
		return scheduler.ModifySession(sessions, req.From.Key(), req.Session.ToModel())
	})
}

// DeleteSession clears a slot. Clearing an empty slot succeeds.
func (s *TimetableService) DeleteSession(ctx context.Context, scheduleID string, slot dto.SlotRequest) (*dto.ScheduleView, error) {
	if err := s.validator.Struct(slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot")
	}
	return s.mutate(ctx, scheduleID, "delete", func(sessions models.Sessions) (models.Sessions, error) {
		return scheduler.DeleteSession(sessions, slot.Key()), nil
	})
}

// MoveSession relocates a session. The destination must be free unless Swap is set.
func (s *TimetableService) MoveSession(ctx context.Context, scheduleID string, req dto.MoveSessionRequest) (*dto.ScheduleView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	return s.mutate(ctx, scheduleID, "move", func(sessions models.Sessions) (models.Sessions, error) {
		return scheduler.MoveSession(sessions, req.From.Key(), req.To.Key(), req.Swap)
	})
}

func (s *TimetableService) prepare(ctx context.Context, programID string) (*GenerationInputs, error) {
	inputs, err := s.loader.Load(ctx, programID)
	if err != nil {
		return nil, err
	}
	if len(inputs.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoCourses, fmt.Sprintf("program %s has no courses", inputs.Program.Name))
	}
	return inputs, nil
}

func (s *TimetableService) occupancy(ctx context.Context, programID string, group int) (models.Sessions, error) {
	if !s.cfg.GlobalOccupancy {
		return nil, nil
	}
	sessions, err := s.schedules.ListSessionsExcluding(ctx, programID, group)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing occupancy")
	}
	return sessions, nil
}

func (s *TimetableService) replace(ctx context.Context, schedules []*models.Schedule) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, schedule := range schedules {
		if _, err = s.schedules.DeleteByProgramGroup(ctx, tx, schedule.ProgramID, schedule.GroupNumber); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete previous schedule")
		}
		if err = s.schedules.Create(ctx, tx, schedule); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
		}
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
	}
	return nil
}

func (s *TimetableService) findSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

func (s *TimetableService) mutate(ctx context.Context, scheduleID, operation string, apply func(models.Sessions) (models.Sessions, error)) (*dto.ScheduleView, error) {
	schedule, err := s.findSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	updated, err := apply(schedule.Sessions)
	s.metrics.RecordMutation(operation, err)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrSlotOccupied):
			return nil, appErrors.Clone(appErrors.ErrSlotOccupied, "the group already has a session at this slot")
		case errors.Is(err, scheduler.ErrSessionNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no session at the given day and timeslot")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply session change")
		}
	}

	if err := s.schedules.UpdateSessions(ctx, scheduleID, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	schedule.Sessions = updated
	_ = s.cache.Invalidate(ctx, scheduleCachePattern)

	views, err := s.resolve(ctx, []models.Schedule{*schedule})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TimetableService) resolve(ctx context.Context, schedules []models.Schedule) ([]dto.ScheduleView, error) {
	if len(schedules) == 0 {
		return []dto.ScheduleView{}, nil
	}
	courseIDs := make([]string, 0)
	seenCourses := make(map[string]struct{})
	programIDs := make([]string, 0)
	seenPrograms := make(map[string]struct{})
	for _, schedule := range schedules {
		if _, ok := seenPrograms[schedule.ProgramID]; !ok {
			seenPrograms[schedule.ProgramID] = struct{}{}
			programIDs = append(programIDs, schedule.ProgramID)
		}
		for _, session := range schedule.Sessions {
			if _, ok := seenCourses[session.CourseID]; !ok {
				seenCourses[session.CourseID] = struct{}{}
				courseIDs = append(courseIDs, session.CourseID)
			}
		}
	}

	var (
		courses    []models.Course
		professors []models.Professor
		rooms      []models.Room
		programs   = make([]models.Program, 0, len(programIDs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		courses, err = s.courses.FindByIDs(gctx, courseIDs)
		return err
	})
	g.Go(func() (err error) {
		professors, err = s.professors.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		rooms, err = s.rooms.List(gctx)
		return err
	})
	g.Go(func() error {
		for _, id := range programIDs {
			program, err := s.programs.FindByID(gctx, id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return err
			}
			programs = append(programs, *program)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve schedule references")
	}

	idx := newCatalogIndex(courses, professors, rooms, programs)
	views := make([]dto.ScheduleView, 0, len(schedules))
	for _, schedule := range schedules {
		views = append(views, idx.view(schedule))
	}
	return views, nil
}

func newSchedule(programID string, group int, result scheduler.Result) *models.Schedule {
	conflicts := pq.StringArray(result.Messages())
	return &models.Schedule{
		ProgramID:   programID,
		GroupNumber: group,
		Sessions:    result.Sessions,
		Conflicts:   conflicts,
	}
}

func generationResponse(view dto.ScheduleView) *dto.GenerateScheduleResponse {
	return &dto.GenerateScheduleResponse{
		Schedule:       view,
		Conflicts:      view.Conflicts,
		TotalSessions:  len(view.Sessions),
		TotalConflicts: len(view.Conflicts),
	}
}

type catalogIndex struct {
	courses    map[string]models.Course
	professors map[string]models.Professor
	rooms      map[string]models.Room
	programs   map[string]models.Program
}

func newCatalogIndex(courses []models.Course, professors []models.Professor, rooms []models.Room, programs []models.Program) catalogIndex {
	idx := catalogIndex{
		courses:    make(map[string]models.Course, len(courses)),
		professors: make(map[string]models.Professor, len(professors)),
		rooms:      make(map[string]models.Room, len(rooms)),
		programs:   make(map[string]models.Program, len(programs)),
	}
	for _, c := range courses {
		idx.courses[c.ID] = c
	}
	for _, p := range professors {
		idx.professors[p.ID] = p
	}
	for _, r := range rooms {
		idx.rooms[r.ID] = r
	}
	for _, p := range programs {
		idx.programs[p.ID] = p
	}
	return idx
}

func indexInputs(inputs *GenerationInputs) catalogIndex {
	return newCatalogIndex(inputs.Courses, inputs.Professors, inputs.Rooms, []models.Program{inputs.Program})
}

// view resolves references by id. Unknown ids keep an empty name.
func (idx catalogIndex) view(schedule models.Schedule) dto.ScheduleView {
	sessions := schedule.Sessions.Sorted()
	out := make([]dto.SessionView, 0, len(sessions))
	for _, session := range sessions {
		course := idx.courses[session.CourseID]
		professor := idx.professors[session.ProfessorID]
		room := idx.rooms[session.RoomID]
		out = append(out, dto.SessionView{
			Day:       session.Day,
			TimeSlot:  session.TimeSlot,
			Course:    dto.ResourceRef{ID: session.CourseID, Name: course.Name},
			Professor: dto.ResourceRef{ID: session.ProfessorID, Name: professor.FullName()},
			Room:      dto.RoomRef{ID: session.RoomID, Name: room.Name, Type: room.Type},
		})
	}
	conflicts := []string(schedule.Conflicts)
	if conflicts == nil {
		conflicts = []string{}
	}
	return dto.ScheduleView{
		ID:          schedule.ID,
		ProgramID:   schedule.ProgramID,
		ProgramName: idx.programs[schedule.ProgramID].Name,
		Group:       schedule.GroupNumber,
		Sessions:    out,
		Conflicts:   conflicts,
		CreatedAt:   schedule.CreatedAt,
		UpdatedAt:   schedule.UpdatedAt,
	}
}
