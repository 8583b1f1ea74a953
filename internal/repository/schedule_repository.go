package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/edt-api/internal/models"
)

const scheduleColumns = "id, program_id, group_number, sessions, conflicts, created_at, updated_at"

// ScheduleRepository persists one timetable per (program, group).
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a schedule. Pass a transaction as exec to pair it with a delete.
func (r *ScheduleRepository) Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	if schedule == nil {
		return fmt.Errorf("schedule payload is nil")
	}
	if schedule.ProgramID == "" || schedule.GroupNumber < 1 {
		return fmt.Errorf("program_id and group_number are required")
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.Sessions == nil {
		schedule.Sessions = models.Sessions{}
	}
	if schedule.Conflicts == nil {
		schedule.Conflicts = pq.StringArray{}
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (id, program_id, group_number, sessions, conflicts, created_at, updated_at)
VALUES (:id, :program_id, :group_number, :sessions, :conflicts, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, schedule); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// DeleteByProgramGroup removes the schedule of (programID, group) if any.
func (r *ScheduleRepository) DeleteByProgramGroup(ctx context.Context, exec sqlx.ExtContext, programID string, group int) (int64, error) {
	const query = `DELETE FROM schedules WHERE program_id = $1 AND group_number = $2`
	result, err := r.exec(exec).ExecContext(ctx, query, programID, group)
	if err != nil {
		return 0, fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("schedule rows affected: %w", err)
	}
	return affected, nil
}

// FindByID loads a schedule by its identifier.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE id = $1"
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindByProgramGroup loads the schedule of (programID, group).
func (r *ScheduleRepository) FindByProgramGroup(ctx context.Context, programID string, group int) (*models.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE program_id = $1 AND group_number = $2"
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, programID, group); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// List returns schedules matching filter ordered by program then group.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	var conditions []string
	var args []interface{}
	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.GroupNumber > 0 {
		conditions = append(conditions, fmt.Sprintf("group_number = $%d", len(args)+1))
		args = append(args, filter.GroupNumber)
	}

	query := "SELECT " + scheduleColumns + " FROM schedules"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY program_id, group_number"

	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// ListSessionsExcluding returns the sessions of every schedule outside programID. When
// group is positive only that group of the program is excluded.
func (r *ScheduleRepository) ListSessionsExcluding(ctx context.Context, programID string, group int) (models.Sessions, error) {
	const query = `SELECT sessions FROM schedules WHERE NOT (program_id = $1 AND ($2 = 0 OR group_number = $2))`
	var rows []models.Sessions
	if err := r.db.SelectContext(ctx, &rows, query, programID, group); err != nil {
		return nil, fmt.Errorf("list occupied sessions: %w", err)
	}
	out := models.Sessions{}
	for _, sessions := range rows {
		out = append(out, sessions...)
	}
	return out, nil
}

// UpdateSessions overwrites the session list of a schedule. Last write wins.
func (r *ScheduleRepository) UpdateSessions(ctx context.Context, id string, sessions models.Sessions) error {
	if sessions == nil {
		sessions = models.Sessions{}
	}
	const query = `UPDATE schedules SET sessions = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, sessions, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update schedule sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule sessions rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
