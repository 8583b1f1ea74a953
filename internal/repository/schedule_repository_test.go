package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edt-api/internal/models"
)

func TestScheduleRepositoryReplaceInTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE program_id = $1 AND group_number = $2")).
		WithArgs("git", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(sqlmock.AnyArg(), "git", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)

	deleted, err := repo.DeleteByProgramGroup(ctx, tx, "git", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	schedule := &models.Schedule{ProgramID: "git", GroupNumber: 1}
	require.NoError(t, repo.Create(ctx, tx, schedule))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, schedule.ID)
	assert.NotNil(t, schedule.Sessions)
	assert.NotNil(t, schedule.Conflicts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateRequiresGroup(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	err := repo.Create(context.Background(), nil, &models.Schedule{ProgramID: "git"})
	require.Error(t, err)
}

func TestScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "program_id", "group_number", "sessions", "conflicts", "created_at", "updated_at"}).
		AddRow("s1", "git", 2, []byte(`[{"courseId":"c1","professorId":"p1","roomId":"r1","day":"Lundi","timeslot":"08h30 - 11h30"}]`), "{\"cannot attribute course X: no free slot found\"}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, program_id, group_number, sessions, conflicts, created_at, updated_at FROM schedules WHERE id = $1")).
		WithArgs("s1").
		WillReturnRows(rows)

	schedule, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, schedule.GroupNumber)
	require.Len(t, schedule.Sessions, 1)
	assert.Equal(t, models.Lundi, schedule.Sessions[0].Day)
	require.Len(t, schedule.Conflicts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE program_id = $1 AND group_number = $2 ORDER BY program_id, group_number")).
		WithArgs("git", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "program_id", "group_number", "sessions", "conflicts", "created_at", "updated_at"}))

	list, err := repo.List(context.Background(), models.ScheduleFilter{ProgramID: "git", GroupNumber: 2})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListSessionsExcluding(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"sessions"}).
		AddRow([]byte(`[{"courseId":"c1","professorId":"p1","roomId":"r1","day":"Lundi","timeslot":"08h30 - 11h30"}]`)).
		AddRow([]byte(`[{"courseId":"c9","professorId":"p2","roomId":"r2","day":"Mardi","timeslot":"12h00 - 15h00"}]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sessions FROM schedules WHERE NOT (program_id = $1 AND ($2 = 0 OR group_number = $2))")).
		WithArgs("git", 0).
		WillReturnRows(rows)

	sessions, err := repo.ListSessionsExcluding(context.Background(), "git", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpdateSessionsNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedules SET sessions = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("gone", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSessions(context.Background(), "gone", nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
