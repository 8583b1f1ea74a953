package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edt-api/internal/models"
)

func TestProfessorRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfessorRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "availability", "created_at", "updated_at"}).
		AddRow("p1", "Awa", "Diop", "awa@example.com", []byte(`[{"day":"Lundi","timeslots":["08h30 - 11h30"]}]`), now, now).
		AddRow("p2", "Jean", "Martin", "jean@example.com", []byte(`[]`), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, email, availability, created_at, updated_at FROM professors ORDER BY created_at, id")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Availability.Has(models.Lundi, models.SlotMorning))
	assert.True(t, list[1].Availability.IsEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfessorRepository(db)

	mock.ExpectExec("INSERT INTO professors").
		WithArgs(sqlmock.AnyArg(), "Awa", "Diop", "awa@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	professor := &models.Professor{FirstName: "Awa", LastName: "Diop", Email: "awa@example.com"}
	require.NoError(t, repo.Create(context.Background(), professor))
	assert.NotEmpty(t, professor.ID)
	assert.NotNil(t, professor.Availability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorRepositoryUpdateAvailabilityNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfessorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE professors SET availability = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("missing", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAvailability(context.Background(), "missing", models.Availability{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByIDAndUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, type, capacity, availability, created_at, updated_at FROM rooms WHERE id = $1")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "capacity", "availability", "created_at", "updated_at"}).
			AddRow("r1", "Labo 2", "Machine", 24, []byte(`[]`), now, now))

	room, err := repo.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomMachine, room.Type)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET availability = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("r1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateAvailability(context.Background(), "r1", models.Availability{{Day: models.Mardi, TimeSlots: []models.TimeSlot{models.SlotMidday}}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery("FROM rooms WHERE id = \\$1").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCourseRepositoryListByProgramKeepsInsertionOrder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "program_id", "duration_hours", "professor_ids", "created_at", "updated_at"}).
		AddRow("c1", "Algorithmique", "git", 30, "{p1,p2}", now, now).
		AddRow("c2", "TP Reseaux", "git", 20, "{p2}", now.Add(time.Second), now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, program_id, duration_hours, professor_ids, created_at, updated_at FROM courses WHERE program_id = $1 ORDER BY created_at, id")).
		WithArgs("git").
		WillReturnRows(rows)

	courses, err := repo.ListByProgram(context.Background(), "git")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "c1", courses[0].ID)
	assert.Equal(t, pq.StringArray{"p1", "p2"}, courses[0].ProfessorIDs)
	assert.True(t, courses[1].Eligible("p2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	courses, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "Algorithmique", "git", 30, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Name: "Algorithmique", ProgramID: "git", DurationHours: 30, ProfessorIDs: pq.StringArray{"p1"}}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, group_count, created_at, updated_at FROM programs WHERE id = $1")).
		WithArgs("git").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "group_count", "created_at", "updated_at"}).AddRow("git", "GIT", 3, now, now))

	program, err := repo.FindByID(context.Background(), "git")
	require.NoError(t, err)
	assert.Equal(t, 3, program.GroupCount)
	assert.True(t, program.HasGroup(3))
	assert.False(t, program.HasGroup(4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
