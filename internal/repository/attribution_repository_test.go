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

func TestAttributionRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttributionRepository(db)

	expires := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectExec("INSERT INTO temporary_attributions").
		WithArgs(sqlmock.AnyArg(), "p1", "r1", "c1", "git", 1, "Lundi", "08h30 - 11h30", expires, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	attribution := &models.TemporaryAttribution{
		ProfessorID: "p1", RoomID: "r1", CourseID: "c1", ProgramID: "git", GroupNumber: 1,
		Day: models.Lundi, TimeSlot: models.SlotMorning, ExpiresAt: expires,
	}
	require.NoError(t, repo.Create(context.Background(), attribution))
	assert.NotEmpty(t, attribution.ID)

	past := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "professor_id", "room_id", "course_id", "program_id", "group_number", "day", "time_slot", "expires_at", "created_at"}).
		AddRow("a1", "p1", "r1", "c1", "git", 1, "Lundi", "08h30 - 11h30", past, past)
	mock.ExpectQuery(regexp.QuoteMeta("FROM temporary_attributions ORDER BY created_at DESC, id")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsExpired(time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttributionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM temporary_attributions WHERE id = $1")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "a1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM temporary_attributions WHERE id = $1")).
		WithArgs("a2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "a2"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributionRepositoryDeleteExpired(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttributionRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM temporary_attributions WHERE expires_at < $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
