package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edt-api/internal/models"
)

func sampleSessions() models.Sessions {
	return models.Sessions{
		{CourseID: "c1", ProfessorID: "p1", RoomID: "r1", Day: models.Lundi, TimeSlot: models.SlotMorning},
		{CourseID: "c2", ProfessorID: "p2", RoomID: "r2", Day: models.Mardi, TimeSlot: models.SlotMidday},
	}
}

func TestAddSessionRejectsOccupiedSlot(t *testing.T) {
	sessions := sampleSessions()
	out, err := AddSession(sessions, models.Session{CourseID: "c3", ProfessorID: "p3", RoomID: "r3", Day: models.Mardi, TimeSlot: models.SlotMidday})

	require.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, sampleSessions(), out)
}

func TestAddSessionAppends(t *testing.T) {
	out, err := AddSession(sampleSessions(), models.Session{CourseID: "c3", Day: models.Samedi, TimeSlot: models.SlotAfternoon})
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestModifySession(t *testing.T) {
	key := models.SlotKey{Day: models.Lundi, TimeSlot: models.SlotMorning}

	out, err := ModifySession(sampleSessions(), key, models.Session{CourseID: "c1", ProfessorID: "p9", RoomID: "r1", Day: models.Lundi, TimeSlot: models.SlotMorning})
	require.NoError(t, err)
	assert.Equal(t, "p9", out[0].ProfessorID)

	out, err = ModifySession(sampleSessions(), key, models.Session{CourseID: "c1", Day: models.Vendredi, TimeSlot: models.SlotMidday})
	require.NoError(t, err)
	assert.Equal(t, models.Vendredi, out[0].Day)

	_, err = ModifySession(sampleSessions(), key, models.Session{CourseID: "c1", Day: models.Mardi, TimeSlot: models.SlotMidday})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	_, err = ModifySession(sampleSessions(), models.SlotKey{Day: models.Samedi, TimeSlot: models.SlotMorning}, models.Session{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSessionIsIdempotent(t *testing.T) {
	key := models.SlotKey{Day: models.Lundi, TimeSlot: models.SlotMorning}
	out := DeleteSession(sampleSessions(), key)
	assert.Len(t, out, 1)
	assert.Len(t, DeleteSession(out, key), 1)
}

func TestMoveSession(t *testing.T) {
	from := models.SlotKey{Day: models.Lundi, TimeSlot: models.SlotMorning}
	free := models.SlotKey{Day: models.Jeudi, TimeSlot: models.SlotAfternoon}
	taken := models.SlotKey{Day: models.Mardi, TimeSlot: models.SlotMidday}

	out, err := MoveSession(sampleSessions(), from, free, false)
	require.NoError(t, err)
	assert.Equal(t, -1, out.Find(from))
	assert.Equal(t, "c1", out[out.Find(free)].CourseID)

	_, err = MoveSession(sampleSessions(), from, taken, false)
	assert.ErrorIs(t, err, ErrSlotOccupied)

	swapped, err := MoveSession(sampleSessions(), from, taken, true)
	require.NoError(t, err)
	assert.Len(t, swapped, 2)
	assert.Equal(t, "c1", swapped[swapped.Find(taken)].CourseID)
	assert.Equal(t, "c2", swapped[swapped.Find(from)].CourseID)

	_, err = MoveSession(sampleSessions(), free, from, false)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
