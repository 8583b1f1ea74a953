package scheduler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edt-api/internal/models"
)

func avail(day models.Day, slots ...models.TimeSlot) models.AvailabilityEntry {
	return models.AvailabilityEntry{Day: day, TimeSlots: slots}
}

func fullWeek() models.Availability {
	out := models.Availability{}
	for _, d := range models.Days {
		out = append(out, avail(d, models.TimeSlots...))
	}
	return out
}

func TestGenerateSingleCourseSingleSlot(t *testing.T) {
	prof := models.Professor{ID: "p1", Availability: models.Availability{avail(models.Lundi, models.SlotMorning)}}
	room := models.Room{ID: "r1", Type: models.RoomOrdinaire, Availability: models.Availability{avail(models.Lundi, models.SlotMorning)}}
	course := models.Course{ID: "c1", Name: "Algorithmique", ProgramID: "GIT", ProfessorIDs: []string{"p1"}}

	state := NewState([]models.Professor{prof}, []models.Room{room}, nil)
	result := NewGenerator(nil).Run([]models.Course{course}, state)

	require.Len(t, result.Sessions, 1)
	assert.Empty(t, result.Conflicts)
	assert.Equal(t, models.Session{CourseID: "c1", ProfessorID: "p1", RoomID: "r1", Day: models.Lundi, TimeSlot: models.SlotMorning}, result.Sessions[0])
}

func TestGenerateProfessorWithoutAvailability(t *testing.T) {
	prof := models.Professor{ID: "p1"}
	room := models.Room{ID: "r1", Type: models.RoomOrdinaire, Availability: models.Availability{avail(models.Lundi, models.SlotMorning)}}
	course := models.Course{ID: "c1", Name: "Algorithmique", ProfessorIDs: []string{"p1"}}

	result := NewGenerator(Greedy{}).Run([]models.Course{course}, NewState([]models.Professor{prof}, []models.Room{room}, nil))

	assert.Empty(t, result.Sessions)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, ReasonInsufficientResources, result.Conflicts[0].Reason)
	assert.Contains(t, result.Messages()[0], "Algorithmique")
}

func TestGeneratePrefersMachineRoomForPracticals(t *testing.T) {
	prof := models.Professor{ID: "p1", Availability: fullWeek()}
	ordinary := models.Room{ID: "ord", Type: models.RoomOrdinaire, Availability: fullWeek()}
	lab := models.Room{ID: "lab", Type: models.RoomMachine, Availability: fullWeek()}
	course := models.Course{ID: "c1", Name: "Réseaux TP1", ProfessorIDs: []string{"p1"}}

	result := NewGenerator(nil).Run([]models.Course{course}, NewState([]models.Professor{prof}, []models.Room{ordinary, lab}, nil))

	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "lab", result.Sessions[0].RoomID)
}

func TestGenerateFallsBackToAnyAvailableRoomType(t *testing.T) {
	prof := models.Professor{ID: "p1", Availability: fullWeek()}
	lab := models.Room{ID: "lab", Type: models.RoomMachine, Availability: fullWeek()}
	emptyOrdinary := models.Room{ID: "ord", Type: models.RoomOrdinaire}
	course := models.Course{ID: "c1", Name: "Analyse", ProfessorIDs: []string{"p1"}}

	result := NewGenerator(nil).Run([]models.Course{course}, NewState([]models.Professor{prof}, []models.Room{emptyOrdinary, lab}, nil))

	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "lab", result.Sessions[0].RoomID)
}

func TestGenerateIgnoresIneligibleProfessors(t *testing.T) {
	eligible := models.Professor{ID: "p2", Availability: models.Availability{avail(models.Mardi, models.SlotMidday)}}
	other := models.Professor{ID: "p1", Availability: fullWeek()}
	room := models.Room{ID: "r1", Type: models.RoomOrdinaire, Availability: fullWeek()}
	course := models.Course{ID: "c1", Name: "Compilation", ProfessorIDs: []string{"p2"}}

	result := NewGenerator(nil).Run([]models.Course{course}, NewState([]models.Professor{other, eligible}, []models.Room{room}, nil))

	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "p2", result.Sessions[0].ProfessorID)
	assert.Equal(t, models.Mardi, result.Sessions[0].Day)
	assert.Equal(t, models.SlotMidday, result.Sessions[0].TimeSlot)
}

func TestGenerateIsGreedyAndOrderDependent(t *testing.T) {
	// c1 takes the only slot c2 could use; the generator does not backtrack.
	shared := models.Professor{ID: "p1", Availability: models.Availability{avail(models.Lundi, models.SlotMorning, models.SlotMidday)}}
	narrow := models.Professor{ID: "p2", Availability: models.Availability{avail(models.Lundi, models.SlotMorning)}}
	room := models.Room{ID: "r1", Type: models.RoomOrdinaire, Availability: fullWeek()}
	c1 := models.Course{ID: "c1", Name: "Maths", ProfessorIDs: []string{"p1"}}
	c2 := models.Course{ID: "c2", Name: "Physique", ProfessorIDs: []string{"p2"}}

	result := NewGenerator(nil).Run([]models.Course{c1, c2}, NewState([]models.Professor{shared, narrow}, []models.Room{room}, nil))

	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "c1", result.Sessions[0].CourseID)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, ReasonNoFreeSlot, result.Conflicts[0].Reason)

	reversed := NewGenerator(nil).Run([]models.Course{c2, c1}, NewState([]models.Professor{shared, narrow}, []models.Room{room}, nil))
	assert.Len(t, reversed.Sessions, 2)
	assert.Empty(t, reversed.Conflicts)
}

func TestGenerateSharedStateAcrossGroups(t *testing.T) {
	prof := models.Professor{ID: "p1", Availability: models.Availability{avail(models.Lundi, models.SlotMorning, models.SlotMidday)}}
	room := models.Room{ID: "r1", Type: models.RoomOrdinaire, Availability: fullWeek()}
	course := models.Course{ID: "c1", Name: "Maths", ProfessorIDs: []string{"p1"}}

	state := NewState([]models.Professor{prof}, []models.Room{room}, nil)
	gen := NewGenerator(nil)
	first := gen.Run([]models.Course{course}, state)
	second := gen.Run([]models.Course{course}, state)

	require.Len(t, first.Sessions, 1)
	require.Len(t, second.Sessions, 1)
	assert.Equal(t, models.SlotMorning, first.Sessions[0].TimeSlot)
	assert.Equal(t, models.SlotMidday, second.Sessions[0].TimeSlot)
	assert.Len(t, state.GroupSessions(), 1)
}

func TestGenerateRespectsSeededOccupancy(t *testing.T) {
	prof := models.Professor{ID: "p1", Availability: models.Availability{avail(models.Lundi, models.SlotMorning)}}
	room := models.Room{ID: "r1", Type: models.RoomOrdinaire, Availability: fullWeek()}
	course := models.Course{ID: "c1", Name: "Maths", ProfessorIDs: []string{"p1"}}
	seed := models.Sessions{{CourseID: "x", ProfessorID: "p1", RoomID: "r9", Day: models.Lundi, TimeSlot: models.SlotMorning}}

	result := NewGenerator(nil).Run([]models.Course{course}, NewState([]models.Professor{prof}, []models.Room{room}, seed))

	assert.Empty(t, result.Sessions)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, ReasonNoFreeSlot, result.Conflicts[0].Reason)
}

func TestGenerateInvariantsOnRandomCatalogs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iteration := 0; iteration < 50; iteration++ {
		professors := make([]models.Professor, 4)
		for i := range professors {
			professors[i] = models.Professor{ID: fmt.Sprintf("p%d", i), Availability: randomAvailability(rng)}
		}
		rooms := make([]models.Room, 3)
		for i := range rooms {
			kind := models.RoomOrdinaire
			if i == 0 {
				kind = models.RoomMachine
			}
			rooms[i] = models.Room{ID: fmt.Sprintf("r%d", i), Type: kind, Availability: randomAvailability(rng)}
		}
		courses := make([]models.Course, 12)
		for i := range courses {
			name := fmt.Sprintf("Cours %d", i)
			if i%4 == 0 {
				name = fmt.Sprintf("TP %d", i)
			}
			courses[i] = models.Course{ID: fmt.Sprintf("c%d", i), Name: name, ProfessorIDs: []string{professors[rng.Intn(4)].ID, professors[rng.Intn(4)].ID}}
		}

		state := NewState(professors, rooms, nil)
		gen := NewGenerator(nil)
		var all models.Sessions
		for group := 0; group < 3; group++ {
			result := gen.Run(courses, state)
			assert.Equal(t, len(courses), len(result.Sessions)+len(result.Conflicts))

			groupSlots := map[models.SlotKey]bool{}
			for _, s := range result.Sessions {
				require.False(t, groupSlots[s.Key()], "group double-booked at %v", s.Key())
				groupSlots[s.Key()] = true
			}
			all = append(all, result.Sessions...)
		}

		profSlots := map[string]bool{}
		roomSlots := map[string]bool{}
		for _, s := range all {
			pk := s.ProfessorID + string(s.Day) + string(s.TimeSlot)
			rk := s.RoomID + string(s.Day) + string(s.TimeSlot)
			require.False(t, profSlots[pk], "professor double-booked: %s", pk)
			require.False(t, roomSlots[rk], "room double-booked: %s", rk)
			profSlots[pk] = true
			roomSlots[rk] = true
			assert.True(t, findProfessor(professors, s.ProfessorID).Availability.Has(s.Day, s.TimeSlot))
			assert.True(t, findRoom(rooms, s.RoomID).Availability.Has(s.Day, s.TimeSlot))
		}
	}
}

func TestStrategyByName(t *testing.T) {
	s, err := StrategyByName("GREEDY")
	require.NoError(t, err)
	assert.IsType(t, Greedy{}, s)

	_, err = StrategyByName("backtracking")
	assert.Error(t, err)
}

func TestWouldConflictScopes(t *testing.T) {
	existing := models.Sessions{{CourseID: "c1", ProfessorID: "p1", RoomID: "r1", Day: models.Jeudi, TimeSlot: models.SlotAfternoon}}
	sameSlotOtherResources := models.Session{ProfessorID: "p2", RoomID: "r2", Day: models.Jeudi, TimeSlot: models.SlotAfternoon}
	sameProfessor := models.Session{ProfessorID: "p1", RoomID: "r2", Day: models.Jeudi, TimeSlot: models.SlotAfternoon}
	otherSlot := models.Session{ProfessorID: "p1", RoomID: "r1", Day: models.Jeudi, TimeSlot: models.SlotMorning}

	assert.True(t, WouldConflict(sameSlotOtherResources, existing, ScopeSingle))
	assert.False(t, WouldConflict(sameSlotOtherResources, existing, ScopeGlobal))
	assert.True(t, WouldConflict(sameProfessor, existing, ScopeGlobal))
	assert.False(t, WouldConflict(otherSlot, existing, ScopeSingle))
	assert.False(t, WouldConflict(otherSlot, existing, ScopeGlobal))
}

func randomAvailability(rng *rand.Rand) models.Availability {
	out := models.Availability{}
	for _, d := range models.Days {
		var slots []models.TimeSlot
		for _, s := range models.TimeSlots {
			if rng.Intn(2) == 0 {
				slots = append(slots, s)
			}
		}
		if len(slots) > 0 {
			out = append(out, avail(d, slots...))
		}
	}
	return out
}

func findProfessor(list []models.Professor, id string) models.Professor {
	for _, p := range list {
		if p.ID == id {
			return p
		}
	}
	return models.Professor{}
}

func findRoom(list []models.Room, id string) models.Room {
	for _, r := range list {
		if r.ID == id {
			return r
		}
	}
	return models.Room{}
}
