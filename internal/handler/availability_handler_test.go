package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

type availabilityMock struct {
	target string
	req    dto.SetAvailabilityRequest
	err    error
}

func (m *availabilityMock) SetProfessorAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (models.Availability, error) {
	m.target, m.req = "professor:"+id, req
	return dto.ToAvailability(req.Availability), m.err
}

func (m *availabilityMock) GetProfessorAvailability(ctx context.Context, id string) (models.Availability, error) {
	m.target = "professor:" + id
	return models.Availability{{Day: models.Lundi, TimeSlots: []models.TimeSlot{models.SlotMorning}}}, m.err
}

func (m *availabilityMock) SetRoomAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (models.Availability, error) {
	m.target, m.req = "room:"+id, req
	return dto.ToAvailability(req.Availability), m.err
}

func (m *availabilityMock) GetRoomAvailability(ctx context.Context, id string) (models.Availability, error) {
	m.target = "room:" + id
	return models.Availability{}, m.err
}

func TestAvailabilitySetProfessorEmptyList(t *testing.T) {
	svc := &availabilityMock{}
	h := &AvailabilityHandler{service: svc}
	c, w := newTestContext(http.MethodPut, "/professors/pr1/availability", []byte(`{"availability":[]}`), gin.Param{Key: "id", Value: "pr1"})

	h.SetProfessor(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "professor:pr1", svc.target)
	var availability models.Availability
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &availability))
	assert.Empty(t, availability)
}

func TestAvailabilitySetRoom(t *testing.T) {
	svc := &availabilityMock{}
	h := &AvailabilityHandler{service: svc}
	body := []byte(`{"availability":[{"day":"Mardi","timeslots":["08h30 - 11h30","08h30 - 11h30"]}]}`)
	c, w := newTestContext(http.MethodPut, "/rooms/r1/availability", body, gin.Param{Key: "id", Value: "r1"})

	h.SetRoom(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "room:r1", svc.target)
	var availability models.Availability
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &availability))
	require.Len(t, availability, 1)
	assert.Len(t, availability[0].TimeSlots, 1)
}

func TestAvailabilityGetProfessor(t *testing.T) {
	h := &AvailabilityHandler{service: &availabilityMock{}}
	c, w := newTestContext(http.MethodGet, "/professors/pr1/availability", nil, gin.Param{Key: "id", Value: "pr1"})

	h.GetProfessor(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAvailabilityGetRoomMissing(t *testing.T) {
	h := &AvailabilityHandler{service: &availabilityMock{err: appErrors.Clone(appErrors.ErrNotFound, "room not found")}}
	c, w := newTestContext(http.MethodGet, "/rooms/zz/availability", nil, gin.Param{Key: "id", Value: "zz"})

	h.GetRoom(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityMalformedBody(t *testing.T) {
	h := &AvailabilityHandler{service: &availabilityMock{}}
	c, w := newTestContext(http.MethodPut, "/rooms/r1/availability", []byte(`{"availability":"x"}`), gin.Param{Key: "id", Value: "r1"})

	h.SetRoom(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
