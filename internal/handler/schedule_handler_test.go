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
	"github.com/noah-isme/edt-api/internal/service"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

type timetableMock struct {
	generateReq dto.GenerateScheduleRequest
	generateAll dto.GenerateAllRequest
	listQuery   dto.ScheduleQuery
	deleted     dto.SlotRequest
	moved       dto.MoveSessionRequest
	scheduleID  string
	err         error
}

func (m *timetableMock) view() *dto.ScheduleView {
	return &dto.ScheduleView{ID: "s1", ProgramID: "p1", Group: 1, Sessions: []dto.SessionView{}, Conflicts: []string{}}
}

func (m *timetableMock) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	m.generateReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.GenerateScheduleResponse{Schedule: *m.view(), Conflicts: []string{"Algebra"}, TotalConflicts: 1}, nil
}

func (m *timetableMock) GenerateAll(ctx context.Context, req dto.GenerateAllRequest) ([]dto.GenerateScheduleResponse, error) {
	m.generateAll = req
	return []dto.GenerateScheduleResponse{{Schedule: *m.view()}, {Schedule: *m.view()}}, m.err
}

func (m *timetableMock) Get(ctx context.Context, id string) (*dto.ScheduleView, error) {
	m.scheduleID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.view(), nil
}

func (m *timetableMock) List(ctx context.Context, query dto.ScheduleQuery) ([]dto.ScheduleView, error) {
	m.listQuery = query
	return []dto.ScheduleView{*m.view()}, m.err
}

func (m *timetableMock) AddSession(ctx context.Context, scheduleID string, req dto.SessionRequest) (*dto.ScheduleView, error) {
	m.scheduleID = scheduleID
	if m.err != nil {
		return nil, m.err
	}
	return m.view(), nil
}

func (m *timetableMock) ModifySession(ctx context.Context, scheduleID string, req dto.ModifySessionRequest) (*dto.ScheduleView, error) {
	m.scheduleID = scheduleID
	return m.view(), m.err
}

func (m *timetableMock) DeleteSession(ctx context.Context, scheduleID string, slot dto.SlotRequest) (*dto.ScheduleView, error) {
	m.scheduleID = scheduleID
	m.deleted = slot
	return m.view(), m.err
}

func (m *timetableMock) MoveSession(ctx context.Context, scheduleID string, req dto.MoveSessionRequest) (*dto.ScheduleView, error) {
	m.scheduleID = scheduleID
	m.moved = req
	return m.view(), m.err
}

type exporterMock struct {
	format string
	err    error
}

func (m *exporterMock) Export(ctx context.Context, scheduleID, format string) (*service.ExportFile, error) {
	m.format = format
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportFile{Filename: "edt_l1_g1.csv", ContentType: "text/csv", Payload: []byte("Jour,08h30 - 11h30\n")}, nil
}

func TestScheduleGenerateReturnsConflicts(t *testing.T) {
	svc := &timetableMock{}
	h := &ScheduleHandler{service: svc}
	c, w := newTestContext(http.MethodPost, "/schedules/generate", mustJSON(t, dto.GenerateScheduleRequest{ProgramID: "p1", Group: 2}))

	h.Generate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "p1", svc.generateReq.ProgramID)
	assert.Equal(t, 2, svc.generateReq.Group)

	var res dto.GenerateScheduleResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.Equal(t, []string{"Algebra"}, res.Conflicts)
	assert.Equal(t, "s1", res.Schedule.ID)
}

func TestScheduleGenerateMalformedBody(t *testing.T) {
	h := &ScheduleHandler{service: &timetableMock{}}
	c, w := newTestContext(http.MethodPost, "/schedules/generate", []byte(`{"programId":`))

	h.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, w).Error.Code)
}

func TestScheduleGenerateNoCourses(t *testing.T) {
	h := &ScheduleHandler{service: &timetableMock{err: appErrors.ErrNoCourses}}
	c, w := newTestContext(http.MethodPost, "/schedules/generate", mustJSON(t, dto.GenerateScheduleRequest{ProgramID: "p1", Group: 1}))

	h.Generate(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, appErrors.ErrNoCourses.Code, decodeEnvelope(t, w).Error.Code)
}

func TestScheduleGenerateAll(t *testing.T) {
	svc := &timetableMock{}
	h := &ScheduleHandler{service: svc}
	c, w := newTestContext(http.MethodPost, "/schedules/generate-all", mustJSON(t, dto.GenerateAllRequest{ProgramID: "p1"}))

	h.GenerateAll(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "p1", svc.generateAll.ProgramID)
	var res []dto.GenerateScheduleResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.Len(t, res, 2)
}

func TestScheduleListBindsQuery(t *testing.T) {
	svc := &timetableMock{}
	h := &ScheduleHandler{service: svc}
	c, w := newTestContext(http.MethodGet, "/schedules?programId=p1&group=3", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ScheduleQuery{ProgramID: "p1", Group: 3}, svc.listQuery)
}

func TestScheduleListRejectsBadGroup(t *testing.T) {
	h := &ScheduleHandler{service: &timetableMock{}}
	c, w := newTestContext(http.MethodGet, "/schedules?group=abc", nil)

	h.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleGetNotFound(t *testing.T) {
	svc := &timetableMock{err: appErrors.Clone(appErrors.ErrNotFound, "schedule not found")}
	h := &ScheduleHandler{service: svc}
	c, w := newTestContext(http.MethodGet, "/schedules/missing", nil, gin.Param{Key: "id", Value: "missing"})

	h.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "missing", svc.scheduleID)
}

func TestScheduleAddSessionOccupied(t *testing.T) {
	h := &ScheduleHandler{service: &timetableMock{err: appErrors.ErrSlotOccupied}}
	body := mustJSON(t, dto.SessionRequest{CourseID: "c1", ProfessorID: "pr1", RoomID: "r1", Day: "Lundi", TimeSlot: "08h30 - 11h30"})
	c, w := newTestContext(http.MethodPost, "/schedules/s1/sessions", body, gin.Param{Key: "id", Value: "s1"})

	h.AddSession(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrSlotOccupied.Code, decodeEnvelope(t, w).Error.Code)
}

func TestScheduleModifySession(t *testing.T) {
	svc := &timetableMock{}
	h := &ScheduleHandler{service: svc}
	body := mustJSON(t, dto.ModifySessionRequest{
		From:    dto.SlotRequest{Day: "Lundi", TimeSlot: "08h30 - 11h30"},
		Session: dto.SessionRequest{CourseID: "c1", ProfessorID: "pr1", RoomID: "r2", Day: "Lundi", TimeSlot: "08h30 - 11h30"},
	})
	c, w := newTestContext(http.MethodPut, "/schedules/s1/sessions", body, gin.Param{Key: "id", Value: "s1"})

	h.ModifySession(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", svc.scheduleID)
}

func TestScheduleDeleteSessionReadsQuery(t *testing.T) {
	svc := &timetableMock{}
	h := &ScheduleHandler{service: svc}
	c, w := newTestContext(http.MethodDelete, "/schedules/s1/sessions?day=Mardi&timeslot=12h00%20-%2015h00", nil, gin.Param{Key: "id", Value: "s1"})

	h.DeleteSession(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Day("Mardi"), svc.deleted.Key().Day)
	assert.Equal(t, models.TimeSlot("12h00 - 15h00"), svc.deleted.Key().TimeSlot)
}

func TestScheduleMoveSessionSwap(t *testing.T) {
	svc := &timetableMock{}
	h := &ScheduleHandler{service: svc}
	body := mustJSON(t, dto.MoveSessionRequest{
		From: dto.SlotRequest{Day: "Lundi", TimeSlot: "08h30 - 11h30"},
		To:   dto.SlotRequest{Day: "Mardi", TimeSlot: "08h30 - 11h30"},
		Swap: true,
	})
	c, w := newTestContext(http.MethodPost, "/schedules/s1/sessions/move", body, gin.Param{Key: "id", Value: "s1"})

	h.MoveSession(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.moved.Swap)
	assert.Equal(t, "Mardi", svc.moved.To.Day)
}

func TestScheduleExportAttachment(t *testing.T) {
	exporter := &exporterMock{}
	h := &ScheduleHandler{service: &timetableMock{}, exporter: exporter}
	c, w := newTestContext(http.MethodGet, "/schedules/s1/export?format=csv", nil, gin.Param{Key: "id", Value: "s1"})

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "edt_l1_g1.csv")
	assert.Equal(t, "Jour,08h30 - 11h30\n", w.Body.String())
}

func TestScheduleExportInvalidFormat(t *testing.T) {
	h := &ScheduleHandler{exporter: &exporterMock{err: appErrors.Clone(appErrors.ErrValidation, "unsupported export format")}}
	c, w := newTestContext(http.MethodGet, "/schedules/s1/export?format=xls", nil, gin.Param{Key: "id", Value: "s1"})

	h.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
