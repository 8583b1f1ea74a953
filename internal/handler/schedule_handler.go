package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/service"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
	"github.com/noah-isme/edt-api/pkg/response"
)

type timetableManager interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	GenerateAll(ctx context.Context, req dto.GenerateAllRequest) ([]dto.GenerateScheduleResponse, error)
	Get(ctx context.Context, id string) (*dto.ScheduleView, error)
	List(ctx context.Context, query dto.ScheduleQuery) ([]dto.ScheduleView, error)
	AddSession(ctx context.Context, scheduleID string, req dto.SessionRequest) (*dto.ScheduleView, error)
	ModifySession(ctx context.Context, scheduleID string, req dto.ModifySessionRequest) (*dto.ScheduleView, error)
	DeleteSession(ctx context.Context, scheduleID string, slot dto.SlotRequest) (*dto.ScheduleView, error)
	MoveSession(ctx context.Context, scheduleID string, req dto.MoveSessionRequest) (*dto.ScheduleView, error)
}

type scheduleExporter interface {
	Export(ctx context.Context, scheduleID, format string) (*service.ExportFile, error)
}

// ScheduleHandler drives generation, manual edits and exports of timetables.
type ScheduleHandler struct {
	service  timetableManager
	exporter scheduleExporter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.TimetableService, exporter *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Generate a group timetable
// @Description Replaces the stored timetable of the group. Courses that could not be placed are listed as conflicts.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation target"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if !bindJSON(c, &req, "invalid generation payload") {
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GenerateAll godoc
// @Summary Generate every group of a program
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateAllRequest true "Program"
// @Success 201 {object} response.Envelope
// @Router /schedules/generate-all [post]
func (h *ScheduleHandler) GenerateAll(c *gin.Context) {
	var req dto.GenerateAllRequest
	if !bindJSON(c, &req, "invalid generation payload") {
		return
	}
	results, err := h.service.GenerateAll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, results)
}

// List godoc
// @Summary List timetables
// @Tags Schedules
// @Produce json
// @Param programId query string false "Program ID"
// @Param group query int false "Group number"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule query"))
		return
	}
	schedules, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, schedules)
}

// Get godoc
// @Summary Get timetable
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, schedule)
}

// AddSession godoc
// @Summary Place a session manually
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.SessionRequest true "Session"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/{id}/sessions [post]
func (h *ScheduleHandler) AddSession(c *gin.Context) {
	var req dto.SessionRequest
	if !bindJSON(c, &req, "invalid session payload") {
		return
	}
	schedule, err := h.service.AddSession(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, schedule)
}

// ModifySession godoc
// @Summary Replace the session at a slot
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ModifySessionRequest true "Modification"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/sessions [put]
func (h *ScheduleHandler) ModifySession(c *gin.Context) {
	var req dto.ModifySessionRequest
	if !bindJSON(c, &req, "invalid session payload") {
		return
	}
	schedule, err := h.service.ModifySession(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, schedule)
}

// DeleteSession godoc
// @Summary Remove the session at a slot
// @Description Removing an empty slot succeeds and leaves the timetable unchanged.
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Param day query string true "Day"
// @Param timeslot query string true "Time slot"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/sessions [delete]
func (h *ScheduleHandler) DeleteSession(c *gin.Context) {
	var slot dto.SlotRequest
	if err := c.ShouldBindQuery(&slot); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot query"))
		return
	}
	schedule, err := h.service.DeleteSession(c.Request.Context(), c.Param("id"), slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, schedule)
}

// MoveSession godoc
// @Summary Move or swap a session
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.MoveSessionRequest true "Move"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/{id}/sessions/move [post]
func (h *ScheduleHandler) MoveSession(c *gin.Context) {
	var req dto.MoveSessionRequest
	if !bindJSON(c, &req, "invalid move payload") {
		return
	}
	schedule, err := h.service.MoveSession(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, schedule)
}

// Export godoc
// @Summary Download a timetable
// @Tags Schedules
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Schedule ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /schedules/{id}/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
