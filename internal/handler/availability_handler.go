package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	"github.com/noah-isme/edt-api/internal/service"
	"github.com/noah-isme/edt-api/pkg/response"
)

type availabilityManager interface {
	SetProfessorAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (models.Availability, error)
	GetProfessorAvailability(ctx context.Context, id string) (models.Availability, error)
	SetRoomAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (models.Availability, error)
	GetRoomAvailability(ctx context.Context, id string) (models.Availability, error)
}

// AvailabilityHandler reads and replaces resource availability.
type AvailabilityHandler struct {
	service availabilityManager
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// SetProfessor godoc
// @Summary Replace professor availability
// @Description The payload replaces the whole availability; an empty list is allowed.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Professor ID"
// @Param payload body dto.SetAvailabilityRequest true "Availability"
// @Success 200 {object} response.Envelope
// @Router /professors/{id}/availability [put]
func (h *AvailabilityHandler) SetProfessor(c *gin.Context) {
	var req dto.SetAvailabilityRequest
	if !bindJSON(c, &req, "invalid availability payload") {
		return
	}
	availability, err := h.service.SetProfessorAvailability(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, availability)
}

// GetProfessor godoc
// @Summary Get professor availability
// @Tags Availability
// @Produce json
// @Param id path string true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /professors/{id}/availability [get]
func (h *AvailabilityHandler) GetProfessor(c *gin.Context) {
	availability, err := h.service.GetProfessorAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, availability)
}

// SetRoom godoc
// @Summary Replace room availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body dto.SetAvailabilityRequest true "Availability"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/availability [put]
func (h *AvailabilityHandler) SetRoom(c *gin.Context) {
	var req dto.SetAvailabilityRequest
	if !bindJSON(c, &req, "invalid availability payload") {
		return
	}
	availability, err := h.service.SetRoomAvailability(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, availability)
}

// GetRoom godoc
// @Summary Get room availability
// @Tags Availability
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/availability [get]
func (h *AvailabilityHandler) GetRoom(c *gin.Context) {
	availability, err := h.service.GetRoomAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, availability)
}
