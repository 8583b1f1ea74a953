package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/service"
	"github.com/noah-isme/edt-api/pkg/response"
)

type attributionManager interface {
	Create(ctx context.Context, req dto.CreateAttributionRequest) (*dto.AttributionView, error)
	List(ctx context.Context) ([]dto.AttributionView, error)
	Get(ctx context.Context, id string) (*dto.AttributionView, error)
	Delete(ctx context.Context, id string) error
	SweepExpired(ctx context.Context) (*dto.SweepResult, error)
}

// AttributionHandler manages temporary room and professor bookings.
type AttributionHandler struct {
	service attributionManager
}

// NewAttributionHandler constructs the handler.
func NewAttributionHandler(svc *service.AttributionService) *AttributionHandler {
	return &AttributionHandler{service: svc}
}

// Create godoc
// @Summary Create temporary attribution
// @Description The attribution expires seven days after creation unless configured otherwise.
// @Tags Attributions
// @Accept json
// @Produce json
// @Param payload body dto.CreateAttributionRequest true "Attribution"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attributions [post]
func (h *AttributionHandler) Create(c *gin.Context) {
	var req dto.CreateAttributionRequest
	if !bindJSON(c, &req, "invalid attribution payload") {
		return
	}
	attribution, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attribution)
}

// List godoc
// @Summary List attributions
// @Tags Attributions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attributions [get]
func (h *AttributionHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, items)
}

// Get godoc
// @Summary Get attribution
// @Tags Attributions
// @Produce json
// @Param id path string true "Attribution ID"
// @Success 200 {object} response.Envelope
// @Router /attributions/{id} [get]
func (h *AttributionHandler) Get(c *gin.Context) {
	attribution, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, attribution)
}

// Delete godoc
// @Summary Delete attribution
// @Tags Attributions
// @Param id path string true "Attribution ID"
// @Success 204
// @Router /attributions/{id} [delete]
func (h *AttributionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Sweep godoc
// @Summary Purge expired attributions
// @Tags Attributions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attributions/sweep [post]
func (h *AttributionHandler) Sweep(c *gin.Context) {
	result, err := h.service.SweepExpired(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}
