package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/middleware"
	"github.com/noah-isme/edt-api/internal/service"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
	"github.com/noah-isme/edt-api/pkg/response"
)

type freeSlotAnalyzer interface {
	Analyze(ctx context.Context, query dto.FreeSlotQuery) (*dto.FreeSlotReport, bool, error)
}

// FreeSlotHandler reports which professors and rooms can still be booked.
type FreeSlotHandler struct {
	service freeSlotAnalyzer
}

// NewFreeSlotHandler constructs the handler.
func NewFreeSlotHandler(svc *service.FreeSlotService) *FreeSlotHandler {
	return &FreeSlotHandler{service: svc}
}

// Analyze godoc
// @Summary Free slot analysis
// @Description Aggregates declared availability. Persisted timetables are not subtracted.
// @Tags FreeSlots
// @Produce json
// @Param day query string false "Day"
// @Param timeslot query string false "Time slot"
// @Param type query string false "professor or room"
// @Success 200 {object} response.Envelope
// @Router /free-slots [get]
func (h *FreeSlotHandler) Analyze(c *gin.Context) {
	var query dto.FreeSlotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid free slot query"))
		return
	}
	report, hit, err := h.service.Analyze(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	respondOK(c, report)
}
