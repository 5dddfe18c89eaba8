package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tasktracker-backend/internal/dispatch"
)

// DispatchHandler exposes the dispatch cycle as an HTTP trigger, so an
// external scheduler can drive it instead of the in-process cron.
type DispatchHandler struct {
	coordinator *dispatch.Coordinator
}

func NewDispatchHandler(coordinator *dispatch.Coordinator) *DispatchHandler {
	return &DispatchHandler{coordinator: coordinator}
}

// Run executes one dispatch cycle and returns its summary
// POST /api/internal/dispatch
func (h *DispatchHandler) Run(c *gin.Context) {
	summary, err := h.coordinator.Run(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
