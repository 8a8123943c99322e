package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/models"
)

// ActivityHandler serves /activity.
type ActivityHandler struct {
	userScope
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(resolver core.IdentityResolver, recorder core.ActivityRecorder, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{userScope: userScope{resolver: resolver, recorder: recorder, logger: logger}}
}

// ListActivity handles POST /activity/list. Without an email every entry is returned.
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	var req models.OptionalEmailRequest
	if _, ok := bindRequest(c, &req, ""); !ok {
		return
	}
	var userID string
	if req.Email != "" {
		var ok bool
		if userID, ok = h.resolve(c, req.Email); !ok {
			return
		}
	}
	entries, err := h.recorder.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
