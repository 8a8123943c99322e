package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/models"
)

// UserTrophyHandler serves /usersTrophies.
type UserTrophyHandler struct {
	userScope
	links core.TrophyLinker
}

// NewUserTrophyHandler creates a UserTrophyHandler.
func NewUserTrophyHandler(links core.TrophyLinker, resolver core.IdentityResolver, recorder core.ActivityRecorder, logger *zap.Logger) *UserTrophyHandler {
	return &UserTrophyHandler{
		userScope: userScope{resolver: resolver, recorder: recorder, logger: logger},
		links:     links,
	}
}

// EarnTrophy handles POST /usersTrophies/earn
func (h *UserTrophyHandler) EarnTrophy(c *gin.Context) {
	var req models.UserTrophyRequest
	if _, ok := bindRequest(c, &req, "email and trophyName are required."); !ok {
		return
	}
	userID, ok := h.resolve(c, req.Email)
	if !ok {
		return
	}
	if _, err := h.links.Earn(c.Request.Context(), userID, req.TrophyName); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Earned trophy: "+req.TrophyName)
	c.JSON(http.StatusCreated, EarnedTrophyResponse{Message: "User trophy earned", TrophyName: req.TrophyName, UserID: userID})
}

// ListUserTrophies handles POST /usersTrophies/list
func (h *UserTrophyHandler) ListUserTrophies(c *gin.Context) {
	var req models.EmailRequest
	if _, ok := bindRequest(c, &req, "Email is required to list user trophies."); !ok {
		return
	}
	userID, ok := h.resolve(c, req.Email)
	if !ok {
		return
	}
	trophies, err := h.links.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trophies)
}

// RemoveUserTrophy handles POST /usersTrophies/delete
func (h *UserTrophyHandler) RemoveUserTrophy(c *gin.Context) {
	var req models.UserTrophyRequest
	if _, ok := bindRequest(c, &req, "email and trophyName are required."); !ok {
		return
	}
	userID, ok := h.resolve(c, req.Email)
	if !ok {
		return
	}
	if err := h.links.Remove(c.Request.Context(), userID, req.TrophyName); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Removed trophy from user: "+req.TrophyName)
	c.JSON(http.StatusOK, TrophyResponse{Message: "User trophy removed", TrophyName: req.TrophyName})
}
