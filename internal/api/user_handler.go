package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/models"
)

// UserHandler serves /users and /users/settings.
type UserHandler struct {
	userScope
	users    core.ResourceRepository
	settings core.SettingsService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users core.ResourceRepository, settings core.SettingsService, resolver core.IdentityResolver, recorder core.ActivityRecorder, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userScope: userScope{resolver: resolver, recorder: recorder, logger: logger},
		users:     users,
		settings:  settings,
	}
}

// CreateUser handles POST /users/create
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.EmailRequest
	raw, ok := bindRequest(c, &req, "Email is required to create a user.")
	if !ok {
		return
	}
	key, err := h.users.KeyOf(req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	id, err := h.users.Create(c.Request.Context(), key, raw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, UserResponse{Message: "User created", UserID: id})
}

// GetUser handles POST /users/get
func (h *UserHandler) GetUser(c *gin.Context) {
	var req models.EmailRequest
	if _, ok := bindRequest(c, &req, "Email is required to retrieve user."); !ok {
		return
	}
	key, err := h.users.KeyOf(req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles POST /users/update. Every field but email is merged.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req models.EmailRequest
	raw, ok := bindRequest(c, &req, "Email is required to update user.")
	if !ok {
		return
	}
	key, err := h.users.KeyOf(req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	userID, err := h.users.Update(c.Request.Context(), key, without(raw, "email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.resolver.Forget(c.Request.Context(), req.Email)
	h.record(c, userID, "Updated user profile")
	c.JSON(http.StatusOK, UserResponse{Message: "User updated", UserID: userID})
}

// GetSettings handles POST /users/settings/get
func (h *UserHandler) GetSettings(c *gin.Context) {
	var req models.EmailRequest
	if _, ok := bindRequest(c, &req, "Email is required to get settings."); !ok {
		return
	}
	userID, ok := h.resolve(c, req.Email)
	if !ok {
		return
	}
	settings, err := h.settings.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles POST /users/settings/update
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req models.EmailRequest
	raw, ok := bindRequest(c, &req, "Email is required to update settings.")
	if !ok {
		return
	}
	userID, ok := h.resolve(c, req.Email)
	if !ok {
		return
	}
	if err := h.settings.Update(c.Request.Context(), userID, without(raw, "email")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Updated user settings")
	c.JSON(http.StatusOK, MessageResponse{Message: "Settings updated"})
}
