package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/models"
)

// TrophyHandler serves /trophies, the global trophy definitions.
type TrophyHandler struct {
	trophies core.ResourceRepository
	logger   *zap.Logger
}

// NewTrophyHandler creates a TrophyHandler.
func NewTrophyHandler(trophies core.ResourceRepository, logger *zap.Logger) *TrophyHandler {
	return &TrophyHandler{trophies: trophies, logger: logger}
}

func (h *TrophyHandler) key(c *gin.Context, trophyName string) (core.Key, bool) {
	key, err := h.trophies.KeyOf(trophyName)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return key, true
}

// CreateTrophy handles POST /trophies/create
func (h *TrophyHandler) CreateTrophy(c *gin.Context) {
	var req models.TrophyKeyRequest
	raw, ok := bindRequest(c, &req, "trophyName is required to create a trophy.")
	if !ok {
		return
	}
	key, ok := h.key(c, req.TrophyName)
	if !ok {
		return
	}
	if _, err := h.trophies.Create(c.Request.Context(), key, raw); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, TrophyResponse{Message: "Trophy created", TrophyName: req.TrophyName})
}

// GetTrophy handles POST /trophies/get
func (h *TrophyHandler) GetTrophy(c *gin.Context) {
	var req models.TrophyKeyRequest
	if _, ok := bindRequest(c, &req, "trophyName is required."); !ok {
		return
	}
	key, ok := h.key(c, req.TrophyName)
	if !ok {
		return
	}
	trophy, err := h.trophies.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trophy)
}

// ListTrophies handles POST /trophies/list
func (h *TrophyHandler) ListTrophies(c *gin.Context) {
	trophies, err := h.trophies.List(c.Request.Context(), nil)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trophies)
}

// UpdateTrophy handles POST /trophies/update. Only displayName, description,
// points and a rename through newTrophyName are applied.
func (h *TrophyHandler) UpdateTrophy(c *gin.Context) {
	var req models.UpdateTrophyRequest
	raw, ok := bindRequest(c, &req, "trophyName is required to update a trophy.")
	if !ok {
		return
	}
	key, ok := h.key(c, req.TrophyName)
	if !ok {
		return
	}
	patch := without(raw, "trophyName", "newTrophyName")
	newName := req.TrophyName
	if req.NewTrophyName != "" {
		patch["trophyName"] = req.NewTrophyName
		newName = req.NewTrophyName
	}
	if _, err := h.trophies.Update(c.Request.Context(), key, patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, TrophyRenameResponse{Message: "Trophy updated", OldName: req.TrophyName, NewName: newName})
}

// DeleteTrophy handles POST /trophies/delete. Links users hold to the trophy are left in place.
func (h *TrophyHandler) DeleteTrophy(c *gin.Context) {
	var req models.TrophyKeyRequest
	if _, ok := bindRequest(c, &req, "trophyName is required to delete a trophy."); !ok {
		return
	}
	key, ok := h.key(c, req.TrophyName)
	if !ok {
		return
	}
	if _, err := h.trophies.Delete(c.Request.Context(), key); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, TrophyResponse{Message: "Trophy deleted", TrophyName: req.TrophyName})
}
