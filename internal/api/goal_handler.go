package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/models"
)

// GoalHandler serves /goals.
type GoalHandler struct {
	userScope
	goals core.ResourceRepository
}

// NewGoalHandler creates a GoalHandler.
func NewGoalHandler(goals core.ResourceRepository, resolver core.IdentityResolver, recorder core.ActivityRecorder, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{
		userScope: userScope{resolver: resolver, recorder: recorder, logger: logger},
		goals:     goals,
	}
}

func (h *GoalHandler) keyFor(c *gin.Context, email, goalName string) (string, core.Key, bool) {
	userID, ok := h.resolve(c, email)
	if !ok {
		return "", nil, false
	}
	key, err := h.goals.KeyOf(userID, goalName)
	if err != nil {
		respondError(c, h.logger, err)
		return "", nil, false
	}
	return userID, key, true
}

// CreateGoal handles POST /goals/create
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req models.CreateGoalRequest
	raw, ok := bindRequest(c, &req, "Missing required fields.")
	if !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.GoalName)
	if !ok {
		return
	}
	id, err := h.goals.Create(c.Request.Context(), key, raw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Created goal: "+req.GoalName)
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Goal created", ID: id})
}

// GetGoal handles POST /goals/get
func (h *GoalHandler) GetGoal(c *gin.Context) {
	var req models.GoalKeyRequest
	if _, ok := bindRequest(c, &req, "Email and goalName are required to retrieve a goal."); !ok {
		return
	}
	_, key, ok := h.keyFor(c, req.Email, req.GoalName)
	if !ok {
		return
	}
	goal, err := h.goals.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// UpdateGoal handles POST /goals/update. newGoalName renames the goal.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var req models.UpdateGoalRequest
	raw, ok := bindRequest(c, &req, "Email and goalName are required to update a goal.")
	if !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.GoalName)
	if !ok {
		return
	}
	patch := without(raw, "email", "goalName", "newGoalName")
	if req.NewGoalName != "" {
		patch["goalName"] = req.NewGoalName
	}
	if _, err := h.goals.Update(c.Request.Context(), key, patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Updated goal: "+req.GoalName)
	c.JSON(http.StatusOK, MessageResponse{Message: "Goal updated"})
}

// ListGoals handles POST /goals/list
func (h *GoalHandler) ListGoals(c *gin.Context) {
	var req models.EmailRequest
	if _, ok := bindRequest(c, &req, "Email is required to list goals."); !ok {
		return
	}
	h.list(c, req.Email, map[string]interface{}{})
}

// ListGoalsByStatus handles POST /goals/list-by-status
func (h *GoalHandler) ListGoalsByStatus(c *gin.Context) {
	var req models.ListByStatusRequest
	if _, ok := bindRequest(c, &req, "Email and status are required."); !ok {
		return
	}
	h.list(c, req.Email, map[string]interface{}{"status": req.Status})
}

func (h *GoalHandler) list(c *gin.Context, email string, fields map[string]interface{}) {
	userID, ok := h.resolve(c, email)
	if !ok {
		return
	}
	fields["userId"] = userID
	filters, err := h.goals.Filters(fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	goals, err := h.goals.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// DeleteGoal handles POST /goals/delete
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	var req models.GoalKeyRequest
	if _, ok := bindRequest(c, &req, "Email and goalName are required to delete a goal."); !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.GoalName)
	if !ok {
		return
	}
	if _, err := h.goals.Delete(c.Request.Context(), key); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Deleted goal: "+req.GoalName)
	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted"})
}
