package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/db"
	"prixfinance-backend-go/internal/models"
)

// BudgetHandler serves /budgets. A user has at most one budget per category.
type BudgetHandler struct {
	userScope
	budgets core.ResourceRepository
}

// NewBudgetHandler creates a BudgetHandler.
func NewBudgetHandler(budgets core.ResourceRepository, resolver core.IdentityResolver, recorder core.ActivityRecorder, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		userScope: userScope{resolver: resolver, recorder: recorder, logger: logger},
		budgets:   budgets,
	}
}

// keyFor resolves the user and builds the budget key, answering the request on failure.
func (h *BudgetHandler) keyFor(c *gin.Context, email, category string) (string, core.Key, bool) {
	userID, ok := h.resolve(c, email)
	if !ok {
		return "", nil, false
	}
	key, err := h.budgets.KeyOf(userID, category)
	if err != nil {
		respondError(c, h.logger, err)
		return "", nil, false
	}
	return userID, key, true
}

// CreateBudget handles POST /budgets/create
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req models.CreateBudgetRequest
	raw, ok := bindRequest(c, &req, "Missing required fields.")
	if !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.Category)
	if !ok {
		return
	}
	id, err := h.budgets.Create(c.Request.Context(), key, raw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Created a new budget for category: "+req.Category)
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Budget created", ID: id})
}

// GetBudget handles POST /budgets/get
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	var req models.BudgetKeyRequest
	if _, ok := bindRequest(c, &req, "Email and category are required to fetch a budget."); !ok {
		return
	}
	_, key, ok := h.keyFor(c, req.Email, req.Category)
	if !ok {
		return
	}
	budget, err := h.budgets.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

// UpdateBudget handles POST /budgets/update. The category itself cannot be changed.
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req models.BudgetKeyRequest
	raw, ok := bindRequest(c, &req, "Email and category are required to update a budget.")
	if !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.Category)
	if !ok {
		return
	}
	if _, err := h.budgets.Update(c.Request.Context(), key, without(raw, "email", "category")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Updated budget for category: "+req.Category)
	c.JSON(http.StatusOK, MessageResponse{Message: "Budget updated"})
}

// ListBudgets handles POST /budgets/list
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	var req models.EmailRequest
	if _, ok := bindRequest(c, &req, "Email is required to list budgets."); !ok {
		return
	}
	userID, ok := h.resolve(c, req.Email)
	if !ok {
		return
	}
	budgets, err := h.budgets.List(c.Request.Context(), []db.Filter{{Field: "userId", Value: userID}})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

// DeleteBudget handles POST /budgets/delete
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	var req models.BudgetKeyRequest
	if _, ok := bindRequest(c, &req, "Email and category are required to delete a budget."); !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.Category)
	if !ok {
		return
	}
	if _, err := h.budgets.Delete(c.Request.Context(), key); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Deleted budget for category: "+req.Category)
	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted"})
}
