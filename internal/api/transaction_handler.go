package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/models"
)

// TransactionHandler serves /transactions. A transaction is identified by
// user, category and date.
type TransactionHandler struct {
	userScope
	transactions core.ResourceRepository
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(transactions core.ResourceRepository, resolver core.IdentityResolver, recorder core.ActivityRecorder, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		userScope:    userScope{resolver: resolver, recorder: recorder, logger: logger},
		transactions: transactions,
	}
}

func (h *TransactionHandler) keyFor(c *gin.Context, email, category string, date interface{}) (string, core.Key, bool) {
	userID, ok := h.resolve(c, email)
	if !ok {
		return "", nil, false
	}
	key, err := h.transactions.KeyOf(userID, category, date)
	if err != nil {
		respondError(c, h.logger, err)
		return "", nil, false
	}
	return userID, key, true
}

func describeTransaction(category string, date interface{}) string {
	return fmt.Sprintf("%s @ %s", category, cast.ToString(date))
}

// CreateTransaction handles POST /transactions/create
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	raw, ok := bindRequest(c, &req, "Missing required fields.")
	if !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.Category, req.TransactionDate)
	if !ok {
		return
	}
	id, err := h.transactions.Create(c.Request.Context(), key, raw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Created transaction: "+describeTransaction(req.Category, req.TransactionDate))
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Transaction created", ID: id})
}

// GetTransaction handles POST /transactions/get
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	var req models.TransactionKeyRequest
	if _, ok := bindRequest(c, &req, "Email, category, transactionDate are required."); !ok {
		return
	}
	_, key, ok := h.keyFor(c, req.Email, req.Category, req.TransactionDate)
	if !ok {
		return
	}
	tx, err := h.transactions.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// UpdateTransaction handles POST /transactions/update. newCategory and newDate
// move the transaction to another key.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req models.UpdateTransactionRequest
	raw, ok := bindRequest(c, &req, "Email, category, and transactionDate are required to update.")
	if !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.Category, req.TransactionDate)
	if !ok {
		return
	}

	patch := without(raw, "email", "category", "transactionDate", "newCategory", "newDate")
	if req.NewCategory != "" {
		patch["category"] = req.NewCategory
	}
	if present(req.NewDate) {
		patch["transactionDate"] = req.NewDate
	}
	if _, err := h.transactions.Update(c.Request.Context(), key, patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Updated transaction "+describeTransaction(req.Category, req.TransactionDate))
	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction updated"})
}

// ListTransactions handles POST /transactions/list
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var req models.EmailRequest
	if _, ok := bindRequest(c, &req, "Email is required to list transactions."); !ok {
		return
	}
	h.list(c, req.Email, nil)
}

// ListTransactionsByCategory handles POST /transactions/list-by-category
func (h *TransactionHandler) ListTransactionsByCategory(c *gin.Context) {
	var req models.ListByCategoryRequest
	if _, ok := bindRequest(c, &req, "Email and category are required."); !ok {
		return
	}
	h.list(c, req.Email, map[string]interface{}{"category": req.Category})
}

func (h *TransactionHandler) list(c *gin.Context, email string, fields map[string]interface{}) {
	userID, ok := h.resolve(c, email)
	if !ok {
		return
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["userId"] = userID
	filters, err := h.transactions.Filters(fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	txs, err := h.transactions.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// DeleteTransaction handles POST /transactions/delete
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	var req models.TransactionKeyRequest
	if _, ok := bindRequest(c, &req, "Email, category, and transactionDate required for delete."); !ok {
		return
	}
	userID, key, ok := h.keyFor(c, req.Email, req.Category, req.TransactionDate)
	if !ok {
		return
	}
	if _, err := h.transactions.Delete(c.Request.Context(), key); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.record(c, userID, "Deleted transaction "+describeTransaction(req.Category, req.TransactionDate))
	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted"})
}
