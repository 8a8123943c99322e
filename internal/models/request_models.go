package models

// Request models declare the fields each endpoint requires. Bodies are also
// kept as raw maps, so these only carry what validation and key lookups need.
// Amount-like fields are interface{} because clients send numbers or numeric strings.

// EmailRequest is the body of every endpoint addressed by email alone.
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// OptionalEmailRequest filters by email when one is given.
type OptionalEmailRequest struct {
	Email string `json:"email"`
}

// CreateBudgetRequest is the body of /budgets/create.
type CreateBudgetRequest struct {
	Email     string      `json:"email" binding:"required"`
	Category  string      `json:"category" binding:"required"`
	Amount    interface{} `json:"amount" binding:"required"`
	StartDate interface{} `json:"startDate" binding:"required"`
	EndDate   interface{} `json:"endDate" binding:"required"`
}

// BudgetKeyRequest addresses one budget.
type BudgetKeyRequest struct {
	Email    string `json:"email" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// CreateTransactionRequest is the body of /transactions/create.
type CreateTransactionRequest struct {
	Email           string      `json:"email" binding:"required"`
	Category        string      `json:"category" binding:"required"`
	Amount          interface{} `json:"amount" binding:"required"`
	TransactionDate interface{} `json:"transactionDate" binding:"required"`
}

// TransactionKeyRequest addresses one transaction.
type TransactionKeyRequest struct {
	Email           string      `json:"email" binding:"required"`
	Category        string      `json:"category" binding:"required"`
	TransactionDate interface{} `json:"transactionDate" binding:"required"`
}

// UpdateTransactionRequest adds the optional re-keying fields.
type UpdateTransactionRequest struct {
	TransactionKeyRequest
	NewCategory string      `json:"newCategory"`
	NewDate     interface{} `json:"newDate"`
}

// ListByCategoryRequest is the body of /transactions/list-by-category.
type ListByCategoryRequest struct {
	Email    string `json:"email" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// CreateGoalRequest is the body of /goals/create.
type CreateGoalRequest struct {
	Email         string      `json:"email" binding:"required"`
	GoalName      string      `json:"goalName" binding:"required"`
	TargetAmount  interface{} `json:"targetAmount" binding:"required"`
	TargetDate    interface{} `json:"targetDate" binding:"required"`
	CurrentAmount interface{} `json:"currentAmount"`
	Status        string      `json:"status"`
}

// GoalKeyRequest addresses one goal.
type GoalKeyRequest struct {
	Email    string `json:"email" binding:"required"`
	GoalName string `json:"goalName" binding:"required"`
}

// UpdateGoalRequest adds the optional rename.
type UpdateGoalRequest struct {
	GoalKeyRequest
	NewGoalName string `json:"newGoalName"`
}

// ListByStatusRequest is the body of /goals/list-by-status.
type ListByStatusRequest struct {
	Email  string `json:"email" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// TrophyKeyRequest addresses one trophy definition.
type TrophyKeyRequest struct {
	TrophyName string `json:"trophyName" binding:"required"`
}

// UpdateTrophyRequest adds the optional rename.
type UpdateTrophyRequest struct {
	TrophyKeyRequest
	NewTrophyName string `json:"newTrophyName"`
}

// UserTrophyRequest links a user and a trophy.
type UserTrophyRequest struct {
	Email      string `json:"email" binding:"required"`
	TrophyName string `json:"trophyName" binding:"required"`
}
