package api

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is the body of mutations that return nothing but a confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is returned by user mutations.
type UserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// CreatedResponse is returned when a keyed document is created.
type CreatedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// TrophyResponse is returned by trophy mutations.
type TrophyResponse struct {
	Message    string `json:"message"`
	TrophyName string `json:"trophyName"`
}

// TrophyRenameResponse is returned by /trophies/update.
type TrophyRenameResponse struct {
	Message string `json:"message"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// EarnedTrophyResponse is returned by /usersTrophies/earn.
type EarnedTrophyResponse struct {
	Message    string `json:"message"`
	TrophyName string `json:"trophyName"`
	UserID     string `json:"userId"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
