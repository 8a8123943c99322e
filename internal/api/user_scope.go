package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
)

// userScope is shared by handlers whose documents belong to a user addressed by email.
type userScope struct {
	resolver core.IdentityResolver
	recorder core.ActivityRecorder
	logger   *zap.Logger
}

// resolve answers the request with an error and returns false when the email
// does not belong to a user.
func (s userScope) resolve(c *gin.Context, email string) (string, bool) {
	userID, err := s.resolver.Resolve(c.Request.Context(), email)
	if err != nil {
		respondError(c, s.logger, err)
		return "", false
	}
	return userID, true
}

func (s userScope) record(c *gin.Context, userID, description string) {
	s.recorder.Record(c.Request.Context(), userID, description)
}
