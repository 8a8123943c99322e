package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
)

const invalidPayloadMessage = "Invalid request payload"

// bindRequest decodes the JSON body twice: into a raw field map, which carries
// the optional and free-form fields, and into req, whose binding tags declare
// the required ones. A missing required field answers 400 with missingMessage.
// An empty body counts as {}.
func bindRequest(c *gin.Context, req interface{}, missingMessage string) (map[string]interface{}, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidPayloadMessage, Details: err.Error()})
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	raw := map[string]interface{}{}
	if err := binding.JSON.BindBody(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidPayloadMessage, Details: err.Error()})
		return nil, false
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if req != nil {
		if err := binding.JSON.BindBody(body, req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: missingMessage})
				return nil, false
			}
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidPayloadMessage, Details: err.Error()})
			return nil, false
		}
	}
	return raw, true
}

// without returns a copy of fields minus the named keys.
func without(fields map[string]interface{}, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// present reports whether a field was sent with a usable value.
func present(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// respondError maps core error classes to HTTP statuses. Anything unclassified
// is a 500 carrying the error text.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
