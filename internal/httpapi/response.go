package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Error   string         `json:"error,omitempty"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, code apperror.Code, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Error:   string(code),
		Meta:    meta,
	})
}

// fail renders err with the status its code maps to. The error is attached
// to the gin context so the request middleware can log and trace it.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := apperror.StatusCode(err)
	msg := err.Error()
	var app *apperror.AppError
	if errors.As(err, &app) && status >= http.StatusInternalServerError {
		// Causes of server-side failures stay in the logs.
		msg = app.Message
	}
	Error(c, status, apperror.GetCode(err), msg, nil)
}

func badRequest(c *gin.Context, msg string) {
	fail(c, apperror.Validation(apperror.CodeInvalidInput, msg))
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func paginationMeta(limit, offset, total int) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": offset+limit < total,
	}
}
