package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/llm"
	"resume-ats/internal/shared/telemetry"
)

// ErrorResponse is the error body returned by every endpoint. Clients read
// the human readable message from Error.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Machine readable error codes.
const (
	CodeValidation  = "validation_error"
	CodeFileTooBig  = "file_too_large"
	CodeUnsupported = "unsupported_file_type"
	CodeParseFailed = "parse_failed"
	CodeRateLimited = "rate_limited"
	CodeLLMFailed   = "llm_error"
	CodeNotFound    = "not_found"
	CodeInternal    = "internal_error"
)

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// LLMFailure reports a failed provider call. The error text is surfaced to
// the client unchanged; schema issues are attached as details.
func LLMFailure(c *gin.Context, err error) {
	var details interface{}
	var se *llm.SchemaError
	if errors.As(err, &se) {
		details = se.Issues
	}
	Error(c, http.StatusInternalServerError, CodeLLMFailed, err.Error(), details)
}
