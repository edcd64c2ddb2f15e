package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/llm"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestErrorWritesBodyAndAborts(t *testing.T) {
	c, rec := newContext()
	Error(c, http.StatusBadRequest, CodeValidation, "Resume text is too short", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !c.IsAborted() {
		t.Fatalf("expected context to be aborted")
	}
	body := decode(t, rec)
	if body.Error != "Resume text is too short" || body.Code != CodeValidation || body.Details != nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestLLMFailureSurfacesMessage(t *testing.T) {
	c, rec := newContext()
	LLMFailure(c, fmt.Errorf("wrapped: %w", llm.ErrRateLimited))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body.Code != CodeLLMFailed || body.Error != "wrapped: "+llm.ErrRateLimited.Error() {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestLLMFailureAttachesSchemaIssues(t *testing.T) {
	c, rec := newContext()
	LLMFailure(c, &llm.SchemaError{Issues: []string{"ats_score: Must be less than or equal to 100"}})

	body := decode(t, rec)
	issues, ok := body.Details.([]interface{})
	if !ok || len(issues) != 1 {
		t.Fatalf("expected one schema issue, got %#v", body.Details)
	}
}

func TestAttachmentSetsDisposition(t *testing.T) {
	c, rec := newContext()
	Attachment(c, "application/pdf", "resume-1.pdf", []byte("%PDF-1.3"))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="resume-1.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
}
