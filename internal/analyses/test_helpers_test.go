package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"resume-ats/internal/llm"
)

const validAnalysis = `{
	"ats_score": 72,
	"keyword_match": {"matched": ["Go", "Kubernetes"], "missing": ["kubernetes ", "Terraform"]},
	"bullet_suggestions": [{"original": "Did work", "improved": "Shipped X, cutting latency 30%"}],
	"missing_sections": ["Projects"],
	"formatting_tips": ["Use consistent dates"],
	"inferred_structure": {"sectionsPresent": ["Experience"], "sectionsMissing": ["Projects"]}
}`

// fakeGenerator validates canned output against the schema it is handed, so
// handler tests exercise the real result schema.
type fakeGenerator struct {
	raw      string
	err      error
	calls    int
	lastUser string
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, schema llm.Schema, _, user string, _ ...llm.Option) (json.RawMessage, error) {
	f.calls++
	f.lastUser = user
	if f.err != nil {
		return nil, f.err
	}
	raw := json.RawMessage(f.raw)
	if err := schema.Validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func newRouter(gen Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(gen)).RegisterRoutes(r.Group("/api"))
	return r
}

func resumeText() string {
	return strings.Repeat("Senior Go engineer building reliable distributed systems. ", 5)
}

func jobDescription() string {
	return "We are hiring a backend engineer with Go, Kubernetes and Terraform experience."
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}
