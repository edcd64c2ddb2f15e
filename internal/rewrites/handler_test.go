package rewrites

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats/internal/llm"
	"resume-ats/resume/model"
)

const validRewrite = `{
	"markdown": "# Ada Lovelace\n\n## Summary\n\nAnalyst.",
	"json": {
		"header": {"name": "Ada Lovelace", "title": "Analyst", "links": ["https://example.com"]},
		"summary": "Analyst.",
		"skills": [{"group": "Languages", "items": ["Go"]}],
		"experience": [{"company": "Engines Ltd", "role": "Analyst", "start": "1842", "end": "1843", "bullets": ["Wrote notes"]}],
		"projects": [],
		"education": [{"school": "Home", "degree": "Mathematics"}]
	}
}`

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

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func longResume() string {
	return strings.Repeat("Analyst who wrote the first published algorithm for a machine. ", 4)
}

func errorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Error
}

func TestRewriteReturnsValidatedResult(t *testing.T) {
	gen := &fakeGenerator{raw: validRewrite}
	router := newRouter(gen)

	resp := postJSON(t, router, "/api/rewrite", map[string]any{
		"resumeText":     longResume(),
		"jobDescription": "Analyst role",
		"analysis":       map[string]any{"ats_score": 40},
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out RewriteResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "Ada Lovelace", out.JSON.Header.Name)
	assert.Equal(t, []string{"https://example.com"}, out.JSON.Header.Links)
	assert.NotNil(t, out.JSON.Projects)
	assert.Contains(t, gen.lastUser, "Analysis (may be empty):\n{\"ats_score\":40}")
	assert.Contains(t, gen.lastUser, "Job Description:\nAnalyst role")
}

func TestRewriteRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"short resume", map[string]any{"resumeText": "short"}, "Resume text is required and must be at least 200 characters"},
		{"missing resume", map[string]any{"jobDescription": "x"}, "Resume text is required and must be at least 200 characters"},
		{"analysis not object", map[string]any{"resumeText": longResume(), "analysis": []int{1}}, "analysis must be a JSON object"},
		{"malformed body", "{not json", "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{raw: validRewrite}
			resp := postJSON(t, newRouter(gen), "/api/rewrite", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, tt.want, errorMessage(t, resp))
			assert.Zero(t, gen.calls)
		})
	}
}

func TestRewriteRejectsDocumentWithoutName(t *testing.T) {
	raw := strings.Replace(validRewrite, `"name": "Ada Lovelace", `, "", 1)
	resp := postJSON(t, newRouter(&fakeGenerator{raw: raw}), "/api/rewrite", map[string]any{"resumeText": longResume()})

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.True(t, strings.HasPrefix(errorMessage(t, resp), "Schema validation failed"))
}

func TestRewriteSurfacesProviderError(t *testing.T) {
	resp := postJSON(t, newRouter(&fakeGenerator{err: llm.ErrNoProvider}), "/api/rewrite", map[string]any{"resumeText": longResume()})

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, llm.ErrNoProvider.Error(), errorMessage(t, resp))
}

func TestRewriteFillsBlankMarkdown(t *testing.T) {
	raw := strings.Replace(validRewrite, `"# Ada Lovelace\n\n## Summary\n\nAnalyst."`, `""`, 1)
	resp := postJSON(t, newRouter(&fakeGenerator{raw: raw}), "/api/rewrite", map[string]any{"resumeText": longResume()})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out RewriteResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.True(t, strings.HasPrefix(out.Markdown, "# Ada Lovelace\n**Analyst**\n"), out.Markdown)
}

func TestEditAppliesTypedEdits(t *testing.T) {
	doc := model.ResumeDocument{
		Header:     model.ResumeHeader{Name: "Ada"},
		Experience: []model.ResumeExperience{{Company: "Engines Ltd", Role: "Analyst", Bullets: []string{"Wrote notes"}}},
	}
	resp := postJSON(t, newRouter(&fakeGenerator{}), "/api/rewrite/edit", map[string]any{
		"document": doc,
		"edits": []map[string]any{
			{"op": "set_summary", "value": "Mathematician."},
			{"op": "set_experience_bullet", "index": 0, "bullet": 0, "value": "Published the first algorithm"},
			{"op": "add_certification"},
			{"op": "set_certification", "index": 0, "value": "Royal Society"},
		},
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out RewriteResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "Mathematician.", out.JSON.Summary)
	assert.Equal(t, []string{"Published the first algorithm"}, out.JSON.Experience[0].Bullets)
	assert.Equal(t, []string{"Royal Society"}, out.JSON.Certifications)
	assert.Contains(t, out.Markdown, "## Summary\n\nMathematician.\n")
	assert.Contains(t, out.Markdown, "- Published the first algorithm\n")
	assert.Contains(t, out.Markdown, "## Certifications\n\n- Royal Society\n")
}

func TestEditRejectsBadEdits(t *testing.T) {
	doc := model.ResumeDocument{Header: model.ResumeHeader{Name: "Ada"}}
	tests := []struct {
		name  string
		edits []map[string]any
		want  string
	}{
		{"unknown op", []map[string]any{{"op": "rename_everything"}}, "edits[0]: unknown edit op"},
		{"out of range", []map[string]any{{"op": "remove_project", "index": 3}}, "edits[0] remove_project: edit index out of range"},
		{"unknown field", []map[string]any{{"op": "set_header_field", "field": "age", "value": "36"}}, "edits[0] set_header_field: unknown field"},
		{"no edits", nil, "at least one edit is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, newRouter(&fakeGenerator{}), "/api/rewrite/edit", map[string]any{"document": doc, "edits": tt.edits})
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.True(t, strings.HasPrefix(errorMessage(t, resp), tt.want), errorMessage(t, resp))
		})
	}
}

func TestServiceEditDoesNotMutateInput(t *testing.T) {
	doc := model.ResumeDocument{
		Header: model.ResumeHeader{Name: "Ada"},
		Skills: []model.ResumeSkillGroup{{Group: "Languages", Items: []string{"Go"}}},
	}
	svc := NewService(nil)

	out, err := svc.Edit(doc, []model.Edit{model.SetSkillItems{Index: 0, Items: []string{"Go", " Rust ", ""}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, out.JSON.Skills[0].Items)
	assert.Equal(t, []string{"Go"}, doc.Skills[0].Items)
}

func TestResultSchemaAcceptsOptionalFields(t *testing.T) {
	require.NoError(t, ResultSchema.Validate(json.RawMessage(validRewrite)))

	missingSummary := strings.Replace(validRewrite, `"summary": "Analyst.",`, "", 1)
	var se *llm.SchemaError
	assert.ErrorAs(t, ResultSchema.Validate(json.RawMessage(missingSummary)), &se)
}
