package analyses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ats/internal/llm"
	"resume-ats/internal/llm/openrouter"
)

// stubChatServer answers chat completions with the given contents in order,
// repeating the last one.
func stubChatServer(t *testing.T, contents ...string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(contents) {
			n = len(contents) - 1
		}
		payload, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": contents[n]}}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newProvider(t *testing.T, baseURL string) *llm.Provider {
	t.Helper()
	client, err := openrouter.NewClient(openrouter.Config{APIKey: "k", BaseURL: baseURL})
	require.NoError(t, err)
	p := llm.NewProvider(llm.Options{Primary: client, MaxRetries: 2})
	p.SetSleep(func(context.Context, time.Duration) error { return nil })
	return p
}

func TestServiceAnalyzeThroughProvider(t *testing.T) {
	srv, calls := stubChatServer(t, "not json at all", "```json\n"+validAnalysis+"\n```")
	svc := NewService(newProvider(t, srv.URL))

	out, err := svc.Analyze(context.Background(), resumeText(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls), "malformed JSON is retried once")
	assert.Equal(t, 72.0, out.ATSScore)
	assert.Equal(t, []string{"Go", "Kubernetes"}, out.KeywordMatch.Matched)
	assert.Equal(t, []string{"Terraform"}, out.KeywordMatch.Missing)
}

func TestServiceAnalyzeSchemaViolationNotRetried(t *testing.T) {
	srv, calls := stubChatServer(t, `{"ats_score": -5}`)
	svc := NewService(newProvider(t, srv.URL))

	_, err := svc.Analyze(context.Background(), resumeText(), "")
	var se *llm.SchemaError
	require.ErrorAs(t, err, &se)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestNormalizeFillsArraysAndDedupes(t *testing.T) {
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(`{"ats_score":10,"keyword_match":{"matched":[" SQL"],"missing":["sql","Go"]}}`), &r))
	r.Normalize()

	assert.Equal(t, []string{"Go"}, r.KeywordMatch.Missing)
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	for _, want := range []string{`"bullet_suggestions":[]`, `"missing_sections":[]`, `"formatting_tips":[]`, `"sectionsPresent":[]`, `"sectionsMissing":[]`} {
		assert.Contains(t, string(raw), want)
	}
}

func TestResultSchema(t *testing.T) {
	require.NoError(t, ResultSchema.Validate(json.RawMessage(validAnalysis)))

	for name, raw := range map[string]string{
		"score above range":   `{"ats_score":101,"keyword_match":{"matched":[],"missing":[]},"bullet_suggestions":[],"missing_sections":[],"formatting_tips":[],"inferred_structure":{"sectionsPresent":[],"sectionsMissing":[]}}`,
		"missing keyword set": `{"ats_score":50,"bullet_suggestions":[],"missing_sections":[],"formatting_tips":[],"inferred_structure":{"sectionsPresent":[],"sectionsMissing":[]}}`,
		"bad suggestion":      `{"ats_score":50,"keyword_match":{"matched":[],"missing":[]},"bullet_suggestions":[{"original":"x"}],"missing_sections":[],"formatting_tips":[],"inferred_structure":{"sectionsPresent":[],"sectionsMissing":[]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			var se *llm.SchemaError
			assert.ErrorAs(t, ResultSchema.Validate(json.RawMessage(raw)), &se)
		})
	}
}

func TestValidateInputs(t *testing.T) {
	assert.NoError(t, ValidateJobDescription(""))
	assert.NoError(t, ValidateJobDescription("   "))
	assert.ErrorIs(t, ValidateJobDescription("short"), ErrJobDescTooShort)
	assert.NoError(t, ValidateJobDescription(strings.Repeat("a", 50)))

	// 200 multi-byte characters are enough even though they are 400+ bytes.
	text := strings.Repeat("é", 200)
	assert.NoError(t, ValidateResumeText(text, SourcePasted))
	assert.ErrorIs(t, ValidateResumeText(text[:len(text)-2], SourcePasted), ErrResumeTooShort)
	assert.ErrorIs(t, ValidateResumeText("", SourceFile), ErrParsedTooShort)
}
