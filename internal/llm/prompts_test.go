package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSystemPromptCarriesRubric(t *testing.T) {
	prompt := AnalyzeSystemPrompt()
	for _, want := range []string{
		"Structure and sections 25 points",
		"Keyword relevance 35 points",
		"Formatting clarity and scannability 20 points",
		"Action orientation and measurable impact 20 points",
		"inferred_structure",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestRewriteSystemPromptDemandsTwoFields(t *testing.T) {
	prompt := RewriteSystemPrompt()
	assert.Contains(t, prompt, `exactly two fields`)
	assert.Contains(t, prompt, `"markdown"`)
	assert.Contains(t, prompt, `"json"`)
}

func TestAnalyzeUserPrompt(t *testing.T) {
	assert.Equal(t, "Resume:\nR\n\nJob Description:\nN/A", AnalyzeUserPrompt("R", ""))
	assert.Equal(t, "Resume:\nR\n\nJob Description:\nJD", AnalyzeUserPrompt("R", "JD"))
}

func TestRewriteUserPrompt(t *testing.T) {
	got := RewriteUserPrompt("R", "", nil)
	assert.True(t, strings.HasSuffix(got, "Analysis (may be empty):\n{}"), got)

	got = RewriteUserPrompt("R", "JD", json.RawMessage(`{"ats_score":70}`))
	assert.Contains(t, got, "Job Description:\nJD")
	assert.True(t, strings.HasSuffix(got, `{"ats_score":70}`), got)
}

func TestStripCodeFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```json{\"a\":1}```":     `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, StripCodeFences(in), "input %q", in)
	}
}

func TestJSONSchemaValidate(t *testing.T) {
	schema, err := CompileSchema("test", []byte(`{
		"type": "object",
		"required": ["score"],
		"properties": {"score": {"type": "number", "minimum": 0, "maximum": 100}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "test", schema.Name())

	require.NoError(t, schema.Validate(json.RawMessage(`{"score": 55}`)))

	err = schema.Validate(json.RawMessage(`{"score": 101}`))
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	require.Len(t, se.Issues, 1)
	assert.Contains(t, se.Issues[0], "score")

	err = schema.Validate(json.RawMessage(`{}`))
	require.ErrorAs(t, err, &se)
	assert.True(t, strings.HasPrefix(err.Error(), "Schema validation failed: "))
}

func TestCompileSchemaRejectsBadSource(t *testing.T) {
	_, err := CompileSchema("bad", []byte(`{"type": 12}`))
	require.Error(t, err)
}
