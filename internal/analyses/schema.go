package analyses

import (
	_ "embed"

	"resume-ats/internal/llm"
)

//go:embed analysis_schema.json
var analysisSchemaJSON []byte

// ResultSchema validates raw LLM output before it is decoded into an
// AnalysisResult.
var ResultSchema = llm.MustCompileSchema("analysis", analysisSchemaJSON)
