package rewrites

import (
	_ "embed"

	"resume-ats/internal/llm"
)

//go:embed rewrite_schema.json
var rewriteSchemaJSON []byte

// ResultSchema validates the {markdown, json} object returned by the LLM.
var ResultSchema = llm.MustCompileSchema("rewrite", rewriteSchemaJSON)
