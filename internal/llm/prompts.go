package llm

import (
	_ "embed"
	"encoding/json"
	"strings"
)

var (
	//go:embed prompts/analyze_system.txt
	analyzeSystemPrompt string
	//go:embed prompts/rewrite_system.txt
	rewriteSystemPrompt string
)

const notProvided = "N/A"

// AnalyzeSystemPrompt returns the fixed-rubric ATS scoring instructions.
func AnalyzeSystemPrompt() string {
	return strings.TrimSpace(analyzeSystemPrompt)
}

// RewriteSystemPrompt returns the rewrite instructions.
func RewriteSystemPrompt() string {
	return strings.TrimSpace(rewriteSystemPrompt)
}

// AnalyzeUserPrompt embeds the résumé and optional job description.
func AnalyzeUserPrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString("Resume:\n")
	b.WriteString(resumeText)
	b.WriteString("\n\nJob Description:\n")
	b.WriteString(orNotProvided(jobDescription))
	return b.String()
}

// RewriteUserPrompt embeds the résumé, job description and prior analysis.
// A nil or empty analysis is rendered as {}.
func RewriteUserPrompt(resumeText, jobDescription string, analysis json.RawMessage) string {
	analysisText := "{}"
	if trimmed := strings.TrimSpace(string(analysis)); trimmed != "" && trimmed != "null" {
		analysisText = trimmed
	}
	var b strings.Builder
	b.WriteString(AnalyzeUserPrompt(resumeText, jobDescription))
	b.WriteString("\n\nAnalysis (may be empty):\n")
	b.WriteString(analysisText)
	return b.String()
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}
