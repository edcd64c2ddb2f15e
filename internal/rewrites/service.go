package rewrites

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-ats/internal/llm"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/shared/util"
	"resume-ats/resume/markdown"
	"resume-ats/resume/model"
)

// MinResumeChars is the shortest résumé text accepted for a rewrite.
const MinResumeChars = 200

// Generator is the part of llm.Provider the service depends on.
type Generator interface {
	GenerateJSON(ctx context.Context, schema llm.Schema, system, user string, opts ...llm.Option) (json.RawMessage, error)
}

// Service produces rewritten résumés and applies preview edits to them.
type Service struct {
	LLM Generator
}

// NewService constructs a Service.
func NewService(gen Generator) *Service {
	return &Service{LLM: gen}
}

// ValidateRequest checks the inputs of a rewrite before any backend call.
func ValidateRequest(resumeText string, analysis json.RawMessage) error {
	if util.RuneLen(strings.TrimSpace(resumeText)) < MinResumeChars {
		return ErrResumeTextRequired
	}
	trimmed := strings.TrimSpace(string(analysis))
	if trimmed != "" && trimmed != "null" && !strings.HasPrefix(trimmed, "{") {
		return ErrAnalysisNotObject
	}
	return nil
}

// Rewrite asks the LLM for a tailored rewrite. analysis is the optional
// output of a previous analysis, passed through verbatim.
func (s *Service) Rewrite(ctx context.Context, resumeText, jobDescription string, analysis json.RawMessage, opts ...llm.Option) (RewriteResult, error) {
	raw, err := s.LLM.GenerateJSON(ctx, ResultSchema,
		llm.RewriteSystemPrompt(),
		llm.RewriteUserPrompt(resumeText, jobDescription, analysis),
		opts...,
	)
	if err != nil {
		return RewriteResult{}, err
	}

	var result RewriteResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return RewriteResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	result.Normalize()

	telemetry.Info("rewrite.completed", map[string]any{
		"resume_sha256":   util.TextDigest(resumeText),
		"experience":      len(result.JSON.Experience),
		"projects":        len(result.JSON.Projects),
		"markdown_chars":  util.RuneLen(result.Markdown),
		"with_analysis":   len(analysis) > 0,
		"with_job_target": strings.TrimSpace(jobDescription) != "",
	})
	return result, nil
}

// Edit applies preview edits to doc and regenerates the markdown. doc is
// left untouched when any edit fails.
func (s *Service) Edit(doc model.ResumeDocument, edits []model.Edit) (RewriteResult, error) {
	if len(edits) == 0 {
		return RewriteResult{}, ErrNoEdits
	}
	doc.Normalize()
	edited, err := model.ApplyEdits(doc, edits...)
	if err != nil {
		return RewriteResult{}, err
	}
	return RewriteResult{Markdown: markdown.Render(edited), JSON: edited}, nil
}
