package analyses

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-ats/internal/llm"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/shared/util"
)

// Generator is the part of llm.Provider the service depends on.
type Generator interface {
	GenerateJSON(ctx context.Context, schema llm.Schema, system, user string, opts ...llm.Option) (json.RawMessage, error)
}

// Service runs ATS analyses against the LLM provider.
type Service struct {
	LLM Generator
}

// NewService constructs a Service.
func NewService(gen Generator) *Service {
	return &Service{LLM: gen}
}

// Analyze scores resumeText, tailored to jobDescription when one is given.
// Inputs are assumed to be validated by the caller.
func (s *Service) Analyze(ctx context.Context, resumeText, jobDescription string, opts ...llm.Option) (AnalyzeResponse, error) {
	raw, err := s.LLM.GenerateJSON(ctx, ResultSchema,
		llm.AnalyzeSystemPrompt(),
		llm.AnalyzeUserPrompt(resumeText, jobDescription),
		opts...,
	)
	if err != nil {
		return AnalyzeResponse{}, err
	}

	var result AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return AnalyzeResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	result.Normalize()

	telemetry.Info("analysis.completed", map[string]any{
		"resume_sha256":    util.TextDigest(resumeText),
		"ats_score":        result.ATSScore,
		"keywords_matched": len(result.KeywordMatch.Matched),
		"keywords_missing": len(result.KeywordMatch.Missing),
	})

	return AnalyzeResponse{
		AnalysisResult:     result,
		OriginalResumeText: resumeText,
		JobDescription:     jobDescription,
	}, nil
}
