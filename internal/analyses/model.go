package analyses

import "strings"

// AnalysisResult is the validated ATS report produced for one résumé.
type AnalysisResult struct {
	ATSScore          float64            `json:"ats_score"`
	KeywordMatch      KeywordMatch       `json:"keyword_match"`
	BulletSuggestions []BulletSuggestion `json:"bullet_suggestions"`
	MissingSections   []string           `json:"missing_sections"`
	FormattingTips    []string           `json:"formatting_tips"`
	InferredStructure InferredStructure  `json:"inferred_structure"`
}

type KeywordMatch struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

type BulletSuggestion struct {
	Original  string `json:"original"`
	Improved  string `json:"improved"`
	Rationale string `json:"rationale,omitempty"`
}

type InferredStructure struct {
	SectionsPresent []string `json:"sectionsPresent"`
	SectionsMissing []string `json:"sectionsMissing"`
}

// AnalyzeResponse is returned by POST /api/analyze. The résumé text and job
// description are echoed back for the rewrite step.
type AnalyzeResponse struct {
	AnalysisResult
	OriginalResumeText string `json:"original_resume_text"`
	JobDescription     string `json:"job_description"`
}

// Normalize fills absent arrays and drops from Missing any keyword that is
// also Matched, compared case-insensitively after trimming.
func (r *AnalysisResult) Normalize() {
	r.KeywordMatch.Matched = orEmpty(r.KeywordMatch.Matched)
	r.BulletSuggestions = orEmptySuggestions(r.BulletSuggestions)
	r.MissingSections = orEmpty(r.MissingSections)
	r.FormattingTips = orEmpty(r.FormattingTips)
	r.InferredStructure.SectionsPresent = orEmpty(r.InferredStructure.SectionsPresent)
	r.InferredStructure.SectionsMissing = orEmpty(r.InferredStructure.SectionsMissing)

	matched := make(map[string]struct{}, len(r.KeywordMatch.Matched))
	for _, kw := range r.KeywordMatch.Matched {
		matched[keywordKey(kw)] = struct{}{}
	}
	missing := make([]string, 0, len(r.KeywordMatch.Missing))
	for _, kw := range r.KeywordMatch.Missing {
		if _, dup := matched[keywordKey(kw)]; dup {
			continue
		}
		missing = append(missing, kw)
	}
	r.KeywordMatch.Missing = missing
}

func keywordKey(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func orEmptySuggestions(in []BulletSuggestion) []BulletSuggestion {
	if in == nil {
		return []BulletSuggestion{}
	}
	return in
}
