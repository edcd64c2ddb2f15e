package rewrites

import (
	"strings"

	"resume-ats/resume/markdown"
	"resume-ats/resume/model"
)

// RewriteResult is the rewritten résumé in both presentations.
type RewriteResult struct {
	Markdown string               `json:"markdown"`
	JSON     model.ResumeDocument `json:"json"`
}

// Normalize fills empty collections and regenerates the markdown when the
// model left it blank.
func (r *RewriteResult) Normalize() {
	r.JSON.Normalize()
	if strings.TrimSpace(r.Markdown) == "" {
		r.Markdown = markdown.Render(r.JSON)
	}
}
