package rewrites

import "errors"

var (
	ErrResumeTextRequired = errors.New("Resume text is required and must be at least 200 characters")
	ErrAnalysisNotObject  = errors.New("analysis must be a JSON object")
	ErrNoEdits            = errors.New("at least one edit is required")
	ErrMalformedResponse  = errors.New("LLM response could not be decoded")
)
