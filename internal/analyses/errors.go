package analyses

import "errors"

// Input validation failures. The messages are shown to users as-is.
var (
	ErrResumeRequired    = errors.New("Resume file or text is required")
	ErrParsedTooShort    = errors.New("Resume text is too short or could not be parsed")
	ErrResumeTooShort    = errors.New("Resume text is too short")
	ErrJobDescTooShort   = errors.New("Job description is too short. Please provide at least 50 characters.")
	ErrJobDescTooLong    = errors.New("Job description is too long. Please keep it under 5000 characters.")
	ErrMalformedResponse = errors.New("LLM response could not be decoded")
)
