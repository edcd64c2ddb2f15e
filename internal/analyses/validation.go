package analyses

import (
	"strings"

	"resume-ats/internal/shared/util"
)

const (
	MinResumeChars  = 200
	MinJobDescChars = 50
	MaxJobDescChars = 5000
)

// ResumeSource tells validation where the résumé text came from so it can
// pick the right message.
type ResumeSource int

const (
	SourcePasted ResumeSource = iota
	SourceFile
)

// ValidateResumeText checks the minimum résumé length in characters.
func ValidateResumeText(text string, source ResumeSource) error {
	if util.RuneLen(strings.TrimSpace(text)) >= MinResumeChars {
		return nil
	}
	if source == SourceFile {
		return ErrParsedTooShort
	}
	return ErrResumeTooShort
}

// ValidateJobDescription accepts an empty description; otherwise it must be
// between 50 and 5000 characters.
func ValidateJobDescription(jd string) error {
	if strings.TrimSpace(jd) == "" {
		return nil
	}
	n := util.RuneLen(jd)
	switch {
	case n < MinJobDescChars:
		return ErrJobDescTooShort
	case n > MaxJobDescChars:
		return ErrJobDescTooLong
	}
	return nil
}
