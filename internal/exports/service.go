package exports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/shared/util"
	"resume-ats/resume/model"
	"resume-ats/resume/render"
)

// Format is a downloadable document format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

var ErrInvalidFormat = errors.New("Invalid format. Use 'docx' or 'pdf'")

// ParseFormat accepts "docx" or "pdf", ignoring case and surrounding space.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", ErrInvalidFormat
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return render.MimePDF
	}
	return render.MimeDOCX
}

// File is a rendered document ready to be served.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service renders résumé documents for download.
type Service struct {
	now func() time.Time
}

// NewService constructs a Service.
func NewService() *Service {
	return &Service{now: time.Now}
}

// Export renders doc in the requested format. baseName, when non-empty, is
// sanitized and used instead of the default resume-<unix ms> file name.
func (s *Service) Export(doc model.ResumeDocument, format Format, baseName string) (File, error) {
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return File{}, err
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatDOCX:
		data, err = render.RenderDOCX(doc)
	case FormatPDF:
		data, err = render.RenderPDF(doc)
	default:
		return File{}, ErrInvalidFormat
	}
	if err != nil {
		return File{}, fmt.Errorf("render %s: %w", format, err)
	}

	metrics.IncExport(string(format))
	telemetry.Info("export.rendered", map[string]any{
		"format": string(format),
		"bytes":  len(data),
	})
	return File{
		Name:        s.fileName(baseName, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func (s *Service) fileName(baseName string, format Format) string {
	base := util.SanitizeFileName(baseName)
	base = strings.TrimSuffix(base, "."+string(format))
	if base == "" {
		base = fmt.Sprintf("resume-%d", s.now().UnixMilli())
	}
	return base + "." + string(format)
}
