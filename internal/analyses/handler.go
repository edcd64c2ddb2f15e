package analyses

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/extract"
	"resume-ats/internal/llm"
	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/util"
)

// multipartOverhead is the slack allowed on top of the file limit for form
// fields and part headers.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

type analyzeJSONRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) analyze(c *gin.Context) {
	var (
		resumeText     string
		jobDescription string
		source         = SourcePasted
	)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req analyzeJSONRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
			return
		}
		resumeText, jobDescription = req.ResumeText, req.JobDescription
	} else {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, extract.MaxFileBytes+multipartOverhead)
		if err := c.Request.ParseMultipartForm(extract.MaxFileBytes + multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			if isBodyTooLarge(err) {
				respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeFileTooBig, extract.ErrFileTooLarge.Error(), nil)
				return
			}
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid form data", nil)
			return
		}
		jobDescription = c.PostForm("jobDescription")

		file, err := c.FormFile("resumeFile")
		switch {
		case err == nil:
			text, ok := h.extractUpload(c, file)
			if !ok {
				return
			}
			resumeText, source = text, SourceFile
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			resumeText = c.PostForm("resumeText")
		default:
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid form data", nil)
			return
		}
	}

	if source == SourcePasted && strings.TrimSpace(resumeText) == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, ErrResumeRequired.Error(), nil)
		return
	}
	if err := ValidateResumeText(resumeText, source); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return
	}
	if err := ValidateJobDescription(jobDescription); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return
	}

	c.Set("resumeSha256", util.TextDigest(resumeText))
	c.Set("resumeChars", util.RuneLen(resumeText))

	resp, err := h.Svc.Analyze(c.Request.Context(), resumeText, jobDescription,
		llm.WithBackendReport(func(name string) { c.Set("llmBackend", name) }),
	)
	if err != nil {
		respond.LLMFailure(c, err)
		return
	}
	respond.OK(c, resp)
}

func (h *Handler) extractUpload(c *gin.Context, file *multipart.FileHeader) (string, bool) {
	if file.Size > extract.MaxFileBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeFileTooBig, extract.ErrFileTooLarge.Error(), nil)
		return "", false
	}
	f, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeParseFailed, extract.ErrParseFailed.Error(), nil)
		return "", false
	}
	defer f.Close()

	result, err := extract.ExtractFile(c.Request.Context(), f, file.Size, file.Header.Get("Content-Type"), file.Filename)
	if err != nil {
		writeExtractError(c, err)
		return "", false
	}
	return result.Text, true
}

func writeExtractError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrFileTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeFileTooBig, extract.ErrFileTooLarge.Error(), nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, respond.CodeUnsupported, extract.ErrUnsupportedType.Error(), nil)
	case errors.Is(err, extract.ErrParseFailed):
		respond.Error(c, http.StatusBadRequest, respond.CodeParseFailed, extract.ErrParseFailed.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "Internal server error", nil)
	}
}

func isBodyTooLarge(err error) bool {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
