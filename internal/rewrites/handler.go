package rewrites

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/llm"
	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/util"
	"resume-ats/resume/model"
)

// Handler wires HTTP handlers to the rewrites service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches rewrite routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rewrite", h.rewrite)
	rg.POST("/rewrite/edit", h.edit)
}

type rewriteRequest struct {
	ResumeText     string          `json:"resumeText"`
	JobDescription string          `json:"jobDescription"`
	Analysis       json.RawMessage `json:"analysis"`
}

type editRequest struct {
	Document model.ResumeDocument `json:"document"`
	Edits    []json.RawMessage    `json:"edits"`
}

func (h *Handler) rewrite(c *gin.Context) {
	var req rewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	if err := ValidateRequest(req.ResumeText, req.Analysis); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return
	}

	c.Set("resumeSha256", util.TextDigest(req.ResumeText))
	c.Set("resumeChars", util.RuneLen(req.ResumeText))

	result, err := h.Svc.Rewrite(c.Request.Context(), req.ResumeText, req.JobDescription, req.Analysis,
		llm.WithBackendReport(func(name string) { c.Set("llmBackend", name) }),
	)
	if err != nil {
		respond.LLMFailure(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	edits, err := model.DecodeEdits(req.Edits)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return
	}
	result, err := h.Svc.Edit(req.Document, edits)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return
	}
	respond.OK(c, result)
}
