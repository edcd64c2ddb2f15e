package exports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/server/respond"
	"resume-ats/resume/model"
	"resume-ats/resume/render"
)

// Handler wires HTTP handlers to the exports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/export", h.export)
}

type exportRequest struct {
	RewriteJSON *model.ResumeDocument `json:"rewriteJson"`
	Format      string                `json:"format"`
	FileName    string                `json:"fileName"`
}

func (h *Handler) export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	format, err := ParseFormat(req.Format)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return
	}
	if req.RewriteJSON == nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "rewriteJson is required", nil)
		return
	}
	c.Set("exportFormat", string(format))

	file, err := h.Svc.Export(*req.RewriteJSON, format, req.FileName)
	switch {
	case errors.Is(err, model.ErrNameRequired), errors.Is(err, render.ErrUnsupportedText):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		return
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "Internal server error", nil)
		return
	}
	respond.Attachment(c, file.ContentType, file.Name, file.Data)
}
