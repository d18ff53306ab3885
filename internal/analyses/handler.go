package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/respond"
)

const (
	defaultMaxBodyBytes = 10 << 20
	sourceHeader        = "X-Analysis-Source"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc          *Service
	MaxBodyBytes int64
}

// NewHandler constructs a Handler. A non-positive limit uses 10 MiB.
func NewHandler(svc *Service, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{Svc: svc, MaxBodyBytes: maxBodyBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBodyBytes)

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume and job description are required")
		return
	}

	out, err := h.Svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume and job description are required")
		return
	}

	c.Set("analysisSource", string(out.Source))
	if out.Provider != "" {
		c.Set("analysisProvider", out.Provider)
	}
	c.Header(sourceHeader, string(out.Source))
	respond.Private(c, out.Result)
}
