package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
	"github.com/windscape-energy/windscape-backend/internal/projects/service"
)

// Handler exposes the project store's request/response contract to the
// UI layer.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) save(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "project name required"})
		return
	}

	var req saveReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Sections == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	rec, err := h.svc.Save(c.Request.Context(), name, req.Sections)
	if err != nil {
		c.JSON(statusFor(err), projectResp{OK: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, projectResp{OK: true, Project: rec})
}

func (h *Handler) load(c *gin.Context) {
	name := c.Param("name")

	rec, err := h.svc.Load(c.Request.Context(), name)
	if err != nil {
		c.JSON(statusFor(err), projectResp{OK: false, Error: err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, projectResp{OK: true, Project: rec})
}

func (h *Handler) list(c *gin.Context) {
	var (
		items []domain.ProjectRecord
		err   error
	)
	if q := c.Query("q"); q != "" {
		items, err = h.svc.FindByPartialName(c.Request.Context(), q)
	} else {
		items, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	if items == nil {
		items = []domain.ProjectRecord{}
	}

	c.JSON(http.StatusOK, listResp{OK: true, Projects: items})
}

func (h *Handler) delete(c *gin.Context) {
	name := c.Param("name")

	if err := h.svc.Delete(c.Request.Context(), name); err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) cacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": h.svc.CacheStats()})
}

func (h *Handler) clearCache(c *gin.Context) {
	h.svc.ClearCache()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// statusFor maps store failures onto HTTP statuses: upstream storage
// trouble reads as a bad gateway, anything else as a server error.
func statusFor(err error) int {
	var opErr *domain.StoreOperationError
	var serErr *domain.SerializationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &opErr), errors.As(err, &serErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
