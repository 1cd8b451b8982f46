// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/services"
	"github.com/solidwrite/pseo/internal/utils"
)

// DefaultBatchLimit is the window size used when the client sends none.
const DefaultBatchLimit = 20

// pageSourceHeader tells whether a page was generated or read from an export.
const pageSourceHeader = "X-Page-Source"

// Handler serves the page API.
type Handler struct {
	Manifests *services.ManifestService
	Pages     *services.PageService
	Batch     *services.BatchService
	Sitemap   *services.SitemapService
	Export    *services.ExportService
	Progress  *services.ProgressService
	Metrics   *utils.MetricsCollector
	Response  *ResponseHelper

	// ServePrerendered lets /p/*slug answer from the last export of the
	// current manifest before generating.
	ServePrerendered bool

	// exportDir roots every export started over HTTP.
	exportDir string
	startedAt time.Time
}

// ExportRequest is the body of POST /api/export. Exports always land in the
// configured export directory; SQLite adds the catalog database next to it.
type ExportRequest struct {
	SQLite      bool `json:"sqlite"`
	Concurrency int  `json:"concurrency"`
}

// RouteView is a route as listed by the API, with its public path.
type RouteView struct {
	models.Route
	Path string `json:"path"`
}

// NewHandler creates the API handler.
func NewHandler(
	manifests *services.ManifestService,
	pages *services.PageService,
	batch *services.BatchService,
	sitemap *services.SitemapService,
	export *services.ExportService,
	progress *services.ProgressService,
	exportDir string,
) *Handler {
	return &Handler{
		Manifests: manifests,
		Pages:     pages,
		Batch:     batch,
		Sitemap:   sitemap,
		Export:    export,
		Progress:  progress,
		Metrics:   utils.GetMetricsCollector(),
		Response:  NewResponseHelper(),
		exportDir: exportDir,
		startedAt: time.Now(),
	}
}

// slugParam extracts a catch-all slug, which may contain '/'.
func slugParam(c *gin.Context) string {
	return strings.Trim(c.Param("slug"), "/")
}

// RenderPage serves the bare page document: 200 with the page, 404 for an
// unknown slug or playbook, 422 with the SKIPPED form for thin pages.
func (h *Handler) RenderPage(c *gin.Context) {
	slug := slugParam(c)
	if h.ServePrerendered {
		if page, ok := h.Export.Prerendered(slug); ok {
			c.Header(pageSourceHeader, "export")
			c.JSON(http.StatusOK, page)
			return
		}
	}

	page, err := h.Pages.GeneratePageBySlug(slug)
	if err != nil {
		if apperrors.IsThinContentError(err) {
			h.Response.Skipped(c, apperrors.SkipReason(err))
			return
		}
		h.Response.AppError(c, err)
		return
	}
	c.Header(pageSourceHeader, "generated")
	c.JSON(http.StatusOK, page)
}

// GetPage serves a page inside the response envelope.
func (h *Handler) GetPage(c *gin.Context) {
	page, err := h.Pages.GeneratePageBySlug(slugParam(c))
	if err != nil {
		h.Response.AppError(c, err)
		return
	}
	h.Response.Success(c, page)
}

// queryInt reads an integer query parameter. A missing value yields def.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// GetBatch generates one window of the manifest.
func (h *Handler) GetBatch(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrorInvalidWindow, "offset must be an integer")
		return
	}
	limit, err := queryInt(c, "limit", DefaultBatchLimit)
	if err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrorInvalidWindow, "limit must be an integer")
		return
	}

	result, err := h.Batch.GenerateBatch(c.Request.Context(), offset, limit)
	if err != nil {
		h.Response.AppError(c, err)
		return
	}
	h.Response.PaginatedSuccess(c, result, &PaginationMeta{
		Offset:   result.Offset,
		Limit:    result.Limit,
		Total:    result.Total,
		Returned: result.Generated,
	})
}

// GetRoutes lists the manifest, optionally filtered by ?playbook=.
func (h *Handler) GetRoutes(c *gin.Context) {
	playbook := models.Playbook(c.Query("playbook"))
	routes, err := h.Pages.RoutesByPlaybook(playbook)
	if err != nil {
		if apperrors.IsValidationError(err) {
			h.Response.Error(c, http.StatusBadRequest, ErrorInvalidPlaybook, err.Error())
			return
		}
		h.Response.AppError(c, err)
		return
	}

	views := make([]RouteView, len(routes))
	for i, route := range routes {
		views[i] = RouteView{Route: route, Path: "/" + route.Slug}
	}
	h.Response.Success(c, views)
}

// GetSitemap serves sitemap.xml.
func (h *Handler) GetSitemap(c *gin.Context) {
	body, err := h.Sitemap.RenderXML()
	if err != nil {
		h.Response.AppError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// StartExport queues a static export and returns its task ID. Progress is
// available at /api/export/:task_id and /ws/export/:task_id.
func (h *Handler) StartExport(c *gin.Context) {
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Response.Error(c, http.StatusBadRequest, ErrorExportRequestInvalid, "invalid export request", err.Error())
			return
		}
	}
	if req.Concurrency < 0 {
		h.Response.Error(c, http.StatusBadRequest, ErrorExportRequestInvalid, "concurrency must not be negative")
		return
	}

	opts := models.ExportOptions{OutputDir: h.exportDir, Concurrency: req.Concurrency}
	if req.SQLite {
		opts.SQLitePath = filepath.Join(h.exportDir, "catalog.db")
	}

	// the export outlives the request
	taskID := h.Export.StartExport(context.WithoutCancel(c.Request.Context()), opts)
	h.Response.Accepted(c, gin.H{
		"task_id":    taskID,
		"status_url": "/api/export/" + taskID,
		"stream_url": "/ws/export/" + taskID,
	}, "export started")
}

// GetExport reports the progress of an export and its summary once done.
func (h *Handler) GetExport(c *gin.Context) {
	taskID := c.Param("task_id")
	tracker, exists := h.Progress.GetTracker(taskID)
	if !exists {
		h.Response.NotFound(c, "task")
		return
	}

	data := gin.H{"progress": tracker.Snapshot()}
	if result, ok := h.Export.Result(taskID); ok {
		data["result"] = result
	}
	h.Response.Success(c, data)
}

// GetMetrics returns the metrics snapshot.
func (h *Handler) GetMetrics(c *gin.Context) {
	h.Response.Success(c, h.Metrics.GetMetrics())
}

// Health reports whether the manifest can be built.
func (h *Handler) Health(c *gin.Context) {
	catalog, err := h.Manifests.Current()
	if err != nil {
		h.Response.Error(c, http.StatusServiceUnavailable, ErrorInternalError, "manifest unavailable", err.Error())
		return
	}
	h.Response.Success(c, gin.H{
		"status":         "ok",
		"routes":         len(catalog.Routes),
		"fingerprint":    catalog.Fingerprint,
		"cached":         len(h.Manifests.CachedFingerprints()),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}
