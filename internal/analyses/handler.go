package analyses

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docanalyzer-backend/internal/actions"
	"docanalyzer-backend/internal/doctype"
	"docanalyzer-backend/internal/shared/server/respond"
	"docanalyzer-backend/internal/shared/util"
)

// Handler exposes the document analysis REST surface.
type Handler struct {
	pipeline       *Pipeline
	store          Store
	maxUploadBytes int64
	tmpDir         string
	now            func() time.Time
}

func NewHandler(pipeline *Pipeline, store Store, maxUploadMB int) *Handler {
	if maxUploadMB < 1 {
		maxUploadMB = 1
	}
	return &Handler{
		pipeline:       pipeline,
		store:          store,
		maxUploadBytes: int64(maxUploadMB) << 20,
		tmpDir:         os.TempDir(),
		now:            time.Now,
	}
}

func (h *Handler) Register(r gin.IRouter) {
	docs := r.Group("/documents")
	docs.POST("/analyze", h.analyze)
	docs.GET("", h.list)
	docs.GET("/storage/stats", h.storageStats)
	docs.GET("/supported-types", h.supportedTypes)
	docs.GET("/:documentId", h.get)
	docs.DELETE("/:documentId", h.delete)
	docs.GET("/:documentId/actions", h.actions)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "uploaded file exceeds the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_request", "multipart field 'file' is required", nil)
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "only PDF files are supported", nil)
		return
	}
	original, err := util.SanitizeFileName(file.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid file name", nil)
		return
	}

	tmpPath := filepath.Join(h.tmpDir, uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		respond.Error(c, http.StatusInternalServerError, "upload_failed", "failed to save uploaded file", nil)
		return
	}
	defer os.Remove(tmpPath)

	rec, err := h.pipeline.ProcessSingle(c.Request.Context(), tmpPath, original)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store analysis result", nil)
		return
	}
	c.Set("documentId", rec.DocumentID)
	respond.OK(c, rec)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("documentId")
	c.Set("documentId", id)
	rec, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read document", nil)
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	summaries, err := h.store.List(ctx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to list documents", nil)
		return
	}
	stats, err := h.store.Stats(ctx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read storage stats", nil)
		return
	}
	respond.OK(c, listResponse{
		Documents:    summaries,
		TotalCount:   len(summaries),
		StorageStats: stats,
	})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("documentId")
	c.Set("documentId", id)
	removed, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to delete document", nil)
		return
	}
	if !removed {
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		return
	}
	respond.OK(c, deleteResponse{
		Message:    "document deleted successfully",
		DocumentID: id,
	})
}

func (h *Handler) storageStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read storage stats", nil)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) supportedTypes(c *gin.Context) {
	types := doctype.Supported()
	respond.OK(c, supportedTypesResponse{
		SupportedDocumentTypes: types,
		Count:                  len(types),
	})
}

func (h *Handler) actions(c *gin.Context) {
	id := c.Param("documentId")
	c.Set("documentId", id)
	rec, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to read document", nil)
		return
	}

	items := actions.ForType(rec.Classification.Type, h.now())
	pending := 0
	for _, a := range items {
		if a.Status == actions.StatusPending {
			pending++
		}
	}
	respond.OK(c, actionsResponse{
		DocumentID:       rec.DocumentID,
		DocumentType:     rec.Classification.Type,
		Actions:          items,
		TotalActions:     len(items),
		PendingActions:   pending,
		CompletedActions: len(items) - pending,
	})
}
