package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/pipeline"
	"github.com/mamadbah2/assetvista/internal/service/assets"
	"github.com/mamadbah2/assetvista/internal/service/reporting"
)

// AssetHandler serves the asset table and the add/edit operations.
type AssetHandler struct {
	store   *assets.Store
	reports *reporting.Service
	logger  *zap.Logger
}

// NewAssetHandler constructs the asset HTTP adapter.
func NewAssetHandler(store *assets.Store, reports *reporting.Service, logger *zap.Logger) *AssetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetHandler{store: store, reports: reports, logger: logger}
}

// List returns the searched and sorted asset table.
// Query: q, sort (field name), dir (asc|desc), toggle (column header
// clicked on top of the current sort).
func (h *AssetHandler) List(c *gin.Context) {
	spec := pipeline.DefaultTableSort
	if name := c.Query("sort"); name != "" {
		field, err := models.ParseField(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dir, err := pipeline.ParseDirection(c.Query("dir"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		spec = pipeline.SortSpec{Field: field, Direction: dir}
	}
	if name := c.Query("toggle"); name != "" {
		field, err := models.ParseField(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		spec = spec.Toggle(field)
	}

	c.JSON(http.StatusOK, h.reports.Table(c.Query("q"), spec))
}

// Get returns one asset by id.
func (h *AssetHandler) Get(c *gin.Context) {
	rec, ok := h.store.Snapshot().Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Add creates an asset from the submitted form.
func (h *AssetHandler) Add(c *gin.Context) {
	form := assets.Form{}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&form); err != nil {
		h.logger.Warn("invalid asset payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.store.Add(c.Request.Context(), assets.ParseDraft(form))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Edit replaces the asset named in the path with the submitted record.
func (h *AssetHandler) Edit(c *gin.Context) {
	var rec models.AssetRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.logger.Warn("invalid asset payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rec.AssetID = c.Param("id")

	if err := h.store.Edit(c.Request.Context(), rec); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *AssetHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assets.ErrAssetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
	case errors.Is(err, assets.ErrBackend):
		c.JSON(http.StatusBadGateway, gin.H{"error": "asset backend unavailable"})
	default:
		h.logger.Error("asset operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
