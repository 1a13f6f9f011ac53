package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/pipeline"
	"github.com/mamadbah2/assetvista/internal/service/notify"
	"github.com/mamadbah2/assetvista/internal/service/reporting"
)

const defaultSnapshotLimit = 12

// ReportHandler serves the dashboard, overview, reports and export screens.
type ReportHandler struct {
	svc           *reporting.Service
	notifications *notify.Recorder
	logger        *zap.Logger
}

// NewReportHandler constructs the reporting HTTP adapter. notifications may
// be nil when no in-memory feed is kept.
func NewReportHandler(svc *reporting.Service, notifications *notify.Recorder, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, notifications: notifications, logger: logger}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Dashboard())
}

func (h *ReportHandler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Overview())
}

func (h *ReportHandler) Reports(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Reports())
}

// Groups runs an ad-hoc aggregation.
// Query: q, groupBy (field), measure (count|sum:<field>), order (key|measure), dir.
func (h *ReportHandler) Groups(c *gin.Context) {
	groupBy, err := models.ParseField(c.Query("groupBy"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	measure, err := pipeline.ParseMeasure(c.Query("measure"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := parseGroupSort(c.Query("order"), c.Query("dir"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groupBy": groupBy,
		"measure": measure.String(),
		"groups":  h.svc.Groups(c.Query("q"), groupBy, measure, order),
	})
}

func parseGroupSort(by, dir string) (*pipeline.GroupSort, error) {
	if by == "" {
		return nil, nil
	}
	key := pipeline.GroupSortKey(by)
	if key != pipeline.ByKey && key != pipeline.ByMeasure {
		return nil, fmt.Errorf("unknown group order %q", by)
	}
	d, err := pipeline.ParseDirection(dir)
	if err != nil {
		return nil, err
	}
	return &pipeline.GroupSort{By: key, Direction: d}, nil
}

// Export downloads the collection as a CSV attachment.
func (h *ReportHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request.Context(), &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export report"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+reporting.ExportFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ClassPage lists the assets of one asset-class page.
func (h *ReportHandler) ClassPage(c *gin.Context) {
	route, ok := models.LookupAssetClassRoute(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown asset class"})
		return
	}
	c.JSON(http.StatusOK, h.svc.ClassPage(route))
}

func (h *ReportHandler) Discrepancies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"discrepancies": h.svc.Discrepancies()})
}

// Snapshots lists stored weekly snapshots, newest first. Query: limit.
func (h *ReportHandler) Snapshots(c *gin.Context) {
	limit := defaultSnapshotLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	snapshots, err := h.svc.Snapshots(c.Request.Context(), limit)
	if err != nil {
		h.respondSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

// CaptureSnapshot takes a snapshot now instead of waiting for the schedule.
func (h *ReportHandler) CaptureSnapshot(c *gin.Context) {
	snapshot, err := h.svc.CaptureSnapshot(c.Request.Context())
	if err != nil {
		h.respondSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *ReportHandler) respondSnapshotError(c *gin.Context, err error) {
	if errors.Is(err, reporting.ErrNoSnapshotStore) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("snapshot request failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "snapshot storage unavailable"})
}

// Notifications returns the recent notification feed, newest first.
func (h *ReportHandler) Notifications(c *gin.Context) {
	feed := []notify.Notification{}
	if h.notifications != nil {
		feed = h.notifications.Recent()
	}
	c.JSON(http.StatusOK, gin.H{"notifications": feed})
}
