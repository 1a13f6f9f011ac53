package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/service/audit"
)

const defaultAuditLimit = 100

// AuditHandler serves the audit log screen.
type AuditHandler struct {
	svc    *audit.Service
	logger *zap.Logger
}

// NewAuditHandler constructs the audit log HTTP adapter.
func NewAuditHandler(svc *audit.Service, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{svc: svc, logger: logger}
}

// List returns the audit log, newest first. Query: q, limit.
func (h *AuditHandler) List(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	log, err := h.svc.List(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.logger.Error("failed to list audit log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load audit log"})
		return
	}
	c.JSON(http.StatusOK, log)
}
