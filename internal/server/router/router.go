package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/server/handlers"
	"github.com/mamadbah2/assetvista/internal/service/session"
)

// UserKey is the gin context key holding the signed-in user.
const UserKey = "user"

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Session *handlers.SessionHandler
	Assets  *handlers.AssetHandler
	Reports *handlers.ReportHandler
	Audit   *handlers.AuditHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, sessions *session.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/session/login", h.Session.Login)
	api.POST("/session/signup", h.Session.Signup)
	api.POST("/session/logout", h.Session.Logout)
	api.GET("/session", h.Session.Current)

	authed := api.Group("", RequireSession(sessions, logger))
	authed.GET("/navigation", h.Session.Navigation)

	authed.GET("/assets", h.Assets.List)
	authed.GET("/assets/:id", h.Assets.Get)
	authed.POST("/assets", h.Assets.Add)
	authed.PUT("/assets/:id", h.Assets.Edit)

	authed.GET("/dashboard", h.Reports.Dashboard)
	authed.GET("/overview", h.Reports.Overview)
	authed.GET("/reports", h.Reports.Reports)
	authed.GET("/reports/export", h.Reports.Export)
	authed.GET("/groups", h.Reports.Groups)
	authed.GET("/classes/:slug", h.Reports.ClassPage)
	authed.GET("/discrepancies", h.Reports.Discrepancies)
	authed.GET("/snapshots", h.Reports.Snapshots)
	authed.POST("/snapshots", h.Reports.CaptureSnapshot)
	authed.GET("/notifications", h.Reports.Notifications)
	authed.GET("/audit-logs", h.Audit.List)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found", "path": c.Request.URL.Path})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// RequireSession rejects requests made without a signed-in user and stores
// the user under UserKey otherwise.
func RequireSession(sessions *session.Service, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		user, err := sessions.Current(c.Request.Context())
		if errors.Is(err, session.ErrNoSession) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if err != nil {
			logger.Error("failed to read session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unable to read session"})
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
