// Package server exposes the catalog, media and site settings over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/auth"
	"github.com/user/tubevibes/internal/catalog"
	"github.com/user/tubevibes/internal/format"
	"github.com/user/tubevibes/internal/media"
	"github.com/user/tubevibes/internal/settings"
	"github.com/user/tubevibes/internal/store"
)

// maxMultipartMemory is the part of a multipart form held in memory; the rest spills to temp files
const maxMultipartMemory = 32 << 20

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Deps are the services the HTTP layer is built on
type Deps struct {
	Catalog        *catalog.Service
	Store          store.Store
	Media          *media.Registry
	Settings       *settings.Service
	Auth           *auth.Authenticator
	MaxUploadBytes int64
}

// Server handles HTTP requests
type Server struct {
	catalog     *catalog.Service
	store       store.Store
	media       *media.Registry
	settings    *settings.Service
	auth        *auth.Authenticator
	mediaPrefix string
	maxUpload   int64
	router      *gin.Engine
	server      *http.Server
	startTime   time.Time
	now         func() time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(deps Deps) *Server {
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory

	s := &Server{
		catalog:     deps.Catalog,
		store:       deps.Store,
		media:       deps.Media,
		settings:    deps.Settings,
		auth:        deps.Auth,
		mediaPrefix: deps.Media.Prefix(),
		maxUpload:   deps.MaxUploadBytes,
		router:      router,
		startTime:   time.Now(),
		now:         time.Now,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(), cors())

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET(s.mediaPrefix+"/:token", s.handleMedia)
	s.router.HEAD(s.mediaPrefix+"/:token", s.handleMedia)

	api := s.router.Group("/api")
	api.GET("/videos", s.handleListVideos)
	api.GET("/videos/:id", s.handleGetVideo)
	api.POST("/videos", s.handleCreateVideo)
	api.GET("/settings", s.handlePublicSettings)
	api.POST("/admin/login", s.handleLogin)

	admin := api.Group("/admin", s.auth.Middleware())
	admin.PUT("/videos/:id", s.handleUpdateVideo)
	admin.DELETE("/videos/:id", s.handleDeleteVideo)
	admin.GET("/settings", s.handleGetSettings)
	admin.PUT("/settings", s.handleUpdateSettings)
	admin.POST("/settings/logo", s.handleUploadLogo)
	admin.DELETE("/settings/logo", s.handleRemoveLogo)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		// Media responses stream for as long as the client reads
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth returns status, database connectivity and uptime
func (s *Server) handleHealth(c *gin.Context) {
	dbStatus := "healthy"
	if err := s.store.Ping(c.Request.Context()); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	status := "healthy"
	code := http.StatusOK
	if dbStatus != "healthy" {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:   status,
		Database: dbStatus,
		Uptime:   format.Duration(s.GetUptime()),
	})
}

// RefreshVideoCount updates the videos_total gauge from the catalog
func (s *Server) RefreshVideoCount(ctx context.Context) {
	n, err := s.catalog.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count videos")
		return
	}
	UpdateVideoCount(n)
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}
