// Package api wires the dashboard's HTTP routes.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"uk-demand-dashboard/internal/api/handlers"
	"uk-demand-dashboard/internal/api/middleware"
	"uk-demand-dashboard/internal/config"
	"uk-demand-dashboard/internal/metrics"
	"uk-demand-dashboard/internal/table"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server bundles the router and the loaded dataset.
type Server struct {
	cfg     config.Config
	table   *table.Table
	metrics *metrics.Metrics
	logger  *log.Logger
	engine  *gin.Engine
}

// New builds the router. The table is shared read-only by all handlers.
func New(cfg config.Config, t *table.Table, m *metrics.Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Dashboard.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	// Logger wraps recovery so panics are logged and counted as 500s.
	engine.Use(middleware.Logger(logger, m))
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.CORS(cfg.Dashboard.CORSOrigins))

	m.SetTableRows(t.Len())

	s := &Server{cfg: cfg, table: t, metrics: m, logger: logger, engine: engine}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("dashboard listening", "addr", "http://"+srv.Addr, "rows", s.table.Len())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	d := s.cfg.Dashboard
	tableHandler := handlers.NewTableHandler(s.table, d.PageSize)
	chartHandler := handlers.NewChartHandler(s.table, d.PageSize, d.ChartWidth, d.ChartHeight, s.metrics)

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": s.table.Len()})
	})
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.engine.Group("/api/v1")
	{
		api.GET("/columns", tableHandler.ListColumns)
		api.GET("/table", tableHandler.GetPage)
		api.GET("/table/export.xlsx", tableHandler.ExportPage)

		api.GET("/chart", chartHandler.GetFigure)
		api.GET("/chart/image", chartHandler.GetImage)
		api.GET("/chart/export.pdf", chartHandler.ExportPDF)
	}

	s.registerStatic(d.StaticDir)
}

// registerStatic serves a built single-page UI when staticDir exists. Unknown
// paths fall back to index.html, except under /api which 404s.
func (s *Server) registerStatic(staticDir string) {
	if staticDir == "" || !dirExists(staticDir) {
		s.logger.Debug("static directory not found, skipping static file serving", "dir", staticDir)
		s.engine.NoRoute(respondNotFound)
		return
	}

	if assets := filepath.Join(staticDir, "assets"); dirExists(assets) {
		s.engine.Static("/assets", assets)
	}
	if favicon := filepath.Join(staticDir, "favicon.ico"); fileExists(favicon) {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
	index := filepath.Join(staticDir, "index.html")
	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") || !fileExists(index) {
			respondNotFound(c)
			return
		}
		c.File(index)
	})
	s.logger.Info("serving static files", "dir", staticDir)
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": gin.H{
			"code":    "NOT_FOUND",
			"message": "Not found",
		},
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
