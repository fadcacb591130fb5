package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/config"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/mapview"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/render"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/session"
)

// Deps are the collaborators the handlers work with. CatalogErr is set when
// the catalogue could not be loaded; every API route then answers 503.
type Deps struct {
	Catalog    *catalog.Store
	CatalogErr error
	Sessions   *session.Registry
	Logos      render.LogoSource
	Layers     []mapview.TileLayer
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	deps   Deps
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(corsMiddleware())

	if len(deps.Layers) == 0 {
		deps.Layers = mapview.DefaultLayers()
	}

	server := &Server{cfg: cfg, deps: deps, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	zap.L().Info("api: listening", zap.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		status := "ok"
		if s.deps.CatalogErr != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})

	s.registerV1Routes()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			zap.L().Warn("api: request", fields...)
			return
		}
		zap.L().Debug("api: request", fields...)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}

// catalogReadyMiddleware blocks the API when the data source is missing.
func (s *Server) catalogReadyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.CatalogErr != nil {
			msg := "catalogue unavailable"
			if eris.Is(s.deps.CatalogErr, catalog.ErrMissingDataSource) {
				msg = "No encontré el CSV de competencia en la carpeta del proyecto."
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}
