package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/middleware"
	"github.com/mechashelf/admin/internal/pkg"
	"github.com/mechashelf/admin/web"
)

// CatalogPinger probes the remote catalog backend for the health check.
type CatalogPinger interface {
	Ping(ctx context.Context) error
}

// RouteDeps carries everything route registration needs: the feature modules,
// the local database and catalog client for the health check, the run mode,
// and the CSRF secret.
type RouteDeps struct {
	Modules    []Module
	DB         *gorm.DB
	Catalog    CatalogPinger // optional
	Mode       string        // "debug" or "release"
	CSRFSecret string
}

// RegisterRoutes wires the full route table: static assets, health check, the
// home page, the /api/v1 group, and the CSRF-protected page group that each
// module registers its screens on.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}

	// Static assets
	if err := registerStaticRoutesWithError(r, deps.Mode); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	// Health check
	r.GET("/health", healthHandler(deps.DB, deps.Catalog))

	// Home page lists the catalog sections; it runs under CSRF so the nav's
	// delete forms can embed a token.
	r.GET("/", middleware.CSRF(deps.CSRFSecret), func(c *gin.Context) {
		c.HTML(http.StatusOK, "home.html", gin.H{
			"Entities":  domain.Entities,
			"CSRFToken": middleware.GetCSRFToken(c),
		})
	})

	// API routes skip CSRF; page routes carry it.
	api := r.Group("/api/v1")
	pages := r.Group("/")
	pages.Use(middleware.CSRF(deps.CSRFSecret))

	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api, pages)
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler pings the local database and, when a pinger is wired, the
// remote catalog backend, each with a one-second budget. Any failing
// component degrades the overall status to 503.
func healthHandler(db *gorm.DB, cat CatalogPinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbHealthy := false
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
				dbHealthy = sqlDB.PingContext(ctx) == nil
				cancel()
			}
		}

		components := gin.H{"database": componentStatus(dbHealthy)}
		healthy := dbHealthy

		if cat != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			catHealthy := cat.Ping(ctx) == nil
			cancel()
			components["catalog"] = componentStatus(catHealthy)
			healthy = healthy && catHealthy
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":     status,
			"components": components,
		})
	}
}

func componentStatus(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "error"
}

// noRouteHandler answers unknown paths: JSON under /api/, the 404 page
// everywhere else.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}

		renderError(c, http.StatusNotFound, "not found")
	}
}

func registerStaticRoutesWithError(r *gin.Engine, mode string) error {
	if mode == "debug" {
		debugStaticFS, err := resolveDebugStaticFS()
		if err != nil {
			return fmt.Errorf("resolve debug static filesystem: %w", err)
		}
		fileServer := http.StripPrefix("/static", http.FileServer(http.FS(debugStaticFS)))
		r.GET("/static/*filepath", func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		return nil
	}

	// Release mode: serve from embed.FS with cache headers.
	staticFS, err := fs.Sub(web.EmbeddedFS, "static")
	if err != nil {
		return fmt.Errorf("create sub filesystem for static assets: %w", err)
	}
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(staticFS)))
	return nil
}

func resolveDebugStaticFS() (fs.FS, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("resolve current file path")
	}

	projectRoot := filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", ".."))
	staticDir := filepath.Join(projectRoot, "web", "static")
	if _, err := os.Stat(staticDir); err != nil {
		return nil, fmt.Errorf("stat static directory %q: %w", staticDir, err)
	}

	return os.DirFS(staticDir), nil
}

// cacheStaticHandler wraps an http.FileSystem handler and sets a Cache-Control header
// for release mode static assets.
func cacheStaticHandler(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
