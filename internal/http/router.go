package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/config"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/http/handler"
	httpmiddleware "github.com/arrautomation001-cmd/ARRAutomation/internal/http/middleware"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, siteHandler *handler.SiteHandler, rateLimiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	api := r.Group("/api")
	{
		api.POST("/signup", siteHandler.Signup)
		api.POST("/login", siteHandler.Login)
		api.POST("/contact", siteHandler.Contact)
		api.POST("/chatbot", siteHandler.Chatbot)
		api.POST("/format-bug", siteHandler.FormatBug)
	}

	r.GET("/sitemap.xml", func(c *gin.Context) {
		c.Header("Content-Type", "application/xml")
		c.File(filepath.Join(cfg.StaticDir, "sitemap.xml"))
	})

	attachStaticRoutes(r, cfg.StaticDir)

	return r
}

// attachStaticRoutes serves the public directory with an index.html
// fallback for anything that is not an API path.
func attachStaticRoutes(r *gin.Engine, staticDir string) {
	indexPath := filepath.Join(staticDir, "index.html")

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") {
			c.Status(http.StatusNotFound)
			return
		}

		if filePath, ok := safeJoin(staticDir, path); ok {
			if info, err := os.Stat(filePath); err == nil && !info.IsDir() {
				c.File(filePath)
				return
			}
		}

		c.File(indexPath)
	})
}

func safeJoin(baseDir, requestPath string) (string, bool) {
	trimmed := strings.TrimPrefix(requestPath, "/")
	cleaned := filepath.Clean(trimmed)
	if cleaned == "." {
		return filepath.Join(baseDir, cleaned), true
	}
	if strings.HasPrefix(cleaned, "..") {
		return "", false
	}
	return filepath.Join(baseDir, cleaned), true
}
