package server

import (
	"github.com/gin-gonic/gin"

	"docanalyzer-backend/internal/shared/config"
	"docanalyzer-backend/internal/shared/metrics"
	"docanalyzer-backend/internal/shared/server/middleware"
	"docanalyzer-backend/internal/shared/server/respond"
)

const serviceName = "docanalyzer"

// Registrar attaches a feature's routes to the router.
type Registrar interface {
	Register(r gin.IRouter)
}

// NewRouter assembles the gin engine with the shared middleware chain and
// operational endpoints, then mounts each feature's routes.
func NewRouter(cfg config.Config, m *metrics.Metrics, features ...Registrar) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))
	if m != nil {
		r.Use(m.Middleware(serviceName))
	}

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"service": "Smart Document Analyzer",
			"status":  "running",
		})
	})
	r.GET("/healthz", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	for _, f := range features {
		f.Register(r)
	}

	return r
}
