// Package httpapi assembles the gin engine serving the restaurant API.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-grubdash/internal/dishes"
	"github.com/imrishuroy/go-grubdash/internal/idempotency"
	"github.com/imrishuroy/go-grubdash/internal/logger"
	"github.com/imrishuroy/go-grubdash/internal/orders"
	"github.com/imrishuroy/go-grubdash/internal/pipeline"
	"github.com/imrishuroy/go-grubdash/internal/tracing"
)

// Options configures NewRouter. Tracer and Idempotency are optional.
type Options struct {
	Log         *zap.Logger
	Tracer      trace.Tracer
	Idempotency *idempotency.Store
	Dishes      dishes.HandlerConfig
	Orders      orders.HandlerConfig
}

// NewRouter returns an engine with the dishes and orders routes, a health
// check, and JSON bodies for unknown paths and unsupported methods.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(logger.Middleware(log), pipeline.Recovery(log))
	if opts.Tracer != nil {
		r.Use(tracing.Middleware(opts.Tracer))
	}
	if opts.Idempotency != nil {
		r.Use(idempotency.Middleware(opts.Idempotency, log))
	}
	// must stay last so idempotent responses include rendered errors
	r.Use(pipeline.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Dishes.Log == nil {
		opts.Dishes.Log = log
	}
	if opts.Orders.Log == nil {
		opts.Orders.Log = log
	}
	dishes.RegisterRoutes(r, opts.Dishes)
	orders.RegisterRoutes(r, opts.Orders)

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(pipeline.NotFound("Path not found: %s", c.Request.URL.Path))
		c.Abort()
	})
	r.NoMethod(func(c *gin.Context) {
		_ = c.Error(pipeline.MethodNotAllowed(c.Request.Method, c.Request.URL.Path))
		c.Abort()
	})
	return r
}
