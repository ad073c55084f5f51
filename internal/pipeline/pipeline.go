// Package pipeline runs ordered request steps (checks followed by a terminal
// action) and turns the first failure into an error response.
package pipeline

import (
	"sync"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Step is one named check or action in a request chain. A non-nil error
// stops the chain.
type Step struct {
	Name string
	Run  func(c *gin.Context) error
}

// NewStep names fn so it shows up in traces.
func NewStep(name string, fn func(c *gin.Context) error) Step {
	return Step{Name: name, Run: fn}
}

// Run executes steps in order and returns the first error.
func Run(c *gin.Context, steps ...Step) error {
	span := trace.SpanFromContext(c.Request.Context())
	for _, s := range steps {
		span.AddEvent("pipeline.step", trace.WithAttributes(attribute.String("step", s.Name)))
		if err := s.Run(c); err != nil {
			span.RecordError(err, trace.WithAttributes(attribute.String("step", s.Name)))
			return err
		}
	}
	return nil
}

// Chain wraps steps into a single gin handler. The failing step's error is
// recorded on the context for ErrorHandler and the remaining handlers are
// skipped.
func Chain(steps ...Step) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Run(c, steps...); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// Exclusive serializes every request passing through it on mu, so a
// lookup-then-mutate chain cannot interleave with another one.
func Exclusive(mu *sync.Mutex) gin.HandlerFunc {
	return func(c *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		c.Next()
	}
}
