package pipeline

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InternalMessage is the body text for any failure without an explicit status.
const InternalMessage = "Something went wrong!"

// ErrorHandler renders the last error recorded on the context as
// {"error": message}. *Error values keep their status; anything else is
// logged and becomes a 500.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		var perr *Error
		if errors.As(last.Err, &perr) {
			c.JSON(perr.Status, gin.H{"error": perr.Message})
			return
		}
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(last.Err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": InternalMessage})
	}
}

// Recovery turns a panic into the same 500 body ErrorHandler produces.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": InternalMessage})
	})
}
