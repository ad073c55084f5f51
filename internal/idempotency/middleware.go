package idempotency

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware makes POST requests carrying an Idempotency-Key safe to retry.
// The first request runs normally and a 2xx response is remembered; a retry
// with the same key and body gets that response back without re-running the
// handler. Requests without the header pass through untouched.
func Middleware(store *Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderKey)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body could not be read."})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		fp := fingerprint(c.Request.Method, c.Request.URL.Path, body)

		created, rec := store.CreateIfNotExists(key, fp)
		if !created {
			switch {
			case rec.Fingerprint != fp:
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Idempotency-Key has already been used for a different request."})
			case rec.Status == StatusInProgress:
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A request with this Idempotency-Key is still in progress."})
			default:
				c.Header(HeaderReplayed, "true")
				c.Data(rec.ResponseStatus, rec.ContentType, rec.ResponseBody)
				c.Abort()
			}
			return
		}

		rw := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = rw
		completed := false
		defer func() {
			// a panic further down leaves the key reusable
			if !completed {
				store.MarkFailed(key)
			}
		}()

		c.Next()

		status := rw.Status()
		if status >= 200 && status < 300 {
			if err := store.MarkDone(key, status, rw.body.Bytes(), rw.Header().Get("Content-Type")); err != nil {
				log.Warn("store idempotent response", zap.String("key", key), zap.Error(err))
			}
		} else {
			store.MarkFailed(key)
		}
		completed = true
	}
}

func fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// capturingWriter copies everything written to the client.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
