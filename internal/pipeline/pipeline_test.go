package pipeline

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()), ErrorHandler(zap.NewNop()))
	r.GET("/x", handlers...)
	return r
}

func do(t *testing.T, r http.Handler) (int, map[string]string) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	body := map[string]string{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, body
}

func TestChain_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	step := func(name string, err error) Step {
		return NewStep(name, func(c *gin.Context) error {
			ran = append(ran, name)
			return err
		})
	}

	r := newEngine(Chain(
		step("a", nil),
		step("b", Validation("b failed")),
		step("c", NotFound("never")),
	))

	code, body := do(t, r)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["error"] != "b failed" {
		t.Fatalf("unexpected message %q", body["error"])
	}
	if len(ran) != 2 || ran[1] != "b" {
		t.Fatalf("expected steps a,b to run, got %v", ran)
	}
}

func TestChain_AllStepsPass(t *testing.T) {
	r := newEngine(Chain(
		NewStep("check", func(c *gin.Context) error { return nil }),
		NewStep("respond", func(c *gin.Context) error {
			c.JSON(http.StatusOK, gin.H{"error": ""})
			return nil
		}),
	))
	if code, _ := do(t, r); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestErrorHandler_UntypedErrorIs500(t *testing.T) {
	r := newEngine(Chain(NewStep("boom", func(c *gin.Context) error {
		return errors.New("disk on fire")
	})))
	code, body := do(t, r)
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body["error"] != InternalMessage {
		t.Fatalf("internal detail leaked: %q", body["error"])
	}
}

func TestErrorHandler_WrappedErrorKeepsStatus(t *testing.T) {
	r := newEngine(Chain(NewStep("lookup", func(c *gin.Context) error {
		return errors.Join(errors.New("context"), NotFound("Dish does not exist: 9."))
	})))
	code, body := do(t, r)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if body["error"] == "" {
		t.Fatal("expected message")
	}
}

func TestRecovery_PanicIs500(t *testing.T) {
	r := newEngine(func(c *gin.Context) { panic("nil map") })
	code, body := do(t, r)
	if code != http.StatusInternalServerError || body["error"] != InternalMessage {
		t.Fatalf("unexpected response %d %v", code, body)
	}
}
