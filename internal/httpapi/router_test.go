package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/imrishuroy/go-grubdash/internal/dishes"
	"github.com/imrishuroy/go-grubdash/internal/idempotency"
	"github.com/imrishuroy/go-grubdash/internal/logger"
	"github.com/imrishuroy/go-grubdash/internal/orders"
	"github.com/imrishuroy/go-grubdash/internal/pipeline"
	"github.com/imrishuroy/go-grubdash/internal/store"
)

type fixture struct {
	router *gin.Engine
	dishes *store.Memory[dishes.Dish]
	orders *store.Memory[orders.Order]
}

func newFixture(opts Options) *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		dishes: store.New(dishes.Key, dishes.Seed()...),
		orders: store.New(orders.Key, orders.Seed()...),
	}
	opts.Dishes.Store = f.dishes
	opts.Orders.Store = f.orders
	f.router = NewRouter(opts)
	return f
}

func (f *fixture) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	f := newFixture(Options{})
	w := f.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(logger.RequestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestUnknownPath(t *testing.T) {
	f := newFixture(Options{})
	w := f.do(http.MethodGet, "/menu", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := errorOf(t, w); got != "Path not found: /menu" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUnsupportedMethod(t *testing.T) {
	cases := []struct {
		method, path string
	}{
		{http.MethodDelete, "/dishes/" + dishes.Seed()[0].ID},
		{http.MethodPut, "/dishes"},
		{http.MethodPatch, "/orders"},
	}
	for _, tc := range cases {
		f := newFixture(Options{})
		w := f.do(tc.method, tc.path, "", nil)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.path, w.Code)
		}
		want := pipeline.MethodNotAllowed(tc.method, tc.path).Message
		if got := errorOf(t, w); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(Options{})
	w := f.do(http.MethodGet, "/dishes", "", http.Header{logger.RequestIDHeader: {"abc-123"}})
	if got := w.Header().Get(logger.RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestIdempotentCreateIsReplayed(t *testing.T) {
	f := newFixture(Options{Idempotency: idempotency.NewStore(time.Hour)})
	before := f.orders.Len()
	body := `{"data":{"deliverTo":"x","mobileNumber":"y","dishes":[{"dishId":"d1","quantity":1}]}}`
	key := http.Header{idempotency.HeaderKey: {"retry-1"}}

	first := f.do(http.MethodPost, "/orders", body, key)
	second := f.do(http.MethodPost, "/orders", body, key)

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}
	if second.Header().Get(idempotency.HeaderReplayed) != "true" {
		t.Fatal("expected replay header on second response")
	}
	if f.orders.Len() != before+1 {
		t.Fatalf("expected exactly one new order, store has %d", f.orders.Len())
	}
}

func TestIdempotencyKeyReleasedOnValidationError(t *testing.T) {
	f := newFixture(Options{Idempotency: idempotency.NewStore(time.Hour)})
	key := http.Header{idempotency.HeaderKey: {"retry-2"}}

	w := f.do(http.MethodPost, "/dishes", `{"data":{}}`, key)
	if w.Code != http.StatusBadRequest || errorOf(t, w) != dishes.MsgName {
		t.Fatalf("expected 400 %q, got %d %q", dishes.MsgName, w.Code, w.Body.String())
	}

	// the same key may be used again once the request is fixed
	w = f.do(http.MethodPost, "/dishes", `{"data":{"name":"n","description":"d","price":3,"image_url":"u"}}`, key)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
}

func TestTracingSpanPerRequest(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(rec))
	f := newFixture(Options{Tracer: tp.Tracer("test")})

	f.do(http.MethodGet, "/orders/missing", "", nil)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].Name(); got != "GET /orders/:orderId" {
		t.Fatalf("unexpected span name %q", got)
	}
}
