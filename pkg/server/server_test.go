package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/loopline/pkg/cache"
	"github.com/matzehuels/loopline/pkg/observability"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

const loopSrc = "@A(births) +> @B[population] -> A; B ||-> @C(deaths);"

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(fc, nil, logger), cfg, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("%s = %q, want a uuid", HeaderRequestID, rec.Header().Get(HeaderRequestID))
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t, Config{})
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, id)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != id {
		t.Errorf("%s = %q, want %q", HeaderRequestID, got, id)
	}
}

func TestCheck(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/v1/check", loopSrc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var got CheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := CheckResponse{Valid: true, Vertices: 3, Links: 3, Edges: 3}
	if got != want {
		t.Errorf("check = %+v, want %+v", got, want)
	}
}

func TestSourceErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		src      string
		code     string
		line     int
		column   int
		wantCode int
	}{
		{"undefined vertex", "/v1/check", "@A(x) > @B(y);\nB > C;", "UNDEFINED_VERTEX", 2, 5, http.StatusBadRequest},
		{"unexpected char", "/v1/format", "@A(x) $", "UNEXPECTED_CHAR", 1, 7, http.StatusBadRequest},
		{"compile", "/v1/compile", "@A(x) > @B(y);\nB > C;", "UNDEFINED_VERTEX", 2, 5, http.StatusBadRequest},
		{"control char", "/v1/check", "@A(x);\x00", "INVALID_INPUT", 0, 0, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Config{})
			rec := do(t, s, http.MethodPost, tt.path, tt.src)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			e := decodeError(t, rec)
			if e.Code != tt.code || e.Line != tt.line || e.Column != tt.column {
				t.Errorf("error = %+v, want %s at %d:%d", e, tt.code, tt.line, tt.column)
			}
			if e.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestFormat(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/v1/format", loopSrc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	want := "@A(births);\n@B[population];\n@C(deaths);\nB -> A;\nA +> B;\nB ||-> C;\n"
	if rec.Body.String() != want {
		t.Errorf("format = %q, want %q", rec.Body.String(), want)
	}
}

func TestCompileAndFetch(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodPost, "/v1/compile", loopSrc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}
	if got := rec.Header().Get(HeaderLayoutCache); got != "miss" {
		t.Errorf("%s = %q, want miss", HeaderLayoutCache, got)
	}
	id := rec.Header().Get(HeaderDiagramID)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("%s = %q, want a uuid", HeaderDiagramID, id)
	}

	rec = do(t, s, http.MethodPost, "/v1/compile?format=json", loopSrc)
	if got := rec.Header().Get(HeaderLayoutCache); got != "hit" {
		t.Errorf("second compile %s = %q, want hit", HeaderLayoutCache, got)
	}

	rec = do(t, s, http.MethodGet, "/v1/diagrams/"+id+"?format=json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch status = %d, body %s", rec.Code, rec.Body)
	}
	var d struct {
		VizType  string `json:"viz_type"`
		Vertices []any  `json:"vertices"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatal(err)
	}
	if d.VizType != "loop" || len(d.Vertices) != 3 {
		t.Errorf("fetched diagram = %+v", d)
	}

	rec = do(t, s, http.MethodGet, "/v1/diagrams/"+id+"?format=dot", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("loop dot from stored diagram: status = %d, want 400", rec.Code)
	}
}

func TestCompileNodelink(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/v1/compile?viz=nodelink&format=dot&detailed=true", loopSrc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "digraph") {
		t.Errorf("body = %s, want DOT", rec.Body)
	}
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		code   int
	}{
		{"bad format", http.MethodPost, "/v1/compile?format=gif", http.StatusBadRequest},
		{"bad viz", http.MethodPost, "/v1/compile?viz=tower", http.StatusBadRequest},
		{"bad style", http.MethodPost, "/v1/compile?style=fancy", http.StatusBadRequest},
		{"bad bool", http.MethodPost, "/v1/compile?detailed=maybe", http.StatusBadRequest},
		{"bad id", http.MethodGet, "/v1/diagrams/nope", http.StatusBadRequest},
		{"missing diagram", http.MethodGet, "/v1/diagrams/" + uuid.NewString(), http.StatusNotFound},
		{"no route", http.MethodGet, "/v2/anything", http.StatusNotFound},
	}
	s := newTestServer(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, loopSrc)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.code, rec.Body)
			}
			if e := decodeError(t, rec); e.Code == "" {
				t.Error("missing error code")
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, Config{MaxBody: 16})
	rec := do(t, s, http.MethodPost, "/v1/check", loopSrc)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	routes   []string
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := newTestServer(t, Config{})
	do(t, s, http.MethodGet, "/v1/diagrams/"+uuid.NewString(), "")

	if len(hooks.routes) != 1 || hooks.routes[0] != "/v1/diagrams/{id}" {
		t.Errorf("routes = %v, want the route pattern", hooks.routes)
	}
	if len(hooks.statuses) != 1 || hooks.statuses[0] != http.StatusNotFound {
		t.Errorf("statuses = %v, want [404]", hooks.statuses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t, Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
