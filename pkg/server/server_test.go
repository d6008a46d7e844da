package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/figurine/pkg/observability"
	"github.com/matzehuels/figurine/pkg/pipeline"
	"github.com/matzehuels/figurine/pkg/store"
)

func newTestServer(t *testing.T, opts ...pipeline.RunnerOption) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger, opts...)
	s := New(runner, Config{MaxBodyBytes: 4096}, pipeline.Options{}, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func errorCode(t *testing.T, data []byte) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("error body %q: %v", data, err)
	}
	if body.RequestID == "" {
		t.Error("error body should carry the request ID")
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(HeaderRequestID)); err != nil {
		t.Errorf("X-Request-ID = %q", resp.Header.Get(HeaderRequestID))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}

	req.Header.Set(HeaderRequestID, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got == "not-a-uuid" {
		t.Error("invalid request IDs should be replaced")
	}
}

func TestKinds(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/kinds")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct{ Kinds []string }
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Kinds) != 7 || body.Kinds[0] != "bar" {
		t.Errorf("kinds = %v", body.Kinds)
	}
}

func TestChart(t *testing.T) {
	ts := newTestServer(t)

	resp, data := post(t, ts, "/v1/charts/bar", `{"title":"Adoption","series":[{"label":"Go","value":10},{"label":"Rust","value":5}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != store.ContentTypeSVG {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) || !bytes.Contains(data, []byte("Adoption")) {
		t.Error("response should be the chart SVG")
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("ETag should be set")
	}
}

func TestChartErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name, path, body string
		status           int
		code             string
	}{
		{"empty series", "/v1/charts/bar", `{"title":"x","series":[]}`, http.StatusUnprocessableEntity, "NOT_APPLICABLE"},
		{"zero pie", "/v1/charts/pie", `{"title":"x","series":[{"label":"a","value":0}]}`, http.StatusUnprocessableEntity, "NOT_APPLICABLE"},
		{"unknown kind", "/v1/charts/line", `{}`, http.StatusNotFound, "UNKNOWN_KIND"},
		{"bad json", "/v1/charts/bar", `{"title":`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", "/v1/charts/bar", `{"titel":"x"}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"too large", "/v1/charts/bar", `{"title":"` + strings.Repeat("x", 5000) + `"}`, http.StatusBadRequest, "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, ts, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if code := errorCode(t, data); code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
		})
	}
}

func TestDiagram(t *testing.T) {
	ts := newTestServer(t)

	resp, data := post(t, ts, "/v1/diagrams/comparison", `{"raw":"Monolith | Microservices | Deploy: one unit : many units"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("raw: status = %d: %s", resp.StatusCode, data)
	}
	if !bytes.Contains(data, []byte("Monolith vs Microservices")) {
		t.Error("comparison title missing")
	}

	resp, data = post(t, ts, "/v1/diagrams/Stack", `{"fields":["Layers","App;Code","Runtime;Go"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fields: status = %d: %s", resp.StatusCode, data)
	}

	resp, data = post(t, ts, "/v1/diagrams/venn", `{"fields":["only"]}`)
	if resp.StatusCode != http.StatusUnprocessableEntity || errorCode(t, data) != "NOT_APPLICABLE" {
		t.Errorf("venn: status = %d", resp.StatusCode)
	}

	resp, data = post(t, ts, "/v1/diagrams/gantt", `{"fields":["a","b"]}`)
	if resp.StatusCode != http.StatusNotFound || errorCode(t, data) != "UNKNOWN_KIND" {
		t.Errorf("gantt: status = %d", resp.StatusCode)
	}
}

func TestExpand(t *testing.T) {
	idx := store.NewMemoryIndex()
	fs, err := store.NewFileStore(t.TempDir(), "https://blog.example.com")
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, pipeline.WithStore(fs), pipeline.WithIndex(idx))

	md := "Intro\n\n[DIAGRAM: stack | Layers | A | B]\n\n[DIAGRAM: venn | x]\n"
	reqBody, _ := json.Marshal(ExpandRequest{Markdown: md, Slug: "post", Mode: "link"})
	resp, data := post(t, ts, "/v1/expand", string(reqBody))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}

	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Markdown, "![Layers](https://blog.example.com/postimages/charts/post-1.svg)") {
		t.Errorf("markdown = %q", res.Markdown)
	}
	if res.Stats.Rendered != 1 || res.Stats.Dropped != 1 || len(res.Figures) != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}

	getResp, err := http.Get(ts.URL + "/v1/posts/post/figures")
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	var listed struct {
		Figures []store.Record `json:"figures"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Figures) != 1 || listed.Figures[0].Kind != "stack" {
		t.Errorf("figures = %+v", listed.Figures)
	}
}

func TestExpandErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, data := post(t, ts, "/v1/expand", `{"markdown":"x","mode":"embed"}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, data) != "INVALID_INPUT" {
		t.Errorf("bad mode: status = %d: %s", resp.StatusCode, data)
	}

	resp, data = post(t, ts, "/v1/expand", `{"markdown":"x","slug":"Bad Slug"}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, data) != "INVALID_SLUG" {
		t.Errorf("bad slug: status = %d: %s", resp.StatusCode, data)
	}

	// No store configured.
	resp, data = post(t, ts, "/v1/expand", `{"markdown":"[DIAGRAM: stack | L | A | B]","slug":"p","mode":"link"}`)
	if resp.StatusCode != http.StatusInternalServerError || errorCode(t, data) != "INVALID_CONFIG" {
		t.Errorf("no store: status = %d: %s", resp.StatusCode, data)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v2/nothing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/v1/expand")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingServerHooks) OnResponse(_ context.Context, _, route string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	post(t, ts, "/v1/charts/bar", `{"title":"x","series":[{"label":"a","value":1}]}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || hooks.routes[0] != "/v1/charts/{kind}" {
		t.Errorf("routes = %v", hooks.routes)
	}
}
