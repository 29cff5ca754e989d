package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/deployview/pkg/buildinfo"
	"github.com/matzehuels/deployview/pkg/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := New("", nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthzAndVersion(t *testing.T) {
	ts := newTestServer(t)

	if resp := get(t, ts.URL+"/healthz"); resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz status = %d", resp.StatusCode)
	}

	resp := get(t, ts.URL+"/version")
	var info buildinfo.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != buildinfo.Version {
		t.Errorf("version = %+v", info)
	}
}

func TestListDeployments(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/api/v1/deployments")

	var list []DeploymentInfo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d deployments, want 3", len(list))
	}
	if list[1].Name != "rucio-k8s-sme" || list[1].Nodes == 0 || list[1].Topology != nil {
		t.Errorf("list[1] = %+v", list[1])
	}
}

func TestGetDeployment(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/deployments/local-docker-compose", http.StatusOK},
		{"/api/v1/deployments/unknown", http.StatusNotFound},
		{"/api/v1/deployments/Bad_Name", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := get(t, ts.URL+tt.path)
		if resp.StatusCode != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
	}

	resp := get(t, ts.URL+"/api/v1/deployments/local-docker-compose")
	var got DeploymentInfo
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Topology == nil || len(got.Topology.Nodes) != got.Nodes {
		t.Errorf("topology missing or inconsistent: %+v", got)
	}
}

func TestDeploymentDiagram(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts.URL+"/api/v1/deployments/rucio-k8s-sme/diagram.dot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/deployments/rucio-k8s-sme/diagram.dot", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Errorf("conditional GET status = %d, want 304", resp2.StatusCode)
	}

	if resp := get(t, ts.URL+"/api/v1/deployments/rucio-k8s-sme/diagram.gif"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", resp.StatusCode)
	}
}

func TestRenderTopology(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		query       string
		body        string
		status      int
	}{
		{
			name:        "json",
			contentType: "application/json",
			query:       "?format=mermaid",
			body:        `{"title":"Web","nodes":[{"id":"a","kind":"k8s.compute.Pod"}]}`,
			status:      http.StatusOK,
		},
		{
			name:        "yaml",
			contentType: "application/yaml",
			query:       "?format=dot",
			body:        "title: Web\nnodes:\n  - id: a\n    kind: k8s.compute.Pod\n",
			status:      http.StatusOK,
		},
		{
			name:   "toml via query",
			query:  "?format=dot&input=toml",
			body:   "title = \"Web\"\n[[nodes]]\nid = \"a\"\nkind = \"k8s.compute.Pod\"\n",
			status: http.StatusOK,
		},
		{
			name:   "dangling edge",
			query:  "?format=dot",
			body:   `{"title":"Web","nodes":[{"id":"a","kind":"k8s.compute.Pod"}],"edges":[{"from":"a","to":"b"}]}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed",
			query:  "?format=dot",
			body:   `{"title":`,
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/render"+tt.query, tt.contentType, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				var body map[string]string
				_ = json.NewDecoder(resp.Body).Decode(&body)
				if body["code"] == "" || body["message"] == "" {
					t.Errorf("error body = %v", body)
				}
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestRequestHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	get(t, ts.URL+"/api/v1/deployments/rucio-k8s-sme")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || hooks.routes[0] != "GET /api/v1/deployments/{name}" {
		t.Errorf("routes = %v", hooks.routes)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, err := New("127.0.0.1:0", nil)
	if err != nil {
		t.Fatal(err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp := get(t, "http://"+ln.Addr().String()+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestWithLoggerNil(t *testing.T) {
	if _, err := New("", nil, WithLogger(nil)); err == nil {
		t.Error("New() should reject a nil logger")
	}
}
