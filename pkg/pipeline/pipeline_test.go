package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/deployview/pkg/cache"
	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/diagram/catalog"
	dverrors "github.com/matzehuels/deployview/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"jpg", false},
		{"dot", false},
		{"mermaid", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !dverrors.Is(err, dverrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, dverrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" PNG, svg,,png ,dot")
	want := []string{"png", "svg", "dot"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}
	if got := ParseFormats(""); len(got) != 0 {
		t.Errorf("ParseFormats(\"\") = %v", got)
	}
}

func TestOptionsDefaults(t *testing.T) {
	d := testDiagram()
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(d); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != diagram.FormatPNG {
		t.Errorf("Formats = %v, want diagram default [png]", opts.Formats)
	}
	if opts.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q", opts.OutputDir)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		d    *diagram.Diagram
	}{
		{"bad format", Options{Formats: []string{"gif"}}, testDiagram()},
		{"negative scale", Options{PNGScale: -1}, testDiagram()},
		{"escaping filename", Options{}, diagram.New("x", diagram.WithFilename("../x"))},
		{"absolute filename", Options{}, diagram.New("x", diagram.WithFilename("/tmp/x"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(tt.d); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	d := diagram.New("x", diagram.WithFilename("rucio-k8s-sme/deployment"))
	tests := []struct {
		opts   Options
		format string
		want   string
	}{
		{Options{OutputDir: "out"}, "png", filepath.Join("out", "rucio-k8s-sme", "deployment.png")},
		{Options{OutputDir: "."}, "mermaid", filepath.Join("rucio-k8s-sme", "deployment.mmd")},
		{Options{Output: "diagram"}, "svg", "diagram.svg"},
		{Options{Output: "diagram.svg"}, "svg", "diagram.svg"},
		{Options{Output: "diagram.svg"}, "png", "diagram.svg.png"},
	}
	for _, tt := range tests {
		if got := tt.opts.OutputPath(d, tt.format); got != tt.want {
			t.Errorf("OutputPath(%+v, %s) = %q, want %q", tt.opts, tt.format, got, tt.want)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{PNGScale: 2}
	if got := opts.ArtifactKeyOpts("png").Converter; got == "" {
		t.Error("scaled png should record the converter in the key")
	}
	if got := opts.ArtifactKeyOpts("svg").Converter; got != "" {
		t.Errorf("svg converter = %q, want native", got)
	}
}

func TestRenderTextFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Render(context.Background(), testDiagram(), Options{Formats: []string{"dot", "mermaid"}})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.HasPrefix(string(res.Artifacts["dot"]), "digraph") {
		t.Errorf("dot artifact = %q", res.Artifacts["dot"])
	}
	if !strings.Contains(string(res.Artifacts["mermaid"]), "graph TB") {
		t.Errorf("mermaid artifact = %q", res.Artifacts["mermaid"])
	}
	if res.DOTHash != cache.Hash([]byte(res.DOT)) {
		t.Error("DOTHash should hash the DOT source")
	}
	if res.Stats.NodeCount != 2 || res.Stats.EdgeCount != 1 || res.Stats.ClusterCount != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.Hits != 0 || res.CacheInfo.Misses != 0 {
		t.Errorf("text formats should not touch the cache: %+v", res.CacheInfo)
	}
}

func TestRenderInvalidDiagram(t *testing.T) {
	d := diagram.New("broken")
	d.Connect(d.Root().Node(catalog.K8sPod, "a"), diagram.Edge{}, "ghost")

	_, err := NewRunner(nil, nil, nil).Render(context.Background(), d, Options{Formats: []string{"dot"}})
	if !dverrors.Is(err, dverrors.ErrCodeInvalidTopology) {
		t.Errorf("Render() error = %v, want INVALID_TOPOLOGY", err)
	}
}

func TestRenderCacheHit(t *testing.T) {
	ctx := context.Background()
	mem := newMemCache()
	r := NewRunner(mem, nil, nil)
	d := testDiagram()
	opts := Options{Formats: []string{"svg"}}

	res, err := r.Render(ctx, d, Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}
	key := r.Keyer.ArtifactKey(res.DOTHash, opts.ArtifactKeyOpts("svg"))
	_ = mem.Set(ctx, key, []byte("<svg>cached</svg>"), time.Hour)

	res, err = r.Render(ctx, d, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(res.Artifacts["svg"]) != "<svg>cached</svg>" {
		t.Errorf("svg artifact = %q, want cached bytes", res.Artifacts["svg"])
	}
	if !res.CacheInfo.AllHit() {
		t.Errorf("CacheInfo = %+v, want all hit", res.CacheInfo)
	}
}

func TestRenderMissPopulatesCache(t *testing.T) {
	ctx := context.Background()
	mem := newMemCache()
	r := NewRunner(mem, nil, nil)

	res, err := r.Render(ctx, testDiagram(), Options{Formats: []string{"svg"}})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if res.CacheInfo.Misses != 1 {
		t.Errorf("CacheInfo = %+v, want one miss", res.CacheInfo)
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not look like SVG")
	}
	if mem.len() != 1 {
		t.Errorf("cache entries = %d, want 1", mem.len())
	}

	res, err = r.Render(ctx, testDiagram(), Options{Formats: []string{"svg"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.AllHit() {
		t.Errorf("second render CacheInfo = %+v, want all hit", res.CacheInfo)
	}
}

func TestRenderNoCache(t *testing.T) {
	mem := newMemCache()
	r := NewRunner(mem, nil, nil)
	if _, err := r.Render(context.Background(), testDiagram(), Options{Formats: []string{"svg"}, NoCache: true}); err != nil {
		t.Fatal(err)
	}
	if mem.len() != 0 {
		t.Error("NoCache should not populate the cache")
	}
}

func TestRenderCacheFailureIsNotFatal(t *testing.T) {
	r := NewRunner(failingCache{}, nil, nil)
	res, err := r.Render(context.Background(), testDiagram(), Options{Formats: []string{"svg"}})
	if err != nil {
		t.Fatalf("Render() should survive cache errors: %v", err)
	}
	if len(res.Artifacts["svg"]) == 0 {
		t.Error("svg artifact missing")
	}
	if res.CacheInfo.Misses != 1 {
		t.Errorf("CacheInfo = %+v, want the failure counted as a miss", res.CacheInfo)
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(nil, nil, nil).Render(ctx, testDiagram(), Options{Formats: []string{"dot"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestExecuteWritesFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), testDiagram(), Options{
		Formats:   []string{"dot", "mermaid"},
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "web", "deployment.dot"),
		filepath.Join(dir, "web", "deployment.mmd"),
	}
	if strings.Join(res.Files, "|") != strings.Join(want, "|") {
		t.Errorf("Files = %v, want %v", res.Files, want)
	}
	for _, f := range want {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}
}

func TestExecuteBuiltinsWritesPNG(t *testing.T) {
	diagrams, deps, err := ResolveAll()
	if err != nil {
		t.Fatalf("ResolveAll() error: %v", err)
	}
	want := map[string]string{
		"local-docker-compose":            filepath.Join("local-docker-compose", "deployment.png"),
		"rucio-k8s-sme":                   filepath.Join("rucio-k8s-sme", "rucio-k8s-sme-deployment.png"),
		"rucio-k8s-sme-community-focused": filepath.Join("rucio-k8s-sme-community-focused", "deployment.png"),
	}

	pngMagic := []byte("\x89PNG\r\n\x1a\n")
	r := NewRunner(nil, nil, nil)
	for i, d := range diagrams {
		name := deps[i].Name
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			res, err := r.Execute(context.Background(), d, Options{OutputDir: dir})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}

			path := filepath.Join(dir, want[name])
			if len(res.Files) != 1 || res.Files[0] != path {
				t.Fatalf("Files = %v, want [%s]", res.Files, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}
			if !bytes.HasPrefix(data, pngMagic) {
				t.Errorf("%s is not a PNG (%d bytes)", path, len(data))
			}
		})
	}
}

func TestResolve(t *testing.T) {
	d, dep, err := Resolve("rucio-k8s-sme")
	if err != nil {
		t.Fatalf("Resolve(builtin) error: %v", err)
	}
	if dep == nil || dep.Name != "rucio-k8s-sme" || d.NodeCount() == 0 {
		t.Errorf("Resolve(builtin) = %v, %v", d, dep)
	}

	path := filepath.Join(t.TempDir(), "web.json")
	doc := `{"name":"web","title":"Web","nodes":[{"id":"a","kind":"k8s.compute.Pod"}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	d, dep, err = Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(file) error: %v", err)
	}
	if dep != nil || d.Name != "web" {
		t.Errorf("Resolve(file) = %+v, %v", d, dep)
	}

	if _, _, err := Resolve("no-such-deployment"); !dverrors.Is(err, dverrors.ErrCodeNotFound) {
		t.Errorf("Resolve(unknown) error = %v, want NOT_FOUND", err)
	}

	txt := filepath.Join(t.TempDir(), "web.txt")
	_ = os.WriteFile(txt, []byte("x"), 0644)
	if _, _, err := Resolve(txt); !dverrors.Is(err, dverrors.ErrCodeUnsupportedInput) {
		t.Errorf("Resolve(txt) error = %v, want UNSUPPORTED_INPUT", err)
	}
}

func TestResolveAll(t *testing.T) {
	diagrams, deps, err := ResolveAll()
	if err != nil {
		t.Fatalf("ResolveAll() error: %v", err)
	}
	if len(diagrams) != 3 || len(deps) != 3 {
		t.Errorf("ResolveAll() = %d diagrams, %d deployments", len(diagrams), len(deps))
	}
}

// =============================================================================
// Helpers
// =============================================================================

func testDiagram() *diagram.Diagram {
	d := diagram.New("Web", diagram.WithName("web"), diagram.WithFilename("web/deployment"))
	root := d.Root()
	users := root.Node(catalog.OnPremUsers, "Users")
	var api string
	root.Cluster("Backend", func(s *diagram.Scope) {
		api = s.Node(catalog.K8sDeployment, "API")
	})
	d.Connect(users, diagram.Edge{Label: "HTTPS"}, api)
	return d
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func (m *memCache) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, cache.ErrUnavailable
}
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return cache.ErrUnavailable
}
func (failingCache) Delete(context.Context, string) error { return nil }
func (failingCache) Close() error                         { return nil }
