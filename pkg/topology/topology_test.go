package topology

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/diagram/catalog"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/render/dot"
)

func sample() *diagram.Diagram {
	d := diagram.New("Generic Rucio Deployment",
		diagram.WithName("sample"),
		diagram.WithFilename("sample/deployment"),
		diagram.WithOutFormats(diagram.FormatPNG, diagram.FormatSVG),
		diagram.WithGraphAttrs(diagram.Attrs{"fontsize": "45", "bgcolor": "white"}),
		diagram.WithNodeAttrs(diagram.Attrs{"fontsize": "11"}),
	)
	root := d.Root()
	users := root.Node(catalog.OnPremUsers, "Research Community\nUsers")
	var ingress, server, db string
	root.Cluster("Rucio Cluster", func(s *diagram.Scope) {
		s.Cluster("Ingress & Load Balancing", func(s *diagram.Scope) {
			ingress = s.Node(catalog.K8sIngress, "Ingress Controller\n(nginx/traefik)")
		})
		server = s.Node(catalog.K8sDeployment, "Rucio Server")
	})
	db = root.NodeWithAttrs(catalog.OnPremPostgreSQL, "Managed Database", diagram.Attrs{"penwidth": "2"})
	d.Connect(users, diagram.Edge{Label: "HTTPS", Color: "blue"}, ingress)
	d.Connect(ingress, diagram.Edge{Color: "blue"}, server)
	d.Connect(server, diagram.Edge{Label: "SQL", Color: "red", Style: diagram.StyleDashed}, db)
	return d
}

func TestRoundTripPreservesDOT(t *testing.T) {
	orig := sample()
	want := dot.ToDOT(orig)

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, orig, f); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			got, err := Read(&buf, f)
			if err != nil {
				t.Fatalf("Read() error: %v\n%s", err, buf.String())
			}
			if gotDOT := dot.ToDOT(got); gotDOT != want {
				t.Errorf("round trip changed DOT:\n got: %s\nwant: %s", gotDOT, want)
			}
			if got.Filename != orig.Filename || len(got.OutFormats) != 2 {
				t.Errorf("round trip lost settings: filename=%q formats=%v", got.Filename, got.OutFormats)
			}
		})
	}
}

func TestReadDefaults(t *testing.T) {
	src := `
title: Web Service
nodes:
  - id: users
    kind: onprem.client.Users
  - id: api
    kind: k8s.compute.Deployment
edges:
  - from: users
    to: api
`
	d, err := Read(strings.NewReader(src), YAML)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if d.Direction != diagram.TopToBottom {
		t.Errorf("Direction = %q, want TB", d.Direction)
	}
	if d.Filename != "web_service" {
		t.Errorf("Filename = %q", d.Filename)
	}
	if d.NodeCount() != 2 || d.EdgeCount() != 1 {
		t.Errorf("counts = %d nodes, %d edges", d.NodeCount(), d.EdgeCount())
	}
}

func TestReadTOML(t *testing.T) {
	src := `
title = "Web Service"
direction = "LR"

[[clusters]]
id = "backend"
label = "Backend"

[[nodes]]
id = "api"
kind = "k8s.compute.Deployment"
cluster = "backend"

[[nodes]]
id = "db"
kind = "onprem.database.PostgreSQL"
cluster = "backend"

[[edges]]
from = "api"
to = "db"
label = "SQL"
`
	d, err := Read(strings.NewReader(src), TOML)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if d.Direction != diagram.LeftToRight || d.ClusterCount() != 1 || d.EdgeCount() != 1 {
		t.Errorf("unexpected diagram: dir=%s clusters=%d edges=%d", d.Direction, d.ClusterCount(), d.EdgeCount())
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		f    Format
	}{
		{"malformed json", `{"title": `, JSON},
		{"unknown json field", `{"title": "x", "nodez": []}`, JSON},
		{"unknown toml field", "title = \"x\"\nnodez = 1\n", TOML},
		{"unknown yaml field", "title: x\nnodez: []\n", YAML},
		{"unknown kind", `{"title": "x", "nodes": [{"id": "a", "kind": "nope.x.Y"}], "edges": []}`, JSON},
		{"dangling edge", `{"title": "x", "nodes": [{"id": "a", "kind": "k8s.compute.Pod"}], "edges": [{"from": "a", "to": "b"}]}`, JSON},
		{"bad direction", `{"title": "x", "direction": "XY", "nodes": [], "edges": []}`, JSON},
		{"unknown parent", `{"title": "x", "clusters": [{"id": "c", "parent": "p"}], "nodes": [], "edges": []}`, JSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src), tt.f)
			if err == nil {
				t.Fatal("Read() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidTopology) {
				t.Errorf("Read() code = %v, want INVALID_TOPOLOGY", errors.GetCode(err))
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"topo.json", JSON, false},
		{"dir/topo.TOML", TOML, false},
		{"topo.yaml", YAML, false},
		{"topo.yml", YAML, false},
		{"topo.png", "", true},
		{"topo", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
	if !IsTopologyPath("x.yaml") || IsTopologyPath("rucio-k8s-sme") {
		t.Error("IsTopologyPath mismatch")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "topo.yaml")

	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	d, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if d.Title != "Generic Rucio Deployment" {
		t.Errorf("Title = %q", d.Title)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}
}
