package mermaid

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/diagram/catalog"
)

func sample() *diagram.Diagram {
	d := diagram.New("Sample", diagram.WithDirection(diagram.LeftToRight))
	root := d.Root()
	users := root.Node(catalog.OnPremUsers, "Users")
	var srv, db string
	root.Cluster("Rucio Cluster", func(s *diagram.Scope) {
		srv = s.Node(catalog.K8sDeployment, "Rucio Server\nserver.example.org")
		s.Cluster("Data", func(s *diagram.Scope) {
			db = s.Node(catalog.OnPremPostgreSQL, `DB "main"`)
		})
	})
	d.Connect(users, diagram.Edge{Label: "HTTPS"}, srv)
	d.Connect(srv, diagram.Edge{Style: diagram.StyleDashed}, db)
	return d
}

func TestToMermaid(t *testing.T) {
	out := ToMermaid(sample())

	wants := []string{
		"title: Sample",
		"graph LR",
		`n0(["Users"])`,
		`subgraph c0["Rucio Cluster"]`,
		`subgraph c1["Data"]`,
		`n1["Rucio Server<br/>server.example.org"]`,
		`n2[("DB #quot;main#quot;")]`,
		`n0 -->|"HTTPS"| n1`,
		"n1 -.-> n2",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("ToMermaid() missing %q in:\n%s", w, out)
		}
	}
	if got := strings.Count(out, "end\n"); got != 2 {
		t.Errorf("subgraph end count = %d, want 2", got)
	}
}

func TestShape(t *testing.T) {
	tests := []struct {
		kind       string
		open, shut string
	}{
		{catalog.OnPremRedis, "[(", ")]"},
		{catalog.K8sService, "{{", "}}"},
		{catalog.K8sDeployment, "[", "]"},
		{"unknown.kind.X", "[", "]"},
	}
	for _, tt := range tests {
		open, shut := shape(tt.kind)
		if open != tt.open || shut != tt.shut {
			t.Errorf("shape(%s) = %s %s, want %s %s", tt.kind, open, shut, tt.open, tt.shut)
		}
	}
}

func TestToMermaidDistinctIDs(t *testing.T) {
	d := diagram.New("Punctuation")
	for _, n := range []diagram.Node{
		{ID: "a-b", Label: "First", Kind: catalog.OnPremServer},
		{ID: "a_b", Label: "Second", Kind: catalog.OnPremServer},
		{ID: "cluster_x", Label: "Node", Kind: catalog.OnPremServer},
		{ID: "c", Label: "Sink", Kind: catalog.OnPremServer},
	} {
		if err := d.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.AddCluster(diagram.Cluster{ID: "x", Label: "X"}); err != nil {
		t.Fatal(err)
	}
	d.Chain("a-b", "c")
	d.Chain("a_b", "c")

	out := ToMermaid(d)
	wants := []string{
		`n0["First"]`,
		`n1["Second"]`,
		`n2["Node"]`,
		`subgraph c0["X"]`,
		"n0 --> n3",
		"n1 --> n3",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("ToMermaid() missing %q in:\n%s", w, out)
		}
	}
}

func TestToMermaidReservedWords(t *testing.T) {
	d := diagram.New("Flow")
	root := d.Root()
	start := root.Node(catalog.OnPremServer, "Start")
	end := root.Node(catalog.OnPremServer, "End")
	d.Chain(start, end)
	if end != "end" {
		t.Fatalf("builder ID = %q, want end", end)
	}

	out := ToMermaid(d)
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "end") || strings.HasSuffix(line, " end") {
			t.Errorf("line %q uses the end keyword as an ID", line)
		}
	}
	if !strings.Contains(out, `n1["End"]`) || !strings.Contains(out, "n0 --> n1") {
		t.Errorf("ToMermaid() = \n%s", out)
	}
}

func TestFrontMatter(t *testing.T) {
	tests := []string{
		"Sample",
		"Rucio: Deployment",
		"key: value # not a comment",
		`Quotes "and" 'more'`,
	}
	for _, title := range tests {
		t.Run(title, func(t *testing.T) {
			fm := frontMatter(title)
			body, ok := strings.CutPrefix(fm, "---\n")
			if !ok || !strings.HasSuffix(body, "---\n") {
				t.Fatalf("frontMatter(%q) = %q", title, fm)
			}
			var got struct {
				Title string `yaml:"title"`
			}
			if err := yaml.Unmarshal([]byte(strings.TrimSuffix(body, "---\n")), &got); err != nil {
				t.Fatalf("front matter is not valid YAML: %v\n%s", err, fm)
			}
			if got.Title != title {
				t.Errorf("title = %q, want %q", got.Title, title)
			}
		})
	}

	if fm := frontMatter(""); fm != "" {
		t.Errorf("frontMatter(\"\") = %q, want empty", fm)
	}
}
