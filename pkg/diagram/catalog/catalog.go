// Package catalog defines the fixed set of node kinds a deployment diagram can
// draw.
//
// Kinds are addressed by a dotted key of the form "provider.category.Name"
// (for example "k8s.compute.Deployment" or "onprem.database.PostgreSQL"),
// mirroring how infrastructure diagrams group their icons. Each kind carries
// a Graphviz visual: the shape, fill, and font colors used when the node is
// rendered.
//
// The catalog is read-only. Use [Lookup] to resolve a key and [All] to
// enumerate every registered kind in a stable order.
package catalog

import (
	"slices"
	"strings"
)

// Provider names group kinds by the platform they belong to.
const (
	ProviderK8s         = "k8s"
	ProviderOnPrem      = "onprem"
	ProviderAWS         = "aws"
	ProviderGeneric     = "generic"
	ProviderProgramming = "programming"
)

// Kind describes a catalog entry and how it is drawn.
type Kind struct {
	Provider  string // e.g. "k8s"
	Category  string // e.g. "compute"
	Name      string // e.g. "Deployment"
	Shape     string // Graphviz node shape
	Style     string // Graphviz node style
	FillColor string
	FontColor string
	PenColor  string
}

// Key returns the dotted catalog key, e.g. "k8s.compute.Deployment".
func (k Kind) Key() string {
	return k.Provider + "." + k.Category + "." + k.Name
}

// Attrs returns the Graphviz node attributes for the kind.
// Empty fields are omitted so diagram-level defaults can apply.
func (k Kind) Attrs() map[string]string {
	attrs := make(map[string]string, 5)
	set := func(key, v string) {
		if v != "" {
			attrs[key] = v
		}
	}
	set("shape", k.Shape)
	set("style", k.Style)
	set("fillcolor", k.FillColor)
	set("fontcolor", k.FontColor)
	set("color", k.PenColor)
	return attrs
}

// Palette colors shared across kinds.
const (
	k8sBlue     = "#326CE5"
	dbBlue      = "#336791"
	redisRed    = "#D82C20"
	monitorRed  = "#E6522C"
	grafanaOrg  = "#F46800"
	vaultBlack  = "#000000"
	gitOrange   = "#F05032"
	clientGray  = "#2D3436"
	queueRed    = "#C2185B"
	serverGray  = "#B2BEC3"
	awsOrange   = "#8C4FFF"
	storageTeal = "#00897B"
	ubuntuOrg   = "#E95420"
	pythonBlue  = "#3776AB"
	white       = "#FFFFFF"
	darkText    = "#2D3436"
)

// k8s returns a Kubernetes resource kind; all share the Kubernetes palette.
func k8s(category, name, shape string) Kind {
	return Kind{
		Provider:  ProviderK8s,
		Category:  category,
		Name:      name,
		Shape:     shape,
		Style:     "rounded,filled",
		FillColor: k8sBlue,
		FontColor: white,
		PenColor:  k8sBlue,
	}
}

func kind(provider, category, name, shape, fill, font string) Kind {
	return Kind{
		Provider:  provider,
		Category:  category,
		Name:      name,
		Shape:     shape,
		Style:     "filled",
		FillColor: fill,
		FontColor: font,
		PenColor:  fill,
	}
}

var kinds = []Kind{
	// Kubernetes
	k8s("compute", "Deployment", "box"),
	k8s("compute", "Pod", "box"),
	k8s("compute", "Job", "box"),
	k8s("compute", "ReplicaSet", "box3d"),
	k8s("network", "Service", "hexagon"),
	k8s("network", "Ingress", "invhouse"),
	k8s("storage", "PersistentVolume", "cylinder"),
	k8s("storage", "StorageClass", "cylinder"),
	k8s("rbac", "ServiceAccount", "octagon"),
	k8s("clusterconfig", "LimitRange", "parallelogram"),
	k8s("others", "CRD", "note"),

	// On-premises
	kind(ProviderOnPrem, "database", "PostgreSQL", "cylinder", dbBlue, white),
	kind(ProviderOnPrem, "database", "MySQL", "cylinder", "#00758F", white),
	kind(ProviderOnPrem, "inmemory", "Redis", "cylinder", redisRed, white),
	kind(ProviderOnPrem, "monitoring", "Prometheus", "component", monitorRed, white),
	kind(ProviderOnPrem, "monitoring", "Grafana", "component", grafanaOrg, white),
	kind(ProviderOnPrem, "vcs", "Git", "note", gitOrange, white),
	kind(ProviderOnPrem, "security", "Vault", "doubleoctagon", vaultBlack, white),
	kind(ProviderOnPrem, "network", "Internet", "ellipse", "#74B9FF", darkText),
	kind(ProviderOnPrem, "client", "Users", "egg", clientGray, white),
	kind(ProviderOnPrem, "queue", "ActiveMQ", "cds", queueRed, white),
	kind(ProviderOnPrem, "compute", "Server", "box3d", serverGray, darkText),

	// AWS
	kind(ProviderAWS, "network", "CloudFront", "ellipse", awsOrange, white),

	// Generic
	{Provider: ProviderGeneric, Category: "blank", Name: "Blank", Shape: "plaintext"},
	kind(ProviderGeneric, "os", "Ubuntu", "box", ubuntuOrg, white),
	kind(ProviderGeneric, "storage", "Storage", "folder", storageTeal, white),

	// Programming
	kind(ProviderProgramming, "language", "Python", "tab", pythonBlue, white),
}

var index = func() map[string]Kind {
	m := make(map[string]Kind, len(kinds))
	for _, k := range kinds {
		m[strings.ToLower(k.Key())] = k
	}
	return m
}()

// Lookup resolves a catalog key. Matching is case-insensitive.
func Lookup(key string) (Kind, bool) {
	k, ok := index[strings.ToLower(key)]
	return k, ok
}

// MustLookup is like [Lookup] but panics on unknown keys.
// It is intended for package-level declarations with literal keys.
func MustLookup(key string) Kind {
	k, ok := Lookup(key)
	if !ok {
		panic("catalog: unknown kind " + key)
	}
	return k
}

// All returns every registered kind in declaration order.
func All() []Kind { return slices.Clone(kinds) }

// Providers returns the distinct provider names in declaration order.
func Providers() []string {
	var out []string
	for _, k := range kinds {
		if !slices.Contains(out, k.Provider) {
			out = append(out, k.Provider)
		}
	}
	return out
}

// Keys returns all kind keys in declaration order.
func Keys() []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.Key()
	}
	return out
}
