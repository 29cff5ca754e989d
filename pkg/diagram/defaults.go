package diagram

// Default presentation attributes. User attributes set on a diagram are
// merged over these.

// DefaultGraphAttrs returns the base graph attributes.
func DefaultGraphAttrs() Attrs {
	return Attrs{
		"pad":       "2.0",
		"splines":   "ortho",
		"nodesep":   "0.60",
		"ranksep":   "0.75",
		"fontname":  "Sans-Serif",
		"fontsize":  "15",
		"fontcolor": "#2D3436",
	}
}

// DefaultNodeAttrs returns the base node attributes.
func DefaultNodeAttrs() Attrs {
	return Attrs{
		"shape":     "box",
		"style":     "rounded",
		"margin":    "0.2,0.1",
		"fontname":  "Sans-Serif",
		"fontsize":  "13",
		"fontcolor": "#2D3436",
	}
}

// DefaultEdgeAttrs returns the base edge attributes.
func DefaultEdgeAttrs() Attrs {
	return Attrs{
		"color": "#7B8894",
	}
}

// DefaultClusterAttrs returns the base cluster attributes, without the
// depth-dependent background.
func DefaultClusterAttrs() Attrs {
	return Attrs{
		"shape":     "box",
		"style":     "rounded",
		"labeljust": "l",
		"pencolor":  "#AEB6BE",
		"fontname":  "Sans-Serif",
		"fontsize":  "12",
	}
}

var clusterBackgrounds = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

// ClusterBackground returns the background color for a cluster at the given
// nesting depth. Colors cycle for depths beyond the palette.
func ClusterBackground(depth int) string {
	if depth < 0 {
		depth = 0
	}
	return clusterBackgrounds[depth%len(clusterBackgrounds)]
}
