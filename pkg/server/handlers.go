package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/deployview/pkg/buildinfo"
	"github.com/matzehuels/deployview/pkg/deployments"
	"github.com/matzehuels/deployview/pkg/diagram"
	"github.com/matzehuels/deployview/pkg/errors"
	"github.com/matzehuels/deployview/pkg/pipeline"
	"github.com/matzehuels/deployview/pkg/topology"
)

// maxBodySize limits posted topology documents.
const maxBodySize = 1 << 20

// API serves the /api/v1 routes.
type API struct {
	runner *pipeline.Runner
}

// DeploymentInfo describes a built-in deployment.
type DeploymentInfo struct {
	Name        string             `json:"name"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Nodes       int                `json:"nodes"`
	Clusters    int                `json:"clusters"`
	Edges       int                `json:"edges"`
	Formats     []string           `json:"formats"`
	Topology    *topology.Document `json:"topology,omitempty"`
}

// Routes returns the API routes relative to the version prefix.
func (a *API) Routes() []Route {
	return []Route{
		{http.MethodGet, "/deployments", http.HandlerFunc(a.listDeployments)},
		{http.MethodGet, "/deployments/{name}", http.HandlerFunc(a.getDeployment)},
		{http.MethodGet, "/deployments/{name}/diagram.{format}", http.HandlerFunc(a.deploymentDiagram)},
		{http.MethodPost, "/render", http.HandlerFunc(a.render)},
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (a *API) listDeployments(w http.ResponseWriter, _ *http.Request) {
	var out []DeploymentInfo
	for _, dep := range deployments.All() {
		d, err := dep.Build()
		if err != nil {
			a.writeError(w, err)
			return
		}
		out = append(out, info(dep, d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getDeployment(w http.ResponseWriter, r *http.Request) {
	dep, d, err := lookup(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	resp := info(dep, d)
	doc := topology.FromDiagram(d)
	resp.Topology = &doc
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) deploymentDiagram(w http.ResponseWriter, r *http.Request) {
	_, d, err := lookup(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeDiagram(w, r, d, chi.URLParam(r, "format"))
}

func (a *API) render(w http.ResponseWriter, r *http.Request) {
	f, err := inputFormat(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	d, err := topology.Read(http.MaxBytesReader(w, r.Body, maxBodySize), f)
	if err != nil {
		a.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = diagram.FormatSVG
	}
	a.writeDiagram(w, r, d, format)
}

func (a *API) writeDiagram(w http.ResponseWriter, r *http.Request, d *diagram.Diagram, format string) {
	if err := pipeline.ValidateFormat(format); err != nil {
		a.writeError(w, err)
		return
	}
	res, err := a.runner.Render(r.Context(), d, pipeline.Options{Formats: []string{format}})
	if err != nil {
		a.writeError(w, err)
		return
	}

	etag := `"` + res.DOTHash[:16] + "-" + format + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		a.runner.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{
		"code":    string(code),
		"message": errors.UserMessage(err),
	})
}

func lookup(name string) (deployments.Deployment, *diagram.Diagram, error) {
	if err := errors.ValidateName(name); err != nil {
		return deployments.Deployment{}, nil, err
	}
	dep, err := deployments.Find(name)
	if err != nil {
		return deployments.Deployment{}, nil, err
	}
	d, err := dep.Build()
	if err != nil {
		return deployments.Deployment{}, nil, err
	}
	return dep, d, nil
}

func info(dep deployments.Deployment, d *diagram.Diagram) DeploymentInfo {
	return DeploymentInfo{
		Name:        dep.Name,
		Title:       d.Title,
		Description: dep.Description,
		Nodes:       d.NodeCount(),
		Clusters:    d.ClusterCount(),
		Edges:       d.EdgeCount(),
		Formats:     d.OutFormats,
	}
}

// inputFormat picks the topology format from ?input= or the Content-Type.
func inputFormat(r *http.Request) (topology.Format, error) {
	if in := r.URL.Query().Get("input"); in != "" {
		return topology.ParseFormat(in)
	}
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "toml"):
		return topology.TOML, nil
	case strings.Contains(ct, "yaml"), strings.Contains(ct, "yml"):
		return topology.YAML, nil
	default:
		return topology.JSON, nil
	}
}

func contentType(format string) string {
	switch format {
	case diagram.FormatSVG:
		return "image/svg+xml"
	case diagram.FormatPNG:
		return "image/png"
	case diagram.FormatJPG:
		return "image/jpeg"
	case diagram.FormatPDF:
		return "application/pdf"
	case diagram.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

