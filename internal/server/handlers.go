package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/chartlayout/pkg/buildinfo"
	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// Span sizes the container from grid cells instead of pixels.
type Span struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// ChartRequest is one chart with the options to lay it out and draw it.
type ChartRequest struct {
	Name    string           `json:"name,omitempty"`
	Spec    chart.Spec       `json:"spec"`
	Grid    chart.GridConfig `json:"grid"`
	Span    *Span            `json:"span,omitempty"`
	Options pipeline.Options `json:"options"`
}

// ExportRequest is the body of POST /v1/export.
type ExportRequest struct {
	Charts      []ChartRequest `json:"charts"`
	Concurrency int            `json:"concurrency,omitempty"`
}

// ExportChart is one chart of an export response.
type ExportChart struct {
	Name   string                `json:"name"`
	Layout layout.ComputedLayout `json:"layout"`
	SVG    string                `json:"svg"`
	Cached bool                  `json:"cached"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.prepare(req)
	if err != nil {
		writeError(w, err)
		return
	}

	l, hit, err := s.cfg.Runner.ComputeLayoutWithCacheInfo(r.Context(), req.Spec, req.Grid, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	var req ChartRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.prepare(req)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	res, err := s.cfg.Runner.Execute(r.Context(), req.Spec, req.Grid, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	setCacheHeader(w, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	if res.Layout.OverflowRisk.HasRisk {
		w.Header().Set("X-Overflow-Scale", strconv.FormatFloat(res.Layout.OverflowRisk.Scale, 'f', 3, 64))
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Charts) > s.cfg.MaxCharts {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "too many charts: %d (max %d)", len(req.Charts), s.cfg.MaxCharts))
		return
	}

	jobs := make([]pipeline.Job, len(req.Charts))
	for i, c := range req.Charts {
		opts, err := s.prepare(c)
		if err != nil {
			writeError(w, fmt.Errorf("chart %d: %w", i, err))
			return
		}
		opts.Formats = []string{pipeline.FormatSVG}
		jobs[i] = pipeline.Job{Name: c.Name, Spec: c.Spec, Grid: c.Grid, Options: opts}
	}

	results, err := s.cfg.Runner.Export(r.Context(), jobs, pipeline.ExportOptions{Concurrency: req.Concurrency})
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]ExportChart, len(results))
	for i, res := range results {
		out[i] = ExportChart{
			Name:   res.Name,
			Layout: res.Layout,
			SVG:    string(res.Artifacts[pipeline.FormatSVG]),
			Cached: res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Helpers
// =============================================================================

// prepare validates the chart, turns a grid span into pixels and applies
// the server's engine config.
func (s *Server) prepare(c ChartRequest) (pipeline.Options, error) {
	opts := c.Options
	opts.Config = s.cfg.Engine
	if err := c.Spec.Validate(); err != nil {
		return opts, err
	}
	if c.Span != nil {
		if c.Span.Cols < 1 || c.Span.Rows < 1 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "span must be at least 1x1 (got %dx%d)", c.Span.Cols, c.Span.Rows)
		}
		opts.Width, opts.Height = pipeline.ContainerFromGrid(c.Grid, c.Span.Cols, c.Span.Rows)
	}
	return opts, nil
}

// decode reads a JSON body into v, rejecting unknown fields and trailing data.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request: %v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New(errors.ErrCodeInvalidInput, "request body must hold a single JSON object")
	}
	return nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
