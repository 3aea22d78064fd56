package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/loopline/pkg/buildinfo"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

// Response headers set by the compile endpoint.
const (
	HeaderDiagramID   = "X-Diagram-ID"
	HeaderLayoutCache = "X-Layout-Cache"
)

// CheckResponse is returned by a successful check.
type CheckResponse struct {
	Valid    bool `json:"valid"`
	Vertices int  `json:"vertices"`
	Links    int  `json:"links"`
	Edges    int  `json:"edges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	p, err := pipeline.Parse(r.Context(), src)
	if err != nil {
		writeError(w, err, src)
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{
		Valid:    true,
		Vertices: p.Vertices.Len(),
		Links:    p.Links.Len(),
		Edges:    len(p.Graph.Edges()),
	})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	out, err := pipeline.Format(r.Context(), src)
	if err != nil {
		writeError(w, err, src)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, out)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	src, err := readSource(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	res, err := s.runner.Execute(r.Context(), src, opts)
	if err != nil {
		writeError(w, err, src)
		return
	}

	id := uuid.NewString()
	if err := s.runner.SaveDiagram(r.Context(), id, res.Diagram); err != nil {
		s.logger.Warn("diagram not kept", "id", id, "err", err)
	} else {
		w.Header().Set(HeaderDiagramID, id)
	}
	if res.CacheInfo.LayoutHit {
		w.Header().Set(HeaderLayoutCache, "hit")
	} else {
		w.Header().Set(HeaderLayoutCache, "miss")
	}

	format := opts.Formats[0]
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid diagram id %q", id), "")
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	d, ok, err := s.runner.LoadDiagram(r.Context(), id)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeCache, err, "load diagram"), "")
		return
	}
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "diagram %s not found", id), "")
		return
	}

	// The stored diagram fixes the visualization.
	opts.VizType = d.VizType
	artifacts, err := s.runner.Render(r.Context(), d, nil, opts)
	if err != nil {
		writeError(w, err, "")
		return
	}
	format := opts.Formats[0]
	writeArtifact(w, format, artifacts[format])
}

// requestOptions applies the query parameters format, viz, style,
// detailed, background and refresh to the server defaults.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Options
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}

	if v := q.Get("viz"); v != "" {
		if err := pipeline.ValidateVizType(v); err != nil {
			return opts, err
		}
		opts.VizType = v
	}
	if v := q.Get("style"); v != "" {
		if err := pipeline.ValidateStyle(v); err != nil {
			return opts, err
		}
		opts.Style = v
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	} {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", b.name, v)
		}
		*b.dst = on
	}
	return opts, nil
}

func readSource(r *http.Request) (string, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	return string(data), nil
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
