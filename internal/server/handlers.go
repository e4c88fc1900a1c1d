package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
	"github.com/mhalter/nodeloom/pkg/render"
	"github.com/mhalter/nodeloom/pkg/store"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := document.WriteDocument(doc, w); err != nil {
		s.log.Error("write document", "err", err)
	}
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	doc, err := document.ReadDocument(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := doc.Validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	n := graphedit.New(doc, s.registry, graphedit.WithLogger(s.log))
	opts := render.Options{
		Detailed: r.URL.Query().Get("detailed") == "true",
		Pin:      r.URL.Query().Get("pin") == "true",
	}
	dot := render.ToDOT(n, parsePath(r), opts)

	if r.URL.Query().Get("format") == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
		return
	}
	svg, err := render.RenderSVG(dot)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// hitTestRequest is a pixel-space probe at one network level.
type hitTestRequest struct {
	Path []document.NodeID `json:"path"`
	X    float64           `json:"x"`
	Y    float64           `json:"y"`
}

// hitTestResponse reports everything under the probe point.
type hitTestResponse struct {
	Node   document.NodeID           `json:"node,omitempty"`
	Input  *document.InputConnector  `json:"input,omitempty"`
	Output *document.OutputConnector `json:"output,omitempty"`
	Grip   document.NodeID           `json:"grip,omitempty"`
}

func (s *Server) handleHitTest(w http.ResponseWriter, r *http.Request) {
	var req hitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	n := graphedit.New(doc, s.registry, graphedit.WithLogger(s.log))
	path := graphedit.Path(req.Path)
	point := graphedit.Point{X: req.X, Y: req.Y}

	var resp hitTestResponse
	if id, ok := n.NodeFromClick(point, path); ok {
		resp.Node = id
	}
	if in, ok := n.InputConnectorFromClick(point, path); ok {
		resp.Input = &in
	}
	if out, ok := n.OutputConnectorFromClick(point, path); ok {
		resp.Output = &out
	}
	if id, ok := n.LayerGripFromClick(point, path); ok {
		resp.Grip = id
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	node := document.NodeID(r.URL.Query().Get("node"))
	index, err := strconv.Atoi(r.URL.Query().Get("input"))
	if node == "" || err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("node and input query parameters are required"))
		return
	}

	n := graphedit.New(doc, s.registry, graphedit.WithLogger(s.log))
	resolved := n.InputType(document.InputAt(node, index), parsePath(r))
	typeRaw, err := ctyjson.MarshalType(resolved.Type)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"type":   json.RawMessage(typeRaw),
		"source": resolved.Source.String(),
	})
}

func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return doc, true
}

// parsePath decodes the "path" query parameter: node ids joined by slashes,
// outermost first.
func parsePath(r *http.Request) graphedit.Path {
	raw := r.URL.Query().Get("path")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "/")
	path := make(graphedit.Path, len(parts))
	for i, part := range parts {
		path[i] = document.NodeID(part)
	}
	return path
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.log.Error("request failed", "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
