package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conneroisu/pagebuilder/internal/catalog"
	"github.com/conneroisu/pagebuilder/internal/editor"
	"github.com/conneroisu/pagebuilder/internal/element"
	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
	"github.com/conneroisu/pagebuilder/internal/generator"
	"github.com/conneroisu/pagebuilder/internal/version"
	"github.com/conneroisu/pagebuilder/internal/websocket"
)

const maxBodyBytes = 1 << 20

func (s *EditorServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /surface", s.handleSurface)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /ws", s.hub)

	mux.HandleFunc("GET /api/elements", s.handleListElements)
	mux.HandleFunc("POST /api/elements", s.handleAddElement)
	mux.HandleFunc("PATCH /api/elements/{id}", s.handleUpdateElement)
	mux.HandleFunc("DELETE /api/elements/{id}", s.handleDeleteElement)
	mux.HandleFunc("POST /api/elements/{id}/select", s.handleSelectElement)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("POST /api/templates/{key}", s.handleLoadTemplate)
	mux.HandleFunc("POST /api/mode", s.handleSetMode)

	return mux
}

func (s *EditorServer) surfaceView() editor.SurfaceView {
	return editor.SurfaceView{
		Elements: s.store.Elements(),
		Current:  s.store.Current(),
		Mode:     s.session.Mode(),
	}
}

func (s *EditorServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.currentConfig()
	view := editor.PageView{
		Panel: editor.PanelView{
			Templates:  catalog.All(),
			Palette:    catalog.Palette(),
			Mode:       s.session.Mode(),
			ExportName: cfg.Export.FileName,
		},
		Surface: s.surfaceView(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := editor.Page(view).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "Failed to render editor page")
	}
}

func (s *EditorServer) handleSurface(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := editor.Surface(s.surfaceView()).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "Failed to render surface")
	}
}

func (s *EditorServer) handleExport(w http.ResponseWriter, r *http.Request) {
	cfg := s.currentConfig()
	elements := s.store.Elements()

	opts := generator.Options{
		Title: cfg.Export.Title,
		OnSkip: func(e element.Element) {
			s.logger.Warn(r.Context(), nil, "Skipping element of unknown kind",
				"id", string(e.ElementID()), "kind", e.Kind().String())
		},
	}

	// Render into memory first so a failure can still produce an error status.
	html := generator.Generate(elements, opts)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+cfg.Export.FileName+`"`)
	if _, err := io.WriteString(w, html); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to write export")
		return
	}
	s.logger.Info(r.Context(), "Exported document", "elements", len(elements), "bytes", len(html))
}

func (s *EditorServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version.GetShortVersion(),
		"checks": map[string]interface{}{
			"store":     map[string]interface{}{"status": "healthy", "elements": s.store.Len()},
			"websocket": map[string]interface{}{"status": "healthy", "clients": s.hub.ClientCount()},
		},
	}
	s.writeJSON(w, r, http.StatusOK, health)
}

type elementsResponse struct {
	Elements []element.Wire `json:"elements"`
	Current  element.ID     `json:"current,omitempty"`
}

func (s *EditorServer) handleListElements(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, elementsResponse{
		Elements: element.ToWireList(s.store.Elements()),
		Current:  s.store.Current(),
	})
}

// addRequest is {"type": "hero"} plus any patch fields to override the
// palette defaults. A field sent as "" clears the default.
type addRequest struct {
	Type string `json:"type"`
	element.Patch
}

func (s *EditorServer) handleAddElement(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Type == "" {
		s.writeError(w, r, builderrors.NewValidationError(builderrors.ErrCodeInvalidRequest, "element type is required"))
		return
	}

	base, ok := catalog.DefaultDraft(element.Kind(req.Type))
	if !ok {
		var err error
		base, err = element.FromWire(element.Wire{Type: req.Type})
		// Unknown kinds are kept; they render as nothing.
		s.errorHandler.Handle(r.Context(), err)
	}

	added := s.store.Add(element.Apply(base, req.Patch))
	s.writeJSON(w, r, http.StatusCreated, element.ToWire(added))
}

func (s *EditorServer) handleUpdateElement(w http.ResponseWriter, r *http.Request) {
	id := element.ID(r.PathValue("id"))

	var patch element.Patch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, ok := s.store.Update(id, patch)
	if !ok {
		s.writeError(w, r, builderrors.ErrElementNotFound(string(id)))
		return
	}
	s.writeJSON(w, r, http.StatusOK, element.ToWire(updated))
}

func (s *EditorServer) handleDeleteElement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.Delete(element.ID(id)) {
		s.writeError(w, r, builderrors.ErrElementNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *EditorServer) handleSelectElement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.store.Get(element.ID(id)); !ok {
		s.writeError(w, r, builderrors.ErrElementNotFound(id))
		return
	}
	s.store.SetCurrent(element.ID(id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *EditorServer) handleReset(w http.ResponseWriter, r *http.Request) {
	s.store.Reset()
	w.WriteHeader(http.StatusNoContent)
}

type templateResponse struct {
	Key      string         `json:"key"`
	Name     string         `json:"name"`
	Elements []element.Wire `json:"elements"`
}

func (s *EditorServer) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()
	out := make([]templateResponse, 0, len(all))
	for _, t := range all {
		out = append(out, templateResponse{Key: t.Key, Name: t.Name, Elements: element.ToWireList(t.Elements)})
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *EditorServer) handleLoadTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	tmpl, ok := catalog.Lookup(key)
	if !ok {
		s.writeError(w, r, builderrors.ErrTemplateNotFound(key))
		return
	}

	loaded := s.store.Load(tmpl)
	s.logger.Info(r.Context(), "Loaded template", "template", key, "elements", len(loaded))
	s.writeJSON(w, r, http.StatusOK, elementsResponse{Elements: element.ToWireList(loaded)})
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *EditorServer) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	mode, err := editor.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.session.SetMode(mode) {
		s.hub.Broadcast(websocket.Message{Type: websocket.MessageModeChanged, Target: string(mode)})
	}
	s.writeJSON(w, r, http.StatusOK, modeRequest{Mode: string(mode)})
}

func decodeBody(r *http.Request, v interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return builderrors.NewValidationError(builderrors.ErrCodeInvalidRequest, "content type must be application/json")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return builderrors.NewValidationError(builderrors.ErrCodeInvalidRequest, "malformed JSON body").WithCause(err)
	}
	return nil
}
