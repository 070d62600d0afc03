// Package server exposes scoring and editable sessions over HTTP for a
// presentation client.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/cue"
	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options configure a Server. Zero values are usable.
type Options struct {
	// Validator checks snapshot bodies against the CUE schema when set.
	Validator *cue.Validator
	Logger    *slog.Logger
	// AccessLog receives Apache-style request lines.
	AccessLog io.Writer
}

// Server routes HTTP requests to the scoring engine and a session store.
type Server struct {
	store     *engine.Store
	validator *cue.Validator
	metrics   *Metrics
	logger    *slog.Logger
	accessLog io.Writer
	router    *mux.Router
}

// New creates a Server around a session store.
func New(store *engine.Store, opts Options) *Server {
	s := &Server{
		store:     store,
		validator: opts.Validator,
		metrics:   NewMetrics(),
		logger:    opts.Logger,
		accessLog: opts.AccessLog,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.accessLog == nil {
		s.accessLog = io.Discard
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	handle := func(path, route string, h http.HandlerFunc, methods ...string) {
		r.Handle(path, s.metrics.WrapHandler(route, h)).Methods(methods...)
	}

	handle("/health", "health", s.health, http.MethodGet)
	handle("/credits", "credits", s.credits, http.MethodGet)
	handle("/fields", "fields", s.fields, http.MethodGet)
	handle("/score", "score", s.score, http.MethodPost)
	handle("/sessions", "sessions_create", s.createSession, http.MethodPost)
	handle("/sessions/{id}", "sessions_get", s.getSession, http.MethodGet)
	handle("/sessions/{id}", "sessions_edit", s.editSession, http.MethodPatch)
	handle("/sessions/{id}", "sessions_delete", s.deleteSession, http.MethodDelete)
	handle("/sessions/{id}/sources/{group}", "sessions_source", s.setSource, http.MethodPut)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Handler returns the router wrapped with access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError)),
	)
	return recovery(handlers.LoggingHandler(s.accessLog, s.router))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

type creditsResponse struct {
	Categories []catalog.Category `json:"categories"`
	Credits    []catalog.Credit   `json:"credits"`
	MaxTotal   int                `json:"max_total"`
}

func (s *Server) credits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, creditsResponse{
		Categories: catalog.Categories,
		Credits:    catalog.Credits,
		MaxTotal:   catalog.MaxTotal(),
	})
}

type fieldInfo struct {
	Path    string              `json:"path"`
	Kind    string              `json:"kind"`
	Choices []string            `json:"choices,omitempty"`
	Group   catalog.PresetGroup `json:"group,omitempty"`
}

func (s *Server) fields(w http.ResponseWriter, r *http.Request) {
	all := project.Fields()
	out := make([]fieldInfo, 0, len(all))
	for _, f := range all {
		out = append(out, fieldInfo{Path: f.Path, Kind: f.Kind.String(), Choices: f.Choices, Group: f.Group})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readSnapshot(w, r, false)
	if !ok {
		return
	}
	report := engine.Evaluate(in)
	s.metrics.Evaluated(report.Total)
	writeJSON(w, http.StatusOK, report)
}

type sessionResponse struct {
	ID        string                               `json:"id"`
	CreatedAt time.Time                            `json:"createdAt"`
	UpdatedAt time.Time                            `json:"updatedAt"`
	Edits     int                                  `json:"edits"`
	Sources   map[catalog.PresetGroup]types.Source `json:"sources"`
	Input     project.Input                        `json:"input"`
	Report    engine.Report                        `json:"report"`
}

func newSessionResponse(sess *engine.Session) sessionResponse {
	in := sess.Input()
	return sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		Edits:     sess.Edits,
		Sources:   in.Sources(),
		Input:     in,
		Report:    sess.Report(),
	}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readSnapshot(w, r, true)
	if !ok {
		return
	}
	sess := s.store.Create(in)
	s.metrics.Evaluated(sess.Report().Total)
	s.metrics.SetSessions(s.store.Len())
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	var resp sessionResponse
	err := s.store.View(mux.Vars(r)["id"], func(sess *engine.Session) {
		resp = newSessionResponse(sess)
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type editItem struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// editRequest carries one edit or a batch applied atomically.
type editRequest struct {
	editItem
	Edits []editItem `json:"edits"`
}

func (s *Server) editSession(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items := req.Edits
	if req.Field != "" {
		items = append([]editItem{req.editItem}, items...)
	}
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "field is required")
		return
	}

	edits := make([]project.Edit, 0, len(items))
	for _, item := range items {
		e, err := toEdit(item)
		if err != nil {
			s.metrics.Edit("field", err)
			writeError(w, statusFor(err), err.Error())
			return
		}
		edits = append(edits, e)
	}

	report, err := s.store.Apply(mux.Vars(r)["id"], edits...)
	s.metrics.Edit("field", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.Evaluated(report.Total)
	writeJSON(w, http.StatusOK, report)
}

func toEdit(item editItem) (project.Edit, error) {
	f, err := project.ParseField(item.Field)
	if err != nil {
		return project.Edit{}, err
	}
	v, err := project.ValueOf(f, item.Value)
	if err != nil {
		return project.Edit{}, err
	}
	return project.Edit{Field: f, Value: v}, nil
}

func (s *Server) setSource(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Source types.Source `json:"source"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.store.SetSource(vars["id"], catalog.PresetGroup(vars["group"]), req.Source)
	s.metrics.Edit("source", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.Evaluated(report.Total)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.SetSessions(s.store.Len())
	w.WriteHeader(http.StatusNoContent)
}

// readSnapshot decodes a JSON snapshot body. An empty body yields the preset
// starting snapshot when allowEmpty is set.
func (s *Server) readSnapshot(w http.ResponseWriter, r *http.Request, allowEmpty bool) (project.Input, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return project.Input{}, false
	}
	if len(data) == 0 {
		if allowEmpty {
			return project.Defaults(), true
		}
		writeError(w, http.StatusBadRequest, "snapshot body is required")
		return project.Input{}, false
	}

	doc, err := project.DecodeDocument(data, project.FormatJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return project.Input{}, false
	}
	if s.validator != nil {
		errs, err := s.validator.ValidateProject(doc)
		if err != nil {
			s.logger.Error("schema validation failed to run", "error", err)
			writeError(w, http.StatusInternalServerError, "schema validation unavailable")
			return project.Input{}, false
		}
		if len(errs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "snapshot does not match schema",
				"details": errs,
			})
			return project.Input{}, false
		}
	}

	in, err := project.FromDocument(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return project.Input{}, false
	}
	return in, true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, project.ErrPresetLocked):
		return http.StatusConflict
	case errors.Is(err, project.ErrUnknownField),
		errors.Is(err, project.ErrInvalidValue),
		errors.Is(err, project.ErrUnknownSourceGroup):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
