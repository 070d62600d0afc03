package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Session holds one project snapshot and the report computed from it. Every
// change replaces the snapshot and recomputes the whole report. A Session is
// not safe for concurrent use; Store serializes access.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Edits     int       `json:"edits"`

	input  project.Input
	report Report
	logger *slog.Logger
}

// NewSession starts a session from a snapshot. A nil logger discards logs.
func NewSession(in project.Input, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		logger:    logger,
	}
	s.replace(project.Normalize(in))
	s.logger.Info("session created", "session", s.ID, "total", s.report.Total)
	return s
}

// Input returns a copy of the current snapshot.
func (s *Session) Input() project.Input { return s.input.Clone() }

// Report returns the report of the current snapshot.
func (s *Session) Report() Report { return s.report }

func (s *Session) replace(in project.Input) {
	s.input = in
	s.report = Evaluate(in)
	s.UpdatedAt = time.Now().UTC()
}

// Apply applies typed edits in order. On error the snapshot is unchanged.
func (s *Session) Apply(edits ...project.Edit) (Report, error) {
	next, err := project.ApplyAll(s.input, edits...)
	if err != nil {
		s.logger.Warn("edit rejected", "session", s.ID, "error", err)
		return s.report, err
	}
	before := s.report.Total
	s.replace(next)
	s.Edits += len(edits)
	for _, e := range edits {
		s.logger.Debug("edit applied", "session", s.ID, "field", e.Field.Path, "value", e.Value.String())
	}
	s.logger.Info("snapshot updated", "session", s.ID, "edits", len(edits), "before", before, "total", s.report.Total)
	return s.report, nil
}

// SetSource toggles a preset group.
func (s *Session) SetSource(g catalog.PresetGroup, src types.Source) (Report, error) {
	next, err := project.SetSource(s.input, g, src)
	if err != nil {
		s.logger.Warn("source change rejected", "session", s.ID, "group", g, "error", err)
		return s.report, err
	}
	s.replace(next)
	s.logger.Info("source changed", "session", s.ID, "group", g, "source", src, "total", s.report.Total)
	return s.report, nil
}

// Store keeps sessions by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
}

// NewStore creates an empty session store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{sessions: make(map[string]*Session), logger: logger}
}

// Create starts and stores a new session.
func (st *Store) Create(in project.Input) *Session {
	s := NewSession(in, st.logger)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

// Report returns the current report of a session.
func (st *Store) Report(id string) (Report, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.Report(), nil
}

// Input returns a copy of a session's snapshot.
func (st *Store) Input(id string) (project.Input, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return project.Input{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.Input(), nil
}

// View runs fn against a session while holding the store's read lock. fn
// must not modify the session.
func (st *Store) View(id string, fn func(*Session)) error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	fn(s)
	return nil
}

// Update runs fn against a session while holding the store's write lock.
func (st *Store) Update(id string, fn func(*Session) (Report, error)) (Report, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return fn(s)
}

// Apply applies typed edits to a session.
func (st *Store) Apply(id string, edits ...project.Edit) (Report, error) {
	return st.Update(id, func(s *Session) (Report, error) {
		return s.Apply(edits...)
	})
}

// SetSource toggles a preset group of a session.
func (st *Store) SetSource(id string, g catalog.PresetGroup, src types.Source) (Report, error) {
	return st.Update(id, func(s *Session) (Report, error) {
		return s.SetSource(g, src)
	})
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(st.sessions, id)
	st.logger.Info("session deleted", "session", id)
	return nil
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
