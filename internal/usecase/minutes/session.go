package minutes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-minutes/pkg/metrics"
)

// Distributor hands a committed document to its recipients
type Distributor interface {
	Send(ctx context.Context, sessionID string, doc entities.MinutesDocument, recipients []string) (int, error)
}

// SessionView is a point-in-time copy of a session
type SessionView struct {
	ID         string                    `json:"id"`
	Status     entities.ProcessingStatus `json:"status"`
	Working    *entities.MinutesDocument `json:"working,omitempty"`
	Committed  *entities.MinutesDocument `json:"committed,omitempty"`
	Dirty      bool                      `json:"dirty"`
	Recipients []string                  `json:"recipients"`
	CreatedAt  time.Time                 `json:"created_at"`
}

type session struct {
	id         string
	createdAt  time.Time
	controller *Controller

	mu         sync.Mutex
	editor     *Editor
	recipients RecipientList
}

// ManagerConfig holds the collaborators of a Manager
type ManagerConfig struct {
	Service     GenerationService
	Distributor Distributor
	Repository  repositories.MinutesRepository // optional
	Timeout     time.Duration
	Listener    func(sessionID string, status entities.ProcessingStatus)
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// Manager owns the editing sessions. Each session has its own controller,
// so generations in different sessions never block each other.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	cfg      ManagerConfig
}

// NewManager creates an empty session manager
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		cfg:      cfg,
	}
}

// Create starts a new session in Idle
func (m *Manager) Create() SessionView {
	id := uuid.NewString()
	opts := []ControllerOption{
		WithTimeout(m.cfg.Timeout),
		WithMetrics(m.cfg.Metrics),
		WithLogger(m.cfg.Logger),
	}
	if m.cfg.Listener != nil {
		listener := m.cfg.Listener
		opts = append(opts, WithStageListener(func(status entities.ProcessingStatus) {
			listener(id, status)
		}))
	}

	s := &session{
		id:         id,
		createdAt:  time.Now().UTC(),
		controller: NewController(id, m.cfg.Service, opts...),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	if m.cfg.Logger != nil {
		m.cfg.Logger.Info("🆕 Session created", zap.String("session_id", id))
	}
	return s.view()
}

// Get returns a snapshot of the session
func (m *Manager) Get(id string) (SessionView, error) {
	s, err := m.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(), nil
}

// Delete starts over: the session and both snapshots are destroyed,
// along with any persisted record. Rejected while a generation runs.
func (m *Manager) Delete(ctx context.Context, id string) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := s.controller.Reset(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.cfg.Repository != nil {
		if err := m.cfg.Repository.DeleteBySessionID(ctx, id); err != nil {
			return err
		}
	}

	if m.cfg.Logger != nil {
		m.cfg.Logger.Info("🗑️ Session discarded", zap.String("session_id", id))
	}
	return nil
}

// Generate runs the pipeline for the session. A previous document is
// dropped when the run starts; on failure the session stays without one.
func (m *Manager) Generate(ctx context.Context, id string, req entities.GenerationRequest) (SessionView, error) {
	s, err := m.lookup(id)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	s.editor = nil
	s.mu.Unlock()

	doc, err := s.controller.Run(ctx, req)
	if err != nil {
		return s.view(), err
	}

	s.mu.Lock()
	s.editor = NewEditor(*doc)
	s.mu.Unlock()
	return s.view(), nil
}

// Edit applies fn to the session editor
func (m *Manager) Edit(id string, fn func(*Editor) error) (SessionView, error) {
	s, err := m.lookup(id)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	editor, err := s.editorLocked()
	if err == nil {
		err = fn(editor)
	}
	s.mu.Unlock()

	if err != nil {
		return SessionView{}, err
	}
	return s.view(), nil
}

// Commit saves the working snapshot and persists it when a repository is
// configured. The snapshot only becomes committed once it is persisted, so a
// failed save leaves both snapshots and the dirty flag untouched.
func (m *Manager) Commit(ctx context.Context, id string) (entities.MinutesDocument, error) {
	s, err := m.lookup(id)
	if err != nil {
		return entities.MinutesDocument{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	editor, err := s.editorLocked()
	if err != nil {
		return entities.MinutesDocument{}, err
	}

	// the session lock is held across Save so no edit lands between the
	// persisted copy and the committed one
	if m.cfg.Repository != nil {
		if err := m.cfg.Repository.Save(ctx, entities.NewMinutesRecord(id, editor.Working())); err != nil {
			if m.cfg.Logger != nil {
				m.cfg.Logger.Error("Failed to persist minutes", zap.String("session_id", id), zap.Error(err))
			}
			return entities.MinutesDocument{}, err
		}
	}
	committed := editor.Commit()

	m.cfg.Metrics.ObserveCommit()
	if m.cfg.Logger != nil {
		m.cfg.Logger.Info("💾 Minutes committed",
			zap.String("session_id", id),
			zap.Int("action_items", len(committed.ActionItems)),
		)
	}
	return committed, nil
}

// DiscardEdits resets the working snapshot to the committed one
func (m *Manager) DiscardEdits(id string) (entities.MinutesDocument, error) {
	s, err := m.lookup(id)
	if err != nil {
		return entities.MinutesDocument{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	editor, err := s.editorLocked()
	if err != nil {
		return entities.MinutesDocument{}, err
	}
	return editor.DiscardEdits(), nil
}

// AddRecipient adds an address to the session, ignoring duplicates
func (m *Manager) AddRecipient(id, addr string) ([]string, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.recipients.Add(addr); err != nil {
		return nil, err
	}
	return s.recipients.Items(), nil
}

// RemoveRecipient removes an address from the session
func (m *Manager) RemoveRecipient(id, addr string) ([]string, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients.Remove(addr)
	return s.recipients.Items(), nil
}

// Send distributes the committed snapshot to the session recipients.
// Uncommitted edits are not sent; clients must Commit before calling Send.
func (m *Manager) Send(ctx context.Context, id string) (int, error) {
	s, err := m.lookup(id)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	editor, err := s.editorLocked()
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	doc := editor.Committed()
	recipients := s.recipients.Items()
	s.mu.Unlock()

	return m.cfg.Distributor.Send(ctx, id, doc, recipients)
}

func (m *Manager) lookup(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return s, nil
}

// editorLocked returns the editor only while the controller is in Editing
func (s *session) editorLocked() (*Editor, error) {
	if s.editor == nil || s.controller.Status().Stage != entities.StageEditing {
		return nil, entities.ErrNoDocument
	}
	return s.editor, nil
}

func (s *session) view() SessionView {
	status := s.controller.Status()

	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ID:         s.id,
		Status:     status,
		Recipients: s.recipients.Items(),
		CreatedAt:  s.createdAt,
	}
	if s.editor != nil && status.Stage == entities.StageEditing {
		working := s.editor.Working()
		committed := s.editor.Committed()
		v.Working = &working
		v.Committed = &committed
		v.Dirty = s.editor.Dirty()
	}
	return v
}
