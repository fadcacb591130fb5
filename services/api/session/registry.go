package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
)

// ErrNotFound is returned for an unknown or ended session id.
var ErrNotFound = eris.New("session: not found")

type entry struct {
	mu       sync.Mutex
	state    *State
	lastSeen time.Time
}

// Registry owns one State per session. The catalogue store is shared; each
// session's events run one at a time under that session's lock.
type Registry struct {
	store       *catalog.Store
	settings    Settings
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates a Registry. maxSessions <= 0 means unbounded.
func NewRegistry(store *catalog.Store, settings Settings, maxSessions int) *Registry {
	return &Registry{
		store:       store,
		settings:    settings,
		maxSessions: maxSessions,
		now:         time.Now,
		sessions:    make(map[string]*entry),
	}
}

// Create starts a new session and returns its id and initial snapshot.
func (r *Registry) Create() (string, Snapshot) {
	id := uuid.NewString()
	e := &entry{state: NewState(r.store, r.settings), lastSeen: r.now()}

	r.mu.Lock()
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.evictOldestLocked()
	}
	r.sessions[id] = e
	r.mu.Unlock()

	snap := e.state.Snapshot()
	snap.ID = id
	return id, snap
}

// Do runs fn against the session's state and returns the resulting snapshot.
func (r *Registry) Do(id string, fn func(*State) error) (Snapshot, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return Snapshot{}, eris.Wrapf(ErrNotFound, "session: %s", id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = r.now()

	var err error
	if fn != nil {
		err = fn(e.state)
	}
	snap := e.state.Snapshot()
	snap.ID = id
	return snap, err
}

// Get returns the snapshot of a session.
func (r *Registry) Get(id string) (Snapshot, error) {
	return r.Do(id, nil)
}

// End discards a session.
func (r *Registry) End(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range r.sessions {
		e.mu.Lock()
		seen := e.lastSeen
		e.mu.Unlock()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(r.sessions, oldestID)
		zap.L().Info("session: evicted idle session", zap.String("session_id", oldestID))
	}
}
