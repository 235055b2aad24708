package studio

import (
	"context"
	"log"
	"sync"
	"time"

	"rosa-studio-server/modules/common/model"
	"rosa-studio-server/modules/composer"
)

// statusClearDelay - transient status messages disappear on their own.
// Variable so tests can shorten it.
var statusClearDelay = 3 * time.Second

const (
	sessionTTL      = 2 * time.Hour
	cleanupInterval = 10 * time.Minute
)

// Broadcaster - push channel to every client watching a session. Wired to
// the WebSocket hub at startup; a nil broadcaster is a no-op so the store
// stays testable on its own.
type Broadcaster interface {
	Broadcast(sessionID, event string, payload interface{})
}

// Session - one studio session. All mutation runs under mu; there is
// exactly one logical writer per session.
type Session struct {
	ID    string
	State *model.SessionState

	mu         sync.Mutex
	lastAccess time.Time

	statusTimer *time.Timer
	statusArmed string
}

// Store - in-memory session registry
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	broadcaster Broadcaster
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// SetBroadcaster - attach the WebSocket hub after both exist
func (s *Store) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	s.broadcaster = b
	s.mu.Unlock()
}

// NewSessionState - the state a fresh session starts in
func NewSessionState() *model.SessionState {
	return &model.SessionState{
		SourceType:       model.SourcePreset,
		SelectedPresetID: model.ProductPresets[0].ID,
		ActiveActions:    []model.EditingAction{model.ActionBackgroundSwap},
		PromptInputs:     composer.DefaultPrompts(),
		GeneratedTags:    []string{},
		SliderPosition:   50,
		Catalog:          []model.CatalogItem{},
		Cart:             []model.CartItem{},
		CurrentView:      model.ViewStudio,
	}
}

// Get - fetch or create the session for an id
func (s *Store) Get(sessionID string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[sessionID]; ok {
		return sess
	}
	sess = &Session{
		ID:         sessionID,
		State:      NewSessionState(),
		lastAccess: time.Now(),
	}
	s.sessions[sessionID] = sess
	log.Printf("🆕 [Studio] Session created: %s", sessionID)
	return sess
}

// Update - run one state transition under the session lock, then broadcast
// the resulting snapshot. Returns the snapshot.
func (s *Store) Update(sessionID string, fn func(*model.SessionState)) *model.SessionState {
	sess := s.Get(sessionID)

	sess.mu.Lock()
	fn(sess.State)
	sess.lastAccess = time.Now()
	s.manageStatusTimer(sess)
	snapshot := sess.State.Clone()
	sess.mu.Unlock()

	s.broadcast(sessionID, "state_update", snapshot)
	return snapshot
}

// Snapshot - read-only copy of the current state
func (s *Store) Snapshot(sessionID string) *model.SessionState {
	sess := s.Get(sessionID)
	sess.mu.Lock()
	sess.lastAccess = time.Now()
	snapshot := sess.State.Clone()
	sess.mu.Unlock()
	return snapshot
}

// manageStatusTimer - re-arm the auto-clear timer whenever a new status
// message appears. The previous timer is always stopped first so a stale
// timer can never wipe a newer message. Caller holds sess.mu.
func (s *Store) manageStatusTimer(sess *Session) {
	msg := sess.State.StatusMessage

	if msg == "" {
		if sess.statusTimer != nil {
			sess.statusTimer.Stop()
			sess.statusTimer = nil
		}
		sess.statusArmed = ""
		return
	}

	if msg == sess.statusArmed {
		return
	}
	if sess.statusTimer != nil {
		sess.statusTimer.Stop()
	}
	sess.statusArmed = msg
	sessionID := sess.ID
	sess.statusTimer = time.AfterFunc(statusClearDelay, func() {
		s.clearStatus(sessionID, msg)
	})
}

// clearStatus - timer callback. Only clears if the message is still the one
// the timer was armed for.
func (s *Store) clearStatus(sessionID, armedFor string) {
	sess := s.Get(sessionID)

	sess.mu.Lock()
	if sess.State.StatusMessage != armedFor {
		sess.mu.Unlock()
		return
	}
	sess.State.StatusMessage = ""
	sess.statusTimer = nil
	sess.statusArmed = ""
	snapshot := sess.State.Clone()
	sess.mu.Unlock()

	s.broadcast(sessionID, "state_update", snapshot)
}

// BroadcastEvent - push a non-state event (catalog updates, variation
// completion) to a session's clients
func (s *Store) BroadcastEvent(sessionID, event string, payload interface{}) {
	s.broadcast(sessionID, event, payload)
}

func (s *Store) broadcast(sessionID, event string, payload interface{}) {
	s.mu.RLock()
	b := s.broadcaster
	s.mu.RUnlock()
	if b != nil {
		b.Broadcast(sessionID, event, payload)
	}
}

// StartCleanup - evict sessions idle past the TTL
func (s *Store) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

func (s *Store) evictIdle() {
	cutoff := time.Now().Add(-sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastAccess.Before(cutoff)
		if idle && sess.statusTimer != nil {
			sess.statusTimer.Stop()
		}
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			log.Printf("🧹 [Studio] Session evicted after idle timeout: %s", id)
		}
	}
}
