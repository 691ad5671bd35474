// Package session holds per-call conversational state. A Session is
// created when a call starts, threaded through every intent handler,
// and discarded when the call ends; nothing here is persisted.
package session

import "sync"

type Session struct {
	CallID string

	// ParticipantName comes from the companion frontend, if any, and
	// seeds the display name before the caller is identified.
	ParticipantName string

	RawPhone string
	Phone    string // normalized to the last 10 digits
	UserID   string
	Name     string

	actions []string
}

// LogAction appends a human-readable record of something the call
// accomplished, used for the end-of-call recap.
func (s *Session) LogAction(action string) {
	s.actions = append(s.actions, action)
}

// Actions returns the action log in the order it was written.
func (s *Session) Actions() []string {
	out := make([]string, len(s.actions))
	copy(out, s.actions)
	return out
}

// DisplayName resolves the best name known for the caller so far.
func (s *Session) DisplayName() string {
	if s.ParticipantName != "" {
		return s.ParticipantName
	}
	if s.Name != "" {
		return s.Name
	}
	return "Guest"
}

// Manager tracks live sessions by call ID. Handlers within one call run
// sequentially; the lock only guards concurrent calls.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start creates (or replaces) the session for a call.
func (m *Manager) Start(callID, participantName string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{CallID: callID, ParticipantName: participantName}
	m.sessions[callID] = s
	return s
}

// Get returns the session for a call, creating an empty one if the
// runtime delivered a tool call before the start webhook.
func (m *Manager) Get(callID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[callID]; ok {
		return s
	}
	s := &Session{CallID: callID}
	m.sessions[callID] = s
	return s
}

// End removes the session for a finished call.
func (m *Manager) End(callID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callID)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
