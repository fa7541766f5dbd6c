package manager

import (
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/storyreel/storyreel/pkg/logger"
	"github.com/storyreel/storyreel/pkg/playback"
)

// SessionManager holds the open preview sessions. When the limit is reached
// the least recently used session is closed.
type SessionManager struct {
	sessions *lru.Cache
	view     playback.View
}

func NewSessionManager(maxSessions int, defaultZoom float64) (*SessionManager, error) {
	cache, err := lru.NewWithEvict(maxSessions, func(key interface{}, value interface{}) {
		logger.Infof("[session %s] closing least recently used session", key)
		value.(*Session).Close()
	})
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}

	return &SessionManager{
		sessions: cache,
		view:     playback.NewView(defaultZoom),
	}, nil
}

// Create opens a new session with an empty timeline.
func (m *SessionManager) Create() *Session {
	s := newSession(uuid.New().String(), m.view)
	m.sessions.Add(s.ID, s)
	logger.Debugf("[session %s] created", s.ID)
	return s
}

func (m *SessionManager) Get(id string) (*Session, error) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return v.(*Session), nil
}

// Remove closes and removes a session.
func (m *SessionManager) Remove(id string) error {
	if !m.sessions.Remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func (m *SessionManager) Len() int {
	return m.sessions.Len()
}

// Close closes all sessions.
func (m *SessionManager) Close() {
	m.sessions.Purge()
}
