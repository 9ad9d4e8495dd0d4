package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preplab/interviewd/internal/models"
	"github.com/preplab/interviewd/internal/utils"
)

// SessionStore is the keyed registry of live interview sessions. Sessions
// live in memory only and do not survive a restart; eviction policy belongs
// to the owning caller via Delete.
type SessionStore interface {
	Create(name, jobRole, interviewType string) *models.Session
	Get(sessionID string) (*models.Session, error)
	Delete(sessionID string) bool
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewSessionStore() SessionStore {
	return &memoryStore{sessions: make(map[string]*models.Session)}
}

func (m *memoryStore) Create(name, jobRole, interviewType string) *models.Session {
	session := &models.Session{
		SessionID:     uuid.NewString(),
		Name:          name,
		JobRole:       jobRole,
		InterviewType: interviewType,
		CreatedAt:     time.Now().UTC(),
		// A follow-up may trigger right after the first main question.
		NextFollowUpAfter: 1,
	}

	m.mu.Lock()
	m.sessions[session.SessionID] = session
	m.mu.Unlock()
	return session
}

func (m *memoryStore) Get(sessionID string) (*models.Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, utils.ErrNotFound
	}
	return session, nil
}

func (m *memoryStore) Delete(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return false
	}
	delete(m.sessions, sessionID)
	return true
}
