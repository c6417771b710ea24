// Package session holds the current actor's identity: who is logged in and
// in which role. The session record is the single gate deciding which
// surface an actor may reach.
package session

import (
	"log"
	"sync"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
	"github.com/csjayzz/medlink-er-coordination/internal/storage"
)

// Manager owns the session record. It persists every change through the
// store adapter so a session survives restarts; an absent record means
// unauthenticated.
type Manager struct {
	mu      sync.RWMutex
	persist *storage.Adapter
	current *models.Session
}

// NewManager creates a manager seeded from the persisted session, if any.
func NewManager(persist *storage.Adapter) *Manager {
	m := &Manager{
		persist: persist,
		current: persist.LoadSession(),
	}
	if m.current != nil {
		log.Printf("restored %s session", m.current.Role)
	}
	return m
}

// Login establishes a session for the given role. Medic sessions carry the
// resolved identity; hospital sessions carry none. Login never fails.
func (m *Manager) Login(role models.Role, medic *models.MedicIdentity) *models.Session {
	sess := &models.Session{Role: role}
	if role == models.RoleMedic && medic != nil {
		sess.MedicID = medic.ID
		sess.MedicName = medic.Name
		sess.Unit = medic.Unit
		sess.Certification = medic.Certification
	}

	m.mu.Lock()
	m.current = sess
	m.persist.SaveSession(sess)
	m.mu.Unlock()

	return sess
}

// Logout clears the session unconditionally.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.current = nil
	m.persist.SaveSession(nil)
	m.mu.Unlock()
}

// Current returns the active session, or nil when unauthenticated.
func (m *Manager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Profile returns the derived medic profile for the active session. It is
// recomputed from session fields on every call, never stored.
func (m *Manager) Profile() (models.MedicProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.ProfileFor(m.current)
}
