// Package storage provides the persistent key-value store and the typed
// adapter that serializes application state into it.
package storage

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
)

// Storage keys. The payload format is internal-only but must round-trip.
const (
	KeyAlerts  = "medlink_alerts"
	KeySession = "medlink_session"
)

// ErrNotFound is returned by KV.Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// KV is a synchronous key-value byte store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Adapter serializes the alert list and the session record into a KV store.
// Storage failures are recovered locally: loads fall back to empty defaults
// and saves log a warning, leaving the prior persisted state untouched.
// None of its methods ever surface an error to the caller.
type Adapter struct {
	kv KV
}

// NewAdapter creates an adapter over the given store.
func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// LoadAlerts returns the persisted alert list, or an empty list when the
// key is absent, the payload does not parse as a JSON array, or the store
// errors.
func (a *Adapter) LoadAlerts() []models.Alert {
	raw, err := a.kv.Get(KeyAlerts)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("warning: load alerts: %v", err)
		}
		return []models.Alert{}
	}

	var alerts []models.Alert
	if err := json.Unmarshal(raw, &alerts); err != nil {
		log.Printf("warning: load alerts: corrupt payload: %v", err)
		return []models.Alert{}
	}
	if alerts == nil {
		return []models.Alert{}
	}
	return alerts
}

// SaveAlerts persists the alert list. On failure it logs a warning; the
// previously persisted state is left as-is.
func (a *Adapter) SaveAlerts(alerts []models.Alert) {
	data, err := json.Marshal(alerts)
	if err != nil {
		log.Printf("warning: save alerts: marshal: %v", err)
		return
	}
	if err := a.kv.Set(KeyAlerts, data); err != nil {
		log.Printf("warning: save alerts: %v", err)
	}
}

// LoadSession returns the persisted session record, or nil when absent or
// unreadable. A nil session means unauthenticated.
func (a *Adapter) LoadSession() *models.Session {
	raw, err := a.kv.Get(KeySession)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("warning: load session: %v", err)
		}
		return nil
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Printf("warning: load session: corrupt payload: %v", err)
		return nil
	}
	return &sess
}

// SaveSession persists the session record. A nil session deletes the key
// rather than writing a null marker.
func (a *Adapter) SaveSession(sess *models.Session) {
	if sess == nil {
		if err := a.kv.Delete(KeySession); err != nil {
			log.Printf("warning: clear session: %v", err)
		}
		return
	}

	data, err := json.Marshal(sess)
	if err != nil {
		log.Printf("warning: save session: marshal: %v", err)
		return
	}
	if err := a.kv.Set(KeySession, data); err != nil {
		log.Printf("warning: save session: %v", err)
	}
}
