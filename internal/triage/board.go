// Package triage owns the in-memory alert board: the single source of truth
// for pre-arrival alerts, its mutation operations, and the derived queue
// views consumed by both role-scoped interfaces.
package triage

import (
	"sort"
	"strings"
	"sync"

	"github.com/csjayzz/medlink-er-coordination/internal/metrics"
	"github.com/csjayzz/medlink-er-coordination/internal/models"
	"github.com/csjayzz/medlink-er-coordination/internal/storage"
)

// Patch carries a partial alert update. Nil fields are left untouched.
// The alert id is never part of a patch.
type Patch struct {
	PatientName *string
	PatientAge  *string
	Severity    *models.Severity
	Type        *models.EmergencyType
	ETA         *int
	Vitals      []models.Vitals // full replacement when non-nil
	Treatments  []string        // full replacement when non-nil
	Notes       *string
	ImageURL    *string
}

// Board is the exclusive owner of the alert collection. All mutation goes
// through its named operations; views only ever receive copies. Every
// mutation is followed by a best-effort synchronous persist.
type Board struct {
	mu      sync.RWMutex
	alerts  []models.Alert
	persist *storage.Adapter
	subs    map[chan struct{}]struct{}
}

// NewBoard creates a board seeded from the persisted alert list.
func NewBoard(persist *storage.Adapter) *Board {
	b := &Board{
		alerts:  persist.LoadAlerts(),
		persist: persist,
		subs:    make(map[chan struct{}]struct{}),
	}
	metrics.AlertsIncoming.Set(float64(b.countIncomingLocked()))
	return b
}

// Add prepends a new alert. Newest-first is the display convention for
// every list that renders in collection order.
func (b *Board) Add(alert models.Alert) {
	b.mu.Lock()
	b.alerts = append([]models.Alert{alert}, b.alerts...)
	b.persistLocked()
	b.mu.Unlock()

	metrics.AlertsCreatedTotal.WithLabelValues(string(alert.Severity)).Inc()
	if alert.Status == models.StatusIncoming {
		metrics.AlertsIncoming.Inc()
	}
	b.notify()
}

// Update merges the patch into the alert matching id. Unknown ids are a
// silent no-op; the return value only tells the view boundary whether the
// alert existed.
func (b *Board) Update(id string, patch Patch) bool {
	b.mu.Lock()
	i := b.indexLocked(id)
	if i < 0 {
		b.mu.Unlock()
		return false
	}

	a := &b.alerts[i]
	if patch.PatientName != nil {
		a.PatientName = *patch.PatientName
	}
	if patch.PatientAge != nil {
		a.PatientAge = *patch.PatientAge
	}
	if patch.Severity != nil {
		a.Severity = *patch.Severity
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.ETA != nil {
		a.ETA = *patch.ETA
		if a.ETA < 0 {
			a.ETA = 0
		}
	}
	if patch.Vitals != nil {
		a.Vitals = patch.Vitals
	}
	if patch.Treatments != nil {
		a.Treatments = patch.Treatments
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.ImageURL != nil {
		a.ImageURL = *patch.ImageURL
	}
	b.persistLocked()
	b.mu.Unlock()

	b.notify()
	return true
}

// SetStatus moves an alert through the one-way status gate. Unknown ids
// and disallowed transitions are silent no-ops. The first return reports
// whether the alert existed, the second whether the transition applied.
func (b *Board) SetStatus(id string, status models.Status) (found, applied bool) {
	b.mu.Lock()
	i := b.indexLocked(id)
	if i < 0 {
		b.mu.Unlock()
		return false, false
	}

	prev := b.alerts[i].Status
	if !models.CanTransition(prev, status) || prev == status {
		b.mu.Unlock()
		return true, false
	}

	b.alerts[i].Status = status
	b.persistLocked()
	b.mu.Unlock()

	metrics.StatusTransitionsTotal.WithLabelValues(string(status)).Inc()
	if prev == models.StatusIncoming {
		metrics.AlertsIncoming.Dec()
	}
	b.notify()
	return true, true
}

// Tick decrements the ETA of every Incoming alert by one minute, floored
// at zero. Alerts in any other status are left untouched. The decrement is
// tick-count-based: a delayed tick still subtracts exactly one.
func (b *Board) Tick() {
	b.mu.Lock()
	for i := range b.alerts {
		if b.alerts[i].Status != models.StatusIncoming {
			continue
		}
		if b.alerts[i].ETA > 0 {
			b.alerts[i].ETA--
		}
	}
	b.persistLocked()
	b.mu.Unlock()

	metrics.ETATicksTotal.Inc()
	b.notify()
}

// Get returns a copy of the alert matching id.
func (b *Board) Get(id string) (models.Alert, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.indexLocked(id)
	if i < 0 {
		return models.Alert{}, false
	}
	return b.alerts[i], true
}

// Incoming returns the hospital triage queue: Incoming alerts, optionally
// filtered by a case-insensitive substring match over patient name,
// ambulance unit, and medic id, stable-sorted by severity so Critical
// cases surface first and ties keep their prior relative order.
func (b *Board) Incoming(search string) []models.Alert {
	b.mu.RLock()
	defer b.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	queue := []models.Alert{}
	for _, a := range b.alerts {
		if a.Status != models.StatusIncoming {
			continue
		}
		if needle != "" && !matchesSearch(&a, needle) {
			continue
		}
		queue = append(queue, a)
	}

	sort.SliceStable(queue, func(i, j int) bool {
		return models.SeverityRank(queue[i].Severity) < models.SeverityRank(queue[j].Severity)
	})
	return queue
}

// ForMedic returns the authoring medic's own alert history in insertion
// order, newest first.
func (b *Board) ForMedic(medicID string) []models.Alert {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []models.Alert{}
	for _, a := range b.alerts {
		if a.MedicID == medicID {
			out = append(out, a)
		}
	}
	return out
}

// Snapshot returns a copy of the whole collection in stored order.
func (b *Board) Snapshot() []models.Alert {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Alert, len(b.alerts))
	copy(out, b.alerts)
	return out
}

// Subscribe registers a change notification channel. The returned cancel
// function removes the subscription and is safe to call more than once.
func (b *Board) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

func (b *Board) notify() {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber already has a pending notification.
		}
	}
}

func (b *Board) indexLocked(id string) int {
	for i := range b.alerts {
		if b.alerts[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) countIncomingLocked() int {
	n := 0
	for i := range b.alerts {
		if b.alerts[i].Status == models.StatusIncoming {
			n++
		}
	}
	return n
}

func (b *Board) persistLocked() {
	snapshot := make([]models.Alert, len(b.alerts))
	copy(snapshot, b.alerts)
	b.persist.SaveAlerts(snapshot)
}

func matchesSearch(a *models.Alert, needle string) bool {
	for _, field := range []string{a.PatientName, a.AmbulanceUnit, a.MedicID} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
