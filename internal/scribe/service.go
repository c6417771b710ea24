package scribe

import (
	"context"
	"errors"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
)

// ErrNoClient is returned when a voice bridge is requested but no
// extraction backend was configured.
var ErrNoClient = errors.New("scribe: no extraction client configured")

// ChatClient is the slice of the OpenAI-compatible API the bridge uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service owns the per-medic draft forms. Drafts are shared between the
// manual form endpoints and the voice bridge so a medic sees one form no
// matter which channel last touched it.
type Service struct {
	mu     sync.Mutex
	client ChatClient
	model  string
	drafts map[string]*Draft
	now    func() time.Time
}

func NewService(client ChatClient, model string) *Service {
	return &Service{
		client: client,
		model:  model,
		drafts: make(map[string]*Draft),
		now:    time.Now,
	}
}

// Configured reports whether an extraction backend is wired in.
func (s *Service) Configured() bool {
	return s.client != nil
}

func (s *Service) draftLocked(medicID string) *Draft {
	d, ok := s.drafts[medicID]
	if !ok {
		d = NewDraft()
		s.drafts[medicID] = d
	}
	return d
}

// Draft returns a copy of the medic's current draft, creating a fresh
// default one on first access.
func (s *Service) Draft(medicID string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDraft(s.draftLocked(medicID))
}

// Observe merges the observation into the medic's draft and returns the
// updated copy.
func (s *Service) Observe(medicID string, obs Observation) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftLocked(medicID)
	d.Apply(obs, s.now())
	return copyDraft(d)
}

// Reset discards the medic's draft, restoring form defaults.
func (s *Service) Reset(medicID string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := NewDraft()
	s.drafts[medicID] = d
	return copyDraft(d)
}

// Commit finalizes the medic's draft into an alert and resets the draft.
// The returned alert has not been placed on the board; the caller does that.
func (s *Service) Commit(medic models.MedicIdentity) models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftLocked(medic.ID)
	alert := d.Commit(medic, s.now())
	s.drafts[medic.ID] = NewDraft()
	return alert
}

func copyDraft(d *Draft) Draft {
	out := *d
	out.Vitals = append([]models.Vitals(nil), d.Vitals...)
	out.Treatments = append([]string(nil), d.Treatments...)
	return out
}
