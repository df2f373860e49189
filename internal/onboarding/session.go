// ABOUTME: Onboarding session backed by an injected key-value DraftStore.
// ABOUTME: Drafts older than 24 hours are discarded on load.
package onboarding

import (
	"fmt"
	"sync"
	"time"
)

// DraftTTL is how long an untouched draft stays resumable.
const DraftTTL = 24 * time.Hour

// DraftStore persists drafts by key.
type DraftStore interface {
	Load(key string) (*Draft, bool, error)
	Save(key string, d *Draft) error
	Delete(key string) error
}

// MemoryStore is a DraftStore held in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

// Load implements DraftStore.
func (s *MemoryStore) Load(key string) (*Draft, bool, error) {
	s.mu.RLock()
	data, ok := s.drafts[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	d, err := DecodeDraft(data)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// Save implements DraftStore.
func (s *MemoryStore) Save(key string, d *Draft) error {
	data, err := EncodeDraft(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[key] = data
	s.mu.Unlock()
	return nil
}

// Delete implements DraftStore.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.drafts, key)
	s.mu.Unlock()
	return nil
}

// SaveRaw stores already-encoded bytes, such as a legacy record.
func (s *MemoryStore) SaveRaw(key string, data []byte) {
	s.mu.Lock()
	s.drafts[key] = data
	s.mu.Unlock()
}

// Session is one user's onboarding progress.
type Session struct {
	store DraftStore
	key   string
	now   func() time.Time
	draft *Draft
}

// Open resumes the stored draft for key, or starts a new one when none is
// stored or the stored one has expired.
func Open(store DraftStore, key string, now func() time.Time) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	s := &Session{store: store, key: key, now: now}

	d, ok, err := store.Load(key)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if ok {
		// Migrated legacy records carry no timestamp and are kept.
		if d.UpdatedAt.IsZero() || now().Sub(d.UpdatedAt) < DraftTTL {
			s.draft = d
			return s, nil
		}
		if err := store.Delete(key); err != nil {
			return nil, fmt.Errorf("delete expired draft: %w", err)
		}
	}

	s.draft = NewDraft()
	return s, nil
}

// Draft returns the current draft.
func (s *Session) Draft() *Draft {
	return s.draft
}

// Persist stamps and saves the draft.
func (s *Session) Persist() error {
	s.draft.UpdatedAt = s.now()
	if err := s.store.Save(s.key, s.draft); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Set applies one field and persists.
func (s *Session) Set(field, value string) error {
	if err := ApplyField(s.draft, field, value); err != nil {
		return err
	}
	return s.Persist()
}

// Next advances when the current step is valid.
func (s *Session) Next() (StepValidation, error) {
	v := ValidateStep(s.draft.CurrentStep, s.draft)
	if !v.Valid || s.draft.CurrentStep >= StepSummary {
		return v, nil
	}
	s.draft.CurrentStep++
	return v, s.Persist()
}

// Previous moves back one step.
func (s *Session) Previous() error {
	if s.draft.CurrentStep <= StepWelcome {
		return nil
	}
	s.draft.CurrentStep--
	return s.Persist()
}

// GoTo jumps to a step between welcome and summary.
func (s *Session) GoTo(step int) error {
	if step < StepWelcome || step > StepSummary {
		return fmt.Errorf("step %d out of range", step)
	}
	s.draft.CurrentStep = step
	return s.Persist()
}

// Complete computes targets, marks the draft done and clears it from the store.
func (s *Session) Complete() (*Targets, error) {
	t, err := Compute(s.draft, s.now())
	if err != nil {
		return nil, err
	}
	s.draft.Completed = true
	s.draft.CurrentStep = StepSummary
	if err := s.store.Delete(s.key); err != nil {
		return nil, fmt.Errorf("clear draft: %w", err)
	}
	return t, nil
}

// Reset discards all answers.
func (s *Session) Reset() error {
	s.draft = NewDraft()
	if err := s.store.Delete(s.key); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
