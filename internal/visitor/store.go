package visitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/evcraddock/smartvisit/internal/slot"
)

// SlotName is the slot holding the whole visitor collection.
const SlotName = "visitors"

// Store owns the visitor collection and keeps it in step with its slot.
// Readers take snapshots; only the Controller calls Save.
type Store struct {
	mu      sync.RWMutex
	slots   slot.Store
	records []Visitor
	log     *slog.Logger
}

// NewStore creates a store over slots. Call Load before use.
func NewStore(slots slot.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		slots:   slots,
		records: make([]Visitor, 0),
		log:     logger.With("component", "visitor-store"),
	}
}

// Load restores the collection from the slot. A missing, unreadable or
// corrupt slot yields an empty collection.
func (s *Store) Load() []Visitor {
	records, err := s.read()
	if err != nil {
		s.log.Warn("starting with empty visitor collection", "error", err)
		records = make([]Visitor, 0)
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.log.Info("visitors loaded", "count", len(records))
	return cloneRecords(records)
}

func (s *Store) read() ([]Visitor, error) {
	data, err := s.slots.Get(SlotName)
	if errors.Is(err, slot.ErrNotFound) {
		return make([]Visitor, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s slot: %w", SlotName, err)
	}

	var records []Visitor
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s slot: %w", SlotName, err)
	}
	if records == nil {
		records = make([]Visitor, 0)
	}
	return records, nil
}

// Save persists the full record set and, once written, makes it the
// observable collection. On error the previous collection stays in place.
func (s *Store) Save(records []Visitor) error {
	if records == nil {
		records = make([]Visitor, 0)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding visitors: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slots.Put(SlotName, data); err != nil {
		return fmt.Errorf("saving visitors: %w", err)
	}
	s.records = cloneRecords(records)
	return nil
}

// Snapshot returns a copy of the collection, newest first.
func (s *Store) Snapshot() []Visitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneRecords(records []Visitor) []Visitor {
	out := make([]Visitor, len(records))
	copy(out, records)
	return out
}
