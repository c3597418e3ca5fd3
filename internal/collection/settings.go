package collection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mulebuy/internal/model"
)

// Settings returns the current settings.
func (s *Store) Settings() model.Settings {
	return s.state.Settings
}

// UpdateSettings replaces the settings singleton. A defaultList outside the
// fixed list set is rejected; an empty defaultReferralCode falls back to
// the built-in default.
func (s *Store) UpdateSettings(ctx context.Context, next model.Settings) error {
	if !model.ValidList(next.DefaultList) {
		return ErrInvalidList
	}
	if next.DefaultReferralCode == "" {
		next.DefaultReferralCode = model.BuiltinReferralCode
	}
	s.state.Settings = next
	s.persistSettings(ctx)
	return nil
}

// ResetSettings restores the built-in default settings.
func (s *Store) ResetSettings(ctx context.Context) {
	s.state.Settings = model.DefaultSettings()
	s.persistSettings(ctx)
}

// History returns a copy of the conversion history, newest first.
func (s *Store) History() []model.HistoryEntry {
	return append([]model.HistoryEntry(nil), s.state.History...)
}

// RecordConversion prepends a history entry, filling its id and timestamp,
// and evicts the oldest entries beyond the history cap. Eviction is strict
// FIFO by insertion; later edits to timestamps play no part.
func (s *Store) RecordConversion(ctx context.Context, e model.HistoryEntry) model.HistoryEntry {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	s.state.History = append([]model.HistoryEntry{e}, s.state.History...)
	if len(s.state.History) > model.HistoryLimit {
		s.state.History = s.state.History[:model.HistoryLimit]
	}
	s.persistHistory(ctx)
	return e
}

// ReplaceProducts swaps in a whole new product collection, as after an
// import. Records are accepted leniently but repaired just enough to keep
// the store invariants: a missing id is generated, a missing createdAt
// stamped, an unknown list coerced to the settings default and duplicate
// tags dropped.
func (s *Store) ReplaceProducts(ctx context.Context, products []model.Product) {
	seen := make(map[string]bool, len(products))
	for i := range products {
		p := &products[i]
		if p.ID == "" || seen[p.ID] {
			p.ID = uuid.NewString()
		}
		seen[p.ID] = true
		if p.CreatedAt == "" {
			p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		}
		if !model.ValidList(p.List) {
			p.List = s.state.Settings.DefaultList
		}
		p.Rating = clampRating(p.Rating)
		p.Tags = dedupeTags(p.Tags)
	}
	s.state.Products = products
	s.persistProducts(ctx)
}
