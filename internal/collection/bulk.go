package collection

import (
	"context"
	"strings"

	"mulebuy/internal/model"
)

// Bulk operations apply one action to a selected set of product ids. Each
// is atomic with respect to the in-memory collection: validation happens
// before any product is touched, so a failure leaves the collection
// untouched, and a whole batch persists as a single write.

// BulkDelete removes every selected product and returns how many were
// removed.
func (s *Store) BulkDelete(ctx context.Context, selection []string) int {
	return s.Delete(ctx, selection...)
}

// BulkMoveTo moves every selected product to target. Fails with
// ErrInvalidList before mutating anything when target is not a member of
// the fixed list set. Non-selected products are untouched.
func (s *Store) BulkMoveTo(ctx context.Context, selection []string, target model.List) error {
	if !model.ValidList(target) {
		return ErrInvalidList
	}
	selected := idSet(selection)
	changed := false
	for i := range s.state.Products {
		p := &s.state.Products[i]
		if selected[p.ID] && p.List != target {
			p.List = target
			changed = true
		}
	}
	if changed {
		s.persistProducts(ctx)
	}
	return nil
}

// BulkAddTag adds tag to every selected product's tag set, skipping
// products that already carry it. A tag that is empty after trimming makes
// the whole call a no-op.
func (s *Store) BulkAddTag(ctx context.Context, selection []string, tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	selected := idSet(selection)
	changed := false
	for i := range s.state.Products {
		p := &s.state.Products[i]
		if selected[p.ID] && !p.HasTag(tag) {
			p.Tags = append(p.Tags, tag)
			changed = true
		}
	}
	if changed {
		s.persistProducts(ctx)
	}
}
