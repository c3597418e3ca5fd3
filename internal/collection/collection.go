// Package collection implements the in-memory authoritative store for
// products, settings and conversion history.
//
// The store exclusively owns all state loaded at startup. Callers receive
// copies for display and route every mutation through a named operation;
// each operation persists the affected blob best-effort. A failed write is
// logged and swallowed: in-memory state stays the source of truth for the
// rest of the session, only durability is lost.
package collection

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mulebuy/internal/linkgen"
	"mulebuy/internal/model"
	"mulebuy/internal/schema"
	"mulebuy/internal/storage"
)

// Operation failure kinds, distinguishable with errors.Is.
var (
	ErrNotFound    = errors.New("product not found")
	ErrInvalidList = errors.New("invalid list")
	ErrDuplicateID = errors.New("duplicate product id")
)

// Store holds the full application state and persists every change.
type Store struct {
	blobs storage.Blobs
	log   *slog.Logger
	state model.State
}

// New wraps previously loaded state in a Store.
func New(blobs storage.Blobs, log *slog.Logger, st model.State) *Store {
	return &Store{blobs: blobs, log: log, state: st}
}

// Products returns a copy of the full product collection.
func (s *Store) Products() []model.Product {
	out := make([]model.Product, len(s.state.Products))
	for i := range s.state.Products {
		out[i] = cloneProduct(s.state.Products[i])
	}
	return out
}

// Get returns a copy of the product with the given id.
func (s *Store) Get(id string) (model.Product, bool) {
	if p := s.find(id); p != nil {
		return cloneProduct(*p), true
	}
	return model.Product{}, false
}

// Add commits a new product to the collection. A missing id and createdAt
// are generated, an unknown list is coerced to the settings default, an
// empty referral code takes the settings default, tags are deduplicated and
// the rating is clamped to 0-5. Returns the normalized product as stored.
func (s *Store) Add(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if s.find(p.ID) != nil {
		return model.Product{}, ErrDuplicateID
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	normalize(&p, s.state.Settings)

	s.state.Products = append(s.state.Products, p)
	s.persistProducts(ctx)
	return cloneProduct(p), nil
}

// NewBlank creates an empty product in the default list for manual editing.
func (s *Store) NewBlank(ctx context.Context) model.Product {
	p, _ := s.Add(ctx, model.Product{
		ReferralCode: s.state.Settings.DefaultReferralCode,
	})
	return p
}

// Update replaces the stored product carrying p.ID. The id and createdAt of
// the stored record are kept; everything else is overwritten.
func (s *Store) Update(ctx context.Context, p model.Product) error {
	cur := s.find(p.ID)
	if cur == nil {
		return ErrNotFound
	}
	if p.List != "" && !model.ValidList(p.List) {
		return ErrInvalidList
	}
	p.CreatedAt = cur.CreatedAt
	normalize(&p, s.state.Settings)
	*cur = p
	s.persistProducts(ctx)
	return nil
}

// Delete removes every product whose id is in ids and returns how many were
// removed. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, ids ...string) int {
	selected := idSet(ids)
	kept := s.state.Products[:0]
	removed := 0
	for _, p := range s.state.Products {
		if selected[p.ID] {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	if removed == 0 {
		return 0
	}
	s.state.Products = kept
	s.persistProducts(ctx)
	return removed
}

// AddTag appends tag to the product's tag set unless already present.
// A tag that is empty after trimming is ignored.
func (s *Store) AddTag(ctx context.Context, id, tag string) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	tag = strings.TrimSpace(tag)
	if tag == "" || p.HasTag(tag) {
		return nil
	}
	p.Tags = append(p.Tags, tag)
	s.persistProducts(ctx)
	return nil
}

// RemoveTag removes tag from the product's tag set if present.
func (s *Store) RemoveTag(ctx context.Context, id, tag string) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	for i, t := range p.Tags {
		if t == tag {
			p.Tags = append(p.Tags[:i], p.Tags[i+1:]...)
			s.persistProducts(ctx)
			return nil
		}
	}
	return nil
}

// AddQCLink appends a QC photo link to the product.
func (s *Store) AddQCLink(ctx context.Context, id, link string) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	p.QCLinks = append(p.QCLinks, link)
	s.persistProducts(ctx)
	return nil
}

// RemoveQCLink removes the QC link at the given position.
func (s *Store) RemoveQCLink(ctx context.Context, id string, index int) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	if index < 0 || index >= len(p.QCLinks) {
		return nil
	}
	p.QCLinks = append(p.QCLinks[:index], p.QCLinks[index+1:]...)
	s.persistProducts(ctx)
	return nil
}

// AddImage appends an embedded image payload to the product.
func (s *Store) AddImage(ctx context.Context, id, data string) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	p.LocalImages = append(p.LocalImages, data)
	s.persistProducts(ctx)
	return nil
}

// RemoveImage removes the embedded image at the given position.
func (s *Store) RemoveImage(ctx context.Context, id string, index int) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	if index < 0 || index >= len(p.LocalImages) {
		return nil
	}
	p.LocalImages = append(p.LocalImages[:index], p.LocalImages[index+1:]...)
	s.persistProducts(ctx)
	return nil
}

// SetRating sets the product rating, clamped to 0-5.
func (s *Store) SetRating(ctx context.Context, id string, rating int) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	p.Rating = clampRating(rating)
	s.persistProducts(ctx)
	return nil
}

// DerivePartnerURL recomputes the product's partner URL from its shop type,
// external id and referral code. The URL is otherwise never recomputed
// implicitly: edits to the parts leave it untouched until this operation or
// SetPartnerURL runs.
func (s *Store) DerivePartnerURL(ctx context.Context, id string) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	code := p.ReferralCode
	if code == "" {
		code = s.state.Settings.DefaultReferralCode
	}
	p.PartnerURL = linkgen.Render(p.ShopType, p.ExternalID, code)
	s.persistProducts(ctx)
	return nil
}

// SetPartnerURL overwrites the product's partner URL directly.
func (s *Store) SetPartnerURL(ctx context.Context, id, rawURL string) error {
	p := s.find(id)
	if p == nil {
		return ErrNotFound
	}
	p.PartnerURL = rawURL
	s.persistProducts(ctx)
	return nil
}

func (s *Store) find(id string) *model.Product {
	for i := range s.state.Products {
		if s.state.Products[i].ID == id {
			return &s.state.Products[i]
		}
	}
	return nil
}

func (s *Store) persistProducts(ctx context.Context) {
	if err := schema.SaveProducts(ctx, s.blobs, s.state.Products); err != nil {
		s.log.Warn("persist products failed, in-memory state kept", "error", err)
	}
}

func (s *Store) persistSettings(ctx context.Context) {
	if err := schema.SaveSettings(ctx, s.blobs, s.state.Settings); err != nil {
		s.log.Warn("persist settings failed, in-memory state kept", "error", err)
	}
}

func (s *Store) persistHistory(ctx context.Context) {
	if err := schema.SaveHistory(ctx, s.blobs, s.state.History); err != nil {
		s.log.Warn("persist history failed, in-memory state kept", "error", err)
	}
}

func normalize(p *model.Product, settings model.Settings) {
	if !model.ValidList(p.List) {
		p.List = settings.DefaultList
	}
	if p.ReferralCode == "" {
		p.ReferralCode = settings.DefaultReferralCode
	}
	p.Rating = clampRating(p.Rating)
	p.Tags = dedupeTags(p.Tags)
	p.SchemaVersion = model.SchemaVersion
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// dedupeTags drops duplicate tags, keeping the first occurrence so display
// order follows insertion order.
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func cloneProduct(p model.Product) model.Product {
	p.Tags = append([]string(nil), p.Tags...)
	p.QCLinks = append([]string(nil), p.QCLinks...)
	p.LocalImages = append([]string(nil), p.LocalImages...)
	return p
}
