package collection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mulebuy/internal/model"
)

func TestBulkDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t,
		product("p1", model.ListWishlist),
		product("p2", model.ListWishlist),
		product("p3", model.ListOrdered),
	)

	removed := s.BulkDelete(ctx, []string{"p1", "p3", "ghost"})
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	left := s.Products()
	if len(left) != 1 || left[0].ID != "p2" {
		t.Errorf("remaining products = %+v", left)
	}
}

func TestBulkMoveTo(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t,
		product("p1", model.ListWishlist),
		product("p2", model.ListWishlist),
		product("p3", model.ListWishlist),
	)

	if err := s.BulkMoveTo(ctx, []string{"p1", "p3"}, model.ListShipped); err != nil {
		t.Fatalf("move: %v", err)
	}

	wantLists := map[string]model.List{
		"p1": model.ListShipped,
		"p2": model.ListWishlist,
		"p3": model.ListShipped,
	}
	for _, p := range s.Products() {
		if p.List != wantLists[p.ID] {
			t.Errorf("%s: list = %q, want %q", p.ID, p.List, wantLists[p.ID])
		}
	}
}

func TestBulkMoveToInvalidListTouchesNothing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t,
		product("p1", model.ListWishlist),
		product("p2", model.ListOrdered),
	)
	before := s.Products()

	err := s.BulkMoveTo(ctx, []string{"p1", "p2"}, "NotARealList")
	if !errors.Is(err, ErrInvalidList) {
		t.Fatalf("err = %v, want ErrInvalidList", err)
	}

	if diff := cmp.Diff(before, s.Products()); diff != "" {
		t.Errorf("collection changed on failed move (-before +after):\n%s", diff)
	}
}

func TestBulkAddTag(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t,
		product("p1", model.ListWishlist, "grail"),
		product("p2", model.ListWishlist),
		product("p3", model.ListWishlist),
	)

	s.BulkAddTag(ctx, []string{"p1", "p2"}, " grail ")
	s.BulkAddTag(ctx, []string{"p1", "p2"}, "grail") // second run changes nothing
	s.BulkAddTag(ctx, []string{"p3"}, "   ")         // blank tag is a no-op

	wantTags := map[string][]string{
		"p1": {"grail"},
		"p2": {"grail"},
		"p3": nil,
	}
	for _, p := range s.Products() {
		if diff := cmp.Diff(wantTags[p.ID], p.Tags); diff != "" {
			t.Errorf("%s tags mismatch (-want +got):\n%s", p.ID, diff)
		}
	}
}

func TestHistoryCap(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i := range 500 {
		s.RecordConversion(ctx, model.HistoryEntry{
			Input:      fmt.Sprintf("https://weidian.com/item.html?itemID=%d", i),
			ShopType:   model.ShopWeidian,
			ExternalID: fmt.Sprint(i),
		})
	}

	h := s.History()
	if len(h) != model.HistoryLimit {
		t.Fatalf("history length = %d, want %d", len(h), model.HistoryLimit)
	}
	// Newest first: the last recorded conversion leads, and the oldest 100
	// have been evicted.
	if h[0].ExternalID != "499" {
		t.Errorf("newest entry = %q, want 499", h[0].ExternalID)
	}
	if h[len(h)-1].ExternalID != "100" {
		t.Errorf("oldest retained entry = %q, want 100", h[len(h)-1].ExternalID)
	}
}

func TestSettingsLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	next := s.Settings()
	next.DefaultList = model.ListOrdered
	next.CompactDisplay = true
	if err := s.UpdateSettings(ctx, next); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if got := s.Settings(); got.DefaultList != model.ListOrdered || !got.CompactDisplay {
		t.Errorf("settings not applied: %+v", got)
	}

	bad := s.Settings()
	bad.DefaultList = "junk"
	if err := s.UpdateSettings(ctx, bad); !errors.Is(err, ErrInvalidList) {
		t.Errorf("err = %v, want ErrInvalidList", err)
	}

	s.ResetSettings(ctx)
	if diff := cmp.Diff(model.DefaultSettings(), s.Settings()); diff != "" {
		t.Errorf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceProductsRepairsInvariants(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.ReplaceProducts(ctx, []model.Product{
		{ID: "dup", List: model.ListOrdered},
		{ID: "dup", List: "bogus", Tags: []string{"x", "x"}, Rating: 11},
		{Title: "no id at all"},
	})

	got := s.Products()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (lenient import keeps every record)", len(got))
	}

	seen := map[string]bool{}
	for _, p := range got {
		if p.ID == "" || seen[p.ID] {
			t.Errorf("id uniqueness not repaired: %+v", got)
		}
		seen[p.ID] = true
		if p.CreatedAt == "" {
			t.Errorf("%s: createdAt not stamped", p.ID)
		}
		if !model.ValidList(p.List) {
			t.Errorf("%s: list %q not coerced", p.ID, p.List)
		}
	}
	if diff := cmp.Diff([]string{"x"}, got[1].Tags); diff != "" {
		t.Errorf("tags not deduplicated (-want +got):\n%s", diff)
	}
	if got[1].Rating != 5 {
		t.Errorf("rating = %d, want clamped", got[1].Rating)
	}
}
