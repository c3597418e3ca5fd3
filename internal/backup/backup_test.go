package backup

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"mulebuy/internal/model"
)

func sampleProducts() []model.Product {
	return []model.Product{
		{
			ID: "p1", CreatedAt: "2024-01-01T00:00:00Z", List: model.ListWishlist,
			ShopType: model.ShopWeidian, ExternalID: "111", ReferralCode: "R1",
			Title: "Hoodie", Tags: []string{"tops"}, SchemaVersion: model.SchemaVersion,
		},
		{
			ID: "p2", CreatedAt: "2024-02-01T00:00:00Z", List: model.ListOrdered,
			ShopType: model.ShopTaobao, ExternalID: "222", ReferralCode: "R2",
			Title: "Sneakers", SchemaVersion: model.SchemaVersion,
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	settings := model.Settings{
		DefaultReferralCode: "R1",
		DefaultList:         model.ListOrdered,
		CompactDisplay:      true,
	}

	raw, err := Export(settings, sampleProducts())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	res, err := Import(raw, model.DefaultSettings())
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if !res.HasProducts {
		t.Fatal("round trip lost the product list")
	}
	if diff := cmp.Diff(sampleProducts(), res.Products, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(settings, res.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestExportShape(t *testing.T) {
	raw, err := Export(model.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(doc) != 2 {
		t.Errorf("expected exactly settings and products, got %d fields", len(doc))
	}
	if _, ok := doc["settings"]; !ok {
		t.Error("missing settings field")
	}
	if _, ok := doc["products"]; !ok {
		t.Error("missing products field")
	}
}

func TestImportBareArray(t *testing.T) {
	current := model.Settings{
		DefaultReferralCode: "keep-me",
		DefaultList:         model.ListShipped,
	}

	res, err := Import([]byte(`[{"id":"x","title":"from legacy backup"}]`), current)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if !res.HasProducts || len(res.Products) != 1 || res.Products[0].ID != "x" {
		t.Errorf("products = %+v", res.Products)
	}
	if diff := cmp.Diff(current, res.Settings); diff != "" {
		t.Errorf("bare array must leave settings untouched (-want +got):\n%s", diff)
	}
}

func TestImportPartialSettings(t *testing.T) {
	current := model.Settings{
		DefaultReferralCode: "old",
		DefaultList:         model.ListWishlist,
		CompactDisplay:      false,
	}

	tests := []struct {
		name string
		doc  string
		want model.Settings
	}{
		{
			name: "merge single field",
			doc:  `{"settings":{"defaultReferralCode":"new"}}`,
			want: model.Settings{DefaultReferralCode: "new", DefaultList: model.ListWishlist},
		},
		{
			name: "merge bool field",
			doc:  `{"settings":{"compactDisplay":true}}`,
			want: model.Settings{DefaultReferralCode: "old", DefaultList: model.ListWishlist, CompactDisplay: true},
		},
		{
			name: "invalid list is ignored",
			doc:  `{"settings":{"defaultList":"junk"}}`,
			want: current,
		},
		{
			name: "valid list replaces",
			doc:  `{"settings":{"defaultList":"delivered"}}`,
			want: model.Settings{DefaultReferralCode: "old", DefaultList: model.ListDelivered},
		},
		{
			name: "no settings object at all",
			doc:  `{"products":[]}`,
			want: current,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Import([]byte(tt.doc), current)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if diff := cmp.Diff(tt.want, res.Settings); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImportWithoutProductsLeavesCollection(t *testing.T) {
	res, err := Import([]byte(`{"settings":{"compactDisplay":true}}`), model.DefaultSettings())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.HasProducts {
		t.Error("document without products must not replace the collection")
	}
}

func TestImportLenientProductShapes(t *testing.T) {
	// Records missing required fields are accepted as-is; validation is
	// deferred to the collection store's repair pass.
	res, err := Import([]byte(`{"products":[{"title":"no id"},{}]}`), model.DefaultSettings())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Products) != 2 {
		t.Errorf("len = %d, want 2", len(res.Products))
	}
}

func TestImportInvalidJSON(t *testing.T) {
	for _, doc := range []string{"", "{not json", `{"products":42}`} {
		_, err := Import([]byte(doc), model.DefaultSettings())
		if !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("Import(%q) err = %v, want ErrInvalidJSON", doc, err)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	if got := Filename(now); got != "mulebuy-backup-2026-08-29.json" {
		t.Errorf("Filename() = %q", got)
	}
}
