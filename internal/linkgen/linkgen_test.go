package linkgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mulebuy/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Parsed
		wantErr error
	}{
		{
			name:    "empty input",
			raw:     "",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "whitespace only",
			raw:     "   \t",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "not a url",
			raw:     "not a url",
			wantErr: ErrMalformedURL,
		},
		{
			name:    "relative path has no host",
			raw:     "/item.html?itemID=1",
			wantErr: ErrMalformedURL,
		},
		{
			name: "weidian item",
			raw:  "https://weidian.com/item.html?itemID=123",
			want: Parsed{ShopType: model.ShopWeidian, ExternalID: "123"},
		},
		{
			name: "weidian subdomain",
			raw:  "https://shop123.v.weidian.com/item.html?itemID=7405568612",
			want: Parsed{ShopType: model.ShopWeidian, ExternalID: "7405568612"},
		},
		{
			name: "taobao item",
			raw:  "https://item.taobao.com/item.htm?id=456",
			want: Parsed{ShopType: model.ShopTaobao, ExternalID: "456"},
		},
		{
			name: "taobao with extra params",
			raw:  "https://item.taobao.com/item.htm?spm=a21n57.1.0&id=789&ns=1",
			want: Parsed{ShopType: model.ShopTaobao, ExternalID: "789"},
		},
		{
			name:    "weidian without itemID",
			raw:     "https://weidian.com/item.html?id=123",
			wantErr: ErrMissingItemID,
		},
		{
			name:    "taobao without id",
			raw:     "https://item.taobao.com/item.htm?itemID=123",
			wantErr: ErrMissingItemID,
		},
		{
			name:    "empty itemID",
			raw:     "https://weidian.com/item.html?itemID=",
			wantErr: ErrMissingItemID,
		},
		{
			name:    "unsupported domain",
			raw:     "https://example.com/item?id=1",
			wantErr: ErrUnsupportedDomain,
		},
		{
			name: "host match is case insensitive",
			raw:  "https://WEIDIAN.com/item.html?itemID=5",
			want: Parsed{ShopType: model.ShopWeidian, ExternalID: "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.raw, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParseErrorKindsAreDistinct(t *testing.T) {
	_, emptyErr := Parse("")
	_, malformedErr := Parse("not a url")
	if errors.Is(emptyErr, ErrMalformedURL) || errors.Is(malformedErr, ErrEmptyInput) {
		t.Fatalf("error kinds overlap: %v vs %v", emptyErr, malformedErr)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		shop model.ShopType
		id   string
		ref  string
		want string
	}{
		{
			name: "explicit referral code",
			shop: model.ShopWeidian,
			id:   "123",
			ref:  "R9",
			want: "https://mulebuy.com/product/?shop_type=weidian&id=123&ref=R9",
		},
		{
			name: "empty referral code uses default",
			shop: model.ShopWeidian,
			id:   "123",
			ref:  "",
			want: "https://mulebuy.com/product/?shop_type=weidian&id=123&ref=" + model.BuiltinReferralCode,
		},
		{
			name: "taobao",
			shop: model.ShopTaobao,
			id:   "456",
			ref:  "abc",
			want: "https://mulebuy.com/product/?shop_type=taobao&id=456&ref=abc",
		},
		{
			name: "unsafe characters are query encoded",
			shop: model.ShopTaobao,
			id:   "a b&c",
			ref:  "r/1",
			want: "https://mulebuy.com/product/?shop_type=taobao&id=a+b%26c&ref=r%2F1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.shop, tt.id, tt.ref)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetDefaultReferralCode(t *testing.T) {
	t.Cleanup(func() { SetDefaultReferralCode("") })

	SetDefaultReferralCode("override")
	if got := Render(model.ShopWeidian, "1", ""); !strings.Contains(got, "ref=override") {
		t.Errorf("Render() = %q, want ref=override", got)
	}

	SetDefaultReferralCode("")
	if got := DefaultReferralCode(); got != model.BuiltinReferralCode {
		t.Errorf("DefaultReferralCode() = %q after reset, want builtin", got)
	}
}

func TestParseRenderRoundTrip(t *testing.T) {
	inputs := []string{
		"https://weidian.com/item.html?itemID=7405568612",
		"https://item.taobao.com/item.htm?id=675330231400",
	}
	for _, raw := range inputs {
		parsed, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		rendered := Render(parsed.ShopType, parsed.ExternalID, "ref1")
		if !strings.Contains(rendered, "shop_type="+string(parsed.ShopType)) ||
			!strings.Contains(rendered, "id="+parsed.ExternalID) {
			t.Errorf("Render(%q) = %q, lost shop type or id", raw, rendered)
		}
	}
}
