// Package linkgen parses marketplace product URLs and renders partner
// referral URLs.
package linkgen

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"mulebuy/internal/model"
)

// PartnerBaseURL is the fixed base of every rendered partner URL.
const PartnerBaseURL = "https://mulebuy.com/product/"

// Parse failure kinds, distinguishable with errors.Is.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrMalformedURL      = errors.New("malformed URL")
	ErrMissingItemID     = errors.New("missing item id parameter")
	ErrUnsupportedDomain = errors.New("unsupported domain")
)

// Parsed is the outcome of a successful Parse.
type Parsed struct {
	ShopType   model.ShopType
	ExternalID string
}

// Marketplace hostnames are matched as substrings of the URL hostname, so
// subdomains like item.taobao.com resolve to the same shop.
var marketplaces = []struct {
	host    string
	shop    model.ShopType
	idParam string
}{
	{"weidian.com", model.ShopWeidian, "itemID"},
	{"taobao.com", model.ShopTaobao, "id"},
}

// Parse extracts the shop type and marketplace item identifier from a raw
// product URL. The identifier is taken verbatim from the shop-specific
// query parameter; no further validation is applied to it.
func Parse(raw string) (Parsed, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Parsed{}, ErrEmptyInput
	}

	u, err := url.Parse(s)
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if u.Host == "" {
		return Parsed{}, fmt.Errorf("%w: %q has no host", ErrMalformedURL, s)
	}

	host := strings.ToLower(u.Hostname())
	query := u.Query()
	for _, m := range marketplaces {
		if !strings.Contains(host, m.host) {
			continue
		}
		id := query.Get(m.idParam)
		if id == "" {
			return Parsed{}, fmt.Errorf("%w: %s requires ?%s=", ErrMissingItemID, m.host, m.idParam)
		}
		return Parsed{ShopType: m.shop, ExternalID: id}, nil
	}

	return Parsed{}, fmt.Errorf("%w: %s", ErrUnsupportedDomain, host)
}

// Render produces the partner URL for a parsed product. An empty referral
// code falls back to the process-wide default. Query parameters appear in
// the fixed order shop_type, id, ref.
func Render(shop model.ShopType, externalID, referralCode string) string {
	if referralCode == "" {
		referralCode = DefaultReferralCode()
	}
	return PartnerBaseURL +
		"?shop_type=" + url.QueryEscape(string(shop)) +
		"&id=" + url.QueryEscape(externalID) +
		"&ref=" + url.QueryEscape(referralCode)
}
