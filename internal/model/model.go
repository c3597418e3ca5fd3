// Package model defines the domain types used across the application.
package model

// ShopType identifies which supported marketplace a product came from.
type ShopType string

// Supported marketplaces.
const (
	ShopWeidian ShopType = "weidian"
	ShopTaobao  ShopType = "taobao"
)

// List names one of the fixed product lists.
type List string

// The fixed, ordered set of product lists.
const (
	ListWishlist  List = "wishlist"
	ListOrdered   List = "ordered"
	ListShipped   List = "shipped"
	ListDelivered List = "delivered"
)

// Lists returns the fixed list set in display order.
func Lists() []List {
	return []List{ListWishlist, ListOrdered, ListShipped, ListDelivered}
}

// ValidList reports whether l is a member of the fixed list set.
func ValidList(l List) bool {
	for _, known := range Lists() {
		if l == known {
			return true
		}
	}
	return false
}

// DefaultList is the list newly created and migrated products land in.
const DefaultList = ListWishlist

// Persisted record layout versions. Records written by the legacy layout
// carry LegacySchemaVersion and are upgraded once at startup.
const (
	SchemaVersion       = 2
	LegacySchemaVersion = 1
)

// HistoryLimit caps the conversion history at the most recent entries,
// evicted strictly FIFO by insertion.
const HistoryLimit = 400

// BuiltinReferralCode is the referral code used when neither the
// environment nor the stored settings provide one.
const BuiltinReferralCode = "100011682"

// Product is a tracked marketplace item. JSON tags match the persisted
// blob layout, which the legacy data shares where fields overlap.
type Product struct {
	ID            string   `json:"id"`
	CreatedAt     string   `json:"createdAt"`
	List          List     `json:"list"`
	ShopType      ShopType `json:"shopType"`
	ExternalID    string   `json:"externalId"`
	ReferralCode  string   `json:"referralCode"`
	PartnerURL    string   `json:"partnerUrl"`
	Title         string   `json:"title"`
	Seller        string   `json:"seller"`
	Size          string   `json:"size"`
	Price         string   `json:"price"`
	Rating        int      `json:"rating"`
	Notes         string   `json:"notes"`
	Tags          []string `json:"tags"`
	QCLinks       []string `json:"qcLinks"`
	LocalImages   []string `json:"localImages"`
	SchemaVersion int      `json:"schemaVersion"`
}

// HasTag reports whether the product carries tag (case-sensitive exact match).
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Settings is the process-wide singleton configuration persisted alongside
// the products.
type Settings struct {
	DefaultReferralCode string `json:"defaultReferralCode"`
	DefaultList         List   `json:"defaultList"`
	CompactDisplay      bool   `json:"compactDisplay"`
}

// DefaultSettings returns the built-in settings used on first run and after
// a reset.
func DefaultSettings() Settings {
	return Settings{
		DefaultReferralCode: BuiltinReferralCode,
		DefaultList:         DefaultList,
		CompactDisplay:      false,
	}
}

// HistoryEntry records one URL conversion. Entries are immutable once
// appended.
type HistoryEntry struct {
	ID           string   `json:"id"`
	CreatedAt    string   `json:"createdAt"`
	Input        string   `json:"input"`
	ShopType     ShopType `json:"shopType"`
	ExternalID   string   `json:"externalId"`
	ReferralCode string   `json:"referralCode"`
	PartnerURL   string   `json:"partnerUrl"`
}

// State is the full in-memory application state loaded at startup.
type State struct {
	Products []Product
	Settings Settings
	History  []HistoryEntry
}

// SortKey selects the ordering of the visible product set.
type SortKey string

// Supported sort keys.
const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortShop      SortKey = "shop"
)

// SortKeys returns the supported sort keys in display order.
func SortKeys() []SortKey {
	return []SortKey{
		SortNewest, SortOldest,
		SortTitleAsc, SortTitleDesc,
		SortPriceAsc, SortPriceDesc,
		SortShop,
	}
}

// ValidSortKey reports whether k is a supported sort key.
func ValidSortKey(k SortKey) bool {
	for _, known := range SortKeys() {
		if k == known {
			return true
		}
	}
	return false
}
