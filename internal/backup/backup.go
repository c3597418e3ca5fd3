// Package backup implements the portable JSON export/import format.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mulebuy/internal/model"
)

// ErrInvalidJSON reports an import payload that does not parse.
var ErrInvalidJSON = errors.New("invalid JSON")

// Document is the export shape: exactly the settings singleton and the full
// product sequence.
type Document struct {
	Settings model.Settings  `json:"settings"`
	Products []model.Product `json:"products"`
}

// Export serializes the full state to a portable JSON document.
func Export(settings model.Settings, products []model.Product) ([]byte, error) {
	if products == nil {
		products = []model.Product{}
	}
	doc := Document{Settings: settings, Products: products}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return raw, nil
}

// Filename returns the conventional backup filename for the given date.
func Filename(now time.Time) string {
	return "mulebuy-backup-" + now.Format("2006-01-02") + ".json"
}

// Restore is the outcome of a successful Import.
type Restore struct {
	// Products is the imported collection; valid only when HasProducts
	// is set, otherwise the existing collection stays untouched.
	Products    []model.Product
	HasProducts bool

	// Settings is the result of merging the document's partial settings
	// over the current ones.
	Settings model.Settings
}

// settingsPatch mirrors Settings with optional fields so a partial object
// merges over the current settings instead of replacing them wholesale.
type settingsPatch struct {
	DefaultReferralCode *string     `json:"defaultReferralCode"`
	DefaultList         *model.List `json:"defaultList"`
	CompactDisplay      *bool       `json:"compactDisplay"`
}

type document struct {
	Settings *settingsPatch   `json:"settings"`
	Products *json.RawMessage `json:"products"`
}

// Import validates and decodes a backup document against the current
// settings. Two legacy shapes are accepted: a bare array is the product
// list with settings left untouched, and an object may carry either or
// both of products and a partial settings object. Product records are
// accepted leniently, without per-field validation.
func Import(data []byte, current model.Settings) (Restore, error) {
	res := Restore{Settings: current}

	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Restore{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if isArray(probe) {
		if err := json.Unmarshal(probe, &res.Products); err != nil {
			return Restore{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		res.HasProducts = true
		return res, nil
	}

	var doc document
	if err := json.Unmarshal(probe, &doc); err != nil {
		return Restore{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if doc.Products != nil {
		if err := json.Unmarshal(*doc.Products, &res.Products); err != nil {
			return Restore{}, fmt.Errorf("%w: products: %v", ErrInvalidJSON, err)
		}
		res.HasProducts = true
	}

	if doc.Settings != nil {
		if p := doc.Settings.DefaultReferralCode; p != nil && *p != "" {
			res.Settings.DefaultReferralCode = *p
		}
		if p := doc.Settings.DefaultList; p != nil && model.ValidList(*p) {
			res.Settings.DefaultList = *p
		}
		if p := doc.Settings.CompactDisplay; p != nil {
			res.Settings.CompactDisplay = *p
		}
	}

	return res, nil
}

func isArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
