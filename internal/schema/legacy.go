package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mulebuy/internal/linkgen"
	"mulebuy/internal/model"
	"mulebuy/internal/storage"
)

// legacyItem is the version-1 saved-item shape. The marketplace item
// identifier lived in the "id" field; there was no separate record id, no
// lists and none of the seller/size/price/rating fields.
type legacyItem struct {
	ID           string   `json:"id"`
	CreatedAt    string   `json:"createdAt"`
	ShopType     string   `json:"shopType"`
	ReferralCode string   `json:"referralCode"`
	PartnerURL   string   `json:"partnerUrl"`
	Title        string   `json:"title"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
	QCLinks      []string `json:"qcLinks"`
	LocalImages  []string `json:"localImages"`
}

// upgradeLegacyItems transforms the version-1 saved-items array into the
// current product layout and copies the legacy history verbatim, writing
// both under the current-version keys. The legacy keys are left untouched.
func upgradeLegacyItems(ctx context.Context, blobs storage.Blobs) (bool, error) {
	raw, ok, err := blobs.Get(ctx, legacyItemsKey)
	if err != nil {
		return false, fmt.Errorf("read legacy items: %w", err)
	}
	if !ok {
		return false, nil
	}

	var items []legacyItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return false, fmt.Errorf("decode legacy items: %w", err)
	}

	products := make([]model.Product, 0, len(items))
	for _, it := range items {
		products = append(products, upgradeItem(it))
	}
	if err := SaveProducts(ctx, blobs, products); err != nil {
		return false, err
	}

	history := []model.HistoryEntry{}
	if raw, ok, err := blobs.Get(ctx, legacyHistoryKey); err != nil {
		return false, fmt.Errorf("read legacy history: %w", err)
	} else if ok {
		if err := json.Unmarshal(raw, &history); err != nil {
			return false, fmt.Errorf("decode legacy history: %w", err)
		}
	}
	if err := SaveHistory(ctx, blobs, history); err != nil {
		return false, err
	}

	return true, nil
}

func upgradeItem(it legacyItem) model.Product {
	p := model.Product{
		ID:            it.ID,
		CreatedAt:     it.CreatedAt,
		List:          model.DefaultList,
		ShopType:      model.ShopType(it.ShopType),
		ExternalID:    it.ID,
		ReferralCode:  it.ReferralCode,
		PartnerURL:    it.PartnerURL,
		Title:         it.Title,
		Notes:         it.Notes,
		Tags:          it.Tags,
		QCLinks:       it.QCLinks,
		LocalImages:   it.LocalImages,
		SchemaVersion: model.SchemaVersion,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if p.PartnerURL == "" {
		p.PartnerURL = linkgen.Render(p.ShopType, p.ExternalID, p.ReferralCode)
	}
	return p
}
