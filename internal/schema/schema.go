// Package schema owns the persisted state layout: the blob keys, their
// JSON codecs, and the one-time upgrade of legacy layouts at startup.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"mulebuy/internal/model"
	"mulebuy/internal/storage"
)

// Current-version blob keys.
const (
	ProductsKey = "mulebuy_products_v2"
	SettingsKey = "mulebuy_settings_v2"
	HistoryKey  = "mulebuy_history_v2"
)

// Legacy keys consulted only during one-time migration. They are read-only:
// migration never rewrites or deletes them.
const (
	legacyItemsKey   = "mulebuy_saved_items"
	legacyHistoryKey = "mulebuy_history"
)

// A step upgrades the persisted layout from one version to the next,
// writing the destination keys. It reports false when no data of its source
// version exists. Steps run in ascending version order, so adding a v3
// means appending one entry here rather than new branching in Load.
type step struct {
	from    int
	upgrade func(ctx context.Context, blobs storage.Blobs) (bool, error)
}

var steps = []step{
	{from: model.LegacySchemaVersion, upgrade: upgradeLegacyItems},
}

// Load reads the persisted state, upgrading a legacy layout in place or
// initializing fresh state when the store is empty. It runs exactly once
// per process, before any other component touches the store. Running it
// again is a no-op: once current-version data exists it loads without
// writing anything.
func Load(ctx context.Context, blobs storage.Blobs, log *slog.Logger) (model.State, error) {
	st, ok, err := loadCurrent(ctx, blobs)
	if err != nil {
		return model.State{}, err
	}
	if ok {
		return st, nil
	}

	migrated := false
	for _, s := range steps {
		did, err := s.upgrade(ctx, blobs)
		if err != nil {
			return model.State{}, fmt.Errorf("upgrade from v%d: %w", s.from, err)
		}
		if did {
			migrated = true
			log.Info("migrated legacy data", "from_version", s.from)
		}
	}

	if !migrated {
		if err := initFresh(ctx, blobs); err != nil {
			return model.State{}, err
		}
		log.Info("initialized empty store")
	}

	st, ok, err = loadCurrent(ctx, blobs)
	if err != nil {
		return model.State{}, err
	}
	if !ok {
		return model.State{}, fmt.Errorf("store empty after migration")
	}
	return st, nil
}

// loadCurrent reads the current-version keys. The products key decides
// whether the store counts as populated: when present, even as an empty
// array, absent settings default and absent history is empty.
func loadCurrent(ctx context.Context, blobs storage.Blobs) (model.State, bool, error) {
	raw, ok, err := blobs.Get(ctx, ProductsKey)
	if err != nil {
		return model.State{}, false, fmt.Errorf("read products: %w", err)
	}
	if !ok {
		return model.State{}, false, nil
	}

	st := model.State{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(raw, &st.Products); err != nil {
		return model.State{}, false, fmt.Errorf("decode products: %w", err)
	}

	if raw, ok, err = blobs.Get(ctx, SettingsKey); err != nil {
		return model.State{}, false, fmt.Errorf("read settings: %w", err)
	} else if ok {
		if err := json.Unmarshal(raw, &st.Settings); err != nil {
			return model.State{}, false, fmt.Errorf("decode settings: %w", err)
		}
		if !model.ValidList(st.Settings.DefaultList) {
			st.Settings.DefaultList = model.DefaultList
		}
	}

	if raw, ok, err = blobs.Get(ctx, HistoryKey); err != nil {
		return model.State{}, false, fmt.Errorf("read history: %w", err)
	} else if ok {
		if err := json.Unmarshal(raw, &st.History); err != nil {
			return model.State{}, false, fmt.Errorf("decode history: %w", err)
		}
	}

	return st, true, nil
}

func initFresh(ctx context.Context, blobs storage.Blobs) error {
	if err := SaveProducts(ctx, blobs, []model.Product{}); err != nil {
		return err
	}
	if err := SaveSettings(ctx, blobs, model.DefaultSettings()); err != nil {
		return err
	}
	return SaveHistory(ctx, blobs, []model.HistoryEntry{})
}

// SaveProducts persists the full product collection under its
// current-version key.
func SaveProducts(ctx context.Context, blobs storage.Blobs, products []model.Product) error {
	return put(ctx, blobs, ProductsKey, products)
}

// SaveSettings persists the settings singleton under its current-version key.
func SaveSettings(ctx context.Context, blobs storage.Blobs, s model.Settings) error {
	return put(ctx, blobs, SettingsKey, s)
}

// SaveHistory persists the conversion history under its current-version key.
func SaveHistory(ctx context.Context, blobs storage.Blobs, h []model.HistoryEntry) error {
	return put(ctx, blobs, HistoryKey, h)
}

func put(ctx context.Context, blobs storage.Blobs, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := blobs.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
