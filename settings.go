package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/karanm/aerocast/internal/database"
)

// This file contains the settings store. The keyspace is a closed set of
// typed dot-separated paths; unknown keys fail loudly instead of being
// created on the fly, and every write goes through Postgres before the
// in-memory copy so a Get after a Set always reflects durable state.

type SettingKey string

const (
	SettingNotificationsEnabled SettingKey = "notifications.enabled"
	SettingAQIThreshold         SettingKey = "notifications.aqiThreshold"
	SettingDisplayUnits         SettingKey = "display.units"
	SettingDisplayTheme         SettingKey = "display.theme"
	SettingDefaultSite          SettingKey = "location.defaultSite"
	SettingAPITimeoutSeconds    SettingKey = "api.timeoutSeconds"
	SettingRetentionDays        SettingKey = "data.retentionDays"
)

var (
	ErrUnknownSettingKey   = errors.New("unknown setting key")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

func defaultSettings() map[SettingKey]any {
	return map[SettingKey]any{
		SettingNotificationsEnabled: true,
		SettingAQIThreshold:         200,
		SettingDisplayUnits:         "ugm3",
		SettingDisplayTheme:         "dark",
		SettingDefaultSite:          "connaught-place",
		SettingAPITimeoutSeconds:    10,
		SettingRetentionDays:        30,
	}
}

// normalizeSettingValue checks a candidate value against the key's type and
// range and returns it in canonical form. JSON numbers arrive as float64 and
// are converted to int for the integer keys.
func normalizeSettingValue(key SettingKey, value any) (any, error) {
	switch key {
	case SettingNotificationsEnabled:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a boolean", ErrInvalidSettingValue, key)
		}
		return b, nil
	case SettingAQIThreshold:
		n, err := settingInt(key, value)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 500 {
			return nil, fmt.Errorf("%w: %s must be between 0 and 500", ErrInvalidSettingValue, key)
		}
		return n, nil
	case SettingDisplayUnits:
		s, ok := value.(string)
		if !ok || (s != "ugm3" && s != "ppm") {
			return nil, fmt.Errorf("%w: %s must be one of ugm3, ppm", ErrInvalidSettingValue, key)
		}
		return s, nil
	case SettingDisplayTheme:
		s, ok := value.(string)
		if !ok || (s != "dark" && s != "light") {
			return nil, fmt.Errorf("%w: %s must be one of dark, light", ErrInvalidSettingValue, key)
		}
		return s, nil
	case SettingDefaultSite:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a site slug", ErrInvalidSettingValue, key)
		}
		slug, err := normalizeSiteSlug(s)
		if err != nil || slug == "" {
			return nil, fmt.Errorf("%w: %s expects a site slug", ErrInvalidSettingValue, key)
		}
		return slug, nil
	case SettingAPITimeoutSeconds:
		n, err := settingInt(key, value)
		if err != nil {
			return nil, err
		}
		if n < 1 || n > 120 {
			return nil, fmt.Errorf("%w: %s must be between 1 and 120", ErrInvalidSettingValue, key)
		}
		return n, nil
	case SettingRetentionDays:
		n, err := settingInt(key, value)
		if err != nil {
			return nil, err
		}
		if n < 1 || n > 365 {
			return nil, fmt.Errorf("%w: %s must be between 1 and 365", ErrInvalidSettingValue, key)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettingKey, key)
	}
}

func settingInt(key SettingKey, value any) (int, error) {
	switch n := value.(type) {
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s expects an integer", ErrInvalidSettingValue, key)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s expects an integer", ErrInvalidSettingValue, key)
	}
}

type SettingsStore struct {
	cfg    *apiConfig
	mu     sync.RWMutex
	values map[SettingKey]any
}

func NewSettingsStore(cfg *apiConfig) *SettingsStore {
	return &SettingsStore{cfg: cfg, values: defaultSettings()}
}

// Load reads all persisted rows and merges them over the defaults, so keys
// added after a deployment never read as absent. Rows with unknown keys or
// unreadable values come from older versions and are logged and dropped.
func (s *SettingsStore) Load(ctx context.Context) error {
	rows, err := s.cfg.dbQueries.ListSettings(ctx)
	if err != nil {
		return fmt.Errorf("couldn't load settings: %w", err)
	}

	merged := defaultSettings()
	for _, row := range rows {
		var decoded any
		if err := json.Unmarshal(row.Value, &decoded); err != nil {
			s.cfg.logger.Warn("dropping unreadable setting row", "key", row.Key, "error", err)
			continue
		}
		canonical, err := normalizeSettingValue(SettingKey(row.Key), decoded)
		if err != nil {
			s.cfg.logger.Warn("dropping invalid persisted setting", "key", row.Key, "error", err)
			continue
		}
		merged[SettingKey(row.Key)] = canonical
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = merged
	return nil
}

// Get returns the current value for a key. Unknown keys are an error, never
// an auto-created entry.
func (s *SettingsStore) Get(key SettingKey) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettingKey, key)
	}
	return v, nil
}

// Set validates the key and value, persists the new value synchronously and
// only then updates the in-memory copy.
func (s *SettingsStore) Set(ctx context.Context, key SettingKey, value any) error {
	canonical, err := normalizeSettingValue(key, value)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(canonical)
	if err != nil {
		return fmt.Errorf("couldn't encode setting value: %w", err)
	}
	if _, err := s.cfg.dbQueries.UpsertSetting(ctx, database.UpsertSettingParams{
		Key:   string(key),
		Value: raw,
	}); err != nil {
		return fmt.Errorf("couldn't persist setting %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = canonical
	return nil
}

// Reset deletes all persisted rows and restores the in-memory defaults.
func (s *SettingsStore) Reset(ctx context.Context) error {
	if err := s.cfg.dbQueries.DeleteAllSettings(ctx); err != nil {
		return fmt.Errorf("couldn't delete settings: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = defaultSettings()
	return nil
}

// RetentionDays returns the archive retention window used by the sweep job.
func (s *SettingsStore) RetentionDays() int {
	v, err := s.Get(SettingRetentionDays)
	if err != nil {
		return 30
	}
	n, ok := v.(int)
	if !ok {
		return 30
	}
	return n
}

// DefaultSite returns the slug of the dashboard's default monitored site.
func (s *SettingsStore) DefaultSite() string {
	v, err := s.Get(SettingDefaultSite)
	if err != nil {
		return "connaught-place"
	}
	slug, ok := v.(string)
	if !ok {
		return "connaught-place"
	}
	return slug
}

// Snapshot rebuilds the nested settings document from the flat typed keys,
// e.g. {"display": {"units": "ugm3", "theme": "dark"}}.
func (s *SettingsStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := make(map[string]any)
	for key, value := range s.values {
		section, leaf, _ := strings.Cut(string(key), ".")
		child, ok := doc[section].(map[string]any)
		if !ok {
			child = make(map[string]any)
			doc[section] = child
		}
		child[leaf] = value
	}
	return doc
}

// clearAllData wipes every durable namespace the service owns short of the
// forecast archive: persisted settings, the usage counter and the Redis
// cache. The dev reset endpoint wipes the archive on top of this.
func (cfg *apiConfig) clearAllData(ctx context.Context) error {
	if err := cfg.settings.Reset(ctx); err != nil {
		return err
	}
	if err := cfg.usage.Reset(ctx); err != nil {
		return fmt.Errorf("couldn't reset usage counter: %w", err)
	}
	if err := cfg.cache.Flush(ctx); err != nil {
		return fmt.Errorf("couldn't flush cache: %w", err)
	}
	return nil
}
