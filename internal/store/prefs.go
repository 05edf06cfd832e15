package store

import (
	"github.com/cockroachdb/pebble/v2"
	"github.com/rs/zerolog/log"
)

// Prefs exposes the store as a string preference map. It satisfies the subset
// of fyne.Preferences used by config.Settings.
type Prefs struct {
	s *Store
}

// Prefs returns the preference view of the store
func (s *Store) Prefs() *Prefs {
	return &Prefs{s: s}
}

// String returns the value for key or "" when absent
func (p *Prefs) String(key string) string {
	return p.StringWithFallback(key, "")
}

// StringWithFallback returns the value for key or fallback when absent
func (p *Prefs) StringWithFallback(key, fallback string) string {
	val, err := p.s.get(prefKey(key))
	if err != nil {
		if err != ErrNotFound {
			log.Warn().Err(err).Str("key", key).Msg("[store] read preference")
		}
		return fallback
	}
	return string(val)
}

// SetString persists value under key
func (p *Prefs) SetString(key, value string) {
	if err := p.s.db.Set(prefKey(key), []byte(value), pebble.Sync); err != nil {
		log.Error().Err(err).Str("key", key).Msg("[store] write preference")
	}
}

// RemoveValue deletes key
func (p *Prefs) RemoveValue(key string) {
	if err := p.s.db.Delete(prefKey(key), pebble.Sync); err != nil {
		log.Error().Err(err).Str("key", key).Msg("[store] delete preference")
	}
}
