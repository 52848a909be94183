package store

import (
	"regexp"
	"sync"

	"tableau/models"
	"tableau/utils"
)

var colorHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SettingsSlice owns the process-wide UI settings. One instance, persisted
// on every change.
type SettingsSlice struct {
	deps *deps

	mu       sync.Mutex
	version  uint64
	settings models.Settings
}

func newSettingsSlice(d *deps) *SettingsSlice {
	s := &SettingsSlice{
		deps:     d,
		settings: models.DefaultSettings(),
	}
	if persisted, ok := d.local.LoadSettings(); ok {
		if utils.IsSupportedLanguage(persisted.Language) {
			s.settings.Language = persisted.Language
		}
		if colorHexPattern.MatchString(persisted.ThemeColor) {
			s.settings.ThemeColor = persisted.ThemeColor
		}
	}
	return s
}

func (s *SettingsSlice) bump(op string) {
	s.version++
	s.deps.bus.publish(Event{Slice: "settings", Op: op, Version: s.version})
}

// SetLanguage switches the UI language; only en, fr and ar are shipped.
func (s *SettingsSlice) SetLanguage(lang string) error {
	if !utils.IsSupportedLanguage(lang) {
		return utils.ValidationErrors{"language_unsupported"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Language = lang
	s.deps.local.SaveSettings(s.settings)
	s.bump("setLanguage")
	return nil
}

// SetThemeColor switches the theme color; the value must be a #rrggbb hex
// triplet.
func (s *SettingsSlice) SetThemeColor(color string) error {
	if !colorHexPattern.MatchString(color) {
		return utils.ValidationErrors{"color_invalid"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.ThemeColor = color
	s.deps.local.SaveSettings(s.settings)
	s.bump("setThemeColor")
	return nil
}

// Settings returns the current UI settings.
func (s *SettingsSlice) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Language returns the active UI language.
func (s *SettingsSlice) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Language
}

// ThemeColor returns the active theme color.
func (s *SettingsSlice) ThemeColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.ThemeColor
}

// Version returns the slice's mutation counter.
func (s *SettingsSlice) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
