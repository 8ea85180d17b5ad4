// Package theme holds the light/dark preference and the styles derived from it.
package theme

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

// Default is used when no preference has been stored.
const Default = model.ThemeDark

// Manager owns the current theme and keeps it in sync with the store.
type Manager struct {
	mu      sync.Mutex
	store   model.PreferenceStore
	current model.Theme
	logger  *slog.Logger
}

// NewManager returns a Manager set to Default. Call Load to apply the stored
// preference.
func NewManager(store model.PreferenceStore, logger *slog.Logger) *Manager {
	return &Manager{store: store, current: Default, logger: logger}
}

// Load applies the stored preference. When nothing is stored, or the store
// cannot be read, the theme stays Default.
func (m *Manager) Load() (model.Theme, error) {
	theme, ok, err := m.store.LoadTheme()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.current = Default
		return m.current, fmt.Errorf("loading theme: %w", err)
	}
	if !ok {
		m.current = Default
	} else {
		m.current = theme
	}
	m.logger.Debug("theme loaded", "theme", m.current, "stored", ok)
	return m.current, nil
}

// Toggle flips the theme and persists it. The in-memory theme flips even if
// saving fails.
func (m *Manager) Toggle() (model.Theme, error) {
	m.mu.Lock()
	m.current = m.current.Toggle()
	theme := m.current
	m.mu.Unlock()

	if err := m.store.SaveTheme(theme); err != nil {
		return theme, fmt.Errorf("saving theme: %w", err)
	}
	m.logger.Debug("theme toggled", "theme", theme)
	return theme, nil
}

// Current returns the active theme.
func (m *Manager) Current() model.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Styles returns the styles of the active theme.
func (m *Manager) Styles() Styles {
	return NewStyles(PaletteFor(m.Current()))
}
