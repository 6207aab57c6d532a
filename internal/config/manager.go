package config

import "sync"

// Manager guards the process-wide settings. Values loaded at startup can be
// re-applied from the settings panel for the remainder of the session;
// adapters take a Snapshot per call so an edit never races an in-flight
// request.
type Manager struct {
	mu       sync.RWMutex
	settings Settings
}

func NewManager(settings Settings) *Manager {
	return &Manager{settings: settings}
}

// Snapshot returns a copy of the current settings.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Apply replaces the current settings.
func (m *Manager) Apply(settings Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}
