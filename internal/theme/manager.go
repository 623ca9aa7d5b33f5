package theme

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Store persists string preferences.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// SystemSource reports the operating system's dark mode setting.
type SystemSource interface {
	IsDark() bool
	// Watch calls fn whenever the setting changes, until ctx is done.
	Watch(ctx context.Context, fn func(dark bool))
}

// Manager is the single owner of the theme preference. Callers read the
// effective mode from it and register for changes instead of tracking the
// preference themselves.
type Manager struct {
	store  Store
	system SystemSource

	mu         sync.Mutex
	pref       Preference
	systemDark bool
	listeners  []func(Mode)
}

// NewManager loads the stored preference, defaulting to System when nothing
// valid is stored.
func NewManager(ctx context.Context, store Store, system SystemSource) (*Manager, error) {
	raw, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("loading theme preference: %w", err)
	}
	pref := System
	if ok {
		pref = Normalize(raw)
	}
	return &Manager{
		store:      store,
		system:     system,
		pref:       pref,
		systemDark: system.IsDark(),
	}, nil
}

func (m *Manager) Preference() Preference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pref
}

func (m *Manager) Effective() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Resolve(m.pref, m.systemDark)
}

// Set persists p in its canonical lowercase form and notifies listeners with
// the resulting mode.
func (m *Manager) Set(ctx context.Context, raw Preference) error {
	p, err := ParsePreference(string(raw))
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, StorageKey, string(p)); err != nil {
		return fmt.Errorf("saving theme preference: %w", err)
	}

	m.mu.Lock()
	m.pref = p
	mode := Resolve(p, m.systemDark)
	listeners := append([]func(Mode){}, m.listeners...)
	m.mu.Unlock()

	slog.Debug("Theme preference updated", "preference", p, "mode", mode)
	for _, fn := range listeners {
		fn(mode)
	}
	return nil
}

// Cycle advances to the next preference and returns it.
func (m *Manager) Cycle(ctx context.Context) (Preference, error) {
	next := m.Preference().Next()
	if err := m.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// OnChange registers fn to be called with the new mode after Set and after
// system changes that affect the effective mode.
func (m *Manager) OnChange(fn func(Mode)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Watch follows the system setting until ctx is done.
func (m *Manager) Watch(ctx context.Context) {
	m.system.Watch(ctx, m.systemChanged)
}

func (m *Manager) systemChanged(dark bool) {
	m.mu.Lock()
	before := Resolve(m.pref, m.systemDark)
	m.systemDark = dark
	after := Resolve(m.pref, m.systemDark)
	listeners := append([]func(Mode){}, m.listeners...)
	m.mu.Unlock()

	if before == after {
		return
	}
	slog.Debug("System theme changed", "dark", dark, "mode", after)
	for _, fn := range listeners {
		fn(after)
	}
}
