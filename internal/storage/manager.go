package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	profileFile  = "profile.json"
	autosaveFile = "autosave.json"
)

// Manager handles all persistence under the data directory
type Manager struct {
	fs      afero.Fs
	rootDir string
	mu      sync.RWMutex
	now     func() time.Time
}

// NewManager creates a storage manager rooted at rootDir on fs
func NewManager(fs afero.Fs, rootDir string) (*Manager, error) {
	if err := fs.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", rootDir, err)
	}
	return &Manager{fs: fs, rootDir: rootDir, now: time.Now}, nil
}

// NewOsManager creates a storage manager on the real filesystem
func NewOsManager(rootDir string) (*Manager, error) {
	return NewManager(afero.NewOsFs(), rootDir)
}

// GetRootDir returns the data directory path
func (m *Manager) GetRootDir() string {
	return m.rootDir
}

// ============= Profile =============

// LoadProfile returns the stored profile, or nil if none exists
func (m *Manager) LoadProfile() (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var profile Profile
	found, err := m.readJSON(profileFile, &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile writes the profile
func (m *Manager) SaveProfile(profile *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writeJSON(profileFile, profile)
}

// ============= Autosave =============

// SaveProject writes the autosave record, stamping LastSaved and
// assigning an ID on first save.
func (m *Manager) SaveProject(p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.LastSaved = m.now().UTC()
	return m.writeJSON(autosaveFile, p)
}

// LoadProject returns the autosaved project, or nil if none exists
func (m *Manager) LoadProject() (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var p Project
	found, err := m.readJSON(autosaveFile, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes the autosave record. A missing record is not an error.
func (m *Manager) DeleteProject() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.fs.Remove(filepath.Join(m.rootDir, autosaveFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete autosave: %w", err)
	}
	return nil
}

func (m *Manager) readJSON(name string, v any) (bool, error) {
	data, err := afero.ReadFile(m.fs, filepath.Join(m.rootDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

func (m *Manager) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return afero.WriteFile(m.fs, filepath.Join(m.rootDir, name), data, 0644)
}
