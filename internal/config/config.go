// Package config handles the YAML run configuration and hot-reload.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/isuhosts/isuhosts/internal/hosts"
)

const (
	// DefaultBasePath is the directory holding one subdirectory per server.
	DefaultBasePath = "config"
	// DefaultHostnamePrefix is prepended to the 1-based server index.
	DefaultHostnamePrefix = "is"
	// DefaultIndexOffset maps server i to directory <prefix><i+1>.
	DefaultIndexOffset = 1
	// DefaultMaxBackups is the number of backups kept per server.
	DefaultMaxBackups = 10
)

// Backup holds backup settings.
type Backup struct {
	Dir string `yaml:"dir,omitempty"`
	Max int    `yaml:"max"`
}

// Config represents the complete run configuration.
type Config struct {
	Peers          []string `yaml:"peers"`
	BasePath       string   `yaml:"basePath"`
	HostnamePrefix string   `yaml:"hostnamePrefix"`
	IndexOffset    int      `yaml:"indexOffset"`
	LoopbackSelf   bool     `yaml:"loopbackSelf"`
	Backup         Backup   `yaml:"backup"`
}

// Default returns a configuration with every default applied and no peers.
func Default() *Config {
	return &Config{
		BasePath:       DefaultBasePath,
		HostnamePrefix: DefaultHostnamePrefix,
		IndexOffset:    DefaultIndexOffset,
		Backup: Backup{
			Max: DefaultMaxBackups,
		},
	}
}

// Addrs parses the peer list in order.
func (c *Config) Addrs() ([]netip.Addr, error) {
	addrs := make([]netip.Addr, 0, len(c.Peers))
	for i, p := range c.Peers {
		addr, err := hosts.ParseAddr(p)
		if err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("peers[%d]", i),
				Message: fmt.Sprintf("invalid IP address: %s", p),
			}
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// Decode decodes YAML on top of the defaults without validating.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReadFile reads the configuration at path without validating it, so that
// callers can overlay command-line values first.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Decode(data)
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Manager handles configuration loading and watching.
type Manager struct {
	path     string
	config   *Config
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	onError  func(error)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewManager creates a new config manager.
func NewManager(path string) *Manager {
	return &Manager{
		path:   filepath.Clean(path),
		stopCh: make(chan struct{}),
	}
}

// Path returns the watched config file path.
func (m *Manager) Path() string {
	return m.path
}

// Load reads and parses the configuration file.
func (m *Manager) Load() error {
	cfg, err := LoadFile(m.path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Watch starts watching the config file for changes. onChange receives every
// successfully reloaded configuration; onError, when set, receives reload
// failures and the previous configuration stays current.
//
// The parent directory is watched so that editors replacing the file by
// rename are still noticed.
func (m *Manager) Watch(onChange func(*Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	m.watcher = watcher
	m.onChange = onChange
	m.onError = onError

	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	go m.watchLoop()

	return nil
}

func (m *Manager) watchLoop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := m.Load(); err != nil {
				if m.onError != nil {
					m.onError(err)
				}
				continue
			}
			if m.onChange != nil {
				m.onChange(m.Get())
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			if m.onError != nil {
				m.onError(fmt.Errorf("config watcher: %w", err))
			}
		case <-m.stopCh:
			return
		}
	}
}

// Stop stops watching the config file.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		if m.watcher != nil {
			m.watcher.Close()
		}
	})
}

// Write marshals cfg to path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Create validates cfg and writes it to a new file at path, creating parent
// directories. An existing file is never overwritten unless force is set.
func Create(path string, cfg *Config, force bool) error {
	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists: %w", path, os.ErrExist)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Write(path, cfg)
}
