package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.Peers)
	assert.Equal(t, "config", cfg.BasePath)
	assert.Equal(t, "is", cfg.HostnamePrefix)
	assert.Equal(t, 1, cfg.IndexOffset)
	assert.False(t, cfg.LoopbackSelf)
	assert.Equal(t, 10, cfg.Backup.Max)
}

func TestParse(t *testing.T) {
	t.Run("defaults fill missing keys", func(t *testing.T) {
		cfg, err := Parse([]byte("peers: [10.0.0.1, 10.0.0.2]\n"))
		require.NoError(t, err)

		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Peers)
		assert.Equal(t, "config", cfg.BasePath)
		assert.Equal(t, "is", cfg.HostnamePrefix)
		assert.Equal(t, 1, cfg.IndexOffset)
	})

	t.Run("explicit zero offset is kept", func(t *testing.T) {
		cfg, err := Parse([]byte(`
peers:
  - 10.0.0.1
basePath: /srv/fleet
hostnamePrefix: web
indexOffset: 0
loopbackSelf: true
backup:
  dir: /var/backups/isuhosts
  max: 3
`))
		require.NoError(t, err)

		assert.Equal(t, "/srv/fleet", cfg.BasePath)
		assert.Equal(t, "web", cfg.HostnamePrefix)
		assert.Equal(t, 0, cfg.IndexOffset)
		assert.True(t, cfg.LoopbackSelf)
		assert.Equal(t, "/var/backups/isuhosts", cfg.Backup.Dir)
		assert.Equal(t, 3, cfg.Backup.Max)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("peers: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("invalid peer", func(t *testing.T) {
		_, err := Parse([]byte("peers: [not-an-ip]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
		assert.Contains(t, err.Error(), "peers[0]")
	})
}

func TestReadFile_SkipsValidation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("hostnamePrefix: web\n"), 0644))

	cfg, err := ReadFile(configPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.Peers)
	assert.Equal(t, "web", cfg.HostnamePrefix)

	_, err = LoadFile(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one peer")
}

func TestConfig_Addrs(t *testing.T) {
	cfg := Default()
	cfg.Peers = []string{"10.0.0.1", "2001:db8::0:1"}

	addrs, err := cfg.Addrs()
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "10.0.0.1", addrs[0].String())
	assert.Equal(t, "2001:db8::1", addrs[1].String())

	cfg.Peers = []string{"10.0.0.1", "bogus"}
	_, err = cfg.Addrs()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "peers[1]", ve.Field)
}

func TestManager_LoadAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("peers: [10.0.0.1]\nhostnamePrefix: app\n"), 0644)
	require.NoError(t, err)

	manager := NewManager(configPath)
	assert.Nil(t, manager.Get())

	err = manager.Load()
	require.NoError(t, err)

	cfg := manager.Get()
	require.NotNil(t, cfg)
	assert.Equal(t, "app", cfg.HostnamePrefix)
	assert.Equal(t, configPath, manager.Path())
}

func TestManager_Load_FileNotFound(t *testing.T) {
	manager := NewManager("/nonexistent/path/config.yaml")
	err := manager.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func writeConfig(t *testing.T, path string, peers ...string) {
	t.Helper()
	cfg := Default()
	cfg.Peers = peers
	require.NoError(t, Create(path, cfg, false))
}

func TestCreate(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Peers = []string{"10.0.0.1", "10.0.0.1"}
	cfg.HostnamePrefix = "web."
	require.NoError(t, Create(configPath, cfg, false))

	loaded, err := LoadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.1"}, loaded.Peers)
	assert.Equal(t, "web.", loaded.HostnamePrefix)
	assert.Equal(t, DefaultIndexOffset, loaded.IndexOffset)
}

func TestCreate_RejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := Create(configPath, Default(), false)
	require.Error(t, err)

	_, statErr := os.Stat(configPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreate_Existing(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configPath, "10.0.0.1")

	cfg := Default()
	cfg.Peers = []string{"10.0.0.2"}

	err := Create(configPath, cfg, false)
	require.ErrorIs(t, err, os.ErrExist)

	loaded, err := LoadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, loaded.Peers)

	require.NoError(t, Create(configPath, cfg, true))
	loaded, err = LoadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.2"}, loaded.Peers)
}

func TestManager_Watch(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	writeConfig(t, configPath, "10.0.0.1")

	manager := NewManager(configPath)
	require.NoError(t, manager.Load())

	changeCh := make(chan *Config, 4)
	errCh := make(chan error, 4)
	err := manager.Watch(func(cfg *Config) {
		select {
		case changeCh <- cfg:
		default:
		}
	}, func(err error) {
		// Truncation can surface a half-written file; later events catch up.
		select {
		case errCh <- err:
		default:
		}
	})
	require.NoError(t, err)
	defer manager.Stop()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "other.yaml"), []byte("x"), 0644))

	require.NoError(t, os.WriteFile(configPath, []byte("peers: [10.0.0.1, 10.0.0.2]\n"), 0644))

	select {
	case cfg := <-changeCh:
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Peers)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestManager_Stop_Twice(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	manager.Stop()
	assert.NotPanics(t, manager.Stop)
}
