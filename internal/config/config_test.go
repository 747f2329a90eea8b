package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFileReturnsDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Read(home, Path(home))

	require.NoError(t, err)
	assert.Equal(t, Default(home), cfg)
	assert.Equal(t, filepath.Join(home, ".evdash", "data"), cfg.DataDir)
	assert.Equal(t, "0.0.0.0:4000", cfg.API.Addr)
	assert.Equal(t, "http://localhost:5173", cfg.API.ClientOrigin)
	assert.Equal(t, "week", cfg.Timeline.Granularity)
	assert.Equal(t, "file", cfg.Session.Backend)
}

func TestReadMergesPartialFile(t *testing.T) {
	home := t.TempDir()
	path := Path(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("api:\n  addr: 127.0.0.1:9000\nlog:\n  format: json\n"), 0644))

	cfg, err := Read(home, path)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.Addr)
	assert.Equal(t, DefaultClientOrigin, cfg.API.ClientOrigin)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestReadInvalidYAML(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0644))

	_, err := Read(home, path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default("/home/ev")
	env := map[string]string{
		EnvDataDir:      "/srv/evdash",
		EnvAddr:         ":8080",
		EnvClientOrigin: "  ",
		EnvLogLevel:     "debug",
	}

	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "/srv/evdash", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, DefaultClientOrigin, cfg.API.ClientOrigin)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadUsesEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvAddr, "localhost:4100")

	cfg, err := Load(home, Path(home))

	require.NoError(t, err)
	assert.Equal(t, "localhost:4100", cfg.API.Addr)
}

func TestWriteThenRead(t *testing.T) {
	home := t.TempDir()
	cfg := Default(home)
	require.NoError(t, cfg.Set("session.backend", "keyring"))

	require.NoError(t, Write(Path(home), cfg))
	got, err := Read(home, Path(home))

	require.NoError(t, err)
	assert.Equal(t, "keyring", got.Session.Backend)
}

func TestGetSet(t *testing.T) {
	cfg := Default("/home/ev")

	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"api.addr", ":5000", false},
		{"log.level", "warn", false},
		{"log.level", "verbose", true},
		{"timeline.granularity", "month", false},
		{"timeline.granularity", "quarter", true},
		{"session.backend", "vault", true},
		{"nope", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	_, err := cfg.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestKeysSorted(t *testing.T) {
	keys := Default("/h").Keys()
	assert.Len(t, keys, 8)
	assert.Equal(t, "api.addr", keys[0])
	assert.Equal(t, "timeline.granularity", keys[len(keys)-1])
}

func TestSessionPath(t *testing.T) {
	cfg := Default("/home/ev")
	assert.Equal(t, filepath.Join("/home/ev", ".evdash", "data", "session.json"), cfg.SessionPath())
}
