package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/config"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/spf13/cobra"
)

// appEnv is everything a command needs: settings, storage and session.
type appEnv struct {
	cfg      *config.Config
	cfgPath  string
	store    *record.Store
	sessions *auth.SessionStore
	themes   *auth.ThemeStore
	now      func() time.Time
}

// newAppEnv wires the stores for cfg.
func newAppEnv(cfg *config.Config, cfgPath string) *appEnv {
	kv := sessionKV(cfg)
	return &appEnv{
		cfg:      cfg,
		cfgPath:  cfgPath,
		store:    record.NewStore(cfg.DataDir),
		sessions: auth.NewSessionStore(kv),
		themes:   auth.NewThemeStore(kv),
		now:      time.Now,
	}
}

func sessionKV(cfg *config.Config) auth.KV {
	if cfg.Session.Backend == "keyring" {
		return auth.NewKeyringKV(config.KeyringService)
	}
	return auth.NewFileKV(cfg.SessionPath())
}

// loadEnv reads the config named by --config (or the default location),
// initializes logging and applies the stored theme.
func loadEnv(cmd *cobra.Command) (*appEnv, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = config.Path(homeDir)
	}
	cfg, err := config.Load(homeDir, cfgPath)
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.Log.Level = "debug"
	}
	if _, err := logging.Init(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: debug,
	}); err != nil {
		return nil, err
	}

	env := newAppEnv(cfg, cfgPath)
	applyTheme(env.themes.Load())
	logging.Default().Debug("environment loaded",
		logging.F("config", cfgPath),
		logging.F("data_dir", cfg.DataDir),
		logging.F("session_backend", cfg.Session.Backend),
	)
	return env, nil
}

// authorize checks the signed-in role against action.
func (e *appEnv) authorize(action auth.Action) error {
	role := e.sessions.Role()
	if err := auth.Authorize(role, action); err != nil {
		if e.sessions.Load() == nil {
			return fmt.Errorf("%w (not signed in; run 'evdash login')", err)
		}
		return err
	}
	return nil
}

// withEnv adapts a run function that needs an appEnv into a cobra RunE.
func withEnv(run func(cmd *cobra.Command, env *appEnv, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return run(cmd, env, args)
	}
}
