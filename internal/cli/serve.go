package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Flyrell/evdash/internal/api"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = LeafCommand{
	Use:   "serve",
	Short: "Serve the REST API",
	Args:  cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "addr", Shorthand: "a", Usage: "listen address (default from config, 0.0.0.0:4000)"},
		{Name: "origin", Usage: "allowed CORS origin (default from config)"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		origin, _ := cmd.Flags().GetString("origin")
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, env, addr, origin)
	}),
}.Build()

// newServer builds the API for env, with flag values overriding the config.
func newServer(env *appEnv, addr, origin string) *api.Server {
	if addr == "" {
		addr = env.cfg.API.Addr
	}
	if origin == "" {
		origin = env.cfg.API.ClientOrigin
	}
	return api.New(env.store, api.Options{
		Addr:         addr,
		ClientOrigin: origin,
		Logger:       logging.Default(),
		Now:          env.now,
	})
}

func runServe(ctx context.Context, env *appEnv, addr, origin string) error {
	srv := newServer(env, addr, origin)
	logging.Default().Info("starting api",
		logging.F("addr", srv.Addr()),
		logging.F("data_dir", env.store.Dir()),
	)
	return srv.Start(ctx)
}
