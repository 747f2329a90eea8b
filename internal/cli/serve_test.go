package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewServerUsesConfig(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.API.Addr = "127.0.0.1:4100"

	assert.Equal(t, "127.0.0.1:4100", newServer(env, "", "").Addr())
	assert.Equal(t, "127.0.0.1:9", newServer(env, "127.0.0.1:9", "").Addr())
}

func TestRunServeStopsOnCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, runServe(ctx, env, "127.0.0.1:0", ""))
}

func TestRunServeBadAddr(t *testing.T) {
	env := newTestEnv(t)

	assert.Error(t, runServe(context.Background(), env, "256.0.0.1:bad", ""))
}
