package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/nbrbbot/core/config"
	coretelegram "github.com/m3rciful/nbrbbot/core/telegram"
)

type fakeApp struct {
	closed bool
}

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, nil
}

func (a *fakeApp) Close() error {
	a.closed = true
	return nil
}

func TestRunWiresLifecycle(t *testing.T) {
	t.Setenv("NBRB_TEST_CONFIG", "config.yaml")
	app := &fakeApp{}
	var (
		loadedPath     string
		loggerShutdown bool
		hooks          []string
	)

	err := Run(Options{
		ConfigEnvVar: "NBRB_TEST_CONFIG",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedPath = path
			return &coreconfig.Config{}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return app, nil
		},
		ShutdownLogger: func() error {
			loggerShutdown = true
			return nil
		},
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			rt := coretelegram.Runtime{}
			require.NoError(t, opts.OnStart(ctx, rt))
			hooks = append(hooks, "start")
			require.NoError(t, opts.OnStop(ctx, rt))
			hooks = append(hooks, "stop")
			return nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "config.yaml", loadedPath)
	assert.Equal(t, []string{"start", "stop"}, hooks)
	assert.True(t, app.closed)
	assert.True(t, loggerShutdown)
}

func TestRunErrors(t *testing.T) {
	assert.Error(t, Run(Options{}))

	t.Setenv("CONFIG_PATH", "")
	err := Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return nil, nil },
		Bootstrap:  func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	assert.ErrorContains(t, err, "config path not provided")

	boom := errors.New("boom")
	err = Run(Options{
		DefaultConfigPath: "x.yaml",
		LoadConfig:        func(string) (ConfigCarrier, error) { return nil, boom },
		Bootstrap:         func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	assert.ErrorIs(t, err, boom)
}

func TestConfigPathResolution(t *testing.T) {
	t.Setenv("NBRB_TEST_CONFIG", "")
	p, err := Options{ConfigEnvVar: "NBRB_TEST_CONFIG", DefaultConfigPath: "default.yaml"}.configPath()
	require.NoError(t, err)
	assert.Equal(t, "default.yaml", p)

	t.Setenv("NBRB_TEST_CONFIG", "/etc/nbrbbot.yaml")
	p, err = Options{ConfigEnvVar: "NBRB_TEST_CONFIG", DefaultConfigPath: "default.yaml"}.configPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/nbrbbot.yaml", p)
}

func TestLifecycleHookErrorStopsChain(t *testing.T) {
	boom := errors.New("boom")
	opts := coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { return boom },
	}
	withLifecycleLogs(&opts, time.Now())

	assert.ErrorIs(t, opts.OnStart(context.Background(), coretelegram.Runtime{}), boom)
	assert.NoError(t, opts.OnStop(context.Background(), coretelegram.Runtime{}))
}
