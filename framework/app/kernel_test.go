package app_test

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moss-engine/moss/framework/app"
	"github.com/moss-engine/moss/framework/config"
	"github.com/moss-engine/moss/framework/container"
	"github.com/moss-engine/moss/framework/inspect"
)

var envVars = []string{"APP_NAME", "APP_ENV", "APP_DEBUG", "LOG_LEVEL", "LOG_FORMAT", "INSPECT_ADDR"}

func newApp(t *testing.T, env map[string]string) (*app.Application, *bytes.Buffer) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	var buf bytes.Buffer
	application, err := app.New(app.Options{
		EnvFiles:  []string{filepath.Join(t.TempDir(), "missing.env")},
		LogWriter: &buf,
	})
	require.NoError(t, err)
	return application, &buf
}

func TestNew_RegistersFrameworkKeys(t *testing.T) {
	application, _ := newApp(t, nil)

	for _, key := range []container.Key{
		container.KeyOf[*config.Config](),
		container.KeyOf[*inspect.Recorder](),
		container.KeyOf[*inspect.Handler](),
	} {
		assert.True(t, application.Bound(key), key.String())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Setenv("APP_ENV", "staging")

	_, err := app.New(app.Options{EnvFiles: []string{filepath.Join(t.TempDir(), "missing.env")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestNew_ConfigFile(t *testing.T) {
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "moss.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: FromFile\n"), 0o600))

	application, err := app.New(app.Options{
		ConfigPath: path,
		EnvFiles:   []string{filepath.Join(t.TempDir(), "missing.env")},
		LogWriter:  &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Equal(t, "FromFile", application.Config().App.Name)
}

func TestEnvironmentPredicates(t *testing.T) {
	tests := []struct {
		env        string
		local      bool
		production bool
		testing    bool
	}{
		{"local", true, false, false},
		{"production", false, true, false},
		{"testing", false, false, true},
		{"dev", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			application, _ := newApp(t, map[string]string{"APP_ENV": tt.env})
			assert.Equal(t, tt.env, application.Environment())
			assert.Equal(t, tt.local, application.IsLocal())
			assert.Equal(t, tt.production, application.IsProduction())
			assert.Equal(t, tt.testing, application.IsTesting())
		})
	}
}

func TestIsDebug(t *testing.T) {
	application, _ := newApp(t, map[string]string{"APP_DEBUG": "true"})
	assert.True(t, application.IsDebug())
	assert.NotEmpty(t, application.Version())
}

func TestBoot_LogsThroughContainerLogger(t *testing.T) {
	application, buf := newApp(t, map[string]string{"LOG_LEVEL": "debug"})
	require.NoError(t, application.Boot())

	assert.Contains(t, buf.String(), "application booted")
	assert.Contains(t, buf.String(), application.ID())
}

func TestLoggerAndRouter_AreSingletons(t *testing.T) {
	application, _ := newApp(t, nil)
	require.NoError(t, application.Boot())

	r1, err := application.Router()
	require.NoError(t, err)
	r2, err := application.Router()
	require.NoError(t, err)
	assert.Same(t, r1, r2)

	_, err = application.Logger()
	assert.NoError(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	application, buf := newApp(t, map[string]string{"INSPECT_ADDR": "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- application.Serve(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Contains(t, buf.String(), "inspector stopped")
}

func TestServe_ListenError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	addr := taken.Addr().String()
	application, _ := newApp(t, map[string]string{"INSPECT_ADDR": addr})

	err = application.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve "+addr)
}
