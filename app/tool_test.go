package app_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moss-engine/moss/app"
	"github.com/moss-engine/moss/framework/config"
	"github.com/moss-engine/moss/framework/container"
)

func TestTool_Run(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no arguments",
			args: nil,
			want: "Moss Engine Example CLI Tool\nArguments: 0\n",
		},
		{
			name: "two arguments",
			args: []string{"build", "--fast"},
			want: "Moss Engine Example CLI Tool\nArguments: 2\n  [1] build\n  [2] --fast\n",
		},
		{
			name: "argument with spaces",
			args: []string{"hello world"},
			want: "Moss Engine Example CLI Tool\nArguments: 1\n  [1] hello world\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tool := app.NewTool(&out, config.Default(), zerolog.Nop())

			require.NoError(t, tool.Run(tt.args))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTool_Run_WriteError(t *testing.T) {
	tool := app.NewTool(failingWriter{}, config.Default(), zerolog.Nop())

	err := tool.Run([]string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write banner")
}

func TestToolServiceProvider_Deferred(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	container.RegisterInstance(c, config.Default())
	container.RegisterInstance(c, zerolog.Nop())

	var out bytes.Buffer
	require.NoError(t, reg.Register(&app.ToolServiceProvider{Out: &out}))
	require.NoError(t, reg.Boot())
	assert.False(t, c.Resolved(container.KeyOf[*config.Config]()), "deferred provider builds nothing at boot")

	tool, err := container.Resolve[*app.Tool](c)
	require.NoError(t, err)
	require.NoError(t, tool.Run([]string{"a"}))

	assert.Equal(t, "Moss Engine Example CLI Tool\nArguments: 1\n  [1] a\n", out.String())
	assert.True(t, c.Resolved(container.KeyOf[*config.Config]()))
}

func TestToolServiceProvider_MissingLogger(t *testing.T) {
	c := container.New()
	container.RegisterInstance(c, config.Default())
	(&app.ToolServiceProvider{}).Register(c)

	_, err := container.Resolve[*app.Tool](c)
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrUnregisteredType)

	var rerr *container.ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []container.Key{container.KeyOf[*app.Tool](), container.KeyOf[zerolog.Logger]()}, rerr.Chain)
}
