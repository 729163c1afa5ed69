// Package app holds the example command-line tool built on the framework.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/moss-engine/moss/framework/config"
	"github.com/moss-engine/moss/framework/container"
)

const banner = "Moss Engine Example CLI Tool"

// Tool reports the arguments it was started with.
type Tool struct {
	out io.Writer
	env string
	log zerolog.Logger
}

// NewTool returns a Tool writing to out.
func NewTool(out io.Writer, cfg *config.Config, log zerolog.Logger) *Tool {
	return &Tool{out: out, env: cfg.App.Env, log: log}
}

// Run prints the banner, the argument count and each argument with its
// 1-based index.
func (t *Tool) Run(args []string) error {
	t.log.Debug().Int("args", len(args)).Str("env", t.env).Msg("tool started")

	if _, err := fmt.Fprintln(t.out, banner); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}
	if _, err := fmt.Fprintf(t.out, "Arguments: %d\n", len(args)); err != nil {
		return fmt.Errorf("write argument count: %w", err)
	}
	for i, arg := range args {
		if _, err := fmt.Fprintf(t.out, "  [%d] %s\n", i+1, arg); err != nil {
			return fmt.Errorf("write argument %d: %w", i+1, err)
		}
	}
	return nil
}

// ToolServiceProvider binds *Tool. It is deferred: nothing is built until the
// tool is resolved.
type ToolServiceProvider struct {
	container.BaseProvider
	// Out defaults to stdout.
	Out io.Writer
}

func (p *ToolServiceProvider) Register(app *container.Container) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	container.RegisterFactory(app, func(c *container.Container) (*Tool, error) {
		cfg, err := container.Resolve[*config.Config](c)
		if err != nil {
			return nil, err
		}
		log, err := container.Resolve[zerolog.Logger](c)
		if err != nil {
			return nil, err
		}
		return NewTool(out, cfg, log.With().Str("tool", "example").Logger()), nil
	})
}

func (p *ToolServiceProvider) IsDeferred() bool { return true }

func (p *ToolServiceProvider) Provides() []container.Key {
	return []container.Key{container.KeyOf[*Tool]()}
}
