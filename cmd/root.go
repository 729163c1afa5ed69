package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moss-engine/moss/app"
	kernel "github.com/moss-engine/moss/framework/app"
	"github.com/moss-engine/moss/framework/container"
)

type options struct {
	cfgPath  string
	envFiles []string
}

// Execute runs the CLI.
func Execute() error { return newRootCmd().Execute() }

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "moss [args...]",
		Short: "Moss Engine example tool",
		Long: "Prints the arguments it was started with. Arguments starting with a dash\n" +
			"must follow --, e.g. moss -- -v.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, opts, args)
		},
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.PersistentFlags().StringArrayVar(&opts.envFiles, "env-file", nil, "dotenv file to load, repeatable (default .env)")

	root.AddCommand(newInspectCmd(opts))
	return root
}

// bootstrap builds and boots the application with the example tool registered.
// Logs go to the command's error stream.
func bootstrap(cmd *cobra.Command, opts *options) (*kernel.Application, error) {
	application, err := kernel.New(kernel.Options{
		ConfigPath: opts.cfgPath,
		EnvFiles:   opts.envFiles,
		LogWriter:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	if err := application.Register(&app.ToolServiceProvider{Out: cmd.OutOrStdout()}); err != nil {
		return nil, fmt.Errorf("register tool: %w", err)
	}
	if err := application.Boot(); err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	return application, nil
}

func runTool(cmd *cobra.Command, opts *options, args []string) error {
	application, err := bootstrap(cmd, opts)
	if err != nil {
		return err
	}
	tool, err := container.Resolve[*app.Tool](application.Container)
	if err != nil {
		return err
	}
	return tool.Run(args)
}
