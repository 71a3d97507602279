package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/queue-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/queue-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/queue-atlas/pkg/services/analytics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	globals  *commands.Globals
	analyzer *analytics.Analyzer
	reporter *export.Reporter
	output   io.Writer
	logger   zerolog.Logger
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Analyzer *analytics.Analyzer
	Output   io.Writer
	Logger   *zerolog.Logger
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analytics.NewAnalyzer()
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	cli := &CLI{
		globals:  &commands.Globals{},
		analyzer: opts.Analyzer,
		reporter: export.NewReporter(opts.Output),
		output:   opts.Output,
		logger:   logger,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx))
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Queue analytics, insights and recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.globals.ConfigPath, "config", "c", "", "Path to atlas.yaml")
	cmd.PersistentFlags().StringVar(&cli.globals.DepartmentsPath, "departments-file", "", "Path to departments.ini (overrides settings)")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.analyzer, cli.reporter))
	cmd.AddCommand(commands.NewFetchCmd(cli.globals, cli.analyzer, cli.reporter))
	cmd.AddCommand(commands.NewDepartmentsCmd(cli.globals, cli.output))
	cmd.AddCommand(commands.NewImportCmd(cli.globals, cli.output))

	return cmd
}
