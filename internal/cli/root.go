// Package cli implements the bookctl command line client.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"book-discovery-service/internal/config"
	"book-discovery-service/internal/domain"
	"book-discovery-service/internal/infra/provider/registry"
	"book-discovery-service/internal/logger"
)

// Options holds the global flags.
type Options struct {
	ConfigPath string
	Output     string
	Verbose    bool
}

// Env is what every subcommand runs against.
type Env struct {
	Config       *config.Config
	Logger       *logger.Logger
	Catalog      domain.Catalog
	Encyclopedia domain.Encyclopedia
}

// EnvLoader builds an Env from the global flags. Logs go to stderr.
type EnvLoader func(opts Options, stderr io.Writer) (*Env, error)

// DefaultLoader loads configuration the same way the API server does and
// talks to the configured upstreams.
func DefaultLoader(opts Options, stderr io.Writer) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewCLI(stderr, opts.Verbose)
	providers := registry.New(cfg, log.Logger)

	return &Env{
		Config:       cfg,
		Logger:       log,
		Catalog:      providers.Catalog,
		Encyclopedia: providers.Encyclopedia,
	}, nil
}

// runtime is shared by all subcommands of one root command.
type runtime struct {
	opts   Options
	load   EnvLoader
	env    *Env
	format Format
}

// setup parses the global flags and loads the Env once.
func (rt *runtime) setup(cmd *cobra.Command) error {
	if rt.env != nil {
		return nil
	}

	format, err := ParseFormat(rt.opts.Output)
	if err != nil {
		return err
	}

	env, err := rt.load(rt.opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	rt.format = format
	rt.env = env
	return nil
}

// NewRootCmd builds the bookctl command tree.
func NewRootCmd(load EnvLoader) *cobra.Command {
	rt := &runtime{load: load}

	cmd := &cobra.Command{
		Use:           "bookctl",
		Short:         "Search and browse the Open Library catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if rt.env != nil && rt.env.Logger != nil {
				_ = rt.env.Logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&rt.opts.ConfigPath, "config", "c", "", "config file (default ./config/config.yaml)")
	flags.StringVarP(&rt.opts.Output, "output", "o", string(FormatText), "output format: text, json or yaml")
	flags.BoolVarP(&rt.opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(
		newSearchCmd(rt),
		newSuggestCmd(rt),
		newBookCmd(rt),
		newAuthorCmd(rt),
		newRecentCmd(rt),
		newBrowseCmd(rt),
	)

	return cmd
}
