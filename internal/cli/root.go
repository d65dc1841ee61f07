package cli

import (
	"os"
	"time"

	"streamhub-backend/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Pretty bool
	SQLite string

	// Config overrides config.Load (for tests).
	Config *config.Config
}

// NewRootCommand creates the marketd command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marketd",
		Short: "StreamHub marketplace backend",
		Long:  "Runs and maintains the StreamHub livestream-support marketplace API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel, opts.Pretty)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "human-readable console logs")
	cmd.PersistentFlags().StringVar(&opts.SQLite, "sqlite", "", "use a SQLite file instead of Postgres")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func (o *RootOptions) config() (*config.Config, error) {
	if o.Config != nil {
		return o.Config, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	o.Config = cfg
	return cfg, nil
}

func setupLogging(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
