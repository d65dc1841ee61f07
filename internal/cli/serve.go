package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamhub-backend/internal/infrastructure/database"
	"streamhub-backend/internal/interfaces/router"
	"streamhub-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the marketplace HTTP API.

Postgres is selected by APP_ENV unless --sqlite is given, in which case the
SQLite file is migrated on startup. Sessions are read from REDIS_URL; without
it every request is anonymous.

Example:
  marketd serve --pretty
  marketd serve --sqlite ./dev.db --port 3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port (defaults to PORT)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	db, err := openDB(opts.RootOptions, cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)
	if opts.SQLite != "" {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = middleware.ConnectSessions(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, sessions and traffic stats unavailable")
		} else {
			log.Info().Msg("Redis connected")
		}
	} else {
		log.Warn().Msg("REDIS_URL not set, serving anonymous requests only")
	}

	app := router.New(cfg, db, rdb)
	port := opts.Port
	if port == "" {
		port = cfg.Port
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", port).Msg("Server running")
		errCh <- app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}
