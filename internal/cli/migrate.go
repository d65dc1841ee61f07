package cli

import (
	"streamhub-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the marketplace tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			db, err := openDB(rootOpts, cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			log.Info().Msg("Migration complete")
			return nil
		},
	}
}
