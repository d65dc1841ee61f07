package cli

import (
	"streamhub-backend/internal/config"
	"streamhub-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// openDB opens the SQLite file when --sqlite is set, Postgres otherwise.
func openDB(opts *RootOptions, cfg *config.Config) (*gorm.DB, error) {
	if opts.SQLite != "" {
		log.Info().Str("path", opts.SQLite).Msg("Opening SQLite database")
		return database.OpenSQLite(opts.SQLite)
	}
	log.Info().Str("env", cfg.Env).Msg("Opening Postgres database")
	return database.Open(cfg.DatabaseURL)
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("Database close failed")
	}
}
