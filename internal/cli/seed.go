package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"streamhub-backend/internal/application/policies/lifecycle"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/store"
	"streamhub-backend/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

// Fixture is a seed file: listings inserted as-is plus optional sessions.
type Fixture struct {
	Listings []FixtureListing `yaml:"listings"`
	Sessions []FixtureSession `yaml:"sessions,omitempty"`
}

type FixtureListing struct {
	Kind          string            `yaml:"kind"`
	OwnerID       string            `yaml:"owner_id"`
	Title         string            `yaml:"title"`
	Description   string            `yaml:"description"`
	Category      string            `yaml:"category"`
	PriceMin      float64           `yaml:"price_min"`
	PriceMax      float64           `yaml:"price_max"`
	Currency      string            `yaml:"currency,omitempty"`
	Status        string            `yaml:"status,omitempty"`
	Private       bool              `yaml:"private,omitempty"`
	Featured      bool              `yaml:"featured,omitempty"`
	Tags          []string          `yaml:"tags,omitempty"`
	AvailableDays []string          `yaml:"available_days,omitempty"`
	Contact       map[string]string `yaml:"contact,omitempty"`
}

// FixtureSession is written to Redis so a local client can act as that user.
type FixtureSession struct {
	SID    string `yaml:"sid"`
	UserID string `yaml:"user_id"`
	Role   string `yaml:"role"`
}

// LoadFixture reads and decodes a YAML seed file.
func LoadFixture(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &fx, nil
}

func (fl FixtureListing) toListing(defaultCurrency string) (*domain.Listing, error) {
	kind := domain.ListingKind(strings.ToLower(fl.Kind))
	owner, err := uuid.Parse(fl.OwnerID)
	if err != nil {
		return nil, domain.Invalid("owner_id", "must be a UUID")
	}
	status := domain.ListingPending
	if fl.Status != "" {
		status = domain.ListingStatus(strings.ToLower(fl.Status))
		if !status.Valid() {
			return nil, domain.Invalid("status", "unknown status "+fl.Status)
		}
	}
	currency := strings.ToUpper(fl.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	price := domain.PriceRange{Min: fl.PriceMin, Max: fl.PriceMax, Currency: currency}
	if err := lifecycle.ValidateListing(kind, lifecycle.ListingFields{
		Title:       fl.Title,
		Description: fl.Description,
		Category:    fl.Category,
		Price:       price,
		Days:        fl.AvailableDays,
	}); err != nil {
		return nil, err
	}
	contact := make(map[string]interface{}, len(fl.Contact))
	for k, v := range fl.Contact {
		contact[k] = v
	}
	return &domain.Listing{
		Kind:         kind,
		OwnerID:      owner,
		Title:        strings.TrimSpace(fl.Title),
		Description:  strings.TrimSpace(fl.Description),
		Category:     strings.TrimSpace(fl.Category),
		PriceRange:   price,
		IsPublic:     !fl.Private,
		Featured:     fl.Featured,
		Status:       status,
		Tags:         datatypes.JSONSlice[string](fl.Tags),
		Availability: domain.Availability{Days: datatypes.JSONSlice[string](fl.AvailableDays)},
		ContactInfo:  domain.JSONObject(contact),
	}, nil
}

// SeedListings inserts every fixture listing with a CREATED event, all in one
// transaction. Statuses are taken verbatim; no workflow gate runs.
func SeedListings(ctx context.Context, st *store.Store, fx *Fixture, defaultCurrency string) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0, len(fx.Listings))
	err := st.Tx(ctx, func(tx *store.Store) error {
		for i, fl := range fx.Listings {
			l, err := fl.toListing(defaultCurrency)
			if err != nil {
				return fmt.Errorf("listing %d: %w", i, err)
			}
			if err := tx.CreateListing(ctx, l); err != nil {
				return err
			}
			actor := domain.Caller{ID: l.OwnerID}
			if err := tx.AppendEvent(ctx, domain.NewEvent(domain.EntityListing, l.ID, l.ID, domain.EventCreated, actor, "", string(l.Status), map[string]interface{}{"seed": true})); err != nil {
				return err
			}
			out = append(out, *l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SeedSessions writes the fixture sessions to Redis.
func SeedSessions(ctx context.Context, rdb *redis.Client, fx *Fixture) error {
	for i, s := range fx.Sessions {
		id, err := uuid.Parse(s.UserID)
		if err != nil {
			return fmt.Errorf("session %d: %w", i, domain.Invalid("user_id", "must be a UUID"))
		}
		role := domain.ParseRole(s.Role)
		if role == "" || strings.TrimSpace(s.SID) == "" {
			return fmt.Errorf("session %d: %w", i, domain.Invalid("session", "sid and a known role are required"))
		}
		if err := middleware.StoreSession(ctx, rdb, s.SID, domain.Caller{ID: id, Role: role}); err != nil {
			return err
		}
	}
	return nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load listings and sessions from a YAML fixture",
		Long: `Load a YAML fixture into the database.

Listings are inserted with their fixture status. Sessions are written to
REDIS_URL when it is set and skipped otherwise.

Example:
  marketd seed --sqlite ./dev.db ./fixtures/demo.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			fx, err := LoadFixture(args[0])
			if err != nil {
				return err
			}
			db, err := openDB(rootOpts, cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			listings, err := SeedListings(ctx, store.New(db), fx, cfg.DefaultCurrency)
			if err != nil {
				return err
			}
			log.Info().Int("listings", len(listings)).Msg("Listings seeded")

			if len(fx.Sessions) == 0 {
				return nil
			}
			if cfg.RedisURL == "" {
				log.Warn().Int("sessions", len(fx.Sessions)).Msg("REDIS_URL not set, sessions skipped")
				return nil
			}
			rdb, err := middleware.ConnectSessions(cfg.RedisURL)
			if err != nil {
				return err
			}
			defer rdb.Close()
			if err := SeedSessions(ctx, rdb, fx); err != nil {
				return err
			}
			log.Info().Int("sessions", len(fx.Sessions)).Msg("Sessions seeded")
			return nil
		},
	}
}
