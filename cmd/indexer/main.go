package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/database"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/search"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/postgres"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/typesense"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/observability"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "drop the Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("facility-indexer", cfg.Log.Environment, cfg.Log.Level)

	interval, err := parseInterval(intervalFlag, os.Getenv("REINDEX_INTERVAL"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid interval")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Typesense client")
	}

	facilityRepo := database.NewFacilityAdapter(pgClient, nil)
	index := search.NewTypesenseAdapter(tsClient)

	for {
		if err := indexOnce(ctx, tsClient, facilityRepo, index, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("interval", interval).Msg("reindex complete, waiting for next run")

		select {
		case <-ctx.Done():
			log.Info().Msg("indexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

// parseInterval prefers the flag over the environment. An empty value
// means run once.
func parseInterval(flagValue, envValue string) (time.Duration, error) {
	value := strings.TrimSpace(flagValue)
	if value == "" {
		value = strings.TrimSpace(envValue)
	}
	if value == "" {
		return 0, nil
	}

	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if interval <= 0 {
		return 0, errNonPositiveInterval
	}
	return interval, nil
}

var errNonPositiveInterval = errors.New("interval must be greater than zero")

// schemaManager is the part of the Typesense client the indexer drives
type schemaManager interface {
	InitSchema(ctx context.Context) error
	DropCollection(ctx context.Context) error
}

// indexOnce writes every active facility to the suggestion index. Listings
// that are no longer active are removed so they stop appearing in
// suggestions.
func indexOnce(ctx context.Context, schema schemaManager, repo repositories.FacilityRepository, index repositories.FacilitySearchRepository, reset bool) error {
	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("dropping suggestion collection before reindex")
		if err := schema.DropCollection(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to drop collection")
		}
	}

	if err := schema.InitSchema(ctx); err != nil {
		return err
	}

	facilities, err := repo.List(ctx, repositories.FacilityFilter{})
	if err != nil {
		return err
	}

	started := time.Now()
	var indexed, removed, failed int
	for _, f := range facilities {
		if err := ctx.Err(); err != nil {
			return err
		}

		if f.Status != entities.FacilityStatusActive {
			if err := index.Delete(ctx, f.ID); err == nil {
				removed++
			}
			continue
		}

		if err := index.Index(ctx, f); err != nil {
			failed++
			log.Warn().Err(err).Str("facility_id", f.ID).Msg("failed to index facility")
			continue
		}
		indexed++
	}

	log.Info().
		Int("indexed", indexed).
		Int("removed", removed).
		Int("failed", failed).
		Dur("duration", time.Since(started)).
		Msg("indexing complete")
	return nil
}
