package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/database"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/events"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/reference"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/search"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/postgres"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/redis"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/typesense"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/observability"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/config"
)

func main() {
	var (
		file   string
		dryRun bool
	)
	flag.StringVar(&file, "file", "", "JSON file with facility records (array or one object per line); - reads stdin")
	flag.BoolVar(&dryRun, "dry-run", false, "parse the records and report the count without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("facility-importer", cfg.Log.Environment, cfg.Log.Level)

	if file == "" {
		log.Fatal().Msg("-file is required")
	}

	records, err := loadRecords(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("failed to read records")
	}
	log.Info().Int("records", len(records)).Str("file", file).Msg("records loaded")
	if dryRun {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Publishing lets running API instances drop their cached listings
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, import events are not published")
		} else {
			defer redisClient.Close()
			eventBus = events.NewRedisEventBus(redisClient)
			defer eventBus.Close()
		}
	}

	var searchRepo repositories.FacilitySearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, run the indexer afterwards")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema, run the indexer afterwards")
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
		}
	}

	importer := services.NewImportService(
		database.NewFacilityAdapter(pgClient, nil),
		reference.NewFileAdapter(cfg.Reference.Dir),
		searchRepo,
		eventBus,
	)

	result, err := importer.Import(ctx, records)
	if result != nil {
		for _, msg := range result.Errors {
			log.Warn().Msg(msg)
		}
		log.Info().
			Int("created", result.Created).
			Int("merged", result.Merged).
			Int("unchanged", result.Unchanged).
			Int("failed", result.Failed).
			Msg("import finished")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("import aborted")
	}
}

func loadRecords(file string) ([]*entities.Facility, error) {
	if file == "-" {
		return readRecords(os.Stdin)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRecords(f)
}

// readRecords accepts a JSON array of facilities or one facility object per
// line. Blank lines are skipped.
func readRecords(r io.Reader) ([]*entities.Facility, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return []*entities.Facility{}, nil
		}
		return nil, err
	}

	if first == '[' {
		var records []*entities.Facility
		if err := json.NewDecoder(br).Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode facility array: %w", err)
		}
		return records, nil
	}

	records := make([]*entities.Facility, 0)
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var f entities.Facility
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, &f)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
		default:
			return b[0], nil
		}
	}
}
