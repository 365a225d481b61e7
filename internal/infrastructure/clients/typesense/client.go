package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/MarvinNL046/vindelektricien-sub000/pkg/config"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/retry"
)

// Client represents a Typesense client
type Client struct {
	client     *typesense.Client
	collection string
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		log.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("connected to Typesense")
	return &Client{client: client, collection: cfg.Collection}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// Collection returns the name of the facility collection
func (c *Client) Collection() string {
	return c.collection
}

// InitSchema ensures the facility collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := c.client.Collection(c.collection).Retrieve(ctx); err == nil {
		log.Debug().Str("collection", c.collection).Msg("typesense collection already exists")
		return nil
	}

	schema := &api.CollectionSchema{
		Name: c.collection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "slug", Type: "string", Index: pointer.False()},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "region", Type: "string", Facet: pointer.True()},
			{Name: "region_abbr", Type: "string"},
			{Name: "type", Type: "string", Optional: pointer.True()},
			{Name: "type_slug", Type: "string", Facet: pointer.True()},
			{Name: "address", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "photo", Type: "string", Optional: pointer.True(), Index: pointer.False()},
			{Name: "rating", Type: "float", Optional: pointer.True()},
			{Name: "review_count", Type: "int32"},
		},
		DefaultSortingField: pointer.String("review_count"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", c.collection).Msg("created typesense collection")
	return nil
}

// DropCollection removes the facility collection and all its documents
func (c *Client) DropCollection(ctx context.Context) error {
	if _, err := c.client.Collection(c.collection).Delete(ctx); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}
