package postgres

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS facilities (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	slug                  TEXT NOT NULL UNIQUE,
	type                  TEXT NOT NULL,
	type_slug             TEXT NOT NULL,
	address               TEXT,
	city                  TEXT NOT NULL,
	county                TEXT,
	region                TEXT NOT NULL,
	region_abbr           TEXT NOT NULL,
	postal_code           TEXT,
	country               TEXT NOT NULL DEFAULT '',
	latitude              DOUBLE PRECISION,
	longitude             DOUBLE PRECISION,
	phone                 TEXT,
	email                 TEXT,
	website               TEXT,
	description           TEXT,
	amenities             TEXT[],
	year_established      TEXT,
	opening_hours         TEXT,
	has_emergency_service BOOLEAN NOT NULL DEFAULT FALSE,
	rating                DOUBLE PRECISION,
	review_count          INTEGER,
	photo                 TEXT,
	photos                TEXT[],
	status                TEXT NOT NULL DEFAULT 'pending',
	rejection_reason      TEXT,
	source                TEXT,
	discovered_at         TIMESTAMPTZ,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_facilities_status ON facilities (status);
CREATE INDEX IF NOT EXISTS idx_facilities_region ON facilities (LOWER(region));
CREATE INDEX IF NOT EXISTS idx_facilities_region_abbr ON facilities (LOWER(region_abbr));
CREATE INDEX IF NOT EXISTS idx_facilities_city ON facilities (city);
CREATE INDEX IF NOT EXISTS idx_facilities_type_slug ON facilities (type_slug);

CREATE TABLE IF NOT EXISTS business_claims (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT,
	facility_id         TEXT NOT NULL,
	facility_slug       TEXT NOT NULL,
	facility_name       TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'pending',
	job_title           TEXT,
	company_name        TEXT,
	message             TEXT,
	verification_method TEXT,
	contact_email       TEXT NOT NULL,
	contact_phone       TEXT,
	admin_notes         TEXT,
	rejection_reason    TEXT,
	reviewed_at         TIMESTAMPTZ,
	reviewed_by         TEXT,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_business_claims_status ON business_claims (status);

CREATE TABLE IF NOT EXISTS feedback (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	rating      INTEGER,
	message     TEXT,
	page_title  TEXT,
	page_url    TEXT,
	user_agent  TEXT,
	ip_address  TEXT,
	status      TEXT NOT NULL DEFAULT 'new',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// RunMigrations creates the tables and indexes when they do not exist yet
func (c *Client) RunMigrations(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Msg("database schema is up to date")
	return nil
}
