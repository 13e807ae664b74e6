package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS restaurants (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS endorsements (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS restaurant_endorsements (
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	endorsement_id BIGINT NOT NULL REFERENCES endorsements(id) ON DELETE CASCADE,
	PRIMARY KEY (restaurant_id, endorsement_id)
);

CREATE TABLE IF NOT EXISTS tables (
	id BIGSERIAL PRIMARY KEY,
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	capacity INT NOT NULL CHECK (capacity > 0)
);

CREATE TABLE IF NOT EXISTS diners (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dietary_restrictions (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS diner_dietary_restrictions (
	diner_id BIGINT NOT NULL REFERENCES diners(id) ON DELETE CASCADE,
	dietary_restriction_id BIGINT NOT NULL REFERENCES dietary_restrictions(id) ON DELETE CASCADE,
	PRIMARY KEY (diner_id, dietary_restriction_id)
);

CREATE TABLE IF NOT EXISTS reservations (
	id BIGSERIAL PRIMARY KEY,
	table_id BIGINT NOT NULL REFERENCES tables(id),
	starts_at TIMESTAMPTZ NOT NULL,
	reminded_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservation_diners (
	reservation_id BIGINT NOT NULL REFERENCES reservations(id),
	diner_id BIGINT NOT NULL REFERENCES diners(id),
	PRIMARY KEY (reservation_id, diner_id)
);

CREATE INDEX IF NOT EXISTS idx_tables_restaurant ON tables(restaurant_id);
CREATE INDEX IF NOT EXISTS idx_reservations_table_time ON reservations(table_id, starts_at);
CREATE INDEX IF NOT EXISTS idx_reservation_diners_diner ON reservation_diners(diner_id);
`

// Migrate applies the schema at startup. Statements are idempotent so the
// call is safe on every boot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
