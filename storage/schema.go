package storage

// Schema is the PostgreSQL DDL for all dashboard tables. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS admindash_users (
    id                BIGINT PRIMARY KEY,
    name              TEXT NOT NULL,
    email             TEXT NOT NULL,
    role              TEXT NOT NULL,
    status            TEXT NOT NULL,
    registration_date DATE NOT NULL
);

CREATE TABLE IF NOT EXISTS admindash_products (
    id          BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price       DOUBLE PRECISION NOT NULL,
    stock       INTEGER NOT NULL,
    status      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS admindash_settings (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admindash_activity (
    id         UUID PRIMARY KEY,
    kind       TEXT NOT NULL,
    entity     TEXT NOT NULL,
    entity_id  BIGINT NOT NULL DEFAULT 0,
    summary    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS admindash_activity_created_at_idx
    ON admindash_activity (created_at DESC);

CREATE TABLE IF NOT EXISTS admindash_metrics (
    metric     TEXT NOT NULL,
    period     TEXT NOT NULL,
    value      DOUBLE PRECISION NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (metric, period)
);

CREATE TABLE IF NOT EXISTS admindash_leader (
    name       TEXT PRIMARY KEY,
    leader_id  TEXT NOT NULL,
    elected_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
`

// Tables lists the dashboard tables in dependency order.
var Tables = []string{
	"admindash_users",
	"admindash_products",
	"admindash_settings",
	"admindash_activity",
	"admindash_metrics",
	"admindash_leader",
}
