package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	kpool "github.com/picket-dev/picket/pkg/conn/db/postgres/pool"
	artdb "github.com/picket-dev/picket/pkg/domain/artifact/db"
	artpg "github.com/picket-dev/picket/pkg/domain/artifact/db/postgres"
	xe "github.com/picket-dev/picket/pkg/errors"
)

// Database bundles the postgres-backed stores of picket.
type Database interface {
	Artifacts() artdb.Interface

	// Init applies the schema. Safe to call on every start.
	Init(ctx context.Context) error

	Close() error
}

type pgDatabase struct {
	pool      *pgxpool.Pool
	artifacts artdb.Interface
}

func New(ctx context.Context, url string) (Database, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	p := kpool.Wrap(pool)
	return &pgDatabase{
		pool:      pool,
		artifacts: artpg.New(p),
	}, nil
}

func (d *pgDatabase) Artifacts() artdb.Interface {
	return d.artifacts
}

func (d *pgDatabase) Init(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (d *pgDatabase) Close() error {
	d.pool.Close()
	return nil
}

const schema = `
create table if not exists "artifact" (
	"id"           text primary key,
	"owner_id"     text not null,
	"path"         text not null unique,
	"display_name" text not null,
	"size_bytes"   bigint not null,
	"created_at"   timestamp with time zone not null
);

create index if not exists "artifact_created_at" on "artifact" ("created_at", "id");
create index if not exists "artifact_owner" on "artifact" ("owner_id", "created_at");
`
