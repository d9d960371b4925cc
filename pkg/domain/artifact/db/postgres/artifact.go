package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	kpool "github.com/picket-dev/picket/pkg/conn/db/postgres/pool"
	"github.com/picket-dev/picket/pkg/domain"
	artdb "github.com/picket-dev/picket/pkg/domain/artifact/db"
	xe "github.com/picket-dev/picket/pkg/errors"
)

type pgArtifact struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) artdb.Interface {
	return &pgArtifact{pool: pool}
}

func (a *pgArtifact) Register(ctx context.Context, artifact domain.Artifact) (domain.Artifact, error) {
	artifact.Id = uuid.NewString()

	_, err := a.pool.Exec(
		ctx,
		`
		insert into "artifact"
			("id", "owner_id", "path", "display_name", "size_bytes", "created_at")
		values
			($1, $2, $3, $4, $5, $6)
		`,
		artifact.Id, artifact.OwnerId, artifact.Path,
		artifact.DisplayName, artifact.SizeBytes, artifact.CreatedAt,
	)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation {
			return domain.Artifact{}, fmt.Errorf(
				"%w: artifact at path %s", domain.ErrConflict, artifact.Path,
			)
		}
		return domain.Artifact{}, xe.Wrap(err)
	}
	return artifact, nil
}

func (a *pgArtifact) Get(ctx context.Context, id string) (domain.Artifact, error) {
	artifact := domain.Artifact{}
	err := a.pool.QueryRow(
		ctx,
		`
		select "id", "owner_id", "path", "display_name", "size_bytes", "created_at"
		from "artifact" where "id" = $1
		`,
		id,
	).Scan(
		&artifact.Id, &artifact.OwnerId, &artifact.Path,
		&artifact.DisplayName, &artifact.SizeBytes, &artifact.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Artifact{}, fmt.Errorf("%w: artifact %s", domain.ErrMissing, id)
	}
	if err != nil {
		return domain.Artifact{}, xe.Wrap(err)
	}
	return artifact, nil
}

func (a *pgArtifact) ListByOwner(ctx context.Context, ownerId string) ([]domain.Artifact, error) {
	rows, err := a.pool.Query(
		ctx,
		`
		select "id", "owner_id", "path", "display_name", "size_bytes", "created_at"
		from "artifact"
		where "owner_id" = $1
		order by "created_at" desc, "id" desc
		`,
		ownerId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (a *pgArtifact) Delete(ctx context.Context, id string) error {
	tag, err := a.pool.Exec(ctx, `delete from "artifact" where "id" = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: artifact %s", domain.ErrMissing, id)
	}
	return nil
}

func (a *pgArtifact) FindOlderThan(
	ctx context.Context, cutoff time.Time, cursor artdb.Cursor, limit int,
) ([]domain.Artifact, artdb.Cursor, error) {
	rows, err := a.pool.Query(
		ctx,
		`
		select "id", "owner_id", "path", "display_name", "size_bytes", "created_at"
		from "artifact"
		where "created_at" < $1
		  and ("created_at", "id") > ($2, $3)
		order by "created_at", "id"
		limit $4
		`,
		cutoff, cursor.CreatedAt, cursor.Id, limit,
	)
	if err != nil {
		return nil, cursor, xe.Wrap(err)
	}
	defer rows.Close()

	page, err := scanAll(rows)
	if err != nil {
		return nil, cursor, err
	}

	next := cursor
	if 0 < len(page) {
		last := page[len(page)-1]
		next = artdb.Cursor{CreatedAt: last.CreatedAt, Id: last.Id}
	}
	return page, next, nil
}

func (a *pgArtifact) CountOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	count := 0
	err := a.pool.QueryRow(
		ctx, `select count(*) from "artifact" where "created_at" < $1`, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	return count, nil
}

func scanAll(rows pgx.Rows) ([]domain.Artifact, error) {
	found := []domain.Artifact{}
	for rows.Next() {
		artifact := domain.Artifact{}
		if err := rows.Scan(
			&artifact.Id, &artifact.OwnerId, &artifact.Path,
			&artifact.DisplayName, &artifact.SizeBytes, &artifact.CreatedAt,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		found = append(found, artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return found, nil
}
