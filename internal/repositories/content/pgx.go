package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/internal/repositories"
	"github.com/planloop/content-planner/pkg/logger"
)

// PgxRepository is the remote document-store backend: one row per scope,
// the whole collection as a JSONB document plus a last-updated stamp.
// Writes touch only those two columns so unrelated fields of the row are
// preserved (merge semantics).
type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger,
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) LoadAll(ctx context.Context, scope domain.Scope) ([]domain.ContentRecord, LoadOutcome, error) {
	query, args, err := repositories.SqBuilder.
		Select("content").
		From("content_collections").
		Where("scope = ?", string(scope)).
		ToSql()
	if err != nil {
		return nil, LoadFailed, fmt.Errorf("build load query: %w", errors.Join(repositories.ErrBadQuery, err))
	}

	var raw []byte
	err = r.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, LoadEmpty, nil
		}
		// The cause travels with the outcome so the caller can tell a
		// failed load apart from "no records yet".
		return nil, LoadFailed, fmt.Errorf("load collection for scope %s: %w", scope, err)
	}

	var records []domain.ContentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, LoadFailed, fmt.Errorf("decode collection for scope %s: %w", scope, err)
	}

	if len(records) == 0 {
		return nil, LoadEmpty, nil
	}
	return records, LoadOK, nil
}

func (r *PgxRepository) SaveAll(ctx context.Context, scope domain.Scope, records []domain.ContentRecord) error {
	if records == nil {
		records = []domain.ContentRecord{}
	}

	buf, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection for scope %s: %w", scope, err)
	}

	query, args, err := repositories.SqBuilder.
		Insert("content_collections").
		Columns("scope", "content", "last_updated").
		Values(string(scope), buf, time.Now()).
		Suffix("ON CONFLICT (scope) DO UPDATE SET content = EXCLUDED.content, last_updated = EXCLUDED.last_updated").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", errors.Join(repositories.ErrBadQuery, err))
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save collection for scope %s: %w", scope, errors.Join(ErrCannotSave, err))
	}

	return nil
}

// Scopes lists every scope with a remotely stored collection.
func (r *PgxRepository) Scopes(ctx context.Context) ([]domain.Scope, error) {
	query, args, err := repositories.SqBuilder.
		Select("scope").
		From("content_collections").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scopes query: %w", errors.Join(repositories.ErrBadQuery, err))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list remote scopes: %w", err)
	}
	defer rows.Close()

	var scopes []domain.Scope
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan scope row: %w", err)
		}
		scopes = append(scopes, domain.Scope(s))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scope rows: %w", err)
	}

	return scopes, nil
}
