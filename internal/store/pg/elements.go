package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element"
)

// ─── ElementRepository ───

type elementRepo struct{ pool *pgxpool.Pool }

const elementColumns = `id, uid::text, type, enabled, locales, fresh_content, date_updated`

func scanElement(row pgx.Row, locale string) (*element.Record, error) {
	var (
		r       element.Record
		locales []byte
	)
	if err := row.Scan(&r.ID, &r.UID, &r.Type, &r.Enabled, &locales, &r.FreshContent, &r.DateUpdated); err != nil {
		return nil, err
	}
	if len(locales) > 0 {
		if err := json.Unmarshal(locales, &r.Locales); err != nil {
			return nil, fmt.Errorf("element %d locales: %w", r.ID, err)
		}
	}
	r.Locale = locale
	return &r, nil
}

func (r *elementRepo) ByID(ctx context.Context, id int64, locale string) (*element.Record, error) {
	const query = `SELECT ` + elementColumns + ` FROM elements WHERE id = $1`
	rec, err := scanElement(r.pool.QueryRow(ctx, query, id), locale)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return rec, err
}

func (r *elementRepo) ByIDs(ctx context.Context, ids []int64, locale string) ([]*element.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
		SELECT ` + elementColumns + `
		FROM elements e
		JOIN unnest($1::bigint[]) WITH ORDINALITY AS q(id, ord) USING (id)
		ORDER BY q.ord
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*element.Record
	for rows.Next() {
		rec, err := scanElement(rows, locale)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
