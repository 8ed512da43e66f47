package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/field"
)

// ─── FieldRepository ───

type fieldRepo struct{ pool *pgxpool.Pool }

const fieldColumns = `id, handle, name, type, context, translatable, sort_order`

func scanField(row pgx.Row) (*field.Field, error) {
	var (
		f  field.Field
		fc string
	)
	if err := row.Scan(&f.ID, &f.Handle, &f.Name, &f.Type, &fc, &f.Translatable, &f.SortOrder); err != nil {
		return nil, err
	}
	f.Context = field.Context(fc)
	return &f, nil
}

func (r *fieldRepo) ByID(ctx context.Context, id int64) (*field.Field, error) {
	const query = `SELECT ` + fieldColumns + ` FROM fields WHERE id = $1`
	f, err := scanField(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return f, err
}

func (r *fieldRepo) ByHandle(ctx context.Context, handle string, fc field.Context) (*field.Field, error) {
	const query = `SELECT ` + fieldColumns + ` FROM fields WHERE handle = $1 AND context = $2`
	f, err := scanField(r.pool.QueryRow(ctx, query, handle, fc.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return f, err
}

func (r *fieldRepo) ByContexts(ctx context.Context, contexts []field.Context) ([]*field.Field, error) {
	if len(contexts) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(contexts))
	for _, c := range contexts {
		names = append(names, c.String())
	}
	// Mismo orden que los contextos pedidos, luego sort_order.
	const query = `
		SELECT ` + fieldColumns + `
		FROM fields f
		JOIN unnest($1::text[]) WITH ORDINALITY AS q(context, ord) USING (context)
		ORDER BY q.ord, f.sort_order, f.id
	`
	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*field.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ─── RelationRepository ───

type relationRepo struct{ pool *pgxpool.Pool }

func (r *relationRepo) Pairs(ctx context.Context, fieldID int64, sourceIDs []int64) ([]element.Pair, error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}
	const query = `
		SELECT r.source_id, r.target_id
		FROM relations r
		JOIN unnest($2::bigint[]) WITH ORDINALITY AS q(source_id, ord) USING (source_id)
		WHERE r.field_id = $1
		ORDER BY q.ord, r.sort_order
	`
	rows, err := r.pool.Query(ctx, query, fieldID, sourceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []element.Pair
	for rows.Next() {
		var p element.Pair
		if err := rows.Scan(&p.Source, &p.Target); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
