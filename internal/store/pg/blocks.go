package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
)

// ─── BlockTypeRepository ───

type blockTypeRepo struct{ pool *pgxpool.Pool }

func (r *blockTypeRepo) ByFieldID(ctx context.Context, fieldID int64) ([]*matrix.BlockType, error) {
	const query = `
		SELECT id, field_id, name, handle, sort_order
		FROM matrix_block_types WHERE field_id = $1
		ORDER BY sort_order, id
	`
	rows, err := r.pool.Query(ctx, query, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*matrix.BlockType
	for rows.Next() {
		var bt matrix.BlockType
		if err := rows.Scan(&bt.ID, &bt.FieldID, &bt.Name, &bt.Handle, &bt.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, &bt)
	}
	return out, rows.Err()
}

func (r *blockTypeRepo) ByID(ctx context.Context, id int64) (*matrix.BlockType, error) {
	const query = `SELECT id, field_id, name, handle, sort_order FROM matrix_block_types WHERE id = $1`
	var bt matrix.BlockType
	err := r.pool.QueryRow(ctx, query, id).Scan(&bt.ID, &bt.FieldID, &bt.Name, &bt.Handle, &bt.SortOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bt, nil
}

// ─── BlockRepository ───

type blockRepo struct{ pool *pgxpool.Pool }

// El contenido se lee del locale pedido; si no hay fila para ese locale queda vacío.
const blockSelect = `
	SELECT b.id, b.uid::text, b.field_id, b.owner_id, b.owner_locale, b.type_id,
	       b.sort_order, b.collapsed, c.content
	FROM matrix_blocks b
	LEFT JOIN matrix_block_content c ON c.block_id = b.id AND c.locale = $1
`

func scanBlock(row pgx.Row, locale string) (*matrix.Block, error) {
	var (
		b           matrix.Block
		ownerLocale *string
		content     []byte
	)
	err := row.Scan(&b.ID, &b.UID, &b.FieldID, &b.OwnerID, &ownerLocale, &b.TypeID,
		&b.SortOrder, &b.Collapsed, &content)
	if err != nil {
		return nil, err
	}
	if ownerLocale != nil {
		b.OwnerLocale = *ownerLocale
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &b.Content); err != nil {
			return nil, fmt.Errorf("block %d content: %w", b.ID, err)
		}
	}
	b.Locale = locale
	return &b, nil
}

func (r *blockRepo) ByID(ctx context.Context, id int64, locale string) (*matrix.Block, error) {
	b, err := scanBlock(r.pool.QueryRow(ctx, blockSelect+` WHERE b.id = $2`, locale, id), locale)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return b, err
}

func (r *blockRepo) ByOwner(ctx context.Context, ownerID, fieldID int64, locale string) ([]*matrix.Block, error) {
	const where = `
		WHERE b.owner_id = $2 AND b.field_id = $3
		  AND ($1 = '' OR b.owner_locale IS NULL OR b.owner_locale = $1)
		ORDER BY b.sort_order, b.id
	`
	rows, err := r.pool.Query(ctx, blockSelect+where, locale, ownerID, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*matrix.Block
	for rows.Next() {
		b, err := scanBlock(rows, locale)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *blockRepo) Save(ctx context.Context, b *matrix.Block) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var ownerLocale *string
	if b.OwnerLocale != "" {
		ownerLocale = &b.OwnerLocale
	}

	if b.ID == 0 {
		const insert = `
			INSERT INTO matrix_blocks (uid, field_id, owner_id, owner_locale, type_id, sort_order, collapsed)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err = tx.QueryRow(ctx, insert, b.UID, b.FieldID, b.OwnerID, ownerLocale, b.TypeID, b.SortOrder, b.Collapsed).Scan(&b.ID)
		if err != nil {
			return err
		}
	} else {
		const update = `
			UPDATE matrix_blocks
			SET field_id = $2, owner_id = $3, owner_locale = $4, type_id = $5, sort_order = $6, collapsed = $7
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, update, b.ID, b.FieldID, b.OwnerID, ownerLocale, b.TypeID, b.SortOrder, b.Collapsed)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
	}

	if b.Locale != "" {
		content := b.Content
		if content == nil {
			content = map[string]any{}
		}
		raw, err := json.Marshal(content)
		if err != nil {
			return fmt.Errorf("block %d content: %w", b.ID, err)
		}
		const upsert = `
			INSERT INTO matrix_block_content (block_id, locale, content) VALUES ($1, $2, $3)
			ON CONFLICT (block_id, locale) DO UPDATE SET content = EXCLUDED.content
		`
		if _, err := tx.Exec(ctx, upsert, b.ID, b.Locale, raw); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ─── DeprecationRepository ───

type deprecationRepo struct{ pool *pgxpool.Pool }

func (r *deprecationRepo) Upsert(ctx context.Context, rec repository.DeprecationRecord) error {
	const query = `
		INSERT INTO deprecation_log (key, message, origin, last_seen, occurrences)
		VALUES ($1, $2, $3, COALESCE($4, NOW()), 1)
		ON CONFLICT (key) DO UPDATE SET
			message = EXCLUDED.message,
			origin = CASE WHEN EXCLUDED.origin <> '' THEN EXCLUDED.origin ELSE deprecation_log.origin END,
			last_seen = EXCLUDED.last_seen,
			occurrences = deprecation_log.occurrences + 1
	`
	var lastSeen any
	if !rec.LastSeen.IsZero() {
		lastSeen = rec.LastSeen
	}
	_, err := r.pool.Exec(ctx, query, rec.Key, rec.Message, rec.Origin, lastSeen)
	return err
}

func (r *deprecationRepo) List(ctx context.Context, limit int) ([]repository.DeprecationRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT key, message, origin, last_seen, occurrences
		FROM deprecation_log ORDER BY last_seen DESC, key LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.DeprecationRecord
	for rows.Next() {
		var d repository.DeprecationRecord
		if err := rows.Scan(&d.Key, &d.Message, &d.Origin, &d.LastSeen, &d.Occurrences); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
