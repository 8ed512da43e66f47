package pg

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

// Formato de archivo: {version}_{name}.sql (ej: 0001_init.sql)
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// Migration representa una migración individual.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationResult resultado de aplicar migraciones.
type MigrationResult struct {
	Applied  []int
	Skipped  []int
	Duration time.Duration
}

// ParseMigrations lee las migraciones de dir dentro de fsys, ordenadas por versión.
func ParseMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	var out []Migration
	seen := make(map[int]string)

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		m := migrationFilePattern.FindStringSubmatch(path.Base(p))
		if m == nil {
			return nil
		}
		version, _ := strconv.Atoi(m[1])
		if prev, dup := seen[version]; dup {
			return fmt.Errorf("duplicate migration version %d (%s, %s)", version, prev, p)
		}
		seen[version] = p

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		out = append(out, Migration{Version: version, Name: m[2], SQL: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrate aplica las migraciones pendientes, cada una en su propia transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string) (*MigrationResult, error) {
	start := time.Now()
	log := logger.From(ctx).With(logger.Component("migrate"))

	migrations, err := ParseMigrations(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("parsing migrations: %w", err)
	}

	const ensure = `
		CREATE TABLE IF NOT EXISTS _migrations (
			version    INT PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`
	if _, err := pool.Exec(ctx, ensure); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("getting applied migrations: %w", err)
	}

	res := &MigrationResult{}
	for _, mig := range migrations {
		if applied[mig.Version] {
			res.Skipped = append(res.Skipped, mig.Version)
			continue
		}
		if err := applyMigration(ctx, pool, mig); err != nil {
			return res, fmt.Errorf("applying migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		log.Info("migration applied", logger.Any("version", mig.Version), logger.Any("name", mig.Name))
		res.Applied = append(res.Applied, mig.Version)
	}
	res.Duration = time.Since(start)
	return res, nil
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) (map[int]bool, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM _migrations`)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int32])
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(versions))
	for _, v := range versions {
		out[int(v)] = true
	}
	return out, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, mig Migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO _migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
