// Package pg implementa los repositorios sobre Postgres con pgxpool.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
)

// PoolConfig es el tuning opcional del pool.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

// Store agrupa los repositorios sobre un pool compartido.
type Store struct{ pool *pgxpool.Pool }

// New abre el pool y verifica la conexión.
func New(ctx context.Context, dsn string, cfg PoolConfig) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
		pcfg.MaxConnIdleTime = cfg.ConnMaxLifetime
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 10
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno (migraciones, stats).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// Ping verifica la conexión.
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Elements() repository.ElementRepository         { return &elementRepo{s.pool} }
func (s *Store) Fields() repository.FieldRepository             { return &fieldRepo{s.pool} }
func (s *Store) Relations() repository.RelationRepository       { return &relationRepo{s.pool} }
func (s *Store) BlockTypes() matrix.BlockTypeRepository         { return &blockTypeRepo{s.pool} }
func (s *Store) Blocks() matrix.BlockRepository                 { return &blockRepo{s.pool} }
func (s *Store) Deprecations() repository.DeprecationRepository { return &deprecationRepo{s.pool} }
