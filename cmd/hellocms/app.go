package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/hellocms/internal/cache"
	"github.com/dropDatabas3/hellocms/internal/config"
	"github.com/dropDatabas3/hellocms/internal/deprecation"
	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/eagerload"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/i18n"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/store/cached"
	"github.com/dropDatabas3/hellocms/internal/store/memory"
	"github.com/dropDatabas3/hellocms/internal/store/pg"
	"github.com/dropDatabas3/hellocms/internal/templating"
	"github.com/dropDatabas3/hellocms/internal/web/csrf"
	"github.com/dropDatabas3/hellocms/internal/web/request"
)

// backend es lo que tienen en común los stores memory y postgres.
type backend interface {
	Ping(ctx context.Context) error
	Elements() repository.ElementRepository
	Fields() repository.FieldRepository
	Relations() repository.RelationRepository
	BlockTypes() matrix.BlockTypeRepository
	Blocks() matrix.BlockRepository
	Deprecations() repository.DeprecationRepository
}

var (
	_ backend = (*memory.Store)(nil)
	_ backend = (*pg.Store)(nil)
)

// app es el grafo de dependencias armado desde la configuración.
type app struct {
	cfg        *config.Config
	store      backend
	cache      cache.Client
	locales    *i18n.Provider
	matrix     *matrix.Service
	renderer   *templating.EmailRenderer
	deprecator *deprecation.Deprecator
	csrf       *csrf.Issuer

	closers []func()
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.Named("bootstrap")
	a := &app{cfg: cfg}

	switch cfg.Storage.Driver {
	case "postgres":
		st, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{
			MaxConns:        int32(cfg.Storage.Postgres.MaxOpenConns),
			MinConns:        int32(cfg.Storage.Postgres.MaxIdleConns),
			ConnMaxLifetime: config.Dur(cfg.Storage.Postgres.ConnMaxLifetime, 0),
		})
		if err != nil {
			return nil, err
		}
		a.store = st
		a.closers = append(a.closers, st.Close)
	default:
		st := memory.New()
		if cfg.Storage.Seed {
			seedDemo(st)
			log.Info("memory store seeded with demo content")
		}
		a.store = st
	}

	c, err := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Dur(cfg.Cache.Memory.DefaultTTL, 5*time.Minute),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cache = c
	a.closers = append(a.closers, func() { _ = c.Close() })

	a.locales, err = i18n.New(cfg.I18n.PrimaryLocale, cfg.I18n.SiteLocales)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.matrix, err = matrix.NewService(matrix.Deps{
		BlockTypes: cached.NewBlockTypes(a.store.BlockTypes(), c, config.Dur(cfg.Cache.BlockTypeTTL, 10*time.Minute)),
		Blocks:     a.store.Blocks(),
		Fields:     a.store.Fields(),
		Elements:   a.store.Elements(),
		Maps:       eagerload.NewLoader(a.store.Fields(), a.store.Relations()),
		Locales:    a.locales,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.renderer = templating.NewEmailRenderer(templating.StaticPaths{
		Templates: cfg.Paths.EmailTemplates,
		Cache:     cfg.Paths.EmailTemplateCache,
	}, nil)

	depOpts := []deprecation.Option{deprecation.WithDedupeTTL(config.Dur(cfg.Deprecation.DedupeTTL, 10*time.Minute))}
	if cfg.Deprecation.Persist {
		depOpts = append(depOpts, deprecation.WithRepository(a.store.Deprecations()))
	}
	a.deprecator = deprecation.New(c, depOpts...)

	if cfg.CSRF.Enabled {
		a.csrf, err = csrf.NewIssuer([]byte(cfg.CSRF.Secret), config.Dur(cfg.CSRF.TTL, time.Hour))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("csrf: %w", err)
		}
	}

	log.Info("app wired",
		logger.Any("storage", cfg.Storage.Driver),
		logger.Any("cache", cfg.Cache.Kind),
		logger.Any("csrf", cfg.CSRF.Enabled),
	)
	return a, nil
}

// requestOptions traduce la configuración de URLs a opciones de la vista de request.
func (a *app) requestOptions() request.Options {
	u := a.cfg.URLs
	return request.Options{
		BaseURL:        u.BaseURL,
		ScriptName:     u.ScriptName,
		UsePathInfo:    u.UsePathInfo,
		PathParam:      u.PathParam,
		PageTrigger:    u.PageTrigger,
		CSRF:           a.csrf,
		CSRFCookieName: a.cfg.CSRF.CookieName,
	}
}

// Close libera recursos en orden inverso.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
