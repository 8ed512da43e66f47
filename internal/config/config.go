package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/hellocms/internal/validation"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr            string `yaml:"addr"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		// debug | info | warn | error
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
		// Seed carga datos de demo en el driver memory.
		Seed bool `yaml:"seed"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
		// BlockTypeTTL: TTL de los block types cacheados.
		BlockTypeTTL string `yaml:"block_type_ttl"`
	} `yaml:"cache"`

	I18n struct {
		PrimaryLocale string   `yaml:"primary_locale"`
		SiteLocales   []string `yaml:"site_locales"`
	} `yaml:"i18n"`

	Paths struct {
		EmailTemplates     string `yaml:"email_templates"`
		EmailTemplateCache string `yaml:"email_template_cache"`
	} `yaml:"paths"`

	URLs struct {
		BaseURL     string `yaml:"base_url"`
		UsePathInfo bool   `yaml:"use_path_info"`
		PageTrigger string `yaml:"page_trigger"`
		ScriptName  string `yaml:"script_name"`
		// PathParam es el query param con el path cuando use_path_info=false.
		PathParam string `yaml:"path_param"`
	} `yaml:"urls"`

	CSRF struct {
		Enabled    bool   `yaml:"enabled"`
		Secret     string `yaml:"secret"`
		CookieName string `yaml:"cookie_name"`
		HeaderName string `yaml:"header_name"`
		TTL        string `yaml:"ttl"`
	} `yaml:"csrf"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		// starttls | ssl | none
		TLSMode            string `yaml:"tls_mode"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	RateLimit struct {
		Enabled bool `yaml:"enabled"`
		// Requests por ventana, por IP y path.
		Requests int    `yaml:"requests"`
		Window   string `yaml:"window"`
	} `yaml:"rate_limit"`

	Deprecation struct {
		// DedupeTTL: ventana en la que una misma clave se loguea una sola vez.
		DedupeTTL string `yaml:"dedupe_ttl"`
		Persist   bool   `yaml:"persist"`
	} `yaml:"deprecation"`
}

// Load lee el YAML en path (si path está vacío usa solo defaults), aplica
// defaults sanos, overrides de entorno (HELLOCMS_*) y valida.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default devuelve una configuración solo con defaults (útil en tests y CLI).
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Postgres.ConnMaxLifetime == "" {
		c.Storage.Postgres.ConnMaxLifetime = "30m"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Cache.BlockTypeTTL == "" {
		c.Cache.BlockTypeTTL = "5m"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "hellocms"
	}
	if c.I18n.PrimaryLocale == "" {
		c.I18n.PrimaryLocale = "en-US"
	}
	if c.Paths.EmailTemplates == "" {
		c.Paths.EmailTemplates = "./templates/email/"
	}
	if c.Paths.EmailTemplateCache == "" {
		c.Paths.EmailTemplateCache = "./storage/runtime/email/"
	}
	// las raíces de templates son directorios: siempre con "/" final
	c.Paths.EmailTemplates = withTrailingSlash(c.Paths.EmailTemplates)
	c.Paths.EmailTemplateCache = withTrailingSlash(c.Paths.EmailTemplateCache)
	if c.URLs.BaseURL == "" {
		c.URLs.BaseURL = "http://localhost:8080"
	}
	if c.URLs.PageTrigger == "" {
		c.URLs.PageTrigger = "p"
	}
	if c.URLs.ScriptName == "" {
		c.URLs.ScriptName = "/index.php"
	}
	if c.URLs.PathParam == "" {
		c.URLs.PathParam = "p"
	}
	if c.CSRF.CookieName == "" {
		c.CSRF.CookieName = "CRAFT_CSRF_TOKEN"
	}
	if c.CSRF.HeaderName == "" {
		c.CSRF.HeaderName = "X-CSRF-Token"
	}
	if c.CSRF.TTL == "" {
		c.CSRF.TTL = "1h"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLSMode == "" {
		c.SMTP.TLSMode = "starttls"
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 120
	}
	if c.RateLimit.Window == "" {
		c.RateLimit.Window = "1m"
	}
	if c.Deprecation.DedupeTTL == "" {
		c.Deprecation.DedupeTTL = "10m"
	}
}

func withTrailingSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// ---- Helpers env ----

const envPrefix = "HELLOCMS_"

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(envPrefix + key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvBool("STORAGE_SEED"); ok {
		c.Storage.Seed = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// I18N
	if v, ok := getEnvStr("PRIMARY_LOCALE"); ok {
		c.I18n.PrimaryLocale = v
	}
	if v, ok := getEnvCSV("SITE_LOCALES"); ok {
		c.I18n.SiteLocales = v
	}

	// PATHS
	if v, ok := getEnvStr("EMAIL_TEMPLATES_PATH"); ok {
		c.Paths.EmailTemplates = v
	}
	if v, ok := getEnvStr("EMAIL_TEMPLATE_CACHE_PATH"); ok {
		c.Paths.EmailTemplateCache = v
	}

	// URLS
	if v, ok := getEnvStr("BASE_URL"); ok {
		c.URLs.BaseURL = v
	}
	if v, ok := getEnvBool("USE_PATH_INFO"); ok {
		c.URLs.UsePathInfo = v
	}
	if v, ok := getEnvStr("PAGE_TRIGGER"); ok {
		c.URLs.PageTrigger = v
	}

	// CSRF
	if v, ok := getEnvBool("CSRF_ENABLED"); ok {
		c.CSRF.Enabled = v
	}
	if v, ok := getEnvStr("CSRF_SECRET"); ok {
		c.CSRF.Secret = v
	}

	// RATE LIMIT
	if v, ok := getEnvBool("RATE_LIMIT_ENABLED"); ok {
		c.RateLimit.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT_REQUESTS"); ok {
		c.RateLimit.Requests = v
	}
	if v, ok := getEnvStr("RATE_LIMIT_WINDOW"); ok {
		c.RateLimit.Window = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
}

// Validate verifica los valores críticos. Se llama después de defaults.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported (memory|postgres)", c.Storage.Driver))
	}

	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported (memory|redis)", c.Cache.Kind))
	}

	if !validation.ValidLocale(c.I18n.PrimaryLocale) {
		errs = append(errs, fmt.Errorf("i18n.primary_locale %q is not a valid locale", c.I18n.PrimaryLocale))
	}
	for _, l := range c.I18n.SiteLocales {
		if !validation.ValidLocale(l) {
			errs = append(errs, fmt.Errorf("i18n.site_locales: %q is not a valid locale", l))
		}
	}

	for name, v := range map[string]string{
		"server.read_timeout":                c.Server.ReadTimeout,
		"server.write_timeout":               c.Server.WriteTimeout,
		"server.shutdown_timeout":            c.Server.ShutdownTimeout,
		"cache.memory.default_ttl":           c.Cache.Memory.DefaultTTL,
		"cache.block_type_ttl":               c.Cache.BlockTypeTTL,
		"csrf.ttl":                           c.CSRF.TTL,
		"deprecation.dedupe_ttl":             c.Deprecation.DedupeTTL,
		"rate_limit.window":                  c.RateLimit.Window,
		"storage.postgres.conn_max_lifetime": c.Storage.Postgres.ConnMaxLifetime,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if c.RateLimit.Enabled && c.RateLimit.Requests <= 0 {
		errs = append(errs, errors.New("rate_limit.requests must be positive when rate limiting is enabled"))
	}

	if c.CSRF.Enabled && len(c.CSRF.Secret) < 32 {
		errs = append(errs, errors.New("csrf.secret must be at least 32 bytes when csrf is enabled"))
	}

	return errors.Join(errs...)
}

// Dur parsea una duración ya validada; devuelve def si está vacía o es inválida.
func Dur(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
		return d
	}
	return def
}
