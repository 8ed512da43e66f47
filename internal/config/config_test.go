package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, "en-US", c.I18n.PrimaryLocale)
	assert.Equal(t, "./templates/email/", c.Paths.EmailTemplates)
	assert.Equal(t, "p", c.URLs.PageTrigger)
	assert.Equal(t, "CRAFT_CSRF_TOKEN", c.CSRF.CookieName)
	assert.Equal(t, 10*time.Minute, Dur(c.Deprecation.DedupeTTL, 0))
	assert.False(t, c.RateLimit.Enabled)
	assert.Equal(t, 120, c.RateLimit.Requests)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	p := writeYAML(t, `
app:
  app_env: staging
server:
  addr: ":9000"
i18n:
  primary_locale: fr
  site_locales: [fr, en]
urls:
  use_path_info: true
paths:
  email_templates: /srv/templates/email/
`)
	t.Setenv("HELLOCMS_SERVER_ADDR", ":9999")
	t.Setenv("HELLOCMS_SITE_LOCALES", "fr, de ,")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.App.Env)
	assert.Equal(t, ":9999", c.Server.Addr)
	assert.Equal(t, "fr", c.I18n.PrimaryLocale)
	assert.Equal(t, []string{"fr", "de"}, c.I18n.SiteLocales)
	assert.True(t, c.URLs.UsePathInfo)
	assert.Equal(t, "/srv/templates/email/", c.Paths.EmailTemplates)
}

func TestLoad_TemplateRootsGetTrailingSlash(t *testing.T) {
	t.Setenv("HELLOCMS_EMAIL_TEMPLATES_PATH", "/templates/email")
	t.Setenv("HELLOCMS_EMAIL_TEMPLATE_CACHE_PATH", "/cache/email/")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/templates/email/", c.Paths.EmailTemplates)
	assert.Equal(t, "/cache/email/", c.Paths.EmailTemplateCache)
}

func TestLoad_ValidationErrors(t *testing.T) {
	p := writeYAML(t, `
storage:
  driver: postgres
cache:
  kind: memcached
i18n:
  primary_locale: "not a locale"
csrf:
  enabled: true
  secret: short
rate_limit:
  enabled: true
  requests: -1
  window: forever
`)
	_, err := Load(p)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"storage.dsn", "cache.kind", "primary_locale", "csrf.secret", "rate_limit.requests", "rate_limit.window"} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %q", want, msg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDur(t *testing.T) {
	assert.Equal(t, 3*time.Second, Dur("3s", time.Minute))
	assert.Equal(t, time.Minute, Dur("bogus", time.Minute))
}
