// Package migrations embebe las migraciones SQL de Postgres.
package migrations

import "embed"

// PostgresFS contiene las migraciones del schema de contenido.
//
//go:embed *.sql
var PostgresFS embed.FS

// PostgresDir es el directorio dentro de PostgresFS donde viven las migraciones.
const PostgresDir = "."
