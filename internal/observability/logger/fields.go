package logger

import (
	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - CONTENIDO
// =================================================================================

// ElementID identifica un elemento (bloque, owner, target de relación).
func ElementID(v int64) zap.Field { return zap.Int64("element_id", v) }

// FieldID identifica la definición de field dueña de los bloques.
func FieldID(v int64) zap.Field { return zap.Int64("field_id", v) }

// BlockTypeID identifica el block type de un bloque Matrix.
func BlockTypeID(v int64) zap.Field { return zap.Int64("block_type_id", v) }

// Handle es un handle de field o de eager-loading ("body:heading").
func Handle(v string) zap.Field { return zap.String("handle", v) }

// Locale es un identificador de locale.
func Locale(v string) zap.Field { return zap.String("locale", v) }

// FieldContext es el contexto de fields usado para resolver handles.
func FieldContext(v string) zap.Field { return zap.String("field_context", v) }

// Template es un path de template (fuente o duplicado).
func Template(v string) zap.Field { return zap.String("template", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
