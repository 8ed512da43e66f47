package templating

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dropDatabas3/hellocms/internal/metrics"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/util/atomicwrite"
)

// EmailRenderer renderiza templates de email. Cada template fuente se duplica
// en la raíz de cache antes de parsearse; los parseos se memoizan por ruta de
// copia y se invalidan cuando cambia el mtime de la fuente.
type EmailRenderer struct {
	paths Paths
	funcs template.FuncMap

	mu     sync.Mutex
	parsed map[string]parsedTemplate
}

type parsedTemplate struct {
	tpl     *template.Template
	modTime time.Time
}

// NewEmailRenderer crea un renderer. funcs se agregan a cada template.
func NewEmailRenderer(paths Paths, funcs template.FuncMap) *EmailRenderer {
	return &EmailRenderer{
		paths:  paths,
		funcs:  funcs,
		parsed: make(map[string]parsedTemplate),
	}
}

// Paths devuelve las raíces configuradas.
func (r *EmailRenderer) Paths() Paths { return r.paths }

// Render renderiza el template fuente (ruta absoluta bajo la raíz de templates)
// con data.
func (r *EmailRenderer) Render(ctx context.Context, source string, data any) (out string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveRender(start, err) }()

	tpl, err := r.load(ctx, source)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templating: execute %s: %w", source, err)
	}
	return buf.String(), nil
}

// RenderRelative renderiza un template dado por su ruta relativa a la raíz.
func (r *EmailRenderer) RenderRelative(ctx context.Context, rel string, data any) (string, error) {
	return r.Render(ctx, r.paths.EmailTemplatePath()+rel, data)
}

func (r *EmailRenderer) load(ctx context.Context, source string) (*template.Template, error) {
	rel, err := r.RelativePath(source)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("templating: %w", err)
	}
	dup := r.DuplicatePath(rel)

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.parsed[dup]; ok && p.modTime.Equal(fi.ModTime()) {
		return p.tpl, nil
	}

	if _, err := atomicwrite.CopyFile(dup, source, 0o644); err != nil {
		return nil, fmt.Errorf("templating: duplicate %s: %w", rel, err)
	}
	// ParseFiles asocia el contenido al template con el basename del archivo.
	tpl, err := template.New(filepath.Base(dup)).Funcs(r.funcs).ParseFiles(dup)
	if err != nil {
		return nil, fmt.Errorf("templating: parse %s: %w", rel, err)
	}
	r.parsed[dup] = parsedTemplate{tpl: tpl, modTime: fi.ModTime()}

	logger.From(ctx).Debug("email template duplicated",
		logger.Template(rel), logger.Any("duplicate", dup))
	return tpl, nil
}
