// Package templating resuelve y renderiza templates de email. Las rutas se
// calculan contra dos raíces configuradas: la de templates fuente y la de
// copias parseadas (cache).
package templating

import (
	"errors"
	"strings"
)

// ErrOutsideRoot indica que el template fuente no está bajo la raíz de templates de email.
var ErrOutsideRoot = errors.New("templating: source is outside the email templates root")

// Paths provee las raíces de templates de email.
type Paths interface {
	EmailTemplatePath() string
	EmailTemplateCachePath() string
}

// StaticPaths implementa Paths con valores fijos (p.ej. desde config).
type StaticPaths struct {
	Templates string
	Cache     string
}

func (p StaticPaths) EmailTemplatePath() string      { return p.Templates }
func (p StaticPaths) EmailTemplateCachePath() string { return p.Cache }

// RelativePath quita la raíz de templates de email de source. La raíz se trata
// como directorio: "/templates/email" no contiene "/templates/email-old/x.twig".
func (r *EmailRenderer) RelativePath(source string) (string, error) {
	root := dirRoot(r.paths.EmailTemplatePath())
	if root == "" || !strings.HasPrefix(source, root) {
		return "", ErrOutsideRoot
	}
	return source[len(root):], nil
}

// DuplicatePath concatena la raíz de cache con la ruta relativa.
func (r *EmailRenderer) DuplicatePath(rel string) string {
	return dirRoot(r.paths.EmailTemplateCachePath()) + rel
}

// dirRoot asegura el separador final de una raíz no vacía.
func dirRoot(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
