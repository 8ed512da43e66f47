// Package repository define las interfaces de repositorio de dominio compartidas.
//
// Estas interfaces son contratos independientes del almacenamiento subyacente
// (PostgreSQL o memoria). Las implementaciones viven en internal/store/pg y
// internal/store/memory.
//
//	┌─────────────────────────────────────────────┐
//	│      services (matrix, eagerload, ...)      │
//	└─────────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌─────────────────────────────────────────────┐
//	│     domain/repository (interfaces)          │
//	│ Element, Field, Relation, Deprecation       │
//	└─────────────────────────────────────────────┘
//	             │                 │
//	             ▼                 ▼
//	      store/pg           store/memory
//
// Los repositorios de bloques Matrix se declaran en el propio paquete matrix
// (sus tipos viven ahí).
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - "No existe" se reporta con ErrNotFound, nunca con (nil, nil).
package repository
