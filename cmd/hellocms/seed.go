package main

import (
	"context"
	"time"

	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/field"
	"github.com/dropDatabas3/hellocms/internal/store/memory"
)

// seedDemo carga un field Matrix "body" con bloques de texto y de links sobre
// una entry bilingüe. Sirve para probar la API sin base de datos.
func seedDemo(st *memory.Store) {
	const (
		bodyField = 1
		textType  = 10
		linksType = 11
	)
	now := time.Now().UTC()

	st.PutField(&field.Field{ID: bodyField, Handle: "body", Name: "Body", Type: field.TypeMatrix, Context: field.Global, Translatable: true})
	st.PutBlockType(&matrix.BlockType{ID: textType, FieldID: bodyField, Name: "Text", Handle: "text", SortOrder: 1})
	st.PutBlockType(&matrix.BlockType{ID: linksType, FieldID: bodyField, Name: "Links", Handle: "links", SortOrder: 2})
	st.PutField(&field.Field{ID: 20, Handle: "heading", Name: "Heading", Type: field.TypePlainText, Context: field.ForBlockType(textType), SortOrder: 1})
	st.PutField(&field.Field{ID: 21, Handle: "copy", Name: "Copy", Type: field.TypeRichText, Context: field.ForBlockType(textType), SortOrder: 2})
	st.PutField(&field.Field{ID: 30, Handle: "related", Name: "Related", Type: field.TypeEntries, Context: field.ForBlockType(linksType), SortOrder: 1})

	st.PutElement(&element.Record{ID: 100, UID: "entry-home", Type: "Entry", Locale: "en", Enabled: true,
		Locales: element.LocalesFromIDs("en", "es"), DateUpdated: now})
	st.PutElement(&element.Record{ID: 200, UID: "entry-about", Type: "Entry", Locale: "en", Enabled: true, DateUpdated: now})
	st.PutElement(&element.Record{ID: 201, UID: "entry-contact", Type: "Entry", Locale: "en", Enabled: true, DateUpdated: now})

	ctx := context.Background()
	blocks := []*matrix.Block{
		{ID: 1, UID: "block-1", Locale: "en", FieldID: bodyField, OwnerID: 100, TypeID: textType, SortOrder: 1,
			Content: map[string]any{"heading": "Welcome", "copy": "<p>Hello.</p>"}},
		{ID: 2, UID: "block-2", Locale: "en", FieldID: bodyField, OwnerID: 100, TypeID: linksType, SortOrder: 2},
		{ID: 3, UID: "block-3", Locale: "es", FieldID: bodyField, OwnerID: 100, OwnerLocale: "es", TypeID: textType, SortOrder: 3,
			Content: map[string]any{"heading": "Bienvenido"}},
	}
	for _, b := range blocks {
		_ = st.Blocks().Save(ctx, b)
	}
	st.Relate(30, 2, 200, 1)
	st.Relate(30, 2, 201, 2)
}
