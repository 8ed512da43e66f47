package field

import "testing"

func TestContext_ForBlockType(t *testing.T) {
	c := ForBlockType(42)
	if c != "matrixBlockType:42" {
		t.Fatalf("unexpected context %q", c)
	}
	id, ok := c.BlockTypeID()
	if !ok || id != 42 {
		t.Fatalf("BlockTypeID() = %d,%v", id, ok)
	}
	if _, ok := Global.BlockTypeID(); ok {
		t.Fatalf("global context has no block type")
	}
	if _, ok := Context("matrixBlockType:abc").BlockTypeID(); ok {
		t.Fatalf("non-numeric id must not parse")
	}
}

func TestField_Relational(t *testing.T) {
	f := &Field{Handle: "related", Type: TypeEntries}
	if !f.Relational() || f.TargetElementType() != "Entry" {
		t.Fatalf("entries field should be relational to Entry")
	}
	txt := &Field{Handle: "heading", Type: TypePlainText}
	if txt.Relational() {
		t.Fatalf("plain text is not relational")
	}
	if txt.Column() != "field_heading" {
		t.Fatalf("unexpected column %q", txt.Column())
	}
	txt.ColumnPrefix = "field_body_"
	if txt.Column() != "field_body_heading" {
		t.Fatalf("unexpected prefixed column %q", txt.Column())
	}
}

func TestLayout_FieldByHandle(t *testing.T) {
	l := &Layout{Fields: []*Field{{ID: 1, Handle: "heading"}, {ID: 2, Handle: "image"}}}
	if f := l.FieldByHandle("image"); f == nil || f.ID != 2 {
		t.Fatalf("expected image field")
	}
	if l.FieldByHandle("missing") != nil {
		t.Fatalf("expected nil for unknown handle")
	}
	var nilLayout *Layout
	if nilLayout.FieldByHandle("x") != nil {
		t.Fatalf("nil layout must return nil")
	}
}
