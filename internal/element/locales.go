package element

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// LocaleEntry es una entrada de un conjunto de locales. Puede venir como valor
// suelto ("en") o como clave explícita con metadata ({"en": {"enabledByDefault": true}}).
type LocaleEntry struct {
	// Key es el id de locale cuando la entrada viene con clave explícita.
	Key string
	// Value es el id de locale cuando la entrada viene como valor suelto.
	Value string
	// EnabledByDefault solo aplica a entradas con clave.
	EnabledByDefault bool
}

// Bare crea una entrada de valor suelto.
func Bare(id string) LocaleEntry { return LocaleEntry{Value: id} }

// Keyed crea una entrada con clave explícita y metadata.
func Keyed(id string, enabledByDefault bool) LocaleEntry {
	return LocaleEntry{Key: id, EnabledByDefault: enabledByDefault}
}

// ID devuelve el identificador de locale de la entrada, sin importar su forma.
func (e LocaleEntry) ID() string {
	if e.Key != "" {
		return e.Key
	}
	return e.Value
}

// LocaleSet es un conjunto ordenado de entradas de locale.
type LocaleSet []LocaleEntry

// IDs aplana el conjunto a una lista de ids, descartando metadata y duplicados.
func (s LocaleSet) IDs() []string {
	out := make([]string, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	for _, e := range s {
		id := e.ID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// LocalesFromIDs arma un LocaleSet de valores sueltos.
func LocalesFromIDs(ids ...string) LocaleSet {
	s := make(LocaleSet, 0, len(ids))
	for _, id := range ids {
		s = append(s, Bare(id))
	}
	return s
}

type localeInfo struct {
	EnabledByDefault bool `json:"enabledByDefault"`
}

// UnmarshalJSON acepta tanto la forma lista (["en","fr"]) como la forma objeto
// ({"en":{"enabledByDefault":true},"fr":{}}), preservando el orden del documento.
func (s *LocaleSet) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}

	switch b[0] {
	case '[':
		var ids []string
		if err := json.Unmarshal(b, &ids); err != nil {
			return fmt.Errorf("locale set: %w", err)
		}
		*s = LocalesFromIDs(ids...)
		return nil
	case '{':
		return s.unmarshalObject(b)
	default:
		return errors.New("locale set: expected array or object")
	}
}

func (s *LocaleSet) unmarshalObject(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil { // '{'
		return fmt.Errorf("locale set: %w", err)
	}
	var out LocaleSet
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("locale set: %w", err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("locale set %q: %w", key, err)
		}
		var info localeInfo
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
			if err := json.Unmarshal(trimmed, &info); err != nil {
				return fmt.Errorf("locale set %q: %w", key, err)
			}
		}
		out = append(out, Keyed(key, info.EnabledByDefault))
	}
	*s = out
	return nil
}

// MarshalJSON serializa en forma objeto si alguna entrada tiene clave, o en forma lista si no.
func (s LocaleSet) MarshalJSON() ([]byte, error) {
	keyed := false
	for _, e := range s {
		if e.Key != "" {
			keyed = true
			break
		}
	}
	if !keyed {
		ids := make([]string, 0, len(s))
		for _, e := range s {
			ids = append(ids, e.Value)
		}
		return json.Marshal(ids)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.ID())
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(localeInfo{EnabledByDefault: e.EnabledByDefault})
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
