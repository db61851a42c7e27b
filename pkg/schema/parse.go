package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evankellogg/informed/pkg/pathstore"
)

// Parse decodes a form definition from JSON or YAML. JSON is attempted first
// so numeric literals keep their exact representation.
func Parse(data []byte) (Form, error) {
	return parseDocument(data, "definition")
}

// Load reads a form definition from disk.
func Load(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return parseDocument(data, path)
}

func parseDocument(data []byte, source string) (Form, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Form{}, fmt.Errorf("schema: %s is empty", source)
	}
	var form Form
	if err := json.Unmarshal(data, &form); err == nil {
		return normalize(form, source)
	}
	if err := yaml.Unmarshal(data, &form); err == nil {
		return normalize(form, source)
	}
	return Form{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
}

// normalize canonicalises every path, rejects duplicates, and fills in the
// kinds hand-written documents leave implicit.
func normalize(form Form, source string) (Form, error) {
	if len(form.Fields) == 0 {
		return Form{}, fmt.Errorf("schema: %s declares no fields", source)
	}
	fields, err := normalizeFields(form.Fields, "", make(map[string]struct{}), source)
	if err != nil {
		return Form{}, err
	}
	form.Fields = fields
	return form, nil
}

func normalizeFields(fields []Field, prefix string, seen map[string]struct{}, source string) ([]Field, error) {
	out := make([]Field, 0, len(fields))
	for _, field := range fields {
		normalized, err := normalizeField(field, prefix, seen, source)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}

func normalizeField(field Field, prefix string, seen map[string]struct{}, source string) (Field, error) {
	raw := strings.TrimSpace(field.Path)
	if raw == "" {
		return Field{}, fmt.Errorf("schema: %s contains a field with an empty path", source)
	}
	parsed, err := pathstore.Parse(raw)
	if err != nil {
		return Field{}, fmt.Errorf("schema: %s field %q: %w", source, raw, err)
	}
	field.Path = parsed.String()

	absolute := field.Path
	if prefix != "" {
		absolute = prefix + "." + absolute
	}
	if _, dup := seen[absolute]; dup {
		return Field{}, fmt.Errorf("schema: %s declares duplicate path %q", source, absolute)
	}
	seen[absolute] = struct{}{}
	field.RelevantWhen = strings.TrimSpace(field.RelevantWhen)

	switch {
	case field.Kind != "":
	case field.Item != nil:
		field.Kind = KindArray
	case len(field.Fields) > 0:
		field.Kind = KindObject
	default:
		field.Kind = KindString
	}

	if len(field.Fields) > 0 {
		children, err := normalizeFields(field.Fields, absolute, seen, source)
		if err != nil {
			return Field{}, err
		}
		field.Fields = children
	}
	if field.Item != nil {
		item, err := normalizeItem(*field.Item, absolute, source)
		if err != nil {
			return Field{}, err
		}
		field.Item = &item
	}
	return field, nil
}

// normalizeItem handles array element templates. A template addresses the
// element slot itself, so it must not declare a path; its children, if any,
// are relative to the element.
func normalizeItem(item Field, owner, source string) (Field, error) {
	if strings.TrimSpace(item.Path) != "" {
		return Field{}, fmt.Errorf("schema: %s array %q: item templates must not declare a path", source, owner)
	}
	item.RelevantWhen = strings.TrimSpace(item.RelevantWhen)
	switch {
	case item.Kind != "":
	case item.Item != nil:
		item.Kind = KindArray
	case len(item.Fields) > 0:
		item.Kind = KindObject
	default:
		item.Kind = KindString
	}
	if len(item.Fields) > 0 {
		children, err := normalizeFields(item.Fields, "", make(map[string]struct{}), source)
		if err != nil {
			return Field{}, err
		}
		item.Fields = children
	}
	if item.Item != nil {
		nested, err := normalizeItem(*item.Item, owner, source)
		if err != nil {
			return Field{}, err
		}
		item.Item = &nested
	}
	return item, nil
}
