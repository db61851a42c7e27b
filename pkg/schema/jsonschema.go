package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromJSONSchema derives a form definition from a bare JSON Schema object,
// for documents that describe a payload directly instead of wrapping it in an
// OpenAPI operation. The root must be an object schema; its properties walk
// through the same derivation as operation request bodies, so constraints,
// enums, and x-informed extensions behave identically. The document must be
// JSON and $ref pointers are not resolved.
func FromJSONSchema(ctx context.Context, raw []byte, name string) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	if len(raw) == 0 {
		return Form{}, errors.New("schema: json schema document is empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "form"
	}

	var root openapi3.Schema
	if err := root.UnmarshalJSON(raw); err != nil {
		return Form{}, fmt.Errorf("schema: parse json schema document: %w", err)
	}
	// a missing root type is tolerated when properties make the intent clear
	kind := firstSchemaType(root.Type)
	if kind != "object" && !(kind == "" && len(root.Properties) > 0) {
		return Form{}, fmt.Errorf("schema: json schema root is %q, want object", kind)
	}

	form := Form{Name: name, Title: root.Title}
	if form.Title == "" {
		form.Title = humanize(name)
	}
	required := requiredSet(root.Required)
	for _, prop := range sortedPropertyNames(root.Properties) {
		appendDerivedFields(&form.Fields, "", prop, root.Properties[prop], required)
	}
	if len(form.Fields) == 0 {
		return Form{}, errors.New("schema: json schema declares no properties")
	}
	return normalize(form, "json schema document")
}
