package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI derives a form definition from the request body of a single
// operation in an OpenAPI 3 document. Object properties flatten into dotted
// paths, arrays become templated fields, and numeric, length, pattern, and
// format constraints compile into the matching rules. Properties are emitted
// in sorted order so derived forms are stable across runs.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	if len(raw) == 0 {
		return Form{}, errors.New("schema: openapi document is empty")
	}
	if operationID == "" {
		return Form{}, errors.New("schema: operation id is required")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return Form{}, fmt.Errorf("schema: load openapi document: %w", err)
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return Form{}, fmt.Errorf("schema: operation %q not found", operationID)
	}
	body := requestBodySchema(operation.RequestBody)
	if body == nil || body.Value == nil {
		return Form{}, fmt.Errorf("schema: operation %q has no request body schema", operationID)
	}
	if kind := firstSchemaType(body.Value.Type); kind != "object" {
		return Form{}, fmt.Errorf("schema: operation %q request body is %q, want object", operationID, kind)
	}

	form := Form{Name: operationID, Title: operation.Summary}
	if form.Title == "" {
		form.Title = humanize(operationID)
	}
	required := requiredSet(body.Value.Required)
	for _, name := range sortedPropertyNames(body.Value.Properties) {
		appendDerivedFields(&form.Fields, "", name, body.Value.Properties[name], required)
	}
	if len(form.Fields) == 0 {
		return Form{}, fmt.Errorf("schema: operation %q request body declares no properties", operationID)
	}
	return normalize(form, fmt.Sprintf("operation %q", operationID))
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestBodySchema(requestBody *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok {
			return mt.Schema
		}
	}
	for _, mt := range content {
		return mt.Schema
	}
	return nil
}

func appendDerivedFields(out *[]Field, prefix, name string, ref *openapi3.SchemaRef, required map[string]struct{}) {
	if ref == nil || ref.Value == nil {
		return
	}
	src := ref.Value
	path := name
	if prefix != "" {
		path = prefix + "." + name
	}
	_, isRequired := required[name]

	switch firstSchemaType(src.Type) {
	case "object":
		childRequired := requiredSet(src.Required)
		for _, child := range sortedPropertyNames(src.Properties) {
			appendDerivedFields(out, path, child, src.Properties[child], childRequired)
		}
	case "array":
		field := fieldFromSchema(path, src, isRequired)
		field.Item = itemTemplate(src.Items)
		if src.MinItems != 0 {
			field.Rules = append(field.Rules, Rule{
				Kind:   RuleMinLength,
				Params: map[string]string{"value": strconv.FormatUint(src.MinItems, 10)},
			})
		}
		if src.MaxItems != nil {
			field.Rules = append(field.Rules, Rule{
				Kind:   RuleMaxLength,
				Params: map[string]string{"value": strconv.FormatUint(*src.MaxItems, 10)},
			})
		}
		*out = append(*out, field)
	default:
		*out = append(*out, fieldFromSchema(path, src, isRequired))
	}
}

// itemTemplate converts an array's items schema into the element template.
// Templates carry no path; elements are addressed by index at fill time.
func itemTemplate(items *openapi3.SchemaRef) *Field {
	if items == nil || items.Value == nil {
		return nil
	}
	src := items.Value
	switch firstSchemaType(src.Type) {
	case "object":
		item := Field{Kind: KindObject}
		childRequired := requiredSet(src.Required)
		for _, child := range sortedPropertyNames(src.Properties) {
			appendDerivedFields(&item.Fields, "", child, src.Properties[child], childRequired)
		}
		return &item
	case "array":
		return &Field{Kind: KindArray, Item: itemTemplate(src.Items)}
	default:
		item := fieldFromSchema("", src, false)
		return &item
	}
}

func fieldFromSchema(path string, src *openapi3.Schema, required bool) Field {
	field := Field{
		Path:     path,
		Kind:     mapKind(firstSchemaType(src.Type)),
		Label:    src.Title,
		Help:     src.Description,
		Initial:  src.Default,
		Required: required,
		Secret:   src.Format == "password",
	}
	if len(src.Enum) > 0 {
		field.Options = append([]any(nil), src.Enum...)
	}
	field.Rules = rulesFromSchema(src)
	applyExtensions(&field, src.Extensions)
	return field
}

const extensionNamespace = "x-informed"

// applyExtensions maps the x-informed vendor namespace onto the field. Both
// the nested object form and flat x-informed-* keys are accepted; flat keys
// win when a property appears in both.
func applyExtensions(field *Field, ext map[string]any) {
	merged := informedExtensions(ext)
	if len(merged) == 0 {
		return
	}
	if raw, ok := merged["relevant-when"].(string); ok && strings.TrimSpace(raw) != "" {
		field.RelevantWhen = strings.TrimSpace(raw)
	}
	if secret, ok := merged["secret"].(bool); ok {
		field.Secret = secret
	}
	if targets, ok := merged["notify"].([]any); ok {
		for _, entry := range targets {
			if target, ok := entry.(string); ok && strings.TrimSpace(target) != "" {
				field.Notify = append(field.Notify, strings.TrimSpace(target))
			}
		}
	}
}

func informedExtensions(ext map[string]any) map[string]any {
	if len(ext) == 0 {
		return nil
	}
	merged := make(map[string]any)
	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			merged[key] = value
		}
	}
	for key, value := range ext {
		if !strings.HasPrefix(key, extensionNamespace+"-") {
			continue
		}
		merged[strings.TrimPrefix(key, extensionNamespace+"-")] = value
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

func rulesFromSchema(src *openapi3.Schema) []Rule {
	var rules []Rule
	if src.Min != nil {
		params := map[string]string{"value": formatFloat(*src.Min)}
		if src.ExclusiveMin {
			params["exclusive"] = "true"
		}
		rules = append(rules, Rule{Kind: RuleMin, Params: params})
	}
	if src.Max != nil {
		params := map[string]string{"value": formatFloat(*src.Max)}
		if src.ExclusiveMax {
			params["exclusive"] = "true"
		}
		rules = append(rules, Rule{Kind: RuleMax, Params: params})
	}
	if src.MinLength != 0 {
		rules = append(rules, Rule{
			Kind:   RuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(src.MinLength, 10)},
		})
	}
	if src.MaxLength != nil {
		rules = append(rules, Rule{
			Kind:   RuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*src.MaxLength, 10)},
		})
	}
	if src.Pattern != "" {
		rules = append(rules, Rule{
			Kind:   RulePattern,
			Params: map[string]string{"pattern": src.Pattern},
		})
	}
	if src.Format == "email" {
		rules = append(rules, Rule{Kind: RuleEmail})
	}
	return rules
}

func mapKind(schemaType string) Kind {
	switch schemaType {
	case "integer":
		return KindInteger
	case "number":
		return KindNumber
	case "boolean":
		return KindBoolean
	case "array":
		return KindArray
	case "object":
		return KindObject
	default:
		return KindString
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func requiredSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func sortedPropertyNames(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
