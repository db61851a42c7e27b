package schema

import (
	"strconv"
	"strings"

	"github.com/evankellogg/informed/pkg/validators"
)

// Kind is the simplified enum for form-friendly field kinds.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Canonical rule kinds. Numeric bounds and length limits encode their
// threshold in Params["value"], pattern rules keep the expression in
// Params["pattern"], and oneOf rules carry a comma-separated member list in
// Params["values"]. Exclusive numeric bounds set Params["exclusive"] to
// "true" so JSON snapshots stay string-only.
const (
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleOneOf     = "oneOf"
	RuleEmail     = "email"
	RulePlainText = "plainText"
)

// Rule is a single declarative constraint applied to a field.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params"`
}

// Field declares one input inside a form definition. Path addresses the slot
// the field writes to; inside a group it is relative to the parent. Notify
// lists the absolute paths of fields that re-validate whenever this one
// changes. RelevantWhen holds a relevance rule evaluated against the values
// collected so far; a field whose rule does not hold is skipped. Item
// describes the elements of an array field and carries no path of its own,
// since elements are addressed by index at fill time.
type Field struct {
	Path         string   `json:"path" yaml:"path"`
	Label        string   `json:"label,omitempty" yaml:"label"`
	Kind         Kind     `json:"kind,omitempty" yaml:"kind"`
	Help         string   `json:"help,omitempty" yaml:"help"`
	Initial      any      `json:"initial,omitempty" yaml:"initial"`
	Required     bool     `json:"required,omitempty" yaml:"required"`
	Secret       bool     `json:"secret,omitempty" yaml:"secret"`
	Options      []any    `json:"options,omitempty" yaml:"options"`
	Rules        []Rule   `json:"rules,omitempty" yaml:"rules"`
	Notify       []string `json:"notify,omitempty" yaml:"notify"`
	RelevantWhen string   `json:"relevantWhen,omitempty" yaml:"relevantWhen"`
	Item         *Field   `json:"item,omitempty" yaml:"item"`
	Fields       []Field  `json:"fields,omitempty" yaml:"fields"`
}

// Form is the top-level definition a session mounts.
type Form struct {
	Name   string  `json:"name" yaml:"name"`
	Title  string  `json:"title,omitempty" yaml:"title"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Validator compiles the field's declarative constraints into a single
// validator. Fields without constraints return nil so callers can skip
// wiring one.
func (f Field) Validator() validators.Validator {
	var rules []validators.Validator
	if f.Required {
		rules = append(rules, validators.Required())
	}
	for _, rule := range f.Rules {
		if compiled := rule.compile(); compiled != nil {
			rules = append(rules, compiled)
		}
	}
	// On arrays the options constrain each element, not the slice itself.
	if len(f.Options) > 0 && f.Kind != KindArray {
		rules = append(rules, validators.OneOf(f.Options...))
	}
	switch len(rules) {
	case 0:
		return nil
	case 1:
		return rules[0]
	}
	return validators.All(rules...)
}

// compile maps one rule onto the validator set. Unknown kinds and malformed
// parameters disable the rule instead of failing the whole field.
func (r Rule) compile() validators.Validator {
	switch r.Kind {
	case RuleMin:
		if v, ok := parseFloat(r.Params["value"]); ok {
			if r.Params["exclusive"] == "true" {
				return validators.GreaterThan(v)
			}
			return validators.Min(v)
		}
	case RuleMax:
		if v, ok := parseFloat(r.Params["value"]); ok {
			if r.Params["exclusive"] == "true" {
				return validators.LessThan(v)
			}
			return validators.Max(v)
		}
	case RuleMinLength:
		if n, ok := parseInt(r.Params["value"]); ok {
			return validators.MinLength(n)
		}
	case RuleMaxLength:
		if n, ok := parseInt(r.Params["value"]); ok {
			return validators.MaxLength(n)
		}
	case RulePattern:
		if expr := r.Params["pattern"]; expr != "" {
			return validators.Pattern(expr)
		}
	case RuleOneOf:
		if raw := r.Params["values"]; raw != "" {
			members := strings.Split(raw, ",")
			allowed := make([]any, 0, len(members))
			for _, member := range members {
				allowed = append(allowed, strings.TrimSpace(member))
			}
			return validators.OneOf(allowed...)
		}
	case RuleEmail:
		return validators.Email()
	case RulePlainText:
		return validators.PlainText()
	}
	return nil
}

// Flatten returns the promptable leaves in declaration order. Group fields
// contribute their children with absolute dotted paths; array fields stay as
// single entries for the caller to expand element by element.
func (f Form) Flatten() []Field {
	out := make([]Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		appendLeaves(&out, "", field)
	}
	return out
}

func appendLeaves(out *[]Field, prefix string, field Field) {
	path := field.Path
	if prefix != "" {
		path = prefix + "." + path
	}
	if len(field.Fields) > 0 {
		for _, child := range field.Fields {
			appendLeaves(out, path, child)
		}
		return
	}
	field.Path = path
	*out = append(*out, field)
}

func parseFloat(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}
