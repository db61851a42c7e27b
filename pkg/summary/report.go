package summary

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/evankellogg/informed/pkg/form"
	"github.com/evankellogg/informed/pkg/pathstore"
	"github.com/evankellogg/informed/pkg/schema"
)

const maskedValue = "******"

// FieldReport is one leaf of the snapshot. Value carries the raw tree entry;
// Display is the text rendering, with secrets masked.
type FieldReport struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	Value   any    `json:"value"`
	Display string `json:"display"`
	Touched bool   `json:"touched"`
	Error   string `json:"error,omitempty"`
	Secret  bool   `json:"secret"`
}

// Report is the render input: form metadata, per-field rows in declaration
// order, and the raw values tree.
type Report struct {
	Name      string         `json:"name,omitempty"`
	Title     string         `json:"title,omitempty"`
	Generated time.Time      `json:"generated"`
	Valid     bool           `json:"valid"`
	Fields    []FieldReport  `json:"fields"`
	Values    map[string]any `json:"values"`
}

// Snapshot flattens the definition against a state snapshot. Groups
// contribute one row per leaf; arrays contribute a single row carrying the
// whole slice.
func Snapshot(definition schema.Form, state form.State) Report {
	leaves := definition.Flatten()
	fields := make([]FieldReport, 0, len(leaves))
	for _, leaf := range leaves {
		value, _ := pathstore.Get(state.Values, leaf.Path)

		touched := false
		if raw, ok := pathstore.Get(state.Touched, leaf.Path); ok {
			if b, ok := raw.(bool); ok {
				touched = b
			}
		}

		errMsg := ""
		if raw, ok := pathstore.Get(state.Errors, leaf.Path); ok && raw != nil {
			errMsg = fmt.Sprint(raw)
		}

		fields = append(fields, FieldReport{
			Path:    leaf.Path,
			Label:   leaf.DisplayLabel(),
			Value:   value,
			Display: displayValue(value, leaf.Secret),
			Touched: touched,
			Error:   errMsg,
			Secret:  leaf.Secret,
		})
	}

	return Report{
		Name:      definition.Name,
		Title:     definition.Title,
		Generated: time.Now().UTC(),
		Valid:     !state.Invalid,
		Fields:    fields,
		Values:    state.Values,
	}
}

func displayValue(value any, secret bool) string {
	if value == nil {
		return "(none)"
	}
	if secret {
		return maskedValue
	}
	switch v := value.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, displayValue(item, false))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	default:
		return fmt.Sprint(v)
	}
}
