// Package validators supplies composable value checks for field
// collaborators. The controller core stores whatever error values fields
// report and knows nothing about rules; everything here runs on the field
// side and reaches the form only as data through the updater surface.
//
// Every rule except Required passes a nil value, so optional fields do not
// fail constraints they never collected input for.
package validators

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Validator checks a single field value. A nil return means the value
// passes.
type Validator func(value any) error

// All chains rules left to right and returns the first failure.
func All(rules ...Validator) Validator {
	return func(value any) error {
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			if err := rule(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required rejects nil, blank strings, and empty sequences.
func Required() Validator {
	return func(value any) error {
		switch typed := value.(type) {
		case nil:
			return errors.New("required")
		case string:
			if strings.TrimSpace(typed) == "" {
				return errors.New("required")
			}
		case []any:
			if len(typed) == 0 {
				return errors.New("required")
			}
		}
		return nil
	}
}

// MinLength bounds the length of strings and sequences from below. Values
// without a length pass.
func MinLength(n int) Validator {
	return func(value any) error {
		length, ok := lengthOf(value)
		if !ok {
			return nil
		}
		if length < n {
			return fmt.Errorf("min length %d", n)
		}
		return nil
	}
}

// MaxLength bounds the length of strings and sequences from above.
func MaxLength(n int) Validator {
	return func(value any) error {
		length, ok := lengthOf(value)
		if !ok {
			return nil
		}
		if length > n {
			return fmt.Errorf("max length %d", n)
		}
		return nil
	}
}

// Min bounds numeric values from below. Nil passes; a non-numeric value is
// its own failure.
func Min(limit float64) Validator {
	return func(value any) error {
		if value == nil {
			return nil
		}
		v, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
		if v < limit {
			return fmt.Errorf("min %v", limit)
		}
		return nil
	}
}

// Max bounds numeric values from above.
func Max(limit float64) Validator {
	return func(value any) error {
		if value == nil {
			return nil
		}
		v, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
		if v > limit {
			return fmt.Errorf("max %v", limit)
		}
		return nil
	}
}

// GreaterThan is the exclusive form of Min.
func GreaterThan(limit float64) Validator {
	return func(value any) error {
		if value == nil {
			return nil
		}
		v, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
		if v <= limit {
			return fmt.Errorf("must be greater than %v", limit)
		}
		return nil
	}
}

// LessThan is the exclusive form of Max.
func LessThan(limit float64) Validator {
	return func(value any) error {
		if value == nil {
			return nil
		}
		v, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
		if v >= limit {
			return fmt.Errorf("must be less than %v", limit)
		}
		return nil
	}
}

// Pattern matches string values against the expression. An expression that
// does not compile disables the rule, mirroring how schema-derived rules
// degrade.
func Pattern(expr string) Validator {
	re, err := regexp.Compile(expr)
	return func(value any) error {
		if err != nil {
			return nil
		}
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return errors.New("does not match required pattern")
		}
		return nil
	}
}

// OneOf accepts only values equal to one of the allowed candidates. Numeric
// candidates compare across int/int64/float64 representations.
func OneOf(allowed ...any) Validator {
	return func(value any) error {
		if value == nil {
			return nil
		}
		for _, candidate := range allowed {
			if candidate == value {
				return nil
			}
			cf, okc := toFloat(candidate)
			vf, okv := toFloat(value)
			if okc && okv && cf == vf {
				return nil
			}
		}
		return fmt.Errorf("must be one of %v", allowed)
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email applies a pragmatic address shape check to string values.
func Email() Validator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if !emailPattern.MatchString(s) {
			return errors.New("invalid email")
		}
		return nil
	}
}

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// PlainText rejects string values that change under strict HTML
// sanitization, which catches embedded tags without blocking literal
// characters like & or <.
func PlainText() Validator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		cleaned := html.UnescapeString(plainSanitizer().Sanitize(s))
		if cleaned != s {
			return errors.New("must not contain markup")
		}
		return nil
	}
}

func plainSanitizer() *bluemonday.Policy {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy
}

func lengthOf(value any) (int, bool) {
	switch typed := value.(type) {
	case string:
		return len(typed), true
	case []any:
		return len(typed), true
	default:
		return 0, false
	}
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
