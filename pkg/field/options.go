package field

import "github.com/evankellogg/informed/pkg/validators"

// Option configures a Field at construction time.
type Option func(*Field)

// WithInitial seeds the field's initial value.
func WithInitial(value any) Option {
	return func(f *Field) {
		f.initial.Value = value
	}
}

// WithInitialTouched seeds the field's initial touched slot.
func WithInitialTouched(touched any) Option {
	return func(f *Field) {
		f.initial.Touched = touched
	}
}

// WithValidator sets the rule Validate runs.
func WithValidator(v validators.Validator) Option {
	return func(f *Field) {
		f.validator = v
	}
}

// WithNotify lists the field paths to re-validate whenever this field's
// value changes.
func WithNotify(paths ...string) Option {
	return func(f *Field) {
		f.notify = append(f.notify, paths...)
	}
}

// WithValidateOnChange validates every SetValue before the write lands.
func WithValidateOnChange() Option {
	return func(f *Field) {
		f.validateOnChange = true
	}
}

// WithValidateOnBlur validates the current value on every SetTouched.
func WithValidateOnBlur() Option {
	return func(f *Field) {
		f.validateOnBlur = true
	}
}

// WithParser transforms raw input before it is stored, e.g. string to int
// conversion for numeric prompts.
func WithParser(parse func(value any) any) Option {
	return func(f *Field) {
		f.parser = parse
	}
}
