// Package field provides a headless field collaborator for the form
// controller. A Field implements form.FieldAPI, holds the field-side policy
// (initial state, parser, validator, validation triggers, notify list), and
// pushes every state change through the Updater handle it receives at mount
// time. Anything that collects input, from a prompt session to a test,
// can drive a Field without caring about the controller's internals.
package field

import (
	"github.com/evankellogg/informed/pkg/form"
	"github.com/evankellogg/informed/pkg/validators"
)

// Field is one named input's collaborator. It is not safe for concurrent
// use; like the controller it belongs to a single goroutine.
type Field struct {
	path             string
	initial          form.FieldState
	validator        validators.Validator
	notify           []string
	parser           func(value any) any
	validateOnChange bool
	validateOnBlur   bool

	updater form.Updater
	mounted bool
	value   any
}

// New builds an unmounted field for the given path.
func New(path string, opts ...Option) *Field {
	f := &Field{path: path}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.value = f.initial.Value
	return f
}

// Path returns the field's address in the form trees.
func (f *Field) Path() string {
	return f.path
}

// Value returns the field's local copy of its current value.
func (f *Field) Value() any {
	return f.value
}

// Mounted reports whether the field is currently registered.
func (f *Field) Mounted() bool {
	return f.mounted
}

// Mount registers the field with a controller through its updater handle,
// seeding the trees from the field's initial state. Mounting an already
// mounted field re-registers it; the last registration wins.
func (f *Field) Mount(updater form.Updater) {
	if updater.Register == nil {
		return
	}
	f.updater = updater
	f.mounted = true
	f.value = f.initial.Value
	updater.Register(f.path, f.initial, form.Binding{API: f, Notify: f.notify})
}

// Unmount deregisters the field, purging its slots from the form trees.
// Unmounting an unmounted field is a no-op.
func (f *Field) Unmount() {
	if !f.mounted {
		return
	}
	f.mounted = false
	f.updater.Deregister(f.path)
}

// SetValue runs the parser, optionally validates on change, and writes the
// value with notification fan-out. Calls on an unmounted field are dropped.
func (f *Field) SetValue(value any) {
	if !f.mounted {
		return
	}
	if f.parser != nil {
		value = f.parser(value)
	}
	f.value = value
	if f.validateOnChange {
		f.Validate(value)
	}
	f.updater.SetValue(f.path, value, true)
}

// SetTouched writes the touched slot and optionally validates on blur using
// the field's current value.
func (f *Field) SetTouched(touched any) {
	if !f.mounted {
		return
	}
	f.updater.SetTouched(f.path, touched)
	if f.validateOnBlur {
		f.Validate(f.value)
	}
}

// SetError writes the error slot verbatim.
func (f *Field) SetError(err any) {
	if !f.mounted {
		return
	}
	f.updater.SetError(f.path, err)
}

// Validate runs the configured validator against the given value and pushes
// the outcome: the failure message on error, nil to clear. A field without a
// validator always clears.
func (f *Field) Validate(value any) {
	if !f.mounted {
		return
	}
	if f.validator == nil {
		f.updater.SetError(f.path, nil)
		return
	}
	if err := f.validator(value); err != nil {
		f.updater.SetError(f.path, err.Error())
		return
	}
	f.updater.SetError(f.path, nil)
}

// Reset reseeds value, touched, and error from the initial state. The value
// write skips notification fan-out: a reset is not a user-driven change, the
// same rule registration seeding follows.
func (f *Field) Reset() {
	if !f.mounted {
		return
	}
	f.value = f.initial.Value
	f.updater.SetValue(f.path, f.initial.Value, false)
	f.updater.SetTouched(f.path, f.initial.Touched)
	f.updater.SetError(f.path, f.initial.Error)
}
