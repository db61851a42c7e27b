package form

// FieldAPI is the capability surface every registered field collaborator must
// implement. The controller treats all five methods as required: Validate and
// Reset are invoked during notification fan-out, submission, and form reset,
// and may call back into the controller through the Updater.
type FieldAPI interface {
	SetValue(value any)
	SetTouched(touched any)
	SetError(err any)
	Validate(value any)
	Reset()
}

// Binding is the registry entry for one field: its API plus the paths of the
// fields to re-validate whenever this field's value changes. Notify is an
// ordered one-level push; targets that are not currently registered are
// skipped silently.
type Binding struct {
	API    FieldAPI
	Notify []string
}

// FieldState carries the initial slots a field seeds into the trees at
// registration time.
type FieldState struct {
	Value   any
	Touched any
	Error   any
}

// SubmitEvent is the trigger handed to SubmitForm. PreventDefault suppresses
// whatever default action the event's origin would otherwise take. A nil
// event is allowed for programmatic submission.
type SubmitEvent interface {
	PreventDefault()
}
