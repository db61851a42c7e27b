package form

// Updater is the handle a controller gives to field collaborators: a struct
// of function references covering the five mutations fields are allowed to
// request. Collaborators hold the Updater, never the Controller, so the
// surface a field can reach stays explicit.
type Updater struct {
	// Register inserts or overwrites the binding at path and seeds the trees
	// from the field's initial state without triggering notification fan-out.
	// An empty path or a binding without an API is ignored.
	Register func(path string, seed FieldState, binding Binding)

	// Deregister removes the binding and purges the path's subtrees.
	Deregister func(path string)

	// SetValue writes the values tree directly. notify controls the one-level
	// dependency push to the field's notify list.
	SetValue func(path string, value any, notify bool)

	// SetTouched writes the touched tree directly.
	SetTouched func(path string, touched any)

	// SetError writes the errors tree directly. Writing nil clears the
	// field's error.
	SetError func(path string, err any)
}

// Updater returns the capability handle for this controller. Handles remain
// valid for the controller's lifetime; a deregistered field's stale handle
// degrades to tolerated no-op semantics on unknown paths.
func (c *Controller) Updater() Updater {
	return Updater{
		Register:   c.register,
		Deregister: c.deregister,
		SetValue:   c.setValue,
		SetTouched: c.setTouched,
		SetError:   c.setError,
	}
}
