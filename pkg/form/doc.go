// Package form implements the state coordinator that sits between field
// collaborators and whatever owns the form. A Controller keeps three nested
// trees addressed by dotted paths (values, touched, errors), an
// insertion-ordered registry of field bindings, and a synchronous event bus
// publishing "change", "value", and "submit". Pristine, dirty, and invalid
// are derived from the trees on every read and never cached.
//
// Fields register through the Updater handle and expose a FieldAPI the
// controller calls back into for validation and reset. All of it runs on one
// goroutine: every mutation completes before returning, but may synchronously
// invoke collaborator callbacks that re-enter the controller. There are no
// locks, so a Controller must only ever be driven from a single goroutine.
package form
