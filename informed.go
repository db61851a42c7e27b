// Package informed coordinates shared form state for decoupled field
// collaborators: dotted-path value, touched, and error trees, a synchronous
// event bus, validation plumbing, declarative definitions, and interactive
// collection built on top.
package informed

import (
	"context"

	"github.com/evankellogg/informed/pkg/events"
	"github.com/evankellogg/informed/pkg/field"
	"github.com/evankellogg/informed/pkg/form"
	"github.com/evankellogg/informed/pkg/prompt"
	"github.com/evankellogg/informed/pkg/schema"
)

// Controller aliases form.Controller, the coordinator owning the state trees.
type Controller = form.Controller

// State aliases form.State, a deep-copied point-in-time snapshot.
type State = form.State

// FieldState aliases form.FieldState, the seed applied when a field mounts.
type FieldState = form.FieldState

// Field aliases field.Field, the headless field collaborator.
type Field = field.Field

// Definition aliases schema.Form, a declarative form definition.
type Definition = schema.Form

// Topic aliases events.Topic, the bus channel identifier.
type Topic = events.Topic

// Event aliases events.Event as delivered to Subscribe handlers.
type Event = events.Event

// Subscription aliases events.Subscription; Close detaches the handler.
type Subscription = events.Subscription

// Topics emitted by the controller bus.
const (
	TopicChange = form.TopicChange
	TopicValue  = form.TopicValue
	TopicSubmit = form.TopicSubmit
)

// New constructs a form controller.
func New(options ...form.Option) *form.Controller {
	return form.New(options...)
}

// NewField constructs a headless field bound to the given path. Mount it
// with Controller.Updater to seed state and start receiving resets.
func NewField(path string, options ...field.Option) *field.Field {
	return field.New(path, options...)
}

// Collect builds a prompt session for the definition, runs it, and returns
// the collected values. It is the simplest entry point for callers that just
// want answers from the terminal.
func Collect(ctx context.Context, definition schema.Form, options ...prompt.Option) (map[string]any, error) {
	session, err := prompt.New(definition, options...)
	if err != nil {
		return nil, err
	}
	return session.Run(ctx)
}
