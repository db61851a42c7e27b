package form

import (
	"github.com/evankellogg/informed/pkg/events"
	"github.com/evankellogg/informed/pkg/pathstore"
)

// Topics published by the controller. "change" fires on any tree mutation,
// "value" specifically on value writes, "submit" only after a fully valid
// SubmitForm pass.
const (
	TopicChange events.Topic = "change"
	TopicValue  events.Topic = "value"
	TopicSubmit events.Topic = "submit"
)

// Controller coordinates form state for a dynamically registering set of
// fields. The zero value is not usable; construct with New. A Controller and
// everything it calls into must stay on a single goroutine (see the package
// documentation).
type Controller struct {
	values  map[string]any
	touched map[string]any
	errors  map[string]any
	fields  map[string]Binding
	order   []string
	bus     *events.Bus
}

// New builds an empty controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		values:  make(map[string]any),
		touched: make(map[string]any),
		errors:  make(map[string]any),
		fields:  make(map[string]Binding),
		bus:     events.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Subscribe attaches a handler to one of the controller's topics. Handlers
// run synchronously on the mutating call.
func (c *Controller) Subscribe(topic events.Topic, handler events.Handler) *events.Subscription {
	return c.bus.Subscribe(topic, handler)
}

// GetValue reads the values tree at path. The second return is false when
// the path does not resolve.
func (c *Controller) GetValue(path string) (any, bool) {
	return pathstore.Get(c.values, path)
}

// GetTouched reads the touched tree at path.
func (c *Controller) GetTouched(path string) (any, bool) {
	return pathstore.Get(c.touched, path)
}

// GetError reads the errors tree at path.
func (c *Controller) GetError(path string) (any, bool) {
	return pathstore.Get(c.errors, path)
}

// SetValue delegates to the registered field's own SetValue so the field can
// apply parsing and validation policy before the tree write. Unregistered
// paths are ignored; use the Updater for direct writes.
func (c *Controller) SetValue(path string, value any) {
	if binding, ok := c.fields[path]; ok {
		binding.API.SetValue(value)
	}
}

// SetTouched delegates to the registered field's own SetTouched.
func (c *Controller) SetTouched(path string, touched any) {
	if binding, ok := c.fields[path]; ok {
		binding.API.SetTouched(touched)
	}
}

// SetError delegates to the registered field's own SetError.
func (c *Controller) SetError(path string, err any) {
	if binding, ok := c.fields[path]; ok {
		binding.API.SetError(err)
	}
}

// Fields returns the registered paths in registration order.
func (c *Controller) Fields() []string {
	return append([]string(nil), c.order...)
}

// Pristine reports whether both the touched and values trees are empty. Nil
// leaves and empty containers count as empty.
func (c *Controller) Pristine() bool {
	return pathstore.Empty(c.touched) && pathstore.Empty(c.values)
}

// Dirty is the negation of Pristine.
func (c *Controller) Dirty() bool {
	return !c.Pristine()
}

// Invalid reports whether the errors tree holds any defined leaf.
func (c *Controller) Invalid() bool {
	return !pathstore.Empty(c.errors)
}

// Valid is the negation of Invalid.
func (c *Controller) Valid() bool {
	return !c.Invalid()
}

// Reset asks every registered field to reset itself. Each field reseeds its
// own slots back through the Updater; the controller clears nothing directly.
// A single change event follows the fan-out.
func (c *Controller) Reset() {
	for _, path := range c.snapshotOrder() {
		if binding, ok := c.fields[path]; ok {
			binding.API.Reset()
		}
	}
	c.bus.Emit(events.Event{Topic: TopicChange})
}

// SubmitForm suppresses the event's default action, forces a validation pass
// over every registered field in registration order, emits change, and emits
// submit carrying the values snapshot only if the form came out valid. An
// invalid pass leaves its evidence in the errors tree for the caller to read.
func (c *Controller) SubmitForm(event SubmitEvent) {
	if event != nil {
		event.PreventDefault()
	}
	for _, path := range c.snapshotOrder() {
		binding, ok := c.fields[path]
		if !ok {
			continue
		}
		current, _ := pathstore.Get(c.values, path)
		binding.API.Validate(current)
	}
	c.bus.Emit(events.Event{Topic: TopicChange})
	if c.Valid() {
		c.bus.Emit(events.Event{Topic: TopicSubmit, Value: c.Values()})
	}
}

// register inserts or overwrites a binding and seeds the trees from the
// field's initial state. Seeding writes emit change/value but never the
// notification fan-out; only user-driven changes cascade. Re-registering a
// path keeps its original position in registration order.
func (c *Controller) register(path string, seed FieldState, binding Binding) {
	if path == "" || binding.API == nil {
		return
	}
	if _, exists := c.fields[path]; !exists {
		c.order = append(c.order, path)
	}
	binding.Notify = append([]string(nil), binding.Notify...)
	c.fields[path] = binding

	c.setValue(path, seed.Value, false)
	c.setTouched(path, seed.Touched)
	c.setError(path, seed.Error)
}

// deregister drops the registry entry and purges the path's subtree from all
// three trees. Unknown paths purge nothing and raise nothing; the change
// event fires either way.
func (c *Controller) deregister(path string) {
	if path == "" {
		return
	}
	delete(c.fields, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	pathstore.Delete(c.values, path)
	pathstore.Delete(c.touched, path)
	pathstore.Delete(c.errors, path)
	c.bus.Emit(events.Event{Topic: TopicChange, Path: path})
}

// setValue writes the values tree, emits change and value, and, when notify
// is set, runs the one-level dependency push: every path on the source
// field's notify list that is currently registered gets a synchronous
// Validate call with its current value. The push does not cascade past the
// listed targets, does not deduplicate repeated targets, and does not guard
// against notify cycles.
func (c *Controller) setValue(path string, value any, notify bool) {
	if path == "" {
		return
	}
	if err := pathstore.Set(c.values, path, value); err != nil {
		return
	}
	c.bus.Emit(events.Event{Topic: TopicChange, Path: path})
	c.bus.Emit(events.Event{Topic: TopicValue, Path: path, Value: value})

	if !notify {
		return
	}
	binding, ok := c.fields[path]
	if !ok {
		return
	}
	for _, target := range binding.Notify {
		dep, ok := c.fields[target]
		if !ok {
			continue
		}
		current, _ := pathstore.Get(c.values, target)
		dep.API.Validate(current)
	}
}

func (c *Controller) setTouched(path string, touched any) {
	if path == "" {
		return
	}
	if err := pathstore.Set(c.touched, path, touched); err != nil {
		return
	}
	c.bus.Emit(events.Event{Topic: TopicChange, Path: path})
}

func (c *Controller) setError(path string, value any) {
	if path == "" {
		return
	}
	if err := pathstore.Set(c.errors, path, value); err != nil {
		return
	}
	c.bus.Emit(events.Event{Topic: TopicChange, Path: path})
}

// snapshotOrder copies the registration order so fan-out loops stay stable
// while callbacks register or deregister fields mid-flight.
func (c *Controller) snapshotOrder() []string {
	return append([]string(nil), c.order...)
}
