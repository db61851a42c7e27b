// Package events provides the synchronous in-process bus the form controller
// publishes on. Delivery happens inline on the emitting goroutine: no worker
// pool, no buffering, no locking. The bus shares the controller's ownership
// rule, so all calls must come from the goroutine that drives the form.
package events

// Topic names a class of event on the bus.
type Topic string

// Event is the payload handed to handlers. Path and Value are meaningful for
// the topics that concern a single field; form-wide topics leave them zero.
type Event struct {
	Topic Topic
	Path  string
	Value any
}

// Handler receives events synchronously on the emitting goroutine. Handlers
// may subscribe, unsubscribe, and emit from inside a delivery.
type Handler func(Event)

// Subscription is an active registration on a Bus.
type Subscription struct {
	topic   Topic
	handler Handler
	bus     *Bus
}

// Close unregisters the subscription. Closing twice is a no-op. A
// subscription closed during a delivery still receives the event being
// delivered; the removal takes effect on the next emit.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

// Bus dispatches events to subscribed handlers in registration order.
type Bus struct {
	registry map[Topic][]*Subscription
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{registry: make(map[Topic][]*Subscription)}
}

// Subscribe appends a handler to the topic's delivery list.
func (b *Bus) Subscribe(topic Topic, handler Handler) *Subscription {
	sub := &Subscription{topic: topic, handler: handler, bus: b}
	b.registry[topic] = append(b.registry[topic], sub)
	return sub
}

// Emit delivers the event to every handler subscribed to its topic, in
// registration order. Delivery walks a snapshot of the list, so handlers that
// subscribe or close during delivery change only subsequent emits.
func (b *Bus) Emit(evt Event) {
	subs := b.registry[evt.Topic]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]*Subscription, len(subs))
	copy(snapshot, subs)
	for _, sub := range snapshot {
		sub.handler(evt)
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	subs := b.registry[sub.topic]
	for i, s := range subs {
		if s == sub {
			b.registry[sub.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.registry[sub.topic]) == 0 {
		delete(b.registry, sub.topic)
	}
}
