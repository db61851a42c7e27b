package form

import (
	"log/slog"

	"github.com/evankellogg/informed/pkg/events"
)

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithLogger subscribes a debug-level observer to the controller's topics.
// Logging rides the bus like any other subscriber, so the mutation paths stay
// emit-only.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger == nil {
			return
		}
		c.bus.Subscribe(TopicChange, func(evt events.Event) {
			logger.Debug("form state changed", "path", evt.Path)
		})
		c.bus.Subscribe(TopicValue, func(evt events.Event) {
			logger.Debug("field value written", "path", evt.Path, "value", evt.Value)
		})
		c.bus.Subscribe(TopicSubmit, func(events.Event) {
			logger.Debug("form submitted")
		})
	}
}
