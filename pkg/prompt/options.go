package prompt

import "log/slog"

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver used by the session.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMaxAttempts bounds how many times a field re-prompts after failed
// validation before the session moves on and leaves the error standing.
// Zero means unlimited.
func WithMaxAttempts(attempts int) Option {
	return func(s *Session) {
		if attempts >= 0 {
			s.attempts = attempts
		}
	}
}

// WithPrefill seeds initial values from a nested value tree. Prefilled
// entries take precedence over the definition's own initial values.
func WithPrefill(values map[string]any) Option {
	return func(s *Session) {
		s.prefill = values
	}
}

// WithKeepMounted leaves the fields mounted after Run so callers can inspect
// or keep driving the controller. By default the session unmounts everything
// on the way out.
func WithKeepMounted() Option {
	return func(s *Session) {
		s.keepMounted = true
	}
}

// WithLogger attaches a structured logger to the underlying controller.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}
