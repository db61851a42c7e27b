package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/evankellogg/informed/pkg/events"
	"github.com/evankellogg/informed/pkg/field"
	"github.com/evankellogg/informed/pkg/form"
	"github.com/evankellogg/informed/pkg/pathstore"
	"github.com/evankellogg/informed/pkg/relevance"
	"github.com/evankellogg/informed/pkg/schema"
)

const defaultMaxAttempts = 3

// Session drives one interactive fill of a form definition. Every field
// mounts onto a fresh controller so answers flow through the normal
// machinery: parsing, validation on change, dependency notification, and a
// final submit pass that gates the collected values.
type Session struct {
	definition  schema.Form
	driver      Driver
	controller  *form.Controller
	fields      []*field.Field
	prefill     map[string]any
	attempts    int
	keepMounted bool
	logger      *slog.Logger
}

// New builds a session for the definition. The default driver prompts on the
// terminal through survey.
func New(definition schema.Form, opts ...Option) (*Session, error) {
	if len(definition.Fields) == 0 {
		return nil, errors.New("prompt: definition declares no fields")
	}
	s := &Session{
		definition: definition,
		driver:     &surveyDriver{},
		attempts:   defaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Controller exposes the controller behind the most recent Run, for callers
// that keep fields mounted.
func (s *Session) Controller() *form.Controller {
	return s.controller
}

// Run prompts for every field in declaration order, submits, and returns the
// collected values. Validation failures that survive the attempt budget stay
// in the errors tree, block the submit, and surface as ErrInvalid; a user
// abort surfaces as ErrAborted.
func (s *Session) Run(ctx context.Context) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var controllerOpts []form.Option
	if s.logger != nil {
		controllerOpts = append(controllerOpts, form.WithLogger(s.logger))
	}
	s.controller = form.New(controllerOpts...)
	s.fields = nil
	defer func() {
		if !s.keepMounted {
			for _, f := range s.fields {
				f.Unmount()
			}
		}
	}()

	var submitted map[string]any
	sub := s.controller.Subscribe(form.TopicSubmit, func(evt events.Event) {
		if values, ok := evt.Value.(map[string]any); ok {
			submitted = values
		}
	})
	defer sub.Close()

	if s.definition.Title != "" {
		_ = s.driver.Info(ctx, s.definition.Title)
	}

	for _, fld := range s.definition.Fields {
		if err := s.promptField(ctx, fld); err != nil {
			return nil, err
		}
	}

	s.controller.SubmitForm(submitGuard{})
	if submitted == nil {
		for _, path := range s.controller.Fields() {
			if errVal, ok := s.controller.GetError(path); ok && errVal != nil {
				_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", path, errVal))
			}
		}
		return nil, ErrInvalid
	}
	return submitted, nil
}

type submitGuard struct{}

func (submitGuard) PreventDefault() {}

func (s *Session) promptField(ctx context.Context, fld schema.Field) error {
	if fld.RelevantWhen != "" {
		relevant, err := relevance.Eval(fld.RelevantWhen, s.controller.Values())
		if err != nil {
			return fmt.Errorf("prompt: relevance for %s: %w", fld.Path, err)
		}
		if !relevant {
			return nil
		}
	}

	switch {
	case fld.Kind == schema.KindObject || len(fld.Fields) > 0:
		for _, child := range fld.Fields {
			child.Path = fld.Path + "." + child.Path
			if err := s.promptField(ctx, child); err != nil {
				return err
			}
		}
		return nil
	case fld.Kind == schema.KindArray:
		return s.promptArray(ctx, fld)
	case len(fld.Options) > 0:
		return s.promptSelect(ctx, fld)
	case fld.Kind == schema.KindBoolean:
		return s.promptBoolean(ctx, fld)
	case fld.Kind == schema.KindInteger, fld.Kind == schema.KindNumber:
		return s.promptNumber(ctx, fld)
	default:
		return s.promptString(ctx, fld)
	}
}

// mountField registers a live field for the declaration. Registration seeds
// the trees, so prompts can read defaults back out of the controller.
func (s *Session) mountField(fld schema.Field) *field.Field {
	opts := []field.Option{field.WithValidateOnChange()}
	if validate := fld.Validator(); validate != nil {
		opts = append(opts, field.WithValidator(validate))
	}
	if len(fld.Notify) > 0 {
		opts = append(opts, field.WithNotify(fld.Notify...))
	}
	if initial, ok := s.initialFor(fld); ok {
		opts = append(opts, field.WithInitial(initial))
	}
	f := field.New(fld.Path, opts...)
	f.Mount(s.controller.Updater())
	s.fields = append(s.fields, f)
	return f
}

func (s *Session) initialFor(fld schema.Field) (any, bool) {
	if v, ok := pathstore.Get(s.prefill, fld.Path); ok && v != nil {
		return v, true
	}
	if fld.Initial != nil {
		return fld.Initial, true
	}
	return nil, false
}

func (s *Session) promptString(ctx context.Context, fld schema.Field) error {
	f := s.mountField(fld)

	defaultVal := ""
	if current, ok := s.controller.GetValue(fld.Path); ok && current != nil {
		defaultVal = fmt.Sprint(current)
	}

	for attempt := 0; s.withinBudget(attempt); attempt++ {
		cfg := InputConfig{Message: fld.DisplayLabel(), Default: defaultVal, Help: fld.Help}
		var response string
		var err error
		if fld.Secret {
			response, err = s.driver.Password(ctx, cfg)
		} else {
			response, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		f.SetValue(response)
		f.SetTouched(true)
		if errVal, ok := s.controller.GetError(fld.Path); ok && errVal != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, errVal))
			continue
		}
		return nil
	}
	return nil
}

func (s *Session) promptNumber(ctx context.Context, fld schema.Field) error {
	f := s.mountField(fld)

	defaultVal := ""
	if current, ok := s.controller.GetValue(fld.Path); ok && current != nil {
		defaultVal = fmt.Sprint(current)
	}

	for attempt := 0; s.withinBudget(attempt); attempt++ {
		input, err := s.driver.Input(ctx, InputConfig{Message: fld.DisplayLabel(), Default: defaultVal, Help: fld.Help})
		if err != nil {
			return err
		}

		var parsed any
		trimmed := strings.TrimSpace(input)
		switch {
		case trimmed == "":
			parsed = nil
		case fld.Kind == schema.KindInteger:
			n, perr := strconv.ParseInt(trimmed, 10, 64)
			if perr != nil {
				_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, perr))
				continue
			}
			parsed = n
		default:
			n, perr := strconv.ParseFloat(trimmed, 64)
			if perr != nil {
				_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, perr))
				continue
			}
			parsed = n
		}

		f.SetValue(parsed)
		f.SetTouched(true)
		if errVal, ok := s.controller.GetError(fld.Path); ok && errVal != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, errVal))
			continue
		}
		return nil
	}
	return nil
}

func (s *Session) promptBoolean(ctx context.Context, fld schema.Field) error {
	f := s.mountField(fld)

	defaultVal := false
	if current, ok := s.controller.GetValue(fld.Path); ok {
		if b, ok := current.(bool); ok {
			defaultVal = b
		}
	}

	for attempt := 0; s.withinBudget(attempt); attempt++ {
		response, err := s.driver.Confirm(ctx, ConfirmConfig{Message: fld.DisplayLabel(), Default: defaultVal, Help: fld.Help})
		if err != nil {
			return err
		}

		f.SetValue(response)
		f.SetTouched(true)
		if errVal, ok := s.controller.GetError(fld.Path); ok && errVal != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, errVal))
			continue
		}
		return nil
	}
	return nil
}

func (s *Session) promptSelect(ctx context.Context, fld schema.Field) error {
	f := s.mountField(fld)
	options := stringifyOptions(fld.Options)

	defaultIdx := -1
	if current, ok := s.controller.GetValue(fld.Path); ok && current != nil {
		defaultIdx = indexOf(options, fmt.Sprint(current))
	}

	for attempt := 0; s.withinBudget(attempt); attempt++ {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      fld.DisplayLabel(),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         fld.Help,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(fld.Options) {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", fld.Path))
			continue
		}

		f.SetValue(fld.Options[idx])
		f.SetTouched(true)
		if errVal, ok := s.controller.GetError(fld.Path); ok && errVal != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, errVal))
			continue
		}
		return nil
	}
	return nil
}

// promptArray mounts the array field itself as the anchor for slice-level
// rules, then collects elements one at a time under indexed paths. Arrays
// with declared options collapse to a multi-select instead.
func (s *Session) promptArray(ctx context.Context, fld schema.Field) error {
	f := s.mountField(fld)
	if len(fld.Options) > 0 {
		return s.promptMultiSelect(ctx, fld, f)
	}
	if fld.Item == nil {
		return fmt.Errorf("prompt: array field %s missing item template", fld.Path)
	}

	count := 0
	if current, ok := s.controller.GetValue(fld.Path); ok {
		if existing, ok := current.([]any); ok {
			count = len(existing)
		}
	}

	adding := true
	if count == 0 && !fld.Required {
		add, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add %s?", strings.ToLower(fld.DisplayLabel())),
			Default: false,
		})
		if err != nil {
			return err
		}
		adding = add
	} else if count > 0 {
		more, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add another?", Default: false})
		if err != nil {
			return err
		}
		adding = more
	}

	for adding {
		element := *fld.Item
		element.Path = fmt.Sprintf("%s[%d]", fld.Path, count)
		if element.Label == "" {
			element.Label = fmt.Sprintf("%s %d", fld.DisplayLabel(), count+1)
		}
		if err := s.promptField(ctx, element); err != nil {
			return err
		}
		count++

		more, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add another?", Default: false})
		if err != nil {
			return err
		}
		adding = more
	}

	current, _ := s.controller.GetValue(fld.Path)
	f.Validate(current)
	if errVal, ok := s.controller.GetError(fld.Path); ok && errVal != nil {
		_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, errVal))
	}
	return nil
}

func (s *Session) promptMultiSelect(ctx context.Context, fld schema.Field, f *field.Field) error {
	options := stringifyOptions(fld.Options)

	var defaults []int
	if current, ok := s.controller.GetValue(fld.Path); ok {
		if existing, ok := current.([]any); ok {
			defaults = indicesOf(options, stringifyOptions(existing))
		}
	}

	for attempt := 0; s.withinBudget(attempt); attempt++ {
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  fld.DisplayLabel(),
			Options:  options,
			Defaults: defaults,
			Help:     fld.Help,
		})
		if err != nil {
			return err
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(fld.Options) {
				selected = append(selected, fld.Options[idx])
			}
		}

		f.SetValue(selected)
		f.SetTouched(true)
		if errVal, ok := s.controller.GetError(fld.Path); ok && errVal != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", fld.Path, errVal))
			continue
		}
		return nil
	}
	return nil
}

func (s *Session) withinBudget(attempt int) bool {
	return s.attempts == 0 || attempt < s.attempts
}

func stringifyOptions(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
