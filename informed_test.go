package informed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/evankellogg/informed"
	"github.com/evankellogg/informed/pkg/field"
	"github.com/evankellogg/informed/pkg/prompt"
	"github.com/evankellogg/informed/pkg/schema"
	"github.com/evankellogg/informed/pkg/validators"
)

func TestControllerRoundTrip(t *testing.T) {
	controller := informed.New()

	var submitted map[string]any
	sub := controller.Subscribe(informed.TopicSubmit, func(evt informed.Event) {
		if values, ok := evt.Value.(map[string]any); ok {
			submitted = values
		}
	})
	defer sub.Close()

	name := informed.NewField("name", field.WithValidator(validators.Required()))
	name.Mount(controller.Updater())
	defer name.Unmount()

	name.SetValue("Ada")
	name.SetTouched(true)
	controller.SubmitForm(nil)

	want := map[string]any{"name": "Ada"}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submit payload mismatch (-want +got):\n%s", diff)
	}

	state := controller.State()
	if state.Pristine || state.Invalid {
		t.Fatalf("unexpected state: %+v", state)
	}
}

type scriptedDriver struct {
	inputs []string
	pos    int
}

func (d *scriptedDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if d.pos >= len(d.inputs) {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[d.pos]
	d.pos++
	return val, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return false, nil
}

func (d *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	return 0, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	return nil, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func TestCollect(t *testing.T) {
	definition := informed.Definition{
		Name:   "hello",
		Fields: []schema.Field{{Path: "name", Kind: schema.KindString}},
	}

	values, err := informed.Collect(context.Background(), definition,
		prompt.WithDriver(&scriptedDriver{inputs: []string{"Ada"}}))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
