package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/evankellogg/informed/pkg/events"
	"github.com/evankellogg/informed/pkg/form"
)

// stubField is a minimal field collaborator: it holds the updater handle the
// way a real field does and records the calls the controller makes back into
// it. check, when set, turns Validate into a rule that pushes its result
// through SetError.
type stubField struct {
	path    string
	updater form.Updater
	initial form.FieldState
	notify  []string
	check   func(value any) any

	validated []any
	resets    int
	onReset   func()
}

func (f *stubField) mount() {
	f.updater.Register(f.path, f.initial, form.Binding{API: f, Notify: f.notify})
}

func (f *stubField) SetValue(value any) {
	f.updater.SetValue(f.path, value, true)
}

func (f *stubField) SetTouched(touched any) {
	f.updater.SetTouched(f.path, touched)
}

func (f *stubField) SetError(err any) {
	f.updater.SetError(f.path, err)
}

func (f *stubField) Validate(value any) {
	f.validated = append(f.validated, value)
	if f.check != nil {
		f.updater.SetError(f.path, f.check(value))
	}
}

func (f *stubField) Reset() {
	f.resets++
	if f.onReset != nil {
		f.onReset()
		return
	}
	f.updater.SetValue(f.path, f.initial.Value, false)
	f.updater.SetTouched(f.path, f.initial.Touched)
	f.updater.SetError(f.path, f.initial.Error)
}

type submitStub struct {
	prevented int
}

func (s *submitStub) PreventDefault() { s.prevented++ }

func newStub(c *form.Controller, path string) *stubField {
	return &stubField{path: path, updater: c.Updater()}
}

func TestRegister_SeedsState(t *testing.T) {
	c := form.New()

	values := 0
	c.Subscribe(form.TopicValue, func(events.Event) { values++ })

	target := newStub(c, "owner.email")
	target.mount()

	source := newStub(c, "name")
	source.initial = form.FieldState{Value: "v0", Touched: true, Error: "e0"}
	source.notify = []string{"owner.email"}
	source.mount()

	if got, ok := c.GetValue("name"); !ok || got != "v0" {
		t.Fatalf("seeded value: got %v, %v", got, ok)
	}
	if got, ok := c.GetTouched("name"); !ok || got != true {
		t.Fatalf("seeded touched: got %v, %v", got, ok)
	}
	if got, ok := c.GetError("name"); !ok || got != "e0" {
		t.Fatalf("seeded error: got %v, %v", got, ok)
	}

	// Each registration writes its value slot exactly once and never runs
	// the notification fan-out.
	if values != 2 {
		t.Fatalf("expected 2 value events, got %d", values)
	}
	if len(target.validated) != 0 {
		t.Fatalf("registration seeding must not notify, got %v", target.validated)
	}
}

func TestRegister_LastOneWinsKeepsOrder(t *testing.T) {
	c := form.New()

	first := newStub(c, "name")
	first.mount()
	other := newStub(c, "email")
	other.mount()

	replacement := newStub(c, "name")
	replacement.mount()

	want := []string{"name", "email"}
	if diff := cmp.Diff(want, c.Fields()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	c.SetValue("name", "x")
	if len(replacement.validated) != 0 || first.resets != 0 {
		t.Fatalf("unexpected callback state")
	}

	c.Reset()
	if first.resets != 0 || replacement.resets != 1 {
		t.Fatalf("reset went to the stale binding: first=%d replacement=%d", first.resets, replacement.resets)
	}
}

func TestSetValue_NotifiesDependentsOnce(t *testing.T) {
	c := form.New()

	dependent := newStub(c, "confirm")
	dependent.initial = form.FieldState{Value: "secret0"}
	dependent.mount()

	source := newStub(c, "password")
	source.notify = []string{"confirm"}
	source.mount()

	source.SetValue("hunter2")

	want := []any{"secret0"}
	if diff := cmp.Diff(want, dependent.validated); diff != "" {
		t.Fatalf("dependent validation mismatch (-want +got):\n%s", diff)
	}
	if got, _ := c.GetValue("password"); got != "hunter2" {
		t.Fatalf("value not written: %v", got)
	}
}

func TestSetValue_MissingTargetSkipped(t *testing.T) {
	c := form.New()

	source := newStub(c, "password")
	source.notify = []string{"confirm"}
	source.mount()

	source.SetValue("hunter2")

	if got, _ := c.GetValue("password"); got != "hunter2" {
		t.Fatalf("value not written: %v", got)
	}
}

func TestSetValue_RepeatedTargetsNotDeduplicated(t *testing.T) {
	c := form.New()

	dependent := newStub(c, "confirm")
	dependent.mount()

	source := newStub(c, "password")
	source.notify = []string{"confirm", "confirm"}
	source.mount()

	source.SetValue("hunter2")

	if len(dependent.validated) != 2 {
		t.Fatalf("expected 2 validate calls, got %d", len(dependent.validated))
	}
}

func TestSetValue_NoNotifyWithoutRegistration(t *testing.T) {
	c := form.New()

	dependent := newStub(c, "confirm")
	dependent.mount()

	// A direct updater write on an unregistered path still lands in the tree
	// and emits, but has no binding to source a notify list from.
	c.Updater().SetValue("password", "hunter2", true)

	if got, _ := c.GetValue("password"); got != "hunter2" {
		t.Fatalf("value not written: %v", got)
	}
	if len(dependent.validated) != 0 {
		t.Fatalf("unexpected validation: %v", dependent.validated)
	}
}

func TestPristineDirty(t *testing.T) {
	c := form.New()

	if !c.Pristine() || c.Dirty() {
		t.Fatalf("fresh controller must be pristine")
	}

	// Zero-state registration seeds nil leaves, which do not count as
	// defined values.
	field := newStub(c, "name")
	field.mount()
	if !c.Pristine() {
		t.Fatalf("nil seeding must keep the form pristine")
	}

	field.SetValue("x")
	if c.Pristine() || !c.Dirty() {
		t.Fatalf("value write must dirty the form")
	}
}

func TestTouchAloneDirties(t *testing.T) {
	c := form.New()

	field := newStub(c, "name")
	field.mount()

	field.SetTouched(true)
	if c.Pristine() {
		t.Fatalf("touched write must dirty the form")
	}
}

func TestInvalid_TracksErrorTree(t *testing.T) {
	c := form.New()

	field := newStub(c, "name")
	field.mount()

	if c.Invalid() || !c.Valid() {
		t.Fatalf("fresh controller must be valid")
	}

	field.SetError("required")
	if !c.Invalid() {
		t.Fatalf("error write must invalidate the form")
	}

	field.SetError(nil)
	if c.Invalid() {
		t.Fatalf("clearing the last error must restore validity")
	}
}

func TestSubmitForm_InvalidBlocksSubmit(t *testing.T) {
	c := form.New()

	bad := newStub(c, "name")
	bad.check = func(any) any { return "required" }
	bad.mount()

	good := newStub(c, "email")
	good.initial = form.FieldState{Value: "a@b.c"}
	good.check = func(any) any { return nil }
	good.mount()

	submits := 0
	c.Subscribe(form.TopicSubmit, func(events.Event) { submits++ })

	ev := &submitStub{}
	c.SubmitForm(ev)

	if ev.prevented != 1 {
		t.Fatalf("default action not suppressed")
	}
	if len(bad.validated) != 1 || len(good.validated) != 1 {
		t.Fatalf("validation pass incomplete: %d, %d", len(bad.validated), len(good.validated))
	}
	if !c.Invalid() {
		t.Fatalf("expected invalid after failing pass")
	}
	if submits != 0 {
		t.Fatalf("submit must not fire while invalid")
	}
}

func TestSubmitForm_ValidEmitsOnce(t *testing.T) {
	c := form.New()

	name := newStub(c, "name")
	name.initial = form.FieldState{Value: "informed"}
	name.check = func(any) any { return nil }
	name.mount()

	submits := 0
	var payload any
	c.Subscribe(form.TopicSubmit, func(evt events.Event) {
		submits++
		payload = evt.Value
	})

	c.SubmitForm(nil)

	if submits != 1 {
		t.Fatalf("expected one submit event, got %d", submits)
	}
	want := map[string]any{"name": "informed"}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("submit payload mismatch (-want +got):\n%s", diff)
	}
	if len(name.validated) != 1 {
		t.Fatalf("expected one validate call, got %d", len(name.validated))
	}
}

func TestSubmitForm_ValidatesWithCurrentValues(t *testing.T) {
	c := form.New()

	field := newStub(c, "count")
	field.mount()
	field.SetValue(41)
	field.SetValue(42)

	c.SubmitForm(nil)

	want := []any{42}
	if diff := cmp.Diff(want, field.validated); diff != "" {
		t.Fatalf("validated values mismatch (-want +got):\n%s", diff)
	}
}

func TestDeregister_PurgesState(t *testing.T) {
	c := form.New()

	field := newStub(c, "owner.email")
	field.mount()
	field.SetValue("a@b.c")
	field.SetTouched(true)
	field.SetError("bad domain")

	keep := newStub(c, "owner.phone")
	keep.mount()
	keep.SetValue("555")

	c.Updater().Deregister("owner.email")

	if _, ok := c.GetValue("owner.email"); ok {
		t.Fatalf("value survived deregistration")
	}
	if diff := cmp.Diff([]string{"owner.phone"}, c.Fields()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}

	state := c.State()
	wantValues := map[string]any{"owner": map[string]any{"phone": "555"}}
	if diff := cmp.Diff(wantValues, state.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	// Double deregistration stays silent.
	c.Updater().Deregister("owner.email")
}

func TestReset_FansOutOnce(t *testing.T) {
	c := form.New()

	name := newStub(c, "name")
	name.initial = form.FieldState{Value: "informed"}
	name.mount()
	email := newStub(c, "email")
	email.mount()

	name.SetValue("changed")
	email.SetValue("x@y.z")
	email.SetTouched(true)
	email.SetError("bad")

	c.Reset()

	if name.resets != 1 || email.resets != 1 {
		t.Fatalf("reset fan-out counts: name=%d email=%d", name.resets, email.resets)
	}
	if got, _ := c.GetValue("name"); got != "informed" {
		t.Fatalf("name not restored: %v", got)
	}
	if got, _ := c.GetValue("email"); got != nil {
		t.Fatalf("email not cleared: %v", got)
	}
	if got, _ := c.GetTouched("email"); got != nil {
		t.Fatalf("touched not cleared: %v", got)
	}
	if c.Invalid() {
		t.Fatalf("expected errors cleared after reset")
	}
}

func TestFormAPI_DelegatesToField(t *testing.T) {
	c := form.New()

	dependent := newStub(c, "confirm")
	dependent.mount()

	source := newStub(c, "password")
	source.notify = []string{"confirm"}
	source.mount()

	// Going through the Form API must hit the field's own SetValue, which
	// writes with notify=true.
	c.SetValue("password", "hunter2")
	if len(dependent.validated) != 1 {
		t.Fatalf("delegated write skipped the field: %v", dependent.validated)
	}

	c.SetTouched("password", true)
	if got, _ := c.GetTouched("password"); got != true {
		t.Fatalf("touched not delegated: %v", got)
	}

	c.SetError("password", "weak")
	if got, _ := c.GetError("password"); got != "weak" {
		t.Fatalf("error not delegated: %v", got)
	}

	// Unregistered paths are ignored by the delegating surface.
	c.SetValue("ghost", "x")
	if _, ok := c.GetValue("ghost"); ok {
		t.Fatalf("delegating surface wrote an unregistered path")
	}
}

func TestState_IsDeepSnapshot(t *testing.T) {
	c := form.New()

	field := newStub(c, "owner.email")
	field.mount()
	field.SetValue("a@b.c")

	state := c.State()
	if state.Pristine || !state.Dirty || state.Invalid {
		t.Fatalf("derived booleans wrong: %+v", state)
	}

	owner := state.Values["owner"].(map[string]any)
	owner["email"] = "mutated"

	if got, _ := c.GetValue("owner.email"); got != "a@b.c" {
		t.Fatalf("snapshot mutation leaked into controller: %v", got)
	}
}

func TestReentrant_ValidateWritesBack(t *testing.T) {
	c := form.New()

	confirm := newStub(c, "confirm")
	confirm.mount()

	password := newStub(c, "password")
	password.notify = []string{"confirm"}
	password.mount()

	// The dependent's validation writes an error back through the updater
	// from inside the source's setValue call stack.
	confirm.check = func(value any) any {
		current, _ := c.GetValue("password")
		if value != current {
			return "passwords differ"
		}
		return nil
	}

	password.SetValue("hunter2")
	if !c.Invalid() {
		t.Fatalf("expected reentrant error write to invalidate the form")
	}

	c.Updater().SetValue("confirm", "hunter2", false)
	password.SetValue("hunter2")
	if c.Invalid() {
		t.Fatalf("expected matching values to clear the error, errors: %+v", c.State().Errors)
	}
}

func TestReentrant_DeregisterDuringSubmit(t *testing.T) {
	c := form.New()

	third := newStub(c, "third")
	third.mount()

	first := newStub(c, "first")
	first.check = func(any) any {
		c.Updater().Deregister("third")
		return nil
	}
	first.mount()

	// Registration order: third, first. Submit validates third, then first,
	// whose check drops third mid-pass without breaking the loop.
	c.SubmitForm(nil)

	if len(third.validated) != 1 || len(first.validated) != 1 {
		t.Fatalf("validation counts: third=%d first=%d", len(third.validated), len(first.validated))
	}
	if diff := cmp.Diff([]string{"first"}, c.Fields()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestReentrant_DeregisterBeforeReached(t *testing.T) {
	c := form.New()

	first := newStub(c, "first")
	first.check = func(any) any {
		c.Updater().Deregister("second")
		return nil
	}
	first.mount()

	second := newStub(c, "second")
	second.mount()

	c.SubmitForm(nil)

	if len(second.validated) != 0 {
		t.Fatalf("deregistered field still validated: %v", second.validated)
	}
}

func TestEvents_EmittedPerMutation(t *testing.T) {
	c := form.New()

	changes := 0
	c.Subscribe(form.TopicChange, func(events.Event) { changes++ })

	field := newStub(c, "name")
	field.mount() // 3 changes: seed value, touched, error

	field.SetValue("x")    // 1 change
	field.SetTouched(true) // 1 change
	field.SetError("bad")  // 1 change

	if changes != 6 {
		t.Fatalf("expected 6 change events, got %d", changes)
	}
}
