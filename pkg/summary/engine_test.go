package summary_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evankellogg/informed/pkg/summary"
	"github.com/evankellogg/informed/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedFixtures embed.FS

func fixtureFS(t *testing.T) fs.FS {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedFixtures, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return templatesFS
}

func newEngine(t *testing.T) *summary.Engine {
	t.Helper()

	engine, err := summary.NewEngine(summary.WithFS(fixtureFS(t)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("greet", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "greet.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("loud", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return strings.ToUpper(fmt.Sprint(input)), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("loud", func(input any, _ any) (any, error) {
		return input, nil
	}); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngine_RenderDispatchesInlineContent(t *testing.T) {
	engine := newEngine(t)

	inline, err := engine.Render("Hi {{ who }}", map[string]any{"who": "Grace"})
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if inline != "Hi Grace" {
		t.Fatalf("unexpected inline render: %q", inline)
	}

	fromFile, err := engine.Render("greet", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render file: %v", err)
	}
	if !strings.HasPrefix(fromFile, "Hello Ada!") {
		t.Fatalf("unexpected file render: %q", fromFile)
	}
}

func TestEngine_StructDataUsesJSONTags(t *testing.T) {
	engine := newEngine(t)

	payload := struct {
		Name string `json:"name"`
	}{Name: "Ada"}
	result, err := engine.RenderString("{{ name }}", payload)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Ada" {
		t.Fatalf("unexpected struct render: %q", result)
	}
}

func TestNewEngine_RequiresSource(t *testing.T) {
	if _, err := summary.NewEngine(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func TestNewEngine_AcceptsGoTemplateCompatOptions(t *testing.T) {
	if _, err := summary.NewEngine(summary.WithFS(fixtureFS(t)), summary.WithGoTemplateOptions()); err != nil {
		t.Fatalf("new engine: %v", err)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
