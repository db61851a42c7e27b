package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Output selects the wire shape of a rendered report.
type Output string

const (
	OutputText Output = "text"
	OutputJSON Output = "json"
)

// ParseOutput maps a flag or config value onto an Output. Empty means text.
func ParseOutput(raw string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(OutputText):
		return OutputText, nil
	case string(OutputJSON):
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("summary: unknown output format %q", raw)
	}
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	templates    TemplateRenderer
	templateName string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplateRenderer injects a custom template engine implementation.
func WithTemplateRenderer(templates TemplateRenderer) Option {
	return func(cfg *config) {
		if templates != nil {
			cfg.templates = templates
		}
	}
}

// WithTemplateName overrides the template rendered for text output.
func WithTemplateName(name string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(name) != "" {
			cfg.templateName = name
		}
	}
}

const defaultTemplateName = "templates/receipt"

// Renderer turns reports into text receipts or JSON documents.
type Renderer struct {
	templates    TemplateRenderer
	templateName string
}

// New constructs a renderer. Without options it renders the embedded receipt
// template through a pongo2 engine.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		templateName: defaultTemplateName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := NewEngine(WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("summary: configure template engine: %w", err)
		}
		templates = engine
	}
	return &Renderer{templates: templates, templateName: cfg.templateName}, nil
}

// Render produces the report in the requested output format.
func (r *Renderer) Render(report Report, output Output) ([]byte, error) {
	switch output {
	case OutputJSON:
		return r.renderJSON(report)
	case OutputText, "":
		return r.renderText(report)
	default:
		return nil, fmt.Errorf("summary: unknown output format %q", output)
	}
}

func (r *Renderer) renderJSON(report Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("summary: encode report: %w", err)
	}
	return append(data, '\n'), nil
}

func (r *Renderer) renderText(report Report) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("summary: template renderer is nil")
	}
	rendered, err := r.templates.RenderTemplate(r.templateName, report)
	if err != nil {
		return nil, fmt.Errorf("summary: render receipt: %w", err)
	}
	return []byte(rendered), nil
}
