package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/evankellogg/informed/internal/config"
	"github.com/evankellogg/informed/internal/ctxlog"
	"github.com/evankellogg/informed/pkg/prompt"
	"github.com/evankellogg/informed/pkg/schema"
	"github.com/evankellogg/informed/pkg/summary"
)

func main() {
	schemaPath := flag.String("schema", "", "form definition path or URL (YAML or JSON)")
	operationID := flag.String("operation", "", "derive the form from this OpenAPI operation")
	jsonSchema := flag.Bool("jsonschema", false, "treat the document as a bare JSON Schema object")
	format := flag.String("format", "", "output format: text or json (default from config)")
	output := flag.String("output", "", "output file (stdout if empty)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if *schemaPath == "" {
		log.Fatalf("missing required -schema flag")
	}
	if *operationID != "" && *jsonSchema {
		log.Fatalf("-operation and -jsonschema are mutually exclusive")
	}

	definition, err := loadDefinition(ctx, cfg, *schemaPath, *operationID, *jsonSchema)
	if err != nil {
		log.Fatalf("Failed to load definition: %v", err)
	}

	raw := *format
	if raw == "" {
		raw = cfg.Output.Format
	}
	outFormat, err := summary.ParseOutput(raw)
	if err != nil {
		log.Fatalf("Invalid format: %v", err)
	}

	session, err := prompt.New(definition,
		prompt.WithMaxAttempts(cfg.Prompt.MaxAttempts),
		prompt.WithLogger(logger),
		prompt.WithKeepMounted(),
	)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if _, err := session.Run(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			log.Fatalf("Aborted")
		}
		log.Fatalf("Failed to collect values: %v", err)
	}

	report := summary.Snapshot(definition, session.Controller().State())
	renderer, err := summary.New()
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}
	rendered, err := renderer.Render(report, outFormat)
	if err != nil {
		log.Fatalf("Failed to render summary: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Summary written to %s\n", *output)
	} else {
		fmt.Print(string(rendered))
	}
}

func loadDefinition(ctx context.Context, cfg config.Config, path, operationID string, jsonSchema bool) (schema.Form, error) {
	location := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		location = cfg.ResolveSchemaPath(path)
	}
	src := schema.ParseSource(location)
	ctxlog.FromContext(ctx).Debug("loading definition", "source", src.Location(), "operation", operationID)

	switch {
	case operationID != "":
		raw, err := src.Read(ctx)
		if err != nil {
			return schema.Form{}, fmt.Errorf("read %s: %w", src.Location(), err)
		}
		return schema.FromOpenAPI(ctx, raw, operationID)
	case jsonSchema:
		raw, err := src.Read(ctx)
		if err != nil {
			return schema.Form{}, fmt.Errorf("read %s: %w", src.Location(), err)
		}
		return schema.FromJSONSchema(ctx, raw, formName(src.Location()))
	default:
		return schema.LoadSource(ctx, src)
	}
}

// formName derives a stable definition name from the document location.
func formName(location string) string {
	base := filepath.Base(location)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
