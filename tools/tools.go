// Package tools exposes the sandbox engine as named agent tools. Each tool
// declares a JSON Schema for its arguments and answers with plain text.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/xraph/sandbox"
)

// ErrUnknownTool is returned by Call for a name no tool is registered under.
var ErrUnknownTool = errors.New("tools: unknown tool")

// schemaBase prefixes the resource URL each input schema is compiled under.
const schemaBase = "https://sandbox.voidmob.com/schemas/tools/"

// Result is the text answer of one tool call. IsError marks answers that
// describe a refused or failed operation.
type Result struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError"`
}

// Info describes a tool to clients.
type Info struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type runFunc func(ctx context.Context, args json.RawMessage) (string, error)

type tool struct {
	info   Info
	schema *jsonschema.Schema
	run    runFunc
}

// Toolbox dispatches tool calls to an Engine.
type Toolbox struct {
	engine *sandbox.Engine
	logger *slog.Logger
	tools  []*tool
	byName map[string]*tool
}

// Option configures a Toolbox.
type Option func(*Toolbox)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolbox) { t.logger = logger }
}

// New registers every tool against engine and compiles their schemas.
func New(engine *sandbox.Engine, opts ...Option) (*Toolbox, error) {
	t := &Toolbox{
		engine: engine,
		logger: slog.Default(),
		byName: make(map[string]*tool),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, def := range t.definitions() {
		schema, err := jsonschema.CompileString(schemaBase+def.name, def.schema)
		if err != nil {
			return nil, fmt.Errorf("tools: compile schema for %s: %w", def.name, err)
		}
		tl := &tool{
			info: Info{
				Name:        def.name,
				Description: def.description,
				InputSchema: json.RawMessage(def.schema),
			},
			schema: schema,
			run:    def.run,
		}
		if _, dup := t.byName[def.name]; dup {
			return nil, fmt.Errorf("tools: duplicate tool %s", def.name)
		}
		t.tools = append(t.tools, tl)
		t.byName[def.name] = tl
	}

	return t, nil
}

// List returns every tool in registration order.
func (t *Toolbox) List() []Info {
	out := make([]Info, len(t.tools))
	for i, tl := range t.tools {
		out[i] = tl.info
	}
	return out
}

// Has reports whether a tool named name exists.
func (t *Toolbox) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Call validates args against the tool's schema and runs it. Empty args
// mean an empty object. Only an unknown name yields an error; every other
// failure is reported as an IsError result.
func (t *Toolbox) Call(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	tl, ok := t.byName[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}

	var doc any
	if err := json.Unmarshal(args, &doc); err != nil {
		return t.failed(name, fmt.Sprintf("Invalid arguments for %s: %v", name, err)), nil
	}
	if err := tl.schema.Validate(doc); err != nil {
		return t.failed(name, fmt.Sprintf("Invalid arguments for %s: %v", name, err)), nil
	}

	text, err := tl.run(ctx, args)
	if err != nil {
		return t.failed(name, describe(err)), nil
	}

	t.logger.Debug("tool called", "tool", name)
	return Result{Text: text}, nil
}

func (t *Toolbox) failed(name, text string) Result {
	t.logger.Debug("tool refused", "tool", name, "reason", text)
	return Result{Text: text, IsError: true}
}

// decode adapts a typed handler to raw JSON arguments.
func decode[A any](fn func(ctx context.Context, args A) (string, error)) runFunc {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args A
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fail("Invalid arguments: %v", err)
		}
		return fn(ctx, args)
	}
}

// userError carries a message meant verbatim for the caller.
type userError struct{ msg string }

func (e *userError) Error() string { return e.msg }

func fail(format string, args ...any) error {
	return &userError{msg: fmt.Sprintf(format, args...)}
}

// describe renders an engine error as caller-facing text.
func describe(err error) string {
	var (
		ue *userError
		be *sandbox.BalanceError
		ve sandbox.ValidationError
	)
	switch {
	case errors.As(err, &ue):
		return ue.msg
	case errors.As(err, &be):
		return fmt.Sprintf("Insufficient balance. Need %s but have %s. Use deposit to add funds.", be.Required, be.Available)
	case errors.As(err, &ve):
		return ve.Message
	}
	return err.Error()
}
