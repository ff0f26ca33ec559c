package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"bookwise/logger"
	"bookwise/metrics"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// HandlerFunc runs a tool with already validated JSON arguments.
// The returned value is marshalled to JSON by the transport.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Spec describes one callable tool independent of transport.
type Spec struct {
	Name        string
	Description string
	Schema      json.RawMessage // JSON schema of the arguments object
	Handler     HandlerFunc
}

type entry struct {
	spec     Spec
	compiled *jsonschema.Schema
}

// Registry maps tool names to their argument schema and handler.
// The MCP server and the in-process eino tools are both built from it.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register compiles the argument schema and stores the tool.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("tool name must be provided")
	}
	if spec.Handler == nil {
		return fmt.Errorf("tool %s: handler must be provided", spec.Name)
	}
	if len(spec.Schema) == 0 {
		return fmt.Errorf("tool %s: schema is empty", spec.Name)
	}

	compiler := jsonschema.NewCompiler()
	resource := spec.Name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(spec.Schema)); err != nil {
		return fmt.Errorf("tool %s: add schema resource: %w", spec.Name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return fmt.Errorf("tool %s: compile schema: %w", spec.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[spec.Name]; ok {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	r.entries[spec.Name] = &entry{spec: spec, compiled: compiled}
	r.order = append(r.order, spec.Name)
	return nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return Spec{}, false
	}
	return e.spec, true
}

// List returns the registered specs in registration order.
func (r *Registry) List() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].spec)
	}
	return out
}

// Validate checks raw arguments against the schema of the named tool.
func (r *Registry) Validate(name string, args json.RawMessage) error {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(args))
	if err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}
	if err := e.compiled.Validate(doc); err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}
	return nil
}

// Call validates args and runs the tool handler.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (result any, err error) {
	ctx = logger.WithTool(ctx, name)
	start := time.Now()
	defer func() { metrics.ObserveToolCall(name, start, err) }()
	defer logger.Track(ctx, "tool call")()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.Validate(name, args); err != nil {
		logger.For(ctx).WithError(err).Warn("rejected tool arguments")
		return nil, err
	}

	spec, _ := r.Lookup(name)
	result, err = spec.Handler(ctx, args)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("tool call failed")
		return nil, err
	}
	return result, nil
}

// CallJSON runs the tool and marshals its result.
func (r *Registry) CallJSON(ctx context.Context, name string, args json.RawMessage) (string, error) {
	result, err := r.Call(ctx, name, args)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal %s result: %w", name, err)
	}
	return string(data), nil
}
