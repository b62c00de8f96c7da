package tooldef

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	toolskema "github.com/reoring/toolskema"
	js "github.com/reoring/toolskema/jsonschema"
)

var (
	// ErrUnknownTool is returned when a name has no registered definition.
	ErrUnknownTool = errors.New("tooldef: unknown tool")
	// ErrDuplicateTool is returned by Register in strict mode when the name
	// is already taken.
	ErrDuplicateTool = errors.New("tooldef: tool already registered")
)

type registryConfig struct {
	strictMode bool
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{strictMode: true}
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

// WithStrictMode controls whether Register rejects duplicate names.
// Default is true; with false a later registration replaces the earlier one.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

type entry struct {
	def    Definition
	schema toolskema.Schema[map[string]any]
}

// Registry holds tool definitions and their compiled input schemas. It is
// safe for concurrent use.
type Registry struct {
	config registryConfig

	mu    sync.RWMutex
	tools map[string]entry
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg, tools: make(map[string]entry)}
}

// Register compiles def and stores it under def.Name.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidDefinition)
	}
	s, err := def.Schema()
	if err != nil {
		return fmt.Errorf("tool %q: %w", def.Name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; exists && r.config.strictMode {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, def.Name)
	}
	r.tools[def.Name] = entry{def: def, schema: s}
	return nil
}

// RegisterAll registers defs in order and stops at the first failure.
func (r *Registry) RegisterAll(defs []Definition) error {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e.def, ok
}

// Names returns the registered tool names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for k := range r.tools {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Schema returns the compiled input schema of a tool.
func (r *Registry) Schema(name string) (toolskema.Schema[map[string]any], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return e.schema, nil
}

// Validate parses raw JSON input for the named tool. Validation failures are
// returned as toolskema.Issues; an unknown name yields ErrUnknownTool.
func (r *Registry) Validate(ctx context.Context, name string, raw []byte, opts ...toolskema.ParseOpt) (map[string]any, error) {
	s, err := r.Schema(name)
	if err != nil {
		return nil, err
	}
	return toolskema.ParseFrom(ctx, s, toolskema.JSONBytes(raw), opts...)
}

// ValidateReader is Validate for streamed input.
func (r *Registry) ValidateReader(ctx context.Context, name string, in io.Reader, opts ...toolskema.ParseOpt) (map[string]any, error) {
	s, err := r.Schema(name)
	if err != nil {
		return nil, err
	}
	return toolskema.StreamParse(ctx, s, in, opts...)
}

// InputSchema returns the JSON Schema of the named tool's input.
func (r *Registry) InputSchema(name string) (*js.Schema, error) {
	s, err := r.Schema(name)
	if err != nil {
		return nil, err
	}
	return s.JSONSchema()
}
