package relaymcp

import "sort"

// Registry is an immutable snapshot of named tools. A Registry is built once
// by a RegistryBuilder and never mutated afterward; hot reload publishes a
// brand new Registry rather than mutating an existing one, so an in-flight
// call that already captured a snapshot keeps using it even after a newer
// Registry is published (spec section 3, snapshot semantics).
type Registry struct {
	tools map[string]*Tool
}

// Get looks up a tool by name in this snapshot.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Len reports how many tools this snapshot holds.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Definitions returns the wire-safe descriptions of every tool in this
// snapshot, sorted by name so list_tools_available responses are
// deterministic across calls against the same snapshot.
func (r *Registry) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// RegistryBuilder accumulates tools for a single Registry snapshot. It is
// not safe for concurrent use; each load (initial or reload) builds its own
// builder, then calls Build once to produce the snapshot that gets
// published.
type RegistryBuilder struct {
	tools map[string]*Tool
}

// NewRegistryBuilder starts an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]*Tool)}
}

// Register adds a plain tool, built from a ToolBuilder plus its handler.
// Returns ErrDuplicateTool if the name was already registered in this
// builder, and ErrReservedArgument if the tool declares an argument that
// collides with an injectable parameter name.
func (b *RegistryBuilder) Register(tb *ToolBuilder, handler ToolHandler) error {
	return b.register(tb, handler, nil, false)
}

// RegisterWithRegistry adds a tool whose handler is injected with the
// registry snapshot current at dispatch time, instead of the plain handler
// shape. See RegistryAwareToolHandler.
func (b *RegistryBuilder) RegisterWithRegistry(tb *ToolBuilder, handler RegistryAwareToolHandler) error {
	return b.register(tb, nil, handler, true)
}

func (b *RegistryBuilder) register(tb *ToolBuilder, handler ToolHandler, registryHandler RegistryAwareToolHandler, injectsRegistry bool) error {
	name := tb.Name()
	if _, exists := b.tools[name]; exists {
		return ErrDuplicateTool
	}
	for _, arg := range tb.Args() {
		if arg.Name == registryParamName {
			return ErrReservedArgument
		}
	}
	b.tools[name] = &Tool{
		Name:            name,
		Description:     tb.Description(),
		Args:            tb.Args(),
		Cooperative:     tb.cooperative,
		handler:         handler,
		registryHandler: registryHandler,
		injectsRegistry: injectsRegistry,
	}
	return nil
}

// Build finalizes the builder into an immutable Registry snapshot. The
// builder should not be reused afterward.
func (b *RegistryBuilder) Build() *Registry {
	return &Registry{tools: b.tools}
}
