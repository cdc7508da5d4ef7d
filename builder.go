package relaymcp

// ToolBuilder provides a fluent API for describing a tool before handing it
// to a RegistryBuilder. Adapted from the original JSON-schema builder:
// this spec's ToolDefinition is the flat {name, type, required} triple, so
// AddParam records a ToolArgument directly instead of building a JSON
// schema document.
type ToolBuilder struct {
	name        string
	description string
	args        []ToolArgument
	cooperative bool
}

// NewTool starts building a tool with the given name and description.
func NewTool(name, description string) *ToolBuilder {
	return &ToolBuilder{name: name, description: description}
}

// AddParam appends an argument to the tool's definition. description is
// accepted for call-site readability but carries no wire representation:
// ToolArgument has no free-text field in this protocol.
func (b *ToolBuilder) AddParam(name, paramType, description string, required bool) *ToolBuilder {
	_ = description
	b.args = append(b.args, ToolArgument{Name: name, Type: paramType, Required: required})
	return b
}

// Cooperative marks the tool as non-blocking: the executor invokes it
// directly on the per-message goroutine instead of dispatching it to the
// worker pool. Only declare a tool cooperative if its handler never
// performs blocking I/O or CPU-bound work without checking ctx.
func (b *ToolBuilder) Cooperative() *ToolBuilder {
	b.cooperative = true
	return b
}

// Name returns the tool's registered name.
func (b *ToolBuilder) Name() string { return b.name }

// Description returns the tool's description.
func (b *ToolBuilder) Description() string { return b.description }

// Args returns a copy of the argument list built so far.
func (b *ToolBuilder) Args() []ToolArgument {
	args := make([]ToolArgument, len(b.args))
	copy(args, b.args)
	return args
}
