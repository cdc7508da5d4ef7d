package relaymcp

import "context"

// Parameter type strings used in ToolArgument.Type. "any" is used when a
// tool author didn't declare a more specific type.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeAny     = "any"
)

// ToolArgument describes a single argument a tool accepts.
type ToolArgument struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// ToolDefinition is the serializable description of a tool, as returned by
// the built-in list_tools_available tool. It never includes injected
// parameters such as the registry.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Args        []ToolArgument `json:"args"`
}

// ToolHandler is the ordinary tool function shape: it receives the call's
// arguments and returns a JSON-serializable result, or an error.
type ToolHandler func(ctx context.Context, req *ToolRequest) (interface{}, error)

// RegistryAwareToolHandler is the dependency-injected shape. A tool
// registered this way additionally receives the registry snapshot that was
// current when the call was dispatched; this is the only injectable
// extension point today (spec section 4.7/9). The registry parameter never
// appears in the tool's ToolDefinition.Args and a caller who supplies
// "tool_registry" as an explicit argument gets execution_error rather than
// a silent override — see Executor.Execute.
type RegistryAwareToolHandler func(ctx context.Context, req *ToolRequest, registry *Registry) (interface{}, error)

// registryParamName is the single reserved argument name covered by
// dependency injection. New injectables are added by extending this set
// and the registration shapes in registry.go/tool.go, not by reflecting
// over handler internals.
const registryParamName = "tool_registry"

// Tool is the runtime entity resolved by name from a Registry.
type Tool struct {
	Name        string
	Description string
	Args        []ToolArgument
	Cooperative bool

	handler         ToolHandler
	registryHandler RegistryAwareToolHandler
	injectsRegistry bool
}

// Definition returns the serializable, wire-safe description of the tool.
func (t *Tool) Definition() ToolDefinition {
	args := make([]ToolArgument, len(t.Args))
	copy(args, t.Args)
	return ToolDefinition{Name: t.Name, Description: t.Description, Args: args}
}

// invoke runs the tool's handler with the given snapshot, picking the
// registration shape that was used at Register time.
func (t *Tool) invoke(ctx context.Context, req *ToolRequest, registry *Registry) (interface{}, error) {
	if t.injectsRegistry {
		return t.registryHandler(ctx, req, registry)
	}
	return t.handler(ctx, req)
}

// InvokeTool runs tool directly against the given snapshot, bypassing the
// Executor's cooperative/blocking dispatch split. Exported for callers like
// package discovery's execute_tool that already run inside a tool handler
// and just need to forward to another tool by name.
func InvokeTool(ctx context.Context, tool *Tool, req *ToolRequest, registry *Registry) (interface{}, error) {
	return tool.invoke(ctx, req, registry)
}
