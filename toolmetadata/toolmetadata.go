// Package toolmetadata lets plugin authors describe a tool's parameters as
// a declarative slice instead of a chain of ToolBuilder calls. Adapted from
// the teacher's declarative-to-builder converter: BuildTool now produces a
// relaymcp.ToolBuilder with flat ToolArgument entries instead of an MCP
// JSON-schema Parameter list.
package toolmetadata

import "github.com/relaymcp/relaymcp"

// Parameter declares one tool argument.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Metadata declares a tool's shape without touching ToolBuilder directly.
type Metadata struct {
	Description string
	Parameters  []Parameter
	Cooperative bool
}

// BuildTool converts Metadata into a relaymcp.ToolBuilder, normalizing
// each parameter's Type into the relaymcp.Type* constant set.
func BuildTool(name string, meta *Metadata) *relaymcp.ToolBuilder {
	tb := relaymcp.NewTool(name, meta.Description)
	for _, p := range meta.Parameters {
		tb.AddParam(p.Name, normalizeType(p.Type), p.Description, p.Required)
	}
	if meta.Cooperative {
		tb.Cooperative()
	}
	return tb
}

func normalizeType(t string) string {
	switch t {
	case "string":
		return relaymcp.TypeString
	case "int", "integer", "float", "number":
		return relaymcp.TypeNumber
	case "bool", "boolean":
		return relaymcp.TypeBoolean
	case "array", "array:string", "array:number", "array:int", "array:integer", "array:float", "array:bool", "array:boolean":
		return relaymcp.TypeArray
	case "object":
		return relaymcp.TypeObject
	default:
		return relaymcp.TypeAny
	}
}
