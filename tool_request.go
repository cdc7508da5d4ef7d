package relaymcp

import "fmt"

// ToolRequest provides typed access to a tool call's keyword arguments.
// Adapted from the teacher's ToolRequest; ToolHandler itself moved to
// tool.go since this protocol's handlers return (interface{}, error)
// rather than a rich *ToolResponse.
type ToolRequest struct {
	args map[string]interface{}
}

// NewToolRequest creates a new ToolRequest with the given arguments.
func NewToolRequest(args map[string]interface{}) *ToolRequest {
	return &ToolRequest{args: args}
}

// Args returns the raw argument map backing this request.
func (r *ToolRequest) Args() map[string]interface{} {
	return r.args
}

func (r *ToolRequest) String(name string) (string, error) {
	val, ok := r.args[name]
	if !ok {
		return "", ErrUnknownParameter
	}
	if str, ok := val.(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("parameter %q is not a string", name)
}

func (r *ToolRequest) StringOr(name, defaultValue string) string {
	if val, err := r.String(name); err == nil {
		return val
	}
	return defaultValue
}

func (r *ToolRequest) Int(name string) (int, error) {
	val, ok := r.args[name]
	if !ok {
		return 0, ErrUnknownParameter
	}
	switch v := val.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("parameter %q is not a number", name)
	}
}

func (r *ToolRequest) IntOr(name string, defaultValue int) int {
	if val, err := r.Int(name); err == nil {
		return val
	}
	return defaultValue
}

func (r *ToolRequest) Float(name string) (float64, error) {
	val, ok := r.args[name]
	if !ok {
		return 0, ErrUnknownParameter
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("parameter %q is not a number", name)
	}
}

func (r *ToolRequest) FloatOr(name string, defaultValue float64) float64 {
	if val, err := r.Float(name); err == nil {
		return val
	}
	return defaultValue
}

func (r *ToolRequest) Bool(name string) (bool, error) {
	val, ok := r.args[name]
	if !ok {
		return false, ErrUnknownParameter
	}
	if b, ok := val.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("parameter %q is not a boolean", name)
}

func (r *ToolRequest) BoolOr(name string, defaultValue bool) bool {
	if val, err := r.Bool(name); err == nil {
		return val
	}
	return defaultValue
}

func (r *ToolRequest) StringSlice(name string) ([]string, error) {
	val, ok := r.args[name]
	if !ok {
		return nil, ErrUnknownParameter
	}
	arr, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("parameter %q is not an array", name)
	}
	result := make([]string, len(arr))
	for i, item := range arr {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q contains non-string element at index %d", name, i)
		}
		result[i] = str
	}
	return result, nil
}

func (r *ToolRequest) StringSliceOr(name string, defaultValue []string) []string {
	if val, err := r.StringSlice(name); err == nil {
		return val
	}
	return defaultValue
}

// Object returns a parameter as a generic JSON object.
func (r *ToolRequest) Object(name string) (map[string]interface{}, error) {
	val, ok := r.args[name]
	if !ok {
		return nil, ErrUnknownParameter
	}
	obj, ok := val.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("parameter %q is not an object", name)
	}
	return obj, nil
}

func (r *ToolRequest) ObjectOr(name string, defaultValue map[string]interface{}) map[string]interface{} {
	if val, err := r.Object(name); err == nil {
		return val
	}
	return defaultValue
}
