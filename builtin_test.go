package relaymcp

import (
	"context"
	"testing"
)

func TestRegisterBuiltinsPing(t *testing.T) {
	b := NewRegistryBuilder()
	if err := RegisterBuiltins(b); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	reg := b.Build()

	tool, ok := reg.Get("ping")
	if !ok {
		t.Fatal("expected ping to be registered")
	}
	if !tool.Cooperative {
		t.Error("ping should be cooperative")
	}
	result, err := tool.invoke(context.Background(), NewToolRequest(nil), reg)
	if err != nil {
		t.Fatalf("ping invoke failed: %v", err)
	}
	if result != "pong" {
		t.Fatalf("ping result = %v, want pong", result)
	}
}

func TestRegisterBuiltinsListToolsAvailable(t *testing.T) {
	b := NewRegistryBuilder()
	if err := RegisterBuiltins(b); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	_ = b.Register(NewTool("extra", "an extra tool"), func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		return nil, nil
	})
	reg := b.Build()

	tool, ok := reg.Get("list_tools_available")
	if !ok {
		t.Fatal("expected list_tools_available to be registered")
	}
	result, err := tool.invoke(context.Background(), NewToolRequest(nil), reg)
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	defs, ok := result.([]ToolDefinition)
	if !ok {
		t.Fatalf("expected []ToolDefinition, got %T", result)
	}
	if len(defs) != 3 {
		t.Fatalf("expected 3 tools (ping, list_tools_available, extra), got %d", len(defs))
	}
}
