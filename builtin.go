package relaymcp

import "context"

// RegisterBuiltins adds the always-available tools to b: ping, a liveness
// probe, and list_tools_available, which needs the registry snapshot
// injected since it describes whatever set of tools is current at call
// time. Every loader build merges these in regardless of what a plugin
// directory contributes (spec section 6).
func RegisterBuiltins(b *RegistryBuilder) error {
	if err := b.Register(NewTool("ping", "Liveness probe; returns pong.").Cooperative(), pingHandler); err != nil {
		return err
	}
	return b.RegisterWithRegistry(
		NewTool("list_tools_available", "Lists every tool currently registered on the server."),
		listToolsAvailableHandler,
	)
}

func pingHandler(ctx context.Context, req *ToolRequest) (interface{}, error) {
	return "pong", nil
}

func listToolsAvailableHandler(ctx context.Context, req *ToolRequest, registry *Registry) (interface{}, error) {
	return registry.Definitions(), nil
}
