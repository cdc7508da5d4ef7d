// Package loader builds tool registries from compiled Go plugins found in
// one or more directories, and watches those directories for changes so the
// server can hot-reload without a restart.
//
// Go has no equivalent of Python's importlib.reload: once plugin.Open has
// loaded a .so, its symbols stay resident for the life of the process and
// cannot be unloaded or re-opened from the same path (see Load). Tool
// authors rebuild to a new file path to pick up code changes; the loader
// itself just opens whatever .so files currently exist and never needs to
// evict old ones, since the registries they populate are disposed of
// wholesale on reload.
package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"plugin"
	"sort"

	"github.com/relaymcp/relaymcp"
)

// ToolSourceExt is the file extension the loader treats as a tool plugin.
const ToolSourceExt = ".so"

// ExportedSymbol is the name every tool plugin must export: a function
// with the signature `func(*relaymcp.RegistryBuilder) error` that
// registers the plugin's tools into the builder being assembled.
const ExportedSymbol = "RegisterTools"

// RegisterFunc is the signature a plugin's exported RegisterTools symbol
// must satisfy.
type RegisterFunc func(*relaymcp.RegistryBuilder) error

// Load scans each directory in repos recursively for .so files, opens
// each as a Go plugin, calls its exported RegisterTools into a fresh
// builder seeded with the built-in tools, and returns the resulting
// Registry. Load builds a brand new Registry from scratch every time it's
// called; it never mutates a previously returned one, so the caller can
// publish the result via Server.SetRegistry and retain the old snapshot
// for calls still in flight against it.
//
// A duplicate tool name across plugins (or against a built-in) is a hard
// error: Load returns it without publishing a partial registry.
func Load(repos []string) (*relaymcp.Registry, error) {
	builder := relaymcp.NewRegistryBuilder()
	if err := relaymcp.RegisterBuiltins(builder); err != nil {
		return nil, fmt.Errorf("loader: registering built-ins: %w", err)
	}

	var files []string
	for _, dir := range repos {
		matches, err := findToolSources(dir)
		if err != nil {
			return nil, fmt.Errorf("loader: scanning %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := loadPlugin(path, builder); err != nil {
			return nil, fmt.Errorf("loader: loading %s: %w", path, err)
		}
	}

	return builder.Build(), nil
}

// findToolSources walks root and every subdirectory for .so files, since a
// tool repository may organize plugins into nested directories.
func findToolSources(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsToolSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func loadPlugin(path string, builder *relaymcp.RegistryBuilder) error {
	p, err := plugin.Open(path)
	if err != nil {
		return err
	}
	sym, err := p.Lookup(ExportedSymbol)
	if err != nil {
		return err
	}
	register, ok := sym.(func(*relaymcp.RegistryBuilder) error)
	if !ok {
		return fmt.Errorf("exported symbol %s has the wrong signature", ExportedSymbol)
	}
	return register(builder)
}

// IsToolSource reports whether name looks like a plugin file this loader
// would pick up, for use by the watcher when deciding whether an fsnotify
// event warrants a reload.
func IsToolSource(name string) bool {
	return filepath.Ext(name) == ToolSourceExt
}
