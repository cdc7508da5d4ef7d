// Package discovery adds two supplemental, always-on tools on top of the
// core registry: tool_search, a fuzzy lookup over currently registered
// tools, and execute_tool, which invokes whatever tool_search found by
// name. These exist for clients with large tool sets that want to search
// before committing to a full tool_call, and they are themselves ordinary
// registry-aware tools — not a parallel dispatch path.
//
// Adapted from the teacher's discovery.ToolRegistry: the provider/schema
// machinery is dropped (there's no JSON Schema in this protocol, and no
// separate discoverable-tool registration path — every tool in a
// relaymcp.Registry is searchable), but the fuzzy scoring itself
// (substring, prefix, and Levenshtein-based fallback) is kept close to the
// original.
package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/relaymcp/relaymcp"
)

// SearchResult is one match returned by Search.
type SearchResult struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Args        []relaymcp.ToolArgument `json:"args"`
	Score       float64                 `json:"score"`
}

// Search ranks every tool in registry against query by name/description
// similarity. An empty query returns every tool with an equal score,
// i.e. acts as a plain listing. Results are capped at maxResults (<=0
// means unbounded) and sorted by descending score, then name.
func Search(registry *relaymcp.Registry, query string, maxResults int) []SearchResult {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	listAll := queryLower == ""

	defs := registry.Definitions()
	results := make([]SearchResult, 0, len(defs))
	for _, def := range defs {
		var s float64
		if listAll {
			s = 1.0
		} else {
			s = score(queryLower, def)
		}
		if s <= 0 {
			continue
		}
		results = append(results, SearchResult{
			Name:        def.Name,
			Description: def.Description,
			Args:        def.Args,
			Score:       s,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func score(queryLower string, def relaymcp.ToolDefinition) float64 {
	nameLower := strings.ToLower(def.Name)
	descLower := strings.ToLower(def.Description)

	if nameLower == queryLower {
		return 1.0
	}

	var best float64
	if strings.HasPrefix(nameLower, queryLower) {
		best = max(best, 0.9)
	}
	if strings.Contains(nameLower, queryLower) {
		best = max(best, 0.8)
	}
	if containsWord(descLower, queryLower) {
		best = max(best, 0.6)
	} else if strings.Contains(descLower, queryLower) {
		best = max(best, 0.5)
	}

	if best == 0 {
		if fuzzy := fuzzyMatch(queryLower, nameLower); fuzzy > 0.6 {
			best = max(best, fuzzy*0.7)
		}
	}
	return best
}

func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:!?()[]{}\"'")
		if strings.ToLower(word) == query {
			return true
		}
	}
	return false
}

func fuzzyMatch(query, target string) float64 {
	if len(query) == 0 || len(target) == 0 {
		return 0
	}
	distance := levenshteinDistance(query, target)
	maxLen := max(len(query), len(target))
	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	m, n := len(r1), len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

// RegisterSupplementalTools adds tool_search and execute_tool to b. Call
// this alongside relaymcp.RegisterBuiltins when a deployment wants search
// exposed to clients.
func RegisterSupplementalTools(b *relaymcp.RegistryBuilder) error {
	searchTool := relaymcp.NewTool("tool_search",
		"Search registered tools by name or description; omit query to list all.").
		Cooperative()
	searchTool.AddParam("query", relaymcp.TypeString, "search text; omit to list everything", false)
	searchTool.AddParam("max_results", relaymcp.TypeNumber, "maximum results to return, default 10", false)

	if err := b.RegisterWithRegistry(searchTool, searchHandler); err != nil {
		return err
	}

	execTool := relaymcp.NewTool("execute_tool", "Invoke a tool found via tool_search by name.")
	execTool.AddParam("name", relaymcp.TypeString, "exact tool name", true)
	execTool.AddParam("arguments", relaymcp.TypeObject, "arguments to pass to the tool", false)

	return b.RegisterWithRegistry(execTool, executeToolHandler)
}

func searchHandler(ctx context.Context, req *relaymcp.ToolRequest, registry *relaymcp.Registry) (interface{}, error) {
	query := req.StringOr("query", "")
	maxResults := req.IntOr("max_results", 10)
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 10
	}
	return Search(registry, query, maxResults), nil
}

func executeToolHandler(ctx context.Context, req *relaymcp.ToolRequest, registry *relaymcp.Registry) (interface{}, error) {
	name, err := req.String("name")
	if err != nil || name == "" {
		return nil, fmt.Errorf("execute_tool: \"name\" is required")
	}
	args := req.ObjectOr("arguments", map[string]interface{}{})

	tool, ok := registry.Get(name)
	if !ok {
		return nil, relaymcp.ErrUnknownTool
	}
	return relaymcp.InvokeTool(ctx, tool, relaymcp.NewToolRequest(args), registry)
}
