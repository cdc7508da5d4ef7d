package relaymcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaymcp/relaymcp/pool"
)

// Executor dispatches validated tool_call requests against a live registry
// snapshot, routing blocking tools to a worker pool and running cooperative
// tools inline.
type Executor struct {
	logger *slog.Logger
	pool   pool.Pool
}

// NewExecutor builds an Executor. A nil logger falls back to slog.Default;
// a nil workerPool falls back to pool.GetPool().
func NewExecutor(logger *slog.Logger, workerPool pool.Pool) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if workerPool == nil {
		workerPool = pool.GetPool()
	}
	return &Executor{logger: logger, pool: workerPool}
}

// Execute runs req.Body.Tool against the given registry snapshot and always
// returns a Response, never an error: every failure mode maps to one of the
// closed error codes (spec section 4.6/4.7).
func (e *Executor) Execute(ctx context.Context, req *Request, registry *Registry) *Response {
	tool, ok := registry.Get(req.Body.Tool)
	if !ok {
		return NewErrorResponse(req.Header, ErrCodeToolNotFound, fmt.Sprintf("unknown tool: %s", req.Body.Tool))
	}

	if _, explicit := req.Body.Args[registryParamName]; explicit {
		return NewErrorResponse(req.Header, ErrCodeExecutionError,
			fmt.Sprintf("%q is a reserved argument name and cannot be supplied explicitly", registryParamName))
	}

	toolReq := NewToolRequest(req.Body.Args)

	if tool.Cooperative {
		return e.run(ctx, req, tool, toolReq, registry)
	}

	var resp *Response
	err := e.pool.Submit(ctx, func() {
		resp = e.run(ctx, req, tool, toolReq, registry)
	})
	if err != nil {
		return NewErrorResponse(req.Header, ErrCodeExecutionError, "tool dispatch was canceled before it could run")
	}
	return resp
}

// run invokes the tool handler and converts its outcome into a Response,
// recovering from panics so one misbehaving tool never takes down the
// connection goroutine (or a pool worker) that's running it.
func (e *Executor) run(ctx context.Context, req *Request, tool *Tool, toolReq *ToolRequest, registry *Registry) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tool handler panicked",
				"tool", tool.Name, "correlation_id", req.Header.CorrelationID, "panic", r)
			resp = NewErrorResponse(req.Header, ErrCodeExecutionError, "tool execution failed")
		}
	}()

	result, err := tool.invoke(ctx, toolReq, registry)
	if err != nil {
		e.logger.Error("tool handler returned an error",
			"tool", tool.Name, "correlation_id", req.Header.CorrelationID, "error", err)
		return NewErrorResponse(req.Header, ErrCodeExecutionError, "tool execution failed")
	}
	return NewSuccessResponse(req.Header, tool.Name, result)
}
