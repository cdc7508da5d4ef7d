package relaymcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/relaymcp/relaymcp/pool"
)

func newTestExecutor() *Executor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExecutor(logger, pool.NewPool(&pool.Config{Workers: 2, QueueSize: 8}))
}

func TestExecutorToolNotFound(t *testing.T) {
	e := newTestExecutor()
	reg := NewRegistryBuilder().Build()

	req := &Request{Header: NewHeader(), Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "missing"}}
	resp := e.Execute(context.Background(), req, reg)
	if resp.Status != StatusError || resp.Err.Code != ErrCodeToolNotFound {
		t.Fatalf("expected tool_not_found, got %+v", resp)
	}
}

func TestExecutorRejectsExplicitRegistryArgument(t *testing.T) {
	e := newTestExecutor()
	b := NewRegistryBuilder()
	_ = b.Register(NewTool("echo", ""), func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		return "ran", nil
	})
	reg := b.Build()

	req := &Request{
		Header: NewHeader(),
		Type:   RequestTypeToolCall,
		Body:   ToolCallBody{Tool: "echo", Args: map[string]interface{}{"tool_registry": "sneaky"}},
	}
	resp := e.Execute(context.Background(), req, reg)
	if resp.Status != StatusError || resp.Err.Code != ErrCodeExecutionError {
		t.Fatalf("expected execution_error for reserved arg, got %+v", resp)
	}
}

func TestExecutorSuccessRoundTrip(t *testing.T) {
	e := newTestExecutor()
	b := NewRegistryBuilder()
	_ = b.Register(NewTool("ping", ""), func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		return "pong", nil
	})
	reg := b.Build()

	header := NewHeader()
	req := &Request{Header: header, Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "ping"}}
	resp := e.Execute(context.Background(), req, reg)

	if resp.Status != StatusSuccess || resp.Body.Result != "pong" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Header.CorrelationID != header.CorrelationID {
		t.Error("correlation id not echoed")
	}
}

func TestExecutorRecoversFromPanic(t *testing.T) {
	e := newTestExecutor()
	b := NewRegistryBuilder()
	boom := NewTool("boom", "").Cooperative()
	_ = b.Register(boom, func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		panic("kaboom")
	})
	reg := b.Build()

	req := &Request{Header: NewHeader(), Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "boom"}}
	resp := e.Execute(context.Background(), req, reg)
	if resp.Status != StatusError || resp.Err.Code != ErrCodeExecutionError {
		t.Fatalf("expected execution_error after panic recovery, got %+v", resp)
	}
}

func TestExecutorHandlerError(t *testing.T) {
	e := newTestExecutor()
	b := NewRegistryBuilder()
	_ = b.Register(NewTool("fail", ""), func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		return nil, errors.New("boom")
	})
	reg := b.Build()

	req := &Request{Header: NewHeader(), Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "fail"}}
	resp := e.Execute(context.Background(), req, reg)
	if resp.Status != StatusError || resp.Err.Code != ErrCodeExecutionError {
		t.Fatalf("expected execution_error, got %+v", resp)
	}
}

func TestExecutorCooperativeRunsInline(t *testing.T) {
	e := newTestExecutor()
	b := NewRegistryBuilder()
	tb := NewTool("inline", "").Cooperative()
	ran := make(chan struct{}, 1)
	_ = b.Register(tb, func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		ran <- struct{}{}
		return nil, nil
	})
	reg := b.Build()

	req := &Request{Header: NewHeader(), Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "inline"}}
	e.Execute(context.Background(), req, reg)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("cooperative tool never ran")
	}
}
