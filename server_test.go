package relaymcp

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestServer(t *testing.T, srv *Server) (*websocket.Conn, *httptest.Server) {
	t.Helper()
	httpSrv := httptest.NewServer(srv)
	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn, httpSrv
}

func callTool(t *testing.T, conn *websocket.Conn, tool string, args map[string]interface{}) *Response {
	t.Helper()
	header := NewHeader()
	req := &Request{Header: header, Type: RequestTypeToolCall, Body: ToolCallBody{Tool: tool, Args: args}}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if resp.Header.CorrelationID != header.CorrelationID {
		t.Fatalf("correlation id mismatch: got %s want %s", resp.Header.CorrelationID, header.CorrelationID)
	}
	return &resp
}

func TestServerRoundTripPing(t *testing.T) {
	b := NewRegistryBuilder()
	_ = RegisterBuiltins(b)
	srv := NewServer(b.Build())
	conn, httpSrv := dialTestServer(t, srv)
	defer httpSrv.Close()
	defer conn.Close()

	resp := callTool(t, conn, "ping", nil)
	if resp.Status != StatusSuccess || resp.Body.Result != "pong" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServerAtomicRegistrySwapVisibility(t *testing.T) {
	b1 := NewRegistryBuilder()
	_ = b1.Register(NewTool("v1", ""), func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		return "v1", nil
	})
	srv := NewServer(b1.Build())
	conn, httpSrv := dialTestServer(t, srv)
	defer httpSrv.Close()
	defer conn.Close()

	resp := callTool(t, conn, "v1", nil)
	if resp.Status != StatusSuccess || resp.Body.Result != "v1" {
		t.Fatalf("unexpected response before swap: %+v", resp)
	}

	b2 := NewRegistryBuilder()
	_ = b2.Register(NewTool("v2", ""), func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		return "v2", nil
	})
	srv.SetRegistry(b2.Build())

	resp = callTool(t, conn, "v2", nil)
	if resp.Status != StatusSuccess || resp.Body.Result != "v2" {
		t.Fatalf("unexpected response after swap: %+v", resp)
	}

	resp = callTool(t, conn, "v1", nil)
	if resp.Status != StatusError || resp.Err.Code != ErrCodeToolNotFound {
		t.Fatalf("expected v1 to be gone after swap, got: %+v", resp)
	}
}

func TestServerConcurrentSlowAndFastCalls(t *testing.T) {
	b := NewRegistryBuilder()
	started := make(chan struct{})
	release := make(chan struct{})
	slow := NewTool("slow", "")
	_ = b.Register(slow, func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		close(started)
		<-release
		return "slow-done", nil
	})
	fast := NewTool("fast", "").Cooperative()
	_ = b.Register(fast, func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		return "fast-done", nil
	})
	srv := NewServer(b.Build())
	conn, httpSrv := dialTestServer(t, srv)
	defer httpSrv.Close()
	defer conn.Close()

	slowHeader := NewHeader()
	if err := conn.WriteJSON(&Request{Header: slowHeader, Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "slow"}}); err != nil {
		t.Fatalf("write slow failed: %v", err)
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("slow tool never started")
	}

	fastHeader := NewHeader()
	if err := conn.WriteJSON(&Request{Header: fastHeader, Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "fast"}}); err != nil {
		t.Fatalf("write fast failed: %v", err)
	}

	var fastResp Response
	if err := conn.ReadJSON(&fastResp); err != nil {
		t.Fatalf("read fast response failed: %v", err)
	}
	if fastResp.Header.CorrelationID != fastHeader.CorrelationID {
		t.Fatal("fast call did not complete before the slow call unblocked")
	}
	if fastResp.Body.Result != "fast-done" {
		t.Fatalf("unexpected fast response: %+v", fastResp)
	}

	close(release)

	var slowResp Response
	if err := conn.ReadJSON(&slowResp); err != nil {
		t.Fatalf("read slow response failed: %v", err)
	}
	if slowResp.Header.CorrelationID != slowHeader.CorrelationID || slowResp.Body.Result != "slow-done" {
		t.Fatalf("unexpected slow response: %+v", slowResp)
	}
}

func TestServerShutdownWaitsForInFlightCalls(t *testing.T) {
	b := NewRegistryBuilder()
	release := make(chan struct{})
	started := make(chan struct{})
	_ = b.Register(NewTool("slow", ""), func(ctx context.Context, req *ToolRequest) (interface{}, error) {
		close(started)
		<-release
		return "done", nil
	})
	srv := NewServer(b.Build())
	conn, httpSrv := dialTestServer(t, srv)
	defer httpSrv.Close()

	if err := conn.WriteJSON(&Request{Header: NewHeader(), Type: RequestTypeToolCall, Body: ToolCallBody{Tool: "slow"}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	<-started

	var wg sync.WaitGroup
	wg.Add(1)
	shutdownDone := make(chan struct{})
	go func() {
		defer wg.Done()
		srv.Shutdown(2 * time.Second)
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		t.Fatal("Shutdown returned before the in-flight call finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()

	if srv.ConnectionCount() != 0 {
		t.Fatalf("expected no tracked connections after shutdown, got %d", srv.ConnectionCount())
	}
	conn.Close()
}

func TestServerRejectsNewConnectionsAfterShutdown(t *testing.T) {
	b := NewRegistryBuilder()
	srv := NewServer(b.Build())
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()

	srv.Shutdown(time.Second)

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail after shutdown")
	}
	if resp == nil || resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %+v", resp)
	}
}
