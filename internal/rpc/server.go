// Package rpc serves tool calls over line-delimited JSON-RPC 2.0 on a
// reader/writer pair (stdin/stdout in production). Dispatch is strictly
// serial: one operation runs to completion before the next is read.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/bookwright-dev/bookwright/internal/auditlog"
	"github.com/bookwright-dev/bookwright/internal/tools"
)

// JSON-RPC 2.0 message types.

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"` // nil for notifications
}

// Response is a JSON-RPC 2.0 response.
// Result must NOT have omitempty — clients treat a missing result on a
// success response as a protocol violation.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result"`
	Error   *RPCError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Server dispatches tools/list and tools/call requests to a tool
// registry.
type Server struct {
	name      string
	functions []tools.Function
	library   tools.Library
	logger    *zap.Logger

	// auditPath, when set, receives one CSV row per tools/call.
	auditPath string
}

// NewServer creates a Server over a fixed tool registry. name identifies
// the server to clients in the tools/list result.
func NewServer(name string, functions []tools.Function, logger *zap.Logger) *Server {
	return &Server{
		name:      name,
		functions: functions,
		library:   tools.NewLibrary(functions),
		logger:    logger,
	}
}

// WithAuditLog enables the invocation audit trail at path.
func (s *Server) WithAuditLog(path string) *Server {
	s.auditPath = path
	return s
}

// Serve reads requests from r until EOF or a shutdown notification,
// writing one response line per request. Notifications get no response.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading request: %w", err)
		}

		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.respond(w, Response{
				JSONRPC: "2.0",
				Error:   &RPCError{Code: codeParseError, Message: "parse error: " + err.Error()},
			})
			continue
		}

		if req.Method == "shutdown" {
			return nil
		}

		resp := s.handle(ctx, req)
		if req.ID != nil {
			s.respond(w, resp)
		}
	}
}

func (s *Server) handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case "tools/list":
		return Response{
			JSONRPC: "2.0",
			Result: map[string]any{
				"server": s.name,
				"tools":  tools.NewDeclarations(s.functions),
			},
			ID: req.ID,
		}

	case "tools/call":
		var params callParams
		if req.Params != nil {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return Response{
					JSONRPC: "2.0",
					Error:   &RPCError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()},
					ID:      req.ID,
				}
			}
		}
		return s.call(ctx, req.ID, params)

	default:
		return Response{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: codeMethodNotFound, Message: "unknown method: " + req.Method},
			ID:      req.ID,
		}
	}
}

func (s *Server) call(ctx context.Context, id any, params callParams) Response {
	resp := s.library(ctx, &genai.FunctionCall{
		ID:   fmt.Sprint(id),
		Name: params.Name,
		Args: params.Arguments,
	})

	output, ok := resp.Response["output"].(string)
	if !ok {
		// Only unregistered tools land here; domain failures are text.
		msg := fmt.Sprint(resp.Response["error"])
		s.audit(params, "error", msg)
		return Response{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: codeMethodNotFound, Message: msg},
			ID:      id,
		}
	}

	s.audit(params, "ok", output)
	return Response{
		JSONRPC: "2.0",
		Result:  map[string]any{"content": output},
		ID:      id,
	}
}

func (s *Server) respond(w io.Writer, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshaling response", zap.Error(err))
		return
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		s.logger.Error("writing response", zap.Error(err))
	}
}

const auditDetailLimit = 200

func (s *Server) audit(params callParams, outcome, detail string) {
	if s.auditPath == "" {
		return
	}
	args, _ := json.Marshal(params.Arguments)
	if len(detail) > auditDetailLimit {
		detail = detail[:auditDetailLimit]
	}
	entry := auditlog.Entry{
		Timestamp: time.Now(),
		Tool:      params.Name,
		Args:      string(args),
		Outcome:   outcome,
		Detail:    detail,
	}
	if err := auditlog.Append(s.auditPath, []auditlog.Entry{entry}); err != nil {
		s.logger.Warn("failed to write audit log", zap.Error(err))
	}
}
