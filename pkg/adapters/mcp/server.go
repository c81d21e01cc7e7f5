// Package mcp serves the tool registry as a Model Context Protocol server.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/scout/internal/logging"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/tools"
)

// ServerName is advertised during the MCP handshake.
const ServerName = "scout-mcp"

// Dispatcher is the subset of tools.Dispatcher used by the server.
type Dispatcher interface {
	Call(ctx context.Context, req domain.ToolRequest) (*tools.Result, error)
	Registry() *tools.Registry
}

// Server exposes a Dispatcher over MCP.
type Server struct {
	dispatcher Dispatcher
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer registers every tool of the dispatcher's registry.
func NewServer(d Dispatcher, version string, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		logger:     logging.NewNop(),
		mcpServer: server.NewMCPServer(ServerName, strings.TrimSpace(version),
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, t := range d.Registry().List() {
		s.mcpServer.AddTool(Tool(t), s.handler(t.Name))
	}
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Tool converts a registry entry into its MCP description.
func Tool(t tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description),
		mcp.WithReadOnlyHintAnnotation(t.ReadOnly),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	}
	for _, p := range t.Params {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch p.Type {
		case tools.TypeArray:
			popts = append(popts, mcp.Items(map[string]any{"type": "string"}))
			opts = append(opts, mcp.WithArray(p.Name, popts...))
		case tools.TypeNumber:
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		case tools.TypeBoolean:
			opts = append(opts, mcp.WithBoolean(p.Name, popts...))
		default:
			if len(p.Enum) > 0 {
				popts = append(popts, mcp.Enum(p.Enum...))
			}
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(t.Name, opts...)
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := s.dispatcher.Call(ctx, domain.ToolRequest{
			Name:      name,
			Arguments: request.GetArguments(),
		})
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(res.Text()), nil
	}
}

// errorResult renders a failure as an IsError result whose text is the
// JSON {code, message} pair.
func errorResult(err error) *mcp.CallToolResult {
	te := tools.Classify(err)
	payload, mErr := json.Marshal(te)
	if mErr != nil {
		return mcp.NewToolResultError(te.Message)
	}
	return mcp.NewToolResultError(string(payload))
}

// HandleMessage answers one JSON-RPC message. A tools/call naming a tool
// outside the registry fails with MethodNotFound; everything else goes to
// the protocol server.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	if resp := s.unknownTool(raw); resp != nil {
		return resp
	}
	return s.mcpServer.HandleMessage(ctx, raw)
}

type callEnvelope struct {
	ID     any    `json:"id"`
	Method string `json:"method"`
	Params struct {
		Name string `json:"name"`
	} `json:"params"`
}

// unknownTool returns the MethodNotFound response for a tools/call whose
// tool is not registered, and nil for any other message.
func (s *Server) unknownTool(raw []byte) mcp.JSONRPCMessage {
	var env callEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if env.ID == nil || env.Method != string(mcp.MethodToolsCall) {
		return nil
	}
	if _, ok := s.dispatcher.Registry().Lookup(env.Params.Name); ok {
		return nil
	}
	te := tools.Errorf(tools.CodeMethodNotFound, "unknown tool: %s", env.Params.Name)
	s.logger.Warn("call to unknown tool", "tool", env.Params.Name)
	return mcp.NewJSONRPCError(mcp.NewRequestId(env.ID), mcp.METHOD_NOT_FOUND, te.Message, nil)
}

// lockedWriter serializes whole-message writes shared by the stdio
// transport and the unknown-tool guard.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// ServeStdio serves on Stdin/Stdout until the client disconnects or the
// process is interrupted.
func (s *Server) ServeStdio() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Listen(ctx, os.Stdin, os.Stdout)
}

// Listen runs the stdio transport over in and out. Calls to unknown tools
// are answered here; every other line is forwarded to the protocol server.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	w := &lockedWriter{w: out}
	pr, pw := io.Pipe()

	go func() {
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadBytes('\n')
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				if resp := s.unknownTool(trimmed); resp != nil {
					if encoded, mErr := json.Marshal(resp); mErr == nil {
						_, _ = fmt.Fprintf(w, "%s\n", encoded)
					}
				} else if _, wErr := pw.Write(append(trimmed, '\n')); wErr != nil {
					return
				}
			}
			if err != nil {
				_ = pw.CloseWithError(err)
				return
			}
		}
	}()
	defer pr.Close()

	return server.NewStdioServer(s.mcpServer).Listen(ctx, pr, w)
}

// ServeSSE serves the SSE transport on port until ctx is cancelled.
// baseURL defaults to http://localhost:<port>.
func (s *Server) ServeSSE(ctx context.Context, port int, baseURL string) error {
	addr := fmt.Sprintf(":%d", port)
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.SSEHandler(baseURL),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr, "base_url", baseURL)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// SSEHandler routes /sse and /message for the SSE transport.
func (s *Server) SSEHandler(baseURL string) http.Handler {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(s.guardMessages(sseServer, sseServer.MessageHandler())))
	return mux
}

// guardMessages answers calls to unknown tools on the client's event stream
// and passes every other message through.
func (s *Server) guardMessages(sse *server.SSEServer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "could not read message", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if resp := s.unknownTool(body); resp != nil {
			if err := sse.SendEventToSession(r.URL.Query().Get("sessionId"), resp); err == nil {
				w.WriteHeader(http.StatusAccepted)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
