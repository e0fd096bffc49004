package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/internal/logging"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource exposing every workflow as JSON.
const CatalogURI = "cvrguide://catalog"

// ReplyMCPApology replaces engine errors in tool results.
const ReplyMCPApology = "I apologize, I'm having trouble processing this conversation. Please try again, or reset the session."

// Engine is what the MCP server needs from the conversation core.
type Engine interface {
	HandleMessage(ctx context.Context, sessionID, text string) (string, error)
	ResetSession(ctx context.Context, sessionID string) error
	Catalog() ports.GuideCatalog
}

// Server exposes the guide to MCP clients, so an agent can relay a citizen's messages.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Stdio mode must not log to stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		mcpServer: server.NewMCPServer("cvrguide-mcp", cvrguide.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Send a citizen's message to the INEC CVR guide and get the next instruction."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation id; reuse it for every message of one citizen")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The citizen's message, e.g. 'yes', 'back', 'transfer'")),
	), s.handleSendMessage)

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Forget a conversation so the next message starts from the portal sign-up."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation id")),
	), s.handleResetSession)

	s.mcpServer.AddTool(mcp.NewTool("list_services",
		mcp.WithDescription("List the CVR services the guide covers, with their prerequisites."),
	), s.handleListServices)
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	message := request.GetString("message", "")

	reply, err := s.engine.HandleMessage(ctx, sessionID, message)
	if err != nil {
		s.logger.Error("mcp: turn failed", "session_id", sessionID, "err", err)
		return mcp.NewToolResultError(ReplyMCPApology), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleResetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.engine.ResetSession(ctx, sessionID); err != nil {
		s.logger.Error("mcp: reset failed", "session_id", sessionID, "err", err)
		return mcp.NewToolResultError(ReplyMCPApology), nil
	}
	return mcp.NewToolResultText(cvrguide.ReplyReset), nil
}

type serviceInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Summary       string   `json:"summary,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

func (s *Server) handleListServices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := s.engine.Catalog()
	services := make([]serviceInfo, 0, len(c.Services()))
	for _, id := range c.Services() {
		wf, err := c.Get(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		services = append(services, serviceInfo{
			ID:            wf.ID,
			Name:          wf.DisplayName(),
			Summary:       wf.Summary,
			Prerequisites: wf.Prerequisites,
			Keywords:      wf.Keywords,
		})
	}
	data, err := json.Marshal(services)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "INEC CVR workflow catalog",
		mcp.WithResourceDescription("Every workflow with its steps, required documents and prerequisites."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := catalogJSON(s.engine.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to export catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func catalogJSON(c ports.GuideCatalog) ([]byte, error) {
	ids := append([]string{c.Bootstrap()}, c.Services()...)
	workflows := make([]*domain.Workflow, 0, len(ids))
	for _, id := range ids {
		wf, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return json.Marshal(workflows)
}
