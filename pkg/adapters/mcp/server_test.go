package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/pkg/adapters/memory"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	eng, err := cvrguide.New()
	require.NoError(t, err)
	return NewServer(eng)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestSendMessage(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleSendMessage(ctx, callRequest("send_message", map[string]any{"session_id": "agent-1", "message": "hi"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.True(t, strings.HasPrefix(resultText(t, res), "**Step 1:**"))

	res, err = s.handleSendMessage(ctx, callRequest("send_message", map[string]any{"session_id": "agent-1", "message": "yes"}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resultText(t, res), "**Step 2:**"))
}

func TestSendMessage_MissingSession(t *testing.T) {
	s := newServer(t)

	res, err := s.handleSendMessage(context.Background(), callRequest("send_message", map[string]any{"message": "hi"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSendMessage_EngineErrorApologizes(t *testing.T) {
	store := memory.NewStore()
	eng, err := cvrguide.New(cvrguide.WithStore(store))
	require.NoError(t, err)
	s := NewServer(eng)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "agent-x", &domain.SessionState{ActiveWorkflow: "ghost", CompletedWorkflows: []string{}}))

	res, err := s.handleSendMessage(ctx, callRequest("send_message", map[string]any{"session_id": "agent-x", "message": "yes"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, ReplyMCPApology, resultText(t, res))
}

type failingEngine struct{}

func (failingEngine) HandleMessage(context.Context, string, string) (string, error) {
	return "", errors.New("redis: connection refused")
}
func (failingEngine) ResetSession(context.Context, string) error {
	return errors.New("redis: connection refused")
}
func (failingEngine) Catalog() ports.GuideCatalog { return nil }

func TestResetSession_EngineErrorApologizes(t *testing.T) {
	s := NewServer(failingEngine{})

	res, err := s.handleResetSession(context.Background(), callRequest("reset_session", map[string]any{"session_id": "a"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, ReplyMCPApology, resultText(t, res))
}

func TestResetSession(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleSendMessage(ctx, callRequest("send_message", map[string]any{"session_id": "a", "message": "yes"}))
	require.NoError(t, err)

	res, err := s.handleResetSession(ctx, callRequest("reset_session", map[string]any{"session_id": "a"}))
	require.NoError(t, err)
	assert.Equal(t, cvrguide.ReplyReset, resultText(t, res))

	res, err = s.handleSendMessage(ctx, callRequest("send_message", map[string]any{"session_id": "a", "message": "yes"}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resultText(t, res), "**Step 2:**"), "reset session starts over")
}

func TestListServices(t *testing.T) {
	s := newServer(t)

	res, err := s.handleListServices(context.Background(), callRequest("list_services", nil))
	require.NoError(t, err)

	var services []serviceInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &services))
	require.Len(t, services, 5)
	assert.Equal(t, "new-registration", services[0].ID)
	assert.Equal(t, "Lost PVC", services[3].Name)
	assert.Contains(t, services[1].Prerequisites, "revalidation")
}

func TestCatalogJSON(t *testing.T) {
	eng, err := cvrguide.New()
	require.NoError(t, err)

	data, err := catalogJSON(eng.Catalog())
	require.NoError(t, err)

	var workflows []domain.Workflow
	require.NoError(t, json.Unmarshal(data, &workflows))
	require.Len(t, workflows, 6)
	assert.Equal(t, domain.BootstrapWorkflowID, workflows[0].ID)
	assert.Len(t, workflows[0].Steps, 5)
}
