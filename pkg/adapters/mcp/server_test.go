package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scout/pkg/tools"
)

type echoArgs struct {
	Company string   `mapstructure:"company" validate:"required"`
	Country string   `mapstructure:"country" validate:"required,oneof=Belgium Netherlands"`
	URLs    []string `mapstructure:"urls"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dec := tools.NewDecoder(0)
	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(tools.Tool{
		Name:        "echo",
		Description: "Echo the arguments",
		ReadOnly:    true,
		Params: []tools.Param{
			{Name: "company", Type: tools.TypeString, Required: true, Description: "Company"},
			{Name: "country", Type: tools.TypeString, Required: true, Enum: []string{"Belgium", "Netherlands"}},
			{Name: "urls", Type: tools.TypeArray},
		},
		Handler: tools.Bind(dec, func(ctx context.Context, args echoArgs) (any, error) {
			return args, nil
		}),
	}))
	require.NoError(t, reg.Register(tools.Tool{
		Name: "broken",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("upstream exploded")
		},
	}))
	return NewServer(tools.NewDispatcher(reg), "1.2.3\n")
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestTool_Schema(t *testing.T) {
	tool := Tool(tools.Tool{
		Name:        "lookup",
		Description: "Look something up",
		ReadOnly:    true,
		Params: []tools.Param{
			{Name: "name", Type: tools.TypeString, Required: true},
			{Name: "country", Type: tools.TypeString, Enum: []string{"Belgium", "Netherlands"}},
			{Name: "urls", Type: tools.TypeArray, Required: true},
		},
	})

	assert.Equal(t, "lookup", tool.Name)
	assert.Equal(t, "Look something up", tool.Description)
	assert.ElementsMatch(t, []string{"name", "urls"}, tool.InputSchema.Required)
	require.Contains(t, tool.InputSchema.Properties, "country")

	country := tool.InputSchema.Properties["country"].(map[string]any)
	assert.Equal(t, "string", country["type"])
	assert.Equal(t, []string{"Belgium", "Netherlands"}, country["enum"])

	urls := tool.InputSchema.Properties["urls"].(map[string]any)
	assert.Equal(t, "array", urls["type"])

	require.NotNil(t, tool.Annotations.ReadOnlyHint)
	assert.True(t, *tool.Annotations.ReadOnlyHint)
}

func TestHandler_Success(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handler("echo")(context.Background(), callRequest(map[string]any{
		"company": "Acme", "country": "Belgium", "urls": []any{"https://x"},
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text := res.Content[0].(mcp.TextContent).Text
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "Acme", out["Company"])
}

func TestHandler_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		code tools.Code
		msg  string
	}{
		{"missing argument", "echo", map[string]any{"country": "Belgium"}, tools.CodeInvalidParams, "missing required argument: company"},
		{"internal", "broken", nil, tools.CodeInternalError, "upstream exploded"},
		{"unknown", "nope", nil, tools.CodeMethodNotFound, "unknown tool: nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handler(tt.tool)(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)

			var te tools.ToolError
			require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &te))
			assert.Equal(t, tt.code, te.Code)
			assert.Equal(t, tt.msg, te.Message)
		})
	}
}

func TestServer_ToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	var names []string
	for _, tool := range decoded.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"echo", "broken"}, names)
}

type rpcReply struct {
	ID     any `json:"id"`
	Result struct {
		IsError bool `json:"isError"`
		Tools   []struct {
			Name string `json:"name"`
		} `json:"tools"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeReply(t *testing.T, msg any) rpcReply {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	var r rpcReply
	require.NoError(t, json.Unmarshal(raw, &r))
	return r
}

func TestHandleMessage_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	reply := decodeReply(t, s.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"nope"}}`)))

	require.NotNil(t, reply.Error)
	assert.Equal(t, mcp.METHOD_NOT_FOUND, reply.Error.Code)
	assert.Equal(t, "unknown tool: nope", reply.Error.Message)
	assert.Equal(t, float64(7), reply.ID)
}

func TestHandleMessage_KnownToolPassesThrough(t *testing.T) {
	s := newTestServer(t)

	reply := decodeReply(t, s.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"company":"Acme","country":"Belgium"}}}`)))
	assert.Nil(t, reply.Error)
	assert.False(t, reply.Result.IsError)

	reply = decodeReply(t, s.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))
	assert.Nil(t, reply.Error)
	assert.Len(t, reply.Result.Tools, 2)
}

func TestListen_Stdio(t *testing.T) {
	s := newTestServer(t)

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope"}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n")
	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Listen(ctx, in, &out))

	replies := map[float64]rpcReply{}
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var r rpcReply
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		if id, ok := r.ID.(float64); ok {
			replies[id] = r
		}
	}

	require.Contains(t, replies, float64(1))
	require.NotNil(t, replies[1].Error)
	assert.Equal(t, mcp.METHOD_NOT_FOUND, replies[1].Error.Code)

	require.Contains(t, replies, float64(2))
	assert.Len(t, replies[2].Result.Tools, 2)
}

// readEvent returns the data line of the next SSE event named name.
func readEvent(t *testing.T, r *bufio.Reader, name string) string {
	t.Helper()
	current := ""
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			current = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && current == name:
			return strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestSSE_UnknownTool(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.SSEHandler("http://scout.test"))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sse", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	events := bufio.NewReader(stream.Body)
	endpoint, err := url.Parse(readEvent(t, events, "endpoint"))
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+endpoint.RequestURI(), "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"nope"}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var reply rpcReply
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, events, "message")), &reply))
	require.NotNil(t, reply.Error)
	assert.Equal(t, mcp.METHOD_NOT_FOUND, reply.Error.Code)
	assert.Equal(t, float64(3), reply.ID)
}

func TestCORSMiddleware(t *testing.T) {
	h := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/sse", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sse", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
