package domain

// ToolRequest is a single tool invocation as received from the client.
type ToolRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}
