package model

// WorkflowType names a processing workflow the router can dispatch to.
type WorkflowType string

const (
	WorkflowChat  WorkflowType = "chat"
	WorkflowGraph WorkflowType = "graph"
	WorkflowRAG   WorkflowType = "rag"
)

// RoutingDecision records how a query was dispatched.
type RoutingDecision struct {
	Detected   WorkflowType `json:"detected"`
	Confidence float64      `json:"confidence"`
	Threshold  float64      `json:"threshold"`
	Routed     WorkflowType `json:"routed"`
	AutoRouted bool         `json:"auto_routed"`
}

// StreamEventType discriminates stream events. Exactly one terminal event
// (error or done) closes a stream.
type StreamEventType string

const (
	EventChunk StreamEventType = "chunk"
	EventError StreamEventType = "error"
	EventDone  StreamEventType = "done"
)

// StreamEvent is a single frame of a streaming chat response.
type StreamEvent struct {
	Type     StreamEventType `json:"type"`
	Content  string          `json:"content"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

// Terminal reports whether the event ends the stream.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventError || e.Type == EventDone
}
