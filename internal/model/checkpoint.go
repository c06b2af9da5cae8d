package model

import "time"

// Checkpoint is the saved conversation state of a workflow for one session.
// It is written after every turn and cleared when the session is deleted.
type Checkpoint struct {
	SessionID int64             `json:"session_id"`
	Workflow  WorkflowType      `json:"workflow"`
	Turn      int               `json:"turn"`
	Nodes     []string          `json:"nodes"`
	State     map[string]string `json:"state,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
