package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Role is the author of a persisted message. Only user and assistant turns
// are stored; system prompts and tool traffic never reach the message table.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two persistable roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// User owns sessions and documents.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullname"`
	CreatedAt time.Time `json:"created_at"`
}

// Session stores metadata about a conversation.
type Session struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message stores a single turn in a session.
type Message struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is user-owned reference text searched by the retrieval workflow.
type Document struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupedSessions buckets a user's sessions by creation date.
type GroupedSessions struct {
	Today      []*Session `json:"today"`
	Yesterday  []*Session `json:"yesterday"`
	Last7Days  []*Session `json:"last_7_days"`
	Last30Days []*Session `json:"last_30_days"`
	Older      []*Session `json:"older"`
	Total      int        `json:"total"`
}

// SessionRef is a client-supplied session identifier. Clients send it either
// as a JSON number or a JSON string, so the raw text is kept and parsed later.
type SessionRef string

// UnmarshalJSON accepts numbers, strings and null.
func (r *SessionRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = SessionRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("session_id must be a number or a string: %w", err)
	}
	// A numeric 0 means no session, like an absent field.
	if v, err := n.Float64(); err == nil && v == 0 {
		*r = ""
		return nil
	}
	*r = SessionRef(n.String())
	return nil
}

// IsZero reports whether no session id was supplied.
func (r SessionRef) IsZero() bool {
	return r == ""
}

// Int64 parses the reference as a positive integer identifier.
func (r SessionRef) Int64() (int64, error) {
	id, err := strconv.ParseInt(string(r), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("session id must be positive, got %d", id)
	}
	return id, nil
}

// ChatRequest is the input of both the atomic and the streaming chat path.
type ChatRequest struct {
	Query     string     `json:"query" validate:"required,min=1,max=8000" example:"What is the capital of France?"`
	SessionID SessionRef `json:"session_id,omitempty" swaggertype:"string" example:"42"`
}

// ChatResponse is the result of the atomic chat path.
type ChatResponse struct {
	Query        string   `json:"query"`
	Response     string   `json:"response"`
	AgentType    *string  `json:"agent_type,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	SessionID    *string  `json:"session_id,omitempty"`
	SessionName  *string  `json:"session_name,omitempty"`
	IsNewSession bool     `json:"is_new_session"`
	Error        *string  `json:"error,omitempty"`
}

// CompletionRequest is a bare model call outside any session.
type CompletionRequest struct {
	Query string `json:"query" validate:"required,min=1,max=8000"`
}

// Usage reports token accounting for one model call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GuardrailVerdict is the client-facing view of a safety validation.
type GuardrailVerdict struct {
	Valid   bool    `json:"valid"`
	Blocked bool    `json:"blocked"`
	Reason  *string `json:"reason"`
}

// CompletionResponse is the result of a bare model call.
type CompletionResponse struct {
	Content         string           `json:"content"`
	Model           string           `json:"model"`
	Usage           *Usage           `json:"usage,omitempty"`
	GuardrailResult GuardrailVerdict `json:"guardrail_result"`
}

// RenameSessionRequest is the DTO for renaming a session.
type RenameSessionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255" example:"Trip planning"`
}
