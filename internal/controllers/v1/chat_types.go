package v1

import (
	"github.com/finadvisor/backend/internal/models"
	"github.com/google/uuid"
)

// ChatRequest is the body of POST /v1/chat. Without a session ID a new
// session is created from the message. budgetMode injects the user's
// budget snapshot into the model context.
type ChatRequest struct {
	Message    string     `json:"message" binding:"required"`
	SessionID  *uuid.UUID `json:"sessionId"`
	BudgetMode bool       `json:"budgetMode"`
}

// ChatReply is the assistant's answer.
type ChatReply struct {
	SessionID uuid.UUID          `json:"sessionId"`
	Message   models.ChatMessage `json:"message"`
}

type ChatResponse struct {
	Data ChatReply `json:"data"`
}

// SessionEditable creates a session up front, without a first message.
type SessionEditable struct {
	Title       string `json:"title"`
	SessionType string `json:"sessionType" binding:"omitempty,oneof=chat budget"`
}

// SessionInfo is a session with its message count.
type SessionInfo struct {
	models.ChatSession
	MessageCount int64 `json:"messageCount"`
}

type SessionResponse struct {
	Data models.ChatSession `json:"data"`
}

type SessionListResponse struct {
	Data []SessionInfo `json:"data"`
}

type MessageListResponse struct {
	Data []models.ChatMessage `json:"data"`
}
