package models

import (
	"github.com/google/uuid"
)

// Session types. Budget sessions get the owner's budget snapshot
// injected into the model context.
const (
	SessionTypeChat   = "chat"
	SessionTypeBudget = "budget"
)

// Message roles as stored and as sent to the LLM API.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatSession is one conversation of a user.
type ChatSession struct {
	DefaultModel
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	SessionType string    `json:"sessionType" gorm:"default:chat"`
}

// ChatMessage is a single message within a session.
type ChatMessage struct {
	DefaultModel
	SessionID uuid.UUID   `json:"sessionId"`
	Session   ChatSession `json:"-"`
	Role      string      `json:"role"`
	Content   string      `json:"content"`
}
