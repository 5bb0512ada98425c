// Package chat owns the client's conversation state: the set of sessions,
// their append-only message logs, the active selection, and the submission
// flow that dispatches a turn to the backend and reconciles the outcome into
// the session it came from.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn entry in a session. Messages are immutable once
// created; a failed turn produces a new error message, it never rewrites a
// pending one.
type Message struct {
	// ID is unique within the process. UUIDs keep rapid successive
	// creation collision-free.
	ID string `json:"id"`
	// Role is who authored the message.
	Role Role `json:"role"`
	// Text is the display payload. For attachment-only turns this is a
	// placeholder like "Analyzing contract.pdf".
	Text string `json:"text"`
	// CreatedAt is for display formatting only; slice order is the
	// authoritative ordering.
	CreatedAt time.Time `json:"createdAt"`
	// AttachmentPresent marks a user turn that carried a document.
	AttachmentPresent bool `json:"attachmentPresent,omitempty"`
	// IsError marks an assistant turn that surfaces a failure instead of
	// an answer.
	IsError bool `json:"isError,omitempty"`
	// LatencySeconds is reported by the backend on successful assistant
	// turns only.
	LatencySeconds *float64 `json:"latencySeconds,omitempty"`
}

func newUserMessage(text string, attachment bool, now time.Time) Message {
	return Message{
		ID:                uuid.New().String(),
		Role:              RoleUser,
		Text:              text,
		CreatedAt:         now,
		AttachmentPresent: attachment,
	}
}

func newAssistantMessage(text string, latencySeconds float64, now time.Time) Message {
	latency := latencySeconds
	return Message{
		ID:             uuid.New().String(),
		Role:           RoleAssistant,
		Text:           text,
		CreatedAt:      now,
		LatencySeconds: &latency,
	}
}

func newErrorMessage(text string, now time.Time) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Text:      text,
		CreatedAt: now,
		IsError:   true,
	}
}
