package chat

import (
	"errors"
	"strings"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	UserID         string `json:"user_id"`
	SessionID      string `json:"session_id"`
	Message        string `json:"message"`
	PreferredAgent string `json:"preferred_agent,omitempty"`
}

// ChatResponse is the result of one turn. UpgradeRequired turns carry the upgrade text as Reply.
type ChatResponse struct {
	Reply           string `json:"reply"`
	Agent           string `json:"agent"`
	UpgradeRequired bool   `json:"upgrade_required"`
}

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// ErrGeneration wraps completion failures; the turn produced no reply.
var ErrGeneration = errors.New("chat: generation failed")
