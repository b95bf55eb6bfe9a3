package history

import "time"

// Turn is one persisted exchange between the user and an agent.
type Turn struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AgentName   string    `json:"agent_name"`
	UserMessage string    `json:"user_message"`
	AIReply     string    `json:"ai_reply"`
	CreatedAt   time.Time `json:"created_at"`
}

// Entry is the wire form of a turn returned by the history endpoint.
// message/reply duplicate user_message/ai_reply for older clients.
type Entry struct {
	Message     string    `json:"message"`
	Reply       string    `json:"reply"`
	UserMessage string    `json:"user_message"`
	AIReply     string    `json:"ai_reply"`
	Timestamp   time.Time `json:"timestamp"`
}

// ListResponse is the body of GET /api/chat-history.
type ListResponse struct {
	History []Entry `json:"history"`
}

// ToEntry converts a turn to its wire form.
func (t Turn) ToEntry() Entry {
	return Entry{
		Message:     t.UserMessage,
		Reply:       t.AIReply,
		UserMessage: t.UserMessage,
		AIReply:     t.AIReply,
		Timestamp:   t.CreatedAt,
	}
}
