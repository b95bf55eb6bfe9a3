package chat

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ValidateRequest returns one message per missing field; an empty result means valid.
func ValidateRequest(req ChatRequest) []string {
	var problems []string
	if req.UserID == "" {
		problems = append(problems, "user_id is required")
	}
	if req.SessionID == "" {
		problems = append(problems, "session_id is required")
	}
	if req.Message == "" {
		problems = append(problems, "message is required")
	}
	return problems
}

// DecodeRequest parses a raw JSON body. Fields that are absent, empty or not strings
// are reported as required, all in one pass.
func DecodeRequest(body []byte) (ChatRequest, []string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ChatRequest{}, []string{"missing request body"}
	}
	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return ChatRequest{}, []string{"invalid JSON body"}
	}
	req := ChatRequest{
		UserID:         stringField(raw, "user_id"),
		SessionID:      stringField(raw, "session_id"),
		Message:        stringField(raw, "message"),
		PreferredAgent: strings.TrimSpace(stringField(raw, "preferred_agent")),
	}
	return req, ValidateRequest(req)
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
