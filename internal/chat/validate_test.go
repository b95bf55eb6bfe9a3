package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequestAccumulates(t *testing.T) {
	assert.Empty(t, ValidateRequest(ChatRequest{UserID: "u", SessionID: "s", Message: "m"}))
	assert.Equal(t,
		[]string{"user_id is required", "session_id is required", "message is required"},
		ValidateRequest(ChatRequest{}),
	)
	assert.Equal(t, []string{"session_id is required"}, ValidateRequest(ChatRequest{UserID: "u", Message: "m"}))
}

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     ChatRequest
		problems []string
	}{
		{
			name: "valid with agent",
			body: `{"user_id":"u","session_id":"s","message":"hi","preferred_agent":" hr-solutions "}`,
			want: ChatRequest{UserID: "u", SessionID: "s", Message: "hi", PreferredAgent: "hr-solutions"},
		},
		{
			name:     "empty body",
			body:     "  ",
			problems: []string{"missing request body"},
		},
		{
			name:     "null body",
			body:     "null",
			problems: []string{"missing request body"},
		},
		{
			name:     "wrong types are missing",
			body:     `{"user_id":42,"session_id":"","message":["hi"],"preferred_agent":7}`,
			problems: []string{"user_id is required", "session_id is required", "message is required"},
		},
		{
			name:     "only message",
			body:     `{"message":"hi"}`,
			want:     ChatRequest{Message: "hi"},
			problems: []string{"user_id is required", "session_id is required"},
		},
		{
			name:     "not json",
			body:     `{"user_id":`,
			problems: []string{"invalid JSON body"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, problems := DecodeRequest([]byte(tt.body))
			assert.Equal(t, tt.problems, problems)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorJoins(t *testing.T) {
	err := &ValidationError{Problems: []string{"user_id is required", "message is required"}}
	assert.Equal(t, "user_id is required; message is required", err.Error())
}
