package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsetu/setu/internal/access"
	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/db"
	"github.com/startupsetu/setu/internal/db/dbtest"
	"github.com/startupsetu/setu/internal/db/sqlc"
	"github.com/startupsetu/setu/internal/history"
	"github.com/startupsetu/setu/internal/llm"
	"github.com/startupsetu/setu/internal/logger"
	"github.com/startupsetu/setu/internal/memory"
	"github.com/startupsetu/setu/internal/writes"
)

// MockLLM records every call and returns a canned reply or error.
type MockLLM struct {
	mu    sync.Mutex
	Reply string
	Err   error
	Calls [][]llm.Message
}

func (m *MockLLM) Generate(_ context.Context, messages []llm.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, messages)
	return m.Reply, m.Err
}

func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type spyDecider struct {
	calls int
}

func (s *spyDecider) Decide(context.Context, string, agents.Agent) (access.Decision, error) {
	s.calls++
	return access.Decision{Allowed: true}, nil
}

type fixture struct {
	q       *dbtest.Queries
	llm     *MockLLM
	writer  *writes.Writer
	svc     *Service
	mem     *memory.Service
	hist    *history.Service
	access  *access.Service
	userID  string
	session string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Discard()
	q := dbtest.New()
	f := &fixture{
		q:       q,
		llm:     &MockLLM{Reply: "Let's sharpen that idea."},
		writer:  writes.NewWriter(log, time.Second),
		mem:     memory.NewService(log, q),
		hist:    history.NewService(log, q),
		access:  access.NewService(log, q),
		session: "sess-1",
	}
	f.userID = db.UUIDToString(db.NewUUID())
	f.svc = NewService(log, f.access, f.mem, f.hist, f.llm, f.writer, 10)
	return f
}

func (f *fixture) chat(t *testing.T, message, agent string) (ChatResponse, error) {
	t.Helper()
	resp, err := f.svc.Chat(context.Background(), ChatRequest{
		UserID:         f.userID,
		SessionID:      f.session,
		Message:        message,
		PreferredAgent: agent,
	})
	require.NoError(t, f.writer.Wait(context.Background()))
	return resp, err
}

func TestChatValidationMakesNoCalls(t *testing.T) {
	decider := &spyDecider{}
	mock := &MockLLM{}
	svc := NewService(logger.Discard(), decider, nil, nil, mock, writes.NewWriter(logger.Discard(), time.Second), 10)

	for _, req := range []ChatRequest{
		{},
		{UserID: "u"},
		{UserID: "u", SessionID: "s"},
		{SessionID: "s", Message: "m"},
	} {
		_, err := svc.Chat(context.Background(), req)
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, ValidateRequest(req), vErr.Problems)
	}
	assert.Equal(t, 0, decider.calls)
	assert.Equal(t, 0, mock.CallCount())
}

func TestChatLockedAgentSkipsGeneration(t *testing.T) {
	f := newFixture(t)

	resp, err := f.chat(t, "help me hire", "hr-solutions")
	require.NoError(t, err)
	assert.True(t, resp.UpgradeRequired)
	assert.Equal(t, "HR Solutions Agent", resp.Agent)
	assert.Equal(t, "This agent requires a premium subscription. Please upgrade to unlock access.", resp.Reply)
	assert.Equal(t, 0, f.llm.CallCount())
	assert.Equal(t, 0, f.q.Calls("CreateChatHistory"))
	assert.Equal(t, 0, f.q.Calls("GetStartupMemory"))
}

func TestChatUnlockGateMessageNamesAgent(t *testing.T) {
	f := newFixture(t)

	resp, err := f.chat(t, "register my company", "Business Support Services Agent")
	require.NoError(t, err)
	assert.True(t, resp.UpgradeRequired)
	assert.Equal(t, "Business Support Services Agent", resp.Agent)
	assert.Contains(t, resp.Reply, "you need the Business Support Services Agent to continue")
	assert.Equal(t, 0, f.llm.CallCount())
}

func TestChatAccessLookupFailureDenies(t *testing.T) {
	f := newFixture(t)
	f.q.SetFail("GetSubscription", errors.New("timeout"))

	resp, err := f.chat(t, "hello", "funding-loans")
	require.NoError(t, err)
	assert.True(t, resp.UpgradeRequired)
	assert.Equal(t, 0, f.llm.CallCount())
}

func TestChatFreeAgentAlwaysAllowed(t *testing.T) {
	f := newFixture(t)
	// Even an explicitly inactive free row is ignored.
	pgID, err := db.ParseUUID(f.userID)
	require.NoError(t, err)
	require.NoError(t, f.q.UpsertSubscription(context.Background(), sqlc.UpsertSubscriptionParams{
		UserID: pgID, AgentID: string(agents.FreeAgent),
	}))

	for _, preferred := range []string{"", "business-blueprinting", "Business Blueprinting Agent"} {
		resp, err := f.chat(t, "hi", preferred)
		require.NoError(t, err)
		assert.False(t, resp.UpgradeRequired)
		assert.Equal(t, "Business Blueprinting Agent", resp.Agent)
	}
	assert.Equal(t, 3, f.llm.CallCount())
}

func TestChatSubscribedAgentAnswers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.access.Grant(context.Background(), f.userID, agents.Resolve("hr-solutions"), true))

	resp, err := f.chat(t, "help me hire", "hr-solutions")
	require.NoError(t, err)
	assert.False(t, resp.UpgradeRequired)
	assert.Equal(t, "HR Solutions Agent", resp.Agent)
	require.Equal(t, 1, f.llm.CallCount())
	assert.Equal(t, agents.Persona(agents.HRSolutions), f.llm.Calls[0][0].Content)
}

func TestChatBuildsMessagesFromHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.mem.Upsert(ctx, f.userID, memory.Update{memory.FieldIdea: "spice exports"}))
	_, err := f.hist.Append(ctx, f.userID, string(agents.FreeAgent), "earlier question", "earlier answer")
	require.NoError(t, err)

	_, err = f.chat(t, "what next?", "")
	require.NoError(t, err)

	require.Equal(t, 1, f.llm.CallCount())
	msgs := f.llm.Calls[0]
	require.Len(t, msgs, 4)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "- Idea: spice exports")
	assert.Contains(t, msgs[0].Content, "User has discussed - earlier question...")
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "earlier question"}, msgs[1])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "earlier answer"}, msgs[2])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "what next?"}, msgs[3])
}

func TestChatPersistsTurn(t *testing.T) {
	f := newFixture(t)

	resp, err := f.chat(t, "my idea is a tractor marketplace", "")
	require.NoError(t, err)
	assert.Equal(t, "Let's sharpen that idea.", resp.Reply)

	turns, err := f.hist.List(context.Background(), f.userID, string(agents.FreeAgent))
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "my idea is a tractor marketplace", turns[0].UserMessage)
	assert.Equal(t, "Let's sharpen that idea.", turns[0].AIReply)
}

func TestChatMemoryUpdateKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.mem.Upsert(ctx, f.userID, memory.Update{
		memory.FieldIdea:     "spice exports",
		memory.FieldIndustry: "food",
		memory.FieldStage:    "mvp",
	}))

	_, err := f.chat(t, "update: industry: retail", "")
	require.NoError(t, err)

	got, ok, err := f.mem.Get(ctx, f.userID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, memory.StartupMemory{Idea: "spice exports", Industry: "retail", Stage: "mvp"}, got)
}

func TestChatNoLabelsNoUpsert(t *testing.T) {
	f := newFixture(t)

	_, err := f.chat(t, "just chatting about my plans", "")
	require.NoError(t, err)
	assert.Equal(t, 0, f.q.Calls("UpsertStartupMemory"))
}

func TestChatReplyLabelsAreNotExtracted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mem.Upsert(context.Background(), f.userID, memory.Update{memory.FieldIndustry: "fintech"}))
	before := f.q.Calls("UpsertStartupMemory")
	f.llm.Reply = "Industry: retail\nStage: growth\nIdea: a grocery app"

	resp, err := f.chat(t, "what should I focus on next?", "")
	require.NoError(t, err)
	assert.Equal(t, f.llm.Reply, resp.Reply)
	assert.Equal(t, before, f.q.Calls("UpsertStartupMemory"))

	stored, ok, err := f.mem.Get(context.Background(), f.userID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fintech", stored.Value(memory.FieldIndustry))
	assert.Empty(t, stored.Value(memory.FieldStage))
	assert.Empty(t, stored.Value(memory.FieldIdea))
}

func TestChatUnchangedLabelsNoUpsert(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mem.Upsert(context.Background(), f.userID, memory.Update{memory.FieldStage: "mvp"}))
	before := f.q.Calls("UpsertStartupMemory")

	_, err := f.chat(t, "stage: mvp", "")
	require.NoError(t, err)
	assert.Equal(t, before, f.q.Calls("UpsertStartupMemory"))
}

func TestChatGenerationFailureAppendsNothing(t *testing.T) {
	f := newFixture(t)
	upstream := &llm.UpstreamError{Provider: "openai", StatusCode: 503, Message: "overloaded"}
	f.llm.Err = upstream

	_, err := f.chat(t, "industry: retail", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneration)
	var upErr *llm.UpstreamError
	assert.True(t, errors.As(err, &upErr))
	assert.Equal(t, 0, f.q.Calls("CreateChatHistory"))
	assert.Equal(t, 0, f.q.Calls("UpsertStartupMemory"))
}

func TestChatHistoryAppendFailureIsInvisible(t *testing.T) {
	f := newFixture(t)
	f.q.SetFail("CreateChatHistory", errors.New("disk full"))

	resp, err := f.chat(t, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "Let's sharpen that idea.", resp.Reply)
	assert.Equal(t, 1, f.q.Calls("CreateChatHistory"))
}

func TestChatDegradedContextOnReadFailures(t *testing.T) {
	f := newFixture(t)
	f.q.SetFail("GetStartupMemory", errors.New("timeout"))
	f.q.SetFail("ListRecentChatHistory", errors.New("timeout"))

	resp, err := f.chat(t, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "Let's sharpen that idea.", resp.Reply)
	require.Equal(t, 1, f.llm.CallCount())
	msgs := f.llm.Calls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, agents.Persona(agents.BusinessBlueprinting), msgs[0].Content)
}

func TestChatUnknownAgentUsesDefaultPersonaWhenSubscribed(t *testing.T) {
	f := newFixture(t)
	pgID, err := db.ParseUUID(f.userID)
	require.NoError(t, err)
	require.NoError(t, f.q.UpsertSubscription(context.Background(), sqlc.UpsertSubscriptionParams{
		UserID: pgID, AgentID: "beta-agent", IsActive: true,
	}))

	resp, err := f.chat(t, "hi", "beta-agent")
	require.NoError(t, err)
	assert.False(t, resp.UpgradeRequired)
	assert.Equal(t, "beta-agent", resp.Agent)
	require.Equal(t, 1, f.llm.CallCount())
	assert.Equal(t, agents.Persona(agents.BusinessBlueprinting), f.llm.Calls[0][0].Content)
}

func TestChatEmptyReplyIsReturned(t *testing.T) {
	f := newFixture(t)
	f.llm.Reply = ""

	resp, err := f.chat(t, "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "", resp.Reply)
	assert.False(t, resp.UpgradeRequired)
}
