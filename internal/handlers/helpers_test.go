package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/startupsetu/setu/internal/access"
	"github.com/startupsetu/setu/internal/accounts"
	"github.com/startupsetu/setu/internal/auth"
	"github.com/startupsetu/setu/internal/chat"
	"github.com/startupsetu/setu/internal/db/dbtest"
	"github.com/startupsetu/setu/internal/history"
	"github.com/startupsetu/setu/internal/llm"
	"github.com/startupsetu/setu/internal/logger"
	"github.com/startupsetu/setu/internal/memory"
	"github.com/startupsetu/setu/internal/subscriptions"
	"github.com/startupsetu/setu/internal/users"
	"github.com/startupsetu/setu/internal/writes"
)

const testSecret = "handler-test-secret"

type MockLLM struct {
	mu    sync.Mutex
	Reply string
	Err   error
	calls int
}

func (m *MockLLM) Generate(context.Context, []llm.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.Reply, m.Err
}

func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type testEnv struct {
	e       *echo.Echo
	q       *dbtest.Queries
	llm     *MockLLM
	writer  *writes.Writer
	users   *users.Service
	history *history.Service
}

func newTestEnv(t *testing.T, opts AuthOptions) *testEnv {
	t.Helper()
	log := logger.Discard()
	q := dbtest.New()
	mock := &MockLLM{Reply: "Here is a plan."}
	writer := writes.NewWriter(log, time.Second)
	userSvc := users.NewService(log, q)
	histSvc := history.NewService(log, q)
	accountSvc := accounts.NewService(log, userSvc, subscriptions.NewService(log, q), writer)
	chatSvc := chat.NewService(log, access.NewService(log, q), memory.NewService(log, q), histSvc, mock, writer, 10)

	if opts.JWTSecret == "" {
		opts.JWTSecret = testSecret
	}
	if opts.ExpiresIn == 0 {
		opts.ExpiresIn = time.Hour
	}

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Use(auth.JWTMiddleware(opts.JWTSecret, func(c echo.Context) bool {
		p := c.Request().URL.Path
		return p == "/ping" || p == "/health" || p == "/api/auth/login" || p == "/api/swagger.json" || p == "/api/docs"
	}))
	NewPingHandler(log).Register(e)
	NewAuthHandler(log, accountSvc, opts).Register(e)
	NewChatHandler(log, chatSvc).Register(e)
	NewHistoryHandler(log, histSvc).Register(e)
	NewSwaggerHandler(log).Register(e)

	t.Cleanup(func() {
		_ = writer.Wait(context.Background())
	})
	return &testEnv{e: e, q: q, llm: mock, writer: writer, users: userSvc, history: histSvc}
}

func (env *testEnv) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// signup registers a user through the API and returns its ID and token.
func (env *testEnv) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"secret1","isSignup":true}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.UserID, resp.AccessToken
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}
