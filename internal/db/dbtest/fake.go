// Package dbtest provides an in-memory stand-in for the sqlc queries used by the store packages.
package dbtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/startupsetu/setu/internal/db/sqlc"
)

type userAgentKey struct {
	user  [16]byte
	agent string
}

// Queries mirrors *sqlc.Queries in memory. Set Fail[method] to make that method return an error.
type Queries struct {
	mu sync.Mutex

	Fail map[string]error
	Now  func() time.Time

	users         map[[16]byte]sqlc.User
	subscriptions map[userAgentKey]sqlc.Subscription
	access        map[userAgentKey]sqlc.AgentAccess
	memory        map[[16]byte]sqlc.StartupMemory
	history       []sqlc.ChatHistory
	calls         map[string]int
}

// New returns an empty fake.
func New() *Queries {
	return &Queries{
		Fail:          map[string]error{},
		users:         map[[16]byte]sqlc.User{},
		subscriptions: map[userAgentKey]sqlc.Subscription{},
		access:        map[userAgentKey]sqlc.AgentAccess{},
		memory:        map[[16]byte]sqlc.StartupMemory{},
		calls:         map[string]int{},
	}
}

// Calls reports how many times method was invoked.
func (q *Queries) Calls(method string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls[method]
}

// SetFail installs or clears (err == nil) a failure for method.
func (q *Queries) SetFail(method string, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err == nil {
		delete(q.Fail, method)
		return
	}
	q.Fail[method] = err
}

func (q *Queries) enter(method string) error {
	q.calls[method]++
	return q.Fail[method]
}

func (q *Queries) now() pgtype.Timestamptz {
	t := time.Now()
	if q.Now != nil {
		t = q.Now()
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func (q *Queries) CreateUser(_ context.Context, arg sqlc.CreateUserParams) (sqlc.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("CreateUser"); err != nil {
		return sqlc.User{}, err
	}
	for _, u := range q.users {
		if u.Email == arg.Email {
			return sqlc.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_unique"}
		}
	}
	u := sqlc.User{ID: arg.ID, Email: arg.Email, PasswordHash: arg.PasswordHash, CreatedAt: q.now()}
	q.users[arg.ID.Bytes] = u
	return u, nil
}

func (q *Queries) GetUserByEmail(_ context.Context, email string) (sqlc.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("GetUserByEmail"); err != nil {
		return sqlc.User{}, err
	}
	for _, u := range q.users {
		if u.Email == email {
			return u, nil
		}
	}
	return sqlc.User{}, pgx.ErrNoRows
}

func (q *Queries) GetUserByID(_ context.Context, id pgtype.UUID) (sqlc.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("GetUserByID"); err != nil {
		return sqlc.User{}, err
	}
	u, ok := q.users[id.Bytes]
	if !ok {
		return sqlc.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (q *Queries) CreateSubscription(_ context.Context, arg sqlc.CreateSubscriptionParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("CreateSubscription"); err != nil {
		return err
	}
	key := userAgentKey{arg.UserID.Bytes, arg.AgentID}
	if _, ok := q.subscriptions[key]; ok {
		return nil
	}
	q.subscriptions[key] = sqlc.Subscription{UserID: arg.UserID, AgentID: arg.AgentID, IsActive: arg.IsActive, UpdatedAt: q.now()}
	return nil
}

func (q *Queries) UpsertSubscription(_ context.Context, arg sqlc.UpsertSubscriptionParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("UpsertSubscription"); err != nil {
		return err
	}
	key := userAgentKey{arg.UserID.Bytes, arg.AgentID}
	q.subscriptions[key] = sqlc.Subscription{UserID: arg.UserID, AgentID: arg.AgentID, IsActive: arg.IsActive, UpdatedAt: q.now()}
	return nil
}

func (q *Queries) GetSubscription(_ context.Context, arg sqlc.GetSubscriptionParams) (sqlc.Subscription, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("GetSubscription"); err != nil {
		return sqlc.Subscription{}, err
	}
	row, ok := q.subscriptions[userAgentKey{arg.UserID.Bytes, arg.AgentID}]
	if !ok {
		return sqlc.Subscription{}, pgx.ErrNoRows
	}
	return row, nil
}

func (q *Queries) ListSubscriptionsByUser(_ context.Context, userID pgtype.UUID) ([]sqlc.Subscription, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("ListSubscriptionsByUser"); err != nil {
		return nil, err
	}
	var items []sqlc.Subscription
	for key, row := range q.subscriptions {
		if key.user == userID.Bytes {
			items = append(items, row)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AgentID < items[j].AgentID })
	return items, nil
}

func (q *Queries) GetAgentAccess(_ context.Context, arg sqlc.GetAgentAccessParams) (sqlc.AgentAccess, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("GetAgentAccess"); err != nil {
		return sqlc.AgentAccess{}, err
	}
	row, ok := q.access[userAgentKey{arg.UserID.Bytes, arg.AgentName}]
	if !ok {
		return sqlc.AgentAccess{}, pgx.ErrNoRows
	}
	return row, nil
}

func (q *Queries) UpsertAgentAccess(_ context.Context, arg sqlc.UpsertAgentAccessParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("UpsertAgentAccess"); err != nil {
		return err
	}
	q.access[userAgentKey{arg.UserID.Bytes, arg.AgentName}] = sqlc.AgentAccess{
		UserID: arg.UserID, AgentName: arg.AgentName, Unlocked: arg.Unlocked, UpdatedAt: q.now(),
	}
	return nil
}

func (q *Queries) GetStartupMemory(_ context.Context, userID pgtype.UUID) (sqlc.StartupMemory, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("GetStartupMemory"); err != nil {
		return sqlc.StartupMemory{}, err
	}
	row, ok := q.memory[userID.Bytes]
	if !ok {
		return sqlc.StartupMemory{}, pgx.ErrNoRows
	}
	return row, nil
}

func (q *Queries) UpsertStartupMemory(_ context.Context, arg sqlc.UpsertStartupMemoryParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("UpsertStartupMemory"); err != nil {
		return err
	}
	row, ok := q.memory[arg.UserID.Bytes]
	if !ok {
		row = sqlc.StartupMemory{UserID: arg.UserID}
	}
	coalesce(&row.Idea, arg.Idea)
	coalesce(&row.Stage, arg.Stage)
	coalesce(&row.Industry, arg.Industry)
	coalesce(&row.Problem, arg.Problem)
	coalesce(&row.Solution, arg.Solution)
	row.UpdatedAt = q.now()
	q.memory[arg.UserID.Bytes] = row
	return nil
}

func coalesce(dst *pgtype.Text, value pgtype.Text) {
	if value.Valid {
		*dst = value
	}
}

func (q *Queries) CreateChatHistory(_ context.Context, arg sqlc.CreateChatHistoryParams) (sqlc.ChatHistory, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("CreateChatHistory"); err != nil {
		return sqlc.ChatHistory{}, err
	}
	row := sqlc.ChatHistory{
		ID:          arg.ID,
		UserID:      arg.UserID,
		AgentName:   arg.AgentName,
		UserMessage: arg.UserMessage,
		AiReply:     arg.AiReply,
		CreatedAt:   q.now(),
	}
	q.history = append(q.history, row)
	return row, nil
}

func (q *Queries) ListChatHistory(_ context.Context, arg sqlc.ListChatHistoryParams) ([]sqlc.ChatHistory, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("ListChatHistory"); err != nil {
		return nil, err
	}
	return q.selectHistory(arg.UserID, arg.AgentName), nil
}

func (q *Queries) ListRecentChatHistory(_ context.Context, arg sqlc.ListRecentChatHistoryParams) ([]sqlc.ChatHistory, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.enter("ListRecentChatHistory"); err != nil {
		return nil, err
	}
	items := q.selectHistory(arg.UserID, arg.AgentName)
	if limit := int(arg.Limit); limit >= 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	return items, nil
}

// selectHistory returns matching rows ordered by (created_at, id) ascending.
func (q *Queries) selectHistory(userID pgtype.UUID, agent string) []sqlc.ChatHistory {
	var items []sqlc.ChatHistory
	for _, row := range q.history {
		if row.UserID.Bytes == userID.Bytes && row.AgentName == agent {
			items = append(items, row)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Time.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.Time.Before(b.CreatedAt.Time)
		}
		return string(a.ID.Bytes[:]) < string(b.ID.Bytes[:])
	})
	return items
}
