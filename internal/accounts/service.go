// Package accounts implements email and password sign-up and login.
package accounts

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/startupsetu/setu/internal/agents"
	"github.com/startupsetu/setu/internal/users"
	"github.com/startupsetu/setu/internal/writes"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// Errors returned by Login.
var (
	ErrInvalidEmail       = errors.New("valid email address required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore finds and creates users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (users.User, bool, error)
	Create(ctx context.Context, email, passwordHash string) (users.User, error)
}

// SubscriptionStore manages the free-agent grant and lists active agents.
type SubscriptionStore interface {
	GrantFree(ctx context.Context, userID string) error
	EnsureFree(ctx context.Context, userID string) error
	ActiveAgents(ctx context.Context, userID string) (map[string]bool, error)
}

var (
	opCreateUser = writes.Op{Name: "users.create", Policy: writes.Critical}
	opGrantFree  = writes.Op{Name: "subscriptions.grant_free", Policy: writes.BestEffort}
	opEnsureFree = writes.Op{Name: "subscriptions.ensure_free", Policy: writes.BestEffort}
)

// Service provides sign-up and login.
type Service struct {
	users         UserStore
	subscriptions SubscriptionStore
	writer        *writes.Writer
	bcryptCost    int
	logger        *slog.Logger
}

// NewService creates a new accounts service.
func NewService(log *slog.Logger, userStore UserStore, subs SubscriptionStore, writer *writes.Writer) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:         userStore,
		subscriptions: subs,
		writer:        writer,
		bcryptCost:    bcrypt.DefaultCost,
		logger:        log.With(slog.String("service", "accounts")),
	}
}

// Login signs a user in, or signs them up when req.IsSignup is set and the email is new.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	email := users.NormalizeEmail(req.Email)
	if !emailPattern.MatchString(email) {
		return LoginResult{}, ErrInvalidEmail
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return LoginResult{}, ErrWeakPassword
	}
	if len(req.Password) > MaxPasswordBytes {
		return LoginResult{}, ErrPasswordTooLong
	}

	existing, found, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	var user users.User
	created := false
	switch {
	case found && req.IsSignup:
		return LoginResult{}, ErrEmailTaken
	case found:
		if existing.PasswordHash == "" {
			return LoginResult{}, ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(req.Password)); err != nil {
			return LoginResult{}, ErrInvalidCredentials
		}
		user = existing
	case !req.IsSignup:
		return LoginResult{}, ErrInvalidCredentials
	default:
		user, err = s.signup(ctx, email, req.Password)
		if err != nil {
			return LoginResult{}, err
		}
		created = true
	}

	_ = s.writer.Do(ctx, opEnsureFree, func(ctx context.Context) error {
		return s.subscriptions.EnsureFree(ctx, user.ID)
	})

	subs, err := s.subscriptions.ActiveAgents(ctx, user.ID)
	if err != nil {
		s.logger.Warn("list subscriptions failed; returning free agent only", slog.String("user_id", user.ID), slog.Any("error", err))
		subs = map[string]bool{}
	}
	subs[string(agents.FreeAgent)] = true

	if created {
		s.logger.Info("user signed up", slog.String("user_id", user.ID))
	} else {
		s.logger.Info("user logged in", slog.String("user_id", user.ID))
	}
	return LoginResult{
		UserID:        user.ID,
		Email:         user.Email,
		Subscriptions: subs,
		Created:       created,
	}, nil
}

func (s *Service) signup(ctx context.Context, email, password string) (users.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return users.User{}, err
	}
	var user users.User
	err = s.writer.Do(ctx, opCreateUser, func(ctx context.Context) error {
		var err error
		user, err = s.users.Create(ctx, email, string(hashed))
		return err
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return users.User{}, ErrEmailTaken
		}
		return users.User{}, err
	}
	_ = s.writer.Do(ctx, opGrantFree, func(ctx context.Context) error {
		return s.subscriptions.GrantFree(ctx, user.ID)
	})
	return user, nil
}
