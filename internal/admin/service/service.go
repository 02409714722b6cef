// Package service implements admin authentication.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pccreg/internal/admin/models"
	"pccreg/internal/platform/middleware"
	rlmodels "pccreg/internal/ratelimit/models"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/sentinel"
)

// SessionTTL is how long an issued admin token stays valid.
const SessionTTL = 24 * time.Hour

// Store is the persistence contract for admin accounts.
type Store interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	Upsert(ctx context.Context, admin *models.Admin) error
}

// TokenIssuer mints session tokens for authenticated admins.
type TokenIssuer interface {
	GenerateSessionToken(adminID, username string, expiresIn time.Duration) (string, error)
}

// LoginLimiter throttles attempts per username before any credential work.
type LoginLimiter interface {
	Check(ctx context.Context, policy rlmodels.Policy, identifier string) (*rlmodels.Result, error)
}

// AuditEmitter records authentication events.
type AuditEmitter interface {
	Emit(ctx context.Context, action, actor, subject, detail string)
}

// Service owns admin account and login rules.
type Service struct {
	store   Store
	tokens  TokenIssuer
	logger  *slog.Logger
	limiter LoginLimiter
	audit   AuditEmitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithLoginLimiter(limiter LoginLimiter) Option {
	return func(s *Service) { s.limiter = limiter }
}

func WithAuditEmitter(audit AuditEmitter) Option {
	return func(s *Service) { s.audit = audit }
}

func New(store Store, tokens TokenIssuer, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	s := &Service{
		store:  store,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Session is a successful login result.
type Session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// Login verifies credentials and mints a session token. Unknown usernames and
// wrong passwords get the same answer, so the endpoint cannot be used to
// probe which accounts exist. Attempts are throttled per username before any
// lookup, failed or not.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	if s.limiter != nil {
		if _, err := s.limiter.Check(ctx, rlmodels.PolicyLogin, strings.ToLower(username)); err != nil {
			return nil, err
		}
	}

	admin, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Burn comparable time so missing accounts are not distinguishable
			// by response latency.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.emit(ctx, "login_failed", username, "admin", withClientContext(ctx, "unknown username"))
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.emit(ctx, "login_failed", username, "admin", withClientContext(ctx, "wrong password"))
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
	}

	token, err := s.tokens.GenerateSessionToken(admin.ID, admin.Username, SessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}

	s.emit(ctx, "login_succeeded", admin.Username, "admin", withClientContext(ctx, ""))
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(SessionTTL),
		Admin:     admin,
	}, nil
}

// Profile returns the account behind an authenticated session.
func (s *Service) Profile(ctx context.Context, adminID string) (*models.Admin, error) {
	admin, err := s.store.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up admin")
	}
	return admin, nil
}

// Bootstrap creates or refreshes an account with the given password. Seed
// path; regular traffic never reaches it.
func (s *Service) Bootstrap(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Upsert(ctx, admin); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store admin")
	}

	s.emit(ctx, "admin_bootstrapped", username, "admin", "")
	return admin, nil
}

// withClientContext appends the request's client IP and device summary to an
// audit detail, when the middleware captured them.
func withClientContext(ctx context.Context, detail string) string {
	parts := make([]string, 0, 3)
	if detail != "" {
		parts = append(parts, detail)
	}
	if ip := middleware.GetClientIP(ctx); ip != "" {
		parts = append(parts, "ip="+ip)
	}
	if device := middleware.GetDevice(ctx); device != "" {
		parts = append(parts, device)
	}
	return strings.Join(parts, " ")
}

func (s *Service) emit(ctx context.Context, action, actor, subject, detail string) {
	if s.audit != nil {
		s.audit.Emit(ctx, action, actor, subject, detail)
	}
}

// dummyHash is a bcrypt hash of an unused constant, kept only to equalize
// timing on unknown-username logins.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("pccreg-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()
