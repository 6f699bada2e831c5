package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrUnauthenticated    = errors.New("not authenticated")
)

type Service struct {
	users    user.Repository
	sessions SessionStore
	tokens   *TokenManager
	ttl      time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(users user.Repository, sessions SessionStore, tokens *TokenManager, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		metrics:  m,
		logger:   logger,
	}
}

// Register creates an account. Students are approved straight away; landlords
// and sellers wait for an admin.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	role := user.Role(req.Role)
	if !role.Valid() || role == user.RoleAdmin {
		return nil, fmt.Errorf("role %q cannot self-register", req.Role)
	}

	created, err := s.createUser(ctx, req.Email, req.Name, req.Password, role, !role.NeedsApproval())
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRegistration(ctx, string(role))
	s.logger.InfoContext(ctx, "user registered", "user_id", created.ID, "role", role)
	return created, nil
}

// CreateAdmin seeds an approved admin. It returns created=false when an admin
// with that email already exists.
func (s *Service) CreateAdmin(ctx context.Context, email, name, password string) (*user.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Role == user.RoleAdmin:
		return existing, false, nil
	case err == nil:
		return nil, false, ErrEmailExists
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, false, err
	}

	created, err := s.createUser(ctx, email, name, password, user.RoleAdmin, true)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *Service) createUser(ctx context.Context, email, name, password string, role user.Role, approved bool) (*user.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &user.User{
		Email:      email,
		Name:       name,
		Password:   string(hashed),
		Role:       role,
		IsApproved: approved,
	})
	if err != nil {
		// lost a race with a concurrent registration
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return created, nil
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, *user.User, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.metrics.RecordLogin(ctx, false)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin(ctx, false)
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.sessions.DeleteExpired(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to sweep expired sessions", "error", err)
	}

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.RecordLogin(ctx, true)
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID, "role", u.Role)
	return session, u, nil
}

// Token signs a cookie value for the session.
func (s *Service) Token(session *Session) (string, error) {
	return s.tokens.Issue(session)
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// RevokeSessions logs the user out everywhere.
func (s *Service) RevokeSessions(ctx context.Context, userID int) error {
	return s.sessions.DeleteByUser(ctx, userID)
}

// Authenticate resolves a cookie token to its live session and user.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, *Session, error) {
	sessionID, userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, err
	}
	if session.UserID != userID {
		return nil, nil, ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, err
	}
	return u, session, nil
}
