package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dom/media-tracker/internal/config"
	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/logging"
	"github.com/dom/media-tracker/internal/metrics"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/dom/media-tracker/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailInUse         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no session token")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo    repository.UserRepository
	revokedRepo repository.RevokedTokenRepository
	tokens      *TokenService
	bcryptCost  int
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// maxPasswordBytes is the most bcrypt will hash. Longer passwords are
// truncated to it on both signup and login.
const maxPasswordBytes = 72

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// compareDummy spends the same bcrypt work as a real comparison so an
// unknown email answers in about the same time as a wrong password.
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("media-tracker-dummy-password"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, passwordBytes(password))
}

func NewAuthService(userRepo repository.UserRepository, revokedRepo repository.RevokedTokenRepository, tokens *TokenService, cfg *config.Config) *AuthService {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.BcryptCost > 0 {
		cost = cfg.BcryptCost
	}
	return &AuthService{
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
		tokens:      tokens,
		bcryptCost:  cost,
		now:         time.Now,
	}
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// TokenTTL is the lifetime of issued session tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if err := checkCredentialInput(input); err != nil {
		metrics.RecordAuth("signup", "rejected")
		return nil, err
	}

	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		metrics.RecordAuth("signup", "rejected")
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(passwordBytes(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(input.Name, input.Email, string(hashedPassword))
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against a concurrent signup for the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordAuth("signup", "rejected")
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuth("signup", "success")
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := checkCredentialInput(input); err != nil {
		metrics.RecordAuth("login", "rejected")
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.compareDummy(input.Password)
			metrics.RecordAuth("login", "invalid")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(input.Password)); err != nil {
		metrics.RecordAuth("login", "invalid")
		return nil, ErrInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuth("login", "success")
	return result, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes token until its expiry. Missing or invalid tokens are
// ignored; only a store failure produces an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, ok := s.tokens.Verify(token)
	if !ok {
		return nil
	}

	revoked := &domain.RevokedToken{
		TokenHash: TokenFingerprint(token),
		UserID:    claims.UserUUID(),
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: s.now(),
	}
	if err := s.revokedRepo.Revoke(ctx, revoked); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims, ok := s.tokens.Verify(token)
	if !ok {
		return nil, ErrInvalidToken
	}

	revoked, err := s.revokedRepo.IsRevoked(ctx, TokenFingerprint(token), s.now())
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserUUID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// PurgeRevoked drops revocation entries whose token has expired anyway.
func (s *AuthService) PurgeRevoked(ctx context.Context) (int64, error) {
	return s.revokedRepo.DeleteExpired(ctx, s.now())
}

// RunRevocationPurge calls PurgeRevoked every interval until ctx is done.
func (s *AuthService) RunRevocationPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeRevoked(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logging.Error().Err(err).Msg("purge revoked tokens")
				}
				continue
			}
			if n > 0 {
				logging.Debug().Int64("count", n).Msg("purged revoked tokens")
			}
		}
	}
}

// checkCredentialInput maps validator failures onto the auth errors. Missing
// fields take precedence over a short password.
func checkCredentialInput(input interface{}) error {
	err := validation.Struct(input)
	if err == nil {
		return nil
	}
	if validation.FailedOn(err, "required") {
		return ErrMissingFields
	}
	if validation.FailedOn(err, "min") {
		return ErrPasswordTooShort
	}
	return err
}
