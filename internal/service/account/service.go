package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/zerobet/api/internal/domain"
	"github.com/zerobet/api/internal/repository"
	"github.com/zerobet/api/pkg/config"
	"github.com/zerobet/api/pkg/crypto"
	jwtpkg "github.com/zerobet/api/pkg/jwt"
)

// startingBalance is credited to every freshly registered account.
const startingBalance = 10_000

var (
	// ErrMissingCredentials indicates an empty email or password.
	ErrMissingCredentials = errors.New("account: email and password required")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password so callers cannot enumerate registered users.
	ErrInvalidCredentials = errors.New("account: invalid credentials")

	// ErrInvalidAdType rejects ad types outside the closed set.
	ErrInvalidAdType = errors.New("account: invalid ad type")
)

// Service handles registration, login, and balance workflows.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.APIConfig
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

// Register creates a user with the starting balance. The plaintext password
// is hashed immediately and never persisted or logged.
func (s Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Balance:      startingBalance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user and returns a session token with the current
// balance. Unknown emails and wrong passwords fail identically.
func (s Service) Login(ctx context.Context, email, password string) (string, int64, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, err
	}
	if err := crypto.ComparePassword(user.PasswordHash, password); err != nil {
		return "", 0, ErrInvalidCredentials
	}
	token, err := jwtpkg.Generate(user.ID, s.cfg.JWTSecret, s.cfg.SessionTTL)
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return token, user.Balance, nil
}

// VerifySession validates a bearer token and returns the subject user id.
// Validity is purely a function of the signature and expiry; there is no
// revocation list.
func (s Service) VerifySession(token string) (string, error) {
	claims, err := jwtpkg.Parse(strings.TrimSpace(token), s.cfg.JWTSecret)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Balance returns the user's current balance.
func (s Service) Balance(ctx context.Context, userID string) (int64, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// CreditForAd rewards the user for watching an ad. The ad type is validated
// before the store is touched, and the credit itself is atomic at the store
// so concurrent calls never lose an increment.
func (s Service) CreditForAd(ctx context.Context, userID, rawAdType string) (string, int64, error) {
	adType, ok := domain.ParseAdType(rawAdType)
	if !ok {
		return "", 0, ErrInvalidAdType
	}
	balance, err := s.users.CreditBalance(ctx, userID, adType.Reward())
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("ad reward credited", "user_id", userID, "ad_type", string(adType), "amount", adType.Reward())
	return adType.Message(), balance, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
