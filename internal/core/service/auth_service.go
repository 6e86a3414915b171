package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/stockmanager/inventory-system/internal/api/metrics"
	"github.com/stockmanager/inventory-system/internal/core/domain"
	"github.com/stockmanager/inventory-system/internal/core/ports"
)

// AuthService implements registration and login. Tokens are stateless HS256
// JWTs; nothing is persisted per login and there is no revocation list.
type AuthService struct {
	repo      ports.AuthRepository
	hasher    ports.PasswordHasher
	log       zerolog.Logger
	jwtSecret string
	issuer    string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, hasher ports.PasswordHasher, log zerolog.Logger, jwtSecret, issuer string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		log:       log,
		jwtSecret: jwtSecret,
		issuer:    issuer,
		tokenTTL:  tokenTTL,
	}
}

// Register stores a new identity with the base role. Username uniqueness is
// enforced by the repository, not pre-checked here.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        domain.Roles{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies the password against the stored hash and issues a token.
// Unknown username and wrong password both return ErrInvalidCredentials so
// the response never reveals which one it was.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return token, nil
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   user.Username,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
		"roles": user.Roles.String(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
