package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

const (
	// CodeInvalidToken marks rejected bearer tokens.
	CodeInvalidToken = "invalid_token"
	codeTokenError   = "token_error"

	defaultTokenTTL = 12 * time.Hour
	tokenIssuer     = "crop-advisor"
	scopeAdmin      = "admin"
)

// Config holds the HMAC secret and default token lifetime.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Claims is the validated content of an operator token.
type Claims struct {
	Subject   string
	Scope     string
	TokenID   string
	ExpiresAt time.Time
}

// Service issues and verifies operator tokens for the history endpoints.
type Service interface {
	IssueToken(subject string, ttl time.Duration) (string, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Enabled() bool
}

type service struct {
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &service{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With("component", "admin.service"),
	}
}

func (s *service) Enabled() bool {
	return strings.TrimSpace(s.cfg.Secret) != ""
}

func (s *service) IssueToken(subject string, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", apperrors.Wrap(codeTokenError, "admin secret not configured", nil)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", apperrors.Wrap("invalid_input", "subject cannot be empty", nil)
	}
	if ttl <= 0 {
		ttl = s.cfg.TokenTTL
	}
	now := s.now()
	claims := tokenClaims{
		Scope: scopeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(codeTokenError, "failed to sign token", err)
	}
	s.logger.Info("admin token issued", "subject", subject, "expires_at", now.Add(ttl))
	return signed, nil
}

func (s *service) ValidateToken(ctx context.Context, token string) (Claims, error) {
	if !s.Enabled() {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "admin access disabled", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token invalid", nil)
	}
	if claims.Scope != scopeAdmin {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token lacks admin scope", nil)
	}
	return Claims{
		Subject:   claims.Subject,
		Scope:     claims.Scope,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}
