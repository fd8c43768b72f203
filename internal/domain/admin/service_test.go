package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService(Config{Secret: "s3cret"}, newTestLogger())
	require.True(t, svc.Enabled())

	token, err := svc.IssueToken("ops", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "ops", claims.Subject)
	require.Equal(t, "admin", claims.Scope)
	require.NotEmpty(t, claims.TokenID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestService_RejectsExpiredToken(t *testing.T) {
	svc := NewService(Config{Secret: "s3cret"}, newTestLogger()).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.IssueToken("ops", time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))
}

func TestService_RejectsForeignSecretAndScope(t *testing.T) {
	svc := NewService(Config{Secret: "s3cret"}, newTestLogger())
	other := NewService(Config{Secret: "other"}, newTestLogger())

	token, err := other.IssueToken("ops", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))

	unscoped := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := unscoped.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))
}

func TestService_DisabledWithoutSecret(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	require.False(t, svc.Enabled())

	_, err := svc.IssueToken("ops", 0)
	require.Error(t, err)
	_, err = svc.ValidateToken(context.Background(), "anything")
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))
}

func TestService_IssueRequiresSubject(t *testing.T) {
	svc := NewService(Config{Secret: "s3cret"}, newTestLogger())
	_, err := svc.IssueToken("  ", 0)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
