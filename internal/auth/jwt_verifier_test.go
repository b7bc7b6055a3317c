package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec/internal/domain"
	"movierec/internal/domain/models"
)

var testSecret = []byte("test-secret")

func newTestVerifier() JWTVerifier {
	kf := func(*jwt.Token) (interface{}, error) { return testSecret, nil }
	return NewKeyfuncVerifier(kf, []string{"HS256"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sign(t *testing.T, method jwt.SigningMethod, claims models.SupabaseClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func validClaims() models.SupabaseClaims {
	return models.SupabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "a@example.com",
		Role:  AuthenticatedRole,
	}
}

func TestVerifyToken(t *testing.T) {
	v := newTestVerifier()

	claims, err := v.VerifyToken(sign(t, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.GetUserID())
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestVerifyToken_Rejects(t *testing.T) {
	v := newTestVerifier()

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noSubject := validClaims()
	noSubject.Subject = ""

	anon := validClaims()
	anon.Role = "anon"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"expired", sign(t, jwt.SigningMethodHS256, expired)},
		{"missing subject", sign(t, jwt.SigningMethodHS256, noSubject)},
		{"anon role", sign(t, jwt.SigningMethodHS256, anon)},
		{"no expiry", sign(t, jwt.SigningMethodHS256, noExpiry)},
		{"wrong algorithm", sign(t, jwt.SigningMethodHS384, validClaims())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifyToken(tt.token)
			assert.True(t, errors.Is(err, domain.ErrUnauthorized), "got %v", err)
		})
	}
}
