package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) (*SessionJWTVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	kf := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected key type")
		}
		return &key.PublicKey, nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newVerifierWithKeyfunc(kf, logger), key
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims *models.SessionClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerifyToken(t *testing.T) {
	v, key := newTestVerifier(t)

	t.Run("valid token", func(t *testing.T) {
		token := signRS256(t, key, &models.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
			SessionID: "sess_1",
		})

		claims, err := v.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user_1", claims.GetUserID())
		assert.Equal(t, "sess_1", claims.SessionID)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signRS256(t, key, &models.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})

		_, err := v.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token := signRS256(t, key, &models.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"},
		})

		_, err := v.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signRS256(t, key, &models.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		})

		_, err := v.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("HMAC token rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = v.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.VerifyToken("not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestCheckJWKS(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantOK   bool
		wantWarn string
	}{
		{name: "key set served", status: http.StatusOK, body: `{"keys":[{"kty":"RSA","kid":"ins_1"}]}`, wantOK: true},
		{name: "secret key required", status: http.StatusUnauthorized, body: `{"errors":[{"code":"authentication_invalid"}]}`, wantWarn: "JWKS fetch failed"},
		{name: "empty key set", status: http.StatusOK, body: `{"keys":[]}`, wantWarn: "JWKS has no keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			ok := checkJWKS(context.Background(), srv.URL, logger)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantWarn == "" {
				assert.NotContains(t, buf.String(), "level=WARN")
			} else {
				assert.Contains(t, buf.String(), "level=WARN")
				assert.Contains(t, buf.String(), tt.wantWarn)
			}
		})
	}
}

func TestNewJWTVerifier_WarnsWhenKeySetUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	v, err := NewJWTVerifier(srv.URL, logger)
	require.NoError(t, err)
	defer v.Close()

	assert.Contains(t, buf.String(), "JWKS fetch failed")
}
