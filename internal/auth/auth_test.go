package auth

import (
	"context"
	"testing"
	"time"

	"dinekart/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-key-for-tests"

var testNow = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, method jwt.SigningMethod, key any, c jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return token
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-123",
		"email": "ada@example.com",
		"role":  "authenticated",
		"iss":   "https://auth.example.com",
		"aud":   "authenticated",
		"exp":   testNow.Add(time.Hour).Unix(),
		"iat":   testNow.Add(-time.Minute).Unix(),
	}
}

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{
		Secret:   testSecret,
		Issuer:   "https://auth.example.com",
		Audience: "authenticated",
		Now:      func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return v
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier(Config{Secret: "  "})
	assert.Error(t, err)
}

func TestVerifier_Verify(t *testing.T) {
	v := newTestVerifier(t)

	tests := []struct {
		name     string
		token    func() string
		wantErr  error
		wantRole string
	}{
		{
			name:     "customer token",
			token:    func() string { return sign(t, jwt.SigningMethodHS256, []byte(testSecret), baseClaims()) },
			wantRole: model.RoleCustomer,
		},
		{
			name: "admin from app metadata",
			token: func() string {
				c := baseClaims()
				c["app_metadata"] = map[string]any{"role": "admin"}
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantRole: model.RoleAdmin,
		},
		{
			name:    "empty token",
			token:   func() string { return "" },
			wantErr: ErrMissingToken,
		},
		{
			name:    "wrong secret",
			token:   func() string { return sign(t, jwt.SigningMethodHS256, []byte("other-secret"), baseClaims()) },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   func() string { return sign(t, jwt.SigningMethodHS512, []byte(testSecret), baseClaims()) },
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func() string {
				c := baseClaims()
				c["exp"] = testNow.Add(-time.Hour).Unix()
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			token: func() string {
				c := baseClaims()
				delete(c, "exp")
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := baseClaims()
				c["iss"] = "https://evil.example.com"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong audience",
			token: func() string {
				c := baseClaims()
				c["aud"] = "service_role"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing subject",
			token: func() string {
				c := baseClaims()
				delete(c, "sub")
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   func() string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(tt.token())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-123", id.Subject)
			assert.Equal(t, "ada@example.com", id.Email)
			assert.Equal(t, tt.wantRole, id.Role)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	id := &Identity{Subject: "user-1", Role: model.RoleAdmin}
	ctx := WithIdentity(context.Background(), id)
	assert.Same(t, id, FromContext(ctx))
	assert.True(t, FromContext(ctx).IsAdmin())

	var anonymous *Identity
	assert.False(t, anonymous.IsAdmin())
}
