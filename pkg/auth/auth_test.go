package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/config"
)

type fakeTokens struct {
	token *fbauth.Token
	err   error
	seen  string
}

func (f *fakeTokens) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	f.seen = idToken
	return f.token, f.err
}

func TestIsAdmin(t *testing.T) {
	admin := config.DefaultAdminEmail
	assert.True(t, IsAdmin(&Identity{Email: admin}, admin))
	assert.True(t, IsAdmin(&Identity{Email: "Admin@INR-Assistant.app"}, admin))
	assert.False(t, IsAdmin(&Identity{Email: "dana@example.com"}, admin))
	assert.False(t, IsAdmin(&Identity{}, admin))
	assert.False(t, IsAdmin(nil, admin))
	assert.False(t, IsAdmin(&Identity{Email: "x@example.com"}, ""))
}

func TestFirebaseVerifier(t *testing.T) {
	tokens := &fakeTokens{token: &fbauth.Token{
		UID:    "uid-1",
		Claims: map[string]interface{}{"email": "dana@example.com", "name": "Dana"},
	}}
	v := NewFirebaseVerifier(tokens)

	r := httptest.NewRequest("GET", "/api/measurements", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")

	id, err := v.Verify(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tokens.seen)
	assert.Equal(t, &Identity{UID: "uid-1", Email: "dana@example.com", DisplayName: "Dana"}, id)
}

func TestFirebaseVerifierRejects(t *testing.T) {
	v := NewFirebaseVerifier(&fakeTokens{err: errors.New("token expired")})

	r := httptest.NewRequest("GET", "/", nil)
	_, err := v.Verify(context.Background(), r)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	_, err = v.Verify(context.Background(), r)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	r.Header.Set("Authorization", "bearer stale")
	_, err = v.Verify(context.Background(), r)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Contains(t, err.Error(), "token expired")
}

func TestHeaderVerifier(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := HeaderVerifier{}.Verify(context.Background(), r)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	r.Header.Set(HeaderUserID, "u1")
	r.Header.Set(HeaderUserEmail, "dana@example.com")
	r.Header.Set(HeaderUserName, "Dana")
	id, err := HeaderVerifier{}.Verify(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "dana@example.com", id.Email)
	assert.Equal(t, "Dana", id.DisplayName)
}

func TestNewVerifier(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	v, err := NewVerifier(ctx, &config.Config{Server: config.ServerConfig{AuthMode: config.AuthHeader}}, log)
	require.NoError(t, err)
	assert.IsType(t, HeaderVerifier{}, v)

	_, err = NewVerifier(ctx, &config.Config{Server: config.ServerConfig{AuthMode: config.AuthFirebase}}, log)
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.KeyFirebaseProjectID, cfgErr.Field)

	_, err = NewVerifier(ctx, &config.Config{Server: config.ServerConfig{AuthMode: "saml"}}, log)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.KeyAuthMode, cfgErr.Field)
}
