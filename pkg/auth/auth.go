package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/platform"
)

// Identity is the authenticated caller.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// ErrUnauthenticated is returned when a request carries no usable credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier turns request credentials into an Identity.
type Verifier interface {
	Verify(ctx context.Context, r *http.Request) (*Identity, error)
}

// IsAdmin reports whether the identity belongs to the configured administrator.
// Emails are compared case-insensitively.
func IsAdmin(id *Identity, adminEmail string) bool {
	if id == nil || id.Email == "" || adminEmail == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(id.Email), strings.TrimSpace(adminEmail))
}

// tokenVerifier is the part of the Firebase auth client we use.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens sent as "Authorization: Bearer <token>".
type FirebaseVerifier struct {
	client tokenVerifier
}

func NewFirebaseVerifier(client tokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, r *http.Request) (*Identity, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	id := &Identity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	return id, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Identity headers trusted in header mode.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

// HeaderVerifier trusts identity headers set by a fronting proxy. Meant for
// local use and tests only.
type HeaderVerifier struct{}

func (HeaderVerifier) Verify(_ context.Context, r *http.Request) (*Identity, error) {
	uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if uid == "" {
		return nil, ErrUnauthenticated
	}
	return &Identity{
		UID:         uid,
		Email:       strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		DisplayName: strings.TrimSpace(r.Header.Get(HeaderUserName)),
	}, nil
}

// NewVerifier builds the verifier selected by AUTH_MODE.
func NewVerifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (Verifier, error) {
	switch cfg.Server.AuthMode {
	case config.AuthHeader:
		log.Warn("trusting identity headers; do not expose this server publicly")
		return HeaderVerifier{}, nil
	case config.AuthFirebase:
		app, err := platform.NewApp(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize firebase auth: %w", err)
		}
		return NewFirebaseVerifier(client), nil
	}
	return nil, &config.ConfigurationError{
		Field:  config.KeyAuthMode,
		Reason: fmt.Sprintf("unsupported auth mode %q", cfg.Server.AuthMode),
	}
}
