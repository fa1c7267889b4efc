package auth

import (
	"context"
	"strings"

	"rutopia/config"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// idTokenVerifier is the subset of the Firebase auth client the verifier needs.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

type firebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier creates an IdentityVerifier backed by Firebase Authentication.
// Credentials come from CredentialsPath when set, otherwise from the ambient
// Google application default credentials.
func NewFirebaseVerifier(ctx context.Context, cfg *config.FirebaseConfig) (service.IdentityVerifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get Firebase auth client")
	}

	return &firebaseVerifier{client: client}, nil
}

// VerifyToken checks a Firebase ID token and returns its UID.
func (v *firebaseVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerrors.ErrUnauthenticated.WithDetails("empty ID token")
	}

	verified, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrUnauthenticated, err.Error())
	}

	return verified.UID, nil
}
