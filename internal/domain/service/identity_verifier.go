package service

import "context"

// IdentityVerifier resolves a bearer credential into a trusted user ID.
type IdentityVerifier interface {
	// VerifyToken checks the token and returns the user ID it was issued to.
	VerifyToken(ctx context.Context, token string) (string, error)
}
