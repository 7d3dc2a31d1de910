package service

import "context"

// OAuthUser is the normalized identity returned by an external OAuth provider.
type OAuthUser struct {
	ID            string // The user's unique ID at the provider (e.g. Google's 'sub' claim).
	Email         string
	Name          string
	Provider      string
	AvatarURL     string
	EmailVerified bool
}

// OAuthAuthService verifies externally issued identity tokens.
// Token exchange itself happens at the provider; only verification is consumed here.
type OAuthAuthService interface {
	// VerifyIDToken validates a provider ID token and returns the normalized identity.
	VerifyIDToken(ctx context.Context, idToken string) (*OAuthUser, error)
}
