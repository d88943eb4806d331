package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// AuthService validates the bearer tokens presented to the gateway.
// Tokens are issued elsewhere; MintAccessToken exists for operators and tests.
type AuthService struct {
	config *Config
}

func NewAuthService(config *Config) *AuthService {
	return &AuthService{config: config}
}

func (s *AuthService) IsEnabled() bool {
	return s.config.Enabled
}

func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, ErrInvalidAccessToken
	}

	claims, err := ParseClaims(accessToken, s.config.AccessTokenSecret, s.config.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}

	if claims.Type != AccessToken {
		return nil, fmt.Errorf("%w: wrong token type got %q", ErrInvalidAccessToken, claims.Type)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidAccessToken)
	}

	return claims, nil
}

// MintAccessToken signs an access token for subject with the configured issuer and expiry
func (s *AuthService) MintAccessToken(subject string) (string, error) {
	if subject == "" {
		return "", ErrInvalidSubject
	}
	if s.config.AccessTokenSecret == "" {
		return "", fmt.Errorf("access token secret is not configured")
	}

	token, err := NewToken(subject, s.config.TokenIssuer, s.config.AccessTokenSecret, s.config.AccessTokenExpiry, AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	slog.Debug("access token minted", "subject", subject, "expiry", s.config.AccessTokenExpiry)
	return token, nil
}
