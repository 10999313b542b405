package qbo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

// Env keys updated when tokens rotate.
const (
	envAccessToken  = "QBO_ACCESS_TOKEN"
	envRefreshToken = "QBO_REFRESH_TOKEN"
)

// TokenManager performs the OAuth2 refresh grant against the QuickBooks
// token endpoint and persists rotated tokens back to the .env file so the
// next run starts with valid credentials.
type TokenManager struct {
	conf    *oauth2.Config
	refresh string
	envFile string // empty disables persistence
}

func NewTokenManager(clientID, clientSecret, tokenURL, refreshToken, envFile string) *TokenManager {
	return &TokenManager{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		},
		refresh: refreshToken,
		envFile: envFile,
	}
}

// Refresh exchanges the refresh token for a fresh access token. QuickBooks
// rotates the refresh token on every exchange; both tokens are written
// back to the .env file. A persistence failure is logged, not fatal: the
// refreshed token is still valid for this run.
func (m *TokenManager) Refresh(ctx context.Context) (*oauth2.Token, error) {
	if m.refresh == "" {
		return nil, ErrMissingCredentials
	}

	slog.InfoContext(ctx, "Refreshing access token")
	tok, err := m.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: m.refresh}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	if tok.RefreshToken != "" {
		m.refresh = tok.RefreshToken
	}

	if m.envFile != "" {
		if err := persistTokens(m.envFile, tok.AccessToken, tok.RefreshToken); err != nil {
			slog.WarnContext(ctx, "Failed to persist refreshed tokens", "path", m.envFile, "error", err)
		} else {
			slog.InfoContext(ctx, "Updated tokens in env file", "path", m.envFile)
		}
	}
	return tok, nil
}

// persistTokens updates the token keys in the .env file, creating the
// file if needed and preserving all other keys.
func persistTokens(path, access, refresh string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		env = map[string]string{}
	}
	env[envAccessToken] = access
	if refresh != "" {
		env[envRefreshToken] = refresh
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}
