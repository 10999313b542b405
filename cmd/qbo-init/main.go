// Command qbo-init exchanges the configured refresh token for a fresh
// access token and writes both back to the .env file. Run it once after
// authorizing the app in the Intuit developer portal, or whenever the
// stored tokens have gone stale.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"paycalc/internal/qbo"
)

func main() {
	_ = godotenv.Load()

	clientID := os.Getenv("QBO_CLIENT_ID")
	clientSecret := os.Getenv("QBO_CLIENT_SECRET")
	refreshToken := os.Getenv("QBO_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" {
		log.Fatalf("set QBO_CLIENT_ID and QBO_CLIENT_SECRET")
	}
	if refreshToken == "" {
		log.Fatalf("set QBO_REFRESH_TOKEN (from the Intuit developer portal playground)")
	}

	tokenURL := os.Getenv("QBO_TOKEN_URL")
	if tokenURL == "" {
		tokenURL = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	}
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens := qbo.NewTokenManager(clientID, clientSecret, tokenURL, refreshToken, envFile)
	tok, err := tokens.Refresh(ctx)
	if err != nil {
		log.Fatalf("token refresh: %v", err)
	}

	fmt.Printf("Saved refreshed tokens to %s\n", envFile)
	if !tok.Expiry.IsZero() {
		fmt.Printf("Access token expires at %s\n", tok.Expiry.Format(time.RFC3339))
	}
}
