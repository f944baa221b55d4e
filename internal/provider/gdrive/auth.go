package gdrive

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

// DefaultTokenFile is the default path for storing OAuth tokens
const DefaultTokenFile = "gdrive-token.json"

// Token is the persisted form of an OAuth2 token.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

func (t *Token) toOAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func fromOAuth2Token(t *oauth2.Token) *Token {
	return &Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// Authenticator handles OAuth2 token acquisition, persistence and
// refresh for Drive access. Inventory traversal only needs the
// read-only metadata scope.
type Authenticator struct {
	config    *oauth2.Config
	tokenPath string
}

// NewAuthenticator creates a new authenticator. An empty tokenPath
// defaults to the user config directory.
func NewAuthenticator(clientID, clientSecret, tokenPath string) *Authenticator {
	if tokenPath == "" {
		if configDir, err := os.UserConfigDir(); err == nil {
			tokenPath = filepath.Join(configDir, "sitediff", DefaultTokenFile)
		} else {
			tokenPath = DefaultTokenFile
		}
	}

	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{drive.DriveMetadataReadonlyScope},
			Endpoint:     google.Endpoint,
		},
		tokenPath: tokenPath,
	}
}

// Token returns a valid token, refreshing a persisted one if needed.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := a.loadToken()
	if err != nil {
		return nil, fmt.Errorf("no token found, run 'sitediff auth gdrive' first")
	}

	if token.Valid() {
		return token, nil
	}

	if token.RefreshToken != "" {
		refreshed, err := a.Refresh(ctx, token)
		if err == nil {
			return refreshed, nil
		}
	}

	return nil, fmt.Errorf("token expired and refresh failed, run 'sitediff auth gdrive' to re-authenticate")
}

// AuthCodeURL returns the authorization URL and the CSRF state embedded
// in it. The caller displays the URL and collects the code.
func (a *Authenticator) AuthCodeURL() (url, state string, err error) {
	state, err = randomState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline), state, nil
}

// Exchange trades an authorization code for a token and persists it.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	if err := a.saveToken(token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	return token, nil
}

// Refresh refreshes an expired token and persists the result.
func (a *Authenticator) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	newToken, err := a.config.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if err := a.saveToken(newToken); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}
	return newToken, nil
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return nil, err
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	return token.toOAuth2Token(), nil
}

// saveToken writes the token atomically via temp file + rename.
func (a *Authenticator) saveToken(token *oauth2.Token) error {
	dir := filepath.Dir(a.tokenPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fromOAuth2Token(token), "", "  ")
	if err != nil {
		return err
	}

	tempPath := a.tokenPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp token file: %w", err)
	}
	if err := os.Rename(tempPath, a.tokenPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename token file: %w", err)
	}
	return nil
}

// TokenPath returns where the token is stored.
func (a *Authenticator) TokenPath() string { return a.tokenPath }

// Config returns the OAuth2 config.
func (a *Authenticator) Config() *oauth2.Config { return a.config }

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
