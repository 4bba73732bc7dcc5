package calendar

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

// TokenStore persists the OAuth token as JSON on disk. The file is optional:
// on ephemeral filesystems the base64 environment form is the source of truth.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store at the given path. An empty path disables
// file persistence.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the persisted token. A missing or unreadable file returns nil
// without error; authentication simply has not happened yet.
func (s *TokenStore) Load() *oauth2.Token {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil
	}
	return &token
}

// Save writes the token to disk with owner-only permissions.
func (s *TokenStore) Save(token *oauth2.Token) error {
	if s.path == "" || token == nil {
		return nil
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Remove deletes the persisted token, used when a refresh is rejected and
// the stored grant is known dead.
func (s *TokenStore) Remove() {
	if s.path != "" {
		_ = os.Remove(s.path)
	}
}

// DecodeBase64Value decodes a base64 payload that may have survived several
// copy/paste and env-quoting round trips: surrounding quotes, embedded
// whitespace, URL-safe alphabets, and stripped padding are all tolerated.
func DecodeBase64Value(value string) ([]byte, error) {
	cleaned := strings.TrimSpace(value)
	if len(cleaned) >= 2 {
		if (cleaned[0] == '"' && cleaned[len(cleaned)-1] == '"') ||
			(cleaned[0] == '\'' && cleaned[len(cleaned)-1] == '\'') {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}
	cleaned = strings.Join(strings.Fields(cleaned), "")
	cleaned = strings.ReplaceAll(cleaned, "-", "+")
	cleaned = strings.ReplaceAll(cleaned, "_", "/")
	if padding := len(cleaned) % 4; padding != 0 {
		cleaned += strings.Repeat("=", 4-padding)
	}

	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 value: %w", err)
	}
	return decoded, nil
}

// DecodeBase64Token decodes a base64-wrapped JSON OAuth token.
func DecodeBase64Token(value string) (*oauth2.Token, error) {
	if value == "" {
		return nil, nil
	}
	raw, err := DecodeBase64Value(value)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token JSON: %w", err)
	}
	return &token, nil
}

// EncodeTokenBase64 serializes a token to base64-wrapped JSON, suitable for
// stashing in an environment variable.
func EncodeTokenBase64(token *oauth2.Token) (string, error) {
	if token == nil {
		return "", nil
	}
	data, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
