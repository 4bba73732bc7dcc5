package calendar

import (
	"encoding/base64"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewTokenStore(path)

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}
	require.NoError(t, store.Save(token))

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestTokenStoreLoadMissingFile(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Nil(t, store.Load())
}

func TestTokenStoreEmptyPathIsNoop(t *testing.T) {
	store := NewTokenStore("")
	assert.NoError(t, store.Save(&oauth2.Token{AccessToken: "x"}))
	assert.Nil(t, store.Load())
}

func TestDecodeBase64Value(t *testing.T) {
	plain := base64.StdEncoding.EncodeToString([]byte("hello world"))
	unpadded := base64.RawStdEncoding.EncodeToString([]byte("hello world"))
	urlSafe := base64.RawURLEncoding.EncodeToString([]byte{0xfb, 0xff, 0x3e})

	tests := []struct {
		name  string
		value string
		want  []byte
	}{
		{"standard", plain, []byte("hello world")},
		{"double quoted", `"` + plain + `"`, []byte("hello world")},
		{"single quoted", "'" + plain + "'", []byte("hello world")},
		{"embedded whitespace", plain[:4] + "\n " + plain[4:], []byte("hello world")},
		{"missing padding", unpadded, []byte("hello world")},
		{"url-safe alphabet", urlSafe, []byte{0xfb, 0xff, 0x3e}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64Value(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBase64ValueRejectsGarbage(t *testing.T) {
	_, err := DecodeBase64Value("!!not base64!!")
	assert.Error(t, err)
}

func TestTokenBase64RoundTrip(t *testing.T) {
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}

	encoded, err := EncodeTokenBase64(token)
	require.NoError(t, err)

	decoded, err := DecodeBase64Token(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, token.AccessToken, decoded.AccessToken)
	assert.Equal(t, token.RefreshToken, decoded.RefreshToken)
}

func TestDecodeBase64TokenEmptyValue(t *testing.T) {
	token, err := DecodeBase64Token("")
	require.NoError(t, err)
	assert.Nil(t, token)
}
