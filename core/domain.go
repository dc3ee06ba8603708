package core

import "encoding/base64"

// Token is an opaque access credential plus its expiry instant in epoch
// milliseconds. Tokens are immutable values: a refresh always produces a
// brand-new Token, never edits an existing one.
type Token struct {
	AccessToken string
	ExpiresAt   int64
}

// ExpiredAt reports whether the token is expired at the given instant.
func (t Token) ExpiredAt(epochMillis int64) bool {
	return t.ExpiresAt <= epochMillis
}

// TokenResult is what callers and auth listeners observe after a successful
// token read or refresh.
type TokenResult struct {
	AccessToken string
}

// PersistenceKey derives the stable key under which per-app data is stored.
// It survives app deletion, so name stores can address entries for apps that
// no longer live in the registry.
func PersistenceKey(name string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(name))
}
