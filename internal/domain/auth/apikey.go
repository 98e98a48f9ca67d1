package auth

import "context"

// APIKeyInfo identifies a validated admin API key.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	// Name labels the key holder, e.g. "back-office". Recorded as the
	// VerifiedBy identity on manual payment verifications.
	Name string
}

// Repository provides lookup of active API keys by their HMAC-SHA256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
