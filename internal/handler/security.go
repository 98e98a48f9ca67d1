package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/shopveda/storefront/internal/domain/auth"
)

// apiKeyHeader carries the admin API key on back-office requests.
const apiKeyHeader = "X-API-Key"

type apiKeyInfoKey struct{}

// APIKeyFromContext returns the authenticated key info, or nil outside the
// admin route group.
func APIKeyFromContext(ctx context.Context) *auth.APIKeyInfo {
	info, _ := ctx.Value(apiKeyInfoKey{}).(*auth.APIKeyInfo)
	return info
}

// Security authenticates admin requests via HMAC-SHA256 hashed API keys.
type Security struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurity creates a Security with the given API key repository and HMAC
// pepper.
func NewSecurity(apikeys auth.Repository, pepper []byte) *Security {
	return &Security{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// RequireAPIKey is a middleware that authenticates the X-API-Key header: it
// computes the HMAC-SHA256 of the presented key, looks up the hash, and does
// a constant-time comparison to keep the check free of timing side-channels.
// The authenticated key info is stored on the request context.
func (s *Security) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}

		mac := hmac.New(sha256.New, s.pepper)
		mac.Write([]byte(key))
		hash := mac.Sum(nil)

		info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// The stored hash could differ from what we computed if the repository
		// returns a stale or wrong row.
		storedBytes, err := hex.DecodeString(info.KeyHash)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), apiKeyInfoKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
