package identity

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/HuzaifaIlyas02/order-service/internal/domain"
)

const bearerPrefix = "Bearer "

// Claims tried in order; the first present non-empty one wins.
var usernameClaims = []string{"preferred_username", "email", "sub"}

// FromRequest pulls the bearer token out of the Authorization header and
// resolves the username from its claims.
func FromRequest(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, bearerPrefix) {
		return "", fmt.Errorf("%w: authorization header is missing or invalid", domain.ErrIdentityUnresolved)
	}
	return FromToken(strings.TrimPrefix(auth, bearerPrefix))
}

// FromToken decodes the payload segment of a compact JWT and returns the
// display identity. The signature is never verified here; the gateway has
// already authenticated the request.
func FromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: token structure is invalid", domain.ErrIdentityUnresolved)
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", fmt.Errorf("%w: payload is not valid base64", domain.ErrIdentityUnresolved)
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("%w: payload is not a claim map", domain.ErrIdentityUnresolved)
	}

	for _, name := range usernameClaims {
		if s, ok := claims[name].(string); ok && s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: username claim not found", domain.ErrIdentityUnresolved)
}
