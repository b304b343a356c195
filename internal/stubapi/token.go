package stubapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"atelier/internal/sentinel"
)

const tokenTTL = 24 * time.Hour

type sessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// tokenService issues and validates HS256 session tokens.
type tokenService struct {
	signingKey []byte
}

func newTokenService(signingKey string) *tokenService {
	return &tokenService{signingKey: []byte(signingKey)}
}

func (s *tokenService) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate returns the user id carried by a valid, unexpired token.
func (s *tokenService) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("empty token: %w", sentinel.ErrUnauthorized)
	}

	claims := new(sessionClaims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("token expired: %w", sentinel.ErrUnauthorized)
		}
		return "", fmt.Errorf("invalid token: %w", sentinel.ErrUnauthorized)
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", fmt.Errorf("invalid token claims: %w", sentinel.ErrUnauthorized)
	}
	return claims.UserID, nil
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// deviceLabel renders a "Browser on OS" display name from a User-Agent
// string, recorded on the account at login for the account view.
func deviceLabel(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
