package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

const defaultJWKSCacheTTL = 15 * time.Minute

// Auth modes accepted by AuthConfig.Mode.
const (
	AuthModeNone  = ""
	AuthModeJWKS  = "jwks"
	AuthModeHS256 = "hs256"
)

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	Mode         string
	JWKS         *keyfunc.JWKS
	Audience     string
	Issuer       string
	SharedSecret string
	KeyCacheTTL  time.Duration
}

// Auth validates incoming JWT tokens.
type Auth struct {
	JWKS     *keyfunc.JWKS
	Audience string
	Issuer   string
	Secret   []byte

	parser      *jwt.Parser
	keyCache    sync.Map
	keyCacheTTL time.Duration
}

type cachedKey struct {
	key       any
	expiresAt time.Time
}

// NewAuthenticator returns the Authenticator for cfg. AuthModeNone yields
// OpenAccess.
func NewAuthenticator(cfg AuthConfig) (Authenticator, error) {
	switch strings.ToLower(cfg.Mode) {
	case AuthModeNone, "none":
		return OpenAccess{}, nil
	case AuthModeHS256:
		if cfg.SharedSecret == "" {
			return nil, errors.New("shared secret must be set for hs256 auth")
		}
		return &Auth{
			Audience: cfg.Audience,
			Issuer:   cfg.Issuer,
			Secret:   []byte(cfg.SharedSecret),
			parser:   jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
		}, nil
	case AuthModeJWKS:
		if cfg.JWKS == nil {
			return nil, errors.New("jwks must be set for jwks auth")
		}
		ttl := cfg.KeyCacheTTL
		if ttl == 0 {
			ttl = defaultJWKSCacheTTL
		}
		return &Auth{
			JWKS:        cfg.JWKS,
			Audience:    cfg.Audience,
			Issuer:      cfg.Issuer,
			parser:      jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
			keyCacheTTL: ttl,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

// UserIDFromAuthHeader extracts the user identifier from the Authorization header.
func (a *Auth) UserIDFromAuthHeader(h string) (string, error) {
	if h == "" {
		return "", errMissingAuthorization
	}
	token, err := bearerTokenFromString(h)
	if err != nil {
		return "", err
	}
	return a.UserIDFromBearer(token)
}

// UserIDFromBearer verifies a compact JWT and returns its subject.
func (a *Auth) UserIDFromBearer(token string) (string, error) {
	if token == "" {
		return "", errBadAuthorization
	}

	parsedToken, err := a.parser.Parse(token, func(t *jwt.Token) (any, error) {
		if a.Secret != nil {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return a.Secret, nil
		}
		return a.keyForToken(t)
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	now := time.Now().Add(time.Minute).Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return "", errors.New("token expired")
	}
	if !claims.VerifyNotBefore(now, false) {
		return "", errors.New("token not valid yet")
	}
	if a.Audience != "" && !claims.VerifyAudience(a.Audience, false) {
		return "", errors.New("invalid audience")
	}
	if a.Issuer != "" && !claims.VerifyIssuer(a.Issuer, false) {
		return "", errors.New("invalid issuer")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub")
	}
	return sub, nil
}

func (a *Auth) keyForToken(token *jwt.Token) (any, error) {
	if a.JWKS == nil {
		return nil, errors.New("jwks not configured")
	}

	kid, _ := token.Header["kid"].(string)
	if kid != "" {
		if cached, ok := a.keyCache.Load(kid); ok {
			entry := cached.(cachedKey)
			if time.Now().Before(entry.expiresAt) {
				return entry.key, nil
			}
			a.keyCache.Delete(kid)
		}
	}

	key, err := a.JWKS.Keyfunc(token)
	if err != nil {
		return nil, err
	}

	if kid != "" && a.keyCacheTTL > 0 {
		a.keyCache.Store(kid, cachedKey{key: key, expiresAt: time.Now().Add(a.keyCacheTTL)})
	}
	return key, nil
}
