package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jcarranz97/colony/internal/apperr"
)

// tokenTypeAccess is the "type" claim set on every issued token. It
// guards against token-type confusion if other token kinds are added.
const tokenTypeAccess = "access"

// AccessClaims is the claim set carried by access tokens.
type AccessClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed access tokens. The signing
// algorithm is fixed at construction; tokens declaring any other
// algorithm are rejected regardless of their signature.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenCodec builds a codec for the given HMAC secret and algorithm
// name (HS256, HS384 or HS512).
func NewTokenCodec(secret, algorithm string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token: secret is required")
	}
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("token: unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{secret: []byte(secret), method: method}, nil
}

// Issue signs a token for subject that expires after ttl. Timestamps are
// whole-second UTC epoch values.
func (tc *TokenCodec) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC().Truncate(time.Second)
	claims := &AccessClaims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(tc.method, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature, algorithm and expiry of tokenStr and
// returns its claims. An otherwise valid token past its expiry fails
// with the TOKEN_EXPIRED code; every other failure is INVALID_TOKEN.
// No clock-skew leeway is applied.
func (tc *TokenCodec) Decode(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, tc.keyFunc,
		jwt.WithValidMethods([]string{tc.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired().WithCause(err)
		}
		return nil, apperr.InvalidToken().WithCause(err)
	}
	if !token.Valid || claims.TokenType != tokenTypeAccess {
		return nil, apperr.InvalidToken()
	}
	return claims, nil
}

// ExtractSubject decodes tokenStr and returns its subject claim.
func (tc *TokenCodec) ExtractSubject(tokenStr string) (string, error) {
	claims, err := tc.Decode(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", apperr.InvalidToken()
	}
	return claims.Subject, nil
}

func (tc *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != tc.method.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method %s", token.Method.Alg())
	}
	return tc.secret, nil
}
