package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcarranz97/colony/internal/apperr"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, "HS256")
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec(t *testing.T) {
	_, err := NewTokenCodec("", "HS256")
	assert.Error(t, err)

	_, err = NewTokenCodec(testSecret, "RS256")
	assert.Error(t, err)

	_, err = NewTokenCodec(testSecret, "none")
	assert.Error(t, err)

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		_, err := NewTokenCodec(testSecret, alg)
		assert.NoError(t, err)
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	ttl := 30 * time.Minute

	token, err := codec.Issue("a@x.com", ttl)
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, int64(ttl.Seconds()), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())

	subject, err := codec.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("a@x.com", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeTokenExpired))
	assert.False(t, apperr.Is(err, apperr.CodeInvalidToken))
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Decode(tampered)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := newTestCodec(t)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := codec.Decode(token)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
	}
}

func TestTokenCodec_AlgorithmMismatch(t *testing.T) {
	codec := newTestCodec(t)

	// same secret, different HMAC variant
	other, err := NewTokenCodec(testSecret, "HS512")
	require.NoError(t, err)
	token, err := other.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
}

func TestTokenCodec_NoneAlgorithm(t *testing.T) {
	codec := newTestCodec(t)

	claims := &AccessClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Decode(unsigned)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
}

func TestTokenCodec_WrongTokenType(t *testing.T) {
	codec := newTestCodec(t)

	claims := &AccessClaims{
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
}

func TestTokenCodec_MissingSubject(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("", time.Hour)
	require.NoError(t, err)

	_, err = codec.ExtractSubject(token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
}

func TestTokenCodec_MissingExpiry(t *testing.T) {
	codec := newTestCodec(t)

	claims := &AccessClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "a@x.com",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
}
