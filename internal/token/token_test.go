package token

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)

	return tokenString
}

func segment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecode_ValidToken(t *testing.T) {
	exp := fixedNow.Add(time.Hour)

	claims, err := Decode(mintToken(t, exp))

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestDecode_IgnoresSignature(t *testing.T) {
	tokenString := mintToken(t, fixedNow.Add(time.Hour))

	// a different signature still decodes; integrity is the backend's job
	tampered := tokenString[:len(tokenString)-5] + "XXXXX"

	_, err := Decode(tampered)
	assert.NoError(t, err)
}

func TestIsExpired_PastAndFuture(t *testing.T) {
	v := NewValidatorAt(func() time.Time { return fixedNow })

	for _, offset := range []time.Duration{-time.Second, -time.Hour, -30 * 24 * time.Hour} {
		assert.True(t, v.IsExpired(mintToken(t, fixedNow.Add(offset))), "exp %v in the past must be expired", offset)
	}

	for _, offset := range []time.Duration{time.Second, time.Hour, 7 * 24 * time.Hour} {
		assert.False(t, v.IsExpired(mintToken(t, fixedNow.Add(offset))), "exp %v in the future must be valid", offset)
	}
}

func TestIsExpired_BoundaryIsExpired(t *testing.T) {
	v := NewValidatorAt(func() time.Time { return fixedNow })

	assert.True(t, v.IsExpired(mintToken(t, fixedNow)), "exp == now is expired")

	// sub-second wall clock inside the same second still counts as that second
	v = NewValidatorAt(func() time.Time { return fixedNow.Add(900 * time.Millisecond) })
	assert.True(t, v.IsExpired(mintToken(t, fixedNow)))
	assert.False(t, v.IsExpired(mintToken(t, fixedNow.Add(time.Second))))
}

func TestIsExpired_MalformedTokens(t *testing.T) {
	v := NewValidatorAt(func() time.Time { return fixedNow })
	header := segment(`{"alg":"HS256","typ":"JWT"}`)

	malformedTokens := []string{
		"",
		"not-a-jwt",
		"only.two",
		"too.many.parts.in.this.token",
		"<script>alert('xss')</script>",
		header + ".!!!not-base64!!!.sig",
		header + "." + segment("not json") + ".sig",
		header + "." + segment(`{"exp":"tomorrow"}`) + ".sig",
		header + "." + segment(`{"sub":"user-123"}`) + ".sig",
	}

	for _, tokenString := range malformedTokens {
		assert.True(t, v.IsExpired(tokenString), "malformed token %q must be treated as expired", tokenString)

		_, err := Decode(tokenString)
		assert.True(t, errors.Is(err, ErrMalformed), "decode of %q should wrap ErrMalformed", tokenString)
	}
}

func TestExpiresAt(t *testing.T) {
	v := NewValidator()
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	got, err := v.ExpiresAt(mintToken(t, exp))
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))

	_, err = v.ExpiresAt("garbage")
	assert.ErrorIs(t, err, ErrMalformed)
}
