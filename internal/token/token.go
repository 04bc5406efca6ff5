// Package token answers "is this token still usable" without a network round
// trip. Signatures are never checked here: the backend rejecting a stale token
// with a 401 is the real authorization boundary, this only avoids showing
// protected screens for a token that is obviously dead.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// decodes the payload segment of a JWT without verifying its signature.
// any failure (segment count, base64, JSON, missing exp) wraps ErrMalformed.
func Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}

	return claims, nil
}

// checks token expiry against a clock
type Validator struct {
	now func() time.Time
}

// creates a validator using the wall clock
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// creates a validator with a fixed clock, for tests and replays
func NewValidatorAt(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// reports whether the token is expired. tokens that fail to decode are
// expired. a token whose exp equals the current second is expired too.
func (v *Validator) IsExpired(tokenString string) bool {
	claims, err := Decode(tokenString)
	if err != nil {
		return true
	}

	return claims.ExpiresAt.Unix() <= v.now().Unix()
}

// returns the expiry of a decodable token
func (v *Validator) ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := Decode(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	return claims.ExpiresAt.Time, nil
}
