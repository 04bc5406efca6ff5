package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// returned (wrapped) for any token that cannot be decoded
var ErrMalformed = errors.New("malformed token")

// represents the payload claims the client cares about. the backend signs
// the user id into the token; nothing else is read locally.
type Claims struct {
	UserID string `json:"id,omitempty"`
	jwt.RegisteredClaims
}
