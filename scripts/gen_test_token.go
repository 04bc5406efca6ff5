package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"codeberg.org/secondbrain/client/internal/config"
	"codeberg.org/secondbrain/client/internal/session"
	"codeberg.org/secondbrain/client/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// writes a locally minted session so the client can be exercised without a
// backend. the signature is never checked client side, so any key works.
func main() {
	name := flag.String("name", "Test User", "display name stored with the session")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime; negative values mint an expired token")
	save := flag.Bool("save", false, "write the token into the configured session store")
	flag.Parse()

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("local-test-key"))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Printf("token:   %s\n", signed)
	fmt.Printf("expired: %v\n", token.NewValidator().IsExpired(signed))

	if !*save {
		return
	}

	backend, err := session.NewFileBackend(cfg.SessionPath)
	if err != nil {
		log.Fatalf("failed to open session file: %v", err)
	}
	defer backend.Close() //nolint:errcheck

	session.NewStore(backend).Save(context.Background(), session.Session{Token: signed, UserName: *name})
	fmt.Printf("saved to %s\n", cfg.SessionPath)
}
