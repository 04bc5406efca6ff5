package config

import "time"

// session persistence backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	APIEndpoint    string
	FrontendOrigin string
	SessionBackend string
	SessionPath    string
	SessionProfile string
	RedisURL       string
	AuthScheme     string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
	Environment    string
	LogFile        string
}

// flags for the signin subcommand
type SignInFlags struct {
	Username string
	Password string
}

// flags for the signup subcommand
type SignUpFlags struct {
	Name     string
	Username string
	Password string
}

// flags for the list subcommand
type ListFlags struct {
	Type  string
	Query string
}

// flags for the add subcommand
type AddFlags struct {
	Title string
	Link  string
	Type  string
	Tags  []string
}

// flags for the reset-password subcommand
type ResetPasswordFlags struct {
	Username    string
	NewPassword string
}
