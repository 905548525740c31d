// Package config handles configuration for the blog server,
// including defaults, JSON overlay, environment overrides and command-line flags.
package config

import "time"

// Environment names understood by the server.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings for the blog server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST API.
//   - Env: "development" exposes panic details in error responses.
//   - DatabaseDSN: MongoDB ("mongodb://") or PostgreSQL ("postgres://") DSN,
//     or "memory://" for a throwaway in-process store.
//   - DatabaseName: Mongo database holding the users and posts collections.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: lifetime of issued bearer tokens.
//   - BcryptCost: work factor for password hashes.
//   - GeminiAPIKey / GeminiModel: generative model used by /generate.
//   - AllowedOrigins: CORS origins; "*" allows any.
//   - TrustedProxies: addresses or CIDRs allowed to set X-Forwarded-For.
//     Empty means the peer address is the client address.
//   - RateLimitMax / RateLimitWindow: per client address sliding window.
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage used for cover image uploads.
type Config struct {
	EndpointAddrHTTP      string
	Env                   string
	LogLevel              string
	DatabaseDSN           string
	DatabaseName          string
	SecretKey             string
	TokenValidityDuration time.Duration
	BcryptCost            int
	GeminiAPIKey          string
	GeminiModel           string
	AllowedOrigins        []string
	TrustedProxies        []string
	RateLimitMax          int
	RateLimitWindow       time.Duration
	S3AccessKey           string
	S3SecretKey           string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development friendly defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.Env = EnvProduction
	c.LogLevel = "info"
	c.DatabaseDSN = "mongodb://localhost:27017"
	c.DatabaseName = "wizardry-blog"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 30 * 24 * time.Hour
	c.BcryptCost = 10
	c.GeminiModel = "gemini-1.5-pro"
	c.AllowedOrigins = []string{"http://localhost:8080"}
	c.RateLimitMax = 100
	c.RateLimitWindow = 15 * time.Minute
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "wizardry"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, osLookup)
	parseFlags(cfg, args)
	return cfg
}
