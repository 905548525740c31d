package config

import (
	"os"
	"strconv"

	"github.com/dmitrijs2005/wizardry/internal/flagx"
	"github.com/dmitrijs2005/wizardry/internal/timex"
)

type lookupFunc func(key string) (string, bool)

var osLookup lookupFunc = os.LookupEnv

// parseEnv overrides configuration with environment variables, keeping the
// variable names the deployment already uses (PORT, JWT_SECRET, ...).
func parseEnv(config *Config, lookup lookupFunc) {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}

	if v, ok := get("PORT"); ok {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := get("HTTP_ADDR"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := get("APP_ENV", "NODE_ENV"); ok {
		config.Env = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := get("DATABASE_DSN", "MONGO_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get("DATABASE_NAME"); ok {
		config.DatabaseName = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := get("JWT_EXPIRES_IN"); ok {
		if d, err := timex.ParseDuration(v); err == nil && d > 0 {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := get("GEMINI_API_KEY"); ok {
		config.GeminiAPIKey = v
	}
	if v, ok := get("GEMINI_MODEL"); ok {
		config.GeminiModel = v
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = flagx.SplitList(v)
	}
	if v, ok := get("TRUSTED_PROXIES"); ok {
		config.TrustedProxies = flagx.SplitList(v)
	}
	if v, ok := get("RATE_LIMIT_MAX"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimitMax = n
		}
	}
	if v, ok := get("S3_ACCESS_KEY"); ok {
		config.S3AccessKey = v
	}
	if v, ok := get("S3_SECRET_KEY"); ok {
		config.S3SecretKey = v
	}
	if v, ok := get("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := get("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := get("S3_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}
