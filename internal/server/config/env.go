package config

import (
	"strconv"
	"strings"
	"time"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(string) (string, bool)

// parseEnv overlays the variables the deployment's .env file uses.
// PORT is a bare port number and is turned into ":<port>".
func parseEnv(config *Config, lookup lookupFunc) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		if strings.Contains(v, ":") {
			config.EndpointAddrHTTP = v
		} else {
			config.EndpointAddrHTTP = ":" + v
		}
	}
	if v, ok := get("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := get("JWT_EXPIRES_IN"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := get("RATE_LIMIT_MAX"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimitRequests = n
		}
	}
	if v, ok := get("RATE_LIMIT_WINDOW"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.RateLimitWindow = d
		}
	}
	if v, ok := get("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := get("CORS_ORIGIN"); ok {
		config.CORSOrigin = v
	}
	if v, ok := get("TRUST_PROXY"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.TrustProxy = b
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
