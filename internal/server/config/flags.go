package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/rehearsal/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, hours
//	-l int      rate limit, requests per window
//	-w int      rate limit window, minutes
//	-r string   Redis address for the shared rate limiter
//	-o string   allowed CORS origin
//	-p bool     trust X-Forwarded-For for client addresses
//	-b string   S3 bucket for profile images
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//
// args is filtered with flagx.FilterArgs first so the -c config flag and
// anything unknown never reach this flag set.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-l", "-w", "-r", "-o", "-p", "-b", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity duration (in hours)")
	fs.IntVar(&config.RateLimitRequests, "l", config.RateLimitRequests, "rate limit, requests per window")
	rateLimitWindow := fs.Int("w", int(config.RateLimitWindow.Minutes()), "rate limit window (in minutes)")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.CORSOrigin, "o", config.CORSOrigin, "allowed CORS origin")
	fs.BoolVar(&config.TrustProxy, "p", config.TrustProxy, "trust X-Forwarded-For")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations are only replaced when given explicitly, so sub-hour values
	// from JSON or the environment survive the int round trip.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
		case "w":
			config.RateLimitWindow = time.Duration(*rateLimitWindow) * time.Minute
		}
	})
}
