// Package config loads runtime configuration for the rehearsal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   base URL of the rehearsal API server
//	-f string   path of the local session file
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "session_file": "/home/me/.rehearsal/session.json",
//	  "request_timeout": "10s"
//	}
package config
