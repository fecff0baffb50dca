package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/rehearsal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only -s, -f and -t are considered; everything else in args is left for the
// command dispatcher.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-s", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the API server")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "path of the session file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
