// Package cli provides the rehearsal command-line client.
//
// The client signs users up and in against the rehearsal API, remembers the
// issued bearer token in a local session file and runs authenticated
// commands with it. Logging out deletes the session file; the server keeps
// no session state, so a copied token stays usable until it expires.
//
// Commands can be run one-shot (rehearsal login) or from the interactive
// REPL started when no command is given. See App.Run and runREPL.
package cli
