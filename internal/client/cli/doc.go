// Package cli is the interactive proofolio client: a small REPL over the
// HTTP API for managing entries, attaching proof files and browsing public
// profiles.
package cli
