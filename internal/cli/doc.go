// Package cli provides the interactive ezrevenue host.
//
// It wires configuration, the device id store, the signed RPC client, the
// entitlement cache and the paywall controller behind a small REPL that
// plays the role of the extension UI. Paywall "windows" are printed URLs;
// typing `close <id>` reports the window closed, which completes the
// purchase flow and refreshes the entitlement record.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
