// Package cli provides the interactive SafeScan terminal client.
//
// It wires configuration, the local slot store, the remote backend client,
// the barcode scanner and the services into a read-eval-print loop. A
// background watcher probes backend health and flips the prompt between
// online and offline.
//
// Key features:
//   - Scan with the camera or enter a barcode manually
//   - Pick a similar product when a barcode is unknown
//   - Run the ingredient check against the active profile
//   - Browse history and alerts
//   - Manage dietary profiles and their restrictions
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
