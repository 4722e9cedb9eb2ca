// Package cli provides the interactive field-sales command-line client.
//
// It wires configuration, the local SQLite store, the API client, the sync
// services and an interactive REPL that supports online/offline operation.
// Typical flow: prompt for credentials, start the background connectivity and
// stock-sync watchers, suggest a sync when local data is empty or stale, and
// execute user commands.
//
// Key features:
//   - Login / Logout (online with offline fallback)
//   - Local catalog and customer search, exact sku/ean lookup
//   - Interactive order entry; orders queue while offline
//   - Full sync, stock-only sync, queue drain, image prefetch
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
