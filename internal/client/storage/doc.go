// Package storage is finmate's local key/value store, the analogue of a
// browser's localStorage: a single SQLite table keyed by string.
//
// The session keeps exactly two entries here, KeyUser (the profile JSON)
// and KeyToken (the raw access token). Values are stored as written; nothing
// checks them against the server, so they may be stale.
package storage
