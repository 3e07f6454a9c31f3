// Package session holds the authenticated user and access token of the
// running client.
//
// A Session is created once at startup, hydrated from the local key/value
// store so a restart does not require a new login, and torn down by Logout.
// All operations that change server-side profile or portfolio state re-fetch
// the profile afterwards; the cached user is always replaced wholesale with
// the server's copy and never merged field by field.
//
// Operations that the user triggers report failures through a
// notify.Notifier (the client's equivalent of a blocking alert) in addition
// to returning them, so every front end shows the same messages.
package session
