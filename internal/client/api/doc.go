// Package api is the REST transport to the finance backend.
//
// # Paths
//
// Domain resources live under /api/v1, authentication under /dj-rest-auth;
// every path keeps the trailing slash the backend's URL conf expects.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers are *ResponseError,
// which matches ErrBadRequest, ErrUnauthorized, ErrForbidden or ErrNotFound
// through errors.Is and carries the server message and field errors.
// Nothing is retried.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call honours ctx; an optional
// per-request timeout can be set with WithTimeout.
package api
