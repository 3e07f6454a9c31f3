// Package models defines the records exchanged with the finance backend.
//
// Server records (profiles, products, recommendations) are treated as opaque
// and authoritative: the client decodes the fields it needs and keeps the raw
// document for everything else.
package models
