// Package store provides the persistence backends behind the consumer-side
// interview.Store and report.Store contracts: an in-memory map store, a
// JSON-document file store and a PostgreSQL store.
package store

import "errors"

// ErrNotFound is returned when a lookup matches no stored record.
var ErrNotFound = errors.New("record not found")
