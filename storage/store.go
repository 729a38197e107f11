// Package storage holds wrapped messages, keyed by the link that addresses
// them.
package storage

import (
	"xdao.co/mam/link"
	"xdao.co/mam/trinary"
)

// Store is a content-addressed message store.
//
// Contract:
// - Put MUST be idempotent.
// - Stored messages MUST be immutable.
// - Links MUST be derived from the message trits (link.FromMessage).
// - Get MUST return ErrNotFound when the link is absent.
type Store interface {
	Put(msg trinary.Trits) (link.Link, error)
	Get(l link.Link) (trinary.Trits, error)
	Has(l link.Link) bool
}
