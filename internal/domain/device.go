package domain

import (
	"strings"
	"time"
)

// IdentitySeparator splits a stored identity into name and address
const IdentitySeparator = "|"

// FreshnessWindow is the maximum age of a registration that is still visible
const FreshnessWindow = 60 * time.Minute

// Device is a peer visible on a network, as returned to callers
type Device struct {
	Name     string `json:"name" yaml:"name"`
	Address  string `json:"address" yaml:"address"`
	LastSeen int64  `json:"last_seen" yaml:"last_seen"` // epoch milliseconds
}

// LastSeenTime returns LastSeen as a time.Time
func (d Device) LastSeenTime() time.Time {
	return time.UnixMilli(d.LastSeen)
}

// RawEntry is one member of a network's sorted set as the store returns it.
// Score is kept as text so that malformed values reach the parser intact.
type RawEntry struct {
	Member string
	Score  string
}

// Entry is a parsed RawEntry with the bookkeeping needed during reconciliation.
// Key and ID never leave this package's output.
type Entry struct {
	Key      string // original identity string
	ID       int    // position in the parsed sequence
	Name     string
	Address  string
	LastSeen int64
	Valid    bool // false when the score was not a base-10 integer
}

// Device strips the bookkeeping fields
func (e Entry) Device() Device {
	return Device{
		Name:     e.Name,
		Address:  e.Address,
		LastSeen: e.LastSeen,
	}
}

// Identity encodes a name and address into the stored member string.
// Neither part is escaped.
func Identity(name, address string) string {
	return name + IdentitySeparator + address
}

// SplitIdentity splits on the first separator only. Anything after it,
// further separators included, belongs to the address.
func SplitIdentity(identity string) (name, address string) {
	name, address, _ = strings.Cut(identity, IdentitySeparator)
	return name, address
}

// HasSeparator reports whether s would make an identity ambiguous
func HasSeparator(s string) bool {
	return strings.Contains(s, IdentitySeparator)
}
