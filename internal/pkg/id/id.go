package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Valid reports whether s parses as a ULID. Used to reject malformed
// account ids before they reach the store.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
