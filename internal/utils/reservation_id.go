package utils // package utils provides helpers for generating reservation handles

import (
	"crypto/rand" // secure random number generation
	"fmt"
)

// reservationIDPrefix is the public prefix guests see on their booking handle.
const reservationIDPrefix = "RES-"

// idAlphabet is the Crockford base32 alphabet: no I, L, O or U, so handles
// survive being read over the phone or scribbled on a receipt.
const idAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// idSuffixLen random characters give 32^10 (~10^15) possible handles, which
// keeps the collision chance negligible; the store's unique index on
// reservation_id is the backstop, with the caller regenerating on conflict.
const idSuffixLen = 10

// NewReservationID returns a fresh public reservation handle such as
// "RES-7G2MK9QD4T".  The suffix is sourced from crypto/rand; uniqueness is
// ultimately enforced by the reservation store.
func NewReservationID() (string, error) {
	buf := make([]byte, idSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reservation id: %w", err)
	}
	out := make([]byte, idSuffixLen)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return reservationIDPrefix + string(out), nil
}
