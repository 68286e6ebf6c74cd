package password

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a deterministic fast digest of value, hex encoded.
//
// The digest is not a security boundary on its own. It exists so the server
// can hold a small equality token for "is this the refresh token we issued"
// without persisting the token itself or re-verifying its signature.
func Fingerprint(value string) string {
	var buf [8]byte
	sum := xxhash.Sum64String(value)
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(buf[:])
}
