package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashSize is the length of a raw object id in bytes.
const HashSize = sha1.Size

// HashHexSize is the length of a hex-encoded object id.
const HashHexSize = 2 * HashSize

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

// ID is a raw 20-byte object id, as embedded in tree entries and the index.
type ID [HashSize]byte

// Hash returns the hex form of id.
func (id ID) Hash() Hash {
	return Hash(hex.EncodeToString(id[:]))
}

func (id ID) String() string {
	return string(id.Hash())
}

// ID decodes h into its raw form. h must be a valid full hash.
func (h Hash) ID() (ID, error) {
	var id ID
	if err := validateHash(h); err != nil {
		return id, err
	}
	if _, err := hex.Decode(id[:], []byte(h)); err != nil {
		return id, fmt.Errorf("%w %q: %v", ErrInvalidHash, string(h), err)
	}
	return id, nil
}

// ParseHash validates s as a full lowercase hex object id.
func ParseHash(s string) (Hash, error) {
	h := Hash(s)
	if err := validateHash(h); err != nil {
		return "", err
	}
	return h, nil
}

func validateHash(h Hash) error {
	if len(h) != HashHexSize || !isLowerHex(string(h)) {
		return fmt.Errorf("%w %q", ErrInvalidHash, string(h))
	}
	return nil
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// HashRecord computes the SHA-1 of an uncompressed record
// ("type len\0content") and returns it hex-encoded.
func HashRecord(record []byte) Hash {
	sum := sha1.Sum(record)
	return Hash(hex.EncodeToString(sum[:]))
}
