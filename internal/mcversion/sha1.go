package mcversion

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Sha1Sum is a fixed 20-byte SHA-1 digest, serialized as lowercase hex.
type Sha1Sum [sha1.Size]byte

// ParseSha1Sum decodes a lowercase (or uppercase) hex digest string.
func ParseSha1Sum(s string) (Sha1Sum, error) {
	var sum Sha1Sum
	b, err := hex.DecodeString(s)
	if err != nil {
		return sum, fmt.Errorf("mcversion: invalid sha1 %q: %w", s, err)
	}
	if len(b) != sha1.Size {
		return sum, fmt.Errorf("mcversion: sha1 %q has %d bytes, want %d", s, len(b), sha1.Size)
	}
	copy(sum[:], b)
	return sum, nil
}

// Sha1FromReader computes the SHA-1 of everything read from r.
func Sha1FromReader(r io.Reader) (Sha1Sum, error) {
	h := sha1.New()
	if _, err := io.Copy(h, r); err != nil {
		return Sha1Sum{}, err
	}
	var sum Sha1Sum
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

func (s Sha1Sum) String() string { return hex.EncodeToString(s[:]) }

// Equal performs byte-wise comparison.
func (s Sha1Sum) Equal(other Sha1Sum) bool { return s == other }

func (s Sha1Sum) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Sha1Sum) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSha1Sum(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
