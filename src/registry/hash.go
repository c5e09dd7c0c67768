package registry

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Hash256 is a 256-bit value (root, signal hash, nullifier) stored
// big-endian.
type Hash256 [32]byte

var ZeroHash Hash256

// ParseHash256 accepts "0x"-prefixed hex of at most 64 digits or a decimal
// integer below 2^256.
func ParseHash256(s string) (Hash256, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZeroHash, fmt.Errorf("%w: empty 256-bit value", ErrMalformedInput)
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if len(digits) == 0 || len(digits) > 64 {
			return ZeroHash, fmt.Errorf("%w: hex value %q must have 1 to 64 digits", ErrMalformedInput, s)
		}
		if len(digits)%2 == 1 {
			digits = "0" + digits
		}
		raw, err := hex.DecodeString(digits)
		if err != nil {
			return ZeroHash, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		var h Hash256
		copy(h[32-len(raw):], raw)
		return h, nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ZeroHash, fmt.Errorf("%w: %q is neither 0x-hex nor decimal", ErrMalformedInput, s)
	}
	return HashFromBig(v)
}

func MustParseHash256(s string) Hash256 {
	h, err := ParseHash256(s)
	if err != nil {
		panic(err)
	}
	return h
}

func HashFromBig(v *big.Int) (Hash256, error) {
	if v.Sign() < 0 || v.BitLen() > 256 {
		return ZeroHash, fmt.Errorf("%w: %s does not fit in 256 bits", ErrMalformedInput, v)
	}
	var h Hash256
	v.FillBytes(h[:])
	return h, nil
}

func HashFromBytes(b []byte) (Hash256, error) {
	if len(b) != 32 {
		return ZeroHash, fmt.Errorf("%w: expected 32 bytes, got %d", ErrMalformedInput, len(b))
	}
	var h Hash256
	copy(h[:], b)
	return h, nil
}

func (h Hash256) Big() *big.Int {
	return new(big.Int).SetBytes(h[:])
}

func (h Hash256) Bytes() []byte {
	b := h
	return b[:]
}

func (h Hash256) IsZero() bool {
	return h == ZeroHash
}

func (h Hash256) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash256) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash256) UnmarshalText(text []byte) error {
	parsed, err := ParseHash256(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
