package identity

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// PlaybulbSuffix is the vendor suffix every Playbulb address carries.
// Scanning uses it to tell bulbs apart from other advertisers.
const PlaybulbSuffix = ":AC:E6"

// Address is a 6-byte Bluetooth device address in transmission order
// (Address[0] is the most significant byte of the textual form).
type Address [6]byte

// ParseAddress parses the colon-separated hex form "AA:BB:CC:DD:EE:FF".
// Lower-case hex is accepted; String always returns upper case.
func ParseAddress(s string) (Address, error) {
	var addr Address

	parts := strings.Split(s, ":")
	if len(parts) != len(addr) {
		return addr, fmt.Errorf("invalid address %q: expected 6 colon-separated bytes", s)
	}

	for i, part := range parts {
		if len(part) != 2 {
			return addr, fmt.Errorf("invalid address %q: byte %d must be two hex digits", s, i+1)
		}
		b, err := hex.DecodeString(part)
		if err != nil {
			return addr, fmt.Errorf("invalid address %q: %w", s, err)
		}
		addr[i] = b[0]
	}

	return addr, nil
}

// MustParseAddress is ParseAddress for constants in tests and tables.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// String returns the canonical upper-case colon-hex form.
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// IsPlaybulb reports whether the address carries the Playbulb vendor suffix.
func (a Address) IsPlaybulb() bool {
	return strings.HasSuffix(a.String(), PlaybulbSuffix)
}

// IsZero reports whether the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler so reports and config files
// carry the canonical form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
