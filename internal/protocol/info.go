package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Device info limits
const (
	MaxNameLength  = 14
	PINLength      = 4
	PnPIDSize      = 7
	FactoryResetOp = 0x03
)

// ErrInvalidPIN is returned for anything but exactly four ASCII digits.
var ErrInvalidPIN = errors.New("PIN must be exactly 4 digits")

// PnPID is the standard PnP ID characteristic.
type PnPID struct {
	VendorIDSource uint8  `json:"vendorIDSource"`
	VendorID       uint16 `json:"vendorID"`
	ProductID      uint16 `json:"productID"`
	ProductVersion uint16 `json:"productVersion"`
}

func (p PnPID) String() string {
	return fmt.Sprintf("pnpId(vendorIDSource=%d,vendorID=0x%x,productID=0x%x,productVersion=0x%x)",
		p.VendorIDSource, p.VendorID, p.ProductID, p.ProductVersion)
}

// DecodePnPID parses the 7-byte big-endian PnP ID record.
func DecodePnPID(data []byte) (PnPID, error) {
	if err := checkLen("pnp id", data, PnPIDSize); err != nil {
		return PnPID{}, err
	}
	return PnPID{
		VendorIDSource: data[0],
		VendorID:       binary.BigEndian.Uint16(data[1:3]),
		ProductID:      binary.BigEndian.Uint16(data[3:5]),
		ProductVersion: binary.BigEndian.Uint16(data[5:7]),
	}, nil
}

// DecodeBattery parses the battery level. Standard firmware sends one
// byte; some Playbulb models send a little-endian uint16.
func DecodeBattery(data []byte) (int, error) {
	switch len(data) {
	case 1:
		return int(data[0]), nil
	case 2:
		return int(binary.LittleEndian.Uint16(data)), nil
	default:
		return 0, &DecodeError{Record: "battery", Want: 1, Got: len(data)}
	}
}

// DecodeString parses a UTF-8 string characteristic, dropping NUL padding.
func DecodeString(data []byte) string {
	s := strings.TrimRight(string(data), "\x00")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "?")
	}
	return s
}

// EncodeName returns the name record. Names must be 1 to 14 bytes.
func EncodeName(name string) ([]byte, error) {
	if err := checkRange("name length", len(name), 1, MaxNameLength); err != nil {
		return nil, err
	}
	return []byte(name), nil
}

// ValidatePIN checks for exactly four ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) != PINLength {
		return ErrInvalidPIN
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// EncodePIN returns the PIN record.
func EncodePIN(pin string) ([]byte, error) {
	if err := ValidatePIN(pin); err != nil {
		return nil, err
	}
	return []byte(pin), nil
}

// EncodeFactoryReset returns the factory reset command.
func EncodeFactoryReset() []byte {
	return []byte{FactoryResetOp}
}
