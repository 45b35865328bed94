package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodePnPID(t *testing.T) {
	got, err := DecodePnPID([]byte{0x01, 0x00, 0x0d, 0x00, 0x00, 0x01, 0x10})
	if err != nil {
		t.Fatalf("DecodePnPID() error = %v", err)
	}
	want := PnPID{VendorIDSource: 1, VendorID: 0x000d, ProductID: 0, ProductVersion: 0x0110}
	if got != want {
		t.Errorf("DecodePnPID() = %+v, want %+v", got, want)
	}
	if s := got.String(); s != "pnpId(vendorIDSource=1,vendorID=0xd,productID=0x0,productVersion=0x110)" {
		t.Errorf("String() = %s", s)
	}

	if _, err := DecodePnPID([]byte{1, 2, 3}); !IsMalformed(err) {
		t.Errorf("DecodePnPID(3 bytes) error = %v, want malformed", err)
	}
}

func TestDecodeBattery(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    int
		wantErr bool
	}{
		{"one byte", []byte{87}, 87, false},
		{"little endian uint16", []byte{0x64, 0x00}, 100, false},
		{"empty", nil, 0, true},
		{"three bytes", []byte{1, 2, 3}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBattery(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeBattery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsMalformed(err) {
				t.Errorf("DecodeBattery() error = %v, want malformed", err)
			}
			if got != tt.want {
				t.Errorf("DecodeBattery() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeString(t *testing.T) {
	if got := DecodeString([]byte("PLAYBULB\x00\x00")); got != "PLAYBULB" {
		t.Errorf("DecodeString() = %q, want PLAYBULB", got)
	}
	if got := DecodeString([]byte{'a', 0xff}); got != "a?" {
		t.Errorf("DecodeString(invalid utf-8) = %q, want a?", got)
	}
}

func TestEncodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"short", "Kueche", false},
		{"max length", strings.Repeat("x", MaxNameLength), false},
		{"too long", strings.Repeat("x", MaxNameLength+1), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EncodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			var re *RangeError
			if tt.wantErr && !errors.As(err, &re) {
				t.Errorf("EncodeName(%q) error type = %T, want *RangeError", tt.input, err)
			}
			if !tt.wantErr && string(got) != tt.input {
				t.Errorf("EncodeName(%q) = %q", tt.input, got)
			}
		})
	}
}

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		pin     string
		wantErr bool
	}{
		{"1234", false},
		{"0000", false},
		{"123", true},
		{"12345", true},
		{"12a4", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidatePIN(tt.pin)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePIN(%q) error = %v, wantErr %v", tt.pin, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidPIN) {
			t.Errorf("ValidatePIN(%q) error = %v, want ErrInvalidPIN", tt.pin, err)
		}
	}
}

func TestEncodeFactoryReset(t *testing.T) {
	if got := EncodeFactoryReset(); len(got) != 1 || got[0] != 0x03 {
		t.Errorf("EncodeFactoryReset() = % x, want 03", got)
	}
}
