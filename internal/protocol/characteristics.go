package protocol

import (
	"fmt"

	"github.com/google/uuid"
)

// Characteristic identifies one GATT characteristic of the bulb by its
// 16-bit short UUID inside the Bluetooth base UUID.
type Characteristic uint16

// Standard GATT characteristics read for device information
const (
	CharBatteryLevel     Characteristic = 0x2a19
	CharSerialNumber     Characteristic = 0x2a25
	CharFirmwareRevision Characteristic = 0x2a26
	CharHardwareRevision Characteristic = 0x2a27
	CharSoftwareRevision Characteristic = 0x2a28
	CharManufacturerName Characteristic = 0x2a29
	CharPnPID            Characteristic = 0x2a50
)

// Playbulb vendor characteristics
const (
	CharPIN           Characteristic = 0xfff7
	CharTimerEffect   Characteristic = 0xfff8 // per-slot color + runtime (read)
	CharSecurity      Characteristic = 0xfff9
	CharEffect        Characteristic = 0xfffb
	CharColor         Characteristic = 0xfffc
	CharFactoryReset  Characteristic = 0xfffd
	CharTimerSchedule Characteristic = 0xfffe // per-slot type + start, bulb clock (read), packed bank (write)
	CharName          Characteristic = 0xffff
)

// CharTime is the characteristic the bulb clock is read from. The clock
// shares the schedule record.
const CharTime = CharTimerSchedule

// bluetoothBaseUUID is 0000xxxx-0000-1000-8000-00805f9b34fb.
var bluetoothBaseUUID = uuid.MustParse("00000000-0000-1000-8000-00805f9b34fb")

// UUID returns the full 128-bit UUID of the characteristic.
func (c Characteristic) UUID() uuid.UUID {
	u := bluetoothBaseUUID
	u[2] = byte(c >> 8)
	u[3] = byte(c)
	return u
}

// String returns the canonical lower-case 128-bit form, which is what
// BlueZ reports and what the GATT profile documents.
func (c Characteristic) String() string {
	return c.UUID().String()
}

// Name returns a short human-readable label used in logs and errors.
func (c Characteristic) Name() string {
	switch c {
	case CharBatteryLevel:
		return "battery"
	case CharSerialNumber:
		return "serial"
	case CharFirmwareRevision:
		return "firmware"
	case CharHardwareRevision:
		return "hardware"
	case CharSoftwareRevision:
		return "software"
	case CharManufacturerName:
		return "manufacturer"
	case CharPnPID:
		return "pnp_id"
	case CharPIN:
		return "pin"
	case CharTimerEffect:
		return "timer_effect"
	case CharSecurity:
		return "security"
	case CharEffect:
		return "effect"
	case CharColor:
		return "color"
	case CharFactoryReset:
		return "factory_reset"
	case CharTimerSchedule:
		return "timer_schedule"
	case CharName:
		return "name"
	default:
		return fmt.Sprintf("0x%04x", uint16(c))
	}
}

// ParseCharacteristic accepts a 128-bit UUID string inside the Bluetooth
// base UUID and returns its short form.
func ParseCharacteristic(s string) (Characteristic, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid characteristic UUID %q: %w", s, err)
	}
	short := Characteristic(uint16(u[2])<<8 | uint16(u[3]))
	if short.UUID() != u {
		return 0, fmt.Errorf("characteristic UUID %q is not in the Bluetooth base UUID", s)
	}
	return short, nil
}
