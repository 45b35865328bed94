package bletest

import (
	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/protocol"
)

// Bulb is an emulated Playbulb. Writes update the records that later reads
// return, the way the firmware does.
type Bulb struct {
	Address identity.Address
	Name    string // advertised name

	values   map[protocol.Characteristic][]byte
	readErr  map[protocol.Characteristic]error
	writeErr map[protocol.Characteristic]error
}

func newBulb(addr identity.Address) *Bulb {
	b := &Bulb{
		Address:  addr,
		Name:     "PLAYBULB CANDLE",
		readErr:  make(map[protocol.Characteristic]error),
		writeErr: make(map[protocol.Characteristic]error),
	}
	b.factoryDefaults()
	return b
}

func (b *Bulb) factoryDefaults() {
	bank := protocol.ClearedTimerBank()
	bank.Clock = protocol.TimeOfDay{Hour: 12, Minute: 0}
	security := make([]byte, protocol.SecurityRecordSize)
	copy(security, []byte{0x00, 12, 0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

	b.values = map[protocol.Characteristic][]byte{
		protocol.CharColor:            protocol.EncodeColor(protocol.ColorOff),
		protocol.CharEffect:           protocol.EncodeEffect(protocol.OffEffect(protocol.ColorOff)),
		protocol.CharTimerSchedule:    protocol.EncodeTimerSchedule(bank),
		protocol.CharTimerEffect:      protocol.EncodeTimerEffect(bank),
		protocol.CharSecurity:         security,
		protocol.CharName:             []byte("PLAYBULB CANDLE"),
		protocol.CharPIN:              []byte("1234"),
		protocol.CharBatteryLevel:     {87},
		protocol.CharManufacturerName: []byte("MIPOW"),
		protocol.CharSerialNumber:     []byte("BTL300-0001"),
		protocol.CharHardwareRevision: []byte("CSR101x A05"),
		protocol.CharSoftwareRevision: []byte("Application version 2.4.3.26"),
		protocol.CharFirmwareRevision: []byte("BTL300_v5"),
		protocol.CharPnPID:            {0x01, 0x00, 0x0a, 0x00, 0x4c, 0x01, 0x00},
		protocol.CharFactoryReset:     {0x00},
	}
}

// Set replaces the raw record behind char.
func (b *Bulb) Set(char protocol.Characteristic, data []byte) {
	b.values[char] = append([]byte(nil), data...)
}

// Value returns a copy of the raw record behind char.
func (b *Bulb) Value(char protocol.Characteristic) []byte {
	return append([]byte(nil), b.values[char]...)
}

// Remove drops char, as on models without that feature.
func (b *Bulb) Remove(char protocol.Characteristic) {
	delete(b.values, char)
}

// FailRead makes reads of char fail with err.
func (b *Bulb) FailRead(char protocol.Characteristic, err error) {
	b.readErr[char] = err
}

// FailWrite makes writes to char fail with err.
func (b *Bulb) FailWrite(char protocol.Characteristic, err error) {
	b.writeErr[char] = err
}

// DenyRead makes reads of char fail the way BlueZ reports a refused read.
func (b *Bulb) DenyRead(char protocol.Characteristic) {
	b.FailRead(char, &ble.Error{Type: ble.ErrTypePermissionDenied, Op: "read", Address: b.Address, Characteristic: char})
}

func (b *Bulb) read(char protocol.Characteristic) ([]byte, error) {
	if err := b.readErr[char]; err != nil {
		return nil, err
	}
	v, ok := b.values[char]
	if !ok {
		return nil, &ble.Error{Type: ble.ErrTypeUnsupported, Op: "read", Address: b.Address, Characteristic: char, Err: ble.ErrCharacteristicMissing}
	}
	return append([]byte(nil), v...), nil
}

func (b *Bulb) write(char protocol.Characteristic, data []byte) error {
	if err := b.writeErr[char]; err != nil {
		return err
	}
	if _, ok := b.values[char]; !ok {
		return &ble.Error{Type: ble.ErrTypeUnsupported, Op: "write", Address: b.Address, Characteristic: char, Err: ble.ErrCharacteristicMissing}
	}

	switch char {
	case protocol.CharTimerSchedule:
		bank, err := protocol.DecodeTimerFrames(data)
		if err != nil {
			return &ble.Error{Type: ble.ErrTypeTransport, Op: "write", Address: b.Address, Characteristic: char, Err: err}
		}
		b.values[protocol.CharTimerSchedule] = protocol.EncodeTimerSchedule(bank)
		b.values[protocol.CharTimerEffect] = protocol.EncodeTimerEffect(bank)

	case protocol.CharSecurity:
		if len(data) != protocol.SecurityRecordSize {
			return &ble.Error{Type: ble.ErrTypeTransport, Op: "write", Address: b.Address, Characteristic: char}
		}
		rec := append([]byte(nil), data...)
		rec[1], rec[2] = data[2], data[1]
		rec[0] = 0x01
		if data[3] == 0xff && data[5] == 0xff {
			rec[0] = 0x00
		}
		b.values[char] = rec

	case protocol.CharFactoryReset:
		if len(data) == 1 && data[0] == protocol.FactoryResetOp {
			b.factoryDefaults()
		}

	default:
		b.values[char] = append([]byte(nil), data...)
	}
	return nil
}
