// Package protocol implements the Playbulb GATT record codec.
//
// Every Playbulb feature lives in one fixed-size record behind one GATT
// characteristic. This package converts those records to and from domain
// values and does no I/O.
//
// # Records
//
// All UUIDs are short forms inside the Bluetooth base UUID
// 0000xxxx-0000-1000-8000-00805f9b34fb.
//
//	fffc  color            4 bytes  W R G B
//	fffb  effect           8 bytes  W R G B type repetitions delay pause
//	fffe  timer schedule  14 bytes  4 x [type hour minute] + clock (read)
//	fff8  timer effect    20 bytes  4 x [W R G B runtime] (read)
//	fffe  timer bank      52 bytes  4 x 13-byte slot frame (write)
//	fff9  security        13 bytes  see Security
//	ffff  name           <=14 bytes
//	fff7  PIN              4 ASCII digits
//	fffd  factory reset    1 byte   0x03
//
// Device information uses the standard battery (2a19), PnP ID (2a50) and
// string characteristics 2a25-2a29.
//
// # Decoding rules
//
// A record of the wrong length fails with a *DecodeError, which matches
// ErrMalformedRecord. Unknown effect or timer codes decode to the raw
// EffectType or TimerType value and report Known() == false. An hour or
// minute of 0xFF makes a TimeOfDay unset; the raw bytes are kept so that
// a read-modify-write returns untouched fields exactly as read.
//
// # Usage Example
//
//	color, err := protocol.DecodeColor(raw)
//	if err != nil {
//	    return err
//	}
//	dimmed := color.Scale(0.5)
//	conn.Write(ctx, protocol.CharColor, protocol.EncodeColor(dimmed), false)
//
// Timers are always written as a whole bank:
//
//	bank, _ := protocol.DecodeTimerBank(schedule, effect)
//	bank.Timers[1] = protocol.Timer{Slot: 1, Type: protocol.TimerDoze, ...}
//	record, err := protocol.EncodeTimerBank(bank, time.Now())
package protocol
