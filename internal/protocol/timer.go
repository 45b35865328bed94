package protocol

import (
	"fmt"
	"time"
)

// Timer bank record sizes
const (
	TimerSlots              = 4
	TimerScheduleRecordSize = 14 // 4 x [type hour minute] + clock hour, minute
	TimerEffectRecordSize   = 20 // 4 x [W R G B runtime]
	TimerFrameSize          = 13
	TimerBankRecordSize     = TimerSlots * TimerFrameSize
	MaxTimerRuntime         = 255
)

// TimerType is the on-wire program type of one slot.
type TimerType uint8

// Timer program codes
const (
	TimerWakeup TimerType = 0x00 // fade in to the slot color
	TimerDoze   TimerType = 0x02 // fade out from the slot color
	TimerOff    TimerType = 0x04
)

// Known reports whether t is one of the documented timer codes.
func (t TimerType) Known() bool {
	return t == TimerWakeup || t == TimerDoze || t == TimerOff
}

func (t TimerType) String() string {
	switch t {
	case TimerWakeup:
		return "wakeup"
	case TimerDoze:
		return "doze"
	case TimerOff:
		return "off"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// Timer is one of the four scheduled programs of a bulb.
type Timer struct {
	Slot    int // 0-3
	Type    TimerType
	Start   TimeOfDay
	Runtime int // minutes, 0-255 on the wire
	Color   Color

	// Scene names the scene program that planned this slot. It is not
	// stored by the bulb and is zero for decoded timers.
	Scene Scene
}

// ClearedTimer returns the off sentinel for slot.
func ClearedTimer(slot int) Timer {
	return Timer{Slot: slot, Type: TimerOff, Start: UnsetTime}
}

// Active reports whether the slot holds a scheduled program.
func (t Timer) Active() bool {
	return t.Type != TimerOff && t.Start.IsSet()
}

// Validate checks a timer about to be programmed: a set start within the
// day and a runtime that fits its byte. Decoded neighbour slots are written
// back unchecked.
func (t Timer) Validate() error {
	if t.Start.IsSet() {
		if _, err := NewTimeOfDay(int(t.Start.Hour), int(t.Start.Minute)); err != nil {
			return fmt.Errorf("slot %d: %w", t.Slot+1, err)
		}
	}
	if err := checkRange("timer runtime", t.Runtime, 0, MaxTimerRuntime); err != nil {
		return fmt.Errorf("slot %d: %w", t.Slot+1, err)
	}
	return nil
}

// RuntimeString returns the runtime as "hh:mm".
func (t Timer) RuntimeString() string {
	return fmt.Sprintf("%02d:%02d", t.Runtime/60, t.Runtime%60)
}

func (t Timer) String() string {
	return fmt.Sprintf("Timer(slot=%d, type=%s, start=%s, runtime=%d, color=%s)",
		t.Slot+1, t.Type, t.Start, t.Runtime, t.Color)
}

// TimerBank holds all four slots plus the bulb clock read with them.
type TimerBank struct {
	Timers [TimerSlots]Timer
	Clock  TimeOfDay
}

// ClearedTimerBank returns a bank with every slot off.
func ClearedTimerBank() TimerBank {
	var b TimerBank
	for i := range b.Timers {
		b.Timers[i] = ClearedTimer(i)
	}
	b.Clock = UnsetTime
	return b
}

// DecodeTimerBank combines the schedule and timer-effect records into a
// bank. Both records must have their exact size.
func DecodeTimerBank(schedule, effect []byte) (TimerBank, error) {
	if err := checkLen("timer schedule", schedule, TimerScheduleRecordSize); err != nil {
		return TimerBank{}, err
	}
	if err := checkLen("timer effect", effect, TimerEffectRecordSize); err != nil {
		return TimerBank{}, err
	}

	bank := TimerBank{Clock: decodeTime(schedule[12], schedule[13])}
	for i := 0; i < TimerSlots; i++ {
		s := schedule[i*3:]
		e := effect[i*5:]
		bank.Timers[i] = Timer{
			Slot:    i,
			Type:    TimerType(s[0]),
			Start:   decodeTime(s[1], s[2]),
			Runtime: int(e[4]),
			Color:   colorAt(e, 0),
		}
	}
	return bank, nil
}

// EncodeTimerBank returns the packed write record: four 13-byte frames,
// one per slot, each carrying the host clock now so the bulb resyncs.
// Start bytes are written as stored; only runtimes are checked since they
// must fit one byte.
//
// Frame layout:
//
//	[0]    slot 0-3
//	[1]    timer type
//	[2:5]  now second, minute, hour
//	[5]    0xFF clears the slot, 0x00 schedules it
//	[6:8]  start minute, hour
//	[8:12] color W R G B
//	[12]   runtime in minutes
func EncodeTimerBank(bank TimerBank, now time.Time) ([]byte, error) {
	buf := make([]byte, TimerBankRecordSize)
	for i, t := range bank.Timers {
		frame, err := encodeTimerFrame(i, t, now)
		if err != nil {
			return nil, err
		}
		copy(buf[i*TimerFrameSize:], frame)
	}
	return buf, nil
}

func encodeTimerFrame(slot int, t Timer, now time.Time) ([]byte, error) {
	if err := checkRange("timer runtime", t.Runtime, 0, MaxTimerRuntime); err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot+1, err)
	}

	frame := make([]byte, TimerFrameSize)
	frame[0] = byte(slot) & 0x03
	frame[1] = byte(t.Type)
	frame[2] = byte(now.Second())
	frame[3] = byte(now.Minute())
	frame[4] = byte(now.Hour())
	frame[5] = 0x00
	if !t.Start.IsSet() {
		frame[5] = 0xFF
	}
	frame[6] = t.Start.Minute
	frame[7] = t.Start.Hour
	putColor(frame, 8, t.Color)
	frame[12] = byte(t.Runtime)
	return frame, nil
}

// DecodeTimerFrames splits a packed write record back into timers. The
// host clock carried in the frames is returned as the bank clock.
func DecodeTimerFrames(data []byte) (TimerBank, error) {
	if err := checkLen("timer bank", data, TimerBankRecordSize); err != nil {
		return TimerBank{}, err
	}
	var bank TimerBank
	for i := 0; i < TimerSlots; i++ {
		f := data[i*TimerFrameSize : (i+1)*TimerFrameSize]
		slot := int(f[0] & 0x03)
		start := decodeTime(f[7], f[6])
		if f[5] == 0xFF && start.IsSet() {
			start = UnsetTime
		}
		bank.Timers[slot] = Timer{
			Slot:    slot,
			Type:    TimerType(f[1]),
			Start:   start,
			Runtime: int(f[12]),
			Color:   colorAt(f, 8),
		}
		bank.Clock = decodeTime(f[4], f[3])
	}
	return bank, nil
}

// EncodeTimerSchedule renders the schedule read record for bank. Used to
// emulate the bulb in tests and by dump tooling.
func EncodeTimerSchedule(bank TimerBank) []byte {
	buf := make([]byte, TimerScheduleRecordSize)
	for i, t := range bank.Timers {
		buf[i*3] = byte(t.Type)
		copy(buf[i*3+1:], EncodeClock(t.Start))
	}
	copy(buf[12:], EncodeClock(bank.Clock))
	return buf
}

// EncodeTimerEffect renders the timer-effect read record for bank.
func EncodeTimerEffect(bank TimerBank) []byte {
	buf := make([]byte, TimerEffectRecordSize)
	for i, t := range bank.Timers {
		putColor(buf, i*5, t.Color)
		buf[i*5+4] = byte(t.Runtime)
	}
	return buf
}
