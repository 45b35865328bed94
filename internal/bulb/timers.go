package bulb

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/protocol"
)

// AllSlots selects every timer slot in ClearTimer.
const AllSlots = -1

// Timers reads the timer bank. It takes two reads: the schedule record
// (types, start times, bulb clock) and the timer-effect record (colors and
// runtimes).
func (s *Session) Timers(ctx context.Context) (protocol.TimerBank, error) {
	bank, err := s.readTimers(ctx)
	if err != nil {
		s.report.Timers = Unavailable[protocol.TimerBank](err)
		return protocol.TimerBank{}, err
	}
	s.report.Timers = Available(bank)
	return bank, nil
}

func (s *Session) readTimers(ctx context.Context) (protocol.TimerBank, error) {
	schedule, err := s.conn.Read(ctx, protocol.CharTimerSchedule)
	if err != nil {
		return protocol.TimerBank{}, s.degrade("timers", err)
	}
	effect, err := s.conn.Read(ctx, protocol.CharTimerEffect)
	if err != nil {
		return protocol.TimerBank{}, s.degrade("timers", err)
	}
	bank, err := protocol.DecodeTimerBank(schedule, effect)
	if err != nil {
		return protocol.TimerBank{}, s.degrade("timers", err)
	}
	return bank, nil
}

// bulbClock returns the bulb's own time of day. When the bulb cannot report
// it the host clock is used.
func (s *Session) bulbClock(ctx context.Context) (protocol.TimeOfDay, error) {
	data, err := s.conn.Read(ctx, protocol.CharTime)
	if err == nil && len(data) == protocol.TimerScheduleRecordSize {
		clock, derr := protocol.DecodeClock(data[12:14])
		if derr == nil && clock.IsSet() {
			return clock, nil
		}
	}
	if IsTransportFailure(err) {
		return protocol.TimeOfDay{}, err
	}
	s.log.Debug("Bulb clock not available, using host clock", zap.Error(err))
	return protocol.TimeOfDayFromClock(s.now()), nil
}

func (s *Session) writeTimers(ctx context.Context, bank protocol.TimerBank) error {
	data, err := protocol.EncodeTimerBank(bank, s.now())
	if err != nil {
		return err
	}
	if err := s.conn.Write(ctx, protocol.CharTimerSchedule, data, true); err != nil {
		return err
	}
	bank.Clock = protocol.TimeOfDayFromClock(s.now())
	s.report.Timers = Available(bank)
	return nil
}

// SetTimer programs one slot (0-3) and keeps the other three. The bank is
// read, the slot replaced and the full bank written back; the other slots
// go back byte for byte as read. A relative start
// is resolved against the bulb clock read with the bank.
func (s *Session) SetTimer(ctx context.Context, slot int, typ protocol.TimerType, start StartTime, runtime int, c protocol.Color) error {
	if slot < 0 || slot >= protocol.TimerSlots {
		return &protocol.RangeError{Field: "timer slot", Value: slot + 1, Min: 1, Max: protocol.TimerSlots}
	}

	bank, err := s.Timers(ctx)
	if err != nil {
		return fmt.Errorf("set timer %d: %w", slot+1, err)
	}

	now := bank.Clock
	if !now.IsSet() {
		now = protocol.TimeOfDayFromClock(s.now())
	}
	t := protocol.Timer{
		Slot:    slot,
		Type:    typ,
		Start:   start.Resolve(now),
		Runtime: runtime,
		Color:   c,
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("set timer %d: %w", slot+1, err)
	}
	bank.Timers[slot] = t

	s.log.Info("Setting timer", zap.Stringer("timer", bank.Timers[slot]))
	if err := s.writeTimers(ctx, bank); err != nil {
		return fmt.Errorf("set timer %d: %w", slot+1, err)
	}
	return nil
}

// ClearTimer switches one slot off, or every slot for AllSlots. Clearing
// all needs no read since every slot is overwritten.
func (s *Session) ClearTimer(ctx context.Context, slot int) error {
	if slot == AllSlots {
		s.log.Info("Clearing all timers")
		if err := s.writeTimers(ctx, protocol.ClearedTimerBank()); err != nil {
			return fmt.Errorf("clear timers: %w", err)
		}
		return nil
	}
	if slot < 0 || slot >= protocol.TimerSlots {
		return &protocol.RangeError{Field: "timer slot", Value: slot + 1, Min: 1, Max: protocol.TimerSlots}
	}

	bank, err := s.Timers(ctx)
	if err != nil {
		return fmt.Errorf("clear timer %d: %w", slot+1, err)
	}
	bank.Timers[slot] = protocol.ClearedTimer(slot)

	s.log.Info("Clearing timer", zap.Int("slot", slot+1))
	if err := s.writeTimers(ctx, bank); err != nil {
		return fmt.Errorf("clear timer %d: %w", slot+1, err)
	}
	return nil
}

// SceneRequest asks for a scene program. Start is ignored by fade, which
// always begins one minute after the bulb clock.
type SceneRequest struct {
	Scene      protocol.Scene
	Start      StartTime
	Runtime    int // minutes
	Color      protocol.Color
	Brightness uint8
}

// SetScene plans a scene over all four slots and writes the bank. Scenes
// replace every slot, so the bank is not read first.
func (s *Session) SetScene(ctx context.Context, req SceneRequest) error {
	now, err := s.bulbClock(ctx)
	if err != nil {
		return fmt.Errorf("set %s: %w", req.Scene, err)
	}

	bank, err := protocol.PlanScene(protocol.SceneProgram{
		Scene:      req.Scene,
		Start:      req.Start.Resolve(now),
		Runtime:    req.Runtime,
		Color:      req.Color,
		Brightness: req.Brightness,
	}, now)
	if err != nil {
		return fmt.Errorf("set %s: %w", req.Scene, err)
	}

	s.log.Info("Setting scene",
		zap.Stringer("scene", req.Scene),
		zap.Stringer("start", req.Start),
		zap.Int("runtime", req.Runtime),
	)
	if err := s.writeTimers(ctx, bank); err != nil {
		return fmt.Errorf("set %s: %w", req.Scene, err)
	}
	return nil
}
