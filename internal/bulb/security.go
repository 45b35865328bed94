package bulb

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/protocol"
)

// SecurityRequest is a simulated-presence window.
type SecurityRequest struct {
	Start       StartTime
	End         StartTime
	MinInterval uint8 // minutes
	MaxInterval uint8 // minutes
	Color       protocol.Color
}

// Security reads the security record.
func (s *Session) Security(ctx context.Context) (protocol.Security, error) {
	f, err := readRecord(ctx, s, protocol.CharSecurity, "security", protocol.DecodeSecurity)
	s.report.Security = f
	if err != nil {
		return protocol.Security{}, err
	}
	return f.Value, nil
}

// SetSecurity programs and activates the security window. The current
// record is read first; its bulb clock resolves relative times, and the
// host clock is used when the bulb will not report one.
func (s *Session) SetSecurity(ctx context.Context, req SecurityRequest) error {
	now := protocol.TimeOfDayFromClock(s.now())
	if req.Start.NeedsClock() || req.End.NeedsClock() {
		current, err := s.Security(ctx)
		if IsTransportFailure(err) {
			return fmt.Errorf("set security: %w", err)
		}
		if err == nil && current.Clock.IsSet() {
			now = current.Clock
		}
	}

	sec := protocol.Security{
		Active:      true,
		Clock:       protocol.TimeOfDayFromClock(s.now()),
		Start:       req.Start.Resolve(now),
		End:         req.End.Resolve(now),
		MinInterval: req.MinInterval,
		MaxInterval: req.MaxInterval,
		Color:       req.Color,
	}
	data, err := protocol.EncodeSecurity(sec, s.now())
	if err != nil {
		return fmt.Errorf("set security: %w", err)
	}

	s.log.Info("Setting security", zap.Stringer("security", sec))
	if err := s.conn.Write(ctx, protocol.CharSecurity, data, true); err != nil {
		return fmt.Errorf("set security: %w", err)
	}
	s.report.Security = Available(sec)
	return nil
}

// ClearSecurity disables the security window.
func (s *Session) ClearSecurity(ctx context.Context) error {
	s.log.Info("Clearing security")
	if err := s.conn.Write(ctx, protocol.CharSecurity, protocol.EncodeSecurityClear(s.now()), true); err != nil {
		return fmt.Errorf("clear security: %w", err)
	}
	sec := protocol.DisabledSecurity()
	sec.Clock = protocol.TimeOfDayFromClock(s.now())
	s.report.Security = Available(sec)
	return nil
}
