package bulb

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/protocol"
)

const (
	// BrightnessUp doubles every channel.
	BrightnessUp = 2.0
	// BrightnessDown halves every channel.
	BrightnessDown = 0.5
)

// Color reads the static light color.
func (s *Session) Color(ctx context.Context) (protocol.Color, error) {
	f, err := readRecord(ctx, s, protocol.CharColor, "color", protocol.DecodeColor)
	s.report.Color = f
	if err != nil {
		return protocol.Color{}, err
	}
	s.rememberColor(f.Value)
	return f.Value, nil
}

// SetColor writes the static light color.
func (s *Session) SetColor(ctx context.Context, c protocol.Color) error {
	s.log.Info("Setting light", zap.Stringer("color", c))
	if err := s.conn.Write(ctx, protocol.CharColor, protocol.EncodeColor(c), false); err != nil {
		return fmt.Errorf("set color: %w", err)
	}
	s.rememberColor(c)
	s.report.Color = Available(c)
	return nil
}

func (s *Session) rememberColor(c protocol.Color) {
	s.color = &c
	if !c.IsOff() {
		s.lastOn = &c
	}
}

// currentColor returns the cached color or reads it.
func (s *Session) currentColor(ctx context.Context) (protocol.Color, error) {
	if s.color != nil {
		return *s.color, nil
	}
	return s.Color(ctx)
}

// TurnOn switches to full white.
func (s *Session) TurnOn(ctx context.Context) error {
	return s.SetColor(ctx, protocol.ColorWhite)
}

// TurnOff switches the light off. The previous color stays in the session
// for a later Toggle.
func (s *Session) TurnOff(ctx context.Context) error {
	return s.SetColor(ctx, protocol.ColorOff)
}

// Toggle works like a light switch. A lit bulb has its effect stopped and
// its light switched off. A dark bulb gets back the color it had earlier
// in this session, else the color kept in its effect record, else white.
// The color is always written; some models forget it when switched off.
func (s *Session) Toggle(ctx context.Context) error {
	c, err := s.Color(ctx)
	if err != nil {
		return fmt.Errorf("toggle: %w", err)
	}

	if !c.IsOff() {
		if err := s.SetEffect(ctx, protocol.OffEffect(c)); err != nil {
			return fmt.Errorf("toggle: %w", err)
		}
		return s.TurnOff(ctx)
	}

	restore := protocol.ColorWhite
	if s.lastOn != nil {
		restore = *s.lastOn
	} else if e, err := s.Effect(ctx); err == nil && !e.Color.IsOff() {
		restore = e.Color
	} else if IsTransportFailure(err) {
		return fmt.Errorf("toggle: %w", err)
	}
	return s.SetColor(ctx, restore)
}

// ScaleBrightness multiplies every channel by factor. Rounding makes a
// down/up pair lossy: 255 becomes 127 and then 254.
func (s *Session) ScaleBrightness(ctx context.Context, factor float64) error {
	c, err := s.currentColor(ctx)
	if err != nil {
		return fmt.Errorf("scale brightness: %w", err)
	}
	return s.SetColor(ctx, c.Scale(factor))
}

// Effect reads the effect record.
func (s *Session) Effect(ctx context.Context) (protocol.Effect, error) {
	f, err := readRecord(ctx, s, protocol.CharEffect, "effect", protocol.DecodeEffect)
	s.report.Effect = f
	if err != nil {
		return protocol.Effect{}, err
	}
	e := f.Value
	s.effect = &e
	return e, nil
}

// SetEffect writes the effect record.
func (s *Session) SetEffect(ctx context.Context, e protocol.Effect) error {
	s.log.Info("Setting effect", zap.Stringer("effect", e))
	if err := s.conn.Write(ctx, protocol.CharEffect, protocol.EncodeEffect(e), false); err != nil {
		return fmt.Errorf("set effect: %w", err)
	}
	s.effect = &e
	s.report.Effect = Available(e)
	return nil
}

// SetPulse fades the given channels (0 or 1 each) in and out.
func (s *Session) SetPulse(ctx context.Context, channels protocol.Color, hold uint8) error {
	return s.SetEffect(ctx, protocol.PulseEffect(channels, hold))
}

// SetFlash blinks c.
func (s *Session) SetFlash(ctx context.Context, c protocol.Color, time, repetitions, pause uint8) error {
	return s.SetEffect(ctx, protocol.FlashEffect(c, time, repetitions, pause))
}

// SetRainbow cycles through the hues.
func (s *Session) SetRainbow(ctx context.Context, hold uint8) error {
	return s.SetEffect(ctx, protocol.RainbowEffect(hold))
}

// SetCandle flickers around c.
func (s *Session) SetCandle(ctx context.Context, c protocol.Color) error {
	return s.SetEffect(ctx, protocol.CandleEffect(c))
}

// SetDisco jumps between colors.
func (s *Session) SetDisco(ctx context.Context, hold uint8) error {
	return s.SetEffect(ctx, protocol.DiscoEffect(hold))
}

// SetHold changes the timing of the running effect. The effect is read
// first so its type and color are written back unchanged.
func (s *Session) SetHold(ctx context.Context, delay, repetitions, pause uint8) error {
	e, err := s.Effect(ctx)
	if err != nil {
		return fmt.Errorf("set hold: %w", err)
	}
	return s.SetEffect(ctx, e.WithTiming(delay, repetitions, pause))
}

// Halt stops the running effect and keeps the current light.
func (s *Session) Halt(ctx context.Context) error {
	c, err := s.Color(ctx)
	if err != nil {
		return fmt.Errorf("halt: %w", err)
	}
	return s.SetEffect(ctx, protocol.OffEffect(c))
}
