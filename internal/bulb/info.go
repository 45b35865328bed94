package bulb

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/protocol"
)

// Name reads the user-assigned name.
func (s *Session) Name(ctx context.Context) (string, error) {
	f, err := readRecord(ctx, s, protocol.CharName, "name", decodeText)
	s.report.Name = f
	return f.Value, err
}

// SetName writes a name of 1 to 14 bytes.
func (s *Session) SetName(ctx context.Context, name string) error {
	data, err := protocol.EncodeName(name)
	if err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	s.log.Info("Setting name", zap.String("name", name))
	if err := s.conn.Write(ctx, protocol.CharName, data, true); err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	s.report.Name = Available(name)
	return nil
}

// PIN reads the pairing PIN.
func (s *Session) PIN(ctx context.Context) (string, error) {
	f, err := readRecord(ctx, s, protocol.CharPIN, "pin", decodeText)
	s.report.PIN = f
	return f.Value, err
}

// SetPIN writes a 4-digit PIN.
func (s *Session) SetPIN(ctx context.Context, pin string) error {
	data, err := protocol.EncodePIN(pin)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	s.log.Info("Setting PIN")
	if err := s.conn.Write(ctx, protocol.CharPIN, data, true); err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	s.report.PIN = Available(pin)
	return nil
}

// Battery reads the charge level in percent.
func (s *Session) Battery(ctx context.Context) (int, error) {
	f, err := readRecord(ctx, s, protocol.CharBatteryLevel, "battery", protocol.DecodeBattery)
	s.report.Battery = f
	return f.Value, err
}

// DeviceInfo reads the name, PIN, battery and the device information
// strings. Fields the model does not offer are left unavailable; only a
// transport failure stops the sequence.
func (s *Session) DeviceInfo(ctx context.Context) error {
	texts := []struct {
		char  protocol.Characteristic
		field string
		dst   **Field[string]
	}{
		{protocol.CharName, "name", &s.report.Name},
		{protocol.CharPIN, "pin", &s.report.PIN},
		{protocol.CharManufacturerName, "manufacturer", &s.report.Manufacturer},
		{protocol.CharSerialNumber, "serial", &s.report.Serial},
		{protocol.CharHardwareRevision, "hardware", &s.report.Hardware},
		{protocol.CharSoftwareRevision, "software", &s.report.Software},
		{protocol.CharFirmwareRevision, "firmware", &s.report.Firmware},
	}
	for _, t := range texts {
		f, err := readRecord(ctx, s, t.char, t.field, decodeText)
		*t.dst = f
		if IsTransportFailure(err) {
			return fmt.Errorf("read %s: %w", t.field, err)
		}
	}

	if _, err := s.Battery(ctx); IsTransportFailure(err) {
		return fmt.Errorf("read battery: %w", err)
	}

	f, err := readRecord(ctx, s, protocol.CharPnPID, "pnp id", protocol.DecodePnPID)
	s.report.PnPID = f
	if IsTransportFailure(err) {
		return fmt.Errorf("read pnp id: %w", err)
	}
	return nil
}

// Status reads color, effect, timers and security.
func (s *Session) Status(ctx context.Context) error {
	if _, err := s.Color(ctx); IsTransportFailure(err) {
		return err
	}
	if _, err := s.Effect(ctx); IsTransportFailure(err) {
		return err
	}
	if _, err := s.Timers(ctx); IsTransportFailure(err) {
		return err
	}
	if _, err := s.Security(ctx); IsTransportFailure(err) {
		return err
	}
	return nil
}

// FullState reads everything the bulb reports.
func (s *Session) FullState(ctx context.Context) error {
	if err := s.DeviceInfo(ctx); err != nil {
		return err
	}
	return s.Status(ctx)
}

// FactoryReset restores factory settings. The session forgets what it
// knew about the bulb.
func (s *Session) FactoryReset(ctx context.Context) error {
	s.log.Warn("Factory reset")
	if err := s.conn.Write(ctx, protocol.CharFactoryReset, protocol.EncodeFactoryReset(), true); err != nil {
		return fmt.Errorf("factory reset: %w", err)
	}
	s.color, s.effect, s.lastOn = nil, nil, nil
	return nil
}
