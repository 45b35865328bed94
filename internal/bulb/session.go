package bulb

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/logging"
	"github.com/muurk/mipow/internal/protocol"
)

// Clock returns the host time. Timer and security writes carry it so the
// bulb resyncs its own clock.
type Clock func() time.Time

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(s *Session) { s.now = c }
}

// WithAliases copies the registry aliases of the bulb into its report.
func WithAliases(aliases []string) Option {
	return func(s *Session) { s.report.Aliases = aliases }
}

// Session drives one connected bulb. It is not safe for concurrent use;
// the queue engine gives every bulb its own goroutine and Session.
type Session struct {
	conn   ble.Conn
	now    Clock
	log    *zap.Logger
	report *DeviceReport

	// last known state, discarded with the session
	color  *protocol.Color
	effect *protocol.Effect
	lastOn *protocol.Color
}

// New starts a session on an open connection.
func New(conn ble.Conn, opts ...Option) *Session {
	s := &Session{
		conn:   conn,
		now:    time.Now,
		log:    logging.Device(conn.Address().String()),
		report: NewReport(conn.Address()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.report.Started = s.now()
	return s
}

// Address returns the bulb address.
func (s *Session) Address() identity.Address {
	return s.conn.Address()
}

// Report returns the live report. Use Snapshot to keep a copy.
func (s *Session) Report() *DeviceReport {
	return s.report
}

// Close disconnects and stamps the report.
func (s *Session) Close() error {
	s.report.Finished = s.now()
	return s.conn.Disconnect()
}

// readRecord reads and decodes one characteristic. Refused, missing and
// malformed records come back as an unavailable field and an
// *UnavailableError; transport failures are returned unchanged.
func readRecord[T any](ctx context.Context, s *Session, char protocol.Characteristic, field string, decode func([]byte) (T, error)) (*Field[T], error) {
	data, err := s.conn.Read(ctx, char)
	if err == nil {
		var v T
		v, err = decode(data)
		if err == nil {
			return Available(v), nil
		}
	}
	err = s.degrade(field, err)
	return Unavailable[T](err), err
}

func (s *Session) degrade(field string, err error) error {
	if ble.IsReadRefusal(err) || protocol.IsMalformed(err) {
		s.log.Warn("Read not possible, marking unavailable",
			zap.String("field", field),
			zap.Error(err),
		)
		return &UnavailableError{Field: field, Err: err}
	}
	return err
}

func decodeText(data []byte) (string, error) {
	return protocol.DecodeString(data), nil
}

// IsTransportFailure reports whether err means the link to the bulb is
// unusable, so the remaining commands for it should be skipped.
func IsTransportFailure(err error) bool {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var be *ble.Error
	if !errors.As(err, &be) {
		return false
	}
	switch be.Type {
	case ble.ErrTypePermissionDenied, ble.ErrTypeUnsupported:
		return false
	default:
		return true
	}
}
