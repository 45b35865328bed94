// Package bletest provides an in-memory ble.Transport with emulated bulbs.
// Every operation is recorded on a virtual clock so tests can assert order
// and timing without a radio.
package bletest

import (
	"context"
	"sync"
	"time"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/protocol"
)

// OpKind names a recorded operation.
type OpKind string

// Recorded operations
const (
	OpConnect    OpKind = "connect"
	OpRead       OpKind = "read"
	OpWrite      OpKind = "write"
	OpDisconnect OpKind = "disconnect"
	OpSleep      OpKind = "sleep"
)

// Op is one recorded operation.
type Op struct {
	Kind         OpKind
	Address      identity.Address // zero for OpSleep
	Char         protocol.Characteristic
	Data         []byte
	WithResponse bool
	Duration     time.Duration // OpSleep only
	Err          error
	At           time.Time
}

// Transport is a fake ble.Transport.
type Transport struct {
	mu    sync.Mutex
	now   time.Time
	bulbs map[identity.Address]*Bulb
	ops   []Op

	connectErr   map[identity.Address]error
	connectFails map[identity.Address]int
}

// Epoch is the virtual clock start, 2024-05-01 07:00 local time.
var Epoch = time.Date(2024, 5, 1, 7, 0, 0, 0, time.Local)

// New returns an empty fake transport.
func New() *Transport {
	return &Transport{
		now:          Epoch,
		bulbs:        make(map[identity.Address]*Bulb),
		connectErr:   make(map[identity.Address]error),
		connectFails: make(map[identity.Address]int),
	}
}

// AddBulb registers an emulated bulb with factory defaults.
func (t *Transport) AddBulb(addr identity.Address) *Bulb {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := newBulb(addr)
	t.bulbs[addr] = b
	return b
}

// Bulb returns the emulated bulb at addr, or nil.
func (t *Transport) Bulb(addr identity.Address) *Bulb {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bulbs[addr]
}

// FailConnect makes the next times connects to addr fail with err. A
// negative times fails every connect.
func (t *Transport) FailConnect(addr identity.Address, err error, times int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connectErr[addr] = err
	t.connectFails[addr] = times
}

// Now returns the virtual clock.
func (t *Transport) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

// Sleep advances the virtual clock by d and records it.
func (t *Transport) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = append(t.ops, Op{Kind: OpSleep, Duration: d, At: t.now})
	t.now = t.now.Add(d)
	return nil
}

// Ops returns every recorded operation in order.
func (t *Transport) Ops() []Op {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Op(nil), t.ops...)
}

// OpsFor returns the operations on one bulb.
func (t *Transport) OpsFor(addr identity.Address) []Op {
	var out []Op
	for _, op := range t.Ops() {
		if op.Address == addr {
			out = append(out, op)
		}
	}
	return out
}

// Writes returns the successful writes to one bulb.
func (t *Transport) Writes(addr identity.Address) []Op {
	var out []Op
	for _, op := range t.OpsFor(addr) {
		if op.Kind == OpWrite && op.Err == nil {
			out = append(out, op)
		}
	}
	return out
}

func (t *Transport) record(op Op) {
	op.At = t.now
	t.ops = append(t.ops, op)
}

// Connect implements ble.Transport.
func (t *Transport) Connect(ctx context.Context, addr identity.Address) (ble.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, ble.Classify("connect", addr, 0, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if n := t.connectFails[addr]; n != 0 {
		err = t.connectErr[addr]
		if n > 0 {
			t.connectFails[addr] = n - 1
		}
	}
	bulb, ok := t.bulbs[addr]
	if err == nil && !ok {
		err = &ble.Error{Type: ble.ErrTypeNotFound, Op: "connect", Address: addr, Retryable: true}
	}

	t.record(Op{Kind: OpConnect, Address: addr, Err: err})
	if err != nil {
		return nil, err
	}
	return &conn{t: t, bulb: bulb}, nil
}

// Scan implements ble.Transport. It reports every registered bulb once,
// then returns.
func (t *Transport) Scan(ctx context.Context, found func(ble.Advertisement)) error {
	t.mu.Lock()
	ads := make([]ble.Advertisement, 0, len(t.bulbs))
	for _, b := range t.bulbs {
		ads = append(ads, ble.Advertisement{Address: b.Address, Name: b.Name, RSSI: -60})
	}
	t.mu.Unlock()

	for _, ad := range ads {
		if err := ctx.Err(); err != nil {
			return err
		}
		found(ad)
	}
	return nil
}

type conn struct {
	t      *Transport
	bulb   *Bulb
	closed bool
}

func (c *conn) Address() identity.Address {
	return c.bulb.Address
}

func (c *conn) notConnected(op string, char protocol.Characteristic) error {
	return &ble.Error{Type: ble.ErrTypeNotConnected, Op: op, Address: c.bulb.Address, Characteristic: char}
}

func (c *conn) Read(ctx context.Context, char protocol.Characteristic) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, ble.Classify("read", c.bulb.Address, char, err)
	}
	c.t.mu.Lock()
	defer c.t.mu.Unlock()

	if c.closed {
		return nil, c.notConnected("read", char)
	}
	data, err := c.bulb.read(char)
	c.t.record(Op{Kind: OpRead, Address: c.bulb.Address, Char: char, Data: data, Err: err})
	return data, err
}

func (c *conn) Write(ctx context.Context, char protocol.Characteristic, data []byte, withResponse bool) error {
	if err := ctx.Err(); err != nil {
		return ble.Classify("write", c.bulb.Address, char, err)
	}
	c.t.mu.Lock()
	defer c.t.mu.Unlock()

	if c.closed {
		return c.notConnected("write", char)
	}
	err := c.bulb.write(char, data)
	c.t.record(Op{
		Kind:         OpWrite,
		Address:      c.bulb.Address,
		Char:         char,
		Data:         append([]byte(nil), data...),
		WithResponse: withResponse,
		Err:          err,
	})
	return err
}

func (c *conn) Disconnect() error {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.t.record(Op{Kind: OpDisconnect, Address: c.bulb.Address})
	return nil
}
