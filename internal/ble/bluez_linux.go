//go:build linux

package ble

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/logging"
	"github.com/muurk/mipow/internal/protocol"
)

// readBufferSize covers the largest Playbulb record with room for
// undocumented firmware variants.
const readBufferSize = 64

// BlueZ is the Linux transport on top of the BlueZ D-Bus API.
type BlueZ struct {
	adapter *bluetooth.Adapter

	// LookupTimeout bounds the scan used to make BlueZ aware of a bulb it
	// has not seen yet.
	LookupTimeout time.Duration

	enableOnce sync.Once
	enableErr  error

	// BlueZ allows one discovery session per adapter
	scanMu sync.Mutex
}

// NewTransport returns the BlueZ transport on the default adapter.
func NewTransport() Transport {
	return &BlueZ{
		adapter:       bluetooth.DefaultAdapter,
		LookupTimeout: 10 * time.Second,
	}
}

func (b *BlueZ) enable() error {
	b.enableOnce.Do(func() {
		if err := b.adapter.Enable(); err != nil {
			b.enableErr = &Error{Type: ErrTypeAdapter, Op: "enable", Err: err}
		}
	})
	return b.enableErr
}

// Connect implements Transport.
func (b *BlueZ) Connect(ctx context.Context, addr identity.Address) (Conn, error) {
	if err := b.enable(); err != nil {
		return nil, err
	}

	mac, err := bluetooth.ParseMAC(addr.String())
	if err != nil {
		return nil, fmt.Errorf("convert address %s: %w", addr, err)
	}
	target := bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}

	device, err := b.connectDevice(ctx, target)
	if err != nil && IsNotFound(Classify("connect", addr, 0, err)) {
		// BlueZ only connects to devices it has seen advertising
		logging.Debug("Bulb unknown to BlueZ, scanning for it", zap.String("address", addr.String()))
		if lookupErr := b.lookup(ctx, addr); lookupErr != nil {
			return nil, Classify("connect", addr, 0, lookupErr)
		}
		device, err = b.connectDevice(ctx, target)
	}
	if err != nil {
		return nil, Classify("connect", addr, 0, err)
	}

	chars, err := discover(ctx, device)
	if err != nil {
		_ = device.Disconnect()
		return nil, Classify("discover", addr, 0, err)
	}

	logging.Debug("Discovered characteristics",
		zap.String("address", addr.String()),
		zap.Int("count", len(chars)),
	)
	return &bluezConn{addr: addr, device: device, chars: chars}, nil
}

func (b *BlueZ) connectDevice(ctx context.Context, target bluetooth.Address) (bluetooth.Device, error) {
	type result struct {
		device bluetooth.Device
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		d, err := b.adapter.Connect(target, bluetooth.ConnectionParams{})
		ch <- result{d, err}
	}()

	select {
	case r := <-ch:
		return r.device, r.err
	case <-ctx.Done():
		// Drop a connection that completes after we gave up on it
		go func() {
			if r := <-ch; r.err == nil {
				_ = r.device.Disconnect()
			}
		}()
		return bluetooth.Device{}, ctx.Err()
	}
}

func (b *BlueZ) lookup(ctx context.Context, addr identity.Address) error {
	ctx, cancel := context.WithTimeout(ctx, b.LookupTimeout)
	defer cancel()

	var seen atomic.Bool
	err := b.Scan(ctx, func(ad Advertisement) {
		if ad.Address == addr {
			seen.Store(true)
			cancel()
		}
	})
	if seen.Load() {
		return nil
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("device %s does not exist", addr)
}

// Scan implements Transport.
func (b *BlueZ) Scan(ctx context.Context, found func(Advertisement)) error {
	if err := b.enable(); err != nil {
		return err
	}

	b.scanMu.Lock()
	defer b.scanMu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = b.adapter.StopScan()
		case <-done:
		}
	}()

	reported := make(map[identity.Address]bool)
	err := b.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		addr, err := identity.ParseAddress(result.Address.String())
		if err != nil || reported[addr] {
			return
		}
		reported[addr] = true
		found(Advertisement{Address: addr, Name: result.LocalName(), RSSI: result.RSSI})
	})
	if err != nil {
		return Classify("scan", identity.Address{}, 0, err)
	}
	return ctx.Err()
}

func discover(ctx context.Context, device bluetooth.Device) (map[protocol.Characteristic]bluetooth.DeviceCharacteristic, error) {
	return blocking(ctx, func() (map[protocol.Characteristic]bluetooth.DeviceCharacteristic, error) {
		services, err := device.DiscoverServices(nil)
		if err != nil {
			return nil, err
		}

		chars := make(map[protocol.Characteristic]bluetooth.DeviceCharacteristic)
		for _, svc := range services {
			found, err := svc.DiscoverCharacteristics(nil)
			if err != nil {
				return nil, err
			}
			for _, c := range found {
				short, err := protocol.ParseCharacteristic(c.UUID().String())
				if err != nil {
					continue // vendor 128-bit UUIDs are not used by the bulb protocol
				}
				chars[short] = c
			}
		}
		return chars, nil
	})
}

// blocking runs fn, which cannot be cancelled, and stops waiting when ctx
// is done.
func blocking[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

type bluezConn struct {
	addr   identity.Address
	device bluetooth.Device
	chars  map[protocol.Characteristic]bluetooth.DeviceCharacteristic
}

func (c *bluezConn) Address() identity.Address {
	return c.addr
}

func (c *bluezConn) characteristic(op string, char protocol.Characteristic) (bluetooth.DeviceCharacteristic, error) {
	dc, ok := c.chars[char]
	if !ok {
		return dc, &Error{Type: ErrTypeUnsupported, Op: op, Address: c.addr, Characteristic: char, Err: ErrCharacteristicMissing}
	}
	return dc, nil
}

func (c *bluezConn) Read(ctx context.Context, char protocol.Characteristic) ([]byte, error) {
	dc, err := c.characteristic("read", char)
	if err != nil {
		return nil, err
	}

	data, err := blocking(ctx, func() ([]byte, error) {
		buf := make([]byte, readBufferSize)
		n, err := dc.Read(buf)
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	})
	if err != nil {
		return nil, Classify("read", c.addr, char, err)
	}

	logging.LogGATT(c.addr.String(), "read", char.Name(), data)
	return data, nil
}

func (c *bluezConn) Write(ctx context.Context, char protocol.Characteristic, data []byte, withResponse bool) error {
	dc, err := c.characteristic("write", char)
	if err != nil {
		return err
	}

	logging.LogGATT(c.addr.String(), "write", char.Name(), data)
	// The BlueZ backend has a single WriteValue call without a "type"
	// option. BlueZ then sends a write request when the characteristic
	// has the write property and the call returns after the response, so
	// withResponse needs no separate path here.
	_, err = blocking(ctx, func() (int, error) {
		return dc.WriteWithoutResponse(data)
	})
	if err != nil {
		return Classify("write", c.addr, char, err)
	}
	return nil
}

func (c *bluezConn) Disconnect() error {
	logging.LogConnection(c.addr.String(), "disconnected")
	if err := c.device.Disconnect(); err != nil {
		return Classify("disconnect", c.addr, 0, err)
	}
	return nil
}
