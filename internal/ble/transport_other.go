//go:build !linux

package ble

import (
	"context"

	"github.com/muurk/mipow/internal/identity"
)

type unsupported struct{}

// NewTransport returns a transport that fails every call; only the BlueZ
// backend addresses bulbs by MAC address.
func NewTransport() Transport {
	return unsupported{}
}

func (unsupported) Connect(_ context.Context, addr identity.Address) (Conn, error) {
	return nil, Classify("connect", addr, 0, ErrNotSupportedPlatform)
}

func (unsupported) Scan(context.Context, func(Advertisement)) error {
	return Classify("scan", identity.Address{}, 0, ErrNotSupportedPlatform)
}
