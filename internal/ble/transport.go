package ble

import (
	"context"

	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/protocol"
)

// Advertisement is one device seen during a scan.
type Advertisement struct {
	Address identity.Address
	Name    string
	RSSI    int16
}

// Transport opens GATT connections to bulbs.
type Transport interface {
	// Connect opens a connection and discovers the bulb's characteristics.
	Connect(ctx context.Context, addr identity.Address) (Conn, error)

	// Scan reports advertisements until ctx is done. Each address is
	// reported once.
	Scan(ctx context.Context, found func(Advertisement)) error
}

// Conn is an open connection to one bulb. A Conn is used by a single
// goroutine.
type Conn interface {
	Address() identity.Address
	Read(ctx context.Context, char protocol.Characteristic) ([]byte, error)
	Write(ctx context.Context, char protocol.Characteristic, data []byte, withResponse bool) error
	Disconnect() error
}
