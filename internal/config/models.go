package config

import (
	"sort"
	"time"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/identity"
)

const (
	currentVersion = 1

	defaultScanTimeout    = 10 // seconds
	defaultConnectTimeout = 10 // seconds
	defaultConnectRetries = ble.DefaultMaxRetries
	defaultParallel       = 1

	// MaxParallel is the most bulbs connected at the same time.
	MaxParallel = 8
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int          `yaml:"version"`
	Bulbs       []*Bulb      `yaml:"bulbs,omitempty"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
	MQTT        *MQTT        `yaml:"mqtt,omitempty"`
}

// Bulb represents user-defined metadata for a single Playbulb.
type Bulb struct {
	Address  string    `yaml:"address"`             // AA:BB:CC:DD:AC:E6
	Aliases  []string  `yaml:"aliases,omitempty"`   // Free-text names matched by substring
	Name     string    `yaml:"name,omitempty"`      // Last advertised name
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last scan or connection time

	// Legacy is set for entries merged from ~/.known_bulbs. They are never
	// written back to the YAML file.
	Legacy bool `yaml:"-"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	ScanTimeout    int `yaml:"scan_timeout"`    // BLE scan duration in seconds
	ConnectTimeout int `yaml:"connect_timeout"` // Per-attempt connect timeout in seconds
	ConnectRetries int `yaml:"connect_retries"` // Extra connect attempts per bulb
	Parallel       int `yaml:"parallel"`        // Bulbs driven at the same time (1-8)
}

// MQTT configures the report publisher.
// Note: the password is NEVER stored in the config file; it is read from
// MIPOW_MQTT_PASSWORD.
type MQTT struct {
	Broker      string `yaml:"broker"`                 // tcp://host:1883
	ClientID    string `yaml:"client_id,omitempty"`    // Defaults to mipow-<hostname>
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // Defaults to "mipow"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"-"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

func defaultPreferences() *Preferences {
	return &Preferences{
		ScanTimeout:    defaultScanTimeout,
		ConnectTimeout: defaultConnectTimeout,
		ConnectRetries: defaultConnectRetries,
		Parallel:       defaultParallel,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     currentVersion,
		Preferences: defaultPreferences(),
	}
}

// GetBulb retrieves bulb metadata by address.
// Returns nil if the bulb doesn't exist in the registry.
func (r *Registry) GetBulb(addr identity.Address) *Bulb {
	for _, b := range r.Bulbs {
		if parsed, err := identity.ParseAddress(b.Address); err == nil && parsed == addr {
			return b
		}
	}
	return nil
}

// EnsureBulb ensures a bulb entry exists in the registry and returns it.
// A legacy entry is promoted to a stored one.
func (r *Registry) EnsureBulb(addr identity.Address) *Bulb {
	if b := r.GetBulb(addr); b != nil {
		b.Legacy = false
		return b
	}
	b := &Bulb{Address: addr.String()}
	r.Bulbs = append(r.Bulbs, b)
	return b
}

// SetAliases replaces the aliases of a bulb.
func (r *Registry) SetAliases(addr identity.Address, aliases []string) {
	r.EnsureBulb(addr).Aliases = aliases
}

// RemoveBulb drops a bulb. It reports whether the bulb was known.
func (r *Registry) RemoveBulb(addr identity.Address) bool {
	for i, b := range r.Bulbs {
		if parsed, err := identity.ParseAddress(b.Address); err == nil && parsed == addr {
			r.Bulbs = append(r.Bulbs[:i], r.Bulbs[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateBulbLastSeen records an advertisement of a bulb the registry
// already knows. Unknown bulbs are not added.
func (r *Registry) UpdateBulbLastSeen(addr identity.Address, name string, at time.Time) {
	b := r.GetBulb(addr)
	if b == nil {
		return
	}
	b.LastSeen = at
	if name != "" {
		b.Name = name
	}
}

// MergeLegacy adds legacy entries for addresses not already configured.
func (r *Registry) MergeLegacy(entries []identity.Entry) {
	for _, e := range entries {
		if r.GetBulb(e.Address) != nil {
			continue
		}
		r.Bulbs = append(r.Bulbs, &Bulb{
			Address: e.Address.String(),
			Aliases: e.Aliases,
			Legacy:  true,
		})
	}
}

// Entries returns the alias registry in file order. Bulbs with an
// unparseable address are skipped.
func (r *Registry) Entries() []identity.Entry {
	entries := make([]identity.Entry, 0, len(r.Bulbs))
	for _, b := range r.Bulbs {
		addr, err := identity.ParseAddress(b.Address)
		if err != nil {
			continue
		}
		entries = append(entries, identity.Entry{Address: addr, Aliases: b.Aliases})
	}
	return entries
}

// SortedBulbs returns the bulbs ordered by address for listing.
func (r *Registry) SortedBulbs() []*Bulb {
	out := append([]*Bulb(nil), r.Bulbs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// RetryPolicy returns the connection retry policy from the preferences.
func (r *Registry) RetryPolicy() ble.RetryPolicy {
	p := ble.DefaultRetryPolicy()
	if r.Preferences == nil {
		return p
	}
	if r.Preferences.ConnectTimeout > 0 {
		p.ConnectTimeout = time.Duration(r.Preferences.ConnectTimeout) * time.Second
	}
	if r.Preferences.ConnectRetries >= 0 {
		p.MaxRetries = r.Preferences.ConnectRetries
	}
	return p
}

// ScanTimeout returns how long a scan runs.
func (r *Registry) ScanTimeout() time.Duration {
	if r.Preferences == nil || r.Preferences.ScanTimeout <= 0 {
		return defaultScanTimeout * time.Second
	}
	return time.Duration(r.Preferences.ScanTimeout) * time.Second
}

// Parallel returns the number of bulbs driven at the same time, clamped to
// 1..MaxParallel.
func (r *Registry) Parallel() int {
	if r.Preferences == nil || r.Preferences.Parallel < 1 {
		return defaultParallel
	}
	if r.Preferences.Parallel > MaxParallel {
		return MaxParallel
	}
	return r.Preferences.Parallel
}
