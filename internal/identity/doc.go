// Package identity turns what the user typed into bulb addresses.
//
// A token is either a Bluetooth address ("AA:BB:CC:DD:AC:E6"), which selects
// exactly that bulb, or an alias pattern. Alias patterns are matched as plain
// case-sensitive substrings against the address and every alias of each
// registry entry, so "WZ" selects the bulb aliased "Wohnzimmer|WZ" and "AC:E6"
// selects every Playbulb in the registry.
//
// The resolver is pure: it works on an immutable []Entry snapshot and does no
// I/O, so loading the registry (see package config) stays separate.
package identity
