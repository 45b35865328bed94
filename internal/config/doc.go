// Package config provides user configuration management for mipow.
//
// This package manages a YAML-based configuration file that stores the alias
// registry (bulb addresses and the names the user calls them by), connection
// preferences and the optional MQTT report publisher. The file follows
// OS-specific conventions for its location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/mipow/config.yaml or $HOME/.config/mipow/config.yaml
//   - macOS: $HOME/.config/mipow/config.yaml
//   - Windows: %LOCALAPPDATA%\mipow\config.yaml
//
// # Legacy Aliases
//
// Earlier releases kept aliases in ~/.known_bulbs, one "MAC alias|alias" line
// per bulb. LoadRegistry merges that file in; its entries are never written
// to config.yaml unless edited.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetAliases(addr, []string{"Kitchen", "K1"})
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
//	addrs, unmatched := identity.ResolveAll(args, registry.Entries())
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
