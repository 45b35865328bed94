package identity

import (
	"strings"
)

// Entry is one known bulb: its address and the free-text aliases the user
// gave it. Aliases keep the order they were written in.
type Entry struct {
	Address Address
	Aliases []string
}

// Matches reports whether token is a case-sensitive substring of the
// entry's address string or of any one of its aliases.
func (e Entry) Matches(token string) bool {
	if strings.Contains(e.Address.String(), token) {
		return true
	}
	for _, alias := range e.Aliases {
		if strings.Contains(alias, token) {
			return true
		}
	}
	return false
}

// SplitAliases splits the pipe-delimited source form ("Wohnzimmer|WZ")
// into trimmed, non-empty alias tokens.
func SplitAliases(s string) []string {
	var aliases []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			aliases = append(aliases, part)
		}
	}
	return aliases
}

// Resolve maps one user token to the addresses it selects.
//
// A token that parses as an address resolves to itself without consulting
// the registry. Any other token is matched against every entry; the result
// keeps registry order and never repeats an address. No match yields an
// empty slice, not an error.
func Resolve(token string, registry []Entry) []Address {
	if addr, err := ParseAddress(token); err == nil {
		return []Address{addr}
	}

	var out []Address
	seen := make(map[Address]bool)
	for _, entry := range registry {
		if seen[entry.Address] || !entry.Matches(token) {
			continue
		}
		seen[entry.Address] = true
		out = append(out, entry.Address)
	}
	return out
}

// ResolveAll resolves every token and returns the union in first-seen order.
// Tokens that matched nothing are returned separately so the caller can
// report them.
func ResolveAll(tokens []string, registry []Entry) (addresses []Address, unmatched []string) {
	seen := make(map[Address]bool)
	for _, token := range tokens {
		resolved := Resolve(token, registry)
		if len(resolved) == 0 {
			unmatched = append(unmatched, token)
			continue
		}
		for _, addr := range resolved {
			if seen[addr] {
				continue
			}
			seen[addr] = true
			addresses = append(addresses, addr)
		}
	}
	return addresses, unmatched
}
