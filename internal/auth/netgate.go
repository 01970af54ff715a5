package auth

import "strings"

// NetworkGate tests caller addresses against the office-network allowlist.
// The list is parsed once at construction and never mutated afterwards.
type NetworkGate struct {
	allowed map[string]struct{}
}

// NewNetworkGate parses a comma-separated allowlist of exact addresses.
// An empty or unconfigured list denies everything.
func NewNetworkGate(allowlist string) *NetworkGate {
	g := &NetworkGate{allowed: make(map[string]struct{})}
	for _, addr := range strings.Split(allowlist, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			g.allowed[addr] = struct{}{}
		}
	}
	return g
}

// IsAllowed reports whether the address exact-matches an allowlist entry.
// No CIDR or range matching: the office egress addresses are a fixed set.
func (g *NetworkGate) IsAllowed(address string) bool {
	if address == "" || len(g.allowed) == 0 {
		return false
	}
	_, ok := g.allowed[address]
	return ok
}
