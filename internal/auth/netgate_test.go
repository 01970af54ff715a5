package auth

import "testing"

func TestNetworkGateExactMatch(t *testing.T) {
	gate := NewNetworkGate("203.0.113.7, 198.51.100.22")

	if !gate.IsAllowed("203.0.113.7") {
		t.Fatal("listed address denied")
	}
	if !gate.IsAllowed("198.51.100.22") {
		t.Fatal("second listed address denied")
	}
	if gate.IsAllowed("203.0.113.8") {
		t.Fatal("unlisted address allowed")
	}
	// Exact string match only, no prefix or CIDR semantics.
	if gate.IsAllowed("203.0.113.70") {
		t.Fatal("prefix-overlapping address allowed")
	}
}

func TestNetworkGateDeniesByDefault(t *testing.T) {
	empty := NewNetworkGate("")
	if empty.IsAllowed("203.0.113.7") {
		t.Fatal("empty allowlist allowed an address")
	}

	gate := NewNetworkGate("203.0.113.7")
	if gate.IsAllowed("") {
		t.Fatal("empty address allowed")
	}
}
