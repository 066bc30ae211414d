// Package identity computes canonical token identities.
//
// A token's identity is the Merkle hash of a binary tree built from its bytes
// using two node kinds:
//
//	Hash(Ω)       = SHA256(0x00)
//	Hash(Δ(a, b)) = SHA256(0x01 || Hash(a) || Hash(b))
//
// Bits, bytes and strings are encoded as follows:
//
//	bit 0   -> Ω
//	bit 1   -> Δ(Ω, Ω)
//	byte    -> fold bits LSB first: acc = Δ(bit, acc), starting at Ω
//	string  -> fold bytes last to first: acc = Δ(byte, acc), starting at Ω
//
// The first byte of a string therefore wraps the outermost dyad. Δ is not
// commutative, so reordering or truncating input always changes the digest.
// Downstream systems store these digests; the construction is fixed.
//
// # Usage
//
//	id := identity.TokenDigestString("intelligence") // 64 hex chars
//	edge := identity.BondDigest("a", "b", "IMP")     // 16 hex chars
//	m := identity.ComputeMetrics([]byte("cat"), true)
package identity
