package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

const (
	tagOrigin byte = 0x00
	tagDyad   byte = 0x01
)

// Size is the length of a Digest in bytes.
const Size = sha256.Size

// Digest is a 32-byte Merkle hash.
type Digest [Size]byte

// String returns the lowercase hex encoding (64 characters).
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Hex is an alias of String.
func (d Digest) Hex() string {
	return d.String()
}

// ParseDigest decodes a 64-character hex string.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != 2*Size {
		return d, fmt.Errorf("identity: digest must be %d hex chars, got %d", 2*Size, len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("identity: invalid digest: %w", err)
	}
	return d, nil
}

var (
	origin  = sha256.Sum256([]byte{tagOrigin})
	bitOne  = Dyad(origin, origin)
	byteTab = buildByteTable()
)

// Origin returns Hash(Ω) = SHA256(0x00).
func Origin() Digest {
	return origin
}

// Dyad returns SHA256(0x01 || left || right). Dyad(a, b) != Dyad(b, a) unless a == b.
func Dyad(left, right Digest) Digest {
	var buf [1 + 2*Size]byte
	buf[0] = tagDyad
	copy(buf[1:], left[:])
	copy(buf[1+Size:], right[:])
	return sha256.Sum256(buf[:])
}

// EncodeBit maps 0 to Ω and any other value to Δ(Ω, Ω).
func EncodeBit(bit byte) Digest {
	if bit == 0 {
		return origin
	}
	return bitOne
}

// EncodeByte returns the byte tree hash for b. The result is served from a
// table computed once at init.
func EncodeByte(b byte) Digest {
	return byteTab[b]
}

func encodeByte(b byte) Digest {
	chain := origin
	for i := 0; i < 8; i++ {
		chain = Dyad(EncodeBit((b>>i)&1), chain)
	}
	return chain
}

func buildByteTable() *[256]Digest {
	var tab [256]Digest
	for i := range tab {
		tab[i] = encodeByte(byte(i))
	}
	return &tab
}

// EncodeString folds the bytes of s from last to first into a cons-list of
// byte trees terminated by Ω.
func EncodeString(s []byte) Digest {
	chain := origin
	for i := len(s) - 1; i >= 0; i-- {
		chain = Dyad(byteTab[s[i]], chain)
	}
	return chain
}

// TokenHash returns the canonical 32-byte identity of b.
func TokenHash(b []byte) Digest {
	return EncodeString(b)
}

// TokenDigest returns the canonical identity of b as 64 lowercase hex chars.
func TokenDigest(b []byte) string {
	return EncodeString(b).String()
}

// TokenDigestString is TokenDigest over the UTF-8 bytes of s.
func TokenDigestString(s string) string {
	return TokenDigest([]byte(s))
}

// Hash16 returns the first 16 bytes of the token identity (address/index use).
func Hash16(b []byte) [16]byte {
	d := TokenHash(b)
	var out [16]byte
	copy(out[:], d[:16])
	return out
}

// Hash16Hex returns Hash16 as 32 lowercase hex chars.
func Hash16Hex(b []byte) string {
	h := Hash16(b)
	return hex.EncodeToString(h[:])
}

// Hash8 returns the first 8 bytes of the token identity as a little-endian uint64.
func Hash8(b []byte) uint64 {
	d := TokenHash(b)
	return binary.LittleEndian.Uint64(d[:8])
}

// NeuronDigest is the identity of the canonical neuron name "L{layer}.{component}.N{idx}".
func NeuronDigest(layer int, component string, idx int) string {
	name := make([]byte, 0, len(component)+24)
	name = append(name, 'L')
	name = strconv.AppendInt(name, int64(layer), 10)
	name = append(name, '.')
	name = append(name, component...)
	name = append(name, ".N"...)
	name = strconv.AppendInt(name, int64(idx), 10)
	return TokenDigest(name)
}

// BondDigest identifies the directed relationship u -rel-> v as the first
// 8 bytes (16 hex chars) of SHA256("u:rel:v"). Swapping u and v changes it.
func BondDigest(u, v, rel string) string {
	raw := make([]byte, 0, len(u)+len(rel)+len(v)+2)
	raw = append(raw, u...)
	raw = append(raw, ':')
	raw = append(raw, rel...)
	raw = append(raw, ':')
	raw = append(raw, v...)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
