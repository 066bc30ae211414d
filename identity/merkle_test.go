package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveEncode builds the tree without the byte table.
func naiveEncode(s []byte) Digest {
	omega := sha256.Sum256([]byte{0})
	dyad := func(l, r Digest) Digest {
		buf := append([]byte{1}, l[:]...)
		buf = append(buf, r[:]...)
		return sha256.Sum256(buf)
	}
	bit := func(b byte) Digest {
		if b == 0 {
			return omega
		}
		return dyad(omega, omega)
	}
	chain := Digest(omega)
	for i := len(s) - 1; i >= 0; i-- {
		acc := Digest(omega)
		for k := 0; k < 8; k++ {
			acc = dyad(bit((s[i]>>k)&1), acc)
		}
		chain = dyad(acc, chain)
	}
	return chain
}

func TestOrigin(t *testing.T) {
	want := sha256.Sum256([]byte{0x00})
	assert.Equal(t, Digest(want), Origin())
	assert.Equal(t, Origin(), EncodeBit(0))
	assert.Equal(t, Dyad(Origin(), Origin()), EncodeBit(1))
}

func TestDyadIsOrdered(t *testing.T) {
	a := Origin()
	b := EncodeBit(1)
	assert.NotEqual(t, Dyad(a, b), Dyad(b, a))
	assert.Equal(t, Dyad(a, b), Dyad(a, b))
}

func TestByteTableMatchesFold(t *testing.T) {
	for i := 0; i < 256; i++ {
		assert.Equal(t, encodeByte(byte(i)), EncodeByte(byte(i)), "byte %d", i)
	}
	assert.NotEqual(t, EncodeByte(0), EncodeByte(1))
	// A zero byte is eight Ω dyads chained onto Ω, not Ω itself.
	assert.NotEqual(t, Origin(), EncodeByte(0))
}

func TestTokenDigestMatchesNaive(t *testing.T) {
	inputs := []string{"", "a", "cat", "dog", "intelligence", "héllo wörld", "\x00\xff\x10"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, naiveEncode([]byte(in)).String(), TokenDigestString(in))
		})
	}
}

// Fixed values shared with other kernel implementations. Any change here
// breaks stored identities.
func TestTokenDigestGolden(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "6e340b9cffb37a989ca544e6bb780a2c78901d3fb33738768511a30617afa01d"},
		{"a", "174da782660acc5b57d55f9701cb24fc61c3ebec92258ee51c7408f13be1a7de"},
		{"cat", "65c6195c11392d7928f3c7360ede46015e628ecf1f2d28b233c09492e349abb6"},
		{"intelligence", "f81ca00946d52a4dda4bb795aabb39d7141abe4eafa8939a508b5e5940f42526"},
		{"héllo wörld", "39ed9949f61c05682b038a33c80716fe2a0813c53e9ad5e2a8f8a21bcb172f1f"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenDigestString(tt.in))
		})
	}
}

func TestBondDigestGolden(t *testing.T) {
	assert.Equal(t, "5326b75c7dca275c", BondDigest("a", "b", "IMP"))
	assert.Equal(t, "ae7c49484f6a6c7d", BondDigest("cat", "animal", "IS_A"))
}

func TestTokenDigestProperties(t *testing.T) {
	t.Run("empty is origin", func(t *testing.T) {
		assert.Equal(t, Origin().String(), TokenDigestString(""))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, TokenDigestString("intelligence"), TokenDigestString("intelligence"))
	})

	t.Run("hex format", func(t *testing.T) {
		d := TokenDigestString("cat")
		assert.Len(t, d, 64)
		_, err := hex.DecodeString(d)
		require.NoError(t, err)
		assert.Regexp(t, "^[0-9a-f]{64}$", d)
	})

	t.Run("distinct tokens", func(t *testing.T) {
		assert.NotEqual(t, TokenDigestString("cat"), TokenDigestString("dog"))
		assert.NotEqual(t, TokenDigestString("ab"), TokenDigestString("ba"))
		assert.NotEqual(t, TokenDigestString("a"), TokenDigestString("a\x00"))
	})

	t.Run("single byte structure", func(t *testing.T) {
		want := Dyad(EncodeByte('a'), Origin())
		assert.Equal(t, want, TokenHash([]byte("a")))
	})
}

func TestParseDigest(t *testing.T) {
	d := TokenHash([]byte("round trip"))
	got, err := ParseDigest(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = ParseDigest("abc")
	assert.Error(t, err)

	_, err = ParseDigest(string(make([]byte, 64)))
	assert.Error(t, err)
}

func TestProjections(t *testing.T) {
	b := []byte("token")
	d := TokenHash(b)

	h16 := Hash16(b)
	assert.Equal(t, d[:16], h16[:])
	assert.Equal(t, d.String()[:32], Hash16Hex(b))
	assert.Equal(t, binary.LittleEndian.Uint64(d[:8]), Hash8(b))
}

func TestNeuronDigest(t *testing.T) {
	assert.Equal(t, TokenDigestString("L3.mlp.N42"), NeuronDigest(3, "mlp", 42))
	assert.NotEqual(t, NeuronDigest(3, "mlp", 42), NeuronDigest(3, "mlp", 43))
	assert.Equal(t, TokenDigestString("L-1.attn.N0"), NeuronDigest(-1, "attn", 0))
}

func TestBondDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("a:IMP:b"))
	assert.Equal(t, hex.EncodeToString(sum[:8]), BondDigest("a", "b", "IMP"))

	assert.Len(t, BondDigest("a", "b", "IMP"), 16)
	assert.NotEqual(t, BondDigest("a", "b", "IMP"), BondDigest("b", "a", "IMP"))
	assert.NotEqual(t, BondDigest("a", "b", "IMP"), BondDigest("a", "b", "EQ"))

	// Empty parts are hashed as-is.
	empty := sha256.Sum256([]byte("::"))
	assert.Equal(t, hex.EncodeToString(empty[:8]), BondDigest("", "", ""))
}

func BenchmarkTokenDigest(b *testing.B) {
	in := []byte("intelligence")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = TokenHash(in)
	}
}
