// Package primitive implements the bare cryptographic building blocks used
// by the AKA exchange: the MAC and anonymity-key functions, the X9.63 key
// derivation function, and a handful of byte-string helpers. Every function
// here is total on well-shaped inputs. XOR truncates to the shorter operand;
// the fixed-width helpers (XORWide, SequenceNumberFromBytes) report a length
// mismatch as a ShapeError rather than truncating.
package primitive

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// ShapeError reports a length mismatch between inputs that are required to
// line up, e.g. two operands to a fixed-width XOR.
type ShapeError struct {
	Op       string
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("primitive: %s: expected length %d, got %d", e.Op, e.Expected, e.Got)
}

// Random returns n bytes read from a cryptographically secure source.
func Random(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("primitive: could not read entropy: " + err.Error())
	}
	return b
}

// F1 is the MAC function f1(K, SQN, R) = SHA3-256(K || SQN || R). sqnLE is
// the sequence number already serialized little-endian at its fixed width.
func F1(k, sqnLE, r []byte) []byte {
	h := sha3.New256()
	h.Write(k)
	h.Write(sqnLE)
	h.Write(r)
	return h.Sum(nil)
}

// F1Star is f1*, identical in construction to F1 but used for the
// resynchronization MAC so call sites stay self-documenting.
func F1Star(k, sqnLE, r []byte) []byte {
	return F1(k, sqnLE, r)
}

// F5 is the anonymity-key function f5(K, R) = SHAKE-256(K || R), truncated
// to 32 bytes.
func F5(k, r []byte) []byte {
	x := sha3.NewShake256()
	x.Write(k)
	x.Write(r)
	out := make([]byte, 32)
	if _, err := x.Read(out); err != nil {
		panic("primitive: shake256 read failed: " + err.Error())
	}
	return out
}

// F5Star is f5*, identical in construction to F5.
func F5Star(k, r []byte) []byte {
	return F5(k, r)
}

// XOR is the bytewise XOR of two equal-length byte strings. If the inputs
// differ in length the result is truncated to the shorter.
func XOR(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// XORWide XORs a fixed-width little-endian integer (wide) against a shorter
// byte string (narrow), zero-extending narrow up to len(wide) before XORing
// so that the width of wide (e.g. a 256-byte SQN) is preserved in the
// result. This is the form used when folding a 32-byte anonymity key into a
// 256-byte sequence number, per the AKA CONC/AUTS construction: the SQN
// field must never be truncated.
func XORWide(wide, narrow []byte) ([]byte, error) {
	if len(narrow) > len(wide) {
		return nil, &ShapeError{Op: "XORWide", Expected: len(wide), Got: len(narrow)}
	}
	out := make([]byte, len(wide))
	copy(out, wide)
	for i := range narrow {
		out[i] ^= narrow[i]
	}
	return out, nil
}

// x963KDF implements ANSI X9.63 key derivation: repeated hashing of
// Z || BE32(counter) || sharedInfo, concatenated and truncated to length.
func x963KDF(newHash func() hash.Hash, z, sharedInfo []byte, length int) []byte {
	h := newHash()
	out := make([]byte, 0, length+h.Size())
	var counter uint32 = 1
	for len(out) < length {
		h.Reset()
		h.Write(z)
		var cb [4]byte
		binary.BigEndian.PutUint32(cb[:], counter)
		h.Write(cb[:])
		h.Write(sharedInfo)
		out = h.Sum(out)
		counter++
	}
	return out[:length]
}

// KDF derives 32 bytes via X9.63-KDF over SHA-256, using info as the input
// keying material and K XOR R as the (public) shared info, per the AKA
// response/session-key derivation.
func KDF(k, r, info []byte) []byte {
	shared := XOR(k, r)
	return x963KDF(sha256.New, info, shared, 32)
}

// KeySeed derives K_SEAF, folding SQN into the shared info alongside K and
// R: shared_info = SQN_LE XOR K XOR R.
func KeySeed(k, r, sqnLE []byte, info []byte) []byte {
	shared := XOR(sqnLE, XOR(k, r))
	return x963KDF(sha256.New, info, shared, 32)
}

// Challenge computes RES*/XRES* = KDF(K, R, sname).
func Challenge(k, r []byte, sname string) []byte {
	return KDF(k, r, []byte(sname))
}

// SHA256Pair computes HXRES* = SHA-256(R || RES*).
func SHA256Pair(r, resStar []byte) []byte {
	h := sha256.Sum256(append(append([]byte{}, r...), resStar...))
	return h[:]
}
