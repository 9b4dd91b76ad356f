// Package transcript implements the Fiat-Shamir transform shared by the BB
// and PS credential schemes and the authenticated key exchange: folding an
// ordered list of group elements, scalars, byte strings, and integers into a
// single scalar challenge.
package transcript

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"aaka/pairing"
)

// Element is one entry in a Fiat-Shamir transcript. Every caller folds the
// exact same ordered sequence of Elements on the proving and verifying
// sides, or the derived challenge will not match.
type Element interface {
	token() string
}

type tokenElement string

func (e tokenElement) token() string { return string(e) }

// stringer is satisfied by pairing.Scalar, pairing.G1, and pairing.G2,
// each of which renders a canonical decimal (scalar) or hex (group element)
// string.
type stringer interface {
	String() string
}

// Of wraps a pairing.Scalar, pairing.G1, or pairing.G2 (or any other type
// with a canonical String() form) as a transcript Element.
func Of(s stringer) Element { return tokenElement(s.String()) }

// Bytes wraps a raw byte string as a transcript Element.
func Bytes(b []byte) Element { return tokenElement(b) }

// String wraps a raw string as a transcript Element.
func String(s string) Element { return tokenElement(s) }

// Int wraps an integer as a transcript Element.
func Int(n int) Element { return tokenElement(strconv.Itoa(n)) }

// Challenge folds elements into a single scalar: it prepends the element
// count, renders each element as "<len>||<token>", joins entries with "|",
// hashes the resulting UTF-8 string under SHA-256, and reduces the digest
// modulo pairing.Order. The encoding is injective in the element boundaries
// (each token is prefixed by its own printable length) so that no sequence
// of distinct elements can collide by concatenation alone.
func Challenge(elements ...Element) *pairing.Scalar {
	parts := make([]string, 0, len(elements)+1)
	parts = append(parts, fmt.Sprintf("%d", len(elements)))
	for _, e := range elements {
		tok := e.token()
		parts = append(parts, fmt.Sprintf("%d||%s", len(tok), tok))
	}
	digest := sha256.Sum256([]byte(strings.Join(parts, "|")))

	n := new(big.Int).SetBytes(digest[:])
	return pairing.NewScalar().FromBigInt(n)
}
