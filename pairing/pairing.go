// Package pairing wraps the BLS12-381 pairing group exposed by gnark-crypto
// behind opaque Scalar/G1/G2/GT types with addition, scalar multiplication,
// the pairing e(.,.), and a canonical serialization. G is a Type-3 bilinear
// group of prime order Order: g1 generates G1, g2 generates G2, and Pair is
// the non-degenerate bilinear pairing e: G1 x G2 -> GT.
package pairing

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Order is the prime order o shared by G1, G2, and GT.
var Order = fr.Modulus()

// Scalar is an element of the integer ring modulo Order.
type Scalar struct {
	v big.Int
}

// NewScalar returns the zero scalar.
func NewScalar() *Scalar { return &Scalar{} }

// ScalarFromUint64 lifts a small integer into the scalar ring.
func ScalarFromUint64(x uint64) *Scalar {
	s := &Scalar{}
	s.v.SetUint64(x)
	return s
}

// RandomScalar draws a uniformly random element of the scalar ring.
func RandomScalar() (*Scalar, error) {
	v, err := rand.Int(rand.Reader, Order)
	if err != nil {
		return nil, err
	}
	return &Scalar{v: *v}, nil
}

// FromBigInt sets s to n reduced modulo Order and returns s.
func (s *Scalar) FromBigInt(n *big.Int) *Scalar {
	s.v.Mod(n, Order)
	return s
}

// Add sets s = a + b mod Order and returns s.
func (s *Scalar) Add(a, b *Scalar) *Scalar {
	s.v.Add(&a.v, &b.v)
	s.v.Mod(&s.v, Order)
	return s
}

// Sub sets s = a - b mod Order and returns s.
func (s *Scalar) Sub(a, b *Scalar) *Scalar {
	s.v.Sub(&a.v, &b.v)
	s.v.Mod(&s.v, Order)
	return s
}

// Mul sets s = a * b mod Order and returns s.
func (s *Scalar) Mul(a, b *Scalar) *Scalar {
	s.v.Mul(&a.v, &b.v)
	s.v.Mod(&s.v, Order)
	return s
}

// Inverse sets s = a^-1 mod Order and returns s. a must be nonzero.
func (s *Scalar) Inverse(a *Scalar) *Scalar {
	s.v.ModInverse(&a.v, Order)
	return s
}

// IsZero reports whether the scalar is the additive identity.
func (s *Scalar) IsZero() bool { return s.v.Sign() == 0 }

// Equal reports whether two scalars are congruent modulo Order.
func (s *Scalar) Equal(o *Scalar) bool { return s.v.Cmp(&o.v) == 0 }

// BigInt returns a copy of the scalar's canonical representative.
func (s *Scalar) BigInt() *big.Int { return new(big.Int).Set(&s.v) }

// String renders the scalar in canonical decimal form, used as the
// Fiat-Shamir transcript token for scalar-valued transcript entries.
func (s *Scalar) String() string { return s.v.String() }

// G1 is an element of the first pairing source group.
type G1 struct{ p bls12381.G1Jac }

// G2 is an element of the second pairing source group.
type G2 struct{ p bls12381.G2Jac }

// GT is an element of the target group.
type GT = bls12381.GT

// G1Generator returns the fixed generator g1 of G1.
func G1Generator() G1 {
	_, _, g1Aff, _ := bls12381.Generators()
	var j bls12381.G1Jac
	j.FromAffine(&g1Aff)
	return G1{p: j}
}

// G2Generator returns the fixed generator g2 of G2.
func G2Generator() G2 {
	_, _, _, g2Aff := bls12381.Generators()
	var j bls12381.G2Jac
	j.FromAffine(&g2Aff)
	return G2{p: j}
}

// Add returns g + h.
func (g G1) Add(h G1) G1 {
	var r bls12381.G1Jac
	r.Set(&g.p)
	r.AddAssign(&h.p)
	return G1{p: r}
}

// Neg returns -g.
func (g G1) Neg() G1 {
	var r bls12381.G1Jac
	r.Set(&g.p)
	r.Neg(&r)
	return G1{p: r}
}

// Sub returns g - h.
func (g G1) Sub(h G1) G1 { return g.Add(h.Neg()) }

// ScalarMult returns s*g.
func (g G1) ScalarMult(s *Scalar) G1 {
	var r bls12381.G1Jac
	r.ScalarMultiplication(&g.p, s.BigInt())
	return G1{p: r}
}

// Affine returns g in affine coordinates, for pairing input and encoding.
func (g G1) Affine() bls12381.G1Affine {
	var a bls12381.G1Affine
	a.FromJacobian(&g.p)
	return a
}

// Equal reports whether g and h are the same point.
func (g G1) Equal(h G1) bool {
	ga, ha := g.Affine(), h.Affine()
	return ga.Equal(&ha)
}

// Encode returns the canonical compressed byte representation of g.
func (g G1) Encode() []byte {
	a := g.Affine()
	b := a.Bytes()
	return b[:]
}

// String renders the compressed encoding in hex, the transcript token for
// G1-valued transcript entries.
func (g G1) String() string { return hex.EncodeToString(g.Encode()) }

// Add returns g + h.
func (g G2) Add(h G2) G2 {
	var r bls12381.G2Jac
	r.Set(&g.p)
	r.AddAssign(&h.p)
	return G2{p: r}
}

// Neg returns -g.
func (g G2) Neg() G2 {
	var r bls12381.G2Jac
	r.Set(&g.p)
	r.Neg(&r)
	return G2{p: r}
}

// Sub returns g - h.
func (g G2) Sub(h G2) G2 { return g.Add(h.Neg()) }

// ScalarMult returns s*g.
func (g G2) ScalarMult(s *Scalar) G2 {
	var r bls12381.G2Jac
	r.ScalarMultiplication(&g.p, s.BigInt())
	return G2{p: r}
}

// Affine returns g in affine coordinates, for pairing input and encoding.
func (g G2) Affine() bls12381.G2Affine {
	var a bls12381.G2Affine
	a.FromJacobian(&g.p)
	return a
}

// Equal reports whether g and h are the same point.
func (g G2) Equal(h G2) bool {
	ga, ha := g.Affine(), h.Affine()
	return ga.Equal(&ha)
}

// Encode returns the canonical compressed byte representation of g.
func (g G2) Encode() []byte {
	a := g.Affine()
	b := a.Bytes()
	return b[:]
}

// String renders the compressed encoding in hex, the transcript token for
// G2-valued transcript entries.
func (g G2) String() string { return hex.EncodeToString(g.Encode()) }

// Pair evaluates the bilinear pairing e(a, b).
func Pair(a G1, b G2) (GT, error) {
	aAff, bAff := a.Affine(), b.Affine()
	return bls12381.Pair([]bls12381.G1Affine{aAff}, []bls12381.G2Affine{bAff})
}

// PairingProductEqual reports whether e(a1, b1) == e(a2, b2), computed as a
// single combined pairing product e(a1, b1) * e(-a2, b2) == 1 to avoid a
// full GT exponentiation per side.
func PairingProductEqual(a1 G1, b1 G2, a2 G1, b2 G2) (bool, error) {
	res, err := bls12381.Pair(
		[]bls12381.G1Affine{a1.Affine(), a2.Neg().Affine()},
		[]bls12381.G2Affine{b1.Affine(), b2.Affine()},
	)
	if err != nil {
		return false, err
	}
	return res.IsOne(), nil
}
