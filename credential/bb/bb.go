// Package bb implements the Boneh-Boyen-style anonymous credential scheme:
// issuance with a zero-knowledge proof of well-formedness, randomized
// selective showing bound to an authenticated key exchange, verifier-side
// proof checking, tracing by a lawful-enforcement authority, and revocation
// judgment.
package bb

import (
	"errors"

	"aaka/ake"
	"aaka/pairing"
	"aaka/revocation"
	"aaka/transcript"
)

// Attributes is q, the number of issuer-key scalars this core fixes.
const Attributes = 3

// ErrDegenerateIssue is returned when CredIssue draws a message/identity
// pair that makes the signing exponent non-invertible (probability
// negligible for random inputs, but a programmer error for fixed test
// vectors is still possible).
var ErrDegenerateIssue = errors.New("bb: non-invertible scalar during issuance")

// IssuerSecretKey is isk = (x_0, ..., x_{q-1}).
type IssuerSecretKey struct{ x []*pairing.Scalar }

// IssuerPublicKey is ipk = (x_0*g2, ..., x_{q-1}*g2).
type IssuerPublicKey struct{ X []pairing.G2 }

// IKeyGen samples a fresh issuer key pair for q attributes.
func IKeyGen(q int) (*IssuerSecretKey, *IssuerPublicKey, error) {
	g2 := pairing.G2Generator()
	x := make([]*pairing.Scalar, q)
	X := make([]pairing.G2, q)
	for i := range x {
		xi, err := pairing.RandomScalar()
		if err != nil {
			return nil, nil, err
		}
		x[i] = xi
		X[i] = g2.ScalarMult(xi)
	}
	return &IssuerSecretKey{x: x}, &IssuerPublicKey{X: X}, nil
}

// LEASecretKey is the lawful-enforcement authority's tracing key tsk.
type LEASecretKey struct{ t *pairing.Scalar }

// LEAPublicKey is tpk = tsk*g2.
type LEAPublicKey struct{ T pairing.G2 }

// LEAKeyGen samples a fresh LEA tracing key pair.
func LEAKeyGen() (*LEASecretKey, *LEAPublicKey, error) {
	t, err := pairing.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	return &LEASecretKey{t: t}, &LEAPublicKey{T: pairing.G2Generator().ScalarMult(t)}, nil
}

// SecretKey/PublicKey is a generic scalar/G1 asymmetric key pair, used for
// any long-term key this scheme's deployment needs outside of isk/tsk.
type SecretKey struct{ s *pairing.Scalar }
type PublicKey struct{ P pairing.G1 }

// AsymKeyGen samples a fresh generic asymmetric key pair.
func AsymKeyGen() (*SecretKey, *PublicKey, error) {
	s, err := pairing.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	return &SecretKey{s: s}, &PublicKey{P: pairing.G1Generator().ScalarMult(s)}, nil
}

// Credential is the issuer-signed tuple (sigma, sigma_0, sigma_1, sigma_2).
type Credential struct {
	Sigma  pairing.G1
	Sigma0 pairing.G1
	Sigma1 pairing.G1
	Sigma2 pairing.G1
}

// IssuanceProof is pi_0, a Fiat-Shamir proof of knowledge of isk such that
// sigma_i = isk[i]*sigma and ipk[i] = isk[i]*g2 for every i.
type IssuanceProof struct {
	Commit    []pairing.G1
	CommitHat []pairing.G2
	Responses []*pairing.Scalar
}

// CredIssue signs (m, pm) under isk and proves the signature well-formed
// relative to ipk.
func CredIssue(isk *IssuerSecretKey, ipk *IssuerPublicKey, m, pm *pairing.Scalar) (*Credential, *IssuanceProof, error) {
	g1 := pairing.G1Generator()

	denom := pairing.NewScalar().Add(isk.x[0], pairing.NewScalar().Mul(m, isk.x[1]))
	denom.Add(denom, pairing.NewScalar().Mul(pm, isk.x[2]))
	if denom.IsZero() {
		return nil, nil, ErrDegenerateIssue
	}

	sigma := g1.ScalarMult(pairing.NewScalar().Inverse(denom))
	cred := &Credential{
		Sigma:  sigma,
		Sigma0: sigma.ScalarMult(isk.x[0]),
		Sigma1: sigma.ScalarMult(isk.x[1]),
		Sigma2: sigma.ScalarMult(isk.x[2]),
	}

	proof, err := proveRelation1(sigma, isk.x)
	if err != nil {
		return nil, nil, err
	}
	return cred, proof, nil
}

func proveRelation1(sigma pairing.G1, witness []*pairing.Scalar) (*IssuanceProof, error) {
	g2 := pairing.G2Generator()
	rho := make([]*pairing.Scalar, len(witness))
	cmt := make([]pairing.G1, len(witness))
	cmtHat := make([]pairing.G2, len(witness))
	for i := range witness {
		r, err := pairing.RandomScalar()
		if err != nil {
			return nil, err
		}
		rho[i] = r
		cmt[i] = sigma.ScalarMult(r)
		cmtHat[i] = g2.ScalarMult(r)
	}

	ch := challengeRelation1(cmt, cmtHat)
	resp := make([]*pairing.Scalar, len(witness))
	for i := range witness {
		resp[i] = pairing.NewScalar().Add(rho[i], pairing.NewScalar().Mul(witness[i], ch))
	}
	return &IssuanceProof{Commit: cmt, CommitHat: cmtHat, Responses: resp}, nil
}

func challengeRelation1(cmt []pairing.G1, cmtHat []pairing.G2) *pairing.Scalar {
	elems := make([]transcript.Element, 0, len(cmt)+len(cmtHat))
	for _, c := range cmt {
		elems = append(elems, transcript.Of(c))
	}
	for _, c := range cmtHat {
		elems = append(elems, transcript.Of(c))
	}
	return transcript.Challenge(elems...)
}

// verifyRelation1 checks the issuance proof of well-formedness against the
// credential's sigma_i components and ipk.
func verifyRelation1(ipk *IssuerPublicKey, cred *Credential, proof *IssuanceProof) bool {
	ch := challengeRelation1(proof.Commit, proof.CommitHat)
	sigmaI := []pairing.G1{cred.Sigma0, cred.Sigma1, cred.Sigma2}
	for i := range proof.Responses {
		lhs1 := cred.Sigma.ScalarMult(proof.Responses[i])
		rhs1 := proof.Commit[i].Add(sigmaI[i].ScalarMult(ch))
		if !lhs1.Equal(rhs1) {
			return false
		}
		g2 := pairing.G2Generator()
		lhs2 := g2.ScalarMult(proof.Responses[i])
		rhs2 := proof.CommitHat[i].Add(ipk.X[i].ScalarMult(ch))
		if !lhs2.Equal(rhs2) {
			return false
		}
	}
	return true
}

// CredVer verifies an issued (non-anonymous) credential: the signature
// equation sigma_0 + m*sigma_1 + pm*sigma_2 == g1, and the issuance proof.
func CredVer(ipk *IssuerPublicKey, m, pm *pairing.Scalar, cred *Credential, proof *IssuanceProof) bool {
	lhs := cred.Sigma0.Add(cred.Sigma1.ScalarMult(m)).Add(cred.Sigma2.ScalarMult(pm))
	if !lhs.Equal(pairing.G1Generator()) {
		return false
	}
	return verifyRelation1(ipk, cred, proof)
}

// KeyExchangeUE draws the UE-side ephemeral AKE key; the construction
// itself lives in package ake and is shared with the ps scheme.
func KeyExchangeUE() (*ake.Ephemeral, error) { return ake.Initiate() }

// KeyExchangeNetwork answers a UE's ephemeral key from the verifying side.
func KeyExchangeNetwork(vk *ake.VerifierKey, A pairing.G1) (ake.Transcript, [32]byte, error) {
	return ake.Respond(vk, A)
}

// KeyExchangeUEVerify completes the UE side of the exchange.
func KeyExchangeUEVerify(e *ake.Ephemeral, Y pairing.G1, resp ake.Transcript) ([32]byte, bool) {
	return ake.VerifyAndDeriveKey(e, Y, resp)
}

// AnonCredential is the randomized, selectively-shown credential
// Acred = (sigma_hat, C1, C2, C3, C4, C5, m).
type AnonCredential struct {
	SigmaHat pairing.G1
	C1       pairing.G2
	C2       pairing.G1
	C3       pairing.G2
	C4       pairing.G2
	C5       pairing.G1
	M        *pairing.Scalar
}

// ShowProof is pi_1, a Fiat-Shamir proof of knowledge of (pm, t, r, u)
// satisfying the five linear relations binding Acred to the AKE
// transcript (A, B, tau). Responses are ordered (pm, t, r, u).
type ShowProof struct {
	Cmt1      pairing.G2
	Cmt2      pairing.G1
	Cmt3      pairing.G2
	Cmt4      pairing.G2
	Cmt5      pairing.G1
	Responses [4]*pairing.Scalar
}

// CredShow randomizes cred and produces an anonymous credential plus a
// zero-knowledge proof bound to keyEx, revealing only m in the clear; pm
// (the traceable identity attribute) stays hidden behind C4/C5.
func CredShow(ipk *IssuerPublicKey, tpk *LEAPublicKey, m, pm *pairing.Scalar, cred *Credential, keyEx ake.Transcript) (*AnonCredential, *ShowProof, error) {
	g1 := pairing.G1Generator()
	g2 := pairing.G2Generator()

	r, err := pairing.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	tt, err := pairing.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	u, err := pairing.RandomScalar()
	if err != nil {
		return nil, nil, err
	}

	sigmaHat := cred.Sigma.ScalarMult(r)
	c1 := ipk.X[0].Add(ipk.X[1].ScalarMult(m)).Add(ipk.X[2].ScalarMult(pm)).Add(g2.ScalarMult(tt))
	c2 := g1.ScalarMult(r).Add(sigmaHat.ScalarMult(tt))
	c3 := g2.ScalarMult(u)
	c4 := tpk.T.ScalarMult(u).Add(g2.ScalarMult(pm))
	h := hashToG1(sigmaHat, c1, c2, c3, c4, m)
	c5 := h.ScalarMult(pm)

	acred := &AnonCredential{SigmaHat: sigmaHat, C1: c1, C2: c2, C3: c3, C4: c4, C5: c5, M: m}

	proof, err := proveRelation2(acred, ipk, tpk, h, keyEx, [4]*pairing.Scalar{pm, tt, r, u})
	if err != nil {
		return nil, nil, err
	}
	return acred, proof, nil
}

// hashToG1 computes H := challenge([sigma_hat, C1, C2, C3, C4, m]) * g1.
func hashToG1(sigmaHat pairing.G1, c1 pairing.G2, c2 pairing.G1, c3, c4 pairing.G2, m *pairing.Scalar) pairing.G1 {
	ch := transcript.Challenge(
		transcript.Of(sigmaHat), transcript.Of(c1), transcript.Of(c2),
		transcript.Of(c3), transcript.Of(c4), transcript.Of(m),
	)
	return pairing.G1Generator().ScalarMult(ch)
}

func proveRelation2(acred *AnonCredential, ipk *IssuerPublicKey, tpk *LEAPublicKey, h pairing.G1, keyEx ake.Transcript, witness [4]*pairing.Scalar) (*ShowProof, error) {
	g1 := pairing.G1Generator()
	g2 := pairing.G2Generator()

	var rho [4]*pairing.Scalar
	for i := range rho {
		r, err := pairing.RandomScalar()
		if err != nil {
			return nil, err
		}
		rho[i] = r
	}

	cmt1 := ipk.X[2].ScalarMult(rho[0]).Add(g2.ScalarMult(rho[1]))
	cmt2 := g1.ScalarMult(rho[2]).Add(acred.SigmaHat.ScalarMult(rho[1]))
	cmt3 := g2.ScalarMult(rho[3])
	cmt4 := g2.ScalarMult(rho[0]).Add(tpk.T.ScalarMult(rho[3]))
	cmt5 := h.ScalarMult(rho[0])

	ch := challengeRelation2(cmt1, cmt2, cmt3, cmt4, cmt5, keyEx)
	var resp [4]*pairing.Scalar
	for i := range witness {
		resp[i] = pairing.NewScalar().Add(rho[i], pairing.NewScalar().Mul(witness[i], ch))
	}
	return &ShowProof{Cmt1: cmt1, Cmt2: cmt2, Cmt3: cmt3, Cmt4: cmt4, Cmt5: cmt5, Responses: resp}, nil
}

func challengeRelation2(cmt1 pairing.G2, cmt2 pairing.G1, cmt3, cmt4 pairing.G2, cmt5 pairing.G1, keyEx ake.Transcript) *pairing.Scalar {
	return transcript.Challenge(
		transcript.Of(cmt1), transcript.Of(cmt2), transcript.Of(cmt3),
		transcript.Of(cmt4), transcript.Of(cmt5),
		transcript.Of(keyEx.A), transcript.Of(keyEx.B), transcript.Bytes(keyEx.Tau),
	)
}

// verifyRelation2 checks the five linear equations pi_1 claims to satisfy.
func verifyRelation2(ipk *IssuerPublicKey, tpk *LEAPublicKey, acred *AnonCredential, proof *ShowProof, keyEx ake.Transcript) bool {
	g1 := pairing.G1Generator()
	g2 := pairing.G2Generator()
	h := hashToG1(acred.SigmaHat, acred.C1, acred.C2, acred.C3, acred.C4, acred.M)
	ch := challengeRelation2(proof.Cmt1, proof.Cmt2, proof.Cmt3, proof.Cmt4, proof.Cmt5, keyEx)
	s0, s1, s2, s3 := proof.Responses[0], proof.Responses[1], proof.Responses[2], proof.Responses[3]

	baseC1 := ipk.X[0].Add(ipk.X[1].ScalarMult(acred.M))
	eq1 := ipk.X[2].ScalarMult(s0).Add(g2.ScalarMult(s1)).
		Equal(proof.Cmt1.Add(acred.C1.Sub(baseC1).ScalarMult(ch)))
	eq2 := g1.ScalarMult(s2).Add(acred.SigmaHat.ScalarMult(s1)).
		Equal(proof.Cmt2.Add(acred.C2.ScalarMult(ch)))
	eq3 := g2.ScalarMult(s3).Equal(proof.Cmt3.Add(acred.C3.ScalarMult(ch)))
	eq4 := tpk.T.ScalarMult(s3).Add(g2.ScalarMult(s0)).
		Equal(proof.Cmt4.Add(acred.C4.ScalarMult(ch)))
	eq5 := h.ScalarMult(s0).Equal(proof.Cmt5.Add(acred.C5.ScalarMult(ch)))

	return eq1 && eq2 && eq3 && eq4 && eq5
}

// AcredVer verifies an anonymous credential show: the pairing equation
// e(sigma_hat, C1) == e(C2, g2), and the show proof, bound to keyEx.
func AcredVer(ipk *IssuerPublicKey, tpk *LEAPublicKey, acred *AnonCredential, proof *ShowProof, keyEx ake.Transcript) (bool, error) {
	ok, err := pairing.PairingProductEqual(acred.SigmaHat, acred.C1, acred.C2, pairing.G2Generator())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return verifyRelation2(ipk, tpk, acred, proof, keyEx), nil
}

// Trace recovers tm = C4 - tsk*C3, which equals pm*g2 for an honestly
// produced show; the LEA compares tm against its local registry to
// identify the holder.
func Trace(tsk *LEASecretKey, acred *AnonCredential) pairing.G2 {
	return acred.C4.Sub(acred.C3.ScalarMult(tsk.t))
}

// Judge reports whether acred's traced identity tag appears on rl: it
// recomputes H and checks e(H, rl) == e(C5, g2) for some entry on the list.
func Judge(acred *AnonCredential, rl *revocation.List) (bool, error) {
	h := hashToG1(acred.SigmaHat, acred.C1, acred.C2, acred.C3, acred.C4, acred.M)
	g2 := pairing.G2Generator()
	for _, tag := range rl.Snapshot() {
		ok, err := pairing.PairingProductEqual(h, tag, acred.C5, g2)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
