// Package ps implements the Pointcheval-Sanders-style anonymous credential
// scheme: issuance with a zero-knowledge proof binding the issuer's secret
// key to the signed combination, randomized selective showing bound to an
// authenticated key exchange, verifier-side proof checking, tracing by a
// lawful-enforcement authority, and revocation judgment.
//
// The algebra mirrors package bb closely (both schemes share the same AKE,
// transcript and revocation-list machinery), but PS signs by multiplying a
// single random G1 base by the issuer's linear combination rather than
// publishing one G1 element per issuer-key scalar, and its issuance proof
// covers the signed combination as a whole rather than giving a
// one-per-attribute proof of exponents. In both schemes an anonymous show is
// verified by a pairing equation on the randomized signature plus a show
// proof.
package ps

import (
	"aaka/ake"
	"aaka/pairing"
	"aaka/revocation"
	"aaka/transcript"
)

// Attributes is q, the number of issuer-key scalars this core fixes.
const Attributes = 3

// IssuerSecretKey is isk = (x_0, x_1, x_2).
type IssuerSecretKey struct{ x []*pairing.Scalar }

// IssuerPublicKey is ipk = (x_0*g2, x_1*g2, x_2*g2).
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

// Credential is the issuer-signed pair (sigma_1, sigma_2).
type Credential struct {
	Sigma1 pairing.G1
	Sigma2 pairing.G1
}

// IssuanceProof is pi_2, a Fiat-Shamir proof of knowledge of isk such that
// ipk[i] = isk[i]*g2 for every i and sigma_2 = (isk[0] + m*isk[1] +
// pm*isk[2]) * sigma_1.
type IssuanceProof struct {
	CommitKey   [3]pairing.G2
	CommitSigma pairing.G1
	Responses   [3]*pairing.Scalar
}

// CredIssue signs (m, pm) under isk, publishing sigma_1 = s*g1 for a fresh
// s and sigma_2 = (isk[0] + m*isk[1] + pm*isk[2]) * sigma_1, plus a proof
// that the combination uses the same isk that produced ipk.
func CredIssue(isk *IssuerSecretKey, ipk *IssuerPublicKey, m, pm *pairing.Scalar) (*Credential, *IssuanceProof, error) {
	s, err := pairing.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	sigma1 := pairing.G1Generator().ScalarMult(s)

	combo := pairing.NewScalar().Add(isk.x[0], pairing.NewScalar().Mul(m, isk.x[1]))
	combo.Add(combo, pairing.NewScalar().Mul(pm, isk.x[2]))
	sigma2 := sigma1.ScalarMult(combo)

	cred := &Credential{Sigma1: sigma1, Sigma2: sigma2}
	proof, err := proveIssuance(sigma1, m, pm, isk.x)
	if err != nil {
		return nil, nil, err
	}
	return cred, proof, nil
}

// proveIssuance proves knowledge of (x0, x1, x2) such that ipk[i] = x_i*g2
// for each i and sigma_2 = x0*sigma_1 + x1*(m*sigma_1) + x2*(pm*sigma_1).
func proveIssuance(sigma1 pairing.G1, m, pm *pairing.Scalar, x []*pairing.Scalar) (*IssuanceProof, error) {
	g2 := pairing.G2Generator()
	mSigma1 := sigma1.ScalarMult(m)
	pmSigma1 := sigma1.ScalarMult(pm)

	var rho [3]*pairing.Scalar
	var cmtKey [3]pairing.G2
	for i := range rho {
		r, err := pairing.RandomScalar()
		if err != nil {
			return nil, err
		}
		rho[i] = r
		cmtKey[i] = g2.ScalarMult(r)
	}
	cmtSigma := sigma1.ScalarMult(rho[0]).Add(mSigma1.ScalarMult(rho[1])).Add(pmSigma1.ScalarMult(rho[2]))

	ch := challengeIssuance(cmtKey, cmtSigma)
	var resp [3]*pairing.Scalar
	for i := range x {
		resp[i] = pairing.NewScalar().Add(rho[i], pairing.NewScalar().Mul(x[i], ch))
	}
	return &IssuanceProof{CommitKey: cmtKey, CommitSigma: cmtSigma, Responses: resp}, nil
}

func challengeIssuance(cmtKey [3]pairing.G2, cmtSigma pairing.G1) *pairing.Scalar {
	return transcript.Challenge(
		transcript.Of(cmtKey[0]), transcript.Of(cmtKey[1]), transcript.Of(cmtKey[2]),
		transcript.Of(cmtSigma),
	)
}

// verifyIssuance checks pi_2 against ipk and the issued credential.
func verifyIssuance(ipk *IssuerPublicKey, m, pm *pairing.Scalar, cred *Credential, proof *IssuanceProof) bool {
	ch := challengeIssuance(proof.CommitKey, proof.CommitSigma)
	g2 := pairing.G2Generator()

	for i := range proof.Responses {
		lhs := g2.ScalarMult(proof.Responses[i])
		rhs := proof.CommitKey[i].Add(ipk.X[i].ScalarMult(ch))
		if !lhs.Equal(rhs) {
			return false
		}
	}

	mSigma1 := cred.Sigma1.ScalarMult(m)
	pmSigma1 := cred.Sigma1.ScalarMult(pm)
	lhs := cred.Sigma1.ScalarMult(proof.Responses[0]).
		Add(mSigma1.ScalarMult(proof.Responses[1])).
		Add(pmSigma1.ScalarMult(proof.Responses[2]))
	rhs := proof.CommitSigma.Add(cred.Sigma2.ScalarMult(ch))
	return lhs.Equal(rhs)
}

// CredVer verifies an issued (non-anonymous) credential's well-formedness
// proof.
func CredVer(ipk *IssuerPublicKey, m, pm *pairing.Scalar, cred *Credential, proof *IssuanceProof) bool {
	return verifyIssuance(ipk, m, pm, cred, proof)
}

// KeyExchangeUE draws the UE-side ephemeral AKE key; the construction
// itself lives in package ake and is shared with the bb scheme.
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
// Acred = (sigma_hat_1, sigma_hat_2, C1, C2, C3, C4, m).
type AnonCredential struct {
	SigmaHat1 pairing.G1
	SigmaHat2 pairing.G1
	C1        pairing.G2
	C2        pairing.G2
	C3        pairing.G2
	C4        pairing.G1
	M         *pairing.Scalar
}

// ShowProof is pi_3, a Fiat-Shamir proof of knowledge of (pm, t, u)
// satisfying the four linear relations binding Acred to the AKE
// transcript (A, B, tau). Responses are ordered (pm, t, u).
type ShowProof struct {
	Cmt1      pairing.G2
	Cmt2      pairing.G2
	Cmt3      pairing.G2
	Cmt4      pairing.G1
	Responses [3]*pairing.Scalar
}

// CredShow randomizes cred and produces an anonymous credential plus a
// zero-knowledge proof bound to keyEx, revealing only m in the clear; pm
// (the traceable identity attribute) stays hidden behind C3/C4.
func CredShow(ipk *IssuerPublicKey, tpk *LEAPublicKey, m, pm *pairing.Scalar, cred *Credential, keyEx ake.Transcript) (*AnonCredential, *ShowProof, error) {
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

	sigmaHat1 := cred.Sigma1.ScalarMult(r)
	sigmaHat2 := cred.Sigma2.ScalarMult(r).Add(sigmaHat1.ScalarMult(tt))
	c1 := ipk.X[0].Add(ipk.X[1].ScalarMult(m)).Add(ipk.X[2].ScalarMult(pm)).Add(g2.ScalarMult(tt))
	c2 := g2.ScalarMult(u)
	c3 := tpk.T.ScalarMult(u).Add(g2.ScalarMult(pm))
	h := hashToG1(sigmaHat1, sigmaHat2, c1, c2, c3, m)
	c4 := h.ScalarMult(pm)

	acred := &AnonCredential{SigmaHat1: sigmaHat1, SigmaHat2: sigmaHat2, C1: c1, C2: c2, C3: c3, C4: c4, M: m}

	proof, err := proveShow(acred, ipk, tpk, h, keyEx, [3]*pairing.Scalar{pm, tt, u})
	if err != nil {
		return nil, nil, err
	}
	return acred, proof, nil
}

// hashToG1 computes H := challenge([sigma_hat_1, sigma_hat_2, C1, C2, C3, m]) * g1.
func hashToG1(sigmaHat1, sigmaHat2 pairing.G1, c1, c2, c3 pairing.G2, m *pairing.Scalar) pairing.G1 {
	ch := transcript.Challenge(
		transcript.Of(sigmaHat1), transcript.Of(sigmaHat2), transcript.Of(c1),
		transcript.Of(c2), transcript.Of(c3), transcript.Of(m),
	)
	return pairing.G1Generator().ScalarMult(ch)
}

func proveShow(acred *AnonCredential, ipk *IssuerPublicKey, tpk *LEAPublicKey, h pairing.G1, keyEx ake.Transcript, witness [3]*pairing.Scalar) (*ShowProof, error) {
	g2 := pairing.G2Generator()

	var rho [3]*pairing.Scalar
	for i := range rho {
		r, err := pairing.RandomScalar()
		if err != nil {
			return nil, err
		}
		rho[i] = r
	}

	cmt1 := ipk.X[2].ScalarMult(rho[0]).Add(g2.ScalarMult(rho[1]))
	cmt2 := g2.ScalarMult(rho[2])
	cmt3 := tpk.T.ScalarMult(rho[2]).Add(g2.ScalarMult(rho[0]))
	cmt4 := h.ScalarMult(rho[0])

	ch := challengeShow(cmt1, cmt2, cmt3, cmt4, keyEx)
	var resp [3]*pairing.Scalar
	for i := range witness {
		resp[i] = pairing.NewScalar().Add(rho[i], pairing.NewScalar().Mul(witness[i], ch))
	}
	return &ShowProof{Cmt1: cmt1, Cmt2: cmt2, Cmt3: cmt3, Cmt4: cmt4, Responses: resp}, nil
}

func challengeShow(cmt1, cmt2, cmt3 pairing.G2, cmt4 pairing.G1, keyEx ake.Transcript) *pairing.Scalar {
	return transcript.Challenge(
		transcript.Of(cmt1), transcript.Of(cmt2), transcript.Of(cmt3), transcript.Of(cmt4),
		transcript.Of(keyEx.A), transcript.Of(keyEx.B), transcript.Bytes(keyEx.Tau),
	)
}

// verifyShow checks the four linear equations pi_3 claims to satisfy.
func verifyShow(ipk *IssuerPublicKey, tpk *LEAPublicKey, acred *AnonCredential, proof *ShowProof, keyEx ake.Transcript) bool {
	g2 := pairing.G2Generator()
	h := hashToG1(acred.SigmaHat1, acred.SigmaHat2, acred.C1, acred.C2, acred.C3, acred.M)
	ch := challengeShow(proof.Cmt1, proof.Cmt2, proof.Cmt3, proof.Cmt4, keyEx)
	s0, s1, s2 := proof.Responses[0], proof.Responses[1], proof.Responses[2]

	baseC1 := ipk.X[0].Add(ipk.X[1].ScalarMult(acred.M))
	eq1 := ipk.X[2].ScalarMult(s0).Add(g2.ScalarMult(s1)).
		Equal(proof.Cmt1.Add(acred.C1.Sub(baseC1).ScalarMult(ch)))
	eq2 := g2.ScalarMult(s2).Equal(proof.Cmt2.Add(acred.C2.ScalarMult(ch)))
	eq3 := tpk.T.ScalarMult(s2).Add(g2.ScalarMult(s0)).
		Equal(proof.Cmt3.Add(acred.C3.ScalarMult(ch)))
	eq4 := h.ScalarMult(s0).Equal(proof.Cmt4.Add(acred.C4.ScalarMult(ch)))

	return eq1 && eq2 && eq3 && eq4
}

// AcredVer verifies an anonymous credential show: the pairing equation
// e(sigma_hat_1, C1) == e(sigma_hat_2, g2), and the show proof, bound to
// keyEx.
func AcredVer(ipk *IssuerPublicKey, tpk *LEAPublicKey, acred *AnonCredential, proof *ShowProof, keyEx ake.Transcript) (bool, error) {
	ok, err := pairing.PairingProductEqual(acred.SigmaHat1, acred.C1, acred.SigmaHat2, pairing.G2Generator())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return verifyShow(ipk, tpk, acred, proof, keyEx), nil
}

// Trace recovers tm = C3 - tsk*C2, which equals pm*g2 for an honestly
// produced show; the LEA compares tm against its local registry to
// identify the holder.
func Trace(tsk *LEASecretKey, acred *AnonCredential) pairing.G2 {
	return acred.C3.Sub(acred.C2.ScalarMult(tsk.t))
}

// Judge reports whether acred's traced identity tag appears on rl: it
// recomputes H and checks e(H, rl) == e(C4, g2) for some entry on the list.
func Judge(acred *AnonCredential, rl *revocation.List) (bool, error) {
	h := hashToG1(acred.SigmaHat1, acred.SigmaHat2, acred.C1, acred.C2, acred.C3, acred.M)
	g2 := pairing.G2Generator()
	for _, tag := range rl.Snapshot() {
		ok, err := pairing.PairingProductEqual(h, tag, acred.C4, g2)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
