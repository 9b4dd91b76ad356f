// Package ake implements the authenticated Diffie-Hellman key exchange
// bound into a credential show: the UE side draws an ephemeral key (a, A),
// the verifying network side answers with (B, tau) and a derived session
// key, and the UE either accepts and derives the same session key or
// rejects. The whole exchange lives in G1; transcript.Challenge folds the
// three G1 elements (Y, A, B) exactly as the credential-show proofs that
// bind to this exchange's (A, B, tau) triple.
package ake

import (
	"crypto/sha256"
	"crypto/subtle"

	"aaka/pairing"
	"aaka/transcript"
)

// VerifierKey is the verifying network side's AKE key pair (y, Y = y*g1).
// Spec.md labels y an "ephemeral AKE key"; nothing in the construction
// requires it to be single-use, but callers that want per-session
// unlinkability should draw a fresh VerifierKey per show and zeroize it
// afterward, same as the UE's Ephemeral.
type VerifierKey struct {
	y *pairing.Scalar
	Y pairing.G1
}

// GenerateVerifierKey draws a fresh (y, Y) pair.
func GenerateVerifierKey() (*VerifierKey, error) {
	y, err := pairing.RandomScalar()
	if err != nil {
		return nil, err
	}
	return &VerifierKey{y: y, Y: pairing.G1Generator().ScalarMult(y)}, nil
}

// Zeroize discards the long-term-looking secret scalar.
func (k *VerifierKey) Zeroize() { k.y = pairing.NewScalar() }

// Ephemeral is the UE side's per-session exchange key (a, A = a*g1).
type Ephemeral struct {
	a *pairing.Scalar
	A pairing.G1
}

// Initiate draws a fresh ephemeral key for the UE side.
func Initiate() (*Ephemeral, error) {
	a, err := pairing.RandomScalar()
	if err != nil {
		return nil, err
	}
	return &Ephemeral{a: a, A: pairing.G1Generator().ScalarMult(a)}, nil
}

// Public returns A, the value the UE publishes.
func (e *Ephemeral) Public() pairing.G1 { return e.A }

// Zeroize discards the ephemeral scalar.
func (e *Ephemeral) Zeroize() { e.a = pairing.NewScalar() }

// Transcript is the (A, B, tau) triple produced by one exchange; credential
// shows bind their zero-knowledge proof to this triple so that a show
// cannot be replayed against a different key-exchange session.
type Transcript struct {
	A   pairing.G1
	B   pairing.G1
	Tau []byte
}

// Respond performs the verifying network side of the exchange, answering
// the UE's published A. It returns the (B, tau) pair to send back and the
// session key k_s derived alongside it.
func Respond(k *VerifierKey, A pairing.G1) (resp Transcript, sessionKey [32]byte, err error) {
	b, err := pairing.RandomScalar()
	if err != nil {
		return Transcript{}, [32]byte{}, err
	}
	B := pairing.G1Generator().ScalarMult(b)

	delta := transcript.Challenge(transcript.Of(k.Y), transcript.Of(A), transcript.Of(B))
	exponent := pairing.NewScalar().Add(b, pairing.NewScalar().Mul(delta, k.y))
	shared := A.ScalarMult(exponent)

	resp = Transcript{A: A, B: B, Tau: tag(shared, 0x00)}
	sessionKey = sessionKeyBytes(shared, 0x01)
	return resp, sessionKey, nil
}

// VerifyAndDeriveKey performs the UE side: it recomputes the shared element
// from its own ephemeral secret and accepts iff tau matches, in which case
// it returns the same session key the network side derived. Either way, e's
// secret scalar is single-use and is zeroized before return.
func VerifyAndDeriveKey(e *Ephemeral, Y pairing.G1, resp Transcript) (sessionKey [32]byte, ok bool) {
	delta := transcript.Challenge(transcript.Of(Y), transcript.Of(e.A), transcript.Of(resp.B))
	shared := resp.B.Add(Y.ScalarMult(delta)).ScalarMult(e.a)
	defer e.Zeroize()

	if subtle.ConstantTimeCompare(tag(shared, 0x00), resp.Tau) != 1 {
		return [32]byte{}, false
	}
	return sessionKeyBytes(shared, 0x01), true
}

func tag(shared pairing.G1, label byte) []byte {
	h := sha256.Sum256(append(shared.Encode(), label))
	return h[:]
}

func sessionKeyBytes(shared pairing.G1, label byte) [32]byte {
	return sha256.Sum256(append(shared.Encode(), label))
}
