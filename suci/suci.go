// Package suci implements SUCI concealment: the subscriber's permanent
// identifier (SUPI) is sealed under the home network's public key before it
// ever crosses the subscriber-to-serving-network link. The AKA state
// machine in package aka depends only on the Encryptor/Decryptor interfaces
// below; RistrettoBox is one conformant implementation
// (github.com/gtank/ristretto255 for the group,
// golang.org/x/crypto/{sha3,hkdf} to derive symmetric key material from a
// Diffie-Hellman shared point).
package suci

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	ristretto "github.com/gtank/ristretto255"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// ErrCiphertextShape is returned when a SUCI ciphertext is too short to
// contain an ephemeral public key and a nonce. A ciphertext too short for
// the GCM tag fails in GCM authentication instead.
var ErrCiphertextShape = errors.New("suci: malformed ciphertext")

// Encryptor conceals a SUPI into a SUCI; the AKA roles never construct a
// SUCI any other way.
type Encryptor interface {
	Encrypt(supi string) ([]byte, error)
}

// Decryptor recovers a SUPI from a SUCI, or fails if the ciphertext was not
// produced for this home network's key.
type Decryptor interface {
	Decrypt(suci []byte) (string, error)
}

// HomeNetworkKey is the home network's static asymmetric key pair: sk is
// never transmitted, pk is distributed to subscribers so they can conceal
// their SUPI.
type HomeNetworkKey struct {
	sk *ristretto.Scalar
	Pk *ristretto.Element
}

// GenerateHomeNetworkKey draws a fresh static key pair.
func GenerateHomeNetworkKey() (*HomeNetworkKey, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	sk := new(ristretto.Scalar).FromUniformBytes(b)
	pk := new(ristretto.Element).ScalarBaseMult(sk)
	return &HomeNetworkKey{sk: sk, Pk: pk}, nil
}

// Zeroize discards the static secret scalar.
func (k *HomeNetworkKey) Zeroize() { k.sk = new(ristretto.Scalar) }

// SecretKeyBytes returns the canonical encoding of sk, for the CLI driver's
// file-based persistence of the home network's long-term key.
func (k *HomeNetworkKey) SecretKeyBytes() []byte { return k.sk.Encode(nil) }

// LoadHomeNetworkKey reconstructs a key pair from a previously persisted
// secret key encoding.
func LoadHomeNetworkKey(secretKeyBytes []byte) (*HomeNetworkKey, error) {
	sk := new(ristretto.Scalar)
	if err := sk.Decode(secretKeyBytes); err != nil {
		return nil, err
	}
	pk := new(ristretto.Element).ScalarBaseMult(sk)
	return &HomeNetworkKey{sk: sk, Pk: pk}, nil
}

// PublicKeyBytes returns the canonical encoding of pk, the value persisted
// to disk for subscribers to read out-of-band.
func (k *HomeNetworkKey) PublicKeyBytes() []byte { return k.Pk.Encode(nil) }

// RistrettoBox implements Encryptor and Decryptor over an ECIES-shaped
// construction: an ephemeral Diffie-Hellman exchange against the home
// network's static key, HKDF-SHA3-512 over the shared point to derive an
// AES-256-GCM key, and AES-GCM to seal the SUPI. The wire ciphertext is
// ephemeralPublicKey || nonce || gcmSealed.
type RistrettoBox struct {
	// secret, if non-nil, makes this box a Decryptor for the matching
	// HomeNetworkKey. A box constructed from a public key alone is an
	// Encryptor only.
	secret *ristretto.Scalar
	public *ristretto.Element
}

// NewEncryptor builds an Encryptor bound to the home network's public key,
// the value a subscriber reads out-of-band.
func NewEncryptor(homeNetworkPublicKey []byte) (*RistrettoBox, error) {
	pk := new(ristretto.Element)
	if err := pk.Decode(homeNetworkPublicKey); err != nil {
		return nil, err
	}
	return &RistrettoBox{public: pk}, nil
}

// NewDecryptor builds a Decryptor bound to the home network's static key.
func NewDecryptor(key *HomeNetworkKey) *RistrettoBox {
	return &RistrettoBox{secret: key.sk, public: key.Pk}
}

const (
	pointSize = 32
	nonceSize = 12
)

// Encrypt conceals supi, producing a fresh ephemeral key pair per call so
// that two SUCIs for the same SUPI are unlinkable.
func (b *RistrettoBox) Encrypt(supi string) ([]byte, error) {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	eph := new(ristretto.Scalar).FromUniformBytes(seed)
	ephPub := new(ristretto.Element).ScalarBaseMult(eph)
	shared := new(ristretto.Element).ScalarMult(eph, b.public)

	gcm, err := aeadFromSharedPoint(shared)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	sealed := gcm.Seal(nil, nonce, []byte(supi), nil)

	out := make([]byte, 0, pointSize+nonceSize+len(sealed))
	out = append(out, ephPub.Encode(nil)...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt recovers the SUPI sealed by Encrypt. A malformed ciphertext, an
// ephemeral key that fails to decode, or a GCM authentication failure all
// surface as an error; callers map any of these to IdentityReject.
func (b *RistrettoBox) Decrypt(suciBytes []byte) (string, error) {
	if len(suciBytes) < pointSize+nonceSize {
		return "", ErrCiphertextShape
	}
	ephPub := new(ristretto.Element)
	if err := ephPub.Decode(suciBytes[:pointSize]); err != nil {
		return "", err
	}
	nonce := suciBytes[pointSize : pointSize+nonceSize]
	sealed := suciBytes[pointSize+nonceSize:]

	shared := new(ristretto.Element).ScalarMult(b.secret, ephPub)
	gcm, err := aeadFromSharedPoint(shared)
	if err != nil {
		return "", err
	}
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func aeadFromSharedPoint(shared *ristretto.Element) (cipher.AEAD, error) {
	kdf := hkdf.New(sha3.New512, shared.Encode(nil), nil, []byte("aaka/suci"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
