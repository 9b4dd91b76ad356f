package suci

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateHomeNetworkKey()
	require.NoError(t, err)

	enc, err := NewEncryptor(key.PublicKeyBytes())
	require.NoError(t, err)
	dec := NewDecryptor(key)

	ct, err := enc.Encrypt("imsi-001010000000001")
	require.NoError(t, err)

	supi, err := dec.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, "imsi-001010000000001", supi)
}

func TestEncryptIsRandomizedPerCall(t *testing.T) {
	key, err := GenerateHomeNetworkKey()
	require.NoError(t, err)
	enc, err := NewEncryptor(key.PublicKeyBytes())
	require.NoError(t, err)

	ct1, err := enc.Encrypt("supi")
	require.NoError(t, err)
	ct2, err := enc.Encrypt("supi")
	require.NoError(t, err)
	require.NotEqual(t, ct1, ct2)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	key, err := GenerateHomeNetworkKey()
	require.NoError(t, err)
	other, err := GenerateHomeNetworkKey()
	require.NoError(t, err)

	enc, err := NewEncryptor(key.PublicKeyBytes())
	require.NoError(t, err)
	ct, err := enc.Encrypt("supi")
	require.NoError(t, err)

	_, err = NewDecryptor(other).Decrypt(ct)
	require.Error(t, err)
}

func TestDecryptRejectsTruncatedCiphertext(t *testing.T) {
	key, err := GenerateHomeNetworkKey()
	require.NoError(t, err)
	_, err = NewDecryptor(key).Decrypt([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrCiphertextShape)
}
