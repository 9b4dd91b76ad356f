package ake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyExchangeAgreement(t *testing.T) {
	vk, err := GenerateVerifierKey()
	require.NoError(t, err)

	ue, err := Initiate()
	require.NoError(t, err)

	resp, serverKey, err := Respond(vk, ue.Public())
	require.NoError(t, err)

	clientKey, ok := VerifyAndDeriveKey(ue, vk.Y, resp)
	require.True(t, ok)
	require.Equal(t, serverKey, clientKey)
}

func TestKeyExchangeRejectsWrongVerifierKey(t *testing.T) {
	vk, err := GenerateVerifierKey()
	require.NoError(t, err)
	otherVK, err := GenerateVerifierKey()
	require.NoError(t, err)

	ue, err := Initiate()
	require.NoError(t, err)

	resp, _, err := Respond(vk, ue.Public())
	require.NoError(t, err)

	_, ok := VerifyAndDeriveKey(ue, otherVK.Y, resp)
	require.False(t, ok)
}

func TestKeyExchangeRejectsTamperedTau(t *testing.T) {
	vk, err := GenerateVerifierKey()
	require.NoError(t, err)
	ue, err := Initiate()
	require.NoError(t, err)

	resp, _, err := Respond(vk, ue.Public())
	require.NoError(t, err)
	resp.Tau[0] ^= 0xff

	_, ok := VerifyAndDeriveKey(ue, vk.Y, resp)
	require.False(t, ok)
}
