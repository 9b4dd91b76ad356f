package ps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aaka/ake"
	"aaka/pairing"
	"aaka/revocation"
)

func freshCredential(t *testing.T) (*IssuerSecretKey, *IssuerPublicKey, *Credential, *IssuanceProof, *pairing.Scalar, *pairing.Scalar) {
	t.Helper()
	isk, ipk, err := IKeyGen(Attributes)
	require.NoError(t, err)

	m, err := pairing.RandomScalar()
	require.NoError(t, err)
	pm, err := pairing.RandomScalar()
	require.NoError(t, err)

	cred, proof, err := CredIssue(isk, ipk, m, pm)
	require.NoError(t, err)
	return isk, ipk, cred, proof, m, pm
}

func TestCredentialCorrectness(t *testing.T) {
	_, ipk, cred, proof, m, pm := freshCredential(t)
	require.True(t, CredVer(ipk, m, pm, cred, proof))
}

func freshKeyExchange(t *testing.T) ake.Transcript {
	t.Helper()
	vk, err := ake.GenerateVerifierKey()
	require.NoError(t, err)
	ue, err := KeyExchangeUE()
	require.NoError(t, err)
	resp, serverKey, err := KeyExchangeNetwork(vk, ue.Public())
	require.NoError(t, err)
	clientKey, ok := KeyExchangeUEVerify(ue, vk.Y, resp)
	require.True(t, ok)
	require.Equal(t, serverKey, clientKey)
	return resp
}

func TestShowVerifySoundness(t *testing.T) {
	_, ipk, cred, _, m, pm := freshCredential(t)
	_, tpk, err := LEAKeyGen()
	require.NoError(t, err)

	keyEx := freshKeyExchange(t)

	acred, proof, err := CredShow(ipk, tpk, m, pm, cred, keyEx)
	require.NoError(t, err)

	ok, err := AcredVer(ipk, tpk, acred, proof, keyEx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTraceRecoversIdentity(t *testing.T) {
	_, ipk, cred, _, m, pm := freshCredential(t)
	tsk, tpk, err := LEAKeyGen()
	require.NoError(t, err)
	keyEx := freshKeyExchange(t)

	acred, _, err := CredShow(ipk, tpk, m, pm, cred, keyEx)
	require.NoError(t, err)

	traced := Trace(tsk, acred)
	require.True(t, traced.Equal(pairing.G2Generator().ScalarMult(pm)))
}

func TestJudgeRevocation(t *testing.T) {
	_, ipk, cred, _, m, pm := freshCredential(t)
	tsk, tpk, err := LEAKeyGen()
	require.NoError(t, err)
	keyEx := freshKeyExchange(t)

	acred, _, err := CredShow(ipk, tpk, m, pm, cred, keyEx)
	require.NoError(t, err)

	rl := revocation.New()
	ok, err := Judge(acred, rl)
	require.NoError(t, err)
	require.False(t, ok)

	rl.Add(Trace(tsk, acred))
	ok, err = Judge(acred, rl)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTamperedProofResponseFailsVerification(t *testing.T) {
	_, ipk, cred, _, m, pm := freshCredential(t)
	_, tpk, err := LEAKeyGen()
	require.NoError(t, err)
	keyEx := freshKeyExchange(t)

	acred, proof, err := CredShow(ipk, tpk, m, pm, cred, keyEx)
	require.NoError(t, err)

	proof.Responses[0] = pairing.NewScalar().Add(proof.Responses[0], pairing.ScalarFromUint64(1))

	ok, err := AcredVer(ipk, tpk, acred, proof, keyEx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTwoShowsAreUnlinkable(t *testing.T) {
	_, ipk, cred, _, m, pm := freshCredential(t)
	_, tpk, err := LEAKeyGen()
	require.NoError(t, err)

	first, _, err := CredShow(ipk, tpk, m, pm, cred, freshKeyExchange(t))
	require.NoError(t, err)
	second, _, err := CredShow(ipk, tpk, m, pm, cred, freshKeyExchange(t))
	require.NoError(t, err)

	require.False(t, first.SigmaHat1.Equal(second.SigmaHat1))
	require.False(t, first.SigmaHat2.Equal(second.SigmaHat2))
	require.False(t, first.C1.Equal(second.C1))
	require.False(t, first.C2.Equal(second.C2))
	require.False(t, first.C3.Equal(second.C3))
	require.False(t, first.C4.Equal(second.C4))
}

func TestTamperedSigmaHat1FailsPairingCheck(t *testing.T) {
	_, ipk, cred, _, m, pm := freshCredential(t)
	_, tpk, err := LEAKeyGen()
	require.NoError(t, err)
	keyEx := freshKeyExchange(t)

	acred, proof, err := CredShow(ipk, tpk, m, pm, cred, keyEx)
	require.NoError(t, err)

	acred.SigmaHat1 = acred.SigmaHat1.ScalarMult(pairing.ScalarFromUint64(2))

	ok, err := AcredVer(ipk, tpk, acred, proof, keyEx)
	require.NoError(t, err)
	require.False(t, ok)
}
