package aka

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"aaka/primitive"
	"aaka/suci"
)

type harness struct {
	t     *testing.T
	dir   *MapDirectory
	rec   *SubscriberRecord
	ue    *Subscriber
	sn    *ServingNetwork
	hn    *HomeNetwork
	sname string
}

func newHarness(t *testing.T, sqnHN, sqnUE uint64) *harness {
	t.Helper()
	key, err := suci.GenerateHomeNetworkKey()
	require.NoError(t, err)
	enc, err := suci.NewEncryptor(key.PublicKeyBytes())
	require.NoError(t, err)
	dec := suci.NewDecryptor(key)

	k := bytes.Repeat([]byte{0xff}, 256)
	rec := &SubscriberRecord{SUPI: "supi", K: k, SQN: primitive.NewSequenceNumber(sqnHN)}
	dir := NewMapDirectory()
	dir.Add(rec)

	sname := "sname_100"
	ue := NewSubscriber("supi", k, primitive.NewSequenceNumber(sqnUE), sname, enc, nil)
	sn := NewServingNetwork(sname, nil)
	hn := NewHomeNetwork(dir, dec, nil)

	return &harness{t: t, dir: dir, rec: rec, ue: ue, sn: sn, hn: hn, sname: sname}
}

func TestHappyPathAKA(t *testing.T) {
	h := newHarness(t, 100, 99)

	suciFrame, err := h.ue.ConcealIdentity()
	require.NoError(t, err)

	req, err := h.sn.RequestChallenge(suciFrame)
	require.NoError(t, err)
	require.Equal(t, h.sname, req.SName)

	challenge, err := h.hn.IssueChallenge(req)
	require.NoError(t, err)

	pair, err := h.sn.RelayChallenge(challenge)
	require.NoError(t, err)

	resp, err := h.ue.HandleChallenge(pair)
	require.NoError(t, err)
	resFrame, ok := resp.(*ResponseFrame)
	require.True(t, ok, "expected a RES* frame on a fresh sqn")

	fwd, err := h.sn.HandleUEResponse(resFrame)
	require.NoError(t, err)
	reqFrame, ok := fwd.(*ResponseRequestFrame)
	require.True(t, ok)

	supiFrame, err := h.hn.DecideResponse(reqFrame)
	require.NoError(t, err)
	require.Equal(t, "supi", supiFrame.SUPI)

	require.Equal(t, uint64(101), mustUint64(t, h.rec.SQN))
	require.Equal(t, uint64(100), mustUint64(t, h.ue.SQN()))
}

func mustUint64(t *testing.T, sqn *primitive.SequenceNumber) uint64 {
	t.Helper()
	v, ok := sqn.Uint64()
	require.True(t, ok)
	return v
}

func TestReplayTriggersSyncFailure(t *testing.T) {
	h := newHarness(t, 100, 99)

	suciFrame, err := h.ue.ConcealIdentity()
	require.NoError(t, err)
	req, err := h.sn.RequestChallenge(suciFrame)
	require.NoError(t, err)
	challenge, err := h.hn.IssueChallenge(req)
	require.NoError(t, err)
	pair, err := h.sn.RelayChallenge(challenge)
	require.NoError(t, err)

	resp, err := h.ue.HandleChallenge(pair)
	require.NoError(t, err)
	_, ok := resp.(*ResponseFrame)
	require.True(t, ok)
	require.Equal(t, uint64(100), mustUint64(t, h.ue.SQN()))
	require.Equal(t, uint64(101), mustUint64(t, h.rec.SQN))

	// Replay the exact same (R, AUTN) against a second UE session sharing
	// the same long-term state: xSQN_HN = 100 is no longer > SQN_UE = 100.
	replaySN := NewServingNetwork(h.sname, nil)
	replayUE := NewSubscriber("supi", h.rec.K, h.ue.SQN(), h.sname, nil, nil)
	replayUE.state = SubscriberAwaitChallenge
	replaySN.state = ServingNetworkAwaitResponse
	replaySN.r = pair.R
	replaySN.suci = req.SUCI

	replayResp, err := replayUE.HandleChallenge(pair)
	require.NoError(t, err)
	syncFrame, ok := replayResp.(*SyncFailureFrame)
	require.True(t, ok, "expected a replayed challenge to trigger sync failure")

	fwd, err := replaySN.HandleUEResponse(syncFrame)
	require.NoError(t, err)
	syncReq, ok := fwd.(*SyncFailureRequestFrame)
	require.True(t, ok)

	err = h.hn.DecideSyncFailure(syncReq)
	require.NoError(t, err)
	require.Equal(t, uint64(101), mustUint64(t, h.rec.SQN))
}

func TestMacTamperingTriggersMacFailure(t *testing.T) {
	h := newHarness(t, 100, 99)

	suciFrame, err := h.ue.ConcealIdentity()
	require.NoError(t, err)
	req, err := h.sn.RequestChallenge(suciFrame)
	require.NoError(t, err)
	challenge, err := h.hn.IssueChallenge(req)
	require.NoError(t, err)

	challenge.AUTN.Mac[0] ^= 0xff

	pair, err := h.sn.RelayChallenge(challenge)
	require.NoError(t, err)

	resp, err := h.ue.HandleChallenge(pair)
	require.NoError(t, err)
	_, ok := resp.(*MacFailureFrame)
	require.True(t, ok)

	fwd, err := h.sn.HandleUEResponse(resp)
	require.NoError(t, err)
	require.Nil(t, fwd)
}

func TestHomeNetworkRejectsUnknownIdentity(t *testing.T) {
	h := newHarness(t, 100, 99)
	otherKey, err := suci.GenerateHomeNetworkKey()
	require.NoError(t, err)
	enc, err := suci.NewEncryptor(otherKey.PublicKeyBytes())
	require.NoError(t, err)

	ct, err := enc.Encrypt("supi")
	require.NoError(t, err)

	_, err = h.hn.IssueChallenge(&SUCIRequestFrame{SUCI: ct, SName: h.sname})
	require.ErrorIs(t, err, ErrIdentityReject)
}
