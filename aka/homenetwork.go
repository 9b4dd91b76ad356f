package aka

import (
	"crypto/subtle"
	"encoding/hex"
	"sync"

	"github.com/pion/logging"

	"aaka/primitive"
	"aaka/suci"
)

// HomeNetworkState is the HN role's state:
// AwaitSUCI -> ChallengeIssued -> Decided -> Closed.
type HomeNetworkState int

const (
	HomeNetworkAwaitSUCI HomeNetworkState = iota
	HomeNetworkChallengeIssued
	HomeNetworkDecided
	HomeNetworkClosed
)

// pendingChallenge is the XRES* (and recovered SUPI) the home network
// caches between issuing a challenge and receiving the matching response,
// keyed by the SUCI that identified the session, so that a SUPI release
// maps back to the requester.
type pendingChallenge struct {
	xres []byte
	supi string
}

// HomeNetwork is the HN role. SQN_HN lives on each SubscriberRecord rather
// than on HomeNetwork itself, one sequence-number pair per subscriber;
// sqnMu serializes {read, compute AUTN, increment} across concurrent
// sessions so that each issued challenge observes a distinct SQN_HN.
type HomeNetwork struct {
	dir HomeNetworkDirectory
	dec suci.Decryptor
	log logging.LeveledLogger

	sqnMu sync.Mutex

	sessionsMu sync.Mutex
	sessions   map[string]pendingChallenge
}

// NewHomeNetwork constructs an HN role backed by dir (subscriber lookup)
// and dec (SUCI decryption under the home network's static key).
func NewHomeNetwork(dir HomeNetworkDirectory, dec suci.Decryptor, log logging.LeveledLogger) *HomeNetwork {
	return &HomeNetwork{
		dir:      dir,
		dec:      dec,
		log:      ensureLogger(log),
		sessions: make(map[string]pendingChallenge),
	}
}

func sessionKey(suciBytes []byte) string { return hex.EncodeToString(suciBytes) }

// identify decrypts a SUCI and looks up its subscriber record: the
// plaintext is parsed as a structured Identity and looked up in dir.
func (hn *HomeNetwork) identify(suciBytes []byte) (*SubscriberRecord, error) {
	supi, err := hn.dec.Decrypt(suciBytes)
	if err != nil {
		return nil, ErrIdentityReject
	}
	rec, ok := hn.dir.Lookup(Identity{SUPI: supi})
	if !ok {
		return nil, ErrIdentityReject
	}
	return rec, nil
}

// IssueChallenge decrypts the SUCI, draws R, computes
// AUTN/XRES*/HXRES*/K_SEAF under the subscriber's current SQN_HN, advances
// SQN_HN exactly once, and caches XRES* for the later response (or sync)
// check.
func (hn *HomeNetwork) IssueChallenge(f *SUCIRequestFrame) (*ChallengeFrame, error) {
	rec, err := hn.identify(f.SUCI)
	if err != nil {
		hn.log.Warn("aka/hn: identity reject")
		return nil, err
	}

	r := primitive.Random(primitive.SQNWidth)

	hn.sqnMu.Lock()
	sqn := rec.SQN
	ak := primitive.F5(rec.K, r)
	conc, err := primitive.XORWide(sqn.Bytes(), ak)
	if err != nil {
		hn.sqnMu.Unlock()
		return nil, err
	}
	mac := primitive.F1(rec.K, sqn.Bytes(), r)
	xres := primitive.Challenge(rec.K, r, f.SName)
	kseaf := primitive.KeySeed(rec.K, r, sqn.Bytes(), []byte(f.SName))
	rec.SQN = sqn.Next()
	hn.sqnMu.Unlock()

	hxres := primitive.SHA256Pair(r, xres)

	hn.sessionsMu.Lock()
	hn.sessions[sessionKey(f.SUCI)] = pendingChallenge{xres: xres, supi: rec.SUPI}
	hn.sessionsMu.Unlock()

	hn.log.Info("aka/hn: issued challenge")
	return &ChallengeFrame{R: r, AUTN: AUTN{Conc: conc, Mac: mac}, HXRES: hxres, KSEAF: kseaf}, nil
}

// DecideResponse compares the forwarded RES* against the cached XRES* and,
// on a match, releases SUPI to the serving network.
func (hn *HomeNetwork) DecideResponse(f *ResponseRequestFrame) (*SUPIFrame, error) {
	hn.sessionsMu.Lock()
	pc, ok := hn.sessions[sessionKey(f.SUCI)]
	delete(hn.sessions, sessionKey(f.SUCI))
	hn.sessionsMu.Unlock()
	if !ok {
		return nil, ErrProtocolViolation
	}

	if subtle.ConstantTimeCompare(pc.xres, f.RESStar) != 1 {
		hn.log.Warn("aka/hn: res* mismatch")
		return nil, ErrResMismatch
	}
	hn.log.Info("aka/hn: releasing supi")
	return &SUPIFrame{SUPI: pc.supi}, nil
}

// DecideSyncFailure recomputes AK* and xMACS against the claimed AUTS and,
// if they match, resynchronizes SQN_HN := xSQN_UE_observed + 1.
func (hn *HomeNetwork) DecideSyncFailure(f *SyncFailureRequestFrame) error {
	rec, err := hn.identify(f.SUCI)
	if err != nil {
		return err
	}

	hn.sessionsMu.Lock()
	delete(hn.sessions, sessionKey(f.SUCI))
	hn.sessionsMu.Unlock()

	akStar := primitive.F5Star(rec.K, f.R)
	xsqnBytes, err := primitive.XORWide(f.AUTS.ConcStar, akStar)
	if err != nil {
		return err
	}
	xsqn, err := primitive.SequenceNumberFromBytes(xsqnBytes)
	if err != nil {
		return err
	}
	xmacs := primitive.F1Star(rec.K, xsqn.Bytes(), f.R)

	if subtle.ConstantTimeCompare(xmacs, f.AUTS.Macs) != 1 {
		hn.log.Warn("aka/hn: resync rejected")
		return ErrResyncReject
	}

	hn.sqnMu.Lock()
	rec.SQN = xsqn.Next()
	hn.sqnMu.Unlock()
	hn.log.Info("aka/hn: resynchronized sqn_hn")
	return nil
}
