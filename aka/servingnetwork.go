package aka

import (
	"bytes"
	"sync"

	"github.com/pion/logging"

	"aaka/primitive"
)

// ServingNetworkState is the SN role's state:
// AwaitSUCI -> ForwardingChallenge -> AwaitResponse -> Closed.
type ServingNetworkState int

const (
	ServingNetworkAwaitSUCI ServingNetworkState = iota
	ServingNetworkForwardingChallenge
	ServingNetworkAwaitResponse
	ServingNetworkClosed
)

// ServingNetwork is the SN role: a relay that never sees the SUPI and only
// learns it if the home network chooses to release it at the end.
type ServingNetwork struct {
	mu    sync.Mutex
	state ServingNetworkState

	sname string
	suci  []byte
	r     []byte
	hxres []byte
	kseaf []byte
	log   logging.LeveledLogger
}

// NewServingNetwork constructs an SN role identified by sname, the serving
// network name bound into RES*/XRES* and K_SEAF.
func NewServingNetwork(sname string, log logging.LeveledLogger) *ServingNetwork {
	return &ServingNetwork{state: ServingNetworkAwaitSUCI, sname: sname, log: ensureLogger(log)}
}

// RequestChallenge relays the UE's SUCI to the home network as
// (SUCI, sname).
func (sn *ServingNetwork) RequestChallenge(f *SUCIFrame) (*SUCIRequestFrame, error) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	if sn.state != ServingNetworkAwaitSUCI {
		return nil, ErrProtocolViolation
	}
	sn.suci = f.SUCI
	sn.state = ServingNetworkForwardingChallenge
	return &SUCIRequestFrame{SUCI: f.SUCI, SName: sn.sname}, nil
}

// RelayChallenge forwards (R, AUTN) to the UE, retaining HXRES*/K_SEAF for
// the later RES* check.
func (sn *ServingNetwork) RelayChallenge(f *ChallengeFrame) (*ChallengePairFrame, error) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	if sn.state != ServingNetworkForwardingChallenge {
		return nil, ErrProtocolViolation
	}
	sn.r = f.R
	sn.hxres = f.HXRES
	sn.kseaf = f.KSEAF
	sn.state = ServingNetworkAwaitResponse
	return &ChallengePairFrame{R: f.R, AUTN: f.AUTN}, nil
}

// HandleUEResponse dispatches the UE's answer: on RES* it verifies
// SHA-256(R || RES*) == HXRES* before forwarding to the home network; on
// Sync_Failure it forwards unconditionally (the home network verifies
// MACS); on Mac_Failure it logs and ends the session. A nil, nil return
// means the session ended with nothing to forward (the Mac_Failure case).
func (sn *ServingNetwork) HandleUEResponse(f Frame) (Frame, error) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	if sn.state != ServingNetworkAwaitResponse {
		return nil, ErrProtocolViolation
	}
	defer func() { sn.state = ServingNetworkClosed }()

	switch v := f.(type) {
	case *ResponseFrame:
		h := primitive.SHA256Pair(sn.r, v.RESStar)
		if !bytes.Equal(h, sn.hxres) {
			sn.log.Warn("aka/sn: res* hash does not match hxres*")
			return nil, ErrResMismatch
		}
		return &ResponseRequestFrame{RESStar: v.RESStar, SUCI: sn.suci}, nil
	case *SyncFailureFrame:
		sn.log.Warn("aka/sn: forwarding sync failure to home network")
		return &SyncFailureRequestFrame{AUTS: v.AUTS, R: sn.r, SUCI: sn.suci}, nil
	case *MacFailureFrame:
		sn.log.Warn("aka/sn: mac failure reported by subscriber, ending session")
		return nil, nil
	default:
		return nil, ErrProtocolViolation
	}
}

// SessionKey returns the K_SEAF retained from the home network's challenge,
// for the serving network to bind into subsequent session traffic.
func (sn *ServingNetwork) SessionKey() []byte {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.kseaf
}

// State reports the serving network's current protocol state.
func (sn *ServingNetwork) State() ServingNetworkState {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.state
}
