package aka

import (
	"crypto/subtle"
	"sync"

	"github.com/pion/logging"

	"aaka/primitive"
	"aaka/suci"
)

// SubscriberState is the UE role's state:
// Idle -> AwaitChallenge -> Responded -> Closed.
type SubscriberState int

const (
	SubscriberIdle SubscriberState = iota
	SubscriberAwaitChallenge
	SubscriberResponded
	SubscriberClosed
)

// Subscriber is the UE role. It is single-threaded and handles exactly one
// session; the mutex only guards against a caller misusing it from two
// goroutines, it is not a concurrency feature of the protocol itself.
type Subscriber struct {
	mu    sync.Mutex
	state SubscriberState

	supi  string
	k     []byte
	sqnUE *primitive.SequenceNumber
	sname string
	enc   suci.Encryptor
	log   logging.LeveledLogger
}

// NewSubscriber constructs a UE role for one subscription. enc conceals
// SUPI under the home network's public key; a nil log disables logging.
func NewSubscriber(supi string, k []byte, sqnUE *primitive.SequenceNumber, sname string, enc suci.Encryptor, log logging.LeveledLogger) *Subscriber {
	return &Subscriber{
		state: SubscriberIdle,
		supi:  supi,
		k:     k,
		sqnUE: sqnUE,
		sname: sname,
		enc:   enc,
		log:   ensureLogger(log),
	}
}

// ConcealIdentity computes SUCI := ECIES.Encrypt(pk_HN, SUPI) and
// transitions Idle -> AwaitChallenge. SUPI itself never appears in the
// returned Frame.
func (s *Subscriber) ConcealIdentity() (*SUCIFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SubscriberIdle {
		return nil, ErrProtocolViolation
	}
	ct, err := s.enc.Encrypt(s.supi)
	if err != nil {
		return nil, err
	}
	s.state = SubscriberAwaitChallenge
	s.log.Info("aka/ue: concealed identity, awaiting challenge")
	return &SUCIFrame{SUCI: ct}, nil
}

// HandleChallenge verifies AUTN's MAC, checks SQN freshness, and responds
// with exactly one of ResponseFrame, SyncFailureFrame, or MacFailureFrame.
// The Mac_Failure and Sync_Failure paths leave the subscriber Closed; the
// fresh-SQN path leaves it in Responded.
func (s *Subscriber) HandleChallenge(f *ChallengePairFrame) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SubscriberAwaitChallenge {
		return nil, ErrProtocolViolation
	}

	akPrime := primitive.F5(s.k, f.R)
	xsqnBytes, err := primitive.XORWide(f.AUTN.Conc, akPrime)
	if err != nil {
		return nil, err
	}
	xsqn, err := primitive.SequenceNumberFromBytes(xsqnBytes)
	if err != nil {
		return nil, err
	}
	macPrime := primitive.F1(s.k, xsqn.Bytes(), f.R)

	if subtle.ConstantTimeCompare(macPrime, f.AUTN.Mac) != 1 {
		s.state = SubscriberClosed
		s.log.Warn("aka/ue: mac verification failed")
		return &MacFailureFrame{}, nil
	}

	if s.sqnUE.Cmp(xsqn) < 0 {
		s.sqnUE = xsqn
		resStar := primitive.Challenge(s.k, f.R, s.sname)
		s.state = SubscriberResponded
		s.log.Info("aka/ue: sequence number fresh, responding")
		return &ResponseFrame{RESStar: resStar}, nil
	}

	concStar, err := primitive.XORWide(s.sqnUE.Bytes(), primitive.F5Star(s.k, f.R))
	if err != nil {
		return nil, err
	}
	macs := primitive.F1Star(s.k, s.sqnUE.Bytes(), f.R)
	s.state = SubscriberClosed
	s.log.Warn("aka/ue: sequence number stale, signaling sync failure")
	return &SyncFailureFrame{AUTS: AUTS{ConcStar: concStar, Macs: macs}}, nil
}

// SQN reports the subscriber's current SQN_UE, for tests and CLI tracing.
func (s *Subscriber) SQN() *primitive.SequenceNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sqnUE
}

// State reports the subscriber's current protocol state.
func (s *Subscriber) State() SubscriberState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
