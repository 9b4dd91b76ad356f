package aka

// Frame is the sum type carried over the AKA link. Each wire payload gets
// its own Frame implementation; the role state machines consume and produce
// Frames and never see a socket or a marshaling format directly
// (cmd/aka/transport supplies both).
type Frame interface{ isFrame() }

// AUTN is the authentication token pair the home network issues:
// CONC = SQN_HN XOR f5(K,R), MAC = f1(K, SQN_HN, R).
type AUTN struct {
	Conc []byte
	Mac  []byte
}

// AUTS is the resynchronization token pair the subscriber issues on a
// sequence-number mismatch: CONC* = SQN_UE XOR f5*(K,R), MACS = f1*(K,SQN_UE,R).
type AUTS struct {
	ConcStar []byte
	Macs     []byte
}

// SUCIFrame carries the subscriber's concealed identity, UE -> SN.
type SUCIFrame struct{ SUCI []byte }

// SUCIRequestFrame carries the concealed identity plus the serving
// network's name, SN -> HN.
type SUCIRequestFrame struct {
	SUCI  []byte
	SName string
}

// ChallengeFrame is the home network's full challenge, HN -> SN.
type ChallengeFrame struct {
	R     []byte
	AUTN  AUTN
	HXRES []byte
	KSEAF []byte
}

// ChallengePairFrame is the forwarded challenge, SN -> UE: the serving
// network retains HXRES*/K_SEAF and forwards only (R, AUTN).
type ChallengePairFrame struct {
	R    []byte
	AUTN AUTN
}

// ResponseFrame carries RES*, UE -> SN.
type ResponseFrame struct{ RESStar []byte }

// MacFailureFrame signals a failed MAC check, UE -> SN.
type MacFailureFrame struct{}

// SyncFailureFrame carries AUTS, UE -> SN.
type SyncFailureFrame struct{ AUTS AUTS }

// ResponseRequestFrame forwards RES* to the home network alongside the
// SUCI that identifies the pending session, SN -> HN.
type ResponseRequestFrame struct {
	RESStar []byte
	SUCI    []byte
}

// SyncFailureRequestFrame forwards AUTS and the original R to the home
// network, SN -> HN.
type SyncFailureRequestFrame struct {
	AUTS AUTS
	R    []byte
	SUCI []byte
}

// SUPIFrame is the home network's release of the subscriber's permanent
// identifier back to the serving network on a successful run, HN -> SN.
type SUPIFrame struct{ SUPI string }

func (*SUCIFrame) isFrame()               {}
func (*SUCIRequestFrame) isFrame()        {}
func (*ChallengeFrame) isFrame()          {}
func (*ChallengePairFrame) isFrame()      {}
func (*ResponseFrame) isFrame()           {}
func (*MacFailureFrame) isFrame()         {}
func (*SyncFailureFrame) isFrame()        {}
func (*ResponseRequestFrame) isFrame()    {}
func (*SyncFailureRequestFrame) isFrame() {}
func (*SUPIFrame) isFrame()               {}
