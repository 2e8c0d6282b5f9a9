package scan

// State is a read-only snapshot of a Session's cross-line state.
type State struct {
	InComment     bool
	Depth         int
	StatementSeen []bool
	Pairing       PairingState
	// Lines is the number of lines fed so far.
	Lines uint32
}
