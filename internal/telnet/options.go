package telnet

// OptionState is the negotiated state of one option on one side.
type OptionState uint8

const (
	StateUnknown OptionState = iota
	StateEnabled
	StateDisabled
)

func (s OptionState) String() string {
	switch s {
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	}
	return "unknown"
}

// OptionTable records negotiation results per option code. Local is what we
// perform (changed by DO/DONT), Remote is what the peer performs (changed by
// WILL/WONT).
type OptionTable struct {
	local  [256]OptionState
	remote [256]OptionState
}

// Local returns the state of an option on our side.
func (t *OptionTable) Local(opt byte) OptionState { return t.local[opt] }

// Remote returns the state of an option on the peer side.
func (t *OptionTable) Remote(opt byte) OptionState { return t.remote[opt] }

func (t *OptionTable) setLocal(opt byte, enabled bool) {
	t.local[opt] = stateOf(enabled)
}

func (t *OptionTable) setRemote(opt byte, enabled bool) {
	t.remote[opt] = stateOf(enabled)
}

func (t *OptionTable) reset() {
	*t = OptionTable{}
}

func stateOf(enabled bool) OptionState {
	if enabled {
		return StateEnabled
	}
	return StateDisabled
}
