package telnet

import "fmt"

// ProtocolError is a negotiation the engine cannot honour. It ends the
// session; the chunk it arrived in is not processed further.
type ProtocolError struct {
	Option byte
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("telnet: %s: %s", OptionName(e.Option), e.Reason)
}
