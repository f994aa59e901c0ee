package telnet

// Subnegotiation builds IAC SB opt data IAC SE, doubling any IAC in data.
func Subnegotiation(opt byte, data ...byte) []byte {
	out := make([]byte, 0, len(data)+5)
	out = append(out, IAC, SB, opt)
	for _, b := range data {
		if b == IAC {
			out = append(out, IAC)
		}
		out = append(out, b)
	}
	return append(out, IAC, SE)
}

// Command builds a three byte option command such as IAC WILL opt.
func Command(cmd, opt byte) []byte {
	return []byte{IAC, cmd, opt}
}

// Escape doubles IAC bytes so data can be sent as payload.
func Escape(data []byte) []byte {
	n := 0
	for _, b := range data {
		if b == IAC {
			n++
		}
	}
	if n == 0 {
		return data
	}
	out := make([]byte, 0, len(data)+n)
	for _, b := range data {
		if b == IAC {
			out = append(out, IAC)
		}
		out = append(out, b)
	}
	return out
}
