package telnet

import "strconv"

// Telnet protocol commands
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Subnegotiation Begin
	GA   byte = 249 // Go Ahead
	EL   byte = 248 // Erase Line
	EC   byte = 247 // Erase Character
	AYT  byte = 246 // Are You There
	AO   byte = 245 // Abort Output
	IP   byte = 244 // Interrupt Process
	BRK  byte = 243 // Break
	DM   byte = 242 // Data Mark
	NOP  byte = 241 // No Operation
	SE   byte = 240 // Subnegotiation End
)

// Telnet options
const (
	OptBinary          byte = 0
	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptStatus          byte = 5
	OptTimingMark      byte = 6
	OptTerminalType    byte = 24
	OptWindowSize      byte = 31 // NAWS
	OptTerminalSpeed   byte = 32
	OptFlowControl     byte = 33
	OptLineMode        byte = 34
	OptXDisplay        byte = 35
	OptEnviron         byte = 36
	OptNewEnviron      byte = 39
	OptComPort         byte = 44 // RFC-2217 COM-PORT-OPTION
)

// Subnegotiation qualifiers (RFC 1091, 1079, 1572)
const (
	IS   byte = 0
	SEND byte = 1
)

var commandNames = map[byte]string{
	DONT: "DONT", DO: "DO", WONT: "WONT", WILL: "WILL", SB: "SB", GA: "GA",
	EL: "EL", EC: "EC", AYT: "AYT", AO: "AO", IP: "IP", BRK: "BRK", DM: "DM",
	NOP: "NOP", SE: "SE", IAC: "IAC",
}

var optionNames = map[byte]string{
	OptBinary: "BINARY", OptEcho: "ECHO", OptSuppressGoAhead: "SGA", OptStatus: "STATUS",
	OptTimingMark: "TIMING-MARK", OptTerminalType: "TTYPE", OptWindowSize: "NAWS",
	OptTerminalSpeed: "TSPEED", OptFlowControl: "LFLOW", OptLineMode: "LINEMODE",
	OptXDisplay: "XDISPLOC", OptEnviron: "ENVIRON", OptNewEnviron: "NEW-ENVIRON",
	OptComPort: "COM-PORT",
}

// CommandName returns a printable name for a command byte.
func CommandName(b byte) string {
	if name, ok := commandNames[b]; ok {
		return name
	}
	return "CMD-" + strconv.Itoa(int(b))
}

// OptionName returns a printable name for an option code.
func OptionName(b byte) string {
	if name, ok := optionNames[b]; ok {
		return name
	}
	return "OPT-" + strconv.Itoa(int(b))
}
