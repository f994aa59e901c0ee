// Package escape decodes a terminal byte stream into typed sequences.
//
// Decode is stateless and works on whatever bytes the caller has; when the
// buffer ends inside a sequence it returns ErrIncomplete and consumes nothing.
// Decoder keeps the unconsumed tail between reads for callers that are fed
// from a transport, and Reader adapts an io.Reader for blocking use.
package escape

import (
	"fmt"
	"strconv"
	"strings"
)

// Unset marks a parameter position that carried no digits, as in "1;;3".
const Unset = -1

// Kind identifies the variant of a Sequence.
type Kind int

const (
	KindCharacter Kind = iota
	KindEscape
	KindCSI
	KindOSC
	KindDCS
	KindSS2
	KindSS3
	KindCharacterSet
	KindCharacterSize
	KindCompliance
	KindUnicode
	KindVT52MoveCursor
)

var kindNames = map[Kind]string{
	KindCharacter:      "Char",
	KindEscape:         "ESC",
	KindCSI:            "CSI",
	KindOSC:            "OSC",
	KindDCS:            "DCS",
	KindSS2:            "SS2",
	KindSS3:            "SS3",
	KindCharacterSet:   "CharacterSet",
	KindCharacterSize:  "CharacterSize",
	KindCompliance:     "Compliance",
	KindUnicode:        "Unicode",
	KindVT52MoveCursor: "VT52MoveCursor",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Sequence is one decoded terminal command.
type Sequence struct {
	Kind Kind

	// Params holds numeric parameters in order. Inner empty positions are
	// Unset; an empty trailing position is not recorded.
	Params []int

	// Modifier is the intermediate byte ('$', '"', '\'' or ' '), zero if none.
	Modifier byte

	// Command is the identifier: modifier plus final byte for CSI, the
	// string text for OSC, modifier plus text for DCS, the selector byte for
	// ESC, SS2, SS3, compliance and unicode sequences.
	Command string

	IsQuery  bool // '?'
	IsSend   bool // '>'
	IsBang   bool // '!'
	IsEquals bool // '='

	// PreCommands are control characters (BS, CR, VT) that arrived inside
	// the sequence. They apply before the sequence itself.
	PreCommands []Sequence

	Rune rune

	Set      CharacterSet
	Register Register
	Size     CharacterSize

	// Row and Column are zero based (VT52 move cursor).
	Row    int
	Column int
}

// Param returns parameter i, or def when it is missing or Unset.
func (s Sequence) Param(i, def int) int {
	if i < 0 || i >= len(s.Params) || s.Params[i] == Unset {
		return def
	}
	return s.Params[i]
}

// Count is Param with zero also mapped to def, the convention for
// repetition counts such as CUU or ICH.
func (s Sequence) Count(i, def int) int {
	if v := s.Param(i, def); v != 0 {
		return v
	}
	return def
}

func (s Sequence) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	switch s.Kind {
	case KindCharacter:
		fmt.Fprintf(&b, " %q", s.Rune)
		return b.String()
	case KindCharacterSet:
		fmt.Fprintf(&b, " %s=%s", s.Register, s.Set)
		return b.String()
	case KindCharacterSize:
		fmt.Fprintf(&b, " %s", s.Size)
		return b.String()
	case KindVT52MoveCursor:
		fmt.Fprintf(&b, " row=%d col=%d", s.Row, s.Column)
		return b.String()
	}

	b.WriteByte(' ')
	switch {
	case s.IsQuery:
		b.WriteByte('?')
	case s.IsSend:
		b.WriteByte('>')
	case s.IsBang:
		b.WriteByte('!')
	case s.IsEquals:
		b.WriteByte('=')
	}
	for i, p := range s.Params {
		if i > 0 {
			b.WriteByte(';')
		}
		if p != Unset {
			b.WriteString(strconv.Itoa(p))
		}
	}
	if s.Kind == KindOSC || s.Kind == KindDCS {
		if len(s.Params) > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Quote(s.Command))
	} else {
		b.WriteString(s.Command)
	}
	return b.String()
}
