package escape

import "unicode/utf8"

const (
	nul = 0x00
	bel = 0x07
	bs  = 0x08
	vt  = 0x0b
	cr  = 0x0d
	esc = 0x1b
	ss2 = 0x8e
	ss3 = 0x8f
	dcs = 0x90
	st  = 0x9c
)

// maxParam caps accumulated parameter values.
const maxParam = 1<<16 - 1

type cursor struct {
	buf  []byte
	pos  int
	utf8 bool
}

func (c *cursor) next() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrIncomplete
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// fail reports a decode error at the byte just read.
func (c *cursor) fail(reason string) error {
	return &DecodeError{Offset: c.pos - 1, Reason: reason}
}

// Decode decodes one sequence from the start of buf and returns it with the
// number of bytes it occupies. With utf8 set, plain characters are decoded
// as UTF-8 runes; otherwise each byte is one character.
//
// ErrIncomplete means buf ends inside the sequence and n is 0. A
// *DecodeError means the sequence is malformed; n is then the number of bytes
// examined, including the offending one.
func Decode(buf []byte, utf8 bool) (seq Sequence, n int, err error) {
	c := &cursor{buf: buf, utf8: utf8}
	seq, err = c.decode()
	switch {
	case err == ErrIncomplete:
		return Sequence{}, 0, err
	case err != nil:
		return Sequence{}, c.pos, err
	}
	return seq, c.pos, nil
}

func (c *cursor) decode() (Sequence, error) {
	b, err := c.next()
	if err != nil {
		return Sequence{}, err
	}
	switch b {
	case esc:
		return c.escape()
	case ss2:
		return c.single(KindSS2)
	case ss3:
		return c.single(KindSS3)
	case dcs:
		return c.controlString(KindDCS)
	}
	return c.character(b)
}

func (c *cursor) character(b byte) (Sequence, error) {
	if !c.utf8 || b < utf8.RuneSelf {
		return Sequence{Kind: KindCharacter, Rune: rune(b)}, nil
	}
	start := c.pos - 1
	if !utf8.FullRune(c.buf[start:]) {
		return Sequence{}, ErrIncomplete
	}
	r, size := utf8.DecodeRune(c.buf[start:])
	c.pos = start + size
	return Sequence{Kind: KindCharacter, Rune: r}, nil
}

func (c *cursor) single(kind Kind) (Sequence, error) {
	b, err := c.next()
	if err != nil {
		return Sequence{}, err
	}
	return Sequence{Kind: kind, Command: string(rune(b))}, nil
}

func (c *cursor) escape() (Sequence, error) {
	b, err := c.next()
	if err != nil {
		return Sequence{}, err
	}
	switch b {
	case '[':
		return c.csi()
	case ']':
		return c.controlString(KindOSC)
	case 'P':
		return c.controlString(KindDCS)
	case '#':
		n, err := c.next()
		if err != nil {
			return Sequence{}, err
		}
		return Sequence{Kind: KindCharacterSize, Size: characterSize(n), Command: string(rune(n))}, nil
	case ' ':
		return c.single(KindCompliance)
	case '%':
		return c.single(KindUnicode)
	case '(', ')', '*', '+', '-', '.', '/':
		return c.characterSet(registers[b])
	case 'Y':
		row, err := c.next()
		if err != nil {
			return Sequence{}, err
		}
		col, err := c.next()
		if err != nil {
			return Sequence{}, err
		}
		return Sequence{Kind: KindVT52MoveCursor, Row: int(row) - ' ', Column: int(col) - ' '}, nil
	}
	return Sequence{Kind: KindEscape, Command: string(rune(b))}, nil
}

func (c *cursor) characterSet(reg Register) (Sequence, error) {
	b, err := c.next()
	if err != nil {
		return Sequence{}, err
	}
	seq := Sequence{Kind: KindCharacterSet, Register: reg, Set: designator(b), Command: string(rune(b))}
	if b == '%' {
		n, err := c.next()
		if err != nil {
			return Sequence{}, err
		}
		seq.Set = percentDesignator(n)
		seq.Command += string(rune(n))
	}
	return seq, nil
}

func accumulate(cur int, b byte) int {
	if cur == Unset {
		return int(b - '0')
	}
	if cur > maxParam/10 {
		return maxParam
	}
	return cur*10 + int(b-'0')
}

func (c *cursor) csi() (Sequence, error) {
	seq := Sequence{Kind: KindCSI}
	atStart := true
	cur := Unset

	for {
		b, err := c.next()
		if err != nil {
			return Sequence{}, err
		}
		switch {
		case atStart && b == '?':
			seq.IsQuery = true
		case atStart && b == '>':
			seq.IsSend = true
		case atStart && b == '!':
			seq.IsBang = true
		case atStart && b == '=':
			seq.IsEquals = true
		case b == ';':
			atStart = false
			seq.Params = append(seq.Params, cur)
			cur = Unset
		case b >= '0' && b <= '9':
			atStart = false
			cur = accumulate(cur, b)
		case b == '$' || b == '"' || b == ' ' || b == '\'':
			if seq.Modifier != 0 {
				return Sequence{}, c.fail("two modifiers in a row")
			}
			if cur != Unset {
				seq.Params = append(seq.Params, cur)
				cur = Unset
			}
			seq.Modifier = b
		case b == bs || b == cr || b == vt:
			seq.PreCommands = append(seq.PreCommands, Sequence{Kind: KindCharacter, Rune: rune(b)})
		case b == nul:
			// Telnet servers pad CR with NUL.
		default:
			if cur != Unset {
				seq.Params = append(seq.Params, cur)
			}
			if seq.Modifier != 0 {
				seq.Command = string(rune(seq.Modifier))
			}
			seq.Command += string(rune(b))
			return seq, nil
		}
	}
}

// controlString decodes an OSC or DCS: a numeric parameter prefix followed
// by text up to BEL, ST or ESC '\'.
func (c *cursor) controlString(kind Kind) (Sequence, error) {
	seq := Sequence{Kind: kind}
	atStart, reading := true, false
	cur := Unset
	var text []byte

	for {
		b, err := c.next()
		if err != nil {
			return Sequence{}, err
		}

		if !reading {
			switch {
			case atStart && b == '?':
				seq.IsQuery = true
				continue
			case atStart && b == '>':
				seq.IsSend = true
				continue
			case atStart && b == '!':
				seq.IsBang = true
				continue
			case b == ';':
				if cur == Unset {
					return Sequence{}, c.fail("';' without a parameter in " + kind.String())
				}
				seq.Params = append(seq.Params, cur)
				cur = Unset
				continue
			case b >= '0' && b <= '9':
				atStart = false
				cur = accumulate(cur, b)
				continue
			case b == '$' || b == '"' || b == ' ':
				if seq.Modifier != 0 {
					return Sequence{}, c.fail("two modifiers in a row")
				}
				if cur != Unset {
					seq.Params = append(seq.Params, cur)
					cur = Unset
				}
				seq.Modifier = b
				continue
			}
			if cur != Unset {
				seq.Params = append(seq.Params, cur)
				cur = Unset
			}
			reading = true
		}

		switch b {
		case bel, st:
			return finishString(seq, text), nil
		case esc:
			n, err := c.next()
			if err != nil {
				return Sequence{}, err
			}
			if n == '\\' {
				return finishString(seq, text), nil
			}
			if kind == KindDCS {
				return Sequence{}, c.fail("ESC \\ is needed to terminate DCS")
			}
			text = append(text, b, n)
			continue
		}

		if c.utf8 && b >= 0xc0 {
			start := c.pos - 1
			if !utf8.FullRune(c.buf[start:]) {
				return Sequence{}, ErrIncomplete
			}
			_, size := utf8.DecodeRune(c.buf[start:])
			text = append(text, c.buf[start:start+size]...)
			c.pos = start + size
			continue
		}
		text = append(text, b)
	}
}

func finishString(seq Sequence, text []byte) Sequence {
	if seq.Kind == KindDCS && seq.Modifier != 0 {
		seq.Command = string(rune(seq.Modifier))
	}
	seq.Command += string(text)
	return seq
}

// Resync returns the offset of the first ESC or C0 control byte in buf, the
// point at which decoding can resume after a DecodeError. It returns
// len(buf) when there is none.
func Resync(buf []byte) int {
	for i, b := range buf {
		if b < 0x20 {
			return i
		}
	}
	return len(buf)
}
