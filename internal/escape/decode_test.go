package escape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, in string, utf8 bool) Sequence {
	t.Helper()
	seq, n, err := Decode([]byte(in), utf8)
	require.NoError(t, err)
	assert.Equal(t, len(in), n, "consumed")
	return seq
}

func TestDecodeCSI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Sequence
	}{
		{"cursor up", "\x1b[5A", Sequence{Kind: KindCSI, Params: []int{5}, Command: "A"}},
		{"no params", "\x1b[m", Sequence{Kind: KindCSI, Command: "m"}},
		{"private mode", "\x1b[?25h", Sequence{Kind: KindCSI, Params: []int{25}, Command: "h", IsQuery: true}},
		{"send device attributes", "\x1b[>c", Sequence{Kind: KindCSI, Command: "c", IsSend: true}},
		{"soft reset", "\x1b[!p", Sequence{Kind: KindCSI, Command: "p", IsBang: true}},
		{"tertiary attributes", "\x1b[=c", Sequence{Kind: KindCSI, Command: "c", IsEquals: true}},
		{"empty inner parameter", "\x1b[1;;3H", Sequence{Kind: KindCSI, Params: []int{1, Unset, 3}, Command: "H"}},
		{"leading empty parameter", "\x1b[;5H", Sequence{Kind: KindCSI, Params: []int{Unset, 5}, Command: "H"}},
		{"trailing empty parameter", "\x1b[5;H", Sequence{Kind: KindCSI, Params: []int{5}, Command: "H"}},
		{"modifier", "\x1b[2 q", Sequence{Kind: KindCSI, Params: []int{2}, Modifier: ' ', Command: " q"}},
		{"request mode", "\x1b[?2026$p", Sequence{Kind: KindCSI, Params: []int{2026}, Modifier: '$', Command: "$p", IsQuery: true}},
		{"sgr", "\x1b[38;5;196m", Sequence{Kind: KindCSI, Params: []int{38, 5, 196}, Command: "m"}},
		{"multi-digit second parameter", "\x1b[1;23m", Sequence{Kind: KindCSI, Params: []int{1, 23}, Command: "m"}},
		{"nul dropped", "\x1b[1\x00;2H", Sequence{Kind: KindCSI, Params: []int{1, 2}, Command: "H"}},
		{"huge parameter clamped", "\x1b[99999999999A", Sequence{Kind: KindCSI, Params: []int{maxParam}, Command: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeOne(t, tt.in, false))
		})
	}
}

func TestDecodeCSIPreCommands(t *testing.T) {
	seq := decodeOne(t, "\x1b[1\r;2\bH", false)
	assert.Equal(t, []int{1, 2}, seq.Params)
	assert.Equal(t, "H", seq.Command)
	require.Len(t, seq.PreCommands, 2)
	assert.Equal(t, '\r', seq.PreCommands[0].Rune)
	assert.Equal(t, '\b', seq.PreCommands[1].Rune)
}

func TestDecodeCSITwoModifiers(t *testing.T) {
	_, n, err := Decode([]byte("\x1b[3$$p"), false)
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
	de := err.(*DecodeError)
	assert.Equal(t, 4, de.Offset)
	assert.Equal(t, 5, n)
}

func TestDecodeOSC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Sequence
	}{
		{"window title bel", "\x1b]0;hello world\x07", Sequence{Kind: KindOSC, Params: []int{0}, Command: "hello world"}},
		{"window title st", "\x1b]2;t\x9c", Sequence{Kind: KindOSC, Params: []int{2}, Command: "t"}},
		{"seven bit st", "\x1b]1;icon\x1b\\", Sequence{Kind: KindOSC, Params: []int{1}, Command: "icon"}},
		{"empty text", "\x1b]0;\x07", Sequence{Kind: KindOSC, Params: []int{0}}},
		{"palette query", "\x1b]4;1;?\x07", Sequence{Kind: KindOSC, Params: []int{4, 1}, Command: "?"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeOne(t, tt.in, false))
		})
	}
}

func TestDecodeOSCSemicolonWithoutParameter(t *testing.T) {
	_, _, err := Decode([]byte("\x1b];title\x07"), false)
	assert.True(t, IsDecodeError(err))
}

func TestDecodeOSCUTF8(t *testing.T) {
	// U+015C encodes as C5 9C; the 0x9C byte must not end the string.
	seq := decodeOne(t, "\x1b]0;Ŝé\x07", true)
	assert.Equal(t, "Ŝé", seq.Command)
}

func TestDecodeDCS(t *testing.T) {
	seq := decodeOne(t, "\x1bP$qm\x1b\\", false)
	assert.Equal(t, KindDCS, seq.Kind)
	assert.Equal(t, "$qm", seq.Command)
	assert.Equal(t, byte('$'), seq.Modifier)

	seq = decodeOne(t, "\x901;2|text\x9c", false)
	assert.Equal(t, KindDCS, seq.Kind)
	assert.Equal(t, []int{1, 2}, seq.Params)
	assert.Equal(t, "|text", seq.Command)
}

func TestDecodeDCSBadTerminator(t *testing.T) {
	_, _, err := Decode([]byte("\x1bPqdata\x1bx"), false)
	assert.True(t, IsDecodeError(err))
}

func TestDecodeCharacterSet(t *testing.T) {
	tests := []struct {
		in  string
		reg Register
		set CharacterSet
	}{
		{"\x1b(0", RegisterG0, SetDECSpecialGraphics},
		{"\x1b(B", RegisterG0, SetUSASCII},
		{"\x1b)A", RegisterG1, SetLatin1},
		{"\x1b*>", RegisterG2, SetDECTechnical},
		{"\x1b+<", RegisterG3, SetDECSupplemental},
		{"\x1b-K", RegisterVT300G1, SetGerman},
		{"\x1b.`", RegisterVT300G2, SetNorwegianDanish},
		{"\x1b/=", RegisterVT300G3, SetSwiss},
		{"\x1b(%5", RegisterG0, SetDECSupplementalGraphic},
		{"\x1b(%6", RegisterG0, SetPortuguese},
		{"\x1b(%9", RegisterG0, SetUSASCII},
		{"\x1b(j", RegisterG0, SetUSASCII},
	}
	for _, tt := range tests {
		t.Run(tt.in[1:], func(t *testing.T) {
			seq := decodeOne(t, tt.in, false)
			assert.Equal(t, KindCharacterSet, seq.Kind)
			assert.Equal(t, tt.reg, seq.Register)
			assert.Equal(t, tt.set, seq.Set)
		})
	}
}

func TestDecodeCharacterSize(t *testing.T) {
	tests := map[string]CharacterSize{
		"\x1b#3": SizeDoubleHeightTop,
		"\x1b#4": SizeDoubleHeightBottom,
		"\x1b#5": SizeSingleWidth,
		"\x1b#6": SizeDoubleWidth,
		"\x1b#8": SizeAlignmentTest,
		"\x1b#z": SizeSingleWidth,
	}
	for in, want := range tests {
		seq := decodeOne(t, in, false)
		assert.Equal(t, KindCharacterSize, seq.Kind)
		assert.Equal(t, want, seq.Size, "%q", in)
	}
}

func TestDecodeSimpleSequences(t *testing.T) {
	tests := []struct {
		in   string
		want Sequence
	}{
		{"\x1bM", Sequence{Kind: KindEscape, Command: "M"}},
		{"\x1b7", Sequence{Kind: KindEscape, Command: "7"}},
		{"\x1b F", Sequence{Kind: KindCompliance, Command: "F"}},
		{"\x1b%G", Sequence{Kind: KindUnicode, Command: "G"}},
		{"\x8eA", Sequence{Kind: KindSS2, Command: "A"}},
		{"\x8fP", Sequence{Kind: KindSS3, Command: "P"}},
		{"\x1bY!#", Sequence{Kind: KindVT52MoveCursor, Row: 1, Column: 3}},
		{"a", Sequence{Kind: KindCharacter, Rune: 'a'}},
		{"\r", Sequence{Kind: KindCharacter, Rune: '\r'}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeOne(t, tt.in, false), "%q", tt.in)
	}
}

func TestDecodeCharacterEncoding(t *testing.T) {
	seq := decodeOne(t, "é", true)
	assert.Equal(t, 'é', seq.Rune)

	seq, n, err := Decode([]byte("é"), false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, rune(0xc3), seq.Rune)

	_, _, err = Decode([]byte{0xe2, 0x82}, true)
	assert.Equal(t, ErrIncomplete, err)

	seq, n, err = Decode([]byte{0xff, 'a'}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, '�', seq.Rune)
}

func TestDecodeIncomplete(t *testing.T) {
	for _, in := range []string{
		"",
		"\x1b",
		"\x1b[",
		"\x1b[12;",
		"\x1b[?25",
		"\x1b]0;title",
		"\x1b]0;title\x1b",
		"\x1bPq",
		"\x1b(",
		"\x1b(%",
		"\x1bY!",
		"\x1b#",
		"\x8e",
	} {
		seq, n, err := Decode([]byte(in), false)
		assert.Equal(t, ErrIncomplete, err, "%q", in)
		assert.Zero(t, n, "%q", in)
		assert.Equal(t, Sequence{}, seq)
	}
}

func TestResync(t *testing.T) {
	assert.Equal(t, 3, Resync([]byte("abc\x1b[m")))
	assert.Equal(t, 0, Resync([]byte("\rabc")))
	assert.Equal(t, 3, Resync([]byte("abc")))
}

func TestSequenceParam(t *testing.T) {
	seq := Sequence{Kind: KindCSI, Params: []int{Unset, 0, 7}}
	assert.Equal(t, 1, seq.Param(0, 1))
	assert.Equal(t, 0, seq.Param(1, 1))
	assert.Equal(t, 1, seq.Count(1, 1))
	assert.Equal(t, 7, seq.Count(2, 1))
	assert.Equal(t, 9, seq.Param(5, 9))
}

func TestSequenceString(t *testing.T) {
	assert.Equal(t, "CSI ?25h", decodeOne(t, "\x1b[?25h", false).String())
	assert.Equal(t, "CSI 1;;3H", decodeOne(t, "\x1b[1;;3H", false).String())
	assert.Equal(t, `OSC 0;"hi"`, decodeOne(t, "\x1b]0;hi\x07", false).String())
	assert.Equal(t, "CharacterSet G0=DEC-Special-Graphics", decodeOne(t, "\x1b(0", false).String())
}
