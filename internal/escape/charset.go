package escape

import "strconv"

// Register is the graphic set slot a character set is designated into.
type Register int

const (
	RegisterG0 Register = iota
	RegisterG1
	RegisterG2
	RegisterG3
	RegisterVT300G1
	RegisterVT300G2
	RegisterVT300G3
)

var registerNames = [...]string{"G0", "G1", "G2", "G3", "VT300-G1", "VT300-G2", "VT300-G3"}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "Register(" + strconv.Itoa(int(r)) + ")"
}

// CharacterSet names a designatable character set.
type CharacterSet int

const (
	SetUSASCII CharacterSet = iota
	SetDECSpecialGraphics
	SetDECAlternateROM
	SetDECAlternateROMSpecial
	SetLatin1
	SetDECSupplemental
	SetDECSupplementalGraphic
	SetDECTechnical
	SetDutch
	SetFinnish
	SetFrench
	SetFrenchCanadian
	SetGerman
	SetItalian
	SetNorwegianDanish
	SetPortuguese
	SetSpanish
	SetSwedish
	SetSwiss
)

var setNames = [...]string{
	"US-ASCII", "DEC-Special-Graphics", "DEC-Alternate-ROM", "DEC-Alternate-ROM-Special",
	"Latin-1", "DEC-Supplemental", "DEC-Supplemental-Graphic", "DEC-Technical",
	"Dutch", "Finnish", "French", "French-Canadian", "German", "Italian",
	"Norwegian-Danish", "Portuguese", "Spanish", "Swedish", "Swiss",
}

func (c CharacterSet) String() string {
	if int(c) < len(setNames) {
		return setNames[c]
	}
	return "CharacterSet(" + strconv.Itoa(int(c)) + ")"
}

// CharacterSize is the line attribute selected by ESC #.
type CharacterSize int

const (
	SizeSingleWidth CharacterSize = iota
	SizeDoubleHeightTop
	SizeDoubleHeightBottom
	SizeDoubleWidth
	SizeAlignmentTest
)

var sizeNames = [...]string{"single-width", "double-height-top", "double-height-bottom", "double-width", "alignment-test"}

func (c CharacterSize) String() string {
	if int(c) < len(sizeNames) {
		return sizeNames[c]
	}
	return "CharacterSize(" + strconv.Itoa(int(c)) + ")"
}

var registers = map[byte]Register{
	'(': RegisterG0,
	')': RegisterG1,
	'*': RegisterG2,
	'+': RegisterG3,
	'-': RegisterVT300G1,
	'.': RegisterVT300G2,
	'/': RegisterVT300G3,
}

var designators = map[byte]CharacterSet{
	'B': SetUSASCII,
	'0': SetDECSpecialGraphics,
	'1': SetDECAlternateROM,
	'2': SetDECAlternateROMSpecial,
	'A': SetLatin1,
	'<': SetDECSupplemental,
	'>': SetDECTechnical,
	'4': SetDutch,
	'C': SetFinnish,
	'5': SetFinnish,
	'R': SetFrench,
	'Q': SetFrenchCanadian,
	'K': SetGerman,
	'Y': SetItalian,
	'E': SetNorwegianDanish,
	'6': SetNorwegianDanish,
	'`': SetNorwegianDanish,
	'Z': SetSpanish,
	'H': SetSwedish,
	'7': SetSwedish,
	'=': SetSwiss,
}

// designator maps the final byte of a designation. Unknown bytes are US-ASCII.
func designator(b byte) CharacterSet {
	if set, ok := designators[b]; ok {
		return set
	}
	return SetUSASCII
}

// percentDesignator maps the byte following '%' in a designation.
func percentDesignator(b byte) CharacterSet {
	switch b {
	case '5':
		return SetDECSupplementalGraphic
	case '6':
		return SetPortuguese
	}
	return SetUSASCII
}

func characterSize(b byte) CharacterSize {
	switch b {
	case '3':
		return SizeDoubleHeightTop
	case '4':
		return SizeDoubleHeightBottom
	case '6':
		return SizeDoubleWidth
	case '8':
		return SizeAlignmentTest
	}
	return SizeSingleWidth
}
