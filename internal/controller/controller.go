// Package controller defines the capability contract a screen model
// implements, and the dispatcher that drives it from decoded sequences.
//
// Rows and columns passed to a Controller are zero based.
package controller

import "git2.jad.ru/MeterRS485/vtconnect/internal/escape"

// CursorShape is the shape selected by DECSCUSR.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// InsertReplaceMode is the IRM setting.
type InsertReplaceMode int

const (
	ModeReplace InsertReplaceMode = iota
	ModeInsert
)

// KeypadType selects numeric or application keypad (DECKPNM/DECKPAM).
type KeypadType int

const (
	KeypadNumeric KeypadType = iota
	KeypadApplication
)

// Report is an XTerm window report request (CSI Ps t).
type Report int

const (
	ReportWindowState      Report = 11
	ReportWindowPosition   Report = 13
	ReportWindowPixelSize  Report = 14
	ReportTextAreaCharSize Report = 18
	ReportScreenCharSize   Report = 19
	ReportIconLabel        Report = 20
	ReportWindowTitle      Report = 21
)

// Text covers printing and C0 controls.
type Text interface {
	PutChar(r rune)
	PutG2Char(r rune)
	PutG3Char(r rune)
	RepeatLastCharacter(count int)
	Backspace()
	Bell()
	CarriageReturn()
	NewLine()
	FormFeed()
	VerticalTab()
	Tab()
	ReverseTab()
	TabSet()
	ClearTab()
	ClearTabs()
	FullReset()
}

// Cursor covers cursor movement and state.
type Cursor interface {
	MoveCursorRelative(x, y int)
	SetCursorPosition(column, row int)
	SetAbsoluteRow(row int)
	SetAbsoluteColumn(column int)
	SaveCursor()
	RestoreCursor()
	ShowCursor(show bool)
	SetCursorStyle(shape CursorShape, blink bool)
	EnableBlinkingCursor(enable bool)
	ReverseIndex()
}

// Editing covers erase, insert, delete and scrolling.
type Editing interface {
	EraseAbove(ignoreProtected bool)
	EraseAll(ignoreProtected bool)
	EraseBelow(ignoreProtected bool)
	EraseLine(ignoreProtected bool)
	EraseToEndOfLine(ignoreProtected bool)
	EraseToStartOfLine(ignoreProtected bool)
	EraseCharacter(count int)
	DeleteCharacter(count int)
	DeleteColumn(count int)
	DeleteLines(count int)
	InsertBlanks(count int)
	InsertColumn(count int)
	InsertLines(count int)
	Scroll(rows int)
	ScrollAcross(columns int)
	SetScrollingRegion(top, bottom int)
	ClearScrollingRegion()
	SetLeftAndRightMargins(left, right int)
	ProtectCharacter(protect int)
	SetStartOfGuardedArea()
	SetEndOfGuardedArea()
	SetErasureMode(enabled bool)
	SetGuardedAreaTransferMode(enabled bool)
}

// Modes covers terminal mode switches.
type Modes interface {
	Enable80132Mode(enable bool)
	Enable132ColumnMode(enable bool)
	EnableAlternateBuffer()
	EnableNormalBuffer()
	SaveEnableNormalBuffer()
	RestoreEnableNormalBuffer()
	EnableApplicationCursorKeys(enable bool)
	SaveCursorKeys()
	RestoreCursorKeys()
	EnableAutoRepeatKeys(enable bool)
	EnableLeftAndRightMarginMode(enable bool)
	EnableNationalReplacementCharacterSets(enable bool)
	EnableOriginMode(enable bool)
	EnableReverseVideoMode(enable bool)
	EnableReverseWrapAroundMode(enable bool)
	EnableSmoothScrollMode(enable bool)
	EnableWrapAroundMode(enable bool)
	SetAutomaticNewLine(enable bool)
	SetInsertReplaceMode(mode InsertReplaceMode)
	SetKeypadType(keypad KeypadType)
	SetBracketedPasteMode(enable bool)
	SaveBracketedPasteMode()
	RestoreBracketedPasteMode()
	SetConformanceLevel(level int, eightBit bool)
	SetVT52Mode(enabled bool)
	SetVT52AlternateKeypadMode(enabled bool)
	SetVT52GraphicsMode(enabled bool)
	VT52EnterANSIMode()
	VT52Identify()
	IsVT52Mode() bool
	SetUTF8()
	SetLatin1()
	IsUTF8() bool
}

// Mouse covers mouse reporting modes.
type Mouse interface {
	SetX10SendMouseXYOnButton(enabled bool)
	SetX11SendMouseXYOnButton(enabled bool)
	UseHighlightMouseTracking(enable bool)
	SaveUseHighlightMouseTracking()
	RestoreUseHighlightMouseTracking()
	UseCellMotionMouseTracking(enable bool)
	SaveUseCellMotionMouseTracking()
	RestoreUseCellMotionMouseTracking()
	SetUseAllMouseTracking(enabled bool)
	SetSendFocusInAndFocusOutEvents(enabled bool)
	SetUTF8MouseMode(enabled bool)
	EnableSGRMouseMode(enable bool)
	SaveEnableSGRMouseMode()
	RestoreEnableSGRMouseMode()
	EnableURXVTMouseMode(enabled bool)
}

// Charsets covers character set designation and invocation.
type Charsets interface {
	SetCharacterSet(set escape.CharacterSet, register escape.Register)
	SetCharacterSize(size escape.CharacterSize)
	InvokeCharacterSetMode(register escape.Register)
	InvokeCharacterSetModeR(register escape.Register)
	ShiftIn()
	ShiftOut()
	SingleShiftSelectG2()
	SingleShiftSelectG3()
}

// Attributes covers rendition and colours.
type Attributes interface {
	SetCharacterAttribute(parameter int)
	SetRGBForegroundColor(red, green, blue int)
	SetRGBBackgroundColor(red, green, blue int)
	SetRGBForegroundColorSpec(spec string)
	SetRGBBackgroundColorSpec(spec string)
	SetISO8613PaletteForeground(entry int)
	SetISO8613PaletteBackground(entry int)
}

// Window covers XTerm window manipulation.
type Window interface {
	SetWindowTitle(title string)
	PushXTermWindowTitle()
	PopXTermWindowTitle()
	PushXTermWindowIcon()
	PopXTermWindowIcon()
	XTermDeiconifyWindow()
	XTermIconifyWindow()
	XTermMoveWindow(x, y int)
	XTermResizeWindow(width, height int)
	XTermResizeTextArea(columns, rows int)
	XTermRaiseToFront()
	XTermLowerToBottom()
	XTermRefreshWindow()
	XTermMaximizeWindow(horizontally, vertically bool)
	XTermFullScreenEnter()
	XTermFullScreenExit()
	XTermFullScreenToggle()
}

// Reports covers requests the terminal answers.
type Reports interface {
	DeviceStatusReport()
	ReportCursorPosition()
	ReportExtendedCursorPosition()
	SendDeviceAttributes()
	SendDeviceAttributesSecondary()
	SendDeviceAttributesTertiary()
	RequestDECPrivateMode(mode int)
	RequestStatusStringSetConformanceLevel()
	RequestStatusStringSetProtectionAttribute()
	ReportRGBForegroundColor()
	ReportRGBBackgroundColor()
	XTermReport(report Report)
}

// Controller is the full capability contract of a screen model.
type Controller interface {
	Text
	Cursor
	Editing
	Modes
	Mouse
	Charsets
	Attributes
	Window
	Reports
}
