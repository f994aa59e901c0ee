package controller

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"git2.jad.ru/MeterRS485/vtconnect/internal/escape"
	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
)

// Dispatcher applies decoded sequences to a Controller.
//
// Parameter defaults follow xterm: counts that are missing or zero mean 1,
// positions that are missing mean 1 and are passed to the Controller zero
// based, erase selectors default to 0.
type Dispatcher struct {
	c Controller

	// OnUnhandled, if set, receives sequences the dispatcher does not map.
	OnUnhandled func(escape.Sequence)

	log *logrus.Entry
}

// NewDispatcher returns a Dispatcher driving c.
func NewDispatcher(c Controller) *Dispatcher {
	return &Dispatcher{c: c, log: log.For("dispatch")}
}

// Dispatch applies seq, after its pre-commands. It reports whether the
// sequence was mapped to a Controller operation.
func (d *Dispatcher) Dispatch(seq escape.Sequence) bool {
	for _, pre := range seq.PreCommands {
		d.Dispatch(pre)
	}

	var ok bool
	switch seq.Kind {
	case escape.KindCharacter:
		ok = d.character(seq.Rune)
	case escape.KindEscape:
		if d.c.IsVT52Mode() {
			ok = d.vt52(seq.Command)
		} else {
			ok = d.escape(seq.Command)
		}
	case escape.KindCSI:
		ok = d.csi(seq)
	case escape.KindOSC:
		ok = d.osc(seq)
	case escape.KindDCS:
		ok = d.dcs(seq)
	case escape.KindSS2:
		ok = putShifted(seq.Command, d.c.PutG2Char)
	case escape.KindSS3:
		ok = putShifted(seq.Command, d.c.PutG3Char)
	case escape.KindCharacterSet:
		d.c.SetCharacterSet(seq.Set, seq.Register)
		ok = true
	case escape.KindCharacterSize:
		d.c.SetCharacterSize(seq.Size)
		ok = true
	case escape.KindCompliance:
		ok = d.compliance(seq.Command)
	case escape.KindUnicode:
		ok = d.unicode(seq.Command)
	case escape.KindVT52MoveCursor:
		d.c.SetCursorPosition(seq.Column, seq.Row)
		ok = true
	}

	if !ok {
		d.log.Debugf("unhandled %s", seq)
		if d.OnUnhandled != nil {
			d.OnUnhandled(seq)
		}
	}
	return ok
}

func putShifted(cmd string, put func(rune)) bool {
	if cmd == "" {
		return false
	}
	put(rune(cmd[0]))
	return true
}

func (d *Dispatcher) character(r rune) bool {
	switch r {
	case 0x00:
		// Padding.
	case 0x07:
		d.c.Bell()
	case 0x08:
		d.c.Backspace()
	case 0x09:
		d.c.Tab()
	case 0x0a:
		d.c.NewLine()
	case 0x0b:
		d.c.VerticalTab()
	case 0x0c:
		d.c.FormFeed()
	case 0x0d:
		d.c.CarriageReturn()
	case 0x0e:
		d.c.ShiftOut()
	case 0x0f:
		d.c.ShiftIn()
	case 0x84: // IND
		d.c.NewLine()
	case 0x85: // NEL
		d.c.CarriageReturn()
		d.c.NewLine()
	case 0x88: // HTS
		d.c.TabSet()
	case 0x8d: // RI
		d.c.ReverseIndex()
	default:
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return false
		}
		d.c.PutChar(r)
	}
	return true
}

func (d *Dispatcher) escape(cmd string) bool {
	switch cmd {
	case "7":
		d.c.SaveCursor()
	case "8":
		d.c.RestoreCursor()
	case "D":
		d.c.NewLine()
	case "E":
		d.c.CarriageReturn()
		d.c.NewLine()
	case "H":
		d.c.TabSet()
	case "M":
		d.c.ReverseIndex()
	case "c":
		d.c.FullReset()
	case "=":
		d.c.SetKeypadType(KeypadApplication)
	case ">":
		d.c.SetKeypadType(KeypadNumeric)
	case "N":
		d.c.SingleShiftSelectG2()
	case "O":
		d.c.SingleShiftSelectG3()
	case "n":
		d.c.InvokeCharacterSetMode(escape.RegisterG2)
	case "o":
		d.c.InvokeCharacterSetMode(escape.RegisterG3)
	case "~":
		d.c.InvokeCharacterSetModeR(escape.RegisterG1)
	case "}":
		d.c.InvokeCharacterSetModeR(escape.RegisterG2)
	case "|":
		d.c.InvokeCharacterSetModeR(escape.RegisterG3)
	case "V":
		d.c.SetStartOfGuardedArea()
	case "W":
		d.c.SetEndOfGuardedArea()
	case "\\":
		// Stray string terminator.
	default:
		return false
	}
	return true
}

func (d *Dispatcher) vt52(cmd string) bool {
	switch cmd {
	case "A":
		d.c.MoveCursorRelative(0, -1)
	case "B":
		d.c.MoveCursorRelative(0, 1)
	case "C":
		d.c.MoveCursorRelative(1, 0)
	case "D":
		d.c.MoveCursorRelative(-1, 0)
	case "F":
		d.c.SetVT52GraphicsMode(true)
	case "G":
		d.c.SetVT52GraphicsMode(false)
	case "H":
		d.c.SetCursorPosition(0, 0)
	case "I":
		d.c.ReverseIndex()
	case "J":
		d.c.EraseBelow(false)
	case "K":
		d.c.EraseToEndOfLine(false)
	case "Z":
		d.c.VT52Identify()
	case "=":
		d.c.SetVT52AlternateKeypadMode(true)
	case ">":
		d.c.SetVT52AlternateKeypadMode(false)
	case "<":
		d.c.VT52EnterANSIMode()
	default:
		return false
	}
	return true
}

func (d *Dispatcher) compliance(cmd string) bool {
	switch cmd {
	case "L":
		d.c.SetConformanceLevel(1, false)
	case "M":
		d.c.SetConformanceLevel(2, false)
	case "N":
		d.c.SetConformanceLevel(3, false)
	default:
		return false
	}
	return true
}

func (d *Dispatcher) unicode(cmd string) bool {
	switch cmd {
	case "G":
		d.c.SetUTF8()
	case "@":
		d.c.SetLatin1()
	default:
		return false
	}
	return true
}

func (d *Dispatcher) csi(seq escape.Sequence) bool {
	switch {
	case seq.IsQuery:
		return d.csiPrivate(seq)
	case seq.IsSend:
		if seq.Command == "c" {
			d.c.SendDeviceAttributesSecondary()
			return true
		}
		return false
	case seq.IsEquals:
		if seq.Command == "c" {
			d.c.SendDeviceAttributesTertiary()
			return true
		}
		return false
	case seq.IsBang:
		return false
	}

	n := seq.Count(0, 1)
	switch seq.Command {
	case "@":
		d.c.InsertBlanks(n)
	case "A":
		d.c.MoveCursorRelative(0, -n)
	case "B", "e":
		d.c.MoveCursorRelative(0, n)
	case "C", "a":
		d.c.MoveCursorRelative(n, 0)
	case "D":
		d.c.MoveCursorRelative(-n, 0)
	case "E":
		d.c.CarriageReturn()
		d.c.MoveCursorRelative(0, n)
	case "F":
		d.c.CarriageReturn()
		d.c.MoveCursorRelative(0, -n)
	case "G", "`":
		d.c.SetAbsoluteColumn(n - 1)
	case "H", "f":
		d.c.SetCursorPosition(seq.Count(1, 1)-1, n-1)
	case "I":
		for i := 0; i < n; i++ {
			d.c.Tab()
		}
	case "Z":
		for i := 0; i < n; i++ {
			d.c.ReverseTab()
		}
	case "J":
		d.eraseDisplay(seq.Param(0, 0), false)
	case "K":
		d.eraseLine(seq.Param(0, 0), false)
	case "L":
		d.c.InsertLines(n)
	case "M":
		d.c.DeleteLines(n)
	case "P":
		d.c.DeleteCharacter(n)
	case "S":
		d.c.Scroll(n)
	case "T":
		if len(seq.Params) > 1 {
			// Highlight mouse tracking start, not supported.
			return false
		}
		d.c.Scroll(-n)
	case "X":
		d.c.EraseCharacter(n)
	case "b":
		d.c.RepeatLastCharacter(n)
	case "c":
		d.c.SendDeviceAttributes()
	case "d":
		d.c.SetAbsoluteRow(n - 1)
	case "g":
		switch seq.Param(0, 0) {
		case 0:
			d.c.ClearTab()
		case 3:
			d.c.ClearTabs()
		default:
			return false
		}
	case "h", "l":
		return d.ansiModes(seq.Params, seq.Command == "h")
	case "m":
		d.sgr(seq.Params)
	case "n":
		switch seq.Param(0, 0) {
		case 5:
			d.c.DeviceStatusReport()
		case 6:
			d.c.ReportCursorPosition()
		default:
			return false
		}
	case "r":
		if len(seq.Params) == 0 {
			d.c.ClearScrollingRegion()
			return true
		}
		bottom := seq.Param(1, 0) - 1
		d.c.SetScrollingRegion(seq.Count(0, 1)-1, bottom)
	case "s":
		if len(seq.Params) == 0 {
			d.c.SaveCursor()
			return true
		}
		d.c.SetLeftAndRightMargins(seq.Count(0, 1)-1, seq.Param(1, 0)-1)
	case "u":
		d.c.RestoreCursor()
	case "t":
		return d.windowOp(seq)
	case " q":
		return d.cursorStyle(seq.Param(0, 0))
	case "\"q":
		d.c.ProtectCharacter(seq.Param(0, 0))
	case "\"p":
		level := seq.Param(0, 61) - 60
		if level < 1 {
			level = 1
		}
		d.c.SetConformanceLevel(level, seq.Param(1, 0) != 1)
	case "'}":
		d.c.InsertColumn(n)
	case "'~":
		d.c.DeleteColumn(n)
	case " @":
		d.c.ScrollAcross(-n)
	case " A":
		d.c.ScrollAcross(n)
	default:
		return false
	}
	return true
}

func (d *Dispatcher) csiPrivate(seq escape.Sequence) bool {
	switch seq.Command {
	case "h", "l":
		return d.privateModes(seq.Params, seq.Command == "h")
	case "s":
		return d.savePrivateModes(seq.Params, true)
	case "r":
		return d.savePrivateModes(seq.Params, false)
	case "J":
		d.eraseDisplay(seq.Param(0, 0), true)
	case "K":
		d.eraseLine(seq.Param(0, 0), true)
	case "$p":
		d.c.RequestDECPrivateMode(seq.Param(0, 0))
	case "n":
		if seq.Param(0, 0) != 6 {
			return false
		}
		d.c.ReportExtendedCursorPosition()
	default:
		return false
	}
	return true
}

func (d *Dispatcher) eraseDisplay(selector int, ignoreProtected bool) {
	switch selector {
	case 0:
		d.c.EraseBelow(ignoreProtected)
	case 1:
		d.c.EraseAbove(ignoreProtected)
	default:
		d.c.EraseAll(ignoreProtected)
	}
}

func (d *Dispatcher) eraseLine(selector int, ignoreProtected bool) {
	switch selector {
	case 0:
		d.c.EraseToEndOfLine(ignoreProtected)
	case 1:
		d.c.EraseToStartOfLine(ignoreProtected)
	default:
		d.c.EraseLine(ignoreProtected)
	}
}

func (d *Dispatcher) ansiModes(params []int, set bool) bool {
	handled := len(params) > 0
	for _, p := range params {
		switch p {
		case 4:
			mode := ModeReplace
			if set {
				mode = ModeInsert
			}
			d.c.SetInsertReplaceMode(mode)
		case 6:
			d.c.SetErasureMode(set)
		case 20:
			d.c.SetAutomaticNewLine(set)
		default:
			handled = false
		}
	}
	return handled
}

func (d *Dispatcher) privateModes(params []int, set bool) bool {
	handled := len(params) > 0
	for _, p := range params {
		switch p {
		case 1:
			d.c.EnableApplicationCursorKeys(set)
		case 2:
			d.c.SetVT52Mode(!set)
		case 3:
			d.c.Enable132ColumnMode(set)
		case 4:
			d.c.EnableSmoothScrollMode(set)
		case 5:
			d.c.EnableReverseVideoMode(set)
		case 6:
			d.c.EnableOriginMode(set)
		case 7:
			d.c.EnableWrapAroundMode(set)
		case 8:
			d.c.EnableAutoRepeatKeys(set)
		case 9:
			d.c.SetX10SendMouseXYOnButton(set)
		case 12:
			d.c.EnableBlinkingCursor(set)
		case 25:
			d.c.ShowCursor(set)
		case 40:
			d.c.Enable80132Mode(set)
		case 42:
			d.c.EnableNationalReplacementCharacterSets(set)
		case 45:
			d.c.EnableReverseWrapAroundMode(set)
		case 47, 1047:
			if set {
				d.c.EnableAlternateBuffer()
			} else {
				d.c.EnableNormalBuffer()
			}
		case 69:
			d.c.EnableLeftAndRightMarginMode(set)
		case 1000:
			d.c.SetX11SendMouseXYOnButton(set)
		case 1001:
			d.c.UseHighlightMouseTracking(set)
		case 1002:
			d.c.UseCellMotionMouseTracking(set)
		case 1003:
			d.c.SetUseAllMouseTracking(set)
		case 1004:
			d.c.SetSendFocusInAndFocusOutEvents(set)
		case 1005:
			d.c.SetUTF8MouseMode(set)
		case 1006:
			d.c.EnableSGRMouseMode(set)
		case 1015:
			d.c.EnableURXVTMouseMode(set)
		case 1048:
			if set {
				d.c.SaveCursor()
			} else {
				d.c.RestoreCursor()
			}
		case 1049:
			if set {
				d.c.SaveCursor()
				d.c.EnableAlternateBuffer()
			} else {
				d.c.EnableNormalBuffer()
				d.c.RestoreCursor()
			}
		case 2004:
			d.c.SetBracketedPasteMode(set)
		default:
			handled = false
		}
	}
	return handled
}

func (d *Dispatcher) savePrivateModes(params []int, save bool) bool {
	handled := len(params) > 0
	for _, p := range params {
		switch p {
		case 1:
			pick(save, d.c.SaveCursorKeys, d.c.RestoreCursorKeys)
		case 1001:
			pick(save, d.c.SaveUseHighlightMouseTracking, d.c.RestoreUseHighlightMouseTracking)
		case 1002:
			pick(save, d.c.SaveUseCellMotionMouseTracking, d.c.RestoreUseCellMotionMouseTracking)
		case 1006:
			pick(save, d.c.SaveEnableSGRMouseMode, d.c.RestoreEnableSGRMouseMode)
		case 1049:
			pick(save, d.c.SaveEnableNormalBuffer, d.c.RestoreEnableNormalBuffer)
		case 2004:
			pick(save, d.c.SaveBracketedPasteMode, d.c.RestoreBracketedPasteMode)
		default:
			handled = false
		}
	}
	return handled
}

func pick(first bool, a, b func()) {
	if first {
		a()
		return
	}
	b()
}

func (d *Dispatcher) sgr(params []int) {
	if len(params) == 0 {
		d.c.SetCharacterAttribute(0)
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		if p == escape.Unset {
			p = 0
		}
		if (p == 38 || p == 48) && i+1 < len(params) {
			switch params[i+1] {
			case 5:
				if i+2 < len(params) && params[i+2] != escape.Unset {
					if p == 38 {
						d.c.SetISO8613PaletteForeground(params[i+2])
					} else {
						d.c.SetISO8613PaletteBackground(params[i+2])
					}
				}
				i += 2
				continue
			case 2:
				if i+4 < len(params) {
					r, g, b := orZero(params[i+2]), orZero(params[i+3]), orZero(params[i+4])
					if p == 38 {
						d.c.SetRGBForegroundColor(r, g, b)
					} else {
						d.c.SetRGBBackgroundColor(r, g, b)
					}
				}
				i += 4
				continue
			}
		}
		d.c.SetCharacterAttribute(p)
	}
}

func orZero(v int) int {
	if v == escape.Unset {
		return 0
	}
	return v
}

func (d *Dispatcher) cursorStyle(ps int) bool {
	switch ps {
	case 0, 1:
		d.c.SetCursorStyle(CursorBlock, true)
	case 2:
		d.c.SetCursorStyle(CursorBlock, false)
	case 3:
		d.c.SetCursorStyle(CursorUnderline, true)
	case 4:
		d.c.SetCursorStyle(CursorUnderline, false)
	case 5:
		d.c.SetCursorStyle(CursorBar, true)
	case 6:
		d.c.SetCursorStyle(CursorBar, false)
	default:
		return false
	}
	return true
}

func (d *Dispatcher) windowOp(seq escape.Sequence) bool {
	switch op := seq.Param(0, 0); op {
	case 1:
		d.c.XTermDeiconifyWindow()
	case 2:
		d.c.XTermIconifyWindow()
	case 3:
		d.c.XTermMoveWindow(seq.Param(1, 0), seq.Param(2, 0))
	case 4:
		d.c.XTermResizeWindow(seq.Param(2, 0), seq.Param(1, 0))
	case 5:
		d.c.XTermRaiseToFront()
	case 6:
		d.c.XTermLowerToBottom()
	case 7:
		d.c.XTermRefreshWindow()
	case 8:
		d.c.XTermResizeTextArea(seq.Param(2, 0), seq.Param(1, 0))
	case 9:
		switch seq.Param(1, 0) {
		case 1:
			d.c.XTermMaximizeWindow(true, true)
		case 2:
			d.c.XTermMaximizeWindow(false, true)
		case 3:
			d.c.XTermMaximizeWindow(true, false)
		default:
			d.c.XTermMaximizeWindow(false, false)
		}
	case 10:
		switch seq.Param(1, 0) {
		case 0:
			d.c.XTermFullScreenExit()
		case 1:
			d.c.XTermFullScreenEnter()
		default:
			d.c.XTermFullScreenToggle()
		}
	case 11, 13, 14, 18, 19, 20, 21:
		d.c.XTermReport(Report(op))
	case 22:
		switch seq.Param(1, 0) {
		case 0:
			d.c.PushXTermWindowIcon()
			d.c.PushXTermWindowTitle()
		case 1:
			d.c.PushXTermWindowIcon()
		case 2:
			d.c.PushXTermWindowTitle()
		}
	case 23:
		switch seq.Param(1, 0) {
		case 0:
			d.c.PopXTermWindowIcon()
			d.c.PopXTermWindowTitle()
		case 1:
			d.c.PopXTermWindowIcon()
		case 2:
			d.c.PopXTermWindowTitle()
		}
	default:
		return false
	}
	return true
}

func (d *Dispatcher) osc(seq escape.Sequence) bool {
	switch seq.Param(0, -1) {
	case 0, 2:
		d.c.SetWindowTitle(seq.Command)
	case 10:
		if seq.Command == "?" {
			d.c.ReportRGBForegroundColor()
		} else {
			d.c.SetRGBForegroundColorSpec(seq.Command)
		}
	case 11:
		if seq.Command == "?" {
			d.c.ReportRGBBackgroundColor()
		} else {
			d.c.SetRGBBackgroundColorSpec(seq.Command)
		}
	default:
		return false
	}
	return true
}

func (d *Dispatcher) dcs(seq escape.Sequence) bool {
	// DECRQSS: DCS $ q <setting> ST
	setting, ok := strings.CutPrefix(seq.Command, "$q")
	if !ok {
		return false
	}
	switch setting {
	case "\"p":
		d.c.RequestStatusStringSetConformanceLevel()
	case "\"q":
		d.c.RequestStatusStringSetProtectionAttribute()
	default:
		d.log.Debugf("unsupported DECRQSS %s", strconv.Quote(setting))
		return false
	}
	return true
}
