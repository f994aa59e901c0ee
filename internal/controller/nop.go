package controller

import "git2.jad.ru/MeterRS485/vtconnect/internal/escape"

// Nop implements Controller and ignores everything. Embed it to implement
// only the operations a model supports.
type Nop struct{}

var _ Controller = Nop{}

func (Nop) PutChar(rune) {}
func (Nop) PutG2Char(rune) {}
func (Nop) PutG3Char(rune) {}
func (Nop) RepeatLastCharacter(int) {}
func (Nop) Backspace() {}
func (Nop) Bell() {}
func (Nop) CarriageReturn() {}
func (Nop) NewLine() {}
func (Nop) FormFeed() {}
func (Nop) VerticalTab() {}
func (Nop) Tab() {}
func (Nop) ReverseTab() {}
func (Nop) TabSet() {}
func (Nop) ClearTab() {}
func (Nop) ClearTabs() {}
func (Nop) FullReset() {}
func (Nop) MoveCursorRelative(int, int) {}
func (Nop) SetCursorPosition(int, int) {}
func (Nop) SetAbsoluteRow(int) {}
func (Nop) SetAbsoluteColumn(int) {}
func (Nop) SaveCursor() {}
func (Nop) RestoreCursor() {}
func (Nop) ShowCursor(bool) {}
func (Nop) SetCursorStyle(CursorShape, bool) {}
func (Nop) EnableBlinkingCursor(bool) {}
func (Nop) ReverseIndex() {}
func (Nop) EraseAbove(bool) {}
func (Nop) EraseAll(bool) {}
func (Nop) EraseBelow(bool) {}
func (Nop) EraseLine(bool) {}
func (Nop) EraseToEndOfLine(bool) {}
func (Nop) EraseToStartOfLine(bool) {}
func (Nop) EraseCharacter(int) {}
func (Nop) DeleteCharacter(int) {}
func (Nop) DeleteColumn(int) {}
func (Nop) DeleteLines(int) {}
func (Nop) InsertBlanks(int) {}
func (Nop) InsertColumn(int) {}
func (Nop) InsertLines(int) {}
func (Nop) Scroll(int) {}
func (Nop) ScrollAcross(int) {}
func (Nop) SetScrollingRegion(int, int) {}
func (Nop) ClearScrollingRegion() {}
func (Nop) SetLeftAndRightMargins(int, int) {}
func (Nop) ProtectCharacter(int) {}
func (Nop) SetStartOfGuardedArea() {}
func (Nop) SetEndOfGuardedArea() {}
func (Nop) SetErasureMode(bool) {}
func (Nop) SetGuardedAreaTransferMode(bool) {}
func (Nop) Enable80132Mode(bool) {}
func (Nop) Enable132ColumnMode(bool) {}
func (Nop) EnableAlternateBuffer() {}
func (Nop) EnableNormalBuffer() {}
func (Nop) SaveEnableNormalBuffer() {}
func (Nop) RestoreEnableNormalBuffer() {}
func (Nop) EnableApplicationCursorKeys(bool) {}
func (Nop) SaveCursorKeys() {}
func (Nop) RestoreCursorKeys() {}
func (Nop) EnableAutoRepeatKeys(bool) {}
func (Nop) EnableLeftAndRightMarginMode(bool) {}
func (Nop) EnableNationalReplacementCharacterSets(bool) {}
func (Nop) EnableOriginMode(bool) {}
func (Nop) EnableReverseVideoMode(bool) {}
func (Nop) EnableReverseWrapAroundMode(bool) {}
func (Nop) EnableSmoothScrollMode(bool) {}
func (Nop) EnableWrapAroundMode(bool) {}
func (Nop) SetAutomaticNewLine(bool) {}
func (Nop) SetInsertReplaceMode(InsertReplaceMode) {}
func (Nop) SetKeypadType(KeypadType) {}
func (Nop) SetBracketedPasteMode(bool) {}
func (Nop) SaveBracketedPasteMode() {}
func (Nop) RestoreBracketedPasteMode() {}
func (Nop) SetConformanceLevel(int, bool) {}
func (Nop) SetVT52Mode(bool) {}
func (Nop) SetVT52AlternateKeypadMode(bool) {}
func (Nop) SetVT52GraphicsMode(bool) {}
func (Nop) VT52EnterANSIMode() {}
func (Nop) VT52Identify() {}
func (Nop) IsVT52Mode() bool { return false }
func (Nop) SetUTF8() {}
func (Nop) SetLatin1() {}
func (Nop) IsUTF8() bool { return false }
func (Nop) SetX10SendMouseXYOnButton(bool) {}
func (Nop) SetX11SendMouseXYOnButton(bool) {}
func (Nop) UseHighlightMouseTracking(bool) {}
func (Nop) SaveUseHighlightMouseTracking() {}
func (Nop) RestoreUseHighlightMouseTracking() {}
func (Nop) UseCellMotionMouseTracking(bool) {}
func (Nop) SaveUseCellMotionMouseTracking() {}
func (Nop) RestoreUseCellMotionMouseTracking() {}
func (Nop) SetUseAllMouseTracking(bool) {}
func (Nop) SetSendFocusInAndFocusOutEvents(bool) {}
func (Nop) SetUTF8MouseMode(bool) {}
func (Nop) EnableSGRMouseMode(bool) {}
func (Nop) SaveEnableSGRMouseMode() {}
func (Nop) RestoreEnableSGRMouseMode() {}
func (Nop) EnableURXVTMouseMode(bool) {}
func (Nop) SetCharacterSet(escape.CharacterSet, escape.Register) {}
func (Nop) SetCharacterSize(escape.CharacterSize) {}
func (Nop) InvokeCharacterSetMode(escape.Register) {}
func (Nop) InvokeCharacterSetModeR(escape.Register) {}
func (Nop) ShiftIn() {}
func (Nop) ShiftOut() {}
func (Nop) SingleShiftSelectG2() {}
func (Nop) SingleShiftSelectG3() {}
func (Nop) SetCharacterAttribute(int) {}
func (Nop) SetRGBForegroundColor(int, int, int) {}
func (Nop) SetRGBBackgroundColor(int, int, int) {}
func (Nop) SetRGBForegroundColorSpec(string) {}
func (Nop) SetRGBBackgroundColorSpec(string) {}
func (Nop) SetISO8613PaletteForeground(int) {}
func (Nop) SetISO8613PaletteBackground(int) {}
func (Nop) SetWindowTitle(string) {}
func (Nop) PushXTermWindowTitle() {}
func (Nop) PopXTermWindowTitle() {}
func (Nop) PushXTermWindowIcon() {}
func (Nop) PopXTermWindowIcon() {}
func (Nop) XTermDeiconifyWindow() {}
func (Nop) XTermIconifyWindow() {}
func (Nop) XTermMoveWindow(int, int) {}
func (Nop) XTermResizeWindow(int, int) {}
func (Nop) XTermResizeTextArea(int, int) {}
func (Nop) XTermRaiseToFront() {}
func (Nop) XTermLowerToBottom() {}
func (Nop) XTermRefreshWindow() {}
func (Nop) XTermMaximizeWindow(bool, bool) {}
func (Nop) XTermFullScreenEnter() {}
func (Nop) XTermFullScreenExit() {}
func (Nop) XTermFullScreenToggle() {}
func (Nop) DeviceStatusReport() {}
func (Nop) ReportCursorPosition() {}
func (Nop) ReportExtendedCursorPosition() {}
func (Nop) SendDeviceAttributes() {}
func (Nop) SendDeviceAttributesSecondary() {}
func (Nop) SendDeviceAttributesTertiary() {}
func (Nop) RequestDECPrivateMode(int) {}
func (Nop) RequestStatusStringSetConformanceLevel() {}
func (Nop) RequestStatusStringSetProtectionAttribute() {}
func (Nop) ReportRGBForegroundColor() {}
func (Nop) ReportRGBBackgroundColor() {}
func (Nop) XTermReport(Report) {}
