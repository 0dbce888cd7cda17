package hidreport

// Report descriptor byte sizes (§6).
const (
	KeyboardReportSize = 8
	MouseReportSize    = 7
	ConsumerReportSize = 2
)

// SynergyHid converts Barrier protocol-level events into (ReportType,
// bytes) pairs, owning the three stateful report builders plus the
// server_buttons translation table the protocol needs because KeyUp
// carries only the button slot, not the original key id (§3, §4.6).
type SynergyHid struct {
	flipMouseWheel bool
	x, y           uint16

	// serverButtons[b] holds the Synergy key id most recently pressed
	// on button slot b, 0 meaning the slot is idle. Indexed 0..511.
	serverButtons [512]uint16

	keyboard KeyboardReport
	mouse    MouseReport
	consumer ConsumerReport
}

// NewSynergyHid constructs a translator; flipMouseWheel inverts the sign
// of both the wheel and pan axes (§4.6).
func NewSynergyHid(flipMouseWheel bool) *SynergyHid {
	return &SynergyHid{flipMouseWheel: flipMouseWheel}
}

// KeyDown translates a KeyDown event. It records the key id against the
// button slot (so the matching KeyUp can recover it), looks up the HID
// mapping, and emits a press on the appropriate report (§4.6).
func (s *SynergyHid) KeyDown(key, mask, button uint16) (ReportType, []byte) {
	if int(button) < len(s.serverButtons) {
		s.serverButtons[button] = key
	}

	hid := SynergyToHID(key)

	switch hid.Class {
	case KeyKeyboard:
		r := s.keyboard.Press(uint8(hid.Usage))
		return ReportKeyboard, r[:]
	case KeyConsumer:
		r := s.consumer.Press(hid.Usage)
		return ReportConsumer, r[:]
	default:
		r := s.keyboard.Clear()
		return ReportKeyboard, r[:]
	}
}

// KeyUp translates a KeyUp event. Barrier's KeyUp packet does not repeat
// the original key id reliably across all servers, so the original key
// is recovered from the button slot recorded by the matching KeyDown; the
// slot is then cleared (§3 invariant, §4.6).
func (s *SynergyHid) KeyUp(key, mask, button uint16) (ReportType, []byte) {
	var original uint16
	if int(button) < len(s.serverButtons) {
		original = s.serverButtons[button]
		s.serverButtons[button] = 0
	}

	if original == 0 {
		r := s.keyboard.Clear()
		return ReportKeyboard, r[:]
	}

	hid := SynergyToHID(original)

	switch hid.Class {
	case KeyKeyboard:
		r := s.keyboard.Release(uint8(hid.Usage))
		return ReportKeyboard, r[:]
	case KeyConsumer:
		r := s.consumer.Release()
		return ReportConsumer, r[:]
	default:
		r := s.keyboard.Clear()
		return ReportKeyboard, r[:]
	}
}

// SetCursorPosition remembers the cursor position it is given and emits
// an absolute mouse "move to" report. Callers rescale to HID logical
// units ([0, 0x7FFF]) before calling this, so the remembered position is
// in those units too (§4.5).
func (s *SynergyHid) SetCursorPosition(x, y uint16) (ReportType, []byte) {
	s.x, s.y = x, y
	r := s.mouse.MoveTo(x, y)
	return ReportMouse, r[:]
}

// MouseDown translates a Synergy mouse button id to its HID bit and
// emits a mouse report.
func (s *SynergyHid) MouseDown(button int8) (ReportType, []byte) {
	r := s.mouse.Down(SynergyMouseButton(button))
	return ReportMouse, r[:]
}

// MouseUp clears a Synergy mouse button's HID bit and emits a mouse
// report.
func (s *SynergyHid) MouseUp(button int8) (ReportType, []byte) {
	r := s.mouse.Up(SynergyMouseButton(button))
	return ReportMouse, r[:]
}

// MouseScroll converts Synergy WHEEL_DELTA (120) units to signed notch
// counts, clamped to one byte, optionally negated by flipMouseWheel, and
// emits a mouse report carrying wheel=y', pan=x' (§4.6).
func (s *SynergyHid) MouseScroll(x, y int16) (ReportType, []byte) {
	notchX := clampInt8(int32(x) / 120)
	notchY := clampInt8(int32(y) / 120)

	if s.flipMouseWheel {
		notchX, notchY = -notchX, -notchY
	}

	r := s.mouse.Wheel(notchY, notchX)
	return ReportMouse, r[:]
}

// Clear emits a zero-state report of the given kind, used on CursorLeave
// to guarantee no stuck keys or buttons (§4.5).
func (s *SynergyHid) Clear(kind ReportType) (ReportType, []byte) {
	switch kind {
	case ReportKeyboard:
		r := s.keyboard.Clear()
		return ReportKeyboard, r[:]
	case ReportMouse:
		r := s.mouse.Clear()
		return ReportMouse, r[:]
	case ReportConsumer:
		r := s.consumer.Clear()
		return ReportConsumer, r[:]
	default:
		return kind, nil
	}
}

func clampInt8(v int32) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}

// ScaleCursor rescales a screen-coordinate axis value to HID logical
// units in [0, 0x7FFF], matching xH = x * 0x7FFF / width (§4.5).
func ScaleCursor(v, extent uint16) uint16 {
	if extent == 0 {
		return 0
	}
	return uint16(uint32(v) * 0x7FFF / uint32(extent))
}
