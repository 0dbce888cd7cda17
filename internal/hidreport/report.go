package hidreport

// ReportType identifies which of the three HID report streams a
// translated event belongs on.
type ReportType int

const (
	ReportKeyboard ReportType = iota + 1
	ReportMouse
	ReportConsumer
)

// KeyboardReport is the stateful boot-keyboard report builder: an 8-bit
// modifier mask plus a fixed 6-slot pressed-key array (§3, §4.6).
type KeyboardReport struct {
	modifier uint8
	keycode  [6]uint8
}

// Press applies the boot-keyboard press algorithm: modifier usage codes
// (0xE0..0xE7) OR their bit into the modifier byte; other keys are
// inserted idempotently into the first free slot, evicting the oldest
// slot (shift-left) on overflow (§4.6).
func (k *KeyboardReport) Press(usage uint8) [8]byte {
	if mod, ok := modifierBit(usage); ok {
		k.modifier |= mod
		return k.send()
	}

	for _, c := range k.keycode {
		if c == usage {
			return k.send()
		}
	}

	for i := range k.keycode {
		if k.keycode[i] == 0 {
			k.keycode[i] = usage
			return k.send()
		}
	}

	copy(k.keycode[:5], k.keycode[1:])
	k.keycode[5] = usage

	return k.send()
}

// Release applies the boot-keyboard release algorithm: modifier usage
// codes clear their bit; other keys zero their slot and the array is
// compacted so surviving slots remain contiguous from index 0 (§4.6).
func (k *KeyboardReport) Release(usage uint8) [8]byte {
	if mod, ok := modifierBit(usage); ok {
		k.modifier &^= mod
		return k.send()
	}

	for i := range k.keycode {
		if k.keycode[i] == usage {
			k.keycode[i] = 0
			break
		}
	}

	var compacted [6]uint8
	pos := 0
	for _, c := range k.keycode {
		if c != 0 {
			compacted[pos] = c
			pos++
		}
	}
	k.keycode = compacted

	return k.send()
}

// Clear zeroes all modifier and key state.
func (k *KeyboardReport) Clear() [8]byte {
	k.modifier = 0
	k.keycode = [6]uint8{}
	return k.send()
}

func (k *KeyboardReport) send() [8]byte {
	var report [8]byte
	report[0] = k.modifier
	copy(report[2:], k.keycode[:])
	return report
}

func modifierBit(usage uint8) (uint8, bool) {
	switch usage {
	case HIDModLeftCtrl:
		return 0x01, true
	case HIDModLeftShift:
		return 0x02, true
	case HIDModLeftAlt:
		return 0x04, true
	case HIDModLeftGUI:
		return 0x08, true
	case HIDModRightCtrl:
		return 0x10, true
	case HIDModRightShift:
		return 0x20, true
	case HIDModRightAlt:
		return 0x40, true
	case HIDModRightGUI:
		return 0x80, true
	default:
		return 0, false
	}
}

// MouseReport is the stateful absolute-positioning wheel mouse report
// builder: an 8-bit button mask plus the last absolute (x,y) in HID
// logical units (§3, §4.6).
type MouseReport struct {
	buttons uint8
	x, y    uint16
}

// MoveTo records a new absolute cursor position and emits a report with
// zero wheel/pan.
func (m *MouseReport) MoveTo(x, y uint16) [7]byte {
	m.x, m.y = x, y
	return m.send(0, 0)
}

// Down ORs a button bit into the mask and emits a report.
func (m *MouseReport) Down(button uint8) [7]byte {
	m.buttons |= button
	return m.send(0, 0)
}

// Up clears a button bit from the mask and emits a report.
func (m *MouseReport) Up(button uint8) [7]byte {
	m.buttons &^= button
	return m.send(0, 0)
}

// Wheel emits a report carrying a one-shot wheel/pan delta without
// altering the stored button/position state.
func (m *MouseReport) Wheel(scroll, pan int8) [7]byte {
	return m.send(scroll, pan)
}

// Clear zeroes the button mask and emits a report at the last known
// position.
func (m *MouseReport) Clear() [7]byte {
	m.buttons = 0
	return m.send(0, 0)
}

func (m *MouseReport) send(scroll, pan int8) [7]byte {
	var report [7]byte
	report[0] = m.buttons
	report[1] = byte(m.x)
	report[2] = byte(m.x >> 8)
	report[3] = byte(m.y)
	report[4] = byte(m.y >> 8)
	report[5] = byte(scroll)
	report[6] = byte(pan)
	return report
}

// ConsumerReport is the stateful consumer-control report builder: a
// single 16-bit usage code, 0 meaning released (§3, §4.6).
type ConsumerReport struct {
	code uint16
}

// Press sets the active usage code and emits a report.
func (c *ConsumerReport) Press(code uint16) [2]byte {
	c.code = code
	return c.send()
}

// Release zeroes the usage code and emits a report.
func (c *ConsumerReport) Release() [2]byte {
	c.code = 0
	return c.send()
}

// Clear is equivalent to Release.
func (c *ConsumerReport) Clear() [2]byte {
	return c.Release()
}

func (c *ConsumerReport) send() [2]byte {
	return [2]byte{byte(c.code), byte(c.code >> 8)}
}
