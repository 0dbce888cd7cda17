package barrier

// Actuator is the capability set the protocol driver drives (§4.4). It is
// implemented by the USB-backed actuator in internal/usbhid; tests supply
// a recording fake.
type Actuator interface {
	Connected()
	Disconnected()

	ScreenSize() (w, h uint16)

	CursorPosition() (x, y uint16)
	SetCursorPosition(x, y uint16)

	MouseDown(id int8)
	MouseUp(id int8)
	MouseWheel(dx, dy int16)

	KeyDown(key, mask, button uint16)
	KeyUp(key, mask, button uint16)
	KeyRepeat(key, mask, button, count uint16)

	ResetOptions()
	Enter()
	Leave()
}

// MoveCursor is the default relative-motion composition described in
// §4.4: read the current position, add the delta, and set it back. It is
// not part of the Actuator interface itself so implementations are free
// to override it with something cheaper; the driver always calls this
// helper, which defers to the implementation's own MoveCursor when it
// also satisfies cursorMover.
func MoveCursor(a Actuator, dx, dy int16) {
	if m, ok := a.(cursorMover); ok {
		m.MoveCursor(dx, dy)
		return
	}

	x, y := a.CursorPosition()
	a.SetCursorPosition(uint16(int32(x)+int32(dx)), uint16(int32(y)+int32(dy)))
}

type cursorMover interface {
	MoveCursor(dx, dy int16)
}
