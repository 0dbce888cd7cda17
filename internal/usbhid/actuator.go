package usbhid

import (
	"log"

	"github.com/usbarmory/barrier-hid/internal/barrier"
	"github.com/usbarmory/barrier-hid/internal/hidreport"
	"github.com/usbarmory/barrier-hid/internal/indicator"
)

// USBActuator implements barrier.Actuator by translating Barrier events
// into HID reports and queuing them on the gadget's three interrupt
// endpoints, and by forwarding lifecycle transitions to the indicator
// channel (§4.5).
type USBActuator struct {
	width, height uint16
	x, y          uint16

	hid    *hidreport.SynergyHid
	gadget *Gadget
	status chan<- indicator.Status
}

// NewUSBActuator constructs an actuator bound to a screen size, scroll
// flip preference, the HID gadget to write reports to, and the status
// channel to notify of lifecycle events.
func NewUSBActuator(width, height uint16, flipMouseWheel bool, gadget *Gadget, status chan<- indicator.Status) *USBActuator {
	return &USBActuator{
		width:  width,
		height: height,
		hid:    hidreport.NewSynergyHid(flipMouseWheel),
		gadget: gadget,
		status: status,
	}
}

var _ barrier.Actuator = (*USBActuator)(nil)

func (a *USBActuator) Connected() {
	log.Printf("usbhid: connected to barrier server")
	a.sendStatus(indicator.ServerConnected)
}

func (a *USBActuator) Disconnected() {
	log.Printf("usbhid: disconnected from barrier server")
	a.sendStatus(indicator.ServerDisconnected)
}

func (a *USBActuator) ScreenSize() (uint16, uint16) {
	return a.width, a.height
}

func (a *USBActuator) CursorPosition() (uint16, uint16) {
	return a.x, a.y
}

func (a *USBActuator) SetCursorPosition(x, y uint16) {
	a.x, a.y = x, y

	hx := hidreport.ScaleCursor(x, a.width)
	hy := hidreport.ScaleCursor(y, a.height)

	kind, report := a.hid.SetCursorPosition(hx, hy)
	a.write(kind, report)
}

func (a *USBActuator) MouseDown(id int8) {
	kind, report := a.hid.MouseDown(id)
	a.write(kind, report)
}

func (a *USBActuator) MouseUp(id int8) {
	kind, report := a.hid.MouseUp(id)
	a.write(kind, report)
}

func (a *USBActuator) MouseWheel(dx, dy int16) {
	kind, report := a.hid.MouseScroll(dx, dy)
	a.write(kind, report)
}

func (a *USBActuator) KeyDown(key, mask, button uint16) {
	kind, report := a.hid.KeyDown(key, mask, button)
	a.write(kind, report)
}

func (a *USBActuator) KeyUp(key, mask, button uint16) {
	kind, report := a.hid.KeyUp(key, mask, button)
	a.write(kind, report)
}

// KeyRepeat is observed but emits no HID event: the HID host handles
// auto-repeat by timing, and replaying the press here would double-type
// (§4.5, an explicit design choice rather than a gap).
func (a *USBActuator) KeyRepeat(key, mask, button, count uint16) {
	log.Printf("usbhid: key repeat key=%#04x mask=%#04x button=%d count=%d", key, mask, button, count)
}

func (a *USBActuator) ResetOptions() {
	log.Printf("usbhid: reset options received")
}

func (a *USBActuator) Enter() {
	a.sendStatus(indicator.EnterScreen)
}

// Leave clears all three HID report streams, in keyboard, mouse,
// consumer order, guaranteeing no stuck keys or buttons survive a focus
// change to another screen (§4.5).
func (a *USBActuator) Leave() {
	kind, report := a.hid.Clear(hidreport.ReportKeyboard)
	a.write(kind, report)

	kind, report = a.hid.Clear(hidreport.ReportMouse)
	a.write(kind, report)

	kind, report = a.hid.Clear(hidreport.ReportConsumer)
	a.write(kind, report)

	a.sendStatus(indicator.LeaveScreen)
}

func (a *USBActuator) write(kind hidreport.ReportType, report []byte) {
	switch kind {
	case hidreport.ReportKeyboard:
		a.gadget.WriteKeyboard(report)
	case hidreport.ReportMouse:
		a.gadget.WriteMouse(report)
	case hidreport.ReportConsumer:
		a.gadget.WriteConsumer(report)
	}
}

func (a *USBActuator) sendStatus(s indicator.Status) {
	if a.status == nil {
		return
	}
	select {
	case a.status <- s:
	default:
		// Channel full: indicator state is advisory (§5), drop rather
		// than block the protocol loop.
	}
}
