// Package usbhid builds the three-interface USB HID gadget (boot
// keyboard, absolute wheel mouse, consumer control) this system presents
// to its physically attached host, and the Actuator implementation that
// drives it from translated Barrier events.
package usbhid

import (
	"bytes"
	"encoding/binary"
)

// HID class-specific constants (USB HID 1.11, §6.2, §7.2).
const (
	HIDDescriptorLength = 0x09
	HIDInterfaceClass   = 0x03

	// bInterfaceSubClass / bInterfaceProtocol: none of our three
	// interfaces implement the boot protocol subclass, since the host
	// always loads a real HID driver on a USB armory gadget rather than
	// relying on a BIOS fallback.
	HIDSubClassNone = 0x00
	HIDProtocolNone = 0x00

	// Class-specific descriptor type, used both as the HIDDescriptor's
	// own bDescriptorType and as the GET_DESCRIPTOR wValue high byte
	// for fetching a report descriptor (§7.1.1).
	HIDDescriptorType       = 0x21
	HIDReportDescriptorType = 0x22

	// Class-specific request codes (§7.2).
	HIDGetReport   = 0x01
	HIDGetIdle     = 0x02
	HIDGetProtocol = 0x03
	HIDSetReport   = 0x09
	HIDSetIdle     = 0x0a
	HIDSetProtocol = 0x0b
)

// HIDDescriptor implements the USB HID Class Descriptor (USB HID 1.11,
// §6.2.1).
type HIDDescriptor struct {
	Length                 uint8
	DescriptorType         uint8
	bcdHID                 uint16
	CountryCode            uint8
	NumDescriptors         uint8
	ReportDescriptorType   uint8
	ReportDescriptorLength uint16
}

// SetDefaults initializes a HID descriptor for a single report
// descriptor of the given length.
func (d *HIDDescriptor) SetDefaults(reportDescriptorLength int) {
	d.Length = HIDDescriptorLength
	d.DescriptorType = HIDDescriptorType
	d.bcdHID = 0x0111
	d.CountryCode = 0
	d.NumDescriptors = 1
	d.ReportDescriptorType = HIDReportDescriptorType
	d.ReportDescriptorLength = uint16(reportDescriptorLength)
}

// Bytes converts the descriptor to wire format.
func (d *HIDDescriptor) Bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, d)
	return buf.Bytes()
}

// Report descriptors for the three HID functions (§6 of the
// specification, byte sequences are part of the host OS ABI).

// bootKeyboardReportDescriptor: 8-bit modifier byte, 1 reserved byte, an
// LED output report (ignored by this client), and 6 keycode bytes.
var bootKeyboardReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xA1, 0x01, // Collection (Application)
	0x05, 0x07, //   Usage Page (Keyboard)
	0x19, 0xE0, //   Usage Minimum (0xE0)
	0x29, 0xE7, //   Usage Maximum (0xE7)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data,Var,Abs) ; modifier byte
	0x95, 0x01, //   Report Count (1)
	0x75, 0x08, //   Report Size (8)
	0x81, 0x03, //   Input (Const,Var,Abs) ; reserved byte
	0x95, 0x05, //   Report Count (5)
	0x75, 0x01, //   Report Size (1)
	0x05, 0x08, //   Usage Page (LEDs)
	0x19, 0x01, //   Usage Minimum (1)
	0x29, 0x05, //   Usage Maximum (5)
	0x91, 0x02, //   Output (Data,Var,Abs) ; LED report
	0x95, 0x01, //   Report Count (1)
	0x75, 0x03, //   Report Size (3)
	0x91, 0x03, //   Output (Const,Var,Abs) ; LED padding
	0x95, 0x06, //   Report Count (6)
	0x75, 0x08, //   Report Size (8)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x65, //   Logical Maximum (101)
	0x05, 0x07, //   Usage Page (Keyboard)
	0x19, 0x00, //   Usage Minimum (0)
	0x29, 0x65, //   Usage Maximum (101)
	0x81, 0x00, //   Input (Data,Array,Abs) ; 6 keycode bytes
	0xC0, // End Collection
}

// absoluteWheelMouseReportDescriptor: 8 button bits, two absolute 16-bit
// axes in [0, 0x7FFF], one relative 8-bit wheel, one relative 8-bit AC
// Pan.
var absoluteWheelMouseReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x08, //     Usage Maximum (8)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x08, //     Report Count (8)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data,Var,Abs) ; button mask
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x16, 0x00, 0x00, //     Logical Minimum (0)
	0x26, 0xFF, 0x7F, //     Logical Maximum (32767)
	0x75, 0x10, //     Report Size (16)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x02, //     Input (Data,Var,Abs) ; absolute X, Y
	0x09, 0x38, //     Usage (Wheel)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x06, //     Input (Data,Var,Rel) ; wheel
	0x05, 0x0C, //     Usage Page (Consumer)
	0x0A, 0x38, 0x02, //     Usage (AC Pan)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x06, //     Input (Data,Var,Rel) ; AC Pan
	0xC0, //   End Collection
	0xC0, // End Collection
}

// consumerControlReportDescriptor: one 16-bit usage in [0, 0x02A0].
var consumerControlReportDescriptor = []byte{
	0x05, 0x0C, // Usage Page (Consumer)
	0x09, 0x01, // Usage (Consumer Control)
	0xA1, 0x01, // Collection (Application)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xA0, 0x02, //   Logical Maximum (672)
	0x19, 0x00, //   Usage Minimum (0)
	0x2A, 0xA0, 0x02, //   Usage Maximum (672)
	0x75, 0x10, //   Report Size (16)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x00, //   Input (Data,Array,Abs)
	0xC0, // End Collection
}

// ReportDescriptorFor returns the report descriptor bytes for one of the
// three HID functions, keyed by interface index (0=keyboard, 1=mouse,
// 2=consumer), matching the order gadget.go adds interfaces in.
func ReportDescriptorFor(iface int) []byte {
	switch iface {
	case keyboardInterfaceIndex:
		return bootKeyboardReportDescriptor
	case mouseInterfaceIndex:
		return absoluteWheelMouseReportDescriptor
	case consumerInterfaceIndex:
		return consumerControlReportDescriptor
	default:
		return nil
	}
}
