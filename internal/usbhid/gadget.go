package usbhid

import (
	"fmt"
	"log"

	usb "github.com/usbarmory/tamago/soc/nxp/usb"
)

// Interface indices, in device-bring-up order; ReportDescriptorFor keys
// off these.
const (
	keyboardInterfaceIndex = 0
	mouseInterfaceIndex    = 1
	consumerInterfaceIndex = 2
)

// Endpoint addresses (IN, interrupt) assigned to each HID function.
const (
	keyboardEndpointAddress = 0x81
	mouseEndpointAddress    = 0x82
	consumerEndpointAddress = 0x83
)

// Gadget owns the three HID interrupt endpoint queues the translator
// writes reports onto, and the *usb.Device descriptor tree handed to the
// USB controller (§4.5, §6).
type Gadget struct {
	Device *usb.Device

	keyboard chan []byte
	mouse    chan []byte
	consumer chan []byte
}

// NewGadget builds the three-interface HID composite device: boot
// keyboard, absolute wheel mouse, consumer control. The descriptor
// composition (Device/Configuration/Interface/Endpoint, class
// descriptors appended via ClassDescriptors) follows
// soc/nxp/usb/descriptor.go's own pattern for CDC class descriptors,
// generalized here to HID.
func NewGadget(deviceName string) (*Gadget, error) {
	g := &Gadget{
		keyboard: make(chan []byte, 1),
		mouse:    make(chan []byte, 1),
		consumer: make(chan []byte, 1),
	}

	dev := &usb.Device{}

	dev.Descriptor = &usb.DeviceDescriptor{}
	dev.Descriptor.SetDefaults()
	dev.Descriptor.DeviceClass = 0x00
	dev.Descriptor.VendorId = 0x1209
	dev.Descriptor.ProductId = 0x5379 // "Sy" for Synergy/Barrier

	iManufacturer, err := dev.AddString("usbarmory")
	if err != nil {
		return nil, err
	}
	dev.Descriptor.Manufacturer = iManufacturer

	iProduct, err := dev.AddString(deviceName)
	if err != nil {
		return nil, err
	}
	dev.Descriptor.Product = iProduct

	conf := &usb.ConfigurationDescriptor{}
	conf.SetDefaults()

	conf.AddInterface(hidInterface(keyboardInterfaceIndex, keyboardEndpointAddress, 8))
	conf.AddInterface(hidInterface(mouseInterfaceIndex, mouseEndpointAddress, 7))
	conf.AddInterface(hidInterface(consumerInterfaceIndex, consumerEndpointAddress, 2))

	if err := dev.AddConfiguration(conf); err != nil {
		return nil, err
	}

	dev.Setup = g.setup

	g.Device = dev

	return g, nil
}

func hidInterface(index int, epAddress uint8, reportSize uint16) *usb.InterfaceDescriptor {
	iface := &usb.InterfaceDescriptor{}
	iface.SetDefaults()
	iface.InterfaceClass = HIDInterfaceClass
	iface.InterfaceSubClass = HIDSubClassNone
	iface.InterfaceProtocol = HIDProtocolNone

	hidDesc := &HIDDescriptor{}
	hidDesc.SetDefaults(len(ReportDescriptorFor(index)))
	iface.ClassDescriptors = append(iface.ClassDescriptors, hidDesc.Bytes())

	ep := &usb.EndpointDescriptor{}
	ep.SetDefaults()
	ep.EndpointAddress = epAddress
	ep.Attributes = 0x03 // Interrupt
	ep.MaxPacketSize = reportSize
	ep.Interval = 1 // poll every 1ms (full speed) / 8 frames (high speed)

	iface.Endpoints = append(iface.Endpoints, ep)

	return iface
}

// setup implements usb.SetupFunction, handling the HID class-specific
// requests standard setup handling does not know about: fetching the
// report descriptor via GET_DESCRIPTOR(HID_REPORT) and acknowledging
// SET_IDLE (§6, §4.5).
func (g *Gadget) setup(setup *usb.SetupData) (in []byte, ack bool, done bool, err error) {
	const classRequestType = 0x21
	const interfaceRecipient = 0x01

	isClassInterfaceRequest := setup.RequestType&0x60 == 0x20 && setup.RequestType&0x1f == interfaceRecipient

	switch {
	case setup.Request == usb.GET_DESCRIPTOR && uint8(setup.Value>>8) == HIDReportDescriptorType:
		iface := int(setup.Index)
		desc := ReportDescriptorFor(iface)
		if desc == nil {
			return nil, false, true, fmt.Errorf("usbhid: no report descriptor for interface %d", iface)
		}
		log.Printf("usbhid: sending report descriptor for interface %d (%d bytes)", iface, len(desc))
		return trim(desc, setup.Length), false, true, nil

	case isClassInterfaceRequest && setup.Request == HIDSetIdle:
		return nil, true, true, nil

	case isClassInterfaceRequest && setup.Request == HIDSetProtocol:
		return nil, true, true, nil

	default:
		return nil, false, false, nil
	}
}

func trim(buf []byte, wLength uint16) []byte {
	if int(wLength) < len(buf) {
		buf = buf[:wLength]
	}
	return buf
}

// Start wires an EndpointFunction per HID interrupt endpoint onto the
// built device's interfaces, so hw.Start(dev) (imx6 usb controller) drains
// g.keyboard/g.mouse/g.consumer as reports are queued.
func (g *Gadget) Start() {
	conf := g.Device.Configurations[0]
	conf.Interfaces[keyboardInterfaceIndex].Endpoints[0].Function = endpointFunction(g.keyboard)
	conf.Interfaces[mouseInterfaceIndex].Endpoints[0].Function = endpointFunction(g.mouse)
	conf.Interfaces[consumerInterfaceIndex].Endpoints[0].Function = endpointFunction(g.consumer)
}

func endpointFunction(reports chan []byte) usb.EndpointFunction {
	return func(_ []byte, lastErr error) ([]byte, error) {
		select {
		case r := <-reports:
			return r, nil
		default:
			return nil, nil
		}
	}
}

// WriteKeyboard, WriteMouse, WriteConsumer queue one report for
// transmission on the corresponding interrupt endpoint. Writes never
// block the caller for long: a full channel means the previous report
// hasn't gone out yet, and the newest report wins (§7: "HID write
// failures are swallowed").
func (g *Gadget) WriteKeyboard(report []byte) { nonBlockingSend(g.keyboard, report) }
func (g *Gadget) WriteMouse(report []byte)    { nonBlockingSend(g.mouse, report) }
func (g *Gadget) WriteConsumer(report []byte) { nonBlockingSend(g.consumer, report) }

func nonBlockingSend(ch chan []byte, report []byte) {
	cp := append([]byte(nil), report...)

	select {
	case ch <- cp:
		return
	default:
	}

	// Channel full: the previous report hasn't gone out yet. Drop it in
	// favor of the newest state.
	select {
	case <-ch:
	default:
	}

	select {
	case ch <- cp:
	default:
	}
}
