package netdial

import (
	"strings"

	usb "github.com/usbarmory/tamago/soc/nxp/usb"
)

// Ethernet-over-USB (CDC-ECM) endpoint addresses, chosen to sit alongside
// internal/usbhid's three HID interrupt endpoints (0x81-0x83) on the same
// composite device (example/usb_ethernet.go's configureECM, generalized
// off its package-level globals into a function taking the device/stack
// to attach to).
const (
	ecmControlEndpointAddress = 0x84
	ecmTxEndpointAddress      = 0x85
	ecmRxEndpointAddress      = 0x05
	ecmControlMaxPacketSize   = 16
	ecmDataMaxPacketSize      = 512
)

// AddEthernetFunction appends a two-interface CDC-ECM function (control +
// data) to conf, wired to s's Tx/RxFunction, so the single USB connector
// this device presents to its host carries both the HID functions and the
// Ethernet-over-USB uplink the Barrier connection rides over.
func (s *Stack) AddEthernetFunction(dev *usb.Device, conf *usb.ConfigurationDescriptor) error {
	control := &usb.InterfaceDescriptor{}
	control.SetDefaults()
	control.NumEndpoints = 1
	control.InterfaceClass = 2 // CDC Communication
	control.InterfaceSubClass = 6 // Ethernet Control Model

	iInterface, err := dev.AddString("CDC Ethernet Control Model (ECM)")
	if err != nil {
		return err
	}
	control.Interface = iInterface

	header := &usb.CDCHeaderDescriptor{}
	header.SetDefaults()
	control.ClassDescriptors = append(control.ClassDescriptors, header.Bytes())

	union := &usb.CDCUnionDescriptor{}
	union.SetDefaults()
	control.ClassDescriptors = append(control.ClassDescriptors, union.Bytes())

	ethernet := &usb.CDCEthernetDescriptor{}
	ethernet.SetDefaults()

	iMacAddress, err := dev.AddString(strings.ReplaceAll(s.deviceMAC, ":", ""))
	if err != nil {
		return err
	}
	ethernet.MacAddress = iMacAddress
	control.ClassDescriptors = append(control.ClassDescriptors, ethernet.Bytes())

	epControl := &usb.EndpointDescriptor{}
	epControl.SetDefaults()
	epControl.EndpointAddress = ecmControlEndpointAddress
	epControl.Attributes = 3 // Interrupt
	epControl.MaxPacketSize = ecmControlMaxPacketSize
	epControl.Interval = 9
	epControl.Function = noEvents
	control.Endpoints = append(control.Endpoints, epControl)

	conf.AddInterface(control)

	data := &usb.InterfaceDescriptor{}
	data.SetDefaults()
	data.NumEndpoints = 2
	data.InterfaceClass = 10 // CDC Data

	iData, err := dev.AddString("CDC Data")
	if err != nil {
		return err
	}
	data.Interface = iData

	epTx := &usb.EndpointDescriptor{}
	epTx.SetDefaults()
	epTx.EndpointAddress = ecmTxEndpointAddress
	epTx.Attributes = 2 // Bulk
	epTx.MaxPacketSize = ecmDataMaxPacketSize
	epTx.Function = s.TxFunction
	data.Endpoints = append(data.Endpoints, epTx)

	epRx := &usb.EndpointDescriptor{}
	epRx.SetDefaults()
	epRx.EndpointAddress = ecmRxEndpointAddress
	epRx.Attributes = 2 // Bulk
	epRx.MaxPacketSize = ecmDataMaxPacketSize
	epRx.Function = s.RxFunction()
	data.Endpoints = append(data.Endpoints, epRx)

	conf.AddInterface(data)

	return nil
}

func noEvents(_ []byte, _ error) ([]byte, error) {
	return nil, nil
}
