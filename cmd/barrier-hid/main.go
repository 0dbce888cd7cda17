// +build tamago,arm

// Command barrier-hid boots the USB armory Mk II as a Barrier/Synergy
// client: it presents itself to a physically attached host as a composite
// USB HID device (boot keyboard, absolute wheel mouse, consumer control)
// over a CDC-ECM Ethernet-over-USB uplink, dials out to a Barrier server
// over that link, and drives the HID gadget from the decoded input stream.
package main

import (
	"context"
	"log"
	"os"

	"github.com/usbarmory/tamago/board/usbarmory/mk2"
	"github.com/usbarmory/tamago/soc/nxp/imx6ul"

	"github.com/usbarmory/barrier-hid/internal/config"
	"github.com/usbarmory/barrier-hid/internal/debugsrv"
	"github.com/usbarmory/barrier-hid/internal/indicator"
	"github.com/usbarmory/barrier-hid/internal/netdial"
	"github.com/usbarmory/barrier-hid/internal/supervisor"
	"github.com/usbarmory/barrier-hid/internal/usbhid"
)

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
}

// boardLED adapts mk2.LED's named-LED call into indicator.LED; this
// device blinks its white LED for connection state (§3, §6).
type boardLED struct{}

func (boardLED) Set(on bool) error {
	return mk2.LED("white", on)
}

// watchdogFeeder adapts the i.MX6UL TZ watchdog's Service call into
// barrier.WatchdogFeeder; KeepAlive round-trips re-arm it (§5).
type watchdogFeeder struct {
	timeoutMs int
}

func (w watchdogFeeder) Feed() {
	imx6ul.WDOG1.Service(w.timeoutMs)
}

func main() {
	cfg := config.Default()

	log.Printf("barrier-hid: starting on %s", mk2.Model())

	status := indicator.NewChannel()
	go indicator.Run(status, boardLED{})
	status <- indicator.PowerOn

	netStack, err := netdial.New(netdial.Config{
		DeviceMAC: cfg.DeviceMAC,
		HostMAC:   cfg.HostMAC,
		DeviceIP:  cfg.DeviceIP,
	})
	if err != nil {
		log.Fatalf("barrier-hid: network stack: %v", err)
	}

	gadget, err := usbhid.NewGadget(cfg.DeviceName)
	if err != nil {
		log.Fatalf("barrier-hid: HID gadget: %v", err)
	}

	if err := netStack.AddEthernetFunction(gadget.Device, gadget.Device.Configurations[0]); err != nil {
		log.Fatalf("barrier-hid: ethernet function: %v", err)
	}

	gadget.Start()
	imx6ul.USB1.Init()
	imx6ul.USB1.DeviceMode()
	go imx6ul.USB1.Start(gadget.Device)

	actuator := usbhid.NewUSBActuator(cfg.ScreenWidth, cfg.ScreenHeight, cfg.FlipMouseWheel, gadget, status)

	watchdogTimeoutMs := int(cfg.WatchdogIntervalSeconds) * 1000
	imx6ul.WDOG1.Init()
	imx6ul.WDOG1.EnableTimeout(watchdogTimeoutMs)

	dialer := netdial.NewDialer(netStack)

	if cfg.DebugServerPort != 0 {
		ln, err := dialer.Listen(cfg.DebugServerPort)
		if err != nil {
			log.Printf("barrier-hid: debug server disabled: %v", err)
		} else {
			go debugsrv.New().Serve(ln)
		}
	}

	sup := supervisor.New(dialer, cfg.ServerHost, cfg.ServerPort, cfg.DeviceName, actuator, watchdogFeeder{timeoutMs: watchdogTimeoutMs})

	status <- indicator.ServerConnecting

	if err := sup.Run(context.Background()); err != nil {
		log.Fatalf("barrier-hid: supervisor stopped: %v", err)
	}
}
