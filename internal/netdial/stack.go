// Package netdial builds the userspace TCP/IP stack this system dials the
// Barrier server over, and the Ethernet-over-USB link endpoint that feeds
// it, following the same gvisor wiring pattern TamaGo's own
// example/usb_ethernet.go uses for its CDC-ECM network gadget.
package netdial

import (
	"encoding/binary"
	"fmt"
	"net"

	"gvisor.dev/gvisor/pkg/tcpip"
	"gvisor.dev/gvisor/pkg/tcpip/buffer"
	"gvisor.dev/gvisor/pkg/tcpip/link/channel"
	"gvisor.dev/gvisor/pkg/tcpip/network/arp"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv4"
	"gvisor.dev/gvisor/pkg/tcpip/stack"
	"gvisor.dev/gvisor/pkg/tcpip/transport/icmp"
	"gvisor.dev/gvisor/pkg/tcpip/transport/tcp"
	"gvisor.dev/gvisor/pkg/tcpip/transport/udp"
)

// NIC is the only network interface this stack carries: the Ethernet-over-USB
// link to the host the device is plugged into.
const NIC tcpip.NICID = 1

// channelSize is the number of in-flight outbound frames channel.New buffers
// before the TX endpoint function must drain them.
const channelSize = 256

// Config describes the Ethernet-over-USB link address configuration: the
// device's own MAC/IP, and the MAC of the host it presents the link to.
type Config struct {
	DeviceMAC string
	HostMAC   string
	DeviceIP  string
	MTU       uint32
}

// Stack owns the gvisor network stack and the channel-backed link endpoint
// that TxFunction/RxFunction drain and feed, generalizing
// example/usb_ethernet.go's package-level configureNetworkStack into a
// reusable, non-global type.
type Stack struct {
	stack     *stack.Stack
	link      *channel.Endpoint
	hostMAC   []byte
	deviceMAC string
	mtu       uint32
}

// New builds the stack: ARP/IPv4/TCP/UDP/ICMP protocols over a single NIC
// backed by a channel.Endpoint, address-configured per cfg, with a default
// route pointed at that NIC (example/usb_ethernet.go's configureNetworkStack).
func New(cfg Config) (*Stack, error) {
	hostMAC, err := net.ParseMAC(cfg.HostMAC)
	if err != nil {
		return nil, fmt.Errorf("netdial: invalid host MAC: %w", err)
	}

	linkAddr, err := tcpip.ParseMACAddress(cfg.DeviceMAC)
	if err != nil {
		return nil, fmt.Errorf("netdial: invalid device MAC: %w", err)
	}

	mtu := cfg.MTU
	if mtu == 0 {
		mtu = 1500
	}

	s := stack.New(stack.Options{
		NetworkProtocols: []stack.NetworkProtocol{
			ipv4.NewProtocol(),
			arp.NewProtocol(),
		},
		TransportProtocols: []stack.TransportProtocol{
			tcp.NewProtocol(),
			udp.NewProtocol(),
			icmp.NewProtocol4(),
		},
	})

	link := channel.New(channelSize, mtu, linkAddr)

	if err := s.CreateNIC(NIC, link); err != nil {
		return nil, fmt.Errorf("netdial: create NIC: %v", err)
	}

	if err := s.AddAddress(NIC, arp.ProtocolNumber, arp.ProtocolAddress); err != nil {
		return nil, fmt.Errorf("netdial: add ARP address: %v", err)
	}

	addr := tcpip.Address(net.ParseIP(cfg.DeviceIP).To4())
	if err := s.AddAddress(NIC, ipv4.ProtocolNumber, addr); err != nil {
		return nil, fmt.Errorf("netdial: add device address: %v", err)
	}

	subnet, err := tcpip.NewSubnet(tcpip.Address("\x00\x00\x00\x00"), tcpip.AddressMask("\x00\x00\x00\x00"))
	if err != nil {
		return nil, fmt.Errorf("netdial: default route: %v", err)
	}
	s.SetRouteTable([]tcpip.Route{{Destination: subnet, NIC: NIC}})

	return &Stack{stack: s, link: link, hostMAC: hostMAC, deviceMAC: cfg.DeviceMAC, mtu: mtu}, nil
}

// TxFunction implements usb.EndpointFunction for the CDC-ECM IN (device to
// host) data endpoint: it drains one queued outbound frame per poll and
// prepends the Ethernet header, exactly as example/usb_ethernet.go's ECMTx.
func (s *Stack) TxFunction(_ []byte, _ error) ([]byte, error) {
	var frame []byte

	select {
	case info := <-s.link.C:
		hdr := info.Pkt.Header.View()
		payload := info.Pkt.Data.ToView()

		proto := make([]byte, 2)
		binary.BigEndian.PutUint16(proto, uint16(info.Proto))

		frame = append(frame, s.hostMAC...)
		frame = append(frame, []byte(s.link.LinkAddress())...)
		frame = append(frame, proto...)
		frame = append(frame, hdr...)
		frame = append(frame, payload...)
	default:
	}

	return frame, nil
}

// RxFunction implements usb.EndpointFunction for the CDC-ECM OUT (host to
// device) data endpoint: it reassembles one Ethernet frame from one or more
// max-packet-sized USB transfers and injects it into the stack, exactly as
// example/usb_ethernet.go's ECMRx.
func (s *Stack) RxFunction() func(out []byte, lastErr error) ([]byte, error) {
	var rx []byte
	const maxPacketSize = 512

	return func(out []byte, _ error) ([]byte, error) {
		if len(rx) == 0 && len(out) < 14 {
			return nil, nil
		}

		rx = append(rx, out...)

		if len(out) == maxPacketSize {
			// More data expected: a full-sized transfer never ends a frame.
			return nil, nil
		}

		hdr := buffer.NewViewFromBytes(rx[0:14])
		proto := tcpip.NetworkProtocolNumber(binary.BigEndian.Uint16(rx[12:14]))
		payload := buffer.NewViewFromBytes(rx[14:])

		s.link.InjectInbound(proto, tcpip.PacketBuffer{
			LinkHeader: hdr,
			Data:       payload.ToVectorisedView(),
		})

		rx = nil
		return nil, nil
	}
}
