package netdial

import (
	"fmt"
	"net"

	"gvisor.dev/gvisor/pkg/tcpip"
	"gvisor.dev/gvisor/pkg/tcpip/adapters/gonet"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv4"
)

// Dialer connects to the Barrier server over the stack's TCP/IP stack. It
// is the io.ReadWriteCloser source barrier.Driver's caller dials and hands
// to the driver (spec.md §2, §5).
type Dialer struct {
	stack *Stack
}

// NewDialer wraps a configured Stack for dialing.
func NewDialer(s *Stack) *Dialer {
	return &Dialer{stack: s}
}

// Dial connects to host:port over the userspace stack, mirroring
// example/web_server.go's gonet.NewListener usage but for an outbound
// connection (gonet.DialTCP).
func (d *Dialer) Dial(host string, port uint16) (net.Conn, error) {
	addr := net.ParseIP(host)
	if addr == nil {
		return nil, fmt.Errorf("netdial: invalid server address %q", host)
	}

	full := tcpip.FullAddress{
		Addr: tcpip.Address(addr.To4()),
		Port: port,
		NIC:  NIC,
	}

	conn, err := gonet.DialTCP(d.stack.stack, full, ipv4.ProtocolNumber)
	if err != nil {
		return nil, fmt.Errorf("netdial: dial %s:%d: %v", host, port, err)
	}

	return conn, nil
}

// Listen opens a listener bound to port on the stack's own device address,
// for internal/debugsrv's diagnostics endpoint (example/web_server.go's
// gonet.NewListener).
func (d *Dialer) Listen(port uint16) (net.Listener, error) {
	full := tcpip.FullAddress{Port: port, NIC: NIC}

	ln, err := gonet.NewListener(d.stack.stack, full, ipv4.ProtocolNumber)
	if err != nil {
		return nil, fmt.Errorf("netdial: listen :%d: %v", port, err)
	}

	return ln, nil
}
