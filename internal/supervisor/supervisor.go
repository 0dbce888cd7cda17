// Package supervisor owns the reconnect loop around barrier.Driver: dial,
// run, and on any terminal error wait out a pace-limited backoff before
// dialing again, forever (spec.md §5: "any read/write error on the
// connection ... triggers reconnection").
package supervisor

import (
	"context"
	"log"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/usbarmory/barrier-hid/internal/barrier"
)

// ConnectTimeout bounds a single dial attempt (§5).
const ConnectTimeout = 10 * time.Second

// ReconnectInterval is the steady-state pace between connection attempts
// (§5: "retry every 1s").
const ReconnectInterval = 1 * time.Second

// Dialer abstracts the transport-specific connect step (internal/netdial's
// gonet.DialTCP wraps this) so Supervisor itself has no network import.
type Dialer interface {
	Dial(host string, port uint16) (net.Conn, error)
}

// Supervisor redials the Barrier server and runs the protocol driver over
// each connection, forever, pacing reconnect attempts the way a
// golang.org/x/time/rate consumer would rather than a hand-rolled ticker.
type Supervisor struct {
	Dialer     Dialer
	Host       string
	Port       uint16
	DeviceName string
	Actuator   barrier.Actuator
	Watchdog   barrier.WatchdogFeeder

	limiter waiter
}

// waiter is the subset of *rate.Limiter Supervisor needs, narrowed so
// tests can substitute a faster pace than the real 1s reconnect cadence.
type waiter interface {
	Wait(ctx context.Context) error
}

// New constructs a Supervisor paced at ReconnectInterval.
func New(dialer Dialer, host string, port uint16, deviceName string, actuator barrier.Actuator, watchdog barrier.WatchdogFeeder) *Supervisor {
	return &Supervisor{
		Dialer:     dialer,
		Host:       host,
		Port:       port,
		DeviceName: deviceName,
		Actuator:   actuator,
		Watchdog:   watchdog,
		limiter:    rate.NewLimiter(rate.Every(ReconnectInterval), 1),
	}
}

// Run dials, runs the driver to completion, and repeats until ctx is
// canceled. It never returns nil; the only way out is context
// cancellation, whose error is returned.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		conn, err := s.dial(ctx)
		if err != nil {
			log.Printf("supervisor: connect failed: %v", err)
			continue
		}

		log.Printf("supervisor: connected to %s:%d", s.Host, s.Port)

		d := &barrier.Driver{
			Conn:       conn,
			DeviceName: s.DeviceName,
			Actuator:   s.Actuator,
			Watchdog:   s.Watchdog,
		}

		err = d.Run()
		conn.Close()

		log.Printf("supervisor: session ended: %v", err)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// dial enforces ConnectTimeout around a blocking Dialer.Dial call; the
// gvisor dialer itself has no context parameter, so the deadline is
// enforced by racing it against a timer rather than by cancellation.
func (s *Supervisor) dial(ctx context.Context) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		conn, err := s.Dialer.Dial(s.Host, s.Port)
		ch <- result{conn, err}
	}()

	select {
	case r := <-ch:
		return r.conn, r.err
	case <-time.After(ConnectTimeout):
		return nil, context.DeadlineExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
