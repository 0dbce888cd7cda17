package supervisor

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

type fakeActuator struct {
	connected    int32
	disconnected int32
}

func (f *fakeActuator) Connected()    { atomic.AddInt32(&f.connected, 1) }
func (f *fakeActuator) Disconnected() { atomic.AddInt32(&f.disconnected, 1) }

func (f *fakeActuator) ScreenSize() (uint16, uint16)     { return 1920, 1080 }
func (f *fakeActuator) CursorPosition() (uint16, uint16) { return 0, 0 }
func (f *fakeActuator) SetCursorPosition(uint16, uint16) {}
func (f *fakeActuator) MouseDown(int8)                   {}
func (f *fakeActuator) MouseUp(int8)                     {}
func (f *fakeActuator) MouseWheel(int16, int16)          {}
func (f *fakeActuator) KeyDown(uint16, uint16, uint16)   {}
func (f *fakeActuator) KeyUp(uint16, uint16, uint16)     {}
func (f *fakeActuator) KeyRepeat(uint16, uint16, uint16, uint16) {}
func (f *fakeActuator) ResetOptions()                    {}
func (f *fakeActuator) Enter()                           {}
func (f *fakeActuator) Leave()                           {}

// fakeDialer fails its first call and succeeds on the second, handing back
// one half of a net.Pipe whose peer immediately closes (ending the driver's
// session right after the handshake would start).
type fakeDialer struct {
	calls int32
	peer  net.Conn
}

func (d *fakeDialer) Dial(host string, port uint16) (net.Conn, error) {
	n := atomic.AddInt32(&d.calls, 1)
	if n == 1 {
		return nil, errors.New("connection refused")
	}
	client, server := net.Pipe()
	d.peer = server
	go server.Close()
	return client, nil
}

func TestSupervisorRetriesAfterConnectFailure(t *testing.T) {
	dialer := &fakeDialer{}
	act := &fakeActuator{}
	s := New(dialer, "10.0.0.2", 24800, "test-device", act, nil)
	s.limiter = rate.NewLimiter(rate.Every(time.Millisecond), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	if err != context.DeadlineExceeded {
		t.Fatalf("Run error = %v, want context.DeadlineExceeded", err)
	}

	if atomic.LoadInt32(&dialer.calls) < 2 {
		t.Fatalf("dialer called %d times, want at least 2 (one failure, one success)", dialer.calls)
	}
}
