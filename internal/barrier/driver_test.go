package barrier

import (
	"net"
	"testing"
	"time"
)

type fakeActuator struct {
	connected    int
	disconnected int
	entered      int
	left         int
	resetOptions int

	cursorX, cursorY uint16
	screenW, screenH uint16

	keyDowns []uint16
	keyUps   []uint16
}

func (f *fakeActuator) Connected()    { f.connected++ }
func (f *fakeActuator) Disconnected() { f.disconnected++ }

func (f *fakeActuator) ScreenSize() (uint16, uint16) { return f.screenW, f.screenH }

func (f *fakeActuator) CursorPosition() (uint16, uint16) { return f.cursorX, f.cursorY }
func (f *fakeActuator) SetCursorPosition(x, y uint16)    { f.cursorX, f.cursorY = x, y }

func (f *fakeActuator) MouseDown(int8)       {}
func (f *fakeActuator) MouseUp(int8)         {}
func (f *fakeActuator) MouseWheel(int16, int16) {}

func (f *fakeActuator) KeyDown(key, mask, button uint16) { f.keyDowns = append(f.keyDowns, key) }
func (f *fakeActuator) KeyUp(key, mask, button uint16)   { f.keyUps = append(f.keyUps, key) }
func (f *fakeActuator) KeyRepeat(key, mask, button, count uint16) {}

func (f *fakeActuator) ResetOptions() { f.resetOptions++ }
func (f *fakeActuator) Enter()        { f.entered++ }
func (f *fakeActuator) Leave()        { f.left++ }

type fakeWatchdog struct {
	fed int
}

func (f *fakeWatchdog) Feed() { f.fed++ }

func TestDriverHelloHandshake(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	act := &fakeActuator{screenW: 1920, screenH: 1080}
	drv := &Driver{Conn: client, DeviceName: "pico", Actuator: act}

	done := make(chan error, 1)
	go func() { done <- drv.Run() }()

	// Server sends the greeting: len | "Barrier" | major=1 | minor=6.
	if _, err := server.Write([]byte{0x00, 0x00, 0x00, 0x0B}); err != nil {
		t.Fatalf("write length: %v", err)
	}
	if _, err := server.Write([]byte("Barrier")); err != nil {
		t.Fatalf("write literal: %v", err)
	}
	if _, err := server.Write([]byte{0x00, 0x01, 0x00, 0x06}); err != nil {
		t.Fatalf("write version: %v", err)
	}

	reply := make([]byte, 4)
	if _, err := readFull(server, reply); err != nil {
		t.Fatalf("read reply length: %v", err)
	}
	length := uint32(reply[0])<<24 | uint32(reply[1])<<16 | uint32(reply[2])<<8 | uint32(reply[3])

	body := make([]byte, length)
	if _, err := readFull(server, body); err != nil {
		t.Fatalf("read reply body: %v", err)
	}

	if string(body[0:7]) != "Barrier" {
		t.Fatalf("reply literal = %q, want Barrier", body[0:7])
	}
	if body[7] != 0x00 || body[8] != 0x01 {
		t.Fatalf("reply major = % X, want 00 01", body[7:9])
	}
	if body[9] != 0x00 || body[10] != 0x06 {
		t.Fatalf("reply minor = % X, want 00 06", body[9:11])
	}
	nameLen := uint32(body[11])<<24 | uint32(body[12])<<16 | uint32(body[13])<<8 | uint32(body[14])
	name := string(body[15 : 15+nameLen])
	if name != "pico" {
		t.Fatalf("reply device name = %q, want pico", name)
	}

	deadline := time.After(time.Second)
	for act.connected == 0 {
		select {
		case <-deadline:
			t.Fatal("actuator.Connected() was never called")
		default:
		}
	}

	client.Close()
	server.Close()
	<-done
}

func TestDriverQueryInfoReply(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	act := &fakeActuator{screenW: 1920, screenH: 1080, cursorX: 100, cursorY: 200}
	drv := &Driver{Conn: client, DeviceName: "pico", Actuator: act}

	go drv.Run()

	sendHello(t, server)
	drainHelloBack(t, server)

	sendPacket(t, server, Packet{Kind: TagQueryInfo})

	pkt := recvPacket(t, server)
	if pkt.Kind != TagDeviceInfo {
		t.Fatalf("Kind = %q, want %q", pkt.Kind, TagDeviceInfo)
	}
	if pkt.X != 100 || pkt.Y != 200 || pkt.W != 1920 || pkt.H != 1080 {
		t.Fatalf("got %+v", pkt)
	}
}

func TestDriverKeepAliveFeedsWatchdog(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	act := &fakeActuator{}
	wdog := &fakeWatchdog{}
	drv := &Driver{Conn: client, DeviceName: "pico", Actuator: act, Watchdog: wdog}

	go drv.Run()

	sendHello(t, server)
	drainHelloBack(t, server)

	for i := 0; i < 3; i++ {
		sendPacket(t, server, Packet{Kind: TagKeepAlive})
		reply := recvPacket(t, server)
		if reply.Kind != TagKeepAlive {
			t.Fatalf("reply.Kind = %q, want %q", reply.Kind, TagKeepAlive)
		}
	}

	// The driver feeds the watchdog only after its reply write returns,
	// which can be just after the reply has been read here.
	deadline := time.After(time.Second)
	for wdog.fed < 3 {
		select {
		case <-deadline:
			t.Fatalf("watchdog fed %d times, want 3", wdog.fed)
		default:
		}
	}

	if wdog.fed != 3 {
		t.Fatalf("watchdog fed %d times, want 3", wdog.fed)
	}
}

func TestDriverLeaveInvokesActuator(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	act := &fakeActuator{}
	drv := &Driver{Conn: client, DeviceName: "pico", Actuator: act}

	go drv.Run()

	sendHello(t, server)
	drainHelloBack(t, server)

	sendPacket(t, server, Packet{Kind: TagCursorEnter, X: 1, Y: 2})
	sendPacket(t, server, Packet{Kind: TagKeyDown, KeyID: 0x0061, Button: 7})
	sendPacket(t, server, Packet{Kind: TagCursorLeave})

	deadline := time.After(time.Second)
	for act.left == 0 {
		select {
		case <-deadline:
			t.Fatal("actuator.Leave() was never called")
		default:
		}
	}

	if act.entered != 1 {
		t.Fatalf("entered = %d, want 1", act.entered)
	}
	if len(act.keyDowns) != 1 || act.keyDowns[0] != 0x0061 {
		t.Fatalf("keyDowns = %v, want [0x61]", act.keyDowns)
	}
}

func sendHello(t *testing.T, server net.Conn) {
	t.Helper()
	if _, err := server.Write([]byte{0x00, 0x00, 0x00, 0x0B}); err != nil {
		t.Fatalf("write hello length: %v", err)
	}
	if _, err := server.Write([]byte("Barrier")); err != nil {
		t.Fatalf("write hello literal: %v", err)
	}
	if _, err := server.Write([]byte{0x00, 0x01, 0x00, 0x06}); err != nil {
		t.Fatalf("write hello version: %v", err)
	}
}

func drainHelloBack(t *testing.T, server net.Conn) {
	t.Helper()
	lenBuf := make([]byte, 4)
	if _, err := readFull(server, lenBuf); err != nil {
		t.Fatalf("read hello-back length: %v", err)
	}
	length := uint32(lenBuf[0])<<24 | uint32(lenBuf[1])<<16 | uint32(lenBuf[2])<<8 | uint32(lenBuf[3])
	if _, err := readFull(server, make([]byte, length)); err != nil {
		t.Fatalf("read hello-back body: %v", err)
	}
}

func sendPacket(t *testing.T, server net.Conn, pkt Packet) {
	t.Helper()
	if err := Encode(server, pkt); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func recvPacket(t *testing.T, server net.Conn) Packet {
	t.Helper()
	pkt, err := Decode(server)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return pkt
}

func readFull(r net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
