package barrier

import (
	"io"
	"log"
)

const (
	protocolMajor = 1
	protocolMinor = 6
)

// WatchdogFeeder is fed on every successful KeepAlive round-trip (§5); the
// supervisor wires this to the hardware watchdog.
type WatchdogFeeder interface {
	Feed()
}

type nopFeeder struct{}

func (nopFeeder) Feed() {}

// Driver runs the Hello/HelloBack/Loop state machine (§4.3) over an
// already-connected stream, dispatching decoded packets to an Actuator.
type Driver struct {
	Conn       io.ReadWriteCloser
	DeviceName string
	Actuator   Actuator
	Watchdog   WatchdogFeeder

	width, height uint16
}

// Run performs the handshake and then pumps packets until a terminal
// error (Io, Format, or PacketTooSmall) ends the session. The returned
// error is never nil: a closed Conn surfaces as the read error it causes
// (io.EOF or a closed-connection error), and every return from Run is
// treated as "session ended, reconnect".
func (d *Driver) Run() error {
	if d.Watchdog == nil {
		d.Watchdog = nopFeeder{}
	}

	if err := d.hello(); err != nil {
		return err
	}

	if err := d.helloBack(); err != nil {
		return err
	}

	d.Actuator.Connected()

	err := d.loop()
	d.Actuator.Disconnected()

	return err
}

// hello reads the server's greeting: length | "Barrier" | u16 major | u16
// minor. The declared length is read but not enforced against the literal
// length, since some reference server versions append trailing bytes to
// this one message and it is a full write rather than a framed parse on
// our side (§4.3 state 1).
func (d *Driver) hello() error {
	if _, err := readUint32(d.Conn); err != nil {
		return err
	}

	literal, err := readFixed(d.Conn, 7)
	if err != nil {
		return err
	}
	if string(literal) != "Barrier" {
		return ErrFormat
	}

	if _, err := readUint16(d.Conn); err != nil {
		return err
	}
	if _, err := readUint16(d.Conn); err != nil {
		return err
	}

	return nil
}

// helloBack writes the client's reply: len | "Barrier" | u16 1 | u16 6 |
// len-prefixed device name (§4.3 state 2, §6).
func (d *Driver) helloBack() error {
	body := make([]byte, 0, 7+2+2+4+len(d.DeviceName))
	body = append(body, "Barrier"...)
	body = appendUint16(body, protocolMajor)
	body = appendUint16(body, protocolMinor)
	body = appendUint32(body, uint32(len(d.DeviceName)))
	body = append(body, d.DeviceName...)

	if err := writeUint32(d.Conn, uint32(len(body))); err != nil {
		return err
	}
	_, err := d.Conn.Write(body)
	return err
}

// loop is the main event pump (§4.3 state 3, dispatch table).
func (d *Driver) loop() error {
	d.width, d.height = d.Actuator.ScreenSize()

	for {
		pkt, err := Decode(d.Conn)
		if err != nil {
			return err
		}

		if err := d.dispatch(pkt); err != nil {
			return err
		}
	}
}

func (d *Driver) dispatch(pkt Packet) error {
	switch pkt.Kind {
	case TagQueryInfo:
		x, y := d.Actuator.CursorPosition()
		reply := Packet{Kind: TagDeviceInfo, X: x, Y: y, W: d.width, H: d.height}
		return Encode(d.Conn, reply)

	case TagKeepAlive:
		if err := Encode(d.Conn, Packet{Kind: TagKeepAlive}); err != nil {
			return err
		}
		d.Watchdog.Feed()
		return nil

	case TagMouseMoveAbs:
		d.Actuator.SetCursorPosition(uint16(pkt.MoveX), uint16(pkt.MoveY))

	case TagMouseMove:
		MoveCursor(d.Actuator, int16(pkt.MoveX), int16(pkt.MoveY))

	case TagKeyDown:
		d.Actuator.KeyDown(pkt.KeyID, pkt.KeyMask, pkt.Button)

	case TagKeyUp:
		d.Actuator.KeyUp(pkt.KeyID, pkt.KeyMask, pkt.Button)

	case TagKeyRepeat:
		d.Actuator.KeyRepeat(pkt.KeyID, pkt.KeyMask, pkt.Button, pkt.Count)

	case TagMouseDown:
		d.Actuator.MouseDown(pkt.ButtonID)

	case TagMouseUp:
		d.Actuator.MouseUp(pkt.ButtonID)

	case TagMouseWheel:
		d.Actuator.MouseWheel(pkt.WheelX, pkt.WheelY)

	case TagResetOptions:
		d.Actuator.ResetOptions()

	case TagCursorEnter:
		d.Actuator.Enter()

	case TagCursorLeave:
		d.Actuator.Leave()

	case TagInfoAck, TagDeviceInfo, TagErrorUnknownDevice, TagClientNoOp:
		// server-only or acknowledgment packets, nothing to do

	default:
		log.Printf("barrier: ignoring %s", pkt.Kind)
	}

	return nil
}

func readFixed(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func appendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
