package barrier

import (
	"bytes"
	"fmt"
	"io"
	"log"
)

// Decode reads one framed packet from r: a big-endian u32 length, followed
// by length bytes whose first four are the tag. Declared lengths below 4
// fail with ErrPacketTooSmall; above MaxPacketLength the payload is drained and
// reported as an Unknown packet carrying the tag (§3, §7) — the only
// protocol-level error the client recovers from without ending the
// session. Any bytes left in the sub-stream after a known tag's fields
// have been parsed are drained before Decode returns, so the wire is
// always correctly positioned for the next length prefix.
func Decode(r io.Reader) (Packet, error) {
	length, err := readUint32(r)
	if err != nil {
		return Packet{}, err
	}

	if length < 4 {
		return Packet{}, ErrPacketTooSmall
	}

	sub := NewTake(r, length)

	tag, err := readTag(sub)
	if err != nil {
		return Packet{}, err
	}

	if length > MaxPacketLength {
		log.Printf("barrier: packet too large (%d bytes), discarding", length)
		if err := sub.Drain(); err != nil {
			return Packet{}, err
		}
		return Packet{Kind: "Unknown:" + tag}, nil
	}

	pkt, err := decodeBody(sub, tag)
	if err != nil {
		return Packet{}, err
	}

	if r := sub.Remaining(); r > 0 {
		log.Printf("barrier: %d residual bytes after %q payload", r, tag)
	}

	if err := sub.Drain(); err != nil {
		return Packet{}, err
	}

	return pkt, nil
}

func decodeBody(sub *Take, tag string) (Packet, error) {
	switch tag {
	case TagQueryInfo, TagInfoAck, TagKeepAlive, TagResetOptions, TagClientNoOp, TagErrorUnknownDevice, TagCursorLeave:
		return Packet{Kind: tag}, nil

	case TagDeviceInfo:
		x, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		y, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		w, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		h, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		dummy, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		mx, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		my, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, X: x, Y: y, W: w, H: h, Dummy: dummy, MX: mx, MY: my}, nil

	case TagCursorEnter:
		x, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		y, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		seq, err := readUint32(sub)
		if err != nil {
			return Packet{}, err
		}
		mask, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, X: x, Y: y, Seq: seq, Mask: mask}, nil

	case TagMouseUp, TagMouseDown:
		id, err := readInt8(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, ButtonID: id}, nil

	case TagKeyUp, TagKeyDown:
		id, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		mask, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		button, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, KeyID: id, KeyMask: mask, Button: button}, nil

	case TagKeyRepeat:
		id, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		mask, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		count, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		button, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, KeyID: id, KeyMask: mask, Count: count, Button: button}, nil

	case TagMouseWheel:
		dx, err := readInt16(sub)
		if err != nil {
			return Packet{}, err
		}
		dy, err := readInt16(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, WheelX: dx, WheelY: dy}, nil

	case TagMouseMoveAbs:
		x, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		y, err := readUint16(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, MoveX: int32(x), MoveY: int32(y)}, nil

	case TagMouseMove:
		dx, err := readInt16(sub)
		if err != nil {
			return Packet{}, err
		}
		dy, err := readInt16(sub)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Kind: tag, MoveX: int32(dx), MoveY: int32(dy)}, nil

	default:
		return Packet{Kind: "Unknown:" + tag}, nil
	}
}

// Encode writes a framed packet, supporting every variant the client may
// originate — including ones it is never expected to write (DeviceInfo,
// QueryInfo, InfoAck, KeepAlive, MouseMoveAbs, ClientNoOp,
// ErrorUnknownDevice, ResetOptions) for symmetry with Decode (§4.2).
func Encode(w io.Writer, p Packet) error {
	var body []byte
	var err error

	switch p.Kind {
	case TagQueryInfo, TagInfoAck, TagKeepAlive, TagResetOptions, TagClientNoOp, TagErrorUnknownDevice, TagCursorLeave:
		body = []byte(p.Kind)

	case TagDeviceInfo:
		body, err = encodeFields(p.Kind, p.X, p.Y, p.W, p.H, p.Dummy, p.MX, p.MY)

	case TagCursorEnter:
		body, err = encodeFields(p.Kind, p.X, p.Y, p.Seq, p.Mask)

	case TagMouseUp, TagMouseDown:
		body, err = encodeFields(p.Kind, p.ButtonID)

	case TagKeyUp, TagKeyDown:
		body, err = encodeFields(p.Kind, p.KeyID, p.KeyMask, p.Button)

	case TagKeyRepeat:
		body, err = encodeFields(p.Kind, p.KeyID, p.KeyMask, p.Count, p.Button)

	case TagMouseWheel:
		body, err = encodeFields(p.Kind, p.WheelX, p.WheelY)

	case TagMouseMoveAbs:
		body, err = encodeFields(p.Kind, uint16(p.MoveX), uint16(p.MoveY))

	case TagMouseMove:
		body, err = encodeFields(p.Kind, int16(p.MoveX), int16(p.MoveY))

	default:
		return fmt.Errorf("barrier: cannot encode packet kind %q", p.Kind)
	}

	if err != nil {
		return err
	}

	if err := writeUint32(w, uint32(len(body))); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// encodeFields serializes tag followed by each field in declared order,
// to an in-memory buffer, used to compute the length prefix before the
// real write.
func encodeFields(tag string, fields ...interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := writeTag(buf, tag); err != nil {
		return nil, err
	}

	for _, f := range fields {
		var err error
		switch v := f.(type) {
		case uint16:
			err = writeUint16(buf, v)
		case int16:
			err = writeUint16(buf, uint16(v))
		case uint32:
			err = writeUint32(buf, v)
		case int8:
			err = writeUint8(buf, uint8(v))
		default:
			return nil, fmt.Errorf("barrier: unsupported field type %T", f)
		}
		if err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
