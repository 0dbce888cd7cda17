package barrier

import (
	"bytes"
	"testing"
)

func TestDecodeQueryInfo(t *testing.T) {
	wire := []byte{0x00, 0x00, 0x00, 0x04, 'Q', 'I', 'N', 'F'}

	pkt, err := Decode(bytes.NewReader(wire))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt.Kind != TagQueryInfo {
		t.Fatalf("Kind = %q, want %q", pkt.Kind, TagQueryInfo)
	}
}

func TestEncodeDeviceInfoReply(t *testing.T) {
	// cursor at (100,200), screen 1920x1080, mx=my=0 (§8 QueryInfo scenario).
	pkt := Packet{Kind: TagDeviceInfo, X: 100, Y: 200, W: 1920, H: 1080}

	var buf bytes.Buffer
	if err := Encode(&buf, pkt); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := []byte{
		0x00, 0x00, 0x00, 0x12, // length = 18
		'D', 'I', 'N', 'F',
		0x00, 0x64, // x = 100
		0x00, 0xC8, // y = 200
		0x07, 0x80, // w = 1920
		0x04, 0x38, // h = 1080
		0x00, 0x00, // dummy
		0x00, 0x00, // mx
		0x00, 0x00, // my
	}

	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % X, want % X", buf.Bytes(), want)
	}
}

func TestDecodeOversizedPacketBecomesUnknown(t *testing.T) {
	var wire bytes.Buffer
	length := uint32(MaxPacketLength + 100)
	wire.Write([]byte{byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length)})
	wire.WriteString("ABCD")
	wire.Write(make([]byte, length-4))

	pkt, err := Decode(&wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt.Kind != "Unknown:ABCD" {
		t.Fatalf("Kind = %q, want Unknown:ABCD", pkt.Kind)
	}
	if wire.Len() != 0 {
		t.Fatalf("wire has %d bytes left, want fully drained", wire.Len())
	}
}

func TestDecodePacketTooSmall(t *testing.T) {
	wire := []byte{0x00, 0x00, 0x00, 0x02, 'A', 'B'}

	_, err := Decode(bytes.NewReader(wire))
	if err != ErrPacketTooSmall {
		t.Fatalf("err = %v, want ErrPacketTooSmall", err)
	}
}

func TestDecodeDrainsResidualBytes(t *testing.T) {
	// CALV declares a length longer than its (empty) payload actually
	// needs; the next packet's length prefix must still be found.
	var wire bytes.Buffer
	wire.Write([]byte{0x00, 0x00, 0x00, 0x08})
	wire.WriteString("CALV")
	wire.Write([]byte{0xAA, 0xBB, 0xCC, 0xCC})
	wire.Write([]byte{0x00, 0x00, 0x00, 0x04})
	wire.WriteString("QINF")

	first, err := Decode(&wire)
	if err != nil {
		t.Fatalf("first Decode: %v", err)
	}
	if first.Kind != TagKeepAlive {
		t.Fatalf("first.Kind = %q, want %q", first.Kind, TagKeepAlive)
	}

	second, err := Decode(&wire)
	if err != nil {
		t.Fatalf("second Decode: %v", err)
	}
	if second.Kind != TagQueryInfo {
		t.Fatalf("second.Kind = %q, want %q", second.Kind, TagQueryInfo)
	}
}

func TestDecodeKeyDown(t *testing.T) {
	var wire bytes.Buffer
	wire.Write([]byte{0x00, 0x00, 0x00, 0x0A})
	wire.WriteString("DKDN")
	wire.Write([]byte{0x00, 0x61}) // key 0x0061
	wire.Write([]byte{0x00, 0x00}) // mask
	wire.Write([]byte{0x00, 0x07}) // button 7

	pkt, err := Decode(&wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt.Kind != TagKeyDown || pkt.KeyID != 0x0061 || pkt.Button != 7 {
		t.Fatalf("got %+v", pkt)
	}
}
