package hidreport

import "testing"

func TestSynergyHidKeyDownUpMirrorsReferenceTest(t *testing.T) {
	hid := NewSynergyHid(false)

	kind, b := hid.KeyDown(0x0000, 0x0000, 0x0000)
	if kind != ReportKeyboard {
		t.Fatalf("kind = %v, want Keyboard", kind)
	}
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if !equalBytes(b, want) {
		t.Fatalf("unknown key: got %v, want %v", b, want)
	}

	kind, b = hid.KeyDown('A', 0x0000, 0x0000)
	want = []byte{0, 0, HIDKeyA, 0, 0, 0, 0, 0}
	if kind != ReportKeyboard || !equalBytes(b, want) {
		t.Fatalf("press A: got %v %v, want Keyboard %v", kind, b, want)
	}

	kind, b = hid.KeyDown('B', 0x0000, 0x0000)
	want = []byte{0, 0, HIDKeyA, 0x05, 0, 0, 0, 0}
	if kind != ReportKeyboard || !equalBytes(b, want) {
		t.Fatalf("press B: got %v %v, want Keyboard %v", kind, b, want)
	}

	kind, b = hid.KeyUp('B', 0x0000, 0x0000)
	want = []byte{0, 0, HIDKeyA, 0, 0, 0, 0, 0}
	if kind != ReportKeyboard || !equalBytes(b, want) {
		t.Fatalf("release B: got %v %v, want Keyboard %v", kind, b, want)
	}

	// KeyUp on a button slot that is already idle (button 0 was released
	// by the previous KeyUp): the keyboard report is defensively cleared.
	kind, b = hid.KeyUp('C', 0x0000, 0x0000)
	want = []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if kind != ReportKeyboard || !equalBytes(b, want) {
		t.Fatalf("bad key up: got %v %v, want Keyboard %v", kind, b, want)
	}

	// kKeyAudioMute(0xE0AD) -> HID consumer mute (0x00E2).
	kind, b = hid.KeyDown(0xE0AD, 0x0000, 1)
	want = []byte{0xE2, 0x00}
	if kind != ReportConsumer || !equalBytes(b, want) {
		t.Fatalf("mute: got %v %v, want Consumer %v", kind, b, want)
	}
}

func TestSynergyHidKeyUpRecoversOriginalFromButtonSlot(t *testing.T) {
	hid := NewSynergyHid(false)

	hid.KeyDown('A', 0, 7)
	kind, b := hid.KeyUp(0xFFFF /* server may send a different id on KeyUp */, 0, 7)
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if kind != ReportKeyboard || !equalBytes(b, want) {
		t.Fatalf("got %v %v, want cleared keyboard report %v", kind, b, want)
	}
	if hid.serverButtons[7] != 0 {
		t.Fatalf("serverButtons[7] = %d, want 0 after KeyUp", hid.serverButtons[7])
	}
}

func TestSynergyHidMouseScroll(t *testing.T) {
	hid := NewSynergyHid(false)

	kind, b := hid.MouseScroll(0, 360)
	if kind != ReportMouse {
		t.Fatalf("kind = %v, want Mouse", kind)
	}
	want := []byte{0, 0, 0, 0, 0, 3, 0}
	if !equalBytes(b, want) {
		t.Fatalf("got %v, want %v", b, want)
	}
}

func TestSynergyHidMouseScrollFlipped(t *testing.T) {
	hid := NewSynergyHid(true)

	_, b := hid.MouseScroll(0, 360)
	want := []byte{0, 0, 0, 0, 0, 0xFD /* int8(-3) */, 0}
	if !equalBytes(b, want) {
		t.Fatalf("got %v, want %v", b, want)
	}
}

func TestScaleCursorBounds(t *testing.T) {
	cases := []struct {
		v, extent, want uint16
	}{
		{0, 1920, 0},
		{1920, 1920, 0x7FFF},
		{960, 1920, 0x3FFF},
	}

	for _, c := range cases {
		got := ScaleCursor(c.v, c.extent)
		if got != c.want {
			t.Fatalf("ScaleCursor(%d,%d) = %#x, want %#x", c.v, c.extent, got, c.want)
		}
	}
}

func TestScaleCursorMonotonic(t *testing.T) {
	const extent = 1080
	prev := uint16(0)
	for v := uint16(1); v < extent; v += 37 {
		got := ScaleCursor(v, extent)
		if got < prev {
			t.Fatalf("ScaleCursor not monotonic at v=%d: %#x < %#x", v, got, prev)
		}
		prev = got
	}
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
