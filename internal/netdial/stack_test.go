package netdial

import "testing"

func TestNewBuildsStack(t *testing.T) {
	cfg := Config{
		DeviceMAC: "1a:55:89:a2:69:41",
		HostMAC:   "1a:55:89:a2:69:42",
		DeviceIP:  "10.0.0.1",
	}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.stack == nil {
		t.Fatalf("stack not initialized")
	}
}

func TestNewRejectsInvalidMAC(t *testing.T) {
	cfg := Config{DeviceMAC: "not-a-mac", HostMAC: "1a:55:89:a2:69:42", DeviceIP: "10.0.0.1"}

	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for invalid device MAC")
	}
}

func TestDialRejectsInvalidAddress(t *testing.T) {
	cfg := Config{DeviceMAC: "1a:55:89:a2:69:41", HostMAC: "1a:55:89:a2:69:42", DeviceIP: "10.0.0.1"}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := NewDialer(s)
	if _, err := d.Dial("not-an-ip", 24800); err == nil {
		t.Fatalf("expected error for invalid server address")
	}
}
