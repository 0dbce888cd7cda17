package config

import "testing"

func TestDefaultIsPopulated(t *testing.T) {
	cfg := Default()

	if cfg.DeviceName == "" {
		t.Fatalf("DeviceName empty")
	}
	if cfg.ScreenWidth == 0 || cfg.ScreenHeight == 0 {
		t.Fatalf("screen size not set: %dx%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if cfg.ServerPort != 24800 {
		t.Fatalf("ServerPort = %d, want the conventional Barrier port 24800", cfg.ServerPort)
	}
}
