package main

import (
	"strings"
	"testing"

	"github.com/boxvisor/hostup"
)

func TestModeFlag_Set(t *testing.T) {
	tests := []struct {
		input   string
		want    hostup.Mode
		wantErr bool
	}{
		{"normal", hostup.ModeNormal, false},
		{"testing", hostup.ModeTesting, false},
		{"testing-on", hostup.ModeTesting, false},
		{"TESTING-ON", hostup.ModeTesting, false}, // flags are case-insensitive
		{"Normal", hostup.ModeNormal, false},
		{"production", hostup.ModeNormal, true},
		{"", hostup.ModeNormal, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var m modeFlag
			err := m.Set(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && hostup.Mode(m) != tt.want {
				t.Errorf("Set(%q) = %v, want %v", tt.input, hostup.Mode(m), tt.want)
			}
		})
	}
}

func TestModeFlag_SetUnknownMessage(t *testing.T) {
	var m modeFlag
	err := m.Set("ciao")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `unknown mode: "ciao"`) {
		t.Errorf("error %q missing unknown mode context", err.Error())
	}
	if !strings.Contains(err.Error(), "available:") {
		t.Errorf("error %q missing available modes", err.Error())
	}
}

func TestModeFlag_StringAndType(t *testing.T) {
	m := modeFlag(hostup.ModeTesting)
	if got := m.String(); got != "testing" {
		t.Errorf("String() = %q, want %q", got, "testing")
	}
	if got := m.Type(); got != "mode" {
		t.Errorf("Type() = %q, want %q", got, "mode")
	}
}

func TestUpCmd_RejectsExtraArgs(t *testing.T) {
	cmd := upCmd()
	cmd.SetArgs([]string{"testing-on", "extra"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for more than one positional argument")
	}
}
