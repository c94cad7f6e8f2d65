package logger

import "testing"

func TestNew_Modes(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		level   string
		wantErr bool
	}{
		{"dev default level", "dev", "", false},
		{"prod debug", "prod", "debug", false},
		{"unknown mode falls back to dev", "weird", "warn", false},
		{"bad level", "dev", "loud", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.mode, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q, %q) error: %v", tt.mode, tt.level, err)
			}
			if l.SugaredLogger == nil {
				t.Fatal("SugaredLogger is nil")
			}
		})
	}
}

func TestNop_DiscardsWithoutPanic(t *testing.T) {
	l := Nop().With("session", "abc")
	l.Debug("debug", "k", 1)
	l.Info("info")
	l.Warn("warn", "k", "v")
	l.Error("error")
	l.Sync()
}
