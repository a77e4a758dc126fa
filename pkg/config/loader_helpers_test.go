package config

import "testing"

func TestBoolFieldSet(t *testing.T) {
	raw := map[string]any{
		"focus_trap": map[string]any{"loop": false},
		"ui":         "not-a-map",
	}

	tests := []struct {
		path []string
		want bool
	}{
		{[]string{"focus_trap", "loop"}, true},
		{[]string{"focus_trap", "trapped"}, false},
		{[]string{"ui", "mouse"}, false},
		{[]string{"missing"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := boolFieldSet(raw, tt.path...); got != tt.want {
			t.Errorf("boolFieldSet(%v) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExpandHomeDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := map[string]string{
		"":               "",
		"/var/log/x.log": "/var/log/x.log",
		"~":              "/home/tester",
		"~/logs/a.log":   "/home/tester/logs/a.log",
		"  rel.log ":     "rel.log",
	}
	for in, want := range tests {
		if got := expandHomeDir(in); got != want {
			t.Errorf("expandHomeDir(%q) = %q, want %q", in, got, want)
		}
	}
}
