package update

import "testing"

func TestNewer(t *testing.T) {
	tests := []struct {
		candidate string
		current   string
		want      bool
	}{
		{"1.2.3", "1.2.2", true},
		{"1.2.3", "1.2.3", false},
		{"1.2.2", "1.2.3", false},
		{"2.0.0", "1.9.9", true},
		{"1.10.0", "1.9.0", true},
		{"v1.3.0", "1.2.9", true},
		{"1.2.3.1", "1.2.3", true},
		{"1.2", "1.2.0", false},
		{"", "1.0.0", false},
		{"1.0.0", "", true},
		{"1.2.3-rc1", "1.2.2", true},
		{"garbage", "1.0.0", false},
	}

	for _, tt := range tests {
		if got := Newer(tt.candidate, tt.current); got != tt.want {
			t.Errorf("Newer(%q, %q) = %v, want %v", tt.candidate, tt.current, got, tt.want)
		}
	}
}
