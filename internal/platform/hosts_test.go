package platform

import "testing"

func TestHostname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.YouTube.com/watch?v=x", "www.youtube.com"},
		{"vimeo.com/148751763", "vimeo.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Hostname(tt.in); got != tt.want {
			t.Errorf("Hostname(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsLoginGated(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://agasobanuyefilms.com/movie/1", true},
		{"https://www.agasobanuyefilms.com/movie/1", true},
		{"agasobanuyefilms.com/x", true},
		{"https://notagasobanuyefilms.com.evil.io/", false},
		{"https://www.youtube.com/watch?v=jfKfPfyJRdk", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsLoginGated(tt.in); got != tt.want {
			t.Errorf("IsLoginGated(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
