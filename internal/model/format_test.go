package model

import "testing"

func ptr(f float64) *float64 { return &f }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  *float64
		expected string
	}{
		{nil, "Unknown"},
		{ptr(0), "0:00"},
		{ptr(5), "0:05"},
		{ptr(90), "1:30"},
		{ptr(3600), "1:00:00"},
		{ptr(3661), "1:01:01"},
		{ptr(7323.9), "2:02:03"},
	}

	for _, test := range tests {
		result := FormatDuration(test.seconds)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s, expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		progress float64
		expected string
	}{
		{0, "0%"},
		{42, "42%"},
		{42.5, "42.5%"},
		{100, "100%"},
	}

	for _, test := range tests {
		result := FormatPercent(test.progress)
		if result != test.expected {
			t.Errorf("FormatPercent(%v) = %s, expected %s", test.progress, result, test.expected)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"downloading", "Downloading"},
		{"processing", "Processing"},
		{"Completed", "Completed"},
		{"élan", "Élan"},
	}

	for _, test := range tests {
		if result := Capitalize(test.in); result != test.expected {
			t.Errorf("Capitalize(%q) = %q, expected %q", test.in, result, test.expected)
		}
	}
}

func TestCookieEntry_Label(t *testing.T) {
	if got := (CookieEntry{Name: "default"}).Label(); got != "default (Default)" {
		t.Errorf("unexpected label %q", got)
	}
	if got := (CookieEntry{Name: "yt", Uploaded: true}).Label(); got != "yt" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestParseOutputKind(t *testing.T) {
	tests := map[string]OutputKind{
		"video": KindVideo,
		"Audio": KindAudio,
		"photo": KindPhoto,
		"":      KindVideo,
		"gif":   KindVideo,
	}
	for in, expected := range tests {
		if got := ParseOutputKind(in); got != expected {
			t.Errorf("ParseOutputKind(%q) = %s, expected %s", in, got, expected)
		}
	}
}
