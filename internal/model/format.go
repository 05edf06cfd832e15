package model

import (
	"fmt"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Placeholders shown in readouts
const (
	DashPlaceholder    = "—"
	UnknownPlaceholder = "Unknown"
)

// FormatDuration formats seconds as m:ss, or h:mm:ss from one hour up
func FormatDuration(seconds *float64) string {
	if seconds == nil || math.IsNaN(*seconds) {
		return UnknownPlaceholder
	}

	total := int(math.Floor(*seconds))
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatPercent renders a progress value the way the backend sent it: 42 -> "42%", 42.5 -> "42.5%"
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// Capitalize upper-cases the first rune of s
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// OrDash returns s, or the dash placeholder when s is empty
func OrDash(s string) string {
	if s == "" {
		return DashPlaceholder
	}
	return s
}
