package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconFolder   = "📁"
	IconCopy     = "📋"
	IconClose    = "×"
	IconError    = "❌"
	IconStop     = "⏹"
	IconPending  = "⏳"
	IconMoon     = "🌙"
	IconSun      = "☀"
	IconCookie   = "🍪"
	IconDelete   = "🗑"
	IconBullet   = "• "
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	ProgressLabelFormat = "%d%%"
)

// Layout sizing (rows / lists)
const (
	StatusLabelWidth  float32 = 84
	PercentLabelWidth float32 = 48
)

// Window sizing
const (
	DialogWidth       float32 = 480
	DialogHeight      float32 = 420
	AdminWindowWidth  float32 = 820
	AdminWindowHeight float32 = 600
)

// Delays
const (
	// PasteAnalyzeDelay is how long after a paste the URL is analyzed
	PasteAnalyzeDelay = 120 * time.Millisecond

	// HistoryLimit is how many history entries the History tab shows
	HistoryLimit = 200
)
