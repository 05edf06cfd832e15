package session

import (
	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/platform"
)

// PlatformHelpTitle heads the analyze failure notice
const PlatformHelpTitle = "Heads-up"

// PlatformHelp builds the analyze failure notice. Login-gated hosts get
// login guidance; every other host gets the generic hints. Wording follows
// whether cookie support is enabled.
func PlatformHelp(message, url string, cookieSupport bool) model.Notice {
	var lines []string
	if platform.IsLoginGated(url) {
		next := "Enable cookie support in settings and upload cookies"
		if cookieSupport {
			next = "Upload cookies from your logged-in browser session"
		}
		lines = []string{
			"This platform requires login for full video access",
			"Without cookies, you may only get trailers or previews",
			"To get full videos: " + next,
			"Make sure you're logged in to the website in your browser first",
		}
	} else {
		where := " (enable in settings)"
		if cookieSupport {
			where = " (upload via cookie management)"
		}
		lines = []string{
			"Some platforms use bot detection. Try a different link or come back later.",
			"Only download where you have permission.",
			"For private content, sign-in/cookies may be required" + where + ".",
		}
	}
	return model.Notice{
		Level: model.NoticeError,
		Title: PlatformHelpTitle,
		Text:  message,
		Lines: lines,
		TTL:   HelpNoticeTTL,
	}
}
