package ui

// Localization manages UI text. Only English ships; the lookup falls back to
// the key itself so missing entries stay visible.
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyTabDownload       = "tab_download"
	KeyTabSaved          = "tab_saved"
	KeyTabHistory        = "tab_history"
	KeyFile              = "file"
	KeyAccount           = "account"
	KeyHelp              = "help"
	KeySettings          = "settings"
	KeyToggleTheme       = "toggle_theme"
	KeyLogin             = "login"
	KeyRegister          = "register"
	KeyChangePassword    = "change_password"
	KeyAdminPanel        = "admin_panel"
	KeyContact           = "contact"
	KeyAbout             = "about"
	KeyEnterURL          = "enter_url"
	KeyFormat            = "format"
	KeyQuality           = "quality"
	KeyThumbnail         = "thumbnail"
	KeyCookies           = "cookies"
	KeyCookieSupport     = "cookie_support"
	KeyDarkMode          = "dark_mode"
	KeyServerURL         = "server_url"
	KeyDownloadDirectory = "download_directory"
	KeyAutoReveal        = "auto_reveal"
	KeyBrowse            = "browse"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyRefresh           = "refresh"
	KeyClear             = "clear"
	KeyDelete            = "delete"
	KeyConfirm           = "confirm"
	KeyRestartNeeded     = "restart_needed"
	KeyDownloadCompleted = "download_completed"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyPathCopied        = "path_copied"
	KeyNoHistory         = "no_history"
	KeyUsers             = "users"
	KeyInbox             = "inbox"
	KeySearchUsers       = "search_users"
	KeyMarkRead          = "mark_read"
	KeyMarkUnread        = "mark_unread"
	KeyReply             = "reply"
	KeyOpenMail          = "open_mail"
	KeyReload            = "reload"
	KeyBackendStatus     = "backend_status"
	KeyFFmpeg            = "ffmpeg"
	KeyAvailable         = "available"
	KeyUnavailable       = "unavailable"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}
	return key
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Eliot Downloader",
		KeyTabDownload:       "Download",
		KeyTabSaved:          "Saved",
		KeyTabHistory:        "History",
		KeyFile:              "File",
		KeyAccount:           "Account",
		KeyHelp:              "Help",
		KeySettings:          "Settings",
		KeyToggleTheme:       "Toggle Theme",
		KeyLogin:             "Login",
		KeyRegister:          "Create Account",
		KeyChangePassword:    "Change Password",
		KeyAdminPanel:        "Admin Panel",
		KeyContact:           "Contact",
		KeyAbout:             "About",
		KeyEnterURL:          "Paste a video or photo URL",
		KeyFormat:            "Format",
		KeyQuality:           "Quality",
		KeyThumbnail:         "Thumbnail",
		KeyCookies:           "Cookies",
		KeyCookieSupport:     "Cookie support",
		KeyDarkMode:          "Dark mode",
		KeyServerURL:         "Server URL",
		KeyDownloadDirectory: "Download Directory",
		KeyAutoReveal:        "Reveal saved files",
		KeyBrowse:            "Browse",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyRefresh:           "Refresh",
		KeyClear:             "Clear",
		KeyDelete:            "Delete",
		KeyConfirm:           "Confirm",
		KeyRestartNeeded:     "The server URL takes effect after a restart.",
		KeyDownloadCompleted: "Download completed",
		KeyErrorOpeningFile:  "Error opening file",
		KeyPathCopied:        "Path copied to clipboard",
		KeyNoHistory:         "No downloads yet",
		KeyUsers:             "Users",
		KeyInbox:             "Inbox",
		KeySearchUsers:       "Search users",
		KeyMarkRead:          "Mark read",
		KeyMarkUnread:        "Mark unread",
		KeyReply:             "Reply",
		KeyOpenMail:          "Could not open mail app",
		KeyReload:            "Reload",
		KeyBackendStatus:     "Backend status",
		KeyFFmpeg:            "FFmpeg",
		KeyAvailable:         "available",
		KeyUnavailable:       "not available",
	}
}
