package ui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/eliot-client/internal/config"
	"github.com/ytget/eliot-client/internal/model"
)

// SettingsApplier receives the settings that take effect immediately
type SettingsApplier interface {
	ApplyTheme(dark bool)
	ApplyCookieSupport(enabled bool)
	ApplyDownloadDirectory(dir string)
	ApplyAutoReveal(enabled bool)
}

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	applier      SettingsApplier
	dialog       *dialog.ConfirmDialog

	mu   sync.Mutex
	open bool

	// UI components
	darkModeCheck    *widget.Check
	cookieCheck      *widget.Check
	serverEntry      *widget.Entry
	downloadDirEntry *widget.Entry
	autoRevealCheck  *widget.Check
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, l *Localization, applier SettingsApplier) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		window:       window,
		localization: l,
		applier:      applier,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.setOpen(true)
	sd.dialog.Show()
}

// Hide closes the dialog without saving
func (sd *SettingsDialog) Hide() {
	sd.dialog.Hide()
	sd.setOpen(false)
}

// Toggle opens a closed dialog and closes an open one
func (sd *SettingsDialog) Toggle() {
	if sd.IsOpen() {
		sd.Hide()
		return
	}
	sd.Show()
}

// IsOpen reports whether the dialog is showing
func (sd *SettingsDialog) IsOpen() bool {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.open
}

func (sd *SettingsDialog) setOpen(open bool) {
	sd.mu.Lock()
	sd.open = open
	sd.mu.Unlock()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.darkModeCheck = widget.NewCheck(t(KeyDarkMode), nil)
	sd.cookieCheck = widget.NewCheck(t(KeyCookieSupport), nil)

	sd.serverEntry = widget.NewEntry()
	sd.serverEntry.SetPlaceHolder(config.DefaultServerURL)

	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.autoRevealCheck = widget.NewCheck(t(KeyAutoReveal), nil)

	form := container.NewVBox(
		sd.darkModeCheck,
		sd.cookieCheck,
		widget.NewSeparator(),

		widget.NewLabel(t(KeyServerURL)+":"),
		sd.serverEntry,

		widget.NewLabel(t(KeyDownloadDirectory)+":"),
		downloadDirRow,
		sd.autoRevealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(DialogWidth, DialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.darkModeCheck.SetChecked(sd.settings.DarkMode())
	sd.cookieCheck.SetChecked(sd.settings.CookieSupport())
	sd.serverEntry.SetText(sd.settings.GetServerURL())
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave persists the form and applies what can change without a restart
func (sd *SettingsDialog) onSave(confirmed bool) {
	sd.setOpen(false)
	if !confirmed {
		return
	}

	if dark := sd.darkModeCheck.Checked; dark != sd.settings.DarkMode() {
		sd.settings.SetDarkMode(dark)
		sd.applier.ApplyTheme(dark)
	}

	if enabled := sd.cookieCheck.Checked; enabled != sd.settings.CookieSupport() {
		sd.settings.SetCookieSupport(enabled)
		sd.applier.ApplyCookieSupport(enabled)
	}

	if dir := strings.TrimSpace(sd.downloadDirEntry.Text); dir != "" && dir != sd.settings.GetDownloadDirectory() {
		sd.settings.SetDownloadDirectory(dir)
		sd.applier.ApplyDownloadDirectory(dir)
	}

	if reveal := sd.autoRevealCheck.Checked; reveal != sd.settings.GetAutoRevealOnComplete() {
		sd.settings.SetAutoRevealOnComplete(reveal)
		sd.applier.ApplyAutoReveal(reveal)
	}

	// The client is bound to its base URL for the life of the process
	if server := strings.TrimSpace(sd.serverEntry.Text); server != "" && server != sd.settings.GetServerURL() {
		sd.settings.SetServerURL(server)
		dialog.ShowInformation(sd.localization.GetText(KeySettings),
			sd.localization.GetText(KeyRestartNeeded), sd.window)
	}
}

func (ui *RootUI) onShowSettings() {
	if ui.settingsDlg == nil {
		ui.settingsDlg = NewSettingsDialog(ui.settings, ui.window, ui.localization, ui)
	}
	ui.settingsDlg.Toggle()
}

// ApplyTheme implements SettingsApplier
func (ui *RootUI) ApplyTheme(dark bool) {
	ui.app.Settings().SetTheme(NewCompactTheme(dark))
	if ui.themeItem != nil {
		ui.themeItem.Label = ui.themeLabel()
		if menu := ui.window.MainMenu(); menu != nil {
			menu.Refresh()
		}
	}
}

// ApplyCookieSupport implements SettingsApplier
func (ui *RootUI) ApplyCookieSupport(enabled bool) {
	go ui.cookies.ApplySupport(ui.ctx, enabled)
}

// ApplyDownloadDirectory implements SettingsApplier
func (ui *RootUI) ApplyDownloadDirectory(dir string) {
	if ui.saver != nil {
		ui.saver.SetDownloadDirectory(dir)
	}
}

// ApplyAutoReveal implements SettingsApplier
func (ui *RootUI) ApplyAutoReveal(enabled bool) {
	if ui.saver != nil {
		ui.saver.SetAutoReveal(enabled)
	}
}

// showAboutDialog shows the app title and what the backend can do
func (ui *RootUI) showAboutDialog() {
	t := ui.localization.GetText
	status := widget.NewLabel(t(KeyBackendStatus) + "...")
	status.Wrapping = fyne.TextWrapWord
	body := container.NewVBox(widget.NewLabel(t(KeyAppTitle)), widget.NewSeparator(), status)
	dialog.ShowCustom(t(KeyAbout), t(KeyCancel), body, ui.window)

	go func() {
		st, err := ui.client.BypassStatus(ui.ctx)
		text := t(KeyBackendStatus) + ": " + t(KeyUnavailable)
		if err == nil {
			text = formatBypassStatus(ui.localization, st.FFmpegAvailable, st.AvailableCookies, st.Notes)
		}
		fyne.Do(func() { status.SetText(text) })
	}()
}

func formatBypassStatus(l *Localization, ffmpeg bool, cookies []model.CookieEntry, notes []string) string {
	avail := func(ok bool) string {
		if ok {
			return l.GetText(KeyAvailable)
		}
		return l.GetText(KeyUnavailable)
	}
	lines := []string{
		l.GetText(KeyFFmpeg) + ": " + avail(ffmpeg),
		l.GetText(KeyCookies) + ": " + avail(len(cookies) > 0),
	}
	for _, c := range cookies {
		lines = append(lines, IconBullet+c.Name)
	}
	for _, n := range notes {
		lines = append(lines, IconBullet+n)
	}
	return strings.Join(lines, "\n")
}
