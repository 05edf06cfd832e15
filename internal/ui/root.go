package ui

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/config"
	"github.com/ytget/eliot-client/internal/cookies"
	"github.com/ytget/eliot-client/internal/download"
	"github.com/ytget/eliot-client/internal/forms"
	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/platform"
	"github.com/ytget/eliot-client/internal/session"
)

// HistoryStore lists and clears the local download history
type HistoryStore interface {
	History(limit int) ([]model.HistoryEntry, error)
	ClearHistory() error
}

// Deps are the services the window is built on
type Deps struct {
	Client   *api.Client
	Settings *config.Settings
	Saver    *download.Service
	History  HistoryStore
}

// RootUI is the main window. It implements session.View.
type RootUI struct {
	ctx          context.Context
	app          fyne.App
	window       fyne.Window
	client       *api.Client
	settings     *config.Settings
	saver        *download.Service
	history      HistoryStore
	localization *Localization

	session *session.Session
	cookies *cookies.Manager
	forms   *forms.Handler
	cookieP *CookiePanel

	// URL row
	urlEntry    *urlEntry
	analyzeBtn  *widget.Button
	startBtn    *widget.Button
	formatRadio *widget.RadioGroup
	notices     *NoticeArea

	// Metadata card
	infoCard      *fyne.Container
	titleLabel    *widget.Label
	uploaderLabel *widget.Label
	durationLabel *widget.Label
	descLabel     *widget.Label
	thumbLink     *widget.Hyperlink
	platformLabel *widget.Label
	qualityBox    *fyne.Container
	qualityCard   *fyne.Container

	progress *ProgressPanel

	// Saved files
	saveList  *widget.List
	saveMu    sync.Mutex
	saveTasks []*model.SaveTask

	historyTab  *HistoryTab
	themeItem   *fyne.MenuItem
	adminWindow *AdminWindow
	settingsDlg *SettingsDialog

	pasteMu    sync.Mutex
	pasteTimer *time.Timer
}

// NewRootUI creates and initializes the main window content
func NewRootUI(ctx context.Context, app fyne.App, window fyne.Window, deps Deps) *RootUI {
	ui := &RootUI{
		ctx:          ctx,
		app:          app,
		window:       window,
		client:       deps.Client,
		settings:     deps.Settings,
		saver:        deps.Saver,
		history:      deps.History,
		localization: NewLocalization(),
		forms:        forms.NewHandler(deps.Client),
	}

	var base *url.URL
	if deps.Client != nil {
		base, _ = url.Parse(deps.Client.BaseURL())
	}
	ui.notices = NewNoticeArea(base)

	ui.cookieP = NewCookiePanel(window, ui.localization, ui.notices, ui.confirm)
	ui.cookies = cookies.NewManager(deps.Client, ui.cookieP)
	ui.cookieP.Bind(ctx, ui.cookies)

	opts := []session.Option{session.WithCookies(ui.cookies)}
	if deps.Saver != nil {
		opts = append(opts, session.WithSaver(deps.Saver))
	}
	ui.session = session.New(deps.Client, ui, deps.Settings, opts...)

	window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.setupUI()

	if deps.Saver != nil {
		deps.Saver.SetUpdateCallback(ui.onSaveUpdate)
	}
	go ui.cookies.ApplySupport(ctx, deps.Settings.CookieSupport())
	return ui
}

// Session returns the workflow driven by this window
func (ui *RootUI) Session() *session.Session {
	return ui.session
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = newURLEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) { ui.onAnalyzeClick() }
	ui.urlEntry.onPaste = ui.onPaste

	ui.analyzeBtn = widget.NewButton(session.LabelAnalyze, ui.onAnalyzeClick)
	ui.analyzeBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	left := container.NewHBox(settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		img := canvas.NewImageFromResource(logo)
		img.SetMinSize(fyne.NewSize(32, 32))
		img.FillMode = canvas.ImageFillContain
		left = container.NewHBox(img, settingsBtn)
	}
	topPanel := container.NewBorder(nil, nil, left, ui.analyzeBtn, ui.urlEntry)

	kinds := make([]string, 0, 3)
	for _, k := range model.OutputKinds() {
		kinds = append(kinds, model.Capitalize(string(k)))
	}
	ui.formatRadio = widget.NewRadioGroup(kinds, func(s string) {
		kind := model.ParseOutputKind(strings.ToLower(s))
		go ui.session.SetFormat(kind)
	})
	ui.formatRadio.Horizontal = true
	ui.formatRadio.Required = true
	ui.formatRadio.SetSelected(kinds[0])

	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.uploaderLabel = widget.NewLabel("")
	ui.durationLabel = widget.NewLabel("")
	ui.descLabel = widget.NewLabel("")
	ui.descLabel.Wrapping = fyne.TextWrapWord
	ui.descLabel.Truncation = fyne.TextTruncateEllipsis
	ui.thumbLink = widget.NewHyperlink(ui.localization.GetText(KeyThumbnail), nil)
	ui.thumbLink.Hide()
	ui.platformLabel = widget.NewLabel("")
	ui.platformLabel.Wrapping = fyne.TextWrapWord
	ui.platformLabel.Hide()

	ui.qualityBox = container.NewGridWrap(fyne.NewSize(120, 36))
	ui.qualityCard = container.NewVBox(widget.NewLabel(ui.localization.GetText(KeyQuality)), ui.qualityBox)
	ui.qualityCard.Hide()

	ui.startBtn = widget.NewButton(session.LabelStart, ui.onStartClick)
	ui.startBtn.Importance = widget.HighImportance

	ui.infoCard = container.NewVBox(
		ui.platformLabel,
		ui.titleLabel,
		container.NewHBox(ui.uploaderLabel, widget.NewLabel(MiddleDotSeparator), ui.durationLabel, ui.thumbLink),
		ui.descLabel,
		ui.qualityCard,
		ui.startBtn,
	)
	ui.infoCard.Hide()

	ui.progress = NewProgressPanel(ui.onCancelClick)
	ui.progress.Hide()

	downloadTab := container.NewVBox(
		topPanel,
		ui.notices.Container(),
		container.NewHBox(widget.NewLabel(ui.localization.GetText(KeyFormat)), ui.formatRadio),
		ui.cookieP.Container(),
		ui.infoCard,
		ui.progress,
	)

	ui.saveList = widget.NewList(
		func() int {
			ui.saveMu.Lock()
			defer ui.saveMu.Unlock()
			return len(ui.saveTasks)
		},
		func() fyne.CanvasObject {
			row := NewTaskRow(nil)
			row.SetCallbacks(ui.onStopSave, ui.onRevealFile, ui.onOpenFile, ui.onCopyPath)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			ui.saveMu.Lock()
			var task *model.SaveTask
			if id < len(ui.saveTasks) {
				task = ui.saveTasks[id]
			}
			ui.saveMu.Unlock()
			if row, ok := obj.(*TaskRow); ok && task != nil {
				row.UpdateTask(task)
			}
		},
	)

	ui.historyTab = NewHistoryTab(ui.history, ui.localization, ui.onRevealFile)

	tabs := container.NewAppTabs(
		container.NewTabItem(ui.localization.GetText(KeyTabDownload), container.NewVScroll(downloadTab)),
		container.NewTabItem(ui.localization.GetText(KeyTabSaved), ui.saveList),
		container.NewTabItem(ui.localization.GetText(KeyTabHistory), ui.historyTab.Container()),
	)
	tabs.OnSelected = func(item *container.TabItem) {
		if item.Text == ui.localization.GetText(KeyTabHistory) {
			ui.historyTab.Reload()
		}
	}

	ui.window.SetContent(tabs)
	ui.window.SetOnDropped(ui.onDropped)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText
	ui.themeItem = fyne.NewMenuItem(ui.themeLabel(), ui.onToggleTheme)
	fileMenu := fyne.NewMenu(t(KeyFile),
		fyne.NewMenuItem(t(KeySettings), ui.onShowSettings),
		ui.themeItem,
	)
	accountMenu := fyne.NewMenu(t(KeyAccount),
		fyne.NewMenuItem(t(KeyLogin), ui.showLoginDialog),
		fyne.NewMenuItem(t(KeyRegister), ui.showRegisterDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(KeyAdminPanel), ui.showAdminWindow),
		fyne.NewMenuItem(t(KeyChangePassword), ui.showChangePasswordDialog),
	)
	helpMenu := fyne.NewMenu(t(KeyHelp),
		fyne.NewMenuItem(t(KeyContact), ui.showContactDialog),
		fyne.NewMenuItem(t(KeyAbout), ui.showAboutDialog),
	)
	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, accountMenu, helpMenu))
}

func (ui *RootUI) onAnalyzeClick() {
	text := ui.urlEntry.Text
	go func() {
		if _, err := ui.session.Analyze(ui.ctx, text); err != nil {
			log.Debug().Err(err).Msg("[ui] analyze")
		}
	}()
}

// onPaste analyzes the pasted URL shortly after the paste lands
func (ui *RootUI) onPaste() {
	ui.pasteMu.Lock()
	defer ui.pasteMu.Unlock()
	if ui.pasteTimer != nil {
		ui.pasteTimer.Stop()
	}
	ui.pasteTimer = time.AfterFunc(PasteAnalyzeDelay, func() {
		fyne.Do(func() {
			if strings.TrimSpace(ui.urlEntry.Text) != "" {
				ui.onAnalyzeClick()
			}
		})
	})
}

func (ui *RootUI) onStartClick() {
	text := ui.urlEntry.Text
	go func() {
		if _, err := ui.session.Start(ui.ctx, text); err != nil {
			log.Debug().Err(err).Msg("[ui] start")
		}
	}()
}

func (ui *RootUI) onCancelClick() {
	go func() {
		_ = ui.session.Cancel(ui.ctx)
	}()
}

// onDropped hands a dropped .txt file to the cookie section
func (ui *RootUI) onDropped(_ fyne.Position, uris []fyne.URI) {
	if len(uris) == 0 || !ui.settings.CookieSupport() {
		return
	}
	path := uris[0].Path()
	go func() {
		_ = ui.cookies.SelectFile(cookies.LocalFile(path))
	}()
}

// SetControl implements session.View
func (ui *RootUI) SetControl(c session.Control, enabled bool, label string) {
	fyne.Do(func() {
		btn := ui.analyzeBtn
		if c == session.ControlStart {
			btn = ui.startBtn
		}
		btn.SetText(label)
		if enabled {
			btn.Enable()
		} else {
			btn.Disable()
		}
	})
}

// ShowNotice implements session.View
func (ui *RootUI) ShowNotice(n model.Notice) {
	ui.notices.ShowNotice(n)
}

// ClearNotices implements session.View
func (ui *RootUI) ClearNotices() {
	ui.notices.ClearNotices()
}

// SetInfoVisible implements session.View
func (ui *RootUI) SetInfoVisible(visible bool) {
	fyne.Do(func() { setVisible(ui.infoCard, visible) })
}

// RenderInfo implements session.View
func (ui *RootUI) RenderInfo(info session.InfoView) {
	fyne.Do(func() {
		ui.titleLabel.SetText(info.Title)
		ui.uploaderLabel.SetText(info.Uploader)
		ui.durationLabel.SetText(info.Duration)
		ui.descLabel.SetText(info.Description)
		setVisible(ui.descLabel, info.Description != "")
		if u, err := url.Parse(info.Thumbnail); err == nil && info.Thumbnail != "" {
			ui.thumbLink.SetURL(u)
			ui.thumbLink.Show()
		} else {
			ui.thumbLink.Hide()
		}
	})
}

// RenderPlatform implements session.View
func (ui *RootUI) RenderPlatform(b *session.PlatformBanner) {
	fyne.Do(func() {
		if b == nil {
			ui.platformLabel.Hide()
			return
		}
		switch b.Level {
		case model.LevelWarning:
			ui.platformLabel.Importance = widget.WarningImportance
		case model.LevelSuccess:
			ui.platformLabel.Importance = widget.SuccessImportance
		default:
			ui.platformLabel.Importance = widget.MediumImportance
		}
		ui.platformLabel.SetText(b.Message)
		ui.platformLabel.Show()
	})
}

// RenderQualities implements session.View
func (ui *RootUI) RenderQualities(opts []session.QualityOption) {
	fyne.Do(func() {
		objects := make([]fyne.CanvasObject, 0, len(opts))
		for _, o := range opts {
			value := o.Value
			btn := widget.NewButton(o.Label, func() {
				go ui.session.SelectQuality(value)
			})
			if o.Selected {
				btn.Importance = widget.HighImportance
			}
			objects = append(objects, btn)
		}
		ui.qualityBox.Objects = objects
		ui.qualityBox.Refresh()
		setVisible(ui.qualityCard, len(opts) > 0)
	})
}

// SetProgressVisible implements session.View
func (ui *RootUI) SetProgressVisible(visible bool) {
	fyne.Do(func() { setVisible(ui.progress, visible) })
}

// SetStartVisible implements session.View
func (ui *RootUI) SetStartVisible(visible bool) {
	fyne.Do(func() { setVisible(ui.startBtn, visible) })
}

// SetProgress implements session.View
func (ui *RootUI) SetProgress(r session.Readout) {
	fyne.Do(func() { ui.progress.SetReadout(r) })
}

// onSaveUpdate handles task updates from the save service
func (ui *RootUI) onSaveUpdate(task *model.SaveTask) {
	ui.saveMu.Lock()
	found := false
	wasCompleted := false
	for i, t := range ui.saveTasks {
		if t.ID == task.ID {
			wasCompleted = t.Status != model.TaskStatusCompleted && task.Status == model.TaskStatusCompleted
			ui.saveTasks[i] = task
			found = true
			break
		}
	}
	if !found {
		ui.saveTasks = append(ui.saveTasks, task)
		wasCompleted = task.Status == model.TaskStatusCompleted
	}
	ui.saveMu.Unlock()

	fyne.Do(func() { ui.saveList.Refresh() })

	if wasCompleted {
		ui.app.SendNotification(&fyne.Notification{
			Title:   ui.localization.GetText(KeyDownloadCompleted),
			Content: task.GetDisplayTitle(),
		})
		fyne.Do(ui.historyTab.Reload)
	}
}

func (ui *RootUI) onStopSave(taskID string) {
	if err := ui.saver.StopTask(taskID); err != nil {
		log.Warn().Err(err).Str("task_id", taskID).Msg("[ui] stop save")
	}
}

// onRevealFile reveals a saved file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		log.Error().Err(err).Str("path", filePath).Msg("[ui] reveal failed")
		ui.notices.ShowNotice(model.ErrorNotice(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error()))
	}
}

// onOpenFile opens a saved file with the default application
func (ui *RootUI) onOpenFile(filePath string) {
	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		log.Error().Err(err).Str("path", filePath).Msg("[ui] open failed")
		ui.notices.ShowNotice(model.ErrorNotice(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error()))
	}
}

// onCopyPath copies a saved file path to the clipboard
func (ui *RootUI) onCopyPath(filePath string) {
	ui.app.Clipboard().SetContent(filePath)
	ui.notices.ShowNotice(model.SuccessNotice(ui.localization.GetText(KeyPathCopied)))
}

func (ui *RootUI) onToggleTheme() {
	ui.ApplyTheme(ui.settings.ToggleDarkMode())
}

// themeLabel shows the icon of the theme the toggle switches to
func (ui *RootUI) themeLabel() string {
	icon := IconMoon
	if ui.settings.DarkMode() {
		icon = IconSun
	}
	return icon + " " + ui.localization.GetText(KeyToggleTheme)
}

// confirm asks a yes/no question and blocks until answered. It must not be
// called on the Fyne main goroutine.
func (ui *RootUI) confirm(prompt string) bool {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		dialog.ShowConfirm(ui.localization.GetText(KeyConfirm), prompt, func(ok bool) { answer <- ok }, ui.window)
	})
	return <-answer
}

func setVisible(obj fyne.CanvasObject, visible bool) {
	if visible {
		obj.Show()
	} else {
		obj.Hide()
	}
}

// urlEntry reports paste shortcuts so a pasted URL can be analyzed at once
type urlEntry struct {
	widget.Entry
	onPaste func()
}

func newURLEntry() *urlEntry {
	e := &urlEntry{}
	e.ExtendBaseWidget(e)
	return e
}

// TypedShortcut implements fyne.Shortcutable
func (e *urlEntry) TypedShortcut(s fyne.Shortcut) {
	e.Entry.TypedShortcut(s)
	if _, ok := s.(*fyne.ShortcutPaste); ok && e.onPaste != nil {
		e.onPaste()
	}
}
