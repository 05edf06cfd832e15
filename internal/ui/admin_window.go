package ui

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/admin"
	"github.com/ytget/eliot-client/internal/model"
)

// AdminWindow shows the user table, the inbox and the password form.
// It implements admin.View.
type AdminWindow struct {
	ui     *RootUI
	window fyne.Window
	panel  *admin.Panel

	notices  *NoticeArea
	users    *fyne.Container
	messages *fyne.Container
	search   *widget.Entry
	filter   *widget.Select
}

var filterLabels = map[string]string{
	"All":    admin.FilterAll,
	"Read":   admin.FilterRead,
	"Unread": admin.FilterUnread,
}

// newAdminWindow builds the admin window; call Show to display it
func newAdminWindow(ui *RootUI) *AdminWindow {
	t := ui.localization.GetText
	aw := &AdminWindow{
		ui:       ui,
		window:   ui.app.NewWindow(t(KeyAdminPanel)),
		notices:  NewNoticeArea(nil),
		users:    container.NewVBox(),
		messages: container.NewVBox(),
	}
	aw.panel = admin.NewPanel(ui.client, aw)

	aw.search = widget.NewEntry()
	aw.search.SetPlaceHolder(t(KeySearchUsers))
	aw.search.OnChanged = func(s string) { go aw.panel.Search(s) }

	aw.filter = widget.NewSelect([]string{"All", "Read", "Unread"}, func(s string) {
		go aw.panel.SetFilter(filterLabels[s])
	})
	aw.filter.Selected = "All"

	reload := widget.NewButton(t(KeyReload), aw.reload)

	usersTab := container.NewBorder(aw.search, nil, nil, nil, container.NewVScroll(aw.users))
	inboxTab := container.NewBorder(aw.filter, nil, nil, nil, container.NewVScroll(aw.messages))

	pwNotices := NewNoticeArea(nil)
	pwForm, form := ui.changePasswordForm(pwNotices)
	passwordTab := container.NewVBox(pwNotices.Container(), form, pwForm.submit)

	tabs := container.NewAppTabs(
		container.NewTabItem(t(KeyUsers), usersTab),
		container.NewTabItem(t(KeyInbox), inboxTab),
		container.NewTabItem(t(KeyChangePassword), passwordTab),
	)

	aw.window.SetContent(container.NewBorder(
		container.NewBorder(nil, nil, nil, reload, aw.notices.Container()),
		nil, nil, nil, tabs))
	aw.window.Resize(fyne.NewSize(AdminWindowWidth, AdminWindowHeight))
	aw.window.SetOnClosed(func() { ui.adminWindow = nil })
	return aw
}

// Show displays the window and loads both lists
func (aw *AdminWindow) Show() {
	aw.window.Show()
	aw.reload()
}

func (aw *AdminWindow) reload() {
	go func() {
		if err := aw.panel.Reload(aw.ui.ctx); err != nil {
			aw.notices.ShowNotice(model.ErrorNotice(err.Error()))
		}
	}()
}

// RenderUsers implements admin.View
func (aw *AdminWindow) RenderUsers(rows []admin.UserRow) {
	fyne.Do(func() {
		objects := make([]fyne.CanvasObject, 0, len(rows))
		for _, r := range rows {
			name := widget.NewLabel(r.Username)
			name.TextStyle = fyne.TextStyle{Bold: true}
			objects = append(objects, container.NewHBox(name, widget.NewLabel(r.Email)))
		}
		aw.users.Objects = objects
		aw.users.Refresh()
	})
}

// RenderMessages implements admin.View
func (aw *AdminWindow) RenderMessages(msgs []admin.Message) {
	fyne.Do(func() {
		t := aw.ui.localization.GetText
		objects := make([]fyne.CanvasObject, 0, len(msgs))
		for _, m := range msgs {
			msg := m
			header := widget.NewLabel(msg.Name + MiddleDotSeparator + msg.Email)
			header.TextStyle = fyne.TextStyle{Bold: !msg.IsRead()}
			preview := widget.NewLabel(msg.Preview)
			preview.Wrapping = fyne.TextWrapWord

			toggleText := t(KeyMarkRead)
			if msg.IsRead() {
				toggleText = t(KeyMarkUnread)
			}
			toggle := widget.NewButton(toggleText, func() {
				go func() {
					if err := aw.panel.ToggleStatus(aw.ui.ctx, msg.ID, !msg.IsRead()); err != nil {
						aw.notices.ShowNotice(model.ErrorNotice(err.Error()))
					}
				}()
			})
			reply := widget.NewButton(t(KeyReply), func() { aw.reply(msg) })

			objects = append(objects, container.NewVBox(
				header, preview, container.NewHBox(toggle, reply), widget.NewSeparator()))
		}
		aw.messages.Objects = objects
		aw.messages.Refresh()
	})
}

// reply opens a mail draft prefilled for the sender
func (aw *AdminWindow) reply(msg admin.Message) {
	r := admin.ReplyFor(msg.Email, msg.Name)
	u := &url.URL{
		Scheme:   "mailto",
		Opaque:   r.To,
		RawQuery: url.Values{"subject": {r.Subject}}.Encode(),
	}
	if err := aw.ui.app.OpenURL(u); err != nil {
		log.Error().Err(err).Str("to", r.To).Msg("[ui] open mail")
		aw.notices.ShowNotice(model.ErrorNotice(aw.ui.localization.GetText(KeyOpenMail) + ": " + err.Error()))
	}
}

func (ui *RootUI) showAdminWindow() {
	if ui.adminWindow == nil {
		ui.adminWindow = newAdminWindow(ui)
	}
	ui.adminWindow.Show()
}
