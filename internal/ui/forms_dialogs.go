package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/forms"
	"github.com/ytget/eliot-client/internal/model"
)

// Field names of the account forms
const (
	fieldUsername        = "username"
	fieldPassword        = "password"
	fieldConfirmPassword = "confirm_password"
	fieldCurrentPassword = "current_password"
	fieldNewPassword     = "new_password"
)

// formView renders one form. It implements forms.View.
type formView struct {
	submit   *widget.Button
	notices  *NoticeArea
	entries  map[string]*widget.Entry
	errors   map[string]*widget.Label
	checks   []*widget.Check
	close    func()
	redirect func(path string)

	mu    sync.Mutex
	timer *time.Timer
}

func newFormView(notices *NoticeArea, redirect func(string)) *formView {
	return &formView{
		notices:  notices,
		entries:  make(map[string]*widget.Entry),
		errors:   make(map[string]*widget.Label),
		redirect: redirect,
	}
}

// field registers an entry with its error label and returns the form row
func (f *formView) field(name, label string, e *widget.Entry) *widget.FormItem {
	errLabel := widget.NewLabel("")
	errLabel.Importance = widget.DangerImportance
	errLabel.Hide()
	f.entries[name] = e
	f.errors[name] = errLabel
	return widget.NewFormItem(label, container.NewVBox(e, errLabel))
}

// errorLabel registers an error label for a non-entry field
func (f *formView) errorLabel(name string) *widget.Label {
	l := widget.NewLabel("")
	l.Importance = widget.DangerImportance
	l.Hide()
	f.errors[name] = l
	return l
}

// SetSubmitting implements forms.View
func (f *formView) SetSubmitting(submitting bool, label string) {
	fyne.Do(func() {
		f.submit.SetText(label)
		if submitting {
			f.submit.Disable()
		} else {
			f.submit.Enable()
		}
	})
}

// ClearErrors implements forms.View
func (f *formView) ClearErrors() {
	fyne.Do(func() {
		for _, l := range f.errors {
			l.SetText("")
			l.Hide()
		}
	})
}

// ShowFieldError implements forms.View
func (f *formView) ShowFieldError(field, message string) {
	l, ok := f.errors[field]
	if !ok {
		f.notices.ShowNotice(model.ErrorNotice(message))
		return
	}
	fyne.Do(func() {
		l.SetText(message)
		l.Show()
	})
}

// ShowNotice implements forms.View
func (f *formView) ShowNotice(n model.Notice) {
	f.notices.ShowNotice(n)
}

// Reset implements forms.View
func (f *formView) Reset() {
	fyne.Do(func() {
		for _, e := range f.entries {
			e.SetText("")
		}
		for _, c := range f.checks {
			c.SetChecked(false)
		}
	})
}

// Redirect implements forms.View. The dialog closes after delay and the
// target page is opened in its desktop form.
func (f *formView) Redirect(path string, delay time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(delay, func() {
		fyne.Do(func() {
			if f.close != nil {
				f.close()
			}
			if f.redirect != nil {
				f.redirect(path)
			}
		})
	})
}

// showForm wraps items, the notice area and the submit button in a dialog
func (ui *RootUI) showForm(title string, f *formView, items []*widget.FormItem, extra ...fyne.CanvasObject) {
	form := widget.NewForm(items...)
	body := container.NewVBox(f.notices.Container(), form)
	for _, obj := range extra {
		body.Add(obj)
	}

	var d dialog.Dialog
	closeBtn := widget.NewButton(ui.localization.GetText(KeyCancel), func() { d.Hide() })
	body.Add(container.NewHBox(closeBtn, f.submit))

	d = dialog.NewCustomWithoutButtons(title, container.NewVScroll(body), ui.window)
	f.close = d.Hide
	d.Resize(fyne.NewSize(DialogWidth, DialogHeight))
	d.Show()
}

// redirect opens the desktop equivalent of a server page
func (ui *RootUI) redirect(path string) {
	switch {
	case path == forms.LoginPath:
		ui.showLoginDialog()
	case strings.HasPrefix(path, "/admin"):
		ui.showAdminWindow()
	default:
		log.Debug().Str("path", path).Msg("[ui] redirect ignored")
	}
}

func (ui *RootUI) showLoginDialog() {
	f := newFormView(NewNoticeArea(nil), ui.redirect)
	username := widget.NewEntry()
	password := widget.NewPasswordEntry()
	items := []*widget.FormItem{
		f.field(fieldUsername, "Username", username),
		f.field(fieldPassword, "Password", password),
	}
	f.submit = widget.NewButton(forms.LabelLogin, func() {
		req := api.LoginRequest{Username: username.Text, Password: password.Text}
		go func() { _ = ui.forms.Login(ui.ctx, f, req) }()
	})
	f.submit.Importance = widget.HighImportance
	password.OnSubmitted = func(string) { f.submit.OnTapped() }
	ui.showForm(ui.localization.GetText(KeyLogin), f, items)
}

func (ui *RootUI) showRegisterDialog() {
	f := newFormView(NewNoticeArea(nil), ui.redirect)
	username := widget.NewEntry()
	email := widget.NewEntry()
	password := widget.NewPasswordEntry()
	confirm := widget.NewPasswordEntry()
	items := []*widget.FormItem{
		f.field(fieldUsername, "Username", username),
		f.field(forms.FieldEmail, "Email", email),
		f.field(fieldPassword, "Password", password),
		f.field(fieldConfirmPassword, "Confirm Password", confirm),
	}
	f.submit = widget.NewButton(forms.LabelRegister, func() {
		req := api.RegisterRequest{
			Username:        username.Text,
			Email:           email.Text,
			Password:        password.Text,
			ConfirmPassword: confirm.Text,
		}
		go func() { _ = ui.forms.Register(ui.ctx, f, req) }()
	})
	f.submit.Importance = widget.HighImportance
	ui.showForm(ui.localization.GetText(KeyRegister), f, items)
}

func (ui *RootUI) showContactDialog() {
	f := newFormView(NewNoticeArea(nil), nil)
	name := widget.NewEntry()
	email := widget.NewEntry()
	location := widget.NewEntry()
	subject := widget.NewEntry()
	message := widget.NewMultiLineEntry()
	message.Wrapping = fyne.TextWrapWord
	message.SetMinRowsVisible(5)

	counter := widget.NewLabel(fmt.Sprintf("0/%d", forms.MaxMessageLength))
	message.OnChanged = func(s string) {
		n, level := forms.MessageCounter(s)
		counter.SetText(fmt.Sprintf("%d/%d", n, forms.MaxMessageLength))
		switch level {
		case forms.CounterError:
			counter.Importance = widget.DangerImportance
		case forms.CounterWarn:
			counter.Importance = widget.WarningImportance
		default:
			counter.Importance = widget.MediumImportance
		}
		counter.Refresh()
	}

	privacy := widget.NewCheck("I agree to the privacy policy", nil)
	f.checks = append(f.checks, privacy)

	items := []*widget.FormItem{
		f.field(forms.FieldName, "Name", name),
		f.field(forms.FieldEmail, "Email", email),
		f.field(forms.FieldLocation, "Location", location),
		f.field(forms.FieldSubject, "Subject", subject),
		f.field(forms.FieldMessage, "Message", message),
	}
	f.submit = widget.NewButton(forms.LabelContact, func() {
		in := forms.ContactInput{
			Name:     name.Text,
			Email:    email.Text,
			Location: location.Text,
			Subject:  subject.Text,
			Message:  message.Text,
			Privacy:  privacy.Checked,
		}
		go func() { _ = ui.forms.Contact(ui.ctx, f, in) }()
	})
	f.submit.Importance = widget.HighImportance
	ui.showForm(ui.localization.GetText(KeyContact), f, items,
		counter, privacy, f.errorLabel(forms.FieldPrivacy))
}

// changePasswordForm builds the password form; it is shown both as a dialog
// and inside the admin window.
func (ui *RootUI) changePasswordForm(notices *NoticeArea) (*formView, *widget.Form) {
	f := newFormView(notices, nil)
	current := widget.NewPasswordEntry()
	next := widget.NewPasswordEntry()
	confirm := widget.NewPasswordEntry()
	items := []*widget.FormItem{
		f.field(fieldCurrentPassword, "Current Password", current),
		f.field(fieldNewPassword, "New Password", next),
		f.field(fieldConfirmPassword, "Confirm Password", confirm),
	}
	f.submit = widget.NewButton(forms.LabelChangePassword, func() {
		req := api.ChangePasswordRequest{
			CurrentPassword: current.Text,
			NewPassword:     next.Text,
			ConfirmPassword: confirm.Text,
		}
		go func() { _ = ui.forms.ChangePassword(ui.ctx, f, req) }()
	})
	f.submit.Importance = widget.HighImportance
	return f, widget.NewForm(items...)
}

func (ui *RootUI) showChangePasswordDialog() {
	notices := NewNoticeArea(nil)
	f, form := ui.changePasswordForm(notices)

	var d dialog.Dialog
	closeBtn := widget.NewButton(ui.localization.GetText(KeyCancel), func() { d.Hide() })
	body := container.NewVBox(notices.Container(), form, container.NewHBox(closeBtn, f.submit))
	d = dialog.NewCustomWithoutButtons(ui.localization.GetText(KeyChangePassword), body, ui.window)
	f.close = d.Hide
	d.Resize(fyne.NewSize(DialogWidth, DialogHeight))
	d.Show()
}
