package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/eliot-client/internal/forms"
	"github.com/ytget/eliot-client/internal/model"
)

func newTestFormView(redirect func(string)) (*formView, *widget.Entry) {
	f := newFormView(NewNoticeArea(nil), redirect)
	f.submit = widget.NewButton(forms.LabelContact, nil)
	msg := widget.NewEntry()
	f.field(forms.FieldMessage, "Message", msg)
	return f, msg
}

func TestFormViewFieldErrors(t *testing.T) {
	test.NewApp()
	f, _ := newTestFormView(nil)

	f.ShowFieldError(forms.FieldMessage, "too short")
	l := f.errors[forms.FieldMessage]
	assert.True(t, l.Visible())
	assert.Equal(t, "too short", l.Text)

	f.ShowFieldError("no_such_field", "boom")
	require.NotNil(t, f.notices.Current())
	assert.Equal(t, "boom", f.notices.Current().Text)

	f.ClearErrors()
	assert.False(t, l.Visible())
	assert.Empty(t, l.Text)
}

func TestFormViewSubmittingAndReset(t *testing.T) {
	test.NewApp()
	f, msg := newTestFormView(nil)
	privacy := widget.NewCheck("privacy", nil)
	f.checks = append(f.checks, privacy)

	f.SetSubmitting(true, forms.LabelSending)
	assert.True(t, f.submit.Disabled())
	assert.Equal(t, forms.LabelSending, f.submit.Text)

	f.SetSubmitting(false, forms.LabelContact)
	assert.False(t, f.submit.Disabled())

	msg.SetText("hello")
	privacy.SetChecked(true)
	f.Reset()
	assert.Empty(t, msg.Text)
	assert.False(t, privacy.Checked)

	f.ShowNotice(model.SuccessNotice("sent"))
	assert.Equal(t, "sent", f.notices.Current().Text)
}

func TestFormViewRedirect(t *testing.T) {
	test.NewApp()
	got := make(chan string, 1)
	closed := false
	f, _ := newTestFormView(func(p string) { got <- p })
	f.close = func() { closed = true }

	f.Redirect("/admin/users", 10*time.Millisecond)
	select {
	case p := <-got:
		assert.Equal(t, "/admin/users", p)
		assert.True(t, closed)
	case <-time.After(time.Second):
		t.Fatal("redirect did not fire")
	}
}
