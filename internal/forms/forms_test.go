package forms

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
)

type submitState struct {
	submitting bool
	label      string
}

type fakeFormView struct {
	states      []submitState
	clears      int
	fieldErrors map[string]string
	notices     []model.Notice
	resets      int
	redirect    string
	delay       time.Duration
}

func newFakeFormView() *fakeFormView {
	return &fakeFormView{fieldErrors: map[string]string{}}
}

func (v *fakeFormView) SetSubmitting(submitting bool, label string) {
	v.states = append(v.states, submitState{submitting, label})
}
func (v *fakeFormView) ClearErrors()                     { v.clears++ }
func (v *fakeFormView) ShowFieldError(field, msg string) { v.fieldErrors[field] = msg }
func (v *fakeFormView) ShowNotice(n model.Notice)        { v.notices = append(v.notices, n) }
func (v *fakeFormView) Reset()                           { v.resets++ }
func (v *fakeFormView) Redirect(path string, delay time.Duration) {
	v.redirect = path
	v.delay = delay
}

func (v *fakeFormView) last() submitState {
	if len(v.states) == 0 {
		return submitState{}
	}
	return v.states[len(v.states)-1]
}

func (v *fakeFormView) notice() model.Notice {
	if len(v.notices) == 0 {
		return model.Notice{}
	}
	return v.notices[len(v.notices)-1]
}

type fakeBackend struct {
	calls    int
	redirect string
	message  string
	err      error

	contact api.ContactRequest
}

func (b *fakeBackend) Login(_ context.Context, _ api.LoginRequest) (string, error) {
	b.calls++
	return b.redirect, b.err
}

func (b *fakeBackend) Register(_ context.Context, _ api.RegisterRequest) (string, error) {
	b.calls++
	return b.message, b.err
}

func (b *fakeBackend) Contact(_ context.Context, req api.ContactRequest) (string, error) {
	b.calls++
	b.contact = req
	return b.message, b.err
}

func (b *fakeBackend) ChangePassword(_ context.Context, _ api.ChangePasswordRequest) (string, error) {
	b.calls++
	return b.message, b.err
}

var transportErr = fmt.Errorf("POST /x: %w: connection refused", api.ErrTransport)

func validContact() ContactInput {
	return ContactInput{
		Name:    "Ann",
		Email:   "ann@example.com",
		Subject: "support",
		Message: "Hello there, this is long enough.",
		Privacy: true,
	}
}

func TestLoginSuccessRedirects(t *testing.T) {
	b := &fakeBackend{redirect: "/admin/dashboard"}
	v := newFakeFormView()

	require.NoError(t, NewHandler(b).Login(context.Background(), v, api.LoginRequest{Username: " admin ", Password: "pw"}))

	assert.Equal(t, []submitState{{true, LabelLoggingIn}, {false, LabelLogin}}, v.states)
	assert.Equal(t, MsgLoginSuccess, v.notice().Text)
	assert.Equal(t, "/admin/dashboard", v.redirect)
	assert.Equal(t, LoginRedirectDelay, v.delay)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error", &api.AppError{Status: 401, Message: "Invalid username or password"}, "Invalid username or password"},
		{"app error without message", &api.AppError{Status: 500}, MsgLoginFailed},
		{"transport", transportErr, MsgNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newFakeFormView()
			err := NewHandler(&fakeBackend{err: tt.err}).Login(context.Background(), v, api.LoginRequest{})
			require.Error(t, err)
			assert.Equal(t, tt.want, v.notice().Text)
			assert.Equal(t, model.NoticeError, v.notice().Level)
			assert.Equal(t, submitState{false, LabelLogin}, v.last())
			assert.Empty(t, v.redirect)
		})
	}
}

func TestRegister(t *testing.T) {
	v := newFakeFormView()
	b := &fakeBackend{message: "Account created successfully! Please log in."}
	require.NoError(t, NewHandler(b).Register(context.Background(), v, api.RegisterRequest{}))
	assert.Equal(t, b.message, v.notice().Text)
	assert.Equal(t, LoginPath, v.redirect)
	assert.Equal(t, SignupRedirectDelay, v.delay)

	v = newFakeFormView()
	b = &fakeBackend{err: &api.AppError{Status: 400, Fields: map[string]string{
		"username":         "Username already exists",
		"confirm_password": "Passwords do not match",
	}}}
	require.Error(t, NewHandler(b).Register(context.Background(), v, api.RegisterRequest{}))
	assert.Equal(t, "Username already exists", v.fieldErrors["username"])
	assert.Equal(t, "Passwords do not match", v.fieldErrors["confirm_password"])
	assert.Empty(t, v.notices, "field errors replace the top-level notice")
	assert.Equal(t, submitState{false, LabelRegister}, v.last())
}

func TestContactShortMessageSendsNothing(t *testing.T) {
	b := &fakeBackend{}
	v := newFakeFormView()
	in := validContact()
	in.Message = "short"

	err := NewHandler(b).Contact(context.Background(), v, in)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Message must be at least 10 characters", v.fieldErrors[FieldMessage])
	assert.Len(t, v.fieldErrors, 1)
	assert.Zero(t, b.calls)
	assert.Empty(t, v.states, "submit control untouched")
}

func TestContactNetworkFailureReenablesSubmit(t *testing.T) {
	b := &fakeBackend{err: transportErr}
	v := newFakeFormView()

	err := NewHandler(b).Contact(context.Background(), v, validContact())

	require.Error(t, err)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, MsgContactNetwork, v.notice().Text)
	assert.Equal(t, []submitState{{true, LabelSending}, {false, LabelContact}}, v.states)
	assert.Zero(t, v.resets)
}

func TestContactSuccessResetsForm(t *testing.T) {
	b := &fakeBackend{message: "Your message has been sent successfully!"}
	v := newFakeFormView()
	in := validContact()
	in.Name = "  Ann  "
	in.Location = " Kigali "

	require.NoError(t, NewHandler(b).Contact(context.Background(), v, in))

	assert.Equal(t, MsgContactSuccess, v.notice().Text)
	assert.Equal(t, ContactNoticeTTL, v.notice().TTL)
	assert.Equal(t, 1, v.resets)
	assert.Equal(t, "Ann", b.contact.Name)
	assert.Equal(t, "Kigali", b.contact.Location)
	assert.Equal(t, PrivacyAccepted, b.contact.Privacy)
}

func TestContactServerFieldErrorsShowNoticeToo(t *testing.T) {
	b := &fakeBackend{err: &api.AppError{Status: 400, Fields: map[string]string{"email": "Please enter a valid email address"}}}
	v := newFakeFormView()

	require.Error(t, NewHandler(b).Contact(context.Background(), v, validContact()))
	assert.Equal(t, MsgContactFailed, v.notice().Text)
	assert.Equal(t, "Please enter a valid email address", v.fieldErrors["email"])
}

func TestChangePassword(t *testing.T) {
	v := newFakeFormView()
	b := &fakeBackend{message: "Password updated successfully"}
	require.NoError(t, NewHandler(b).ChangePassword(context.Background(), v, api.ChangePasswordRequest{}))
	assert.Equal(t, "Password updated successfully", v.notice().Text)
	assert.Equal(t, 1, v.resets)
	assert.Equal(t, []submitState{{true, LabelUpdating}, {false, LabelChangePassword}}, v.states)

	v = newFakeFormView()
	b = &fakeBackend{err: transportErr}
	require.Error(t, NewHandler(b).ChangePassword(context.Background(), v, api.ChangePasswordRequest{}))
	assert.Equal(t, MsgPasswordFailed, v.notice().Text)

	v = newFakeFormView()
	b = &fakeBackend{err: &api.AppError{Status: 400, Message: "Current password is incorrect"}}
	require.Error(t, NewHandler(b).ChangePassword(context.Background(), v, api.ChangePasswordRequest{}))
	assert.Equal(t, "Current password is incorrect", v.notice().Text)
	assert.Zero(t, v.resets)
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ContactInput)
		field  string
		want   string
	}{
		{"empty name", func(c *ContactInput) { c.Name = "  " }, FieldName, "Name is required"},
		{"short name", func(c *ContactInput) { c.Name = "A" }, FieldName, "Name must be at least 2 characters"},
		{"empty email", func(c *ContactInput) { c.Email = "" }, FieldEmail, "Email is required"},
		{"bad email", func(c *ContactInput) { c.Email = "ann@example" }, FieldEmail, "Please enter a valid email address"},
		{"email with space", func(c *ContactInput) { c.Email = "a nn@example.com" }, FieldEmail, "Please enter a valid email address"},
		{"no subject", func(c *ContactInput) { c.Subject = "" }, FieldSubject, "Please select a subject"},
		{"empty message", func(c *ContactInput) { c.Message = "   " }, FieldMessage, "Message is required"},
		{"long message", func(c *ContactInput) { c.Message = strings.Repeat("a", 2001) }, FieldMessage, "Message must be less than 2000 characters"},
		{"privacy", func(c *ContactInput) { c.Privacy = false }, FieldPrivacy, "You must agree to the privacy policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validContact()
			tt.mutate(&in)
			errs := ValidateContact(in)
			require.NotNil(t, errs)
			assert.Equal(t, tt.want, errs[tt.field])
			assert.Len(t, errs, 1)
		})
	}

	assert.Nil(t, ValidateContact(validContact()))

	boundary := validContact()
	boundary.Message = strings.Repeat("a", 2000)
	assert.Nil(t, ValidateContact(boundary))
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{"message": "m", "email": "e"}
	assert.Equal(t, []string{"email", "message"}, errs.Fields())
	assert.Equal(t, "invalid form: email: e; message: m", errs.Error())
}

func TestMessageCounter(t *testing.T) {
	tests := []struct {
		n    int
		want CounterLevel
	}{
		{0, CounterNormal},
		{1800, CounterNormal},
		{1801, CounterWarn},
		{2000, CounterWarn},
		{2001, CounterError},
	}
	for _, tt := range tests {
		n, level := MessageCounter(strings.Repeat("é", tt.n))
		assert.Equal(t, tt.n, n)
		assert.Equal(t, tt.want, level, "count %d", tt.n)
	}
}
