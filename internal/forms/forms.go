// Package forms submits the account, contact and password forms. Each submit
// validates where required, sends a single JSON request and renders the
// outcome through a View.
package forms

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/model"
)

// Submit labels
const (
	LabelLogin          = "Login"
	LabelLoggingIn      = "Logging in..."
	LabelRegister       = "Create Account"
	LabelRegistering    = "Creating Account..."
	LabelContact        = "Send Message"
	LabelSending        = "Sending..."
	LabelChangePassword = "Update Password"
	LabelUpdating       = "Updating..."
)

// Messages
const (
	MsgNetwork        = "Network error. Please try again."
	MsgContactNetwork = "Network error. Please check your connection and try again."
	MsgPasswordFailed = "Password change failed"
	MsgLoginSuccess   = "Login successful! Redirecting..."
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
	MsgContactSuccess = "Thank you for your message! We'll get back to you soon."
	MsgContactFailed  = "Failed to send message. Please try again."
)

// Redirects
const (
	LoginPath           = "/login"
	LoginRedirectDelay  = time.Second
	SignupRedirectDelay = 2 * time.Second
	ContactNoticeTTL    = 8 * time.Second
)

// View renders one form
type View interface {
	SetSubmitting(submitting bool, label string)
	ClearErrors()
	ShowFieldError(field, message string)
	ShowNotice(n model.Notice)
	// Reset empties the inputs, including the contact character counter.
	Reset()
	Redirect(path string, delay time.Duration)
}

// Backend is the subset of the HTTP client used by the forms
type Backend interface {
	Login(ctx context.Context, req api.LoginRequest) (string, error)
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
	Contact(ctx context.Context, req api.ContactRequest) (string, error)
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (string, error)
}

// Handler submits forms against one backend
type Handler struct {
	backend Backend
}

// NewHandler creates a form handler
func NewHandler(backend Backend) *Handler {
	return &Handler{backend: backend}
}

// Login submits credentials; on success it redirects to the server-chosen page
func (h *Handler) Login(ctx context.Context, v View, req api.LoginRequest) error {
	v.SetSubmitting(true, LabelLoggingIn)
	defer v.SetSubmitting(false, LabelLogin)
	v.ClearErrors()

	req.Username = strings.TrimSpace(req.Username)
	redirect, err := h.backend.Login(ctx, req)
	if err != nil {
		renderFailure(v, err, MsgLoginFailed, MsgNetwork, false)
		return err
	}
	v.ShowNotice(model.SuccessNotice(MsgLoginSuccess))
	v.Redirect(redirect, LoginRedirectDelay)
	return nil
}

// Register creates an account; on success it redirects to the login page
func (h *Handler) Register(ctx context.Context, v View, req api.RegisterRequest) error {
	v.SetSubmitting(true, LabelRegistering)
	defer v.SetSubmitting(false, LabelRegister)
	v.ClearErrors()

	msg, err := h.backend.Register(ctx, req)
	if err != nil {
		renderFailure(v, err, MsgRegisterFailed, MsgNetwork, false)
		return err
	}
	v.ShowNotice(model.SuccessNotice(msg))
	v.Redirect(LoginPath, SignupRedirectDelay)
	return nil
}

// Contact validates and sends the contact form. Invalid input is shown per
// field and nothing is sent.
func (h *Handler) Contact(ctx context.Context, v View, in ContactInput) error {
	v.ClearErrors()
	if errs := ValidateContact(in); errs != nil {
		for _, field := range errs.Fields() {
			v.ShowFieldError(field, errs[field])
		}
		return errs
	}

	v.SetSubmitting(true, LabelSending)
	defer v.SetSubmitting(false, LabelContact)

	req := api.ContactRequest{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Location: strings.TrimSpace(in.Location),
		Subject:  in.Subject,
		Message:  strings.TrimSpace(in.Message),
		Privacy:  PrivacyAccepted,
	}
	if _, err := h.backend.Contact(ctx, req); err != nil {
		if !api.IsTransport(err) {
			log.Warn().Err(err).Msg("[forms] contact rejected")
		}
		renderFailure(v, err, MsgContactFailed, MsgContactNetwork, true)
		return err
	}
	v.ShowNotice(model.Notice{Level: model.NoticeSuccess, Text: MsgContactSuccess, TTL: ContactNoticeTTL})
	v.Reset()
	return nil
}

// ChangePassword submits the admin password change; success resets the form
func (h *Handler) ChangePassword(ctx context.Context, v View, req api.ChangePasswordRequest) error {
	v.SetSubmitting(true, LabelUpdating)
	defer v.SetSubmitting(false, LabelChangePassword)
	v.ClearErrors()

	msg, err := h.backend.ChangePassword(ctx, req)
	if err != nil {
		renderFailure(v, err, MsgPasswordFailed, MsgPasswordFailed, false)
		return err
	}
	v.ShowNotice(model.SuccessNotice(msg))
	v.Reset()
	return nil
}

// renderFailure shows a failed submit. Field errors replace the top-level
// notice unless both is set, in which case the notice is shown as well.
func renderFailure(v View, err error, fallback, network string, both bool) {
	appErr, ok := api.AsAppError(err)
	if !ok {
		log.Warn().Err(err).Msg("[forms] submit failed")
		v.ShowNotice(model.ErrorNotice(network))
		return
	}
	if appErr.HasFields() {
		if both {
			v.ShowNotice(model.ErrorNotice(orDefault(appErr.Message, fallback)))
		}
		for _, field := range ValidationErrors(appErr.Fields).Fields() {
			v.ShowFieldError(field, appErr.Fields[field])
		}
		return
	}
	v.ShowNotice(model.ErrorNotice(orDefault(appErr.Message, fallback)))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
