package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ytget/eliot-client/internal/api"
	"github.com/ytget/eliot-client/internal/forms"
)

// errFormRejected is returned when a form shows field errors
var errFormRejected = errors.New("form rejected")

// formConsole prints form feedback. It implements forms.View.
type formConsole struct {
	*consoleView
	fieldErrors int
	redirect    string
}

func newFormConsole(out io.Writer) *formConsole {
	return &formConsole{consoleView: newConsoleView(out)}
}

// SetSubmitting implements forms.View
func (f *formConsole) SetSubmitting(bool, string) {}

// ClearErrors implements forms.View
func (f *formConsole) ClearErrors() { f.fieldErrors = 0 }

// ShowFieldError implements forms.View
func (f *formConsole) ShowFieldError(field, message string) {
	f.fieldErrors++
	f.mu.Lock()
	defer f.mu.Unlock()
	f.printf("error: %s: %s\n", field, message)
}

// Reset implements forms.View
func (f *formConsole) Reset() {}

// Redirect implements forms.View
func (f *formConsole) Redirect(path string, _ time.Duration) { f.redirect = path }

// result maps the handler outcome to a command error
func (f *formConsole) result(err error) error {
	if err != nil {
		return err
	}
	if f.fieldErrors > 0 {
		return errFormRejected
	}
	if msg := f.lastError(); msg != "" {
		return errors.New(msg)
	}
	return nil
}

// readSecret reads a password without echo from a terminal, or one line
// from in otherwise
func readSecret(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the server",
		Args:  cobra.NoArgs,
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			password, err := readSecret(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: ")
			if err != nil {
				return err
			}
			v := newFormConsole(cmd.OutOrStdout())
			err = forms.NewHandler(e.client).Login(e.ctx, v, api.LoginRequest{Username: username, Password: password})
			if err := v.result(err); err != nil {
				return err
			}
			if v.redirect != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "next: %s%s\n", e.client.BaseURL(), v.redirect)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newContactCmd() *cobra.Command {
	var in forms.ContactInput
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form",
		Args:  cobra.NoArgs,
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			if in.Message == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read message: %w", err)
				}
				in.Message = string(b)
			}
			v := newFormConsole(cmd.OutOrStdout())
			return v.result(forms.NewHandler(e.client).Contact(e.ctx, v, in))
		}),
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "your name")
	f.StringVar(&in.Email, "email", "", "reply address")
	f.StringVar(&in.Location, "location", "", "where you are (optional)")
	f.StringVar(&in.Subject, "subject", "", "message subject")
	f.StringVarP(&in.Message, "message", "m", "", "message text, - to read stdin")
	f.BoolVar(&in.Privacy, "accept-privacy", false, "accept the privacy policy")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the server can do: ffmpeg, cookie files, notes",
		Args:  cobra.NoArgs,
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			st, err := e.client.BypassStatus(e.ctx)
			if err != nil {
				return fmt.Errorf("bypass status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server:  %s\n", e.client.BaseURL())
			fmt.Fprintf(out, "ffmpeg:  %s\n", yesNo(st.FFmpegAvailable))
			fmt.Fprintf(out, "cookies: %s\n", yesNo(st.CookiesAvailable))
			for _, c := range st.AvailableCookies {
				fmt.Fprintf(out, "  - %s\n", c.Label())
			}
			for _, n := range st.Notes {
				fmt.Fprintf(out, "note: %s\n", n)
			}
			return nil
		}),
	}
}

func yesNo(b bool) string {
	if b {
		return "available"
	}
	return "not available"
}

var _ forms.View = (*formConsole)(nil)
