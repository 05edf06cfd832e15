package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/eliot-client/internal/cookies"
	"github.com/ytget/eliot-client/internal/model"
	"github.com/ytget/eliot-client/internal/session"
)

var kindUsage = "output kind: " + strings.Join(kindNames(), ", ")

func kindNames() []string {
	var names []string
	for _, k := range model.OutputKinds() {
		names = append(names, string(k))
	}
	return names
}

// parseKind rejects names ParseOutputKind would silently map to video
func parseKind(s string) (model.OutputKind, error) {
	for _, k := range model.OutputKinds() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown output kind %q (want %s)", s, strings.Join(kindNames(), ", "))
}

// selectCookies makes name the active cookie file; an empty name keeps none
func selectCookies(e *env, m *cookies.Manager, name string) error {
	if name == "" {
		return nil
	}
	if err := m.Refresh(e.ctx); err != nil {
		return err
	}
	m.Select(name)
	if m.Selected() != name {
		return fmt.Errorf("cookie file %q is not on the server", name)
	}
	return nil
}

func newInfoCmd() *cobra.Command {
	var kind, cookieName string
	cmd := &cobra.Command{
		Use:   "info URL",
		Short: "Show metadata and the quality choices for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			view := newConsoleView(cmd.OutOrStdout())
			mgr := cookies.NewManager(e.client, view)
			if err := selectCookies(e, mgr, cookieName); err != nil {
				return err
			}

			sess := session.New(e.client, view, e.settings, session.WithCookies(mgr))
			sess.SetFormat(k)
			if _, err := sess.Analyze(e.ctx, args[0]); err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			printInfo(cmd, view)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&kind, "format", "f", string(model.KindVideo), kindUsage)
	cmd.Flags().StringVar(&cookieName, "cookies", "", "cookie file on the server to use")
	return cmd
}

func printInfo(cmd *cobra.Command, v *consoleView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, v.info.Title)
	fmt.Fprintf(out, "  uploader: %s\n", v.info.Uploader)
	fmt.Fprintf(out, "  duration: %s\n", v.info.Duration)
	if v.info.Thumbnail != "" {
		fmt.Fprintf(out, "  thumbnail: %s\n", v.info.Thumbnail)
	}
	if v.info.Description != "" {
		fmt.Fprintf(out, "  %s\n", v.info.Description)
	}
	if len(v.quals) == 0 {
		return
	}
	fmt.Fprintln(out, "qualities:")
	for _, q := range v.quals {
		mark := " "
		if q.Selected {
			mark = "*"
		}
		fmt.Fprintf(out, "  %s %-8s %s\n", mark, q.Value, q.Label)
	}
}
