package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/eliot-client/internal/cookies"
)

func newCookiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Manage cookie files stored on the server",
	}
	cmd.AddCommand(newCookiesListCmd(), newCookiesUploadCmd(), newCookiesDeleteCmd())
	return cmd
}

func newCookiesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cookie files",
		Args:  cobra.NoArgs,
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			view := newConsoleView(cmd.OutOrStdout())
			mgr := cookies.NewManager(e.client, view)
			if err := mgr.Refresh(e.ctx); err != nil {
				return fmt.Errorf("list cookies: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, c := range mgr.Entries() {
				fmt.Fprintf(out, "%-24s %s\n", c.Label(), c.UploadTime)
			}
			return nil
		}),
	}
}

func newCookiesUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE.txt",
		Short: "Upload a Netscape-format cookie file",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			view := newConsoleView(cmd.OutOrStdout())
			mgr := cookies.NewManager(e.client, view)
			if err := mgr.SelectFile(cookies.LocalFile(args[0])); err != nil {
				return err
			}
			return mgr.Upload(e.ctx)
		}),
	}
}

func newCookiesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an uploaded cookie file",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(e *env, cmd *cobra.Command, args []string) error {
			view := newConsoleView(cmd.OutOrStdout())
			mgr := cookies.NewManager(e.client, view)
			confirm := promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = nil
			}
			return mgr.Delete(e.ctx, args[0], confirm)
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// promptConfirmer asks on out and reads y/yes from in
func promptConfirmer(in io.Reader, out io.Writer) cookies.Confirmer {
	r := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
