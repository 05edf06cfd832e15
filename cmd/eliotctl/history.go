package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ytget/eliot-client/internal/config"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List downloads saved on this machine, newest first",
		Args:  cobra.NoArgs,
		RunE: runStore(func(e *env, cmd *cobra.Command, args []string) error {
			if clearAll {
				return e.store.ClearHistory()
			}
			entries, err := e.store.History(limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMPLETED\tKIND\tQUALITY\tTITLE\tPATH")
			for _, h := range entries {
				title := h.Title
				if title == "" {
					title = h.Filename
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					h.CompletedAt.Local().Format("2006-01-02 15:04"), h.Kind, h.Quality, title, h.SavedPath)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget every entry")
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored client settings",
		Args:  cobra.NoArgs,
		RunE: runStore(func(e *env, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			theme := config.ThemeLight
			if e.settings.DarkMode() {
				theme = config.ThemeDark
			}
			fmt.Fprintf(out, "server          %s\n", e.settings.GetServerURL())
			fmt.Fprintf(out, "download_dir    %s\n", e.settings.GetDownloadDirectory())
			fmt.Fprintf(out, "theme           %s\n", theme)
			fmt.Fprintf(out, "cookie_support  %t\n", e.settings.CookieSupport())
			fmt.Fprintf(out, "auto_reveal     %t\n", e.settings.GetAutoRevealOnComplete())
			return nil
		}),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle-theme",
			Short: "Switch between dark and light",
			Args:  cobra.NoArgs,
			RunE: runStore(func(e *env, cmd *cobra.Command, args []string) error {
				if e.settings.ToggleDarkMode() {
					fmt.Fprintln(cmd.OutOrStdout(), config.ThemeDark)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), config.ThemeLight)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "toggle-cookies",
			Short: "Turn cookie support on or off",
			Args:  cobra.NoArgs,
			RunE: runStore(func(e *env, cmd *cobra.Command, args []string) error {
				fmt.Fprintf(cmd.OutOrStdout(), "cookie_support %t\n", e.settings.ToggleCookieSupport())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "download-dir DIR",
			Short: "Set the directory saved files go to",
			Args:  cobra.ExactArgs(1),
			RunE: runStore(func(e *env, cmd *cobra.Command, args []string) error {
				e.settings.SetDownloadDirectory(args[0])
				return nil
			}),
		},
	)
	return cmd
}
