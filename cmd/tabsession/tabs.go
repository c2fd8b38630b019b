package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/tabsession/core"
	"pkt.systems/tabsession/schema"
)

func newTabsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List and edit tabs of the stored session",
	}
	cmd.AddCommand(newTabsListCmd(opts))
	cmd.AddCommand(newTabsOpenCmd(opts))
	cmd.AddCommand(newTabsCloseCmd(opts))
	cmd.AddCommand(newTabsActivateCmd(opts))
	cmd.AddCommand(newTabsNavigateCmd(opts))
	cmd.AddCommand(newTabsReopenCmd(opts))
	return cmd
}

func newTabsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			state := session.Engine.State()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "#\tID\tSTATUS\tTITLE\tURL")
			for _, summary := range core.Summaries(state) {
				index := strconv.Itoa(summary.Index + 1)
				if summary.Active {
					index += "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", index, summary.ID, summary.Status, summary.Title, summary.URL)
			}
			return w.Flush()
		},
	}
}

func newTabsOpenCmd(opts *rootOptions) *cobra.Command {
	var background, incognito, pinned bool
	cmd := &cobra.Command{
		Use:   "open [url]",
		Short: "Open a new tab",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			tabOpts := core.TabOptions{Incognito: incognito}
			if pinned {
				tabOpts.Status = schema.TabStatusPinned
			}
			if len(args) == 1 {
				tabOpts.URL = args[0]
			}
			id := session.Engine.OpenTab(tabOpts, !background)
			if tabOpts.URL != "" {
				session.Engine.AddSuggestion(tabOpts.URL)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
	cmd.Flags().BoolVarP(&background, "background", "b", false, "do not activate the new tab")
	cmd.Flags().BoolVarP(&incognito, "incognito", "i", false, "open an incognito tab")
	cmd.Flags().BoolVarP(&pinned, "pinned", "p", false, "open a pinned tab")
	return cmd
}

func newTabsCloseCmd(opts *rootOptions) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "close <tab>",
		Short: "Close a tab by position, id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			tab, err := core.ResolveTab(session.Engine.State(), args[0])
			if err != nil {
				return err
			}
			if !session.Engine.CloseTab(tab.ID, schema.NormalizeCloseReason(reason)) {
				return fmt.Errorf("cannot close the last tab")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tab.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&reason, "reason", string(schema.CloseReasonUser), "close reason (user|system|crash)")
	return cmd
}

func newTabsActivateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <tab>",
		Short: "Make a tab the active tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			tab, err := core.ResolveTab(session.Engine.State(), args[0])
			if err != nil {
				return err
			}
			session.Engine.ActivateTab(tab.ID)
			return nil
		},
	}
}

func newTabsNavigateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <tab> <url>",
		Short: "Navigate a tab to url",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			tab, err := core.ResolveTab(session.Engine.State(), args[0])
			if err != nil {
				return err
			}
			session.Engine.Navigate(tab.ID, args[1])
			return nil
		},
	}
}

func newTabsReopenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen [n]",
		Short: "Reopen a recently closed tab (1 is the most recent)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid index %q", args[0])
				}
				index = n - 1
			}
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			if !session.Engine.ReopenClosedAt(index) {
				return fmt.Errorf("nothing to reopen")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), session.Engine.State().ActiveTabID)
			return err
		},
	}
}
