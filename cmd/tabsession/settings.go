package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/tabsession/internal/command"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change session settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print session settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			for _, line := range command.FormatSettings(session.Engine.State().Settings) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: command.SettingKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := command.SettingPatch(args[0], args[1])
			if err != nil {
				return err
			}
			session, _, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, pslog.Ctx(cmd.Context())) }()
			if !session.Engine.UpdateSettings(patch) {
				pslog.Ctx(cmd.Context()).Info("settings unchanged", "key", args[0])
			}
			return nil
		},
	})
	return cmd
}
