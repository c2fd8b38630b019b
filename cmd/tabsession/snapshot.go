package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/tabsession"
	"pkt.systems/tabsession/internal/appconfig"
	"pkt.systems/tabsession/internal/persist"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect or remove the stored session snapshot",
	}
	var raw bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, closer, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			if closer != nil {
				defer func() { _ = closer.Close() }()
			}
			data, found, err := gateway.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !found {
				_, err := fmt.Fprintln(out, "no stored snapshot")
				return err
			}
			if _, err := persist.Decode(data); err != nil {
				pslog.Ctx(cmd.Context()).Warn("snapshot would be discarded on load", "err", err)
			}
			return writeSnapshot(out, data, raw)
		},
	}
	show.Flags().BoolVar(&raw, "raw", false, "print the stored bytes unformatted")
	cmd.AddCommand(show)
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, closer, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			if closer != nil {
				defer func() { _ = closer.Close() }()
			}
			if err := gateway.Clear(cmd.Context()); err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("snapshot cleared")
			return nil
		},
	})
	return cmd
}

func openGateway(cmd *cobra.Command, opts *rootOptions) (persist.Gateway, io.Closer, error) {
	cfg, err := appconfig.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	sessionCfg, err := tabsession.ConfigFromApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	return tabsession.OpenGateway(sessionCfg.Store, pslog.Ctx(cmd.Context()))
}

func writeSnapshot(out io.Writer, data string, raw bool) error {
	if raw {
		_, err := fmt.Fprintln(out, data)
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(data), "", "  "); err != nil {
		_, werr := fmt.Fprintln(out, data)
		return werr
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
