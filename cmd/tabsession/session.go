package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/tabsession"
	"pkt.systems/tabsession/internal/appconfig"
)

const closeTimeout = 10 * time.Second

// openSession loads the config, opens the session store and hydrates it.
func openSession(cmd *cobra.Command, opts *rootOptions, extra ...tabsession.Option) (*tabsession.Session, appconfig.Config, error) {
	cfg, err := appconfig.Load(opts.configPath)
	if err != nil {
		return nil, appconfig.Config{}, err
	}
	sessionCfg, err := tabsession.ConfigFromApp(cfg)
	if err != nil {
		return nil, appconfig.Config{}, err
	}
	logger := pslog.Ctx(cmd.Context())
	session, err := tabsession.Open(sessionCfg, tabsession.Deps{Logger: logger}, extra...)
	if err != nil {
		return nil, appconfig.Config{}, err
	}
	if err := session.Hydrate(cmd.Context()); err != nil {
		_ = closeSession(session, logger)
		return nil, appconfig.Config{}, err
	}
	logger.Debug("session ready", "backend", session.Backend())
	return session, cfg, nil
}

func closeSession(session *tabsession.Session, logger pslog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := session.Close(ctx); err != nil {
		logger.Warn("session close failed", "err", err)
		return err
	}
	return nil
}
