package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/pslog"
	"pkt.systems/tabsession"
	"pkt.systems/tabsession/internal/command"
	"pkt.systems/tabsession/internal/eventbus"
	"pkt.systems/tabsession/internal/format"
	"pkt.systems/tabsession/internal/sessionprefs"
)

const shellPrompt = "tabsession> "

func newShellCmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string
	var showEvents bool
	var disableAuditTrails bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session shell using slash commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			session, cfg, err := openSession(cmd, opts, tabsession.WithEventBus(), tabsession.WithMetrics(registry))
			if err != nil {
				return err
			}
			defer func() { _ = closeSession(session, logger) }()

			if metricsAddr == "" {
				metricsAddr = cfg.Metrics.Addr
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if metricsAddr != "" {
				stopMetrics, err := serveMetrics(ctx, metricsAddr, registry, logger)
				if err != nil {
					return err
				}
				defer stopMetrics()
			}

			out := &lockedWriter{w: cmd.OutOrStdout()}
			types := []eventbus.EventType{eventbus.EventPersist}
			if showEvents {
				types = nil
			}
			events, unsubscribe := session.Bus.Subscribe(types...)
			defer unsubscribe()
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				printEvents(ctx, events, out, !showEvents)
			}()
			defer wg.Wait()
			defer cancel()

			handler := command.NewHandler(session.Engine, out, command.HandlerConfig{
				DisableAuditLogging: disableAuditTrails,
			})
			interactive := isTerminal(cmd.InOrStdin())
			ctx = sessionprefs.WithContext(ctx, sessionprefs.New())
			return runShell(ctx, cmd.InOrStdin(), out, handler, interactive)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (overrides metrics.addr)")
	cmd.Flags().BoolVar(&showEvents, "events", false, "print every engine event")
	cmd.Flags().BoolVar(&disableAuditTrails, "disable-audit-trails", false, "disable audit trail logging for commands")
	return cmd
}

// runShell reads lines from in until EOF, /quit or ctx cancellation.
func runShell(ctx context.Context, in io.Reader, out io.Writer, handler *command.Handler, interactive bool) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		if interactive {
			_, _ = fmt.Fprint(out, shellPrompt)
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			switch strings.TrimSpace(line) {
			case "/quit", "/exit":
				return nil
			}
			if _, err := handler.Handle(ctx, line); err != nil {
				_, _ = fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}

// printEvents writes bus events to out. With failuresOnly set only failed
// persistence calls are shown.
func printEvents(ctx context.Context, events <-chan eventbus.Event, out io.Writer, failuresOnly bool) {
	renderer := &format.PlainRenderer{FailuresOnly: failuresOnly}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			for _, line := range renderer.FormatEvent(event) {
				_, _ = fmt.Fprintln(out, line)
			}
		}
	}
}

// serveMetrics starts a /metrics listener and returns a function stopping it.
func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry, logger pslog.Logger) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()
	logger.Info("metrics server listening", "addr", listener.Addr().String())
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server stop failed", "err", err)
		}
		<-done
	}, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
