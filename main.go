package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/overmind/agent"
	"github.com/nstehr/overmind/config"
	"github.com/nstehr/overmind/display"
	"github.com/nstehr/overmind/ipc"
	"github.com/nstehr/overmind/metrics"
	"github.com/nstehr/overmind/rules"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const banner = `
 ██████╗ ██╗   ██╗███████╗██████╗ ███╗   ███╗██╗███╗   ██╗██████╗
██╔═══██╗██║   ██║██╔════╝██╔══██╗████╗ ████║██║████╗  ██║██╔══██╗
██║   ██║██║   ██║█████╗  ██████╔╝██╔████╔██║██║██╔██╗ ██║██║  ██║
██║   ██║╚██╗ ██╔╝██╔══╝  ██╔══██╗██║╚██╔╝██║██║██║╚██╗██║██║  ██║
╚██████╔╝ ╚████╔╝ ███████╗██║  ██║██║ ╚═╝ ██║██║██║ ╚████║██████╔╝
 ╚═════╝   ╚═══╝  ╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝

Zerg Build-Order Core`

var configFile string

func main() {
	root := &cobra.Command{
		Use:          "overmind",
		Short:        "Production decision core for a Zerg bot",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Listen for engine bridge connections",
		RunE:  runServe,
	})
	root.AddCommand(newSimulateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from config. Console output is for
// humans; json is for log shipping.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.Log.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)

	fmt.Println(banner)
	logger.Info().Str("config", cfg.FileUsed()).Msg("starting overmind")

	cfg.Watch(func(lvl zerolog.Level) {
		zerolog.SetGlobalLevel(lvl)
		logger.Info().Stringer("level", lvl).Msg("log level changed")
	})

	// Fail fast on a broken script before accepting any connection.
	if _, err := rules.CompileScript(cfg.Script); err != nil {
		return fmt.Errorf("compile script: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr, reg, logger)
	}

	socketPath := cfg.Server.SocketPath

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	logger.Info().Str("path", socketPath).Msg("listening on domain socket")

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					if errors.Is(err, net.ErrClosed) {
						return
					}
					logger.Error().Err(err).Msg("failed to accept connection")
					continue
				}
			}
			logger.Info().Msg("new connection accepted")
			go handleConn(conn, cfg, m, logger)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}

// handleConn gives each bridge its own engine, so cooldowns never leak
// between sessions.
func handleConn(conn net.Conn, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) {
	m.Sessions.Inc()
	defer m.Sessions.Dec()

	engine, err := rules.NewEngineFromScript(cfg.Script,
		rules.WithGrace(cfg.Cooldown.Grace),
		rules.WithLogger(logger),
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build rule engine")
		conn.Close()
		return
	}

	c := ipc.NewConnection(conn, nil, logger)

	displays := display.Multi{display.NewLog(logger)}
	if cfg.Display.Overlay {
		displays = append(displays, display.NewOverlay(c, cfg.Evaluation.Interval, logger))
	}

	a := agent.New(c, engine,
		agent.WithDisplay(displays),
		agent.WithMetrics(m),
		agent.WithInterval(cfg.Evaluation.Interval),
		agent.WithLogger(logger),
	)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeGameState, a.HandleGameState)
	c.ReadLoop()
}
