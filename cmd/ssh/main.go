package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/draw"
	"github.com/tomz197/asteroid-field/internal/loop"
	"github.com/tomz197/asteroid-field/internal/metrics"
)

const (
	defaultHost         = "::"
	defaultPort         = "2222"
	defaultHostKeyPath  = "/app/keys/host_key"
	defaultMetricsAddr  = ":9090"
	defaultSessionRate  = "0.5"
	defaultSessionBurst = "3"
	shutdownTimeout     = 5 * time.Second
)

func main() {
	logger, err := config.NewLogger(os.Stderr, config.GetEnv(config.EnvLogLevel, "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	if err := run(logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(logger *log.Logger) error {
	sshHost := config.GetEnv(config.EnvSSHHost, defaultHost)
	port := config.GetEnv(config.EnvSSHPort, defaultPort)
	hostKeyPath := config.GetEnv(config.EnvSSHHostKey, defaultHostKeyPath)
	metricsAddr := config.GetEnv(config.EnvMetricsAddr, defaultMetricsAddr)

	tuning := config.Default()
	if path := config.GetEnv(config.EnvTuningFile, ""); path != "" {
		t, err := config.Load(path)
		if err != nil {
			return err
		}
		tuning = t
	}

	sessionRate, err := strconv.ParseFloat(config.GetEnv(config.EnvSessionRate, defaultSessionRate), 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", config.EnvSessionRate, err)
	}
	sessionBurst, err := strconv.Atoi(config.GetEnv(config.EnvSessionBurst, defaultSessionBurst))
	if err != nil {
		return fmt.Errorf("parse %s: %w", config.EnvSessionBurst, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &host{
		ctx:       ctx,
		tuning:    tuning,
		log:       logger,
		metrics:   metrics.New(reg),
		admission: newAdmission(rate.Limit(sessionRate), sessionBurst),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(sshHost, port)),
		wish.WithMiddleware(
			h.gameMiddleware,
			h.admissionMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "Asteroid field is served over SSH.\n\n    ssh -t -p %s <host>\n", port)
	})
	metricsServer := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr, "host_key", hostKeyPath)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("starting metrics server", "addr", metricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(s.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// host owns what every SSH session shares. Each session plays its own game.
type host struct {
	ctx       context.Context
	tuning    config.Tuning
	log       *log.Logger
	metrics   *metrics.Collector
	admission *admission
}

// admissionMiddleware turns away clients that open sessions too fast.
func (h *host) admissionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		if !h.admission.allow(sess.RemoteAddr()) {
			h.metrics.SessionRejected()
			h.log.Warn("session rejected", "remote", sess.RemoteAddr(), "user", sess.User())
			wish.Fatalln(sess, "Too many sessions, try again in a moment.")
			return
		}
		next(sess)
	}
}

// gameMiddleware handles SSH sessions and runs a game.
func (h *host) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.log.With("session", uuid.NewString(), "user", sess.User())
		logger.Info("session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)
		h.metrics.SessionStarted()
		defer h.metrics.SessionEnded()

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		// End the game when either the client leaves or the server stops.
		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		stopOnShutdown := context.AfterFunc(h.ctx, cancel)
		defer stopOnShutdown()

		err := loop.Run(ctx, bufio.NewReader(sess), sess, loop.RunOptions{
			Tuning:   h.tuning,
			Logger:   logger,
			Metrics:  h.metrics,
			TermSize: sizeTracker.getSize,
		})
		if err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
