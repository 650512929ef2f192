package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/portfolio/internal/background"
	"github.com/tomz197/portfolio/internal/config"
	"github.com/tomz197/portfolio/internal/draw"
	"github.com/tomz197/portfolio/internal/portfolio"
	"github.com/tomz197/portfolio/internal/viewport"
)

const shutdownTimeout = 5 * time.Second

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "portfolio-ssh",
	Short:        "Serve the animated portfolio home screen over SSH",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultPath(), "path to the YAML config file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	content, err := portfolio.LoadFile(cfg.Content.Path)
	if err != nil {
		return err
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("Failed to get working directory", zap.Error(workErr))
	}
	logger.Info("SSH config",
		zap.String("addr", cfg.SSH.Addr()),
		zap.String("host_key", cfg.SSH.HostKey),
		zap.String("working_dir", workingDir))

	opts := []ssh.Option{
		wish.WithAddress(cfg.SSH.Addr()),
		wish.WithMiddleware(
			backgroundMiddleware(content, logger),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(zap.NewStdLog(logger)),
		),
		// TCP_NODELAY keeps frames from being batched by Nagle.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting SSH server", zap.String("addr", cfg.SSH.Addr()))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down SSH server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// backgroundMiddleware runs the animated home screen for each PTY session.
func backgroundMiddleware(content *portfolio.Content, logger *zap.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			log := logger.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
			log.Info("New session",
				zap.String("term", pty.Term),
				zap.Int("cols", pty.Window.Width),
				zap.Int("rows", pty.Window.Height))

			ctx, cancel := context.WithCancel(sess.Context())
			defer cancel()

			// Window changes feed a cell-sized tracker that stands in for the terminal.
			cells := viewport.NewTracker(pty.Window.Width, pty.Window.Height)
			go viewport.Follow(ctx, cells, winCh)

			renderer := lipgloss.NewRenderer(sess)
			renderer.SetColorProfile(draw.ColorProfile(pty.Term, sess.Environ()))

			c := background.NewClient(bufio.NewReader(sess), sess, background.Options{
				TermSizeFunc: cells.Dimensions,
				Content:      content,
				Logger:       log,
				Renderer:     renderer,
				IdleTimeout:  background.DefaultIdleTimeout,
			})
			if err := c.Run(ctx); err != nil {
				log.Warn("Session error", zap.Error(err))
			}

			log.Info("Session ended")
			next(sess)
		}
	}
}
