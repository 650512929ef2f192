package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/portfolio/internal/background"
	"github.com/tomz197/portfolio/internal/config"
	"github.com/tomz197/portfolio/internal/draw"
	"github.com/tomz197/portfolio/internal/portfolio"
	"github.com/tomz197/portfolio/internal/viewport"
)

// sizePollInterval is how often the local terminal size is checked.
const sizePollInterval = 250 * time.Millisecond

var (
	cfgPath string
	logFile string
)

var rootCmd = &cobra.Command{
	Use:          "portfolio",
	Short:        "Show the animated portfolio home screen in this terminal",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultPath(), "path to the YAML config file")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the terminal is busy drawing)")
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
	if logFile != "" {
		cfg.Log.File = logFile
	}

	logger := zap.NewNop()
	if cfg.Log.File != "" {
		if logger, err = config.NewLogger(cfg.Log); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	content, err := portfolio.LoadFile(cfg.Content.Path)
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cols, rows, err := draw.DefaultTermSizeFunc()
	if err != nil {
		return fmt.Errorf("reading terminal size: %w", err)
	}
	cells := viewport.NewTracker(cols, rows)
	go viewport.Watch(ctx, cells, draw.DefaultTermSizeFunc, sizePollInterval)

	c := background.NewClient(bufio.NewReader(os.Stdin), os.Stdout, background.Options{
		TermSizeFunc: cells.Dimensions,
		Content:      content,
		Logger:       logger,
		Renderer:     lipgloss.NewRenderer(os.Stdout),
	})
	return c.Run(ctx)
}
