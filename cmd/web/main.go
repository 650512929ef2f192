package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/portfolio/internal/config"
	"github.com/tomz197/portfolio/internal/contact"
	"github.com/tomz197/portfolio/internal/db"
	"github.com/tomz197/portfolio/internal/portfolio"
	"github.com/tomz197/portfolio/internal/server"
)

const shutdownTimeout = 10 * time.Second

var (
	cfgPath      string
	debug        bool
	messageLimit int
)

var rootCmd = &cobra.Command{
	Use:          "portfolio-web",
	Short:        "Serve the portfolio site and its contact endpoint",
	SilenceUsage: true,
	RunE:         run,
}

// messagesCmd prints stored contact messages. It reads the database
// directly; the HTTP API only accepts submissions.
var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List the most recent contact messages",
	Args:  cobra.NoArgs,
	RunE:  listMessages,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath(), "path to the YAML config file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	messagesCmd.Flags().IntVarP(&messageLimit, "limit", "n", 20, "number of messages to show")
	rootCmd.AddCommand(messagesCmd)
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

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Info("Database ready", zap.String("path", database.Path()))

	srv, err := server.New(server.Config{
		Addr:           cfg.Web.Addr(),
		AllowAll:       cfg.Web.AllowAll,
		AllowedOrigins: cfg.Web.AllowedOrigins,
		SSHDisplayHost: cfg.Web.SSHDisplayHost,
	}, content, contact.NewStore(database), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func listMessages(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := contact.NewStore(database).List(cmd.Context(), messageLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECEIVED\tFROM\tEMAIL\tSUBJECT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime),
			r.Submission.FirstName, r.Submission.LastName,
			r.Submission.Email, r.Submission.Subject)
	}
	return tw.Flush()
}
