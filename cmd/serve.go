package cmd

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dcabrera/portfolio/internal/config"
	"github.com/dcabrera/portfolio/internal/logging"
	"github.com/dcabrera/portfolio/internal/site"
	"github.com/dcabrera/portfolio/internal/visitors"
)

var (
	flagHost string
	flagPort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "", "Listen host (overrides HOST)")
	serveCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Listen port (overrides PORT)")
	// serve is also the default command
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flagHost
	}
	if flagPort != "" {
		cfg.Server.Port = flagPort
	}

	logging.Setup(os.Stdout, cfg.App.LogLevel, cfg.App.IsProduction())
	if cfg.App.IsProduction() && os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	page, err := site.DefaultPage()
	if err != nil {
		return errors.Wrap(err, "building page")
	}

	return serve(cmd.Context(), cfg, page)
}

// serve runs the site until ctx is done. Visitor tracking is stopped and its
// store closed on every return path.
func serve(ctx context.Context, cfg *config.Config, page *site.Page) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := site.Options{Config: cfg, Page: page}

	if cfg.Visitors.Enabled {
		stop, err := startTracking(ctx, cfg, &opts)
		if err != nil {
			return errors.Wrap(err, "starting visitor tracking")
		}
		defer stop()
	}

	srv, err := site.NewServer(opts)
	if err != nil {
		return errors.Wrap(err, "creating server")
	}

	return srv.Run(ctx)
}

// startTracking opens the visitor store and starts the writer and the
// retention cleanup. The returned func stops both and closes the store.
func startTracking(ctx context.Context, cfg *config.Config, opts *site.Options) (func(), error) {
	store, err := visitors.Open(cfg.Visitors.DBPath)
	if err != nil {
		return nil, err
	}

	tracker := visitors.NewTracker(store, visitors.TrackerOptions{
		Salt:         cfg.Visitors.Salt,
		QueueSize:    cfg.Visitors.QueueSize,
		SkipPrefixes: cfg.Visitors.SkipPrefixes,
	})

	cleaner := visitors.NewCleaner(store, cfg.Visitors.RetentionDays, cfg.Visitors.CleanupCron)
	if err := cleaner.Start(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	token := cfg.Admin.Token
	if token == "" {
		token, err = site.NewAdminToken()
		if err != nil {
			cleaner.Stop()
			_ = store.Close()
			return nil, errors.Wrap(err, "admin token")
		}
		if cfg.App.IsProduction() {
			logrus.Warn("ADMIN_TOKEN not set, generated a random one for this process")
		} else {
			logrus.WithField("token", token).Info("generated admin token")
		}
	}

	opts.Tracker = tracker
	opts.Cleaner = cleaner
	opts.AdminToken = token

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		tracker.Run(runCtx)
		close(done)
	}()

	logrus.WithField("db", cfg.Visitors.DBPath).Info("visitor tracking enabled")

	return func() {
		cancel()
		<-done
		cleaner.Stop()
		if err := store.Close(); err != nil {
			logrus.WithError(err).Error("error closing visitor store")
		}
	}, nil
}
