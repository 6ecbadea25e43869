package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikolayk812/notesmarket/internal/app"
	"github.com/nikolayk812/notesmarket/internal/config"
	"github.com/nikolayk812/notesmarket/internal/logger"
	"github.com/nikolayk812/notesmarket/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.shutdown())
}

// cli holds what the commands share for one invocation.
type cli struct {
	jsonPath string
	envPath  string

	cfg      config.Config
	registry *prometheus.Registry
	app      *app.App
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notesmarket",
		Short:         "Study-notes marketplace: catalog, cart, checkout and orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.boot(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.jsonPath, "config", config.DefaultJSONPath, "JSON config file")
	root.PersistentFlags().StringVar(&c.envPath, "env-file", config.DefaultEnvPath, "dotenv file")

	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.catalogCmd(),
		c.cartCmd(),
		c.checkoutCmd(),
		c.ordersCmd(),
		c.migrateCmd(),
	)

	return root
}

const skipAppAnnotation = "notesmarket/skip-app"

// boot loads the config and, unless the command opts out, the App.
func (c *cli) boot(cmd *cobra.Command) error {
	cfg, err := config.Load(c.jsonPath, c.envPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	c.cfg = cfg

	log := logger.New(cfg.AppEnv, cfg.LogLevel, cmd.ErrOrStderr())
	ctx := logger.WithContext(cmd.Context(), log)
	cmd.SetContext(ctx)

	if _, ok := cmd.Annotations[skipAppAnnotation]; ok {
		return nil
	}

	c.registry = prometheus.NewRegistry()
	c.app, err = app.New(ctx, cfg, log, c.registry)
	if err != nil {
		return fmt.Errorf("app.New: %w", err)
	}

	return nil
}

func (c *cli) shutdown() error {
	if c.app == nil {
		return nil
	}

	var errs []error
	if path := c.cfg.MetricsTextfile; path != "" {
		if err := metrics.WriteTextfile(path, c.registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics.WriteTextfile: %w", err))
		}
	}
	if err := c.app.Close(); err != nil {
		errs = append(errs, fmt.Errorf("app.Close: %w", err))
	}

	return errors.Join(errs...)
}
