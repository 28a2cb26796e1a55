package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tkarls/mediagrid/internal/adapters/serverapi"
	"github.com/tkarls/mediagrid/internal/engine"
	"github.com/tkarls/mediagrid/internal/grid"
	"github.com/tkarls/mediagrid/internal/mgd"
	"go.uber.org/zap"
)

type app struct {
	log     *zap.Logger
	api     *serverapi.Client
	engine  *engine.Engine
	timeout time.Duration
}

type appKey struct{}

func main() {
	root := &cobra.Command{
		Use:           "mediagrid",
		Short:         "Browse a remote media server's catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		configPath string
		serverURL  string
		timeout    time.Duration
		logLevel   string
		noColor    bool
	)

	defaultConfig, err := mgd.DefaultConfigPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "config file path")
	root.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "media server URL override")
	root.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "request timeout")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if noColor {
			pterm.DisableColor()
		}

		cfg, err := mgd.LoadConfig(configPath, true)
		if err != nil {
			return err
		}
		if serverURL != "" {
			cfg.Server.URL = serverURL
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if cfg.Server.URL == "" {
			return fmt.Errorf("server URL is required (set --server or config)")
		}
		if cfg.Server.TimeoutMS > 0 {
			timeout = time.Duration(cfg.Server.TimeoutMS) * time.Millisecond
		}

		log := mgd.NewLogger(cfg.Log)
		api, err := serverapi.NewClient(log, serverapi.Config{BaseURL: cfg.Server.URL, Timeout: timeout})
		if err != nil {
			return err
		}
		eng := engine.New(log, api, engine.Config{
			Notifier:          grid.NopNotifier{},
			ThumbTTL:          time.Duration(cfg.Cache.ThumbTTLMS) * time.Millisecond,
			SlideshowInterval: time.Duration(cfg.Slideshow.IntervalMS) * time.Millisecond,
			Notice: func(msg string) {
				pterm.Info.Printfln("%s", msg)
			},
		})

		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{
			log:     log,
			api:     api,
			engine:  eng,
			timeout: timeout,
		}))
		return nil
	}

	root.AddCommand(treeCommand())
	root.AddCommand(lsCommand())
	root.AddCommand(viewCommand())
	root.AddCommand(thumbCommand())
	root.AddCommand(urlCommand())

	if err := root.Execute(); err != nil {
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}
}

func fromContext(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
