package inboxtui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/config"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/devserver"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/poller"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/present"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/logging"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/metrics"
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"endpoint":        "endpoint",
	"token":           "token",
	"user":            "user_id",
	"file":            "file",
	"poll-interval":   "poll_interval_ms",
	"request-timeout": "request_timeout",
	"stale-policy":    "stale_policy",
	"theme":           "tui.theme",
	"session-file":    "tui.session_file",
	"log-level":       "logging.level",
	"log-format":      "logging.format",
	"log-file":        "logging.file",
	"metrics-addr":    "metrics.addr",
}

type rootOptions struct {
	configFile string
}

func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "inbox",
		Short:         "conversation inbox",
		Long:          "Terminal inbox that polls the conversations endpoint and keeps a searchable, recency-ordered list.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInbox(cmd, opts, version)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/inbox/config.yaml)")
	pf.String("endpoint", "", "conversations endpoint URL")
	pf.String("token", "", "bearer token for the endpoint")
	pf.String("user", "", "viewing user id")
	pf.String("file", "", "read snapshots from a JSON file instead of the endpoint")
	pf.Int("poll-interval", 0, "poll interval in milliseconds (default 4000)")
	pf.Duration("request-timeout", 0, "per-request timeout (default: none)")
	pf.String("stale-policy", "", "discard-stale|last-write-wins")
	pf.String("theme", "", "theme: default|high-contrast")
	pf.String("session-file", "", "where the open conversation and search are remembered")
	pf.String("log-level", "", "log level: debug|info|warn|error")
	pf.String("log-format", "", "log format: console|json")
	pf.String("log-file", "", "log file (the TUI logs nowhere without one)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")

	cmd.AddCommand(newListCmd(opts, version), newServeFixtureCmd(opts))
	return cmd
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	loader := config.NewLoader()
	if opts.configFile != "" {
		loader.SetConfigFile(opts.configFile)
	}
	for name, key := range flagKeys {
		loader.BindFlag(key, cmd.Flag(name))
	}
	return loader.Load()
}

// setupLogging points the global logger at the log file, or at fallback when
// there is none. The returned func closes the file.
func setupLogging(cfg *config.Config, fallback io.Writer) (func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Output = fallback

	closeFn := func() {}
	if cfg.Logging.File != "" {
		f, err := logging.OpenFile(cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		logCfg.Output = f
		closeFn = func() { _ = f.Close() }
	} else if fallback == nil {
		logCfg.Level = "disabled"
		logCfg.Output = io.Discard
	}
	logging.Init(logCfg)
	return closeFn, nil
}

func runInbox(cmd *cobra.Command, opts *rootOptions, version string) error {
	if !hasTTY() {
		return fmt.Errorf("inbox needs an interactive terminal; use `inbox list` for plain output")
	}
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	fetcher, err := buildFetcher(cfg, version)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store := poller.NewStore()
	var observer poller.Observer
	if cfg.Metrics.Addr != "" {
		obs := metrics.NewPollObserver(store)
		observer = obs
		go func() {
			if err := obs.Serve(ctx, cfg.Metrics.Addr); err != nil {
				mlog := logging.Component("metrics")
				mlog.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	log := logging.WithUser(cfg.UserID)
	log.Info().Str("source", describeSource(fetcher)).Dur("interval", cfg.PollInterval()).Msg("inbox starting")

	return Run(Config{
		Fetcher:      fetcher,
		UserID:       cfg.UserID,
		Theme:        cfg.TUI.Theme,
		PollInterval: cfg.PollInterval(),
		StalePolicy:  cfg.Policy(),
		Observer:     observer,
		Store:        store,
		Session:      config.NewSessionStore(cfg.TUI.SessionFile),
		OnSelect: func(sel present.Selection) {
			log.Info().
				Str("conversation_id", sel.ConversationID).
				Str("other_user_id", sel.OtherUserID).
				Msg("conversation opened")
		},
	})
}

func newListCmd(opts *rootOptions, version string) *cobra.Command {
	var (
		search string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch once and print the conversation list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			closeLog, err := setupLogging(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			fetcher, err := buildFetcher(cfg, version)
			if err != nil {
				return err
			}
			timeout := cfg.RequestTimeout
			if timeout <= 0 {
				timeout = defaultListTimeout
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			conversations, err := fetcher.FetchConversations(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return writeConversationList(out, conversations, listOptions{
				Query: search,
				Limit: limit,
				Width: terminalWidth(out),
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "only show conversations whose name or last message matches")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many rows (0 = all)")
	return cmd
}

func newServeFixtureCmd(opts *rootOptions) *cobra.Command {
	var (
		addr         string
		path         string
		rateLimit    int
		origins      []string
		requireToken string
	)
	cmd := &cobra.Command{
		Use:   "serve-fixture",
		Short: "Serve a snapshot file as the conversations endpoint for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cfg.File == "" {
				return fmt.Errorf("--file is required")
			}
			closeLog, err := setupLogging(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			provider, err := data.NewFileProvider(data.FileProviderConfig{Path: cfg.File})
			if err != nil {
				return err
			}
			srv := devserver.New(provider, devserver.Config{
				Addr:           addr,
				Path:           path,
				RateLimit:      rateLimit,
				AllowedOrigins: origins,
				Token:          requireToken,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", devserver.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&path, "path", "/api/conversations", "path the snapshot is served on")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "requests per client per minute (default 120, negative disables)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "CORS origins (default any http/https)")
	cmd.Flags().StringVar(&requireToken, "require-token", "", "reject requests without this bearer token")
	return cmd
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
