package cli

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/lazytodo/internal/app"
	"github.com/Joseda-hg/lazytodo/internal/config"
	"github.com/Joseda-hg/lazytodo/internal/tui"
	"github.com/Joseda-hg/lazytodo/internal/web"
)

type rootOptions struct {
	configPath string
	dbPath     string
	storage    string
	web        bool
	webOnly    bool
	port       int
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lazytodo",
		Short: "lazytodo - tasks and categories in the terminal",
		Long: `lazytodo keeps dated, categorized tasks in a local snapshot store.

Run without a subcommand to open the terminal UI; pass --web to serve the
HTTP API next to it or --web-only to serve it alone.`,
		Version:       version,
		RunE:          func(cmd *cobra.Command, args []string) error { return runInteractive(cmd, opts) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite db path")
	cmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "storage backend: sqlite, file or memory")
	cmd.Flags().BoolVar(&opts.web, "web", false, "enable web server")
	cmd.Flags().BoolVar(&opts.webOnly, "web-only", false, "run web server only")
	cmd.Flags().IntVar(&opts.port, "port", 0, "web server port")

	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newDoneCmd(opts))
	cmd.AddCommand(newEditCmd(opts))
	cmd.AddCommand(newRmCmd(opts))
	cmd.AddCommand(newCategoryCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newInfoCmd(opts))

	return cmd
}

// loadConfig reads the config file, applies flag overrides and writes the
// result back so the next run starts from the same settings.
func loadConfig(opts *rootOptions) (config.Config, string, error) {
	cfgPath := opts.configPath
	if cfgPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return config.Config{}, "", err
		}
		cfgPath = path
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, "", err
	}

	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.storage != "" {
		cfg.Storage = opts.storage
	}
	if opts.web || opts.webOnly {
		cfg.WebEnabled = true
	}
	if opts.port != 0 {
		cfg.WebPort = opts.port
	}
	cfg.ApplyDefaults(cfgPath)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", err
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return config.Config{}, "", err
	}
	return cfg, cfgPath, nil
}

// openSession opens the stores for a one-shot subcommand. Adapter warnings go
// to the command's stderr.
func openSession(cmd *cobra.Command, opts *rootOptions) (*app.App, error) {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), "lazytodo: ", log.LstdFlags)
	return app.Open(cmd.Context(), cfg, logger)
}

func warnPersist(cmd *cobra.Command, session *app.App) {
	if err := session.PersistErr(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: changes were not saved: %v\n", err)
	}
}

func runInteractive(cmd *cobra.Command, opts *rootOptions) error {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "lazytodo: ", log.LstdFlags)
	if !opts.webOnly {
		if err := config.EnsureDir(cfg.LogPath); err != nil {
			return err
		}
		logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		logger = log.New(logFile, "lazytodo: ", log.LstdFlags)
	}

	session, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if cfg.WebEnabled {
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		handler := web.NewServer(session.Tasks, session.Categories).Handler()
		if opts.webOnly {
			logger.Printf("Web server running at http://localhost%s", addr)
			return http.ListenAndServe(addr, handler)
		}

		go func() {
			logger.Printf("Web server running at http://localhost%s", addr)
			if err := http.ListenAndServe(addr, handler); err != nil {
				logger.Printf("web server error: %v", err)
			}
		}()
	}

	return tui.Run(session.Tasks, session.Categories)
}
