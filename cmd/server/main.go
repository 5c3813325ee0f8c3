package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lanpresence/internal/config"
	"lanpresence/internal/logger"
)

// options holds command line overrides. Empty values keep the config file's.
type options struct {
	configPath string
	addr       string
	backend    string
	redisAddr  string
	dbPath     string
	logLevel   string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code
func run(args []string) int {
	cmd := rootCmd()
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		l := logger.GetLogger()
		l.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "lanpresence",
		Short:         "Discover devices registered from the same network",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file path (default: search standard locations)")
	flags.StringVar(&opts.addr, "addr", "", "HTTP listen address")
	flags.StringVar(&opts.backend, "store", "", "Presence store backend: redis, sqlite or memory")
	flags.StringVar(&opts.redisAddr, "redis-addr", "", "Redis address (host:port)")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite database path")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(serveCmd(opts), configCmd(opts))
	return cmd
}

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Print the effective configuration as YAML, or save it with --write",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if write {
				target := config.DefaultConfigPath()
				if len(args) == 1 {
					target = args[0]
				}
				if err := cfg.Save(target); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Fprintf(out, "Wrote %s\n", target)
				return nil
			}
			if len(args) == 1 {
				return fmt.Errorf("path argument requires --write")
			}

			if path != "" {
				fmt.Fprintf(out, "# loaded from %s\n", path)
			} else {
				fmt.Fprintln(out, "# no config file found, using defaults")
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Save the effective config (default path: user config directory)")
	return cmd
}

// loadConfig resolves file, environment and flags, in increasing priority
func loadConfig(opts *options) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if opts.configPath != "" {
		cfg, path, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	cfg.ApplyEnv()
	opts.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}

func (o *options) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.backend != "" {
		cfg.Store.Backend = o.backend
	}
	if o.redisAddr != "" {
		cfg.Store.Redis.Addr = o.redisAddr
	}
	if o.dbPath != "" {
		cfg.Store.SQLite.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}
