package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isuhosts/isuhosts/internal/config"
	"github.com/isuhosts/isuhosts/internal/fleet"
	"github.com/isuhosts/isuhosts/internal/logging"
)

// appVersion is set at compile time via ldflags
var appVersion = "dev"

var (
	// Global flags
	configPath   string
	basePath     string
	prefix       string
	indexOffset  int
	loopbackSelf bool
	backupDir    string
	maxBackups   int
	verbose      bool
	quiet        bool
	jsonLog      bool
)

var rootCmd = &cobra.Command{
	Use:   "isuhosts [ip...]",
	Short: "Keep the hosts files of a server fleet in sync",
	Long: `isuhosts rewrites the etc/hosts file of every server in a fleet so that
each server resolves each peer as <prefix><n>, where n is the peer's 1-based
position in the address list. Entries live in a block headed by the comment
"# ISUCON Servers"; everything else in the file is preserved.

Server n's file is read from <config-base-path>/<prefix><n+offset>/etc/hosts.

Run without a subcommand to print the rewritten files to stdout.`,
	Version:       appVersion,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Options{Verbose: verbose, Quiet: quiet, JSON: jsonLog})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && configPath == "" {
			return cmd.Help()
		}
		return runPrint(cmd, args)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file (flags override its values)")
	flags.StringVar(&basePath, "config-base-path", config.DefaultBasePath, "Directory holding one subdirectory per server")
	flags.StringVar(&prefix, "hostname-prefix", config.DefaultHostnamePrefix, "Prefix of generated hostnames")
	flags.IntVar(&indexOffset, "index-offset", config.DefaultIndexOffset, "Server n reads <prefix><n+offset>/etc/hosts (0 or 1)")
	flags.BoolVar(&loopbackSelf, "loopback-self", false, "Map each server's own hostname to the loopback address")
	flags.StringVar(&backupDir, "backup-dir", "", "Keep backups of rewritten files under this directory")
	flags.IntVar(&maxBackups, "max-backups", config.DefaultMaxBackups, "Backups kept per server (0 keeps all)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	flags.BoolVar(&jsonLog, "json-log", false, "Log in JSON format")

	rootCmd.Flags().BoolVar(&printDiff, "diff", false, "Print unified diffs instead of full files")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfig builds the run configuration: defaults, then the config
// file, then explicitly set flags, then positional peers.
func resolveConfig(cmd *cobra.Command, peers []string) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.ReadFile(configPath); err != nil {
			return nil, err
		}
	}

	overlayFlags(cmd, cfg)
	if len(peers) > 0 {
		cfg.Peers = peers
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// overlayFlags copies flags set on the command line into cfg.
func overlayFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("config-base-path") {
		cfg.BasePath = basePath
	}
	if flags.Changed("hostname-prefix") {
		cfg.HostnamePrefix = prefix
	}
	if flags.Changed("index-offset") {
		cfg.IndexOffset = indexOffset
	}
	if flags.Changed("loopback-self") {
		cfg.LoopbackSelf = loopbackSelf
	}
	if flags.Changed("backup-dir") {
		cfg.Backup.Dir = backupDir
	}
	if flags.Changed("max-backups") {
		cfg.Backup.Max = maxBackups
	}
}

func newFleet(cfg *config.Config) (*fleet.Fleet, error) {
	opts, err := fleet.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return fleet.New(opts), nil
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
