// Package climb is the reference front-end consuming the core engine
// (pkg/climb): a cobra command tree for discovering CLIs, exploring a
// CommandNode tree with a huh form, running a resolved argv, and
// inspecting the discovery cache. It demonstrates what the core exposes;
// it is explicitly not part of the core itself (spec §1).
package climb

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/climb/internal/config"
)

// Version is set at build time via -ldflags "-X .../cmd/climb.Version=v1.0.0".
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "climb",
	Short: "climb — universal terminal explorer for any CLI",
	Long:  "climb discovers a command-line tool's own command tree by parsing its --help output, then lets you navigate subcommands, fill in options, and run them safely.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: climb.json5 or $CLIMB_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(exploreCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(versionCmd())
}

// initLogging configures the package-level slog default exactly as the
// teacher's cmd/gateway.go does: a text handler over stdout, level gated
// by --verbose.
func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
}

func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func loadConfig() *config.Config {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		slog.Error("config.load_failed", "error", err)
		return config.Default()
	}
	return cfg
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("climb %s\n", Version)
		},
	}
}

// Execute runs the root cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
