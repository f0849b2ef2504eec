// Root of command-line argument parsing.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/neonvault/config"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
)

var cfgDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "neonvault",
	Short: "Authorization gate in front of object storage",
	Long: `neonvault verifies access assertions, rate limits callers and serves
owner-scoped object operations backed by S3-compatible storage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(cfgDir); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		cfg := config.GetConfig()
		if err := logger.InitLogger(cfg.Log.Dir, cfg.Log.Level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Info("Configuration loaded",
			zap.String("environment", cfg.Environment),
			zap.String("command", cmd.Name()))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(config.GetConfig())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "config", "directory holding config.yaml")
}
