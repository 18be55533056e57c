package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config

	rootCmd = &cobra.Command{
		Use:   "device-health",
		Short: "Device Health Service - score customer devices and raise loyalty alerts",
		Long: `Device Health Service collects device telemetry and diagnostic quizzes from
loyalty customers, scores device health, raises alerts for the customer's centro
and awards badges.

It serves an HTTP action API and a gRPC API, and ships a desktop agent that
reports the host it runs on.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			// the logger reads these once, on first use
			for key, value := range map[string]string{
				common.EnvKeyLogDir:   cfg.Log.Dir,
				common.EnvKeyLogLevel: cfg.Log.Level,
			} {
				if value == "" {
					continue
				}
				if err := os.Setenv(key, value); err != nil {
					return err
				}
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file in yaml, DH_ prefixed env vars override it")

	rootCmd.AddCommand(serveCmd, migrateCmd, agentCmd, tokenCmd)
}

func main() {
	defer common.SyncLogger()

	if err := rootCmd.Execute(); err != nil {
		common.SyncLogger()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
