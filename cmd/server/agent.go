package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/agent"
	"liyu1981.xyz/device-health-service/pkg/common"
)

var (
	agentServerURL string
	agentEmail     string
	agentCentroID  string
	agentDeviceID  string
	agentDiskPath  string
	agentInterval  time.Duration

	agentCmd = &cobra.Command{
		Use:   "agent",
		Short: "Report this host's disk and memory as a desktop_agent device",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := common.GetLoggerWith(common.LoggerNameAgent)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := &agent.Agent{
				Sampler:       agent.NewHostSampler(agentDiskPath),
				Client:        agent.NewClient(agentServerURL),
				CustomerEmail: agentEmail,
				CentroID:      agentCentroID,
				DeviceID:      agentDeviceID,
			}

			logger.Info("Starting agent",
				zap.String("server", agentServerURL),
				zap.String("centro_id", agentCentroID),
				zap.Duration("interval", agentInterval),
			)
			return a.Run(ctx, agentInterval)
		},
	}
)

func init() {
	agentCmd.Flags().StringVar(&agentServerURL, "server", "http://127.0.0.1:1080", "base url of the HTTP API")
	agentCmd.Flags().StringVar(&agentEmail, "email", "", "loyalty customer email the device belongs to")
	agentCmd.Flags().StringVar(&agentCentroID, "centro-id", "", "centro of the customer's loyalty card")
	agentCmd.Flags().StringVar(&agentDeviceID, "device-id", "", "device id, defaults to the host id")
	agentCmd.Flags().StringVar(&agentDiskPath, "disk-path", agent.DefaultDiskPath, "mount point whose usage is reported")
	agentCmd.Flags().DurationVar(&agentInterval, "interval", 0, "report every interval, 0 reports once")
	_ = agentCmd.MarkFlagRequired("email")
	_ = agentCmd.MarkFlagRequired("centro-id")
}
