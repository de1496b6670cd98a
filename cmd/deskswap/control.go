package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskswap/internal/ipc"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show daemon status",
	Args:    cobra.NoArgs,
	GroupID: "daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().GetStatus()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(status)
		}

		PrintSection("Daemon")
		PrintLabelValue("Uptime", (time.Duration(status.UptimeSeconds) * time.Second).String())
		PrintLabelValue("Monitors", fmt.Sprint(status.Monitors))
		PrintLabelValue("Workspaces", fmt.Sprint(status.Workspaces))
		PrintLabelValue("Hidden windows", fmt.Sprint(status.HiddenWindows))
		if status.EditSession != nil {
			PrintLabelValue("Edit session", fmt.Sprintf("%s (since %s)", status.EditSession.Owner, status.EditSession.Started.Format(time.Kitchen)))
		}
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:     "next",
	Short:   "Switch the monitor under the cursor to its next workspace",
	Args:    cobra.NoArgs,
	GroupID: "workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := ipc.NewClient().NextWorkspace()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(res)
		}
		if res.NoOp {
			PrintWarning("no monitor under the cursor")
			return nil
		}
		PrintSuccess(fmt.Sprintf("monitor %d: hid %d windows, showed %d", res.MonitorID, len(res.Hidden), len(res.Shown)))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Show all hidden windows and empty every workspace",
	Args:    cobra.NoArgs,
	GroupID: "workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ipc.NewClient().Reset(); err != nil {
			return err
		}
		PrintSuccess("all windows restored")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(resetCmd)
}
