package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/1broseidon/deskswap/internal/ipc"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Short:   "List and edit workspaces",
	GroupID: "workspaces",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitors and their workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := ipc.NewClient().ListMonitors()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(data)
		}
		printMonitors(data.Monitors)
		return nil
	},
}

var workspaceAddMonitor int

var workspaceAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a workspace to a monitor",
	Long: `Add an empty workspace. Without --monitor the workspace goes to the
monitor under the mouse cursor. An empty name becomes "Workspace N".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, "")

		var monitor *int
		if cmd.Flags().Changed("monitor") {
			if workspaceAddMonitor < 0 {
				return usagef("--monitor must be >= 0")
			}
			monitor = &workspaceAddMonitor
		}

		data, err := ipc.NewClient().AddWorkspace(monitor, name, "")
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(data)
		}
		if !data.Added {
			PrintWarning("no monitor under the cursor; nothing added")
			return nil
		}
		PrintSuccess(fmt.Sprintf("added workspace %s", data.ID))
		return nil
	},
}

var workspaceRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWorkspaceID(args[0])
		if err != nil {
			return err
		}
		found, err := ipc.NewClient().RenameWorkspace(id, args[1], "")
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("workspace %s not found", id)
		}
		PrintSuccess(fmt.Sprintf("renamed workspace to %q", args[1]))
		return nil
	},
}

var workspaceRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a workspace and show its windows",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseWorkspaceID(args[0])
		if err != nil {
			return err
		}
		found, err := ipc.NewClient().RemoveWorkspace(id, "")
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("workspace %s not found", id)
		}
		PrintSuccess("workspace removed")
		return nil
	},
}

func init() {
	workspaceAddCmd.Flags().IntVar(&workspaceAddMonitor, "monitor", 0, "Monitor id (default: monitor under the cursor)")

	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceRenameCmd)
	workspaceCmd.AddCommand(workspaceRemoveCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func parseWorkspaceID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, usagef("invalid workspace id %q", raw)
	}
	return id, nil
}

func printMonitors(monitors []ipc.MonitorInfo) {
	for _, mon := range monitors {
		title := fmt.Sprintf("Monitor %d", mon.ID)
		if mon.Detached {
			title += " (detached)"
		}
		PrintSection(title)
		for _, ws := range mon.Workspaces {
			marker := "  "
			if ws.Active {
				marker = activeColor.Sprint("● ")
			}
			fmt.Printf("  %s%-20s %s  %s\n", marker, ws.Name,
				valueColor.Sprint(ws.ID.String()),
				infoColor.Sprintf("%d windows", ws.WindowCount))
		}
	}
}
