package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskswap/internal/config"
	"github.com/1broseidon/deskswap/internal/ipc"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Validate, print and explain configuration",
	GroupID: "config",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("config ok (%d files)", len(res.Files)))
		return nil
	},
}

var configPrintDefaults bool

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if !configPrintDefaults {
			res, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = res.Config
		}
		if jsonOutput {
			return outputJSON(cfg)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configExplainCmd = &cobra.Command{
	Use:   "explain <yaml.path>",
	Short: "Explain where a config value comes from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		value, src, err := config.Explain(res, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(map[string]any{"path": args[0], "source": src.Describe(), "value": value})
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Printf("path: %s\n", args[0])
		fmt.Printf("source: %s\n", src.Describe())
		fmt.Printf("value:\n%s", string(out))
		return nil
	},
}

var hotkeyCmd = &cobra.Command{
	Use:     "hotkey",
	Short:   "Show or change global hotkeys",
	GroupID: "config",
}

var hotkeyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configured hotkeys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		bindings := res.Config.HotkeyBindings()
		if jsonOutput {
			return outputJSON(bindings)
		}
		names := make([]string, 0, len(bindings))
		for name := range bindings {
			names = append(names, name)
		}
		sort.Strings(names)
		PrintSection("Hotkeys")
		for _, name := range names {
			keys := bindings[name]
			if keys == "" {
				keys = "(unbound)"
			}
			PrintLabelValue(name, keys)
		}
		return nil
	},
}

var hotkeySetCmd = &cobra.Command{
	Use:   "set <trigger> <keys>",
	Short: "Bind a trigger to a key sequence and reload the daemon",
	Long: `Bind next_workspace, new_workspace or reset to an xgbutil key sequence
such as "Mod4-grave" or "Control-Mod1-q". An empty sequence unbinds the
trigger. The config file is rewritten and a running daemon is reloaded.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		res, err := config.LoadFromPath(path)
		if err != nil {
			return err
		}
		cfg := res.Config
		if err := cfg.SetHotkey(args[0], args[1]); err != nil {
			return usagef("%v", err)
		}
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("%s saved to %s", args[0], path))

		if err := ipc.NewClient().Reload(); err != nil {
			PrintWarning(fmt.Sprintf("daemon not reloaded: %v", err))
		}
		return nil
	},
}

func init() {
	configPrintCmd.Flags().BoolVar(&configPrintDefaults, "defaults", false, "Print built-in defaults (no files)")

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPrintCmd)
	configCmd.AddCommand(configExplainCmd)
	rootCmd.AddCommand(configCmd)

	hotkeyCmd.AddCommand(hotkeyShowCmd)
	hotkeyCmd.AddCommand(hotkeySetCmd)
	rootCmd.AddCommand(hotkeyCmd)
}
