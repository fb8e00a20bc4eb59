package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spent-dev/spent/internal/config"
	"github.com/spent-dev/spent/internal/tui/theme"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write one setting to the config file",
	Long:  "Keys: api.base_url, general.page_size, general.default_time_filter, appearance.theme",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "api.base_url":
		fmt.Println(cfg.API.BaseURL)
	case "general.page_size":
		fmt.Println(cfg.General.PageSize)
	case "general.default_time_filter":
		fmt.Println(cfg.General.DefaultTimeFilter)
	case "appearance.theme":
		fmt.Println(cfg.Appearance.Theme)
	default:
		return fmt.Errorf("unknown key %q", args[0])
	}
	return nil
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", cfg.API.BaseURL)
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Page size:           %d\n", cfg.General.PageSize)
	fmt.Printf("    Default time filter: %s\n", cfg.General.DefaultTimeFilter)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Printf("  State database: %s\n", config.StatePath())
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "general.page_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("page_size must be a positive integer, got %q", value)
		}
		cfg.General.PageSize = n
	case "general.default_time_filter":
		if _, err := parseTimeFilter(value); err != nil {
			return err
		}
		cfg.General.DefaultTimeFilter = value
	case "appearance.theme":
		known := false
		for _, t := range theme.All {
			if t.Name == value {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown theme %q", value)
		}
		cfg.Appearance.Theme = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
